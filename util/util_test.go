package util

import (
	"regexp"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "post", "posts"), ShouldEqual, "1 post")
		So(Quantify(2, "post", "posts"), ShouldEqual, "2 posts")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestReGroups(t *testing.T) {
	Convey("ReGroups", t, func() {
		re := regexp.MustCompile(`(?P<host>[^:]+):(?P<id>\w+)`)
		groups := ReGroups(re, "mstdn.jp:105395495018076252")
		So(groups["host"], ShouldEqual, "mstdn.jp")
		So(groups["id"], ShouldEqual, "105395495018076252")
	})

	Convey("ReGroups with no match", t, func() {
		re := regexp.MustCompile(`(?P<host>\d+)`)
		groups := ReGroups(re, "no digits here")
		So(groups, ShouldBeEmpty)
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
	})
}
