package fediverse

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fedigrab-cli/fedigrab/instance"
)

func TestMatch(t *testing.T) {
	Convey("Full post URLs parse across every path shape", t, func() {
		cases := []struct {
			url  string
			host string
			id   string
		}{
			{"https://mstdn.jp/@nao20010128nao/105395495018076252", "mstdn.jp", "105395495018076252"},
			{"https://mstdn.jp/web/statuses/105395503690401921", "mstdn.jp", "105395503690401921"},
			{"https://mastodon.technology/users/sur/statuses/104142373988766660", "mastodon.technology", "104142373988766660"},
			{"https://gab.com/SomeUser/posts/104050493537905702", "gab.com", "104050493537905702"},
			{"https://pleroma.soykaf.com/notice/9xradILBC9aIhw1yc2", "pleroma.soykaf.com", "9xradILBC9aIhw1yc2"},
			{"https://framatube.org/videos/watch/9c9de5e8-0a1e-484a-b099-e80766180a6d", "framatube.org", "9c9de5e8-0a1e-484a-b099-e80766180a6d"},
		}

		for _, c := range cases {
			ref, err := Match(c.url)

			So(err, ShouldBeNil)
			So(ref.Host, ShouldEqual, c.host)
			So(ref.ID, ShouldEqual, c.id)
			So(ref.URL, ShouldEqual, c.url)
			So(ref.ShortForm, ShouldBeFalse)
		}
	})

	Convey("objects/ and activities/ URLs are flagged as permalinks", t, func() {
		for _, u := range []string{
			"https://pleroma.example/objects/9c9de5e8-0a1e-484a-b099-e80766180a6d",
			"https://pleroma.example/activities/9c9de5e8-0a1e-484a-b099-e80766180a6d",
		} {
			ref, err := Match(u)

			So(err, ShouldBeNil)
			So(ref.Permalink, ShouldBeTrue)
		}

		ref, err := Match("https://pleroma.example/notice/9xradILBC9aIhw1yc2")
		So(err, ShouldBeNil)
		So(ref.Permalink, ShouldBeFalse)
	})

	Convey("The short form parses host and id", t, func() {
		ref, err := Match("mstdn.jp:105395495018076252")

		So(err, ShouldBeNil)
		So(ref.Host, ShouldEqual, "mstdn.jp")
		So(ref.ID, ShouldEqual, "105395495018076252")
		So(ref.ShortForm, ShouldBeTrue)
		So(ref.URL, ShouldBeEmpty)
	})

	Convey("A software prefix pins the kind without detection", t, func() {
		cases := map[string]instance.Kind{
			"mastodon:social.example:123":     instance.Mastodon,
			"mstdn:social.example:123":        instance.Mastodon,
			"pleroma:fe.example:9xradIL":      instance.Pleroma,
			"peertube:tube.example:9c9d-e5e8": instance.PeerTube,
		}

		for arg, kind := range cases {
			ref, err := Match(arg)

			So(err, ShouldBeNil)
			So(ref.Kind, ShouldEqual, kind)
			So(ref.ShortForm, ShouldBeTrue)
		}
	})

	Convey("Hosts from the static list carry their kind", t, func() {
		ref, err := Match("https://mstdn.jp/@someone/105395495018076252")

		So(err, ShouldBeNil)
		So(ref.Kind, ShouldEqual, instance.Mastodon)
	})

	Convey("Host casing is normalized", t, func() {
		ref, err := Match("https://MSTDN.jp/@someone/105395495018076252")

		So(err, ShouldBeNil)
		So(ref.Host, ShouldEqual, "mstdn.jp")
	})

	Convey("Unrelated input is rejected", t, func() {
		for _, arg := range []string{
			"https://example.com/watch?v=dQw4w9WgXcQ",
			"https://mstdn.jp/about",
			"not a url at all",
			"",
		} {
			_, err := Match(arg)

			So(errors.Is(err, ErrUnrecognizedURL), ShouldBeTrue)
		}
	})
}
