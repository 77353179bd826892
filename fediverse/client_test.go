package fediverse

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func statusFixture(authHeader *string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*authHeader = r.Header.Get("Authorization")
		fmt.Fprint(w, `{
			"id": "105395495018076252",
			"content": "<p>hello</p>",
			"created_at": "2020-12-20T12:05:54.000Z",
			"account": {"username": "nao", "display_name": "Nao", "url": "https://mstdn.jp/@nao"},
			"media_attachments": [{
				"id": "22345792",
				"type": "video",
				"url": "https://files.example/original.mp4",
				"preview_url": "https://files.example/small.png",
				"meta": {"original": {"width": 640, "height": 480, "duration": 23.2, "bitrate": 1679}}
			}],
			"favourites_count": 2,
			"replies_count": 1,
			"reblogs_count": 3
		}`)
	}
}

func TestClientStatus(t *testing.T) {
	Convey("Given a status endpoint", t, func() {
		var authHeader string
		srv := httptest.NewServer(statusFixture(&authHeader))
		defer srv.Close()

		restore := scheme
		scheme = "http"
		defer func() { scheme = restore }()

		host := srv.Listener.Addr().String()

		Convey("An anonymous client fetches without credentials", func() {
			status, err := NewClient(nil).Status(context.Background(), host, "105395495018076252")

			So(err, ShouldBeNil)
			So(authHeader, ShouldBeEmpty)
			So(status.Content, ShouldEqual, "<p>hello</p>")
			So(status.Account.Username, ShouldEqual, "nao")
			So(status.MediaAttachments, ShouldHaveLength, 1)

			meta, ok := status.MediaAttachments[0].Meta.Get()
			So(ok, ShouldBeTrue)
			So(meta.Original.Width, ShouldEqual, 640)
			So(meta.Original.Duration, ShouldAlmostEqual, 23.2)
		})

		Convey("The home instance sees the Bearer token", func() {
			session := homeSession(srv)

			_, err := NewClient(session).Status(context.Background(), host, "105395495018076252")

			So(err, ShouldBeNil)
			So(authHeader, ShouldEqual, "Bearer home-token")
		})

		Convey("A foreign instance never sees the credential", func() {
			foreign := httptest.NewServer(statusFixture(&authHeader))
			defer foreign.Close()

			session := homeSession(srv)

			_, err := NewClient(session).Status(context.Background(), foreign.Listener.Addr().String(), "105395495018076252")

			So(err, ShouldBeNil)
			So(authHeader, ShouldBeEmpty)
		})
	})

	Convey("A non-200 response is an error", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		restore := scheme
		scheme = "http"
		defer func() { scheme = restore }()

		_, err := NewClient(nil).Status(context.Background(), srv.Listener.Addr().String(), "999")

		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "unexpected response 404")
	})
}

func TestCanonicalURL(t *testing.T) {
	Convey("The og:url property is followed from a permalink page", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html><head>
				<meta property="og:url" content="https://pleroma.example/notice/9xradILBC9aIhw1yc2">
			</head></html>`)
		}))
		defer srv.Close()

		canonical, err := NewClient(nil).CanonicalURL(context.Background(), srv.URL+"/objects/9c9de5e8")

		So(err, ShouldBeNil)
		So(canonical, ShouldEqual, "https://pleroma.example/notice/9xradILBC9aIhw1yc2")
	})

	Convey("A redirecting permalink yields the redirect target without following it", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "https://pleroma.example/notice/9xradILBC9aIhw1yc2", http.StatusFound)
		}))
		defer srv.Close()

		canonical, err := NewClient(nil).CanonicalURL(context.Background(), srv.URL+"/objects/9c9de5e8")

		So(err, ShouldBeNil)
		So(canonical, ShouldEqual, "https://pleroma.example/notice/9xradILBC9aIhw1yc2")
	})

	Convey("Reversed attribute order is handled", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<meta content="https://pleroma.example/notice/abc123" property="og:url">`)
		}))
		defer srv.Close()

		canonical, err := NewClient(nil).CanonicalURL(context.Background(), srv.URL)

		So(err, ShouldBeNil)
		So(canonical, ShouldEqual, "https://pleroma.example/notice/abc123")
	})

	Convey("A page without og:url reports it", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html><head><title>nothing</title></head></html>")
		}))
		defer srv.Close()

		_, err := NewClient(nil).CanonicalURL(context.Background(), srv.URL)

		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "og:url")
	})
}
