package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/fedigrab-cli/fedigrab/credential"
	"github.com/fedigrab-cli/fedigrab/instance"
)

func testApp() *credential.App {
	return &credential.App{ClientID: "cid", ClientSecret: "csecret"}
}

func staticPassword(pw string) PasswordSource {
	return func(string) (string, error) { return pw, nil }
}

// mastodonServer fakes the Mastodon sign-in flow end to end and counts
// hits on the token endpoint.
func mastodonServer(tokenCalls *int32, lastGrant *string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/authorize", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><form action="/auth/sign_in" method="post">
			<input type="hidden" name="authenticity_token" value="csrf-1">
			<input type="email" name="user[email]">
			<input type="password" name="user[password]">
		</form></body></html>`)
	})
	mux.HandleFunc("/auth/sign_in", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostFormValue("user[password]") != "hunter2" {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error":"invalid credentials"}`)
			return
		}
		http.Redirect(w, r, "/oauth/authorize/native?code=auth-code-1", http.StatusFound)
	})
	mux.HandleFunc("/oauth/authorize/native", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>code granted</body></html>")
	})
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(tokenCalls, 1)
		_ = r.ParseForm()
		if lastGrant != nil {
			*lastGrant = r.PostFormValue("grant_type")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":             "access-" + fmt.Sprint(atomic.LoadInt32(tokenCalls)),
			"token_type":               "Bearer",
			"expires_in":               3600,
			"refresh_token":            "refresh-1",
			"refresh_token_expires_in": 86400,
		})
	})
	return httptest.NewServer(mux)
}

func TestSessionLogin(t *testing.T) {
	Convey("Given a Mastodon home instance", t, func() {
		var tokenCalls int32
		var grant string
		srv := mastodonServer(&tokenCalls, &grant)
		defer srv.Close()

		login := credential.Login{User: "user@mail.example", Instance: "home.example"}
		session, err := NewSession(login, instance.Mastodon, staticPassword("hunter2"))
		So(err, ShouldBeNil)
		session.base = srv.URL
		session.app = testApp()

		Convey("The first authenticated call drives the full login", func() {
			header, err := session.Authorization(context.Background())

			So(err, ShouldBeNil)
			So(header, ShouldEqual, "Bearer access-1")
			So(session.State(), ShouldEqual, Authenticated)
			So(grant, ShouldEqual, "authorization_code")
			So(atomic.LoadInt32(&tokenCalls), ShouldEqual, 1)

			Convey("And a second call reuses the token without the network", func() {
				header, err := session.Authorization(context.Background())

				So(err, ShouldBeNil)
				So(header, ShouldEqual, "Bearer access-1")
				So(atomic.LoadInt32(&tokenCalls), ShouldEqual, 1)
			})
		})

		Convey("A wrong password surfaces the instance's error", func() {
			session.passwords = staticPassword("wrong")

			_, err := session.Authorization(context.Background())

			var authErr *AuthError
			So(errors.As(err, &authErr), ShouldBeTrue)
			So(authErr.StatusCode, ShouldEqual, http.StatusForbidden)
			So(authErr.Message, ShouldContainSubstring, "invalid credentials")
			So(session.State(), ShouldEqual, Anonymous)
		})
	})
}

func TestSessionRefresh(t *testing.T) {
	Convey("Given an authenticated session with a token inside the expiry margin", t, func() {
		var tokenCalls int32
		var grant string
		srv := mastodonServer(&tokenCalls, &grant)
		defer srv.Close()

		login := credential.Login{User: "user@mail.example", Instance: "home.example"}
		session, err := NewSession(login, instance.Mastodon, staticPassword("hunter2"))
		So(err, ShouldBeNil)
		session.base = srv.URL
		session.app = testApp()
		session.state = Authenticated
		session.token = &Token{
			AccessToken:     "stale",
			TokenType:       "Bearer",
			AccessExpiresAt: time.Now().Add(2 * time.Second),
			RefreshToken:    "refresh-0",
		}

		Convey("Two quick authenticated calls trigger exactly one refresh", func() {
			first, err := session.Authorization(context.Background())
			So(err, ShouldBeNil)

			second, err := session.Authorization(context.Background())
			So(err, ShouldBeNil)

			So(first, ShouldEqual, "Bearer access-1")
			So(second, ShouldEqual, first)
			So(grant, ShouldEqual, "refresh_token")
			So(atomic.LoadInt32(&tokenCalls), ShouldEqual, 1)
			So(session.State(), ShouldEqual, Authenticated)
		})

		Convey("A session with no refresh token demands reauthentication", func() {
			session.token.RefreshToken = ""

			_, err := session.Authorization(context.Background())

			So(errors.Is(err, ErrReauthenticationRequired), ShouldBeTrue)
			So(session.State(), ShouldEqual, Anonymous)
			So(atomic.LoadInt32(&tokenCalls), ShouldEqual, 0)
		})

		Convey("An expired refresh token demands reauthentication", func() {
			session.token.RefreshExpiresAt = time.Now().Add(-time.Minute)

			_, err := session.Authorization(context.Background())

			So(errors.Is(err, ErrReauthenticationRequired), ShouldBeTrue)
			So(session.State(), ShouldEqual, Anonymous)
		})

		Convey("A rejected refresh resets the session", func() {
			rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":"invalid_grant","error_description":"refresh token revoked"}`)
			}))
			defer rejecting.Close()
			session.base = rejecting.URL

			_, err := session.Authorization(context.Background())

			So(errors.Is(err, ErrReauthenticationRequired), ShouldBeTrue)
			So(session.State(), ShouldEqual, Anonymous)
			So(session.token, ShouldBeNil)
		})
	})

	Convey("A token without an expiry never refreshes", t, func() {
		login := credential.Login{User: "user@mail.example", Instance: "home.example"}
		session, err := NewSession(login, instance.Mastodon, staticPassword("hunter2"))
		So(err, ShouldBeNil)
		session.state = Authenticated
		session.token = &Token{AccessToken: "forever", TokenType: "Bearer"}

		header, err := session.Authorization(context.Background())

		So(err, ShouldBeNil)
		So(header, ShouldEqual, "Bearer forever")
	})
}

func TestSessionPleroma(t *testing.T) {
	Convey("Given a Pleroma home instance", t, func() {
		var tokenCalls int32
		mux := http.NewServeMux()
		mux.HandleFunc("/oauth/authorize", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				_ = r.ParseForm()
				if r.PostFormValue("authorization[password]") != "hunter2" {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				fmt.Fprint(w, "<html><body><h2>Token code is <br> pl-code-77</h2></body></html>")
				return
			}
			fmt.Fprint(w, `<html><body><form method="post" action="/oauth/authorize">
				<input type="hidden" name="csrf_token" value="csrf-2">
			</form></body></html>`)
		})
		mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&tokenCalls, 1)
			_ = r.ParseForm()
			if r.PostFormValue("code") != "pl-code-77" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token": "pl-access",
				"token_type":   "Bearer",
				"expires_in":   3600,
			})
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		login := credential.Login{User: "someone", Instance: "pleroma.example"}
		session, err := NewSession(login, instance.Pleroma, staticPassword("hunter2"))
		So(err, ShouldBeNil)
		session.base = srv.URL
		session.app = testApp()

		Convey("The authorization code is scraped from the page body", func() {
			header, err := session.Authorization(context.Background())

			So(err, ShouldBeNil)
			So(header, ShouldEqual, "Bearer pl-access")
			So(atomic.LoadInt32(&tokenCalls), ShouldEqual, 1)
		})
	})
}

func TestNewSession(t *testing.T) {
	Convey("Kinds without a login dialect are rejected up front", t, func() {
		login := credential.Login{User: "someone", Instance: "video.example"}

		_, err := NewSession(login, instance.PeerTube, nil)
		So(errors.Is(err, ErrUnsupportedLoginFlow), ShouldBeTrue)

		_, err = NewSession(login, instance.Unknown, nil)
		So(errors.Is(err, ErrUnsupportedLoginFlow), ShouldBeTrue)
	})
}
