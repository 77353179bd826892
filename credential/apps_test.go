package credential

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fedigrab-cli/fedigrab/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGetOrRegister(t *testing.T) {
	filesystem.SetMemMapFs()
	scheme = "http"
	defer func() { scheme = "https" }()

	Convey("GetOrRegister", t, func() {
		var registrations atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/v1/apps" || r.Method != http.MethodPost {
				http.NotFound(w, r)
				return
			}
			registrations.Add(1)
			fmt.Fprint(w, `{"client_id":"cid-123","client_secret":"csec-456"}`)
		}))
		defer server.Close()

		host := strings.TrimPrefix(server.URL, "http://")

		Convey("First call registers, second call reuses the cached credential", func() {
			app, err := GetOrRegister(context.Background(), host)
			So(err, ShouldBeNil)
			So(app.ClientID, ShouldEqual, "cid-123")
			So(app.ClientSecret, ShouldEqual, "csec-456")
			So(registrations.Load(), ShouldEqual, 1)

			again, err := GetOrRegister(context.Background(), host)
			So(err, ShouldBeNil)
			So(again.ClientID, ShouldEqual, "cid-123")
			// the durable cache absorbs the second call
			So(registrations.Load(), ShouldEqual, 1)
		})

		Convey("Concurrent callers never double-register", func() {
			registrations.Store(0)
			concurrentHost := host

			var wg sync.WaitGroup
			results := make([]*App, 8)
			for i := 0; i < len(results); i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					app, err := GetOrRegister(context.Background(), concurrentHost)
					if err == nil {
						results[i] = app
					}
				}(i)
			}
			wg.Wait()

			for _, app := range results {
				So(app, ShouldNotBeNil)
				So(app.ClientID, ShouldEqual, "cid-123")
			}
			So(registrations.Load(), ShouldBeLessThanOrEqualTo, 1)
		})

		Convey("Registration failure surfaces the instance host", func() {
			failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"blocked"}`, http.StatusUnprocessableEntity)
			}))
			defer failing.Close()

			failHost := strings.TrimPrefix(failing.URL, "http://")
			_, err := GetOrRegister(context.Background(), failHost)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, failHost)
		})
	})
}
