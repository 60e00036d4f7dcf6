package source_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/newsbot/internal/adapters/source"
)

func TestClient(t *testing.T) {
	Convey("Given a site serving pages", t, func() {
		var gotUA, gotPage string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.UserAgent()
			gotPage = r.URL.Query().Get("page")
			switch r.URL.Path {
			case "/":
				_, _ = w.Write([]byte(`<html><body><h1>hello</h1></body></html>`))
			case "/missing":
				http.NotFound(w, r)
			default:
				w.WriteHeader(http.StatusBadGateway)
			}
		}))
		defer srv.Close()

		c := source.New(srv.URL,
			source.WithUserAgent("test-agent"),
			source.WithTimeout(2*time.Second),
			source.WithRateLimit(100, 1),
		)
		ctx := context.Background()

		Convey("When fetching a document with query params", func() {
			doc, err := c.Document(ctx, source.KindListing, "/", map[string]string{"page": "2"})

			Convey("Then it is parsed and the request is identified", func() {
				So(err, ShouldBeNil)
				So(doc.Find("h1").Text(), ShouldEqual, "hello")
				So(gotUA, ShouldEqual, "test-agent")
				So(gotPage, ShouldEqual, "2")
			})
		})

		Convey("When the site answers with an error status", func() {
			_, err := c.Document(ctx, source.KindListing, "/broken", nil)

			Convey("Then the error carries the status and is a source failure", func() {
				So(errors.Is(err, source.ErrSourceUnavailable), ShouldBeTrue)
				var se *source.StatusError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Code, ShouldEqual, http.StatusBadGateway)
			})
		})

		Convey("When probing a missing page", func() {
			code, err := c.Probe(ctx, source.KindDetail, "/missing")
			So(err, ShouldBeNil)
			So(code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the base URL is reported", func() {
			So(c.BaseURL(), ShouldEqual, srv.URL)
		})
	})

	Convey("Given a site that is down", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		c := source.New(url, source.WithTimeout(time.Second))

		Convey("Then requests fail as source unavailable", func() {
			_, err := c.Document(context.Background(), source.KindListing, "/", nil)
			So(errors.Is(err, source.ErrSourceUnavailable), ShouldBeTrue)
		})
	})
}
