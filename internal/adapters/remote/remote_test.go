package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/newsbot/internal/adapters/remote"
	"github.com/okian/newsbot/internal/domain/paper"
)

func TestClient(t *testing.T) {
	ctx := context.Background()

	Convey("Given collaborator services", t, func() {
		var got struct {
			nbPapers, paperURL, summarizeURL string
			posted                           []paper.Candidate
		}
		mux := http.NewServeMux()
		mux.HandleFunc("GET /paper/trending_papers", func(w http.ResponseWriter, r *http.Request) {
			got.nbPapers = r.URL.Query().Get("nb_papers")
			_, _ = w.Write([]byte(`[{"Title":"A","URL":"/paper/a","Publication date":"2021-01-01T00:00:00","Stars":1,"Stars per hour":1.5}]`))
		})
		mux.HandleFunc("POST /selection/best", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&got.posted)
			_, _ = w.Write([]byte(`{"Title":"A","URL":"/paper/a","Publication date":"2021-01-01T00:00:00Z","Stars":1,"Stars per hour":1.5}`))
		})
		mux.HandleFunc("POST /paper/", func(w http.ResponseWriter, r *http.Request) {
			got.paperURL = r.URL.Query().Get("paper_url")
			_, _ = w.Write([]byte(`{"pdf_url":"https://arxiv.org/pdf/a.pdf","abstract":"abs","official implementation":null}`))
		})
		mux.HandleFunc("POST /summarize", func(w http.ResponseWriter, r *http.Request) {
			got.summarizeURL = r.URL.Query().Get("paper_url")
			_, _ = w.Write([]byte(`"a short summary"`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()
		c := remote.New("test", srv.URL+"/")

		Convey("Then trending requests nb_papers and decodes candidates", func() {
			cs, err := c.Trending(ctx, 20)
			So(err, ShouldBeNil)
			So(got.nbPapers, ShouldEqual, "20")
			So(cs, ShouldHaveLength, 1)
			So(cs[0].PublicationDate.Equal(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
		})

		Convey("Then best posts the candidates as JSON", func() {
			c0 := paper.NewCandidate("A", "/paper/a", time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), 1, 1.5)
			best, err := c.Best(ctx, []paper.Candidate{c0})
			So(err, ShouldBeNil)
			So(got.posted, ShouldHaveLength, 1)
			So(got.posted[0].Path, ShouldEqual, "/paper/a")
			So(best.Path, ShouldEqual, "/paper/a")
		})

		Convey("Then detail strips the leading slash", func() {
			d, err := c.Detail(ctx, "/paper/a")
			So(err, ShouldBeNil)
			So(got.paperURL, ShouldEqual, "paper/a")
			So(d.PDFURL, ShouldEqual, "https://arxiv.org/pdf/a.pdf")
			So(d.OfficialCodeURL, ShouldBeNil)
		})

		Convey("Then summarize decodes a JSON string", func() {
			s, err := c.Summarize(ctx, "https://arxiv.org/pdf/a.pdf")
			So(err, ShouldBeNil)
			So(s, ShouldEqual, "a short summary")
			So(got.summarizeURL, ShouldEqual, "https://arxiv.org/pdf/a.pdf")
		})
	})

	Convey("Given a summarizer answering plain text", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("plain summary\n"))
		}))
		defer srv.Close()

		s, err := remote.New("summarizer", srv.URL).Summarize(ctx, "x")
		So(err, ShouldBeNil)
		So(s, ShouldEqual, "plain summary")
	})

	Convey("Given a failing service", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := remote.New("selection", srv.URL).Best(ctx, nil)

		Convey("Then a status error is returned", func() {
			So(errors.Is(err, remote.ErrRemote), ShouldBeTrue)
			var se *remote.StatusError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Code, ShouldEqual, http.StatusInternalServerError)
			So(se.Body, ShouldEqual, "boom")
		})
	})
}
