package dailyrun_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/newsbot/internal/dailyrun"
	"github.com/okian/newsbot/internal/domain/paper"
	"github.com/okian/newsbot/internal/pipeline"
	"github.com/okian/newsbot/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init("text"); err != nil {
		panic(err)
	}
}

// newServices fakes every collaborator on one server.
func newServices(summarizeStatus int) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`"Ai News Bot Generator"`))
	})
	mux.HandleFunc("GET /paper/trending_papers", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"Title":"A","URL":"/paper/a","Publication date":"2021-01-03T00:00:00","Stars":3,"Stars per hour":1}]`))
	})
	mux.HandleFunc("POST /selection/best", func(w http.ResponseWriter, r *http.Request) {
		var cs []paper.Candidate
		_ = json.NewDecoder(r.Body).Decode(&cs)
		_ = json.NewEncoder(w).Encode(cs[0])
	})
	mux.HandleFunc("POST /paper/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("paper_url") != "paper/a" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"pdf_url":"https://arxiv.org/pdf/a.pdf","abstract":"Abs","official implementation":null}`))
	})
	mux.HandleFunc("POST /summarize", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(summarizeStatus)
		_, _ = w.Write([]byte("Summary text"))
	})
	return httptest.NewServer(mux)
}

func configFor(url string) *dailyrun.Config {
	return &dailyrun.Config{
		ListingURL:    url,
		SelectionURL:  url,
		DetailURL:     url,
		SummarizerURL: url,
		NbPapers:      20,
		Timeouts:      pipeline.Timeouts{Listing: time.Second, Selection: time.Second, Detail: time.Second, Summarize: time.Second},
		CheckTimeout:  time.Second,
	}
}

func TestRun(t *testing.T) {
	Convey("Given healthy services", t, func() {
		srv := newServices(http.StatusOK)
		defer srv.Close()
		cfg := configFor(srv.URL)

		Convey("When the report goes to stdout", func() {
			var out bytes.Buffer
			report, err := dailyrun.Run(context.Background(), cfg, &out)

			Convey("Then the report is printed as JSON", func() {
				So(err, ShouldBeNil)
				So(report.Title, ShouldEqual, "A")
				So(report.Summary, ShouldEqual, "Summary text")

				var m map[string]any
				So(json.Unmarshal(out.Bytes(), &m), ShouldBeNil)
				So(m["pdf_url"], ShouldEqual, "https://arxiv.org/pdf/a.pdf")
				So(m["URL"], ShouldEqual, "/paper/a")
			})
		})

		Convey("When an output file is configured", func() {
			cfg.OutputFile = filepath.Join(t.TempDir(), "reports", "daily.json")
			var out bytes.Buffer
			_, err := dailyrun.Run(context.Background(), cfg, &out)

			Convey("Then the file holds the report and stdout stays empty", func() {
				So(err, ShouldBeNil)
				So(out.Len(), ShouldEqual, 0)
				data, err := os.ReadFile(cfg.OutputFile)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `"Summary": "Summary text"`)
			})
		})
	})

	Convey("Given a failing summarizer", t, func() {
		srv := newServices(http.StatusInternalServerError)
		defer srv.Close()

		Convey("Then the run fails at the summarize stage", func() {
			_, err := dailyrun.Run(context.Background(), configFor(srv.URL), &bytes.Buffer{})
			var stageErr *pipeline.StageError
			So(errors.As(err, &stageErr), ShouldBeTrue)
			So(stageErr.Stage, ShouldEqual, pipeline.StageSummarize)
		})
	})

	Convey("Given an unreachable service", t, func() {
		cfg := configFor("http://127.0.0.1:1")

		Convey("Then the check fails before the pipeline starts", func() {
			_, err := dailyrun.Run(context.Background(), cfg, &bytes.Buffer{})
			So(errors.Is(err, dailyrun.ErrServiceDown), ShouldBeTrue)
		})
	})
}

func TestConfigServices(t *testing.T) {
	Convey("Given services sharing a host", t, func() {
		cfg := &dailyrun.Config{ListingURL: "http://a", SelectionURL: "http://a", DetailURL: "http://a", SummarizerURL: "http://b"}
		So(cfg.Services(), ShouldResemble, []string{"http://a", "http://b"})
	})
}

func TestShowHelp(t *testing.T) {
	Convey("Given the help text", t, func() {
		var b strings.Builder
		dailyrun.ShowHelp(&b)
		So(b.String(), ShouldContainSubstring, "-summarizer")
	})
}
