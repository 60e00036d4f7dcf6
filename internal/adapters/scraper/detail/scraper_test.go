package detail_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/newsbot/internal/adapters/scraper/detail"
	"github.com/okian/newsbot/internal/adapters/source"
	"github.com/okian/newsbot/internal/domain/paper"
)

const abstractSection = `
<div class="paper-abstract">
  <div class="row">
    <div class="col-md-12">
      <p>
        We propose a new simple network architecture.
      </p>
      <a class="badge badge-light" href="https://arxiv.org/abs/1706.03762v7">
        <span class="badge badge-light"></span> arXiv
      </a>
      <a class="badge badge-light" href="https://arxiv.org/pdf/1706.03762v7.pdf">
        PDF
      </a>
    </div>
  </div>
</div>`

const implementations = `
<div id="implementations-short-list">
  <div class="row">
    <div class="col-md-7"><a href="https://github.com/someone/fork">someone/fork</a></div>
  </div>
  <div class="row">
    <div class="col-md-7">
      <a href="https://github.com/tensorflow/tensor2tensor">tensorflow/tensor2tensor</a>
      <span class="badge badge-info is-official-code">official</span>
    </div>
  </div>
</div>`

func pageHTML(parts ...string) string {
	return "<html><body>" + strings.Join(parts, "") + "</body></html>"
}

func parse(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	So(err, ShouldBeNil)
	return doc
}

func TestExtract(t *testing.T) {
	Convey("Given a complete paper page", t, func() {
		d, fe := detail.Extract(parse(pageHTML(abstractSection, implementations)))

		Convey("Then all three fields are extracted", func() {
			So(fe, ShouldBeEmpty)
			So(d.PDFURL, ShouldEqual, "https://arxiv.org/pdf/1706.03762v7.pdf")
			So(d.Abstract, ShouldEqual, "We propose a new simple network architecture.")
			So(d.OfficialCodeURL, ShouldNotBeNil)
			So(*d.OfficialCodeURL, ShouldEqual, "https://github.com/tensorflow/tensor2tensor")
		})
	})

	Convey("Given a page without an official implementation", t, func() {
		d, fe := detail.Extract(parse(pageHTML(abstractSection)))

		Convey("Then only the code field fails", func() {
			So(fe, ShouldHaveLength, 1)
			So(errors.Is(fe[detail.FieldCode], paper.ErrAttributeNotFound), ShouldBeTrue)
			var attr *paper.AttributeError
			So(errors.As(fe[detail.FieldCode], &attr), ShouldBeTrue)
			So(attr.Attribute, ShouldEqual, "code")
			So(d.OfficialCodeURL, ShouldBeNil)
			So(d.PDFURL, ShouldNotBeEmpty)
			So(d.Abstract, ShouldNotBeEmpty)
		})
	})

	Convey("Given a page without an abstract section", t, func() {
		d, fe := detail.Extract(parse(pageHTML(implementations)))

		Convey("Then pdf and abstract fail while code succeeds", func() {
			So(fe, ShouldContainKey, detail.FieldPDF)
			So(fe, ShouldContainKey, detail.FieldAbstract)
			So(fe, ShouldNotContainKey, detail.FieldCode)
			So(d.OfficialCodeURL, ShouldNotBeNil)
			So(fe.Err(detail.FieldCode), ShouldBeNil)
			So(errors.Is(fe.Err(), paper.ErrAttributeNotFound), ShouldBeTrue)
		})
	})
}

func newSite() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/paper/attention":
			_, _ = w.Write([]byte(pageHTML(abstractSection, implementations)))
		case "/paper/no-pdf":
			_, _ = w.Write([]byte(pageHTML(implementations)))
		case "/paper/flaky":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestScraper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a paper site", t, func() {
		srv := newSite()
		defer srv.Close()
		s := detail.New(source.New(srv.URL))

		Convey("When the path lacks the paper/ prefix", func() {
			_, err := s.Open(ctx, "/paper/attention")
			So(errors.Is(err, detail.ErrInvalidPath), ShouldBeTrue)
		})

		Convey("When the paper does not exist", func() {
			_, err := s.Open(ctx, "paper/unknown")
			So(errors.Is(err, detail.ErrPaperNotFound), ShouldBeTrue)
		})

		Convey("When the site fails the existence check", func() {
			_, err := s.Open(ctx, "paper/flaky")
			So(errors.Is(err, source.ErrSourceUnavailable), ShouldBeTrue)
			So(errors.Is(err, detail.ErrPaperNotFound), ShouldBeFalse)
		})

		Convey("When opening and fetching an existing paper", func() {
			page, err := s.Open(ctx, "paper/attention")
			So(err, ShouldBeNil)
			So(page.Path(), ShouldEqual, "paper/attention")

			d, fe, err := page.Fetch(ctx)
			So(err, ShouldBeNil)
			So(fe, ShouldBeEmpty)
			So(d.Path, ShouldEqual, "paper/attention")
			So(d.PDFURL, ShouldEndWith, ".pdf")
		})

		Convey("When the pdf is required but missing", func() {
			_, err := s.FetchDetail(ctx, "paper/no-pdf", detail.FieldPDF)
			So(errors.Is(err, paper.ErrAttributeNotFound), ShouldBeTrue)
		})

		Convey("When only the code is required", func() {
			d, err := s.FetchDetail(ctx, "paper/no-pdf", detail.FieldCode)
			So(err, ShouldBeNil)
			So(d.PDFURL, ShouldBeEmpty)
			So(d.OfficialCodeURL, ShouldNotBeNil)
		})
	})
}
