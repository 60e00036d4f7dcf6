package htmlq_test

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/newsbot/internal/adapters/scraper/htmlq"
)

const page = `<div class="card">
  <h1>
    <a href="/paper/x">A
 Title</a>
  </h1>
  <a class="badge" href="/a">One</a>
  <a class="badge">Two</a>
</div>`

func TestQueries(t *testing.T) {
	Convey("Given a parsed fragment", t, func() {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
		So(err, ShouldBeNil)
		root := doc.Selection

		Convey("Then present nodes are found", func() {
			text, ok := htmlq.Text(root, "h1")
			So(ok, ShouldBeTrue)
			So(text, ShouldEqual, "A Title")

			href, ok := htmlq.Attr(root, "h1 a", "href")
			So(ok, ShouldBeTrue)
			So(href, ShouldEqual, "/paper/x")
			So(htmlq.Has(root, "div.card"), ShouldBeTrue)
		})

		Convey("Then absent nodes are reported, not zero-valued", func() {
			_, ok := htmlq.First(root, "h2")
			So(ok, ShouldBeFalse)
			_, ok = htmlq.Text(root, "p")
			So(ok, ShouldBeFalse)
			_, ok = htmlq.Attr(root, "a.badge:nth-of-type(2)", "href")
			So(ok, ShouldBeFalse)
			_, ok = htmlq.First(nil, "h1")
			So(ok, ShouldBeFalse)
		})

		Convey("Then anchors keep document order", func() {
			anchors := htmlq.Anchors(root, "a.badge")
			So(anchors, ShouldResemble, []htmlq.Anchor{{Label: "One", Href: "/a"}, {Label: "Two", Href: ""}})
			So(htmlq.All(root, "a"), ShouldHaveLength, 3)
		})
	})

	Convey("Given text with surrounding space and line breaks", t, func() {
		So(htmlq.Clean("\n  12,345\n stars \n"), ShouldEqual, "12,345 stars")
	})
}
