// Package htmlq wraps goquery lookups so that a missing node is an explicit
// result instead of an empty selection.
package htmlq

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Anchor is a link and its cleaned label.
type Anchor struct {
	Label string
	Href  string
}

// First returns the first element under sel matching selector.
func First(sel *goquery.Selection, selector string) (*goquery.Selection, bool) {
	if sel == nil {
		return nil, false
	}
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return nil, false
	}
	return found, true
}

// All returns every element under sel matching selector, in document order.
func All(sel *goquery.Selection, selector string) []*goquery.Selection {
	if sel == nil {
		return nil
	}
	found := sel.Find(selector)
	out := make([]*goquery.Selection, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, s)
	})
	return out
}

// Text returns the cleaned text of the first match.
func Text(sel *goquery.Selection, selector string) (string, bool) {
	found, ok := First(sel, selector)
	if !ok {
		return "", false
	}
	return Clean(found.Text()), true
}

// Attr returns attribute name of the first match.
func Attr(sel *goquery.Selection, selector, name string) (string, bool) {
	found, ok := First(sel, selector)
	if !ok {
		return "", false
	}
	return found.Attr(name)
}

// Has reports whether anything under sel matches selector.
func Has(sel *goquery.Selection, selector string) bool {
	_, ok := First(sel, selector)
	return ok
}

// Anchors returns the links matched by selector with their cleaned labels.
func Anchors(sel *goquery.Selection, selector string) []Anchor {
	var out []Anchor
	for _, a := range All(sel, selector) {
		href, _ := a.Attr("href")
		out = append(out, Anchor{Label: Clean(a.Text()), Href: href})
	}
	return out
}

// Clean trims surrounding whitespace and drops embedded line breaks.
func Clean(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", "")
}
