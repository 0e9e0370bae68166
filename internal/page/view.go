// Package page wraps one snapshot of a rendered page. Presence checks and
// text extraction both read the same snapshot, so they cannot disagree about
// what the page contained.
package page

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/kapu/lw-directory-scraper/internal/util"
)

type View struct {
	url string
	doc *goquery.Document
}

// Parse builds a view from serialized page markup.
func Parse(url string, r io.Reader) (*View, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("HTML parse failed: %w", err)
	}
	return &View{url: url, doc: doc}, nil
}

func ParseString(url, markup string) (*View, error) {
	return Parse(url, strings.NewReader(markup))
}

func (v *View) URL() string {
	return v.url
}

func (v *View) Title() string {
	return strings.TrimSpace(v.doc.Find("title").First().Text())
}

func (v *View) Document() *goquery.Document {
	return v.doc
}

// ByID returns the first element with the given id. IDs on the site contain
// characters that are awkward in CSS, so the attribute form is used.
func (v *View) ByID(id string) (*goquery.Selection, bool) {
	return FindID(v.doc.Selection, id)
}

// FindID looks for id under scope.
func FindID(scope *goquery.Selection, id string) (*goquery.Selection, bool) {
	sel := scope.Find(fmt.Sprintf(`[id=%q]`, id)).First()
	return sel, sel.Length() > 0
}

// TextByID returns the trimmed text of the element with id under scope.
func TextByID(scope *goquery.Selection, id string) (string, bool) {
	sel, ok := FindID(scope, id)
	if !ok {
		return "", false
	}
	return util.NormalizeText(sel.Text()), true
}

// HasLinkText reports whether an anchor's visible text equals text.
func (v *View) HasLinkText(text string) bool {
	found := false
	v.doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if util.NormalizeText(sel.Text()) == text {
			found = true
			return false
		}
		return true
	})
	return found
}

// HasClass reports whether any element carries class.
func (v *View) HasClass(class string) bool {
	return v.doc.Find("." + class).Length() > 0
}

// Attr returns the attribute of the first element matching selector.
func (v *View) Attr(selector, attr string) (string, bool) {
	sel := v.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	value, ok := sel.Attr(attr)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

// JoinedText concatenates every non-empty trimmed text node under sel with
// single spaces.
func JoinedText(sel *goquery.Selection) string {
	parts := make([]string, 0)
	for _, node := range sel.Nodes {
		collectText(node, &parts)
	}
	return strings.Join(parts, " ")
}

func collectText(node *html.Node, parts *[]string) {
	if node.Type == html.TextNode {
		if text := util.NormalizeText(node.Data); text != "" {
			*parts = append(*parts, text)
		}
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectText(child, parts)
	}
}

// FirstContentText returns the text of the first non-blank child node of sel,
// which is either a bare text node or an element such as a link. Anything
// after it (dates, footnotes) is ignored.
func FirstContentText(sel *goquery.Selection) (string, bool) {
	if sel.Length() == 0 {
		return "", false
	}
	for child := sel.Nodes[0].FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			if text := util.NormalizeText(child.Data); text != "" {
				return text, true
			}
		case html.ElementNode:
			return JoinedText(goquery.NewDocumentFromNode(child).Selection), true
		}
	}
	return "", false
}
