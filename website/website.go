// Package website fetches web pages and extracts their visible labels for
// proofreading.
package website

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/lingo"
	"golang.org/x/net/html"
)

// MaxPageSize is the largest response body read from a page.
const MaxPageSize = 5 << 20

// IgnoredTags are elements whose content is never reviewed.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"noscript": true,
	"template": true,
	"svg":      true,
	"textarea": true,
	"head":     true,
}

// leafCategories maps elements whose full text is one label to the label
// category.
var leafCategories = map[string]string{
	"h1": "heading", "h2": "heading", "h3": "heading",
	"h4": "heading", "h5": "heading", "h6": "heading",
	"button":     "button",
	"a":          "link",
	"label":      "label",
	"p":          "paragraph",
	"li":         "paragraph",
	"td":         "paragraph",
	"th":         "paragraph",
	"dt":         "paragraph",
	"dd":         "paragraph",
	"blockquote": "paragraph",
	"figcaption": "paragraph",
	"caption":    "paragraph",
	"summary":    "paragraph",
}

// Reader fetches pages over HTTP and extracts their labels. It implements
// lingo.PageReader.
type Reader struct {
	client *http.Client
}

// NewReader creates a Reader. A nil client gets a 30 second timeout.
func NewReader(client *http.Client) *Reader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Reader{client: client}
}

// ReadLabels fetches url and extracts its labels.
func (r *Reader) ReadLabels(ctx context.Context, url string) (*lingo.MessageMap, error) {
	content, err := r.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return ExtractLabels(content)
}

// Fetch downloads the HTML of url.
func (r *Reader) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &lingo.FetchError{URL: url, Cause: err}
	}
	req.Header.Set("User-Agent", lingo.UserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", &lingo.FetchError{URL: url, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &lingo.FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxPageSize))
	if err != nil {
		return "", &lingo.FetchError{URL: url, StatusCode: resp.StatusCode, Cause: err}
	}
	return string(body), nil
}

// labels accumulates de-duplicated labels keyed "<category>.<n>".
type labels struct {
	out  *lingo.MessageMap
	seen map[string]map[string]bool
}

func (l *labels) add(category, text string) {
	text = collapseSpace(text)
	if !hasLetter(text) {
		return
	}
	if l.seen[category] == nil {
		l.seen[category] = make(map[string]bool)
	}
	if l.seen[category][text] {
		return
	}
	l.seen[category][text] = true
	l.out.Set(fmt.Sprintf("%s.%d", category, len(l.seen[category])), text)
}

// ExtractLabels returns the visible text of an HTML document as an ordered
// MessageMap. Keys are "<category>.<n>" with n counting from 1 per category;
// the page title and meta description come first, the rest follows document
// order. Elements marked data-no-translate are skipped.
func ExtractLabels(content string) (*lingo.MessageMap, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	l := &labels{out: lingo.NewMessageMap(), seen: make(map[string]map[string]bool)}

	l.add("title", doc.Find("title").First().Text())
	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		l.add("meta", desc)
	}

	var walk func(n *html.Node, inNav bool)
	walk = func(n *html.Node, inNav bool) {
		if n.Type == html.ElementNode {
			if IgnoredTags[n.Data] || hasAttr(n, "data-no-translate") || hasAttr(n, "hidden") {
				return
			}

			if n.Data == "nav" {
				inNav = true
			}

			collectAttrs(l, n)

			if category, ok := leafCategories[n.Data]; ok {
				if inNav {
					category = "navigation"
				}
				l.add(category, visibleText(n))
				collectNestedAttrs(l, n)
				return
			}
		}

		if n.Type == html.TextNode && n.Parent != nil && n.Parent.Type == html.ElementNode {
			category := "paragraph"
			if inNav {
				category = "navigation"
			}
			l.add(category, n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, inNav)
		}
	}

	body := doc.Find("body")
	for _, n := range body.Nodes {
		walk(n, false)
	}

	return l.out, nil
}

// collectAttrs records the human-readable attributes of a single element.
func collectAttrs(l *labels, n *html.Node) {
	switch n.Data {
	case "img":
		if alt, ok := attr(n, "alt"); ok {
			l.add("alt", alt)
		}
	case "input":
		if t, _ := attr(n, "type"); t == "submit" || t == "button" {
			if v, ok := attr(n, "value"); ok {
				l.add("button", v)
			}
		}
	}
	if ph, ok := attr(n, "placeholder"); ok {
		l.add("placeholder", ph)
	}
}

// collectNestedAttrs records attributes below a leaf element, whose text was
// already taken as a whole.
func collectNestedAttrs(l *labels, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || IgnoredTags[c.Data] || hasAttr(c, "data-no-translate") {
			continue
		}
		collectAttrs(l, c)
		collectNestedAttrs(l, c)
	}
}

// visibleText concatenates the text below n, skipping ignored elements.
func visibleText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (IgnoredTags[n.Data] || hasAttr(n, "data-no-translate")) {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := attr(n, key)
	return ok
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// Verify Reader implements lingo.PageReader
var _ lingo.PageReader = (*Reader)(nil)
