// File: internal/parse/html.go
// Description: Pure HTML fact extraction. Every extractor applies the same
// normalization rule: values are trimmed and an empty string means absent.
// Finding counts depend on that rule being applied uniformly.

package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document wraps a parsed HTML document so analyzers parse a page once and
// run many extractors against it.
type Document struct {
	doc *goquery.Document
}

// NewDocument parses raw HTML. goquery's parser is lenient; only a reader
// failure produces an error, so malformed markup still yields a Document.
func NewDocument(html string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// trimmed normalizes an attribute or text value: whitespace-trimmed, with
// empty collapsing to ("", false).
func trimmed(value string, ok bool) (string, bool) {
	if !ok {
		return "", false
	}
	v := strings.TrimSpace(value)
	if v == "" {
		return "", false
	}
	return v, true
}

// CanonicalURL returns the href of the first <link rel="canonical">.
func (d *Document) CanonicalURL() (string, bool) {
	href, ok := d.doc.Find(`link[rel="canonical"]`).First().Attr("href")
	return trimmed(href, ok)
}

// HasNoindex reports whether the combined robots and googlebot meta
// directives contain "noindex", case-insensitively.
func (d *Document) HasNoindex() bool {
	noindex := false
	d.doc.Find(`meta[name="robots" i], meta[name="googlebot" i]`).Each(func(_ int, s *goquery.Selection) {
		if content, ok := s.Attr("content"); ok {
			if strings.Contains(strings.ToLower(content), "noindex") {
				noindex = true
			}
		}
	})
	return noindex
}

// MetaRefreshURL extracts the url= fragment of a meta-refresh directive,
// tolerating optional quotes and case variation in both the attribute and
// the URL marker.
func (d *Document) MetaRefreshURL() (string, bool) {
	var result string
	d.doc.Find(`meta[http-equiv="refresh" i]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content, ok := s.Attr("content")
		if !ok {
			return true
		}
		lower := strings.ToLower(content)
		idx := strings.Index(lower, "url=")
		if idx < 0 {
			return true
		}
		target := strings.TrimSpace(content[idx+len("url="):])
		target = strings.Trim(target, `'"`)
		if target != "" {
			result = target
			return false
		}
		return true
	})
	return result, result != ""
}

// MetaContent looks a meta tag up by name attribute first, then by property
// attribute, which covers Open Graph tags.
func (d *Document) MetaContent(name string) (string, bool) {
	sel := d.doc.Find(`meta[name="` + name + `" i]`).First()
	if sel.Length() == 0 {
		sel = d.doc.Find(`meta[property="` + name + `" i]`).First()
	}
	content, ok := sel.Attr("content")
	return trimmed(content, ok)
}

// Charset returns the declared character set, from either <meta charset> or
// the legacy http-equiv Content-Type form.
func (d *Document) Charset() (string, bool) {
	if charset, ok := trimmed(d.doc.Find("meta[charset]").First().Attr("charset")); ok {
		return charset, true
	}
	content, ok := trimmed(d.doc.Find(`meta[http-equiv="content-type" i]`).First().Attr("content"))
	if !ok {
		return "", false
	}
	lower := strings.ToLower(content)
	idx := strings.Index(lower, "charset=")
	if idx < 0 {
		return "", false
	}
	return trimmed(content[idx+len("charset="):], true)
}

// Viewport returns the viewport meta content.
func (d *Document) Viewport() (string, bool) {
	return d.MetaContent("viewport")
}

// Title returns the document title text.
func (d *Document) Title() (string, bool) {
	return trimmed(d.doc.Find("title").First().Text(), true)
}

// MetaDescription returns the meta description content.
func (d *Document) MetaDescription() (string, bool) {
	return d.MetaContent("description")
}

// FaviconLink is one declared icon link.
type FaviconLink struct {
	Rel   string
	Href  string
	Type  string
	Sizes string
}

// FaviconLinks returns every <link> whose rel mentions an icon and whose
// href is non-empty.
func (d *Document) FaviconLinks() []FaviconLink {
	var links []FaviconLink
	d.doc.Find("link[rel]").Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		if !strings.Contains(strings.ToLower(rel), "icon") {
			return
		}
		href, ok := trimmed(s.Attr("href"))
		if !ok {
			return
		}
		linkType, _ := s.Attr("type")
		sizes, _ := s.Attr("sizes")
		links = append(links, FaviconLink{
			Rel:   strings.TrimSpace(rel),
			Href:  href,
			Type:  strings.TrimSpace(linkType),
			Sizes: strings.TrimSpace(sizes),
		})
	})
	return links
}

// HreflangLink is one alternate-language declaration.
type HreflangLink struct {
	// Hreflang is lower-cased on extraction so later comparisons are
	// trivially case-insensitive.
	Hreflang string
	Href     string
}

// HreflangLinks returns every <link rel="alternate" hreflang=...> carrying
// both a non-empty hreflang and a non-empty href.
func (d *Document) HreflangLinks() []HreflangLink {
	var links []HreflangLink
	d.doc.Find(`link[rel="alternate" i][hreflang]`).Each(func(_ int, s *goquery.Selection) {
		hreflang, ok := trimmed(s.Attr("hreflang"))
		if !ok {
			return
		}
		href, ok := trimmed(s.Attr("href"))
		if !ok {
			return
		}
		links = append(links, HreflangLink{
			Hreflang: strings.ToLower(hreflang),
			Href:     href,
		})
	})
	return links
}

// JSONLDBlocks returns the raw text of every JSON-LD script block.
func (d *Document) JSONLDBlocks() []string {
	var blocks []string
	d.doc.Find(`script[type="application/ld+json" i]`).Each(func(_ int, s *goquery.Selection) {
		blocks = append(blocks, s.Text())
	})
	return blocks
}
