// File: internal/parse/sitemap.go
// Description: Sitemap XML parsing. A sitemap is either an index document
// (pointing at child sitemaps) or a urlset (listing page entries). Malformed
// XML and a well-formed document with an unexpected root are distinguishable
// internally but both surface as ErrSitemapParse to callers.

package parse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ErrSitemapParse is the umbrella failure for anything that is not a usable
// sitemap document.
var ErrSitemapParse = errors.New("sitemap parse failure")

// errUnexpectedRoot marks well-formed XML whose root is neither sitemapindex
// nor urlset.
var errUnexpectedRoot = errors.New("unexpected root element")

// SitemapKind distinguishes the two document shapes.
type SitemapKind string

const (
	SitemapKindIndex  SitemapKind = "index"
	SitemapKindURLSet SitemapKind = "urlset"
)

// SitemapEntry is one page entry of a urlset document.
type SitemapEntry struct {
	Loc        string
	LastMod    string
	ChangeFreq string
	Priority   string
}

// SitemapDocument is the parsed form of either sitemap shape.
type SitemapDocument struct {
	Kind SitemapKind
	// ChildSitemaps holds the loc values of a sitemapindex document.
	ChildSitemaps []string
	// Entries holds the page entries of a urlset document.
	Entries []SitemapEntry
}

// ParseSitemap parses sitemap XML, discriminating index documents from
// urlsets by root element.
func ParseSitemap(data []byte) (*SitemapDocument, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSitemapParse, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: document has no root element", ErrSitemapParse)
	}

	switch root.Tag {
	case "sitemapindex":
		out := &SitemapDocument{Kind: SitemapKindIndex}
		for _, sm := range root.SelectElements("sitemap") {
			if loc := childText(sm, "loc"); loc != "" {
				out.ChildSitemaps = append(out.ChildSitemaps, loc)
			}
		}
		return out, nil

	case "urlset":
		out := &SitemapDocument{Kind: SitemapKindURLSet}
		for _, u := range root.SelectElements("url") {
			loc := childText(u, "loc")
			if loc == "" {
				continue
			}
			out.Entries = append(out.Entries, SitemapEntry{
				Loc:        loc,
				LastMod:    childText(u, "lastmod"),
				ChangeFreq: childText(u, "changefreq"),
				Priority:   childText(u, "priority"),
			})
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %w %q", ErrSitemapParse, errUnexpectedRoot, root.Tag)
	}
}

// childText returns the trimmed text of a named child element, or "".
func childText(parent *etree.Element, tag string) string {
	if el := parent.SelectElement(tag); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}
