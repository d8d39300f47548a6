// File: internal/parse/images.go
package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Image captures the audit-relevant attributes of one <img> element.
type Image struct {
	Src string
	// Alt distinguishes three states: nil means the attribute is absent,
	// a pointer to "" means it is present but empty.
	Alt       *string
	Loading   string
	HasWidth  bool
	HasHeight bool
	// IsNextImage reports the heuristic "already served through the
	// platform's optimized image component": either the framework's data
	// attribute or its image-optimizer src prefix.
	IsNextImage bool
}

// HasAlt reports whether the alt attribute is present at all.
func (i Image) HasAlt() bool { return i.Alt != nil }

// HasEmptyAlt reports whether alt is present but blank.
func (i Image) HasEmptyAlt() bool { return i.Alt != nil && strings.TrimSpace(*i.Alt) == "" }

// Images extracts every <img> element with a non-empty src.
func (d *Document) Images() []Image {
	var images []Image
	d.doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := trimmed(s.Attr("src"))
		if !ok {
			return
		}

		img := Image{Src: src}
		if alt, exists := s.Attr("alt"); exists {
			img.Alt = &alt
		}
		if loading, exists := s.Attr("loading"); exists {
			img.Loading = strings.ToLower(strings.TrimSpace(loading))
		}
		_, img.HasWidth = trimmed(s.Attr("width"))
		_, img.HasHeight = trimmed(s.Attr("height"))

		if _, exists := s.Attr("data-nimg"); exists {
			img.IsNextImage = true
		} else if strings.Contains(src, "/_next/image") {
			img.IsNextImage = true
		}

		images = append(images, img)
	})
	return images
}

// ResourceRef is a reference to an external resource (script src, link href
// or img src) used by the performance analyzer for third-party origin checks.
type ResourceRef struct {
	Tag string
	URL string
}

// ResourceRefs collects every script/link/img resource reference in document
// order.
func (d *Document) ResourceRefs() []ResourceRef {
	var refs []ResourceRef
	d.doc.Find("script[src], img[src]").Each(func(_ int, s *goquery.Selection) {
		if src, ok := trimmed(s.Attr("src")); ok {
			refs = append(refs, ResourceRef{Tag: goquery.NodeName(s), URL: src})
		}
	})
	d.doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := trimmed(s.Attr("href")); ok {
			refs = append(refs, ResourceRef{Tag: "link", URL: href})
		}
	})
	return refs
}

// PreconnectOrigins returns the href values of <link rel="preconnect"> and
// <link rel="dns-prefetch"> hints.
func (d *Document) PreconnectOrigins() []string {
	var origins []string
	d.doc.Find(`link[rel="preconnect" i], link[rel="dns-prefetch" i]`).Each(func(_ int, s *goquery.Selection) {
		if href, ok := trimmed(s.Attr("href")); ok {
			origins = append(origins, href)
		}
	})
	return origins
}

// HeadScript describes one <script> inside <head> for render-blocking
// analysis.
type HeadScript struct {
	Src      string
	IsModule bool
	HasAsync bool
	HasDefer bool
	Inline   bool
}

// IsBlocking reports whether the script delays first render: an external,
// non-module script without async or defer.
func (s HeadScript) IsBlocking() bool {
	return !s.Inline && !s.IsModule && !s.HasAsync && !s.HasDefer
}

// HeadScripts returns every script element inside <head>.
func (d *Document) HeadScripts() []HeadScript {
	var scripts []HeadScript
	d.doc.Find("head script").Each(func(_ int, s *goquery.Selection) {
		script := HeadScript{}
		src, hasSrc := trimmed(s.Attr("src"))
		script.Src = src
		script.Inline = !hasSrc
		if t, ok := s.Attr("type"); ok && strings.EqualFold(strings.TrimSpace(t), "module") {
			script.IsModule = true
		}
		_, script.HasAsync = s.Attr("async")
		_, script.HasDefer = s.Attr("defer")
		scripts = append(scripts, script)
	})
	return scripts
}

// InlineStyles returns the text of every inline <style> block.
func (d *Document) InlineStyles() []string {
	var styles []string
	d.doc.Find("style").Each(func(_ int, s *goquery.Selection) {
		styles = append(styles, s.Text())
	})
	return styles
}
