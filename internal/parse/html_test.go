// File: internal/parse/html_test.go
package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, html string) *Document {
	t.Helper()
	doc, err := NewDocument(html)
	require.NoError(t, err)
	return doc
}

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
		ok   bool
	}{
		{
			name: "present",
			html: `<head><link rel="canonical" href="https://example.com/"></head>`,
			want: "https://example.com/",
			ok:   true,
		},
		{
			name: "whitespace trimmed",
			html: `<head><link rel="canonical" href="  https://example.com/  "></head>`,
			want: "https://example.com/",
			ok:   true,
		},
		{
			name: "absent",
			html: `<head></head>`,
		},
		{
			name: "empty href counts as absent",
			html: `<head><link rel="canonical" href=""></head>`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := mustParse(t, tc.html).CanonicalURL()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHasNoindex(t *testing.T) {
	tests := []struct {
		name string
		html string
		want bool
	}{
		{"robots noindex", `<meta name="robots" content="noindex, nofollow">`, true},
		{"googlebot noindex", `<meta name="googlebot" content="NOINDEX">`, true},
		{"mixed case attribute", `<meta name="ROBOTS" content="noindex">`, true},
		{"index only", `<meta name="robots" content="index, follow">`, false},
		{"no robots meta", `<meta name="description" content="hi">`, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, mustParse(t, "<head>"+tc.html+"</head>").HasNoindex())
		})
	}
}

func TestMetaRefreshURL(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
		ok   bool
	}{
		{
			name: "plain",
			html: `<meta http-equiv="refresh" content="0; url=https://example.com/new">`,
			want: "https://example.com/new",
			ok:   true,
		},
		{
			name: "quoted and uppercase marker",
			html: `<meta http-equiv="REFRESH" content="5; URL='https://example.com/x'">`,
			want: "https://example.com/x",
			ok:   true,
		},
		{
			name: "delay only is not a redirect",
			html: `<meta http-equiv="refresh" content="30">`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := mustParse(t, "<head>"+tc.html+"</head>").MetaRefreshURL()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMetaContentNameAndProperty(t *testing.T) {
	doc := mustParse(t, `<head>
		<meta name="description" content="by name">
		<meta property="og:title" content="by property">
	</head>`)

	desc, ok := doc.MetaContent("description")
	require.True(t, ok)
	assert.Equal(t, "by name", desc)

	title, ok := doc.MetaContent("og:title")
	require.True(t, ok)
	assert.Equal(t, "by property", title)

	_, ok = doc.MetaContent("og:image")
	assert.False(t, ok)
}

func TestCharset(t *testing.T) {
	charset, ok := mustParse(t, `<head><meta charset="utf-8"></head>`).Charset()
	require.True(t, ok)
	assert.Equal(t, "utf-8", charset)

	charset, ok = mustParse(t, `<head><meta http-equiv="Content-Type" content="text/html; charset=iso-8859-1"></head>`).Charset()
	require.True(t, ok)
	assert.Equal(t, "iso-8859-1", charset)

	_, ok = mustParse(t, `<head></head>`).Charset()
	assert.False(t, ok)
}

func TestTitleTrimming(t *testing.T) {
	title, ok := mustParse(t, `<head><title>  Hello  </title></head>`).Title()
	require.True(t, ok)
	assert.Equal(t, "Hello", title)

	_, ok = mustParse(t, `<head><title>   </title></head>`).Title()
	assert.False(t, ok, "whitespace-only title counts as absent")
}

func TestFaviconLinks(t *testing.T) {
	doc := mustParse(t, `<head>
		<link rel="icon" href="/favicon.ico">
		<link rel="shortcut icon" href="/fav.png" type="image/png" sizes="32x32">
		<link rel="apple-touch-icon" href="/touch.png">
		<link rel="stylesheet" href="/app.css">
		<link rel="icon" href="">
	</head>`)

	links := doc.FaviconLinks()
	require.Len(t, links, 3)
	assert.Equal(t, "/favicon.ico", links[0].Href)
	assert.Equal(t, "image/png", links[1].Type)
	assert.Equal(t, "32x32", links[1].Sizes)
}

func TestHreflangLinks(t *testing.T) {
	doc := mustParse(t, `<head>
		<link rel="alternate" hreflang="EN-US" href="https://example.com/">
		<link rel="alternate" hreflang="fr" href="https://example.com/fr/">
		<link rel="alternate" hreflang="x-default" href="https://example.com/">
		<link rel="alternate" hreflang="de" href="">
		<link rel="alternate" href="https://example.com/feed.xml">
	</head>`)

	links := doc.HreflangLinks()
	require.Len(t, links, 3)
	assert.Equal(t, "en-us", links[0].Hreflang, "hreflang values are lower-cased")
	assert.Equal(t, "fr", links[1].Hreflang)
	assert.Equal(t, "x-default", links[2].Hreflang)
}

func TestJSONLDBlocks(t *testing.T) {
	doc := mustParse(t, `<head>
		<script type="application/ld+json">{"@type":"WebSite"}</script>
		<script type="APPLICATION/LD+JSON">{"@type":"Organization"}</script>
		<script type="text/javascript">var x = 1;</script>
	</head>`)

	blocks := doc.JSONLDBlocks()
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0], "WebSite")
}
