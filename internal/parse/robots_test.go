// File: internal/parse/robots_test.go
package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRobotsGroups(t *testing.T) {
	text := `# crawl policy
User-agent: Googlebot
User-agent: Googlebot-Image
Disallow: /private/
Allow: /private/press/

User-agent: *
Disallow:

Sitemap: https://example.com/sitemap.xml
`
	file := ParseRobots(text)

	require.Len(t, file.Groups, 2)
	assert.Equal(t, []string{"Googlebot", "Googlebot-Image"}, file.Groups[0].UserAgents,
		"consecutive User-agent lines share one rule block")
	assert.Equal(t, []string{"/private/"}, file.Groups[0].Disallow)
	assert.Equal(t, []string{"/private/press/"}, file.Groups[0].Allow)
	assert.Equal(t, []string{"*"}, file.Groups[1].UserAgents)
	assert.Equal(t, []string{"https://example.com/sitemap.xml"}, file.Sitemaps)
}

func TestParseRobotsImplicitWildcardGroup(t *testing.T) {
	file := ParseRobots("Disallow: /tmp/\n")
	require.Len(t, file.Groups, 1)
	assert.Equal(t, []string{"*"}, file.Groups[0].UserAgents)
	assert.Equal(t, []string{"/tmp/"}, file.Groups[0].Disallow)
}

func TestParseRobotsCommentsAndJunk(t *testing.T) {
	text := `User-agent: * # governs everyone
Disallow: /admin # hidden
not a directive line
Unknown-directive: whatever
`
	file := ParseRobots(text)
	require.Len(t, file.Groups, 1)
	assert.Equal(t, []string{"/admin"}, file.Groups[0].Disallow)
}

func TestBlocksAll(t *testing.T) {
	tests := []struct {
		name     string
		disallow []string
		want     bool
	}{
		{"blanket", []string{"/"}, true},
		{"scoped", []string{"/private/", "/tmp/"}, false},
		{"empty disallow allows everything", []string{""}, false},
		{"no rules", nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := RobotsGroup{UserAgents: []string{"*"}, Disallow: tc.disallow}
			assert.Equal(t, tc.want, g.BlocksAll())
		})
	}
}

func TestAppliesToGooglebot(t *testing.T) {
	tests := []struct {
		name   string
		agents []string
		want   bool
	}{
		{"wildcard", []string{"*"}, true},
		{"googlebot", []string{"Googlebot"}, true},
		{"googlebot family", []string{"googlebot-image"}, true},
		{"other bot", []string{"bingbot"}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := RobotsGroup{UserAgents: tc.agents}
			assert.Equal(t, tc.want, g.AppliesToGooglebot())
		})
	}
}

func TestSitemapDirectives(t *testing.T) {
	text := "Sitemap: https://example.com/a.xml\nSitemap: https://example.com/b.xml\n"
	assert.Equal(t,
		[]string{"https://example.com/a.xml", "https://example.com/b.xml"},
		SitemapDirectives(text))
	assert.Empty(t, SitemapDirectives("User-agent: *\nDisallow:\n"))
}
