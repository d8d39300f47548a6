// File: internal/parse/robots.go
package parse

import "strings"

// RobotsGroup is one user-agent block of a robots.txt file with its
// directives. A group may name several user agents when consecutive
// User-agent lines precede the rules.
type RobotsGroup struct {
	UserAgents []string
	Disallow   []string
	Allow      []string
}

// RobotsFile is the parsed form of robots.txt. Sitemap directives are file
// scoped, not group scoped, per the de facto standard.
type RobotsFile struct {
	Groups   []RobotsGroup
	Sitemaps []string
}

// BlocksAll reports whether the group disallows the entire site.
func (g RobotsGroup) BlocksAll() bool {
	for _, d := range g.Disallow {
		if d == "/" {
			return true
		}
	}
	return false
}

// AppliesToGooglebot reports whether the group governs the wildcard agent or
// any Googlebot-family crawler.
func (g RobotsGroup) AppliesToGooglebot() bool {
	for _, ua := range g.UserAgents {
		lower := strings.ToLower(ua)
		if lower == "*" || strings.HasPrefix(lower, "googlebot") {
			return true
		}
	}
	return false
}

// ParseRobots parses robots.txt line by line. Comment lines and blank lines
// are ignored; unknown directives are skipped. The format is forgiving, so
// the parser is too: a directive before any User-agent line starts an
// implicit wildcard group.
func ParseRobots(text string) *RobotsFile {
	file := &RobotsFile{}
	var current *RobotsGroup
	// Consecutive User-agent lines share the following rule block.
	collectingAgents := false

	for _, rawLine := range strings.Split(text, "\n") {
		line := rawLine
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		directive := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])

		switch directive {
		case "user-agent":
			if current == nil || !collectingAgents {
				file.Groups = append(file.Groups, RobotsGroup{})
				current = &file.Groups[len(file.Groups)-1]
				collectingAgents = true
			}
			current.UserAgents = append(current.UserAgents, value)
		case "disallow":
			if current == nil {
				file.Groups = append(file.Groups, RobotsGroup{UserAgents: []string{"*"}})
				current = &file.Groups[len(file.Groups)-1]
			}
			collectingAgents = false
			current.Disallow = append(current.Disallow, value)
		case "allow":
			if current == nil {
				file.Groups = append(file.Groups, RobotsGroup{UserAgents: []string{"*"}})
				current = &file.Groups[len(file.Groups)-1]
			}
			collectingAgents = false
			current.Allow = append(current.Allow, value)
		case "sitemap":
			if value != "" {
				file.Sitemaps = append(file.Sitemaps, value)
			}
		}
	}

	return file
}

// SitemapDirectives extracts just the Sitemap: URLs from robots.txt text.
// Used by the sitemap analyzer's cross-check against cached robots content.
func SitemapDirectives(text string) []string {
	return ParseRobots(text).Sitemaps
}
