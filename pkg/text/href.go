// Package text turns pasted catalog links into playable hrefs.
package text

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const uriScheme = "spotify"

var (
	spotifyURIRegex = regexp.MustCompile(`^spotify:(track|album|artist|playlist|episode|show):[A-Za-z0-9]+$`)
	localePathRegex = regexp.MustCompile(`^intl-[a-z]{2}(-[a-z]{2})?$`)

	webDomains = map[string]bool{
		"open.spotify.com": true,
		"play.spotify.com": true,
	}

	linkKinds = map[string]bool{
		"track":    true,
		"album":    true,
		"artist":   true,
		"playlist": true,
		"episode":  true,
		"show":     true,
	}
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Href returns the href to hand to the local player for input. Catalog URIs
// pass through unchanged, web player links become the matching URI, and
// anything else is returned trimmed since hrefs are otherwise opaque.
func (p *Parser) Href(input string) string {
	input = p.normalizeText(input)

	if spotifyURIRegex.MatchString(input) {
		return input
	}
	if uri, ok := p.uriFromWebLink(input); ok {
		return uri
	}
	return input
}

func (p *Parser) normalizeText(text string) string {
	text = norm.NFKC.String(text)
	return strings.TrimRight(strings.TrimSpace(text), ".,!?;")
}

// uriFromWebLink maps https://open.spotify.com/[intl-xx/]<kind>/<id>?si=...
// onto spotify:<kind>:<id>. Query parameters are tracking noise and dropped.
func (p *Parser) uriFromWebLink(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "", false
	}

	u, err := url.Parse(rawURL)
	if err != nil || !webDomains[strings.ToLower(u.Hostname())] {
		return "", false
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) > 0 && localePathRegex.MatchString(parts[0]) {
		parts = parts[1:]
	}
	if len(parts) != 2 || !linkKinds[parts[0]] || parts[1] == "" {
		return "", false
	}

	uri := uriScheme + ":" + parts[0] + ":" + parts[1]
	if !spotifyURIRegex.MatchString(uri) {
		return "", false
	}
	return uri, true
}
