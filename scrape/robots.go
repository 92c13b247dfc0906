package scrape

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/docdex/docdex/httpx"
)

// Robots holds the crawl policy parsed from a site's robots.txt: disallowed
// path patterns for our user agent plus an optional crawl delay.
type Robots struct {
	disallow   []*regexp.Regexp
	CrawlDelay time.Duration
	Sitemaps   []string
}

// Allowed reports whether the policy permits fetching the given path.
func (r *Robots) Allowed(path string) bool {
	if r == nil {
		return true
	}
	if path == "" {
		path = "/"
	}
	for _, re := range r.disallow {
		if re.MatchString(path) {
			return false
		}
	}
	return true
}

// ParseRobots parses robots.txt content, keeping the rules from the
// wildcard group and from any group naming userAgent. Sitemap directives
// are collected from the whole file, since robots.txt allows them
// outside any group.
func ParseRobots(body, userAgent string) *Robots {
	r := &Robots{}
	agentToken := productToken(userAgent)

	applies := false
	sawAgentLine := false

	for _, line := range strings.Split(body, "\n") {
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			agent := strings.ToLower(value)
			if sawAgentLine {
				// consecutive user-agent lines extend the same group
				applies = applies || agent == "*" || strings.Contains(agentToken, agent)
			} else {
				applies = agent == "*" || strings.Contains(agentToken, agent)
			}
			sawAgentLine = true
		case "disallow":
			sawAgentLine = false
			if applies && value != "" {
				if re := patternToRegexp(value); re != nil {
					r.disallow = append(r.disallow, re)
				}
			}
		case "crawl-delay":
			sawAgentLine = false
			if applies {
				if secs, err := strconv.ParseFloat(value, 64); err == nil && secs > 0 {
					r.CrawlDelay = time.Duration(secs * float64(time.Second))
				}
			}
		case "sitemap":
			sawAgentLine = false
			if value != "" {
				r.Sitemaps = append(r.Sitemaps, value)
			}
		default:
			sawAgentLine = false
		}
	}
	return r
}

// FetchRobots retrieves and parses robots.txt from the origin. Any failure
// yields a nil (allow-all) policy: absence of robots.txt is not a block.
func FetchRobots(ctx context.Context, client *httpx.Client, origin, userAgent string) *Robots {
	resp, err := client.Get(ctx, strings.TrimRight(origin, "/")+"/robots.txt")
	if err != nil || resp.StatusCode != http.StatusOK {
		return nil
	}
	return ParseRobots(resp.Body, userAgent)
}

// patternToRegexp translates a robots.txt path pattern into an anchored
// prefix regexp: "*" matches any run of characters, a trailing "$" anchors
// the end.
func patternToRegexp(pattern string) *regexp.Regexp {
	endAnchor := strings.HasSuffix(pattern, "$")
	pattern = strings.TrimSuffix(pattern, "$")

	var b strings.Builder
	b.WriteString("^")
	for _, part := range strings.Split(pattern, "*") {
		if b.Len() > 1 {
			b.WriteString(".*")
		}
		b.WriteString(regexp.QuoteMeta(part))
	}
	if endAnchor {
		b.WriteString("$")
	}

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil
	}
	return re
}

// productToken extracts the lowercased product name from a User-Agent value
// ("docdex/1.0 (+url)" -> "docdex/1.0").
func productToken(userAgent string) string {
	token := strings.ToLower(strings.TrimSpace(userAgent))
	if idx := strings.IndexByte(token, ' '); idx > 0 {
		token = token[:idx]
	}
	return token
}
