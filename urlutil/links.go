package urlutil

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// assetExtensions are file types that are never in-scope documentation.
var assetExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true,
	".ico": true, ".webp": true, ".css": true, ".js": true, ".mjs": true,
	".json": true, ".xml": true, ".pdf": true, ".zip": true, ".gz": true,
	".tar": true, ".woff": true, ".woff2": true, ".ttf": true, ".mp4": true,
}

// skipPathMarkers identify API and auth endpoints that a documentation
// crawl must not follow.
var skipPathMarkers = []string{
	"/api/", "/login", "/signin", "/sign-in", "/signup", "/sign-up",
	"/logout", "/oauth", "/auth/", "/cdn-cgi/",
}

// ExtractLinks scans raw markup for hyperlinks and resolves them against
// base. Anchor-only, mailto, javascript, tel, and data links are dropped.
// Malformed markup is tolerated: the tokenizer consumes what it can.
func ExtractLinks(rawHTML string, base *url.URL) []string {
	var links []string
	seen := make(map[string]bool)

	z := html.NewTokenizer(strings.NewReader(rawHTML))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return links
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		if len(name) != 1 || name[0] != 'a' || !hasAttr {
			continue
		}
		for {
			key, val, more := z.TagAttr()
			if string(key) == "href" {
				if resolved := Resolve(base, string(val)); resolved != "" && !seen[resolved] {
					seen[resolved] = true
					links = append(links, resolved)
				}
			}
			if !more {
				break
			}
		}
	}
}

// Resolve resolves href against base and returns the absolute URL, or ""
// when the link is non-HTTP or unparsable.
func Resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || IsNonHTTP(href) {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// IsNonHTTP reports whether href uses a scheme (or form) that can never be
// fetched: fragments, javascript:, mailto:, tel:, data:.
func IsNonHTTP(href string) bool {
	lower := strings.ToLower(href)
	return strings.HasPrefix(href, "#") ||
		strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "data:")
}

// IsSkippablePath reports whether a URL path points at an asset, API, or
// auth endpoint rather than documentation content.
func IsSkippablePath(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return true
	}
	p := strings.ToLower(u.Path)
	if idx := strings.LastIndex(p, "."); idx >= 0 {
		if assetExtensions[p[idx:]] {
			return true
		}
	}
	for _, marker := range skipPathMarkers {
		if strings.Contains(p, marker) || strings.HasSuffix(p, strings.TrimSuffix(marker, "/")) {
			return true
		}
	}
	return false
}
