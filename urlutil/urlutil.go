// Package urlutil provides URL normalization, domain classification, and
// cache-identifier derivation shared by the crawler, the detector, and the
// orchestrator.
package urlutil

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// trackingParams are stripped during normalization so URLs differing only in
// analytics noise deduplicate to the same form.
var trackingParams = map[string]bool{
	"gclid":   true,
	"fbclid":  true,
	"mc_cid":  true,
	"mc_eid":  true,
	"ref":     true,
	"ref_src": true,
}

// Normalize returns the canonical form of a URL: lowercased scheme and host,
// fragment removed, tracking parameters stripped, remaining query keys
// sorted, and trailing slashes dropped. The root path collapses to the bare
// origin, so "https://host" and "https://host/" share one form. Normalization
// is idempotent.
func Normalize(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("URL %q is not absolute", raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			if trackingParams[key] || strings.HasPrefix(key, "utm_") {
				q.Del(key)
			}
		}
		u.RawQuery = encodeSorted(q)
	}

	if strings.HasSuffix(u.Path, "/") {
		u.Path = strings.TrimRight(u.Path, "/")
	}

	return u.String(), nil
}

func encodeSorted(q url.Values) string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		for _, v := range q[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// Host returns the lowercased hostname with any leading "www." stripped.
func Host(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// SameDomain reports whether two URLs share a registrable domain, ignoring
// a "www." prefix.
func SameDomain(a, b string) bool {
	ha, hb := Host(a), Host(b)
	return ha != "" && ha == hb
}

// GitHubID derives the cache identifier for a repository. Owner and repo
// are joined verbatim; GitHub's own naming rules already restrict them to
// filesystem-safe characters.
func GitHubID(owner, repo string) string {
	return owner + "_" + repo
}

// ScrapedID derives the cache identifier for a scraped site: the hostname
// with "www." stripped, dots replaced by underscores, and every character
// outside [A-Za-z0-9_-] replaced by an underscore.
func ScrapedID(raw string) string {
	h := Host(raw)
	return sanitize(strings.ReplaceAll(h, ".", "_"))
}

func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// PageFilename derives a cache filename from a page URL. The path maps to a
// flat markdown filename; a short hash of the query string keeps URLs that
// differ only in query parameters from colliding.
func PageFilename(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "index.md"
	}

	name := strings.Trim(u.Path, "/")
	if name == "" {
		name = "index"
	}
	name = sanitize(strings.ReplaceAll(name, "/", "_"))
	name = strings.TrimSuffix(name, "_html")
	name = strings.TrimSuffix(name, "_htm")

	if u.RawQuery != "" {
		name = fmt.Sprintf("%s-%08x", name, xxhash.Sum64String(u.RawQuery)&0xffffffff)
	}
	return name + ".md"
}
