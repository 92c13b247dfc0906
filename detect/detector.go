// Package detect heuristically determines whether a GitHub repository backs
// a documentation site.
package detect

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docdex/docdex"
)

// Ensure Detector implements docdex.Detector at compile time.
var _ docdex.Detector = (*Detector)(nil)

// Detection method labels.
const (
	MethodGitHubURL   = "github_url"
	MethodGitHubPages = "github_pages_url"
	MethodEditLink    = "edit_link"
	MethodMetaTag     = "meta_tag"
	MethodLinkCensus  = "link_census"
	MethodFetchFailed = "fetch_failed"
	MethodNoMatch     = "no_match"
)

// Detector resolves a docs-site URL to the repository behind it. Strategies
// run in strict priority order and the first conclusive match wins; signals
// are never blended.
type Detector struct {
	Fetcher docdex.Fetcher
	Logger  *slog.Logger
}

// pageStrategy inspects a fetched page and returns a result, or nil when
// the heuristic has nothing to say. Keeping each heuristic a pure function
// over the parsed page makes them independently testable.
type pageStrategy struct {
	name string
	fn   func(doc *goquery.Document, rawHTML string) *docdex.GitHubDetectionResult
}

var pageStrategies = []pageStrategy{
	{MethodEditLink, detectEditLink},
	{MethodMetaTag, detectMetaTag},
	{MethodLinkCensus, detectLinkCensus},
}

// Detect runs the strategy chain. "Couldn't check" (fetch_failed) and
// "checked, no repo" (no_match) are distinct results, never errors.
func (d *Detector) Detect(ctx context.Context, rawURL string) (*docdex.GitHubDetectionResult, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "invalid URL %q; expected an absolute http(s) URL", rawURL)
	}

	// The URL itself may be the target; no fetch needed.
	if res := detectFromURL(u); res != nil {
		return res, nil
	}

	html, err := d.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		if d.Logger != nil {
			d.Logger.Debug("detection fetch failed", slog.String("url", rawURL), slog.String("err", err.Error()))
		}
		return &docdex.GitHubDetectionResult{
			Found:      false,
			Confidence: docdex.ConfidenceLow,
			Method:     MethodFetchFailed,
		}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		for _, s := range pageStrategies {
			if res := s.fn(doc, html); res != nil {
				return res, nil
			}
		}
	}

	return &docdex.GitHubDetectionResult{
		Found:      false,
		Confidence: docdex.ConfidenceLow,
		Method:     MethodNoMatch,
	}, nil
}

// detectFromURL handles direct github.com URLs and *.github.io sites. A
// project page maps to owner/firstSegment; a bare user site maps to the
// owner/owner.github.io convention repository.
func detectFromURL(u *url.URL) *docdex.GitHubDetectionResult {
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")

	if host == "github.com" {
		if owner, repo, ok := repoFromPath(u.Path); ok {
			return &docdex.GitHubDetectionResult{
				Found:      true,
				Repo:       owner + "/" + repo,
				Confidence: docdex.ConfidenceHigh,
				Method:     MethodGitHubURL,
			}
		}
		return nil
	}

	if strings.HasSuffix(host, ".github.io") {
		owner := strings.TrimSuffix(host, ".github.io")
		repo := owner + ".github.io"
		if segs := splitPath(u.Path); len(segs) > 0 {
			repo = segs[0]
		}
		return &docdex.GitHubDetectionResult{
			Found:      true,
			Repo:       owner + "/" + repo,
			Confidence: docdex.ConfidenceHigh,
			Method:     MethodGitHubPages,
		}
	}

	return nil
}

var editPhraseRe = regexp.MustCompile(`(?i)\b(edit|view|improve)\b.*\b(page|source|github)\b|\bsource\b`)

// editURLRe matches configuration-style edit-URI fields (docusaurus
// editUrl, mkdocs edit_uri) embedded in page scripts.
var editURLRe = regexp.MustCompile(`['"]edit_?ur[il]['"]?\s*[:=]\s*['"](https://github\.com/[^'"]+)['"]`)

func detectEditLink(doc *goquery.Document, rawHTML string) *docdex.GitHubDetectionResult {
	var found *docdex.GitHubDetectionResult

	doc.Find(`a[href*="github.com"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		text := strings.TrimSpace(s.Text())
		if !editPhraseRe.MatchString(text) {
			return true
		}
		if owner, repo, ok := repoFromLink(href); ok {
			found = &docdex.GitHubDetectionResult{
				Found:      true,
				Repo:       owner + "/" + repo,
				DocsPath:   docsPathFromLink(href),
				Confidence: docdex.ConfidenceHigh,
				Method:     MethodEditLink,
			}
			return false
		}
		return true
	})
	if found != nil {
		return found
	}

	if m := editURLRe.FindStringSubmatch(rawHTML); m != nil {
		if owner, repo, ok := repoFromLink(m[1]); ok {
			return &docdex.GitHubDetectionResult{
				Found:      true,
				Repo:       owner + "/" + repo,
				DocsPath:   docsPathFromLink(m[1]),
				Confidence: docdex.ConfidenceHigh,
				Method:     MethodEditLink,
			}
		}
	}
	return nil
}

func detectMetaTag(doc *goquery.Document, _ string) *docdex.GitHubDetectionResult {
	candidates := []string{
		`meta[property="og:url"]`,
		`meta[name="repository"]`,
		`meta[name="github-repo"]`,
	}
	for _, sel := range candidates {
		content, ok := doc.Find(sel).First().Attr("content")
		if !ok {
			continue
		}
		if owner, repo, ok := repoFromLink(content); ok {
			return &docdex.GitHubDetectionResult{
				Found:      true,
				Repo:       owner + "/" + repo,
				Confidence: docdex.ConfidenceMedium,
				Method:     MethodMetaTag,
			}
		}
	}
	return nil
}

// censusThreshold is the repeat count at which a census hit is considered
// medium confidence instead of low.
const censusThreshold = 3

func detectLinkCensus(doc *goquery.Document, _ string) *docdex.GitHubDetectionResult {
	counts := make(map[string]int)
	var order []string

	doc.Find(`a[href*="github.com"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr(`href`)
		owner, repo, ok := repoFromLink(href)
		if !ok {
			return
		}
		key := owner + "/" + repo
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	})

	best, bestCount := "", 0
	for _, key := range order {
		if counts[key] > bestCount {
			best, bestCount = key, counts[key]
		}
	}
	if best == "" {
		return nil
	}

	confidence := docdex.ConfidenceLow
	if bestCount >= censusThreshold {
		confidence = docdex.ConfidenceMedium
	}
	return &docdex.GitHubDetectionResult{
		Found:      true,
		Repo:       best,
		Confidence: confidence,
		Method:     MethodLinkCensus,
	}
}

// nonRepoSegments are github.com first path segments that never name a
// repository owner.
var nonRepoSegments = map[string]bool{
	"issues": true, "pulls": true, "sponsors": true, "marketplace": true,
	"topics": true, "collections": true, "orgs": true, "features": true,
	"about": true, "pricing": true, "login": true, "join": true,
	"signup": true, "explore": true, "trending": true, "settings": true,
	"notifications": true, "apps": true, "contact": true, "site": true,
	"enterprise": true, "customer-stories": true, "readme": true,
}

func repoFromLink(href string) (owner, repo string, ok bool) {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != "github.com" {
		return "", "", false
	}
	return repoFromPath(u.Path)
}

func repoFromPath(path string) (owner, repo string, ok bool) {
	segs := splitPath(path)
	if len(segs) < 2 || nonRepoSegments[strings.ToLower(segs[0])] {
		return "", "", false
	}
	return segs[0], strings.TrimSuffix(segs[1], ".git"), true
}

// docsPathFromLink extracts the directory portion of an edit/blob/tree
// link. Edit and blob links end in a file (.../edit/main/docs/guide.md ->
// "docs"); tree links end in the directory itself (.../tree/main/docs ->
// "docs").
func docsPathFromLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	segs := splitPath(u.Path)
	if len(segs) < 5 {
		return ""
	}
	switch segs[2] {
	case "edit", "blob":
		return strings.Join(segs[4:len(segs)-1], "/")
	case "tree":
		return strings.Join(segs[4:], "/")
	}
	return ""
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
