// Package clean converts raw HTML documents into normalized markdown,
// stripping navigation chrome and selecting the main content region.
package clean

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/docdex/docdex"
)

// Ensure Cleaner implements docdex.Cleaner at compile time.
var _ docdex.Cleaner = (*Cleaner)(nil)

// chromeSelectors name structural and conventional non-content elements.
// They are removed before main-content selection so boilerplate never wins
// the largest-text-block fallback.
var chromeSelectors = []string{
	"script", "style", "noscript", "iframe", "template",
	"nav", "header", "footer", "aside",
	"[role=navigation]", "[role=banner]", "[role=contentinfo]", "[role=complementary]",
	".nav", ".navbar", ".navigation", ".menu", ".sidebar", ".side-bar",
	".toc", ".table-of-contents", ".breadcrumb", ".breadcrumbs",
	".pagination", ".pager", ".footer", ".header",
	".ad", ".ads", ".advertisement", ".banner", ".cookie-banner",
	".comments", "#comments", ".comment-section", "#disqus_thread",
}

// mainSelectors are tried in order; the first non-empty match is the main
// content container.
var mainSelectors = []string{
	"main", "article", "[role=main]",
	"#main-content", ".main-content", "#content", ".content",
	".markdown-body", ".documentation", ".docs-content", ".doc-content",
}

// Cleaner normalizes HTML documents to markdown.
type Cleaner struct {
	conv *converter.Converter
}

// NewCleaner creates a Cleaner with commonmark and table conversion.
func NewCleaner() *Cleaner {
	return &Cleaner{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Clean converts a raw HTML document into a normalized document. The
// heading outline is extracted from the final markdown body, never from the
// source HTML, so it matches exactly what a reader of the body sees.
func (c *Cleaner) Clean(rawHTML string, opts docdex.CleanOptions) (*docdex.CleanResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, docdex.Errorf(docdex.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, docdex.Errorf(docdex.EINVALID, "failed to parse HTML: %v", err)
	}

	title := extractTitle(doc)

	for _, sel := range chromeSelectors {
		doc.Find(sel).Remove()
	}

	content := doc.Selection.Find("body")
	if content.Length() == 0 {
		content = doc.Selection
	}
	if opts.Main() {
		if main := selectMain(doc); main != nil {
			content = main
		}
	}

	if opts.BaseURL != "" {
		if baseParsed, err := url.Parse(opts.BaseURL); err == nil {
			absolutize(content, baseParsed)
		}
	}

	contentHTML, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, docdex.Errorf(docdex.EINTERNAL, "failed to serialize content: %v", err)
	}

	markdown, err := c.conv.ConvertString(contentHTML)
	if err != nil {
		return nil, err
	}

	body := postProcess(markdown)

	return &docdex.CleanResult{
		Body:     body,
		Title:    title,
		Headings: Headings(body),
	}, nil
}

// extractTitle applies the title heuristics in priority order: the title
// element with a site-name suffix stripped, then the first top-level
// heading, then og:title.
func extractTitle(doc *goquery.Document) string {
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return stripSiteSuffix(t)
	}
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	if t, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		return strings.TrimSpace(t)
	}
	return ""
}

// titleSeparators split a document title from an appended site name.
var titleSeparators = []string{" | ", " — ", " – ", " - ", " :: "}

func stripSiteSuffix(title string) string {
	for _, sep := range titleSeparators {
		if idx := strings.Index(title, sep); idx > 0 {
			return strings.TrimSpace(title[:idx])
		}
	}
	return strings.TrimSpace(title)
}

// selectMain returns the main content container, or nil when nothing
// matches. Sites without semantic markup fall back to the structural
// element holding the most text.
func selectMain(doc *goquery.Document) *goquery.Selection {
	for _, sel := range mainSelectors {
		candidate := doc.Find(sel).First()
		if candidate.Length() > 0 && strings.TrimSpace(candidate.Text()) != "" {
			return candidate
		}
	}

	var best *goquery.Selection
	bestLen := 0
	doc.Find("div, section").Each(func(_ int, s *goquery.Selection) {
		if l := len(strings.TrimSpace(s.Text())); l > bestLen {
			best, bestLen = s, l
		}
	})
	return best
}

// absolutize rewrites relative link targets and image sources against base.
// Anchor-only links stay untouched so in-page navigation keeps working.
func absolutize(content *goquery.Selection, base *url.URL) {
	rewrite := func(attr string) func(int, *goquery.Selection) {
		return func(_ int, s *goquery.Selection) {
			val, ok := s.Attr(attr)
			if !ok || val == "" || strings.HasPrefix(val, "#") {
				return
			}
			ref, err := url.Parse(val)
			if err != nil || ref.IsAbs() {
				return
			}
			s.SetAttr(attr, base.ResolveReference(ref).String())
		}
	}
	content.Find("a[href]").Each(rewrite("href"))
	content.Find("img[src]").Each(rewrite("src"))
}

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// postProcess trims trailing whitespace per line, collapses runs of blank
// lines to a single blank line, and guarantees exactly one trailing newline.
func postProcess(markdown string) string {
	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	out := strings.Join(lines, "\n")
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	return strings.TrimRight(strings.TrimLeft(out, "\n"), "\n") + "\n"
}
