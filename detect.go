package docdex

import "context"

// Confidence is a three-level qualitative rating for a heuristic detection.
type Confidence string

// Confidence levels.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// GitHubDetectionResult reports whether a GitHub repository backs a
// documentation site. Method names the heuristic that matched, or
// distinguishes "couldn't check" (fetch_failed) from "checked, no repo"
// (no_match).
type GitHubDetectionResult struct {
	Found      bool       `json:"found"`
	Repo       string     `json:"repo,omitempty"` // owner/name
	DocsPath   string     `json:"docsPath,omitempty"`
	Confidence Confidence `json:"confidence"`
	Method     string     `json:"method"`
}

// Detector heuristically determines whether a GitHub repository backs a
// documentation-site URL.
type Detector interface {
	Detect(ctx context.Context, url string) (*GitHubDetectionResult, error)
}
