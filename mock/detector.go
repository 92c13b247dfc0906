package mock

import (
	"context"

	"github.com/docdex/docdex"
)

var _ docdex.Detector = (*Detector)(nil)

// Detector is a mock implementation of docdex.Detector.
type Detector struct {
	DetectFn func(ctx context.Context, url string) (*docdex.GitHubDetectionResult, error)
}

func (d *Detector) Detect(ctx context.Context, url string) (*docdex.GitHubDetectionResult, error) {
	return d.DetectFn(ctx, url)
}
