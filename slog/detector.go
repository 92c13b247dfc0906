package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/docdex/docdex"
)

// Ensure LoggingDetector implements docdex.Detector at compile time.
var _ docdex.Detector = (*LoggingDetector)(nil)

// LoggingDetector wraps a Detector with logging of which heuristic matched.
type LoggingDetector struct {
	next   docdex.Detector
	logger *slog.Logger
}

// NewLoggingDetector creates a new LoggingDetector.
func NewLoggingDetector(next docdex.Detector, logger *slog.Logger) *LoggingDetector {
	return &LoggingDetector{next: next, logger: logger}
}

// Detect delegates to the wrapped detector and logs the outcome.
func (d *LoggingDetector) Detect(ctx context.Context, url string) (*docdex.GitHubDetectionResult, error) {
	begin := time.Now()
	res, err := d.next.Detect(ctx, url)
	if err != nil {
		d.logger.Error("repository detection",
			"url", url,
			"duration", time.Since(begin),
			"err", err.Error(),
		)
		return nil, err
	}
	d.logger.Info("repository detection",
		"url", url,
		"found", res.Found,
		"repo", res.Repo,
		"confidence", string(res.Confidence),
		"method", res.Method,
		"duration", time.Since(begin),
	)
	return res, nil
}
