package docdex

import "context"

// Fetcher retrieves HTML from URLs over plain HTTP. Pages are fetched as
// served; JavaScript is never executed.
type Fetcher interface {
	// Fetch returns the response body for a 2xx HTML response.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)
}
