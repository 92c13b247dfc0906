package mock

import "github.com/docdex/docdex"

var _ docdex.Cleaner = (*Cleaner)(nil)

// Cleaner is a mock implementation of docdex.Cleaner.
type Cleaner struct {
	CleanFn func(rawHTML string, opts docdex.CleanOptions) (*docdex.CleanResult, error)
}

func (c *Cleaner) Clean(rawHTML string, opts docdex.CleanOptions) (*docdex.CleanResult, error) {
	return c.CleanFn(rawHTML, opts)
}
