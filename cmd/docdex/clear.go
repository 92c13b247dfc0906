package main

import (
	"fmt"

	"github.com/docdex/docdex"
)

// Run executes the clear command.
func (c *ClearCmd) Run(deps *Dependencies) error {
	if c.All {
		n, err := deps.Indexer.ClearAll(deps.Ctx)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Removed %d cached sets\n", n)
		return nil
	}

	if c.Source == "" {
		return fmt.Errorf("a source argument or --all is required")
	}

	if err := deps.Indexer.Clear(deps.Ctx, c.Source); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Removed %s\n", c.Source)
	return nil
}
