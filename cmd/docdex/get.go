package main

import (
	"fmt"

	"github.com/docdex/docdex"
)

// Run executes the get command.
func (c *GetCmd) Run(deps *Dependencies) error {
	content, err := deps.Indexer.Content(deps.Ctx, c.Source, c.Path)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}
	fmt.Fprint(deps.Stdout, content)
	return nil
}
