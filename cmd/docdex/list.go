package main

import (
	"fmt"

	"github.com/docdex/docdex"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	entries, err := deps.Indexer.List(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(deps.Stdout, "No cached documentation. Use 'docdex index' to add some.")
		return nil
	}

	for _, meta := range entries {
		fmt.Fprintf(deps.Stdout, "%-8s %-40s %4d pages  indexed %s\n",
			meta.SourceKind, sourceLabel(meta), meta.PageCount,
			meta.IndexedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
