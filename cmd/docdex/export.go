package main

import (
	"fmt"
	"path/filepath"

	"github.com/docdex/docdex"
	"github.com/docdex/docdex/fs"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	meta, err := deps.Indexer.Tree(deps.Ctx, c.Source, 0)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	name := c.Name
	if name == "" {
		name = meta.ID
	}

	exporter := fs.NewExporter(deps.Store, c.Dir, name)
	written, err := exporter.Export(deps.Ctx, meta.SourceKind, meta.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d files to %s\n", written, filepath.Join(c.Dir, name))
	return nil
}
