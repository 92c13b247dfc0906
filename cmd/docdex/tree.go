package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/docdex/docdex"
)

// Run executes the tree command.
func (c *TreeCmd) Run(deps *Dependencies) error {
	meta, err := deps.Indexer.Tree(deps.Ctx, c.Source, c.MaxDepth)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta.Tree)
	}

	fmt.Fprintf(deps.Stdout, "%s (%d pages)\n", sourceLabel(meta), meta.PageCount)
	printTree(deps, meta.Tree, 0)
	return nil
}

func printTree(deps *Dependencies, nodes []*docdex.DocTreeNode, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		if n.Kind == docdex.NodeFolder {
			fmt.Fprintf(deps.Stdout, "%s%s/\n", indent, n.Name)
			printTree(deps, n.Children, depth+1)
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s%s (%s)\n", indent, n.Name, formatBytes(n.SizeBytes))
	}
}
