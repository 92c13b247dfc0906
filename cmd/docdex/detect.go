package main

import (
	"fmt"

	"github.com/docdex/docdex"
)

// Run executes the detect command.
func (c *DetectCmd) Run(deps *Dependencies) error {
	res, err := deps.Detector.Detect(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docdex.ErrorMessage(err))
		return err
	}

	if !res.Found {
		fmt.Fprintf(deps.Stdout, "No repository detected (%s)\n", res.Method)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "%s  confidence=%s  method=%s\n", res.Repo, res.Confidence, res.Method)
	if res.DocsPath != "" {
		fmt.Fprintf(deps.Stdout, "docs path: %s\n", res.DocsPath)
	}
	return nil
}
