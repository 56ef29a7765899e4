package main

import (
	"fmt"

	"github.com/mlipski/pdfrag"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	source, err := findSourceByName(deps, c.Name)
	if err != nil {
		return err
	}

	answer, err := deps.Asker.Ask(deps.Ctx, source.ID, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdfrag.ErrorMessage(err))
		return err
	}

	printAnswer(deps, answer)
	return nil
}
