package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/cbprofile"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	r, err := deps.Records.FindRecordByID(deps.Ctx, c.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cbprofile.ErrorMessage(err))
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(r.Content), "", "  "); err != nil {
		return fmt.Errorf("record %s has malformed content: %w", r.ID, err)
	}
	fmt.Fprintln(deps.Stdout, buf.String())
	return nil
}
