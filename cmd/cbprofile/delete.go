package main

import (
	"fmt"

	"github.com/fwojciec/cbprofile"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return cbprofile.Errorf(cbprofile.EINVALID, "use --force to confirm deletion")
	}

	r, err := deps.Records.FindRecordByID(deps.Ctx, c.ID)
	if err != nil {
		if cbprofile.ErrorCode(err) == cbprofile.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: record %q not found. Use 'cbprofile list' to see stored profiles.\n", c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", cbprofile.ErrorMessage(err))
		return err
	}

	if err := deps.Records.DeleteRecord(deps.Ctx, r.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cbprofile.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %q (%s)\n", r.Name, r.ID)
	return nil
}
