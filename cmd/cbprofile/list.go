package main

import (
	"fmt"

	"github.com/fwojciec/cbprofile"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := cbprofile.RecordFilter{Limit: c.Limit}
	if c.Name != "" {
		filter.Name = &c.Name
	}

	records, err := deps.Records.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cbprofile.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No profiles found. Use 'cbprofile scrape' to add one.")
		return nil
	}

	for _, r := range records {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %s  %s\n",
			r.ID, r.FetchedAt.Format("2006-01-02 15:04"), r.Access, r.Name, r.URL)
	}

	return nil
}
