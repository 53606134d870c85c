package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/cbprofile"
	"github.com/fwojciec/cbprofile/fs"
	"github.com/fwojciec/cbprofile/scrape"
)

// Run executes the batch command.
func (c *BatchCmd) Run(deps *Dependencies) error {
	reqs, err := c.requests(deps.Stdin)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cbprofile.ErrorMessage(err))
		return err
	}

	s := deps.Scraper
	var store *fs.Store
	if c.Out != "" {
		out := filepath.Clean(c.Out)
		store = fs.NewStore(filepath.Dir(out), filepath.Base(out))
		s.Writers = append(s.Writers, store)
	}

	if c.Pro {
		if err := s.Login(deps.Ctx, deps.Credentials); err != nil {
			fmt.Fprintf(deps.Stderr, "error: login failed: %s\n", cbprofile.ErrorMessage(err))
			return err
		}
	}

	result, err := s.ScrapeAll(deps.Ctx, reqs, func(e scrape.ProgressEvent) {
		printProgress(deps.Stderr, e)
	})
	if err != nil {
		if store != nil {
			_ = store.Abort()
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", cbprofile.ErrorMessage(err))
		return err
	}

	if store != nil {
		if err := store.Commit(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", err)
			return err
		}
	}

	fmt.Fprintf(deps.Stdout, "Scraped %d, failed %d, skipped %d\n", result.Scraped, result.Failed, result.Skipped)
	return nil
}

// requests reads profile requests from the batch file. Each row is either
// "url" or "name,url"; lines starting with '#' are comments.
func (c *BatchCmd) requests(stdin io.Reader) ([]cbprofile.ProfileRequest, error) {
	var r io.Reader = stdin
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var reqs []cbprofile.ProfileRequest
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, cbprofile.Errorf(cbprofile.EINVALID, "reading %s: %v", c.File, err)
		}

		req := cbprofile.ProfileRequest{Elevated: c.Pro}
		switch len(row) {
		case 1:
			req.URL = strings.TrimSpace(row[0])
			req.Name = nameFromURL(req.URL)
		case 2:
			req.Name = strings.TrimSpace(row[0])
			req.URL = strings.TrimSpace(row[1])
		default:
			line, _ := cr.FieldPos(0)
			return nil, cbprofile.Errorf(cbprofile.EINVALID, "line %d: expected 'url' or 'name,url'", line)
		}
		if req.URL == "" {
			continue
		}
		reqs = append(reqs, req)
	}

	if len(reqs) == 0 {
		return nil, cbprofile.Errorf(cbprofile.EINVALID, "no profiles in %s", c.File)
	}
	return reqs, nil
}

func printProgress(w io.Writer, e scrape.ProgressEvent) {
	switch e.Type {
	case scrape.ProgressStarted:
		fmt.Fprintf(w, "Scraping %d profiles\n", e.Total)
	case scrape.ProgressCompleted:
		fmt.Fprintf(w, "[%d/%d] %s (%d sections)\n", e.Completed, e.Total, e.Name, e.Sections)
	case scrape.ProgressFailed:
		fmt.Fprintf(w, "[%d/%d] %s failed: %s\n", e.Completed, e.Total, e.URL, cbprofile.ErrorMessage(e.Error))
	case scrape.ProgressSkipped:
		fmt.Fprintf(w, "[%d/%d] %s skipped (duplicate)\n", e.Completed, e.Total, e.URL)
	}
}
