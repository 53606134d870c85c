package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/cbprofile"
	"github.com/fwojciec/cbprofile/fs"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	s := deps.Scraper
	if c.Out != "" {
		s.Writers = append(s.Writers, fs.NewWriter(c.Out))
	}

	if c.Pro {
		if err := s.Login(deps.Ctx, deps.Credentials); err != nil {
			fmt.Fprintf(deps.Stderr, "error: login failed: %s\n", cbprofile.ErrorMessage(err))
			return err
		}
	}

	name := c.Name
	if name == "" {
		name = nameFromURL(c.URL)
	}

	p, err := s.Scrape(deps.Ctx, cbprofile.ProfileRequest{Name: name, URL: c.URL, Elevated: c.Pro})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cbprofile.ErrorMessage(err))
		return err
	}

	out, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, string(out))
	fmt.Fprintf(deps.Stderr, "Scraped %q (%d sections)\n", p.Name, p.Sections.Len())
	return nil
}

// nameFromURL returns the last path segment of rawURL, the fallback name
// for profiles whose page has no heading.
func nameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	base := path.Base(strings.TrimSuffix(u.Path, "/"))
	if base == "." || base == "/" || base == "" {
		return u.Host
	}
	return base
}
