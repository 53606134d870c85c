package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/cbprofile"
	"github.com/fwojciec/cbprofile/scrape"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx         context.Context
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
	Records     cbprofile.RecordService
	Scraper     *scrape.Scraper
	Credentials cbprofile.Credentials
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB           string        `name:"db" env:"CBPROFILE_DB" default:"${default_db}" help:"Database path"`
	Verbose      bool          `short:"v" help:"Log every browser action"`
	BaseURL      string        `name:"base-url" default:"${default_base_url}" help:"Site that relative links resolve against"`
	LoginURL     string        `name:"login-url" default:"${default_login}" help:"Sign-in page for --pro"`
	Timeout      time.Duration `short:"t" default:"60s" help:"Page load timeout"`
	ClickTimeout time.Duration `name:"click-timeout" default:"5s" help:"How long a tab may take to become clickable"`
	Settle       time.Duration `default:"2s" help:"How long the page must stay unchanged to count as rendered"`
	Rate         float64       `default:"0.5" help:"Profiles per second per host (0 disables limiting)"`
	Headful      bool          `help:"Show the browser window"`
	Email        string        `env:"CBPROFILE_EMAIL" help:"Account email for --pro"`
	Password     string        `env:"CBPROFILE_PASSWORD" help:"Account password for --pro"`

	Scrape ScrapeCmd `cmd:"" help:"Scrape a single profile"`
	Batch  BatchCmd  `cmd:"" help:"Scrape profiles listed in a CSV file"`
	List   ListCmd   `cmd:"" help:"List stored profiles"`
	Show   ShowCmd   `cmd:"" help:"Print a stored profile"`
	Delete DeleteCmd `cmd:"" help:"Delete a stored profile"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL  string `arg:"" help:"Profile URL"`
	Name string `arg:"" optional:"" help:"Profile name (defaults to the URL's last path segment)"`
	Pro  bool   `help:"Log in and decode interactive cards"`
	Out  string `short:"o" type:"path" help:"Also write the profile as JSON under this directory"`
}

// BatchCmd is the "batch" subcommand.
type BatchCmd struct {
	File string `arg:"" help:"CSV file of 'url' or 'name,url' rows ('-' for stdin)"`
	Pro  bool   `help:"Log in and decode interactive cards"`
	Out  string `short:"o" type:"path" help:"Replace this directory with the batch's JSON files"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Name  string `help:"Only show profiles with this name"`
	Limit int    `short:"n" default:"50" help:"Maximum number of profiles to show"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID string `arg:"" help:"Record ID"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Record ID"`
	Force bool   `help:"Confirm deletion"`
}
