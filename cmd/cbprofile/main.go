package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/cbprofile"
	"github.com/fwojciec/cbprofile/goquery"
	"github.com/fwojciec/cbprofile/rod"
	"github.com/fwojciec/cbprofile/scrape"
	cbslog "github.com/fwojciec/cbprofile/slog"
	"github.com/fwojciec/cbprofile/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Environment file loaded before flags are parsed. Missing files are
	// ignored; an empty path skips loading.
	EnvFile string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Browser session. Launched on demand when nil.
	Session cbprofile.Session

	// Services for end-to-end testing.
	RecordService cbprofile.RecordService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		EnvFile: ".env",
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.Session != nil {
		errs = append(errs, m.Session.Close())
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if err := loadEnv(m.EnvFile); err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("cbprofile"),
		kong.Description("Scrape Crunchbase profiles into structured JSON"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
		DefaultVars(),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'cbprofile --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)

	if err := os.MkdirAll(filepath.Dir(cli.DB), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	m.DB = sqlite.NewDB(cli.DB)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set CBPROFILE_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
	}
	defer m.Close()

	records := sqlite.NewRecordService(m.DB)
	m.RecordService = records
	deps.Records = records

	switch command := strings.Fields(kongCtx.Command())[0]; command {
	case "scrape", "batch":
		if m.Session == nil {
			session, err := rod.NewSession(
				rod.WithHeadless(!cli.Headful),
				rod.WithSettle(cli.Settle),
				rod.WithPageTimeout(cli.Timeout),
				rod.WithLoginURL(cli.LoginURL),
			)
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			m.Session = session
		}

		decoder, err := goquery.NewDecoder(
			goquery.WithBaseURL(cli.BaseURL),
			goquery.WithClickTimeout(cli.ClickTimeout),
		)
		if err != nil {
			return err
		}

		deps.Credentials = cbprofile.Credentials{Email: cli.Email, Password: cli.Password}
		deps.Scraper = &scrape.Scraper{
			Session:     cbslog.NewLoggingSession(m.Session, deps.Logger),
			Decoder:     cbslog.NewLoggingProfileDecoder(decoder, deps.Logger),
			Writers:     []cbprofile.ProfileWriter{records},
			RateLimiter: scrape.NewDomainLimiter(cli.Rate),
		}
	}

	return kongCtx.Run(deps)
}

// newLogger returns a text logger on w at info level, or debug when
// verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadEnv loads variables from path without overriding the environment.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// DefaultVars returns the variables interpolated into CLI flag defaults.
func DefaultVars() kong.Vars {
	return kong.Vars{
		"default_db":       defaultDBPath(),
		"default_base_url": goquery.DefaultBaseURL,
		"default_login":    rod.DefaultLoginURL,
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cbprofile.db"
	}
	return filepath.Join(home, ".cbprofile", "cbprofile.db")
}
