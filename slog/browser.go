package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/cbprofile"
)

// Ensure logging decorators implement their interfaces.
var (
	_ cbprofile.Browser = (*LoggingBrowser)(nil)
	_ cbprofile.Session = (*LoggingSession)(nil)
)

// LoggingBrowser wraps a Browser with logging. Page loads log at info
// level; clicks and page reads log at debug level.
type LoggingBrowser struct {
	next   cbprofile.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next cbprofile.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped browser.
func (b *LoggingBrowser) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		b.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Fetch(ctx, url)
}

// Click logs the selector and the click result.
func (b *LoggingBrowser) Click(ctx context.Context, selector string, timeout time.Duration) (res cbprofile.ClickResult, err error) {
	defer func(begin time.Time) {
		b.logger.Debug("click",
			"selector", selector,
			"result", res.String(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Click(ctx, selector, timeout)
}

// Back logs the navigation.
func (b *LoggingBrowser) Back(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		b.logger.Debug("back",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Back(ctx)
}

// HTML logs the size of the current page.
func (b *LoggingBrowser) HTML(ctx context.Context) (html string, err error) {
	defer func(begin time.Time) {
		b.logger.Debug("html",
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.HTML(ctx)
}

// Close delegates to the wrapped browser.
func (b *LoggingBrowser) Close() error {
	return b.next.Close()
}

// LoggingSession wraps a Session with logging.
type LoggingSession struct {
	*LoggingBrowser
	next cbprofile.Session
}

// NewLoggingSession creates a new LoggingSession.
func NewLoggingSession(next cbprofile.Session, logger *slog.Logger) *LoggingSession {
	return &LoggingSession{
		LoggingBrowser: NewLoggingBrowser(next, logger),
		next:           next,
	}
}

// Authenticate logs the account signing in. The password is never logged.
func (s *LoggingSession) Authenticate(ctx context.Context, creds cbprofile.Credentials) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("login",
			"email", creds.Email,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Authenticate(ctx, creds)
}

// Authenticated delegates to the wrapped session.
func (s *LoggingSession) Authenticated() bool {
	return s.next.Authenticated()
}

// Reset logs the session teardown.
func (s *LoggingSession) Reset(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("reset",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Reset(ctx)
}
