package cbprofile

import (
	"context"
	"time"
)

// ClickResult is the outcome of an attempted click.
type ClickResult int

// Click outcomes.
const (
	// ClickSucceeded means the element was clicked and the page settled.
	ClickSucceeded ClickResult = iota

	// ClickNotFound means no clickable element matched before the deadline.
	ClickNotFound

	// ClickBlocked means another element intercepted the click.
	ClickBlocked
)

// String returns a short name for the result.
func (r ClickResult) String() string {
	switch r {
	case ClickSucceeded:
		return "succeeded"
	case ClickNotFound:
		return "not_found"
	case ClickBlocked:
		return "blocked"
	}
	return "unknown"
}

// Browser is a single browser tab driven one navigation at a time.
// Implementations are not expected to support overlapping calls.
type Browser interface {
	// Fetch navigates to the URL, waits for the page to render,
	// and returns the rendered HTML.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Click clicks the first element matching the CSS selector once it is
	// clickable. A missing or intercepted element is reported through the
	// result, not the error; the error is reserved for browser failures.
	Click(ctx context.Context, selector string, timeout time.Duration) (ClickResult, error)

	// Back returns to the previous navigation entry.
	Back(ctx context.Context) error

	// HTML returns the current page's rendered HTML.
	HTML(ctx context.Context) (string, error)

	// Close releases browser resources.
	Close() error
}

// Credentials authenticate a session for elevated access.
type Credentials struct {
	Email    string
	Password string
}

// Validate returns an error if either credential is missing.
func (c *Credentials) Validate() error {
	if c.Email == "" || c.Password == "" {
		return Errorf(EINVALID, "email and password required")
	}
	return nil
}

// Session is a Browser with an authentication lifecycle.
type Session interface {
	Browser

	// Authenticate logs in with the given credentials.
	Authenticate(ctx context.Context, creds Credentials) error

	// Authenticated reports whether Authenticate has succeeded since the
	// last Reset.
	Authenticated() bool

	// Reset tears down the browser and starts a fresh anonymous one.
	Reset(ctx context.Context) error
}
