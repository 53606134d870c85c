package rod

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/cbprofile"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultLoginURL is the page holding the sign-in form.
const DefaultLoginURL = "https://www.crunchbase.com/login"

// DefaultSettle is how long the DOM must stay unchanged after a navigation
// or click before the page counts as rendered.
const DefaultSettle = 2 * time.Second

// DefaultPageTimeout bounds a single navigation including settling.
const DefaultPageTimeout = 60 * time.Second

// Login form.
const (
	emailSelector    = `input[name='email']`
	passwordSelector = `input[name='password']`
	submitSelector   = `button[type='submit']`
)

// Ensure Session implements cbprofile.Session at compile time.
var _ cbprofile.Session = (*Session)(nil)

// Session is a single Chrome page driven through the DevTools protocol.
// Calls are serialized; the page is shared by every caller.
type Session struct {
	mu            sync.Mutex
	browser       *rod.Browser
	launcher      *launcher.Launcher
	page          *rod.Page
	authenticated bool
	closed        atomic.Bool

	headless    bool
	settle      time.Duration
	pageTimeout time.Duration
	loginURL    string
}

// Option configures a Session.
type Option func(*Session)

// WithHeadless controls whether Chrome runs without a window.
// Defaults to true.
func WithHeadless(headless bool) Option {
	return func(s *Session) {
		s.headless = headless
	}
}

// WithSettle sets how long the DOM must stay unchanged before a page counts
// as rendered. Zero only waits for the load event.
func WithSettle(d time.Duration) Option {
	return func(s *Session) {
		s.settle = d
	}
}

// WithPageTimeout bounds each navigation. Defaults to DefaultPageTimeout.
func WithPageTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.pageTimeout = d
	}
}

// WithLoginURL sets the sign-in page. Defaults to DefaultLoginURL.
func WithLoginURL(url string) Option {
	return func(s *Session) {
		s.loginURL = url
	}
}

// NewSession launches Chrome and opens a page.
// Close must be called when the Session is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewSession(opts ...Option) (*Session, error) {
	s := &Session{
		headless:    true,
		settle:      DefaultSettle,
		pageTimeout: DefaultPageTimeout,
		loginURL:    DefaultLoginURL,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.launch(); err != nil {
		return nil, err
	}
	return s, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (s *Session) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page, cancel, err := s.activePage(ctx)
	if err != nil {
		return "", err
	}
	defer cancel()

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := s.waitRender(page); err != nil {
		return "", fmt.Errorf("rendering %s: %w", url, err)
	}
	return page.HTML()
}

// Click waits up to timeout for the element matching selector and clicks
// it. An element that never appears is ClickNotFound; one that appears but
// cannot receive the click is ClickBlocked. Errors are reserved for browser
// failures and cancellation.
func (s *Session) Click(ctx context.Context, selector string, timeout time.Duration) (cbprofile.ClickResult, error) {
	if err := ctx.Err(); err != nil {
		return cbprofile.ClickNotFound, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page, cancel, err := s.activePage(ctx)
	if err != nil {
		return cbprofile.ClickNotFound, err
	}
	defer cancel()

	clickCtx, clickCancel := context.WithTimeout(ctx, timeout)
	defer clickCancel()

	el, err := page.Context(clickCtx).Element(selector)
	if err != nil {
		if expired(clickCtx, ctx) {
			return cbprofile.ClickNotFound, nil
		}
		return cbprofile.ClickNotFound, fmt.Errorf("finding %s: %w", selector, err)
	}

	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		if blocked(err) || expired(clickCtx, ctx) {
			return cbprofile.ClickBlocked, nil
		}
		return cbprofile.ClickNotFound, fmt.Errorf("clicking %s: %w", selector, err)
	}

	if err := s.settleDOM(page); err != nil {
		return cbprofile.ClickSucceeded, fmt.Errorf("settling after click on %s: %w", selector, err)
	}
	return cbprofile.ClickSucceeded, nil
}

// Back navigates to the previous page in history and waits for it to render.
func (s *Session) Back(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page, cancel, err := s.activePage(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	if err := page.NavigateBack(); err != nil {
		return fmt.Errorf("navigating back: %w", err)
	}
	return s.waitRender(page)
}

// HTML returns the current page's HTML without navigating.
func (s *Session) HTML(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page, cancel, err := s.activePage(ctx)
	if err != nil {
		return "", err
	}
	defer cancel()

	return page.HTML()
}

// Authenticate signs in through the login form. The session reports
// authenticated once the form has been submitted and the next page has
// rendered.
func (s *Session) Authenticate(ctx context.Context, creds cbprofile.Credentials) error {
	if err := creds.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page, cancel, err := s.activePage(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	if err := page.Navigate(s.loginURL); err != nil {
		return fmt.Errorf("navigating to %s: %w", s.loginURL, err)
	}
	if err := s.waitRender(page); err != nil {
		return fmt.Errorf("rendering %s: %w", s.loginURL, err)
	}

	if err := input(page, emailSelector, creds.Email); err != nil {
		return err
	}
	if err := input(page, passwordSelector, creds.Password); err != nil {
		return err
	}

	submit, err := page.Element(submitSelector)
	if err != nil {
		return fmt.Errorf("finding %s: %w", submitSelector, err)
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("submitting login form: %w", err)
	}
	if err := s.waitRender(page); err != nil {
		return fmt.Errorf("rendering after login: %w", err)
	}

	s.authenticated = true
	return nil
}

// Authenticated reports whether Authenticate succeeded since the session
// was created or last reset.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Reset tears the browser down and relaunches it, leaving an anonymous
// session with no cookies or history.
func (s *Session) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.closed.Load() {
		return cbprofile.Errorf(cbprofile.EINVALID, "session closed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.shutdown()
	return s.launch()
}

// Close releases browser resources. Close is safe to call multiple times.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.shutdown()
}

// activePage returns the page bound to ctx and the page timeout.
// Must be called with mu held.
func (s *Session) activePage(ctx context.Context) (*rod.Page, context.CancelFunc, error) {
	if s.closed.Load() || s.page == nil {
		return nil, nil, cbprofile.Errorf(cbprofile.EINVALID, "session closed")
	}
	ctx, cancel := context.WithTimeout(ctx, s.pageTimeout)
	return s.page.Context(ctx), cancel, nil
}

// waitRender waits for the load event and then for the DOM to settle.
func (s *Session) waitRender(page *rod.Page) error {
	if err := page.WaitLoad(); err != nil {
		return err
	}
	return s.settleDOM(page)
}

func (s *Session) settleDOM(page *rod.Page) error {
	if s.settle <= 0 {
		return nil
	}
	return page.WaitDOMStable(s.settle, 0)
}

// input types text into the element matching selector.
func input(page *rod.Page, selector, text string) error {
	el, err := page.Element(selector)
	if err != nil {
		return fmt.Errorf("finding %s: %w", selector, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("typing into %s: %w", selector, err)
	}
	return nil
}

// expired reports whether the click deadline passed while the caller's
// context is still live.
func expired(clickCtx, ctx context.Context) bool {
	return errors.Is(clickCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
}

// blocked reports whether err means the element exists but cannot be
// clicked.
func blocked(err error) bool {
	var (
		covered         *rod.CoveredError
		noPointerEvents *rod.NoPointerEventsError
		invisible       *rod.InvisibleShapeError
		notInteractable *rod.NotInteractableError
	)
	return errors.As(err, &covered) ||
		errors.As(err, &noPointerEvents) ||
		errors.As(err, &invisible) ||
		errors.As(err, &notInteractable)
}
