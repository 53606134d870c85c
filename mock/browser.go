package mock

import (
	"context"
	"time"

	"github.com/fwojciec/cbprofile"
)

// Compile-time interface verification.
var (
	_ cbprofile.Browser = (*Browser)(nil)
	_ cbprofile.Session = (*Session)(nil)
)

// Browser is a mock implementation of cbprofile.Browser.
type Browser struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	ClickFn func(ctx context.Context, selector string, timeout time.Duration) (cbprofile.ClickResult, error)
	BackFn  func(ctx context.Context) error
	HTMLFn  func(ctx context.Context) (string, error)
	CloseFn func() error
}

func (b *Browser) Fetch(ctx context.Context, url string) (string, error) {
	return b.FetchFn(ctx, url)
}

func (b *Browser) Click(ctx context.Context, selector string, timeout time.Duration) (cbprofile.ClickResult, error) {
	return b.ClickFn(ctx, selector, timeout)
}

func (b *Browser) Back(ctx context.Context) error {
	return b.BackFn(ctx)
}

func (b *Browser) HTML(ctx context.Context) (string, error) {
	return b.HTMLFn(ctx)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}

// Session is a mock implementation of cbprofile.Session.
type Session struct {
	Browser

	AuthenticateFn  func(ctx context.Context, creds cbprofile.Credentials) error
	AuthenticatedFn func() bool
	ResetFn         func(ctx context.Context) error
}

func (s *Session) Authenticate(ctx context.Context, creds cbprofile.Credentials) error {
	return s.AuthenticateFn(ctx, creds)
}

func (s *Session) Authenticated() bool {
	return s.AuthenticatedFn()
}

func (s *Session) Reset(ctx context.Context) error {
	return s.ResetFn(ctx)
}
