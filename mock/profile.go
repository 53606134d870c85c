package mock

import (
	"context"

	"github.com/fwojciec/cbprofile"
)

// Compile-time interface verification.
var (
	_ cbprofile.ProfileDecoder = (*ProfileDecoder)(nil)
	_ cbprofile.ProfileWriter  = (*ProfileWriter)(nil)
	_ cbprofile.DomainLimiter  = (*DomainLimiter)(nil)
)

// ProfileDecoder is a mock implementation of cbprofile.ProfileDecoder.
type ProfileDecoder struct {
	DecodeProfileFn func(ctx context.Context, b cbprofile.Browser, req cbprofile.ProfileRequest) (*cbprofile.Profile, error)
}

func (d *ProfileDecoder) DecodeProfile(ctx context.Context, b cbprofile.Browser, req cbprofile.ProfileRequest) (*cbprofile.Profile, error) {
	return d.DecodeProfileFn(ctx, b, req)
}

// ProfileWriter is a mock implementation of cbprofile.ProfileWriter.
type ProfileWriter struct {
	WriteProfileFn func(ctx context.Context, p *cbprofile.Profile) error
}

func (w *ProfileWriter) WriteProfile(ctx context.Context, p *cbprofile.Profile) error {
	return w.WriteProfileFn(ctx, p)
}

// DomainLimiter is a mock implementation of cbprofile.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
