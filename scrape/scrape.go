// Package scrape orchestrates profile scraping. It enforces the access
// mode of each request against the browser session, paces requests per
// host, retries transient browser failures and hands decoded profiles to
// writers.
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/fwojciec/cbprofile"
	"github.com/fwojciec/cbprofile/bloom"
)

// Scraper drives a browser session through profile pages.
type Scraper struct {
	Session     cbprofile.Session
	Decoder     cbprofile.ProfileDecoder
	Writers     []cbprofile.ProfileWriter
	RateLimiter cbprofile.DomainLimiter
	RetryDelays []time.Duration
}

// Result holds the outcome of a batch.
type Result struct {
	Scraped int
	Failed  int
	Skipped int
}

// ProgressEvent reports progress during a batch.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	Name      string
	URL       string
	Sections  int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressSkipped
	ProgressFinished
)

// ProgressFunc is a callback for reporting batch progress.
type ProgressFunc func(event ProgressEvent)

// Login authenticates the session for elevated requests.
func (s *Scraper) Login(ctx context.Context, creds cbprofile.Credentials) error {
	if s.Session == nil {
		return cbprofile.Errorf(cbprofile.EINVALID, "session required")
	}
	if err := creds.Validate(); err != nil {
		return err
	}
	return s.Session.Authenticate(ctx, creds)
}

// Scrape decodes one profile and writes it to every writer.
//
// Public requests start from a fresh anonymous session. Elevated requests
// require a session authenticated with Login and fail with EUNAUTHORIZED
// otherwise.
func (s *Scraper) Scrape(ctx context.Context, req cbprofile.ProfileRequest) (*cbprofile.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.Session == nil {
		return nil, cbprofile.Errorf(cbprofile.EINVALID, "session required")
	}
	if s.Decoder == nil {
		return nil, cbprofile.Errorf(cbprofile.EINVALID, "decoder required")
	}

	if req.Elevated {
		if !s.Session.Authenticated() {
			return nil, cbprofile.Errorf(cbprofile.EUNAUTHORIZED, "not logged in")
		}
	} else {
		if err := s.Session.Reset(ctx); err != nil {
			return nil, fmt.Errorf("resetting session: %w", err)
		}
	}

	if s.RateLimiter != nil {
		if err := s.RateLimiter.Wait(ctx, host(req.URL)); err != nil {
			return nil, err
		}
	}

	var p *cbprofile.Profile
	err := retry(ctx, s.retryDelays(), func() error {
		var err error
		p, err = s.Decoder.DecodeProfile(ctx, s.Session, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.URL = req.URL

	if err := writeAll(ctx, s.Writers, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ScrapeAll scrapes every request in order. Requests repeating an earlier
// profile URL are skipped. A failed profile is reported and the batch
// continues, except that cancellation and missing access end the batch
// with an error.
func (s *Scraper) ScrapeAll(ctx context.Context, reqs []cbprofile.ProfileRequest, progress ProgressFunc) (*Result, error) {
	total := len(reqs)
	notify := func(e ProgressEvent) {
		if progress != nil {
			e.Total = total
			progress(e)
		}
	}

	notify(ProgressEvent{Type: ProgressStarted})

	seen := bloom.NewFilter(uint(total), bloom.DefaultFalsePositiveRate)
	result := &Result{}
	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		completed := i + 1
		if req.URL != "" && seen.Seen(req.URL) {
			result.Skipped++
			notify(ProgressEvent{Type: ProgressSkipped, Completed: completed, Name: req.Name, URL: req.URL})
			continue
		}

		p, err := s.Scrape(ctx, req)
		if err != nil {
			if fatal(ctx, err) {
				return result, err
			}
			result.Failed++
			notify(ProgressEvent{Type: ProgressFailed, Completed: completed, Name: req.Name, URL: req.URL, Error: err})
			continue
		}

		result.Scraped++
		notify(ProgressEvent{
			Type:      ProgressCompleted,
			Completed: completed,
			Name:      p.Name,
			URL:       p.URL,
			Sections:  p.Sections.Len(),
		})
	}

	notify(ProgressEvent{Type: ProgressFinished, Completed: total})
	return result, nil
}

func (s *Scraper) retryDelays() []time.Duration {
	if s.RetryDelays == nil {
		return DefaultRetryDelays()
	}
	return s.RetryDelays
}

// fatal reports whether err should end a batch.
func fatal(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return cbprofile.ErrorCode(err) == cbprofile.EUNAUTHORIZED
}

// host returns the URL's host, or the raw URL when it has none.
func host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}
