package scrape_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/cbprofile"
	"github.com/fwojciec/cbprofile/mock"
	"github.com/fwojciec/cbprofile/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acmeURL = "https://www.crunchbase.com/organization/acme"

// recorder collects the order of collaborator calls.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func newSession(rec *recorder, authenticated bool) *mock.Session {
	return &mock.Session{
		ResetFn: func(context.Context) error {
			rec.add("reset")
			return nil
		},
		AuthenticatedFn: func() bool {
			return authenticated
		},
	}
}

func decoderReturning(rec *recorder) *mock.ProfileDecoder {
	return &mock.ProfileDecoder{
		DecodeProfileFn: func(_ context.Context, _ cbprofile.Browser, req cbprofile.ProfileRequest) (*cbprofile.Profile, error) {
			rec.add("decode " + req.URL)
			sections := cbprofile.NewFields()
			overview := cbprofile.NewFields()
			overview.SetText("Description", "HelloWorld")
			sections.Set(cbprofile.Label("Overview"), cbprofile.Nested(overview))
			access := cbprofile.AccessPublic
			if req.Elevated {
				access = cbprofile.AccessElevated
			}
			return &cbprofile.Profile{Name: req.Name, URL: req.URL, Access: access, Sections: sections}, nil
		},
	}
}

func TestScraper_Scrape(t *testing.T) {
	t.Parallel()

	t.Run("rejects invalid requests", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Scraper{Session: &mock.Session{}, Decoder: &mock.ProfileDecoder{}}

		_, err := s.Scrape(context.Background(), cbprofile.ProfileRequest{Name: "Acme"})

		require.Error(t, err)
		assert.Equal(t, cbprofile.EINVALID, cbprofile.ErrorCode(err))
		assert.Equal(t, "profile URL required", cbprofile.ErrorMessage(err))
	})

	t.Run("requires a session", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Scraper{Decoder: &mock.ProfileDecoder{}}

		_, err := s.Scrape(context.Background(), cbprofile.ProfileRequest{Name: "Acme", URL: acmeURL})

		assert.Equal(t, cbprofile.EINVALID, cbprofile.ErrorCode(err))
	})

	t.Run("public requests reset the session first", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		s := &scrape.Scraper{
			Session: newSession(rec, true),
			Decoder: decoderReturning(rec),
			RateLimiter: &mock.DomainLimiter{
				WaitFn: func(_ context.Context, domain string) error {
					rec.add("wait " + domain)
					return nil
				},
			},
		}

		p, err := s.Scrape(context.Background(), cbprofile.ProfileRequest{Name: "Acme", URL: acmeURL})

		require.NoError(t, err)
		assert.Equal(t, cbprofile.AccessPublic, p.Access)
		assert.Equal(t, []string{"reset", "wait www.crunchbase.com", "decode " + acmeURL}, rec.list())
	})

	t.Run("elevated requests require login", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		s := &scrape.Scraper{
			Session: newSession(rec, false),
			Decoder: decoderReturning(rec),
		}

		_, err := s.Scrape(context.Background(), cbprofile.ProfileRequest{Name: "Acme", URL: acmeURL, Elevated: true})

		require.Error(t, err)
		assert.Equal(t, cbprofile.EUNAUTHORIZED, cbprofile.ErrorCode(err))
		assert.Equal(t, "not logged in", cbprofile.ErrorMessage(err))
		assert.Empty(t, rec.list())
	})

	t.Run("elevated requests keep the session", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		session := newSession(rec, true)
		var gotBrowser cbprofile.Browser
		var gotReq cbprofile.ProfileRequest
		s := &scrape.Scraper{
			Session: session,
			Decoder: &mock.ProfileDecoder{
				DecodeProfileFn: func(_ context.Context, b cbprofile.Browser, req cbprofile.ProfileRequest) (*cbprofile.Profile, error) {
					gotBrowser = b
					gotReq = req
					return &cbprofile.Profile{Name: "Acme", Access: cbprofile.AccessElevated, Sections: cbprofile.NewFields()}, nil
				},
			},
		}

		req := cbprofile.ProfileRequest{Name: "Acme", URL: acmeURL, Elevated: true}
		p, err := s.Scrape(context.Background(), req)

		require.NoError(t, err)
		assert.Empty(t, rec.list())
		assert.Same(t, session, gotBrowser)
		assert.Equal(t, req, gotReq)
		assert.Equal(t, acmeURL, p.URL)
	})

	t.Run("writes to every writer", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		var mu sync.Mutex
		var written []string
		writer := func(name string) *mock.ProfileWriter {
			return &mock.ProfileWriter{
				WriteProfileFn: func(_ context.Context, p *cbprofile.Profile) error {
					mu.Lock()
					defer mu.Unlock()
					written = append(written, name+":"+p.Name)
					return nil
				},
			}
		}
		s := &scrape.Scraper{
			Session: newSession(rec, false),
			Decoder: decoderReturning(rec),
			Writers: []cbprofile.ProfileWriter{writer("db"), writer("fs")},
		}

		_, err := s.Scrape(context.Background(), cbprofile.ProfileRequest{Name: "Acme", URL: acmeURL})

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"db:Acme", "fs:Acme"}, written)
	})

	t.Run("returns writer errors", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		s := &scrape.Scraper{
			Session: newSession(rec, false),
			Decoder: decoderReturning(rec),
			Writers: []cbprofile.ProfileWriter{&mock.ProfileWriter{
				WriteProfileFn: func(context.Context, *cbprofile.Profile) error {
					return errors.New("disk full")
				},
			}},
		}

		_, err := s.Scrape(context.Background(), cbprofile.ProfileRequest{Name: "Acme", URL: acmeURL})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})

	t.Run("retries browser failures", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		attempts := 0
		s := &scrape.Scraper{
			Session: newSession(rec, false),
			Decoder: &mock.ProfileDecoder{
				DecodeProfileFn: func(context.Context, cbprofile.Browser, cbprofile.ProfileRequest) (*cbprofile.Profile, error) {
					attempts++
					if attempts == 1 {
						return nil, errors.New("target closed")
					}
					return &cbprofile.Profile{Name: "Acme", Sections: cbprofile.NewFields()}, nil
				},
			},
			RetryDelays: []time.Duration{0, 0},
		}

		_, err := s.Scrape(context.Background(), cbprofile.ProfileRequest{Name: "Acme", URL: acmeURL})

		require.NoError(t, err)
		assert.Equal(t, 2, attempts)
	})

	t.Run("gives up after the last retry", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		attempts := 0
		s := &scrape.Scraper{
			Session: newSession(rec, false),
			Decoder: &mock.ProfileDecoder{
				DecodeProfileFn: func(context.Context, cbprofile.Browser, cbprofile.ProfileRequest) (*cbprofile.Profile, error) {
					attempts++
					return nil, errors.New("target closed")
				},
			},
			RetryDelays: []time.Duration{0, 0},
		}

		_, err := s.Scrape(context.Background(), cbprofile.ProfileRequest{Name: "Acme", URL: acmeURL})

		require.Error(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("does not retry application errors", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		attempts := 0
		s := &scrape.Scraper{
			Session: newSession(rec, false),
			Decoder: &mock.ProfileDecoder{
				DecodeProfileFn: func(context.Context, cbprofile.Browser, cbprofile.ProfileRequest) (*cbprofile.Profile, error) {
					attempts++
					return nil, cbprofile.Errorf(cbprofile.EINVALID, "profile name not found on %s", acmeURL)
				},
			},
			RetryDelays: []time.Duration{0, 0},
		}

		_, err := s.Scrape(context.Background(), cbprofile.ProfileRequest{URL: acmeURL, Name: "Acme"})

		require.Error(t, err)
		assert.Equal(t, 1, attempts)
		assert.Equal(t, cbprofile.EINVALID, cbprofile.ErrorCode(err))
	})
}

func TestScraper_Login(t *testing.T) {
	t.Parallel()

	t.Run("authenticates the session", func(t *testing.T) {
		t.Parallel()

		var got cbprofile.Credentials
		s := &scrape.Scraper{Session: &mock.Session{
			AuthenticateFn: func(_ context.Context, creds cbprofile.Credentials) error {
				got = creds
				return nil
			},
		}}

		creds := cbprofile.Credentials{Email: "jane@example.com", Password: "secret"}
		err := s.Login(context.Background(), creds)

		require.NoError(t, err)
		assert.Equal(t, creds, got)
	})

	t.Run("rejects missing credentials", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Scraper{Session: &mock.Session{}}

		err := s.Login(context.Background(), cbprofile.Credentials{Email: "jane@example.com"})

		assert.Equal(t, cbprofile.EINVALID, cbprofile.ErrorCode(err))
	})

	t.Run("requires a session", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Scraper{}

		err := s.Login(context.Background(), cbprofile.Credentials{Email: "jane@example.com", Password: "secret"})

		assert.Equal(t, cbprofile.EINVALID, cbprofile.ErrorCode(err))
	})
}

func TestScraper_ScrapeAll(t *testing.T) {
	t.Parallel()

	t.Run("skips duplicates and continues past failures", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		s := &scrape.Scraper{
			Session: newSession(rec, false),
			Decoder: &mock.ProfileDecoder{
				DecodeProfileFn: func(_ context.Context, _ cbprofile.Browser, req cbprofile.ProfileRequest) (*cbprofile.Profile, error) {
					if req.Name == "Broken" {
						return nil, cbprofile.Errorf(cbprofile.EINVALID, "profile name not found on %s", req.URL)
					}
					return &cbprofile.Profile{Name: req.Name, URL: req.URL, Sections: cbprofile.NewFields()}, nil
				},
			},
			RetryDelays: []time.Duration{},
		}

		reqs := []cbprofile.ProfileRequest{
			{Name: "Acme", URL: acmeURL},
			{Name: "Broken", URL: "https://www.crunchbase.com/organization/broken"},
			{Name: "Acme again", URL: acmeURL + "/"},
			{Name: "Missing URL"},
			{Name: "Globex", URL: "https://www.crunchbase.com/organization/globex"},
		}

		var events []scrape.ProgressEvent
		result, err := s.ScrapeAll(context.Background(), reqs, func(e scrape.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		assert.Equal(t, &scrape.Result{Scraped: 2, Failed: 2, Skipped: 1}, result)

		var types []scrape.ProgressType
		for _, e := range events {
			types = append(types, e.Type)
			assert.Equal(t, 5, e.Total)
		}
		assert.Equal(t, []scrape.ProgressType{
			scrape.ProgressStarted,
			scrape.ProgressCompleted,
			scrape.ProgressFailed,
			scrape.ProgressSkipped,
			scrape.ProgressFailed,
			scrape.ProgressCompleted,
			scrape.ProgressFinished,
		}, types)
		assert.Equal(t, "Broken", events[2].Name)
		assert.Error(t, events[2].Error)
		assert.Equal(t, 3, events[3].Completed)
	})

	t.Run("stops when not logged in", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		s := &scrape.Scraper{
			Session: newSession(rec, false),
			Decoder: decoderReturning(rec),
		}

		reqs := []cbprofile.ProfileRequest{
			{Name: "Acme", URL: acmeURL, Elevated: true},
			{Name: "Globex", URL: "https://www.crunchbase.com/organization/globex", Elevated: true},
		}
		result, err := s.ScrapeAll(context.Background(), reqs, nil)

		require.Error(t, err)
		assert.Equal(t, cbprofile.EUNAUTHORIZED, cbprofile.ErrorCode(err))
		assert.Equal(t, &scrape.Result{}, result)
		assert.Empty(t, rec.list())
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		rec := &recorder{}
		s := &scrape.Scraper{
			Session: newSession(rec, false),
			Decoder: &mock.ProfileDecoder{
				DecodeProfileFn: func(_ context.Context, _ cbprofile.Browser, req cbprofile.ProfileRequest) (*cbprofile.Profile, error) {
					cancel()
					return &cbprofile.Profile{Name: req.Name, Sections: cbprofile.NewFields()}, nil
				},
			},
		}

		reqs := []cbprofile.ProfileRequest{
			{Name: "Acme", URL: acmeURL},
			{Name: "Globex", URL: "https://www.crunchbase.com/organization/globex"},
		}
		result, err := s.ScrapeAll(ctx, reqs, nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, result.Scraped)
	})

	t.Run("handles an empty batch", func(t *testing.T) {
		t.Parallel()

		s := &scrape.Scraper{}

		result, err := s.ScrapeAll(context.Background(), nil, nil)

		require.NoError(t, err)
		assert.Equal(t, &scrape.Result{}, result)
	})
}
