package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/fwojciec/cbprofile"
	main "github.com/fwojciec/cbprofile/cmd/cbprofile"
	"github.com/fwojciec/cbprofile/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrapeCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints the profile and derives the name from the URL", func(t *testing.T) {
		t.Parallel()

		var got cbprofile.ProfileRequest
		decoder := acmeDecoder()
		decode := decoder.DecodeProfileFn
		decoder.DecodeProfileFn = func(ctx context.Context, b cbprofile.Browser, req cbprofile.ProfileRequest) (*cbprofile.Profile, error) {
			got = req
			return decode(ctx, b, req)
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     testContext(),
			Stdout:  stdout,
			Stderr:  stderr,
			Scraper: newScraper(publicSession(""), decoder),
		}

		cmd := &main.ScrapeCmd{URL: "https://www.crunchbase.com/organization/acme-inc/"}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "acme-inc", got.Name)
		assert.False(t, got.Elevated)
		assert.Contains(t, stdout.String(), `"acme-inc": {`)
		assert.Contains(t, stdout.String(), `"Crunchbase URL": "https://www.crunchbase.com/organization/acme-inc/"`)
		assert.Contains(t, stderr.String(), "1 sections")
	})

	t.Run("writes JSON files when an output directory is given", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		deps := &main.Dependencies{
			Ctx:     testContext(),
			Stdout:  &bytes.Buffer{},
			Stderr:  &bytes.Buffer{},
			Scraper: newScraper(publicSession(""), acmeDecoder()),
		}

		cmd := &main.ScrapeCmd{URL: "https://www.crunchbase.com/organization/acme", Name: "Acme", Out: out}
		require.NoError(t, cmd.Run(deps))

		assert.FileExists(t, filepath.Join(out, "organization", "acme.json"))
	})

	t.Run("logs in for pro access", func(t *testing.T) {
		t.Parallel()

		var authenticated bool
		var creds cbprofile.Credentials
		session := publicSession("")
		session.AuthenticateFn = func(_ context.Context, c cbprofile.Credentials) error {
			creds = c
			authenticated = true
			return nil
		}
		session.AuthenticatedFn = func() bool { return authenticated }

		var elevated bool
		decoder := &mock.ProfileDecoder{
			DecodeProfileFn: func(_ context.Context, _ cbprofile.Browser, req cbprofile.ProfileRequest) (*cbprofile.Profile, error) {
				elevated = req.Elevated
				return &cbprofile.Profile{Name: req.Name, URL: req.URL, Sections: cbprofile.NewFields()}, nil
			},
		}

		deps := &main.Dependencies{
			Ctx:         testContext(),
			Stdout:      &bytes.Buffer{},
			Stderr:      &bytes.Buffer{},
			Scraper:     newScraper(session, decoder),
			Credentials: cbprofile.Credentials{Email: "me@example.com", Password: "secret"},
		}

		cmd := &main.ScrapeCmd{URL: "https://www.crunchbase.com/organization/acme", Pro: true}
		require.NoError(t, cmd.Run(deps))

		assert.Equal(t, "me@example.com", creds.Email)
		assert.True(t, elevated)
	})

	t.Run("fails pro access without credentials", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     testContext(),
			Stdout:  &bytes.Buffer{},
			Stderr:  stderr,
			Scraper: newScraper(publicSession(""), acmeDecoder()),
		}

		cmd := &main.ScrapeCmd{URL: "https://www.crunchbase.com/organization/acme", Pro: true}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, cbprofile.EINVALID, cbprofile.ErrorCode(err))
		assert.Contains(t, stderr.String(), "login failed")
	})

	t.Run("reports decode errors", func(t *testing.T) {
		t.Parallel()

		decoder := &mock.ProfileDecoder{
			DecodeProfileFn: func(context.Context, cbprofile.Browser, cbprofile.ProfileRequest) (*cbprofile.Profile, error) {
				return nil, cbprofile.Errorf(cbprofile.EINVALID, "profile name not found")
			},
		}

		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:     testContext(),
			Stdout:  stdout,
			Stderr:  stderr,
			Scraper: newScraper(publicSession(""), decoder),
		}

		cmd := &main.ScrapeCmd{URL: "https://www.crunchbase.com/organization/acme"}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "profile name not found")
	})
}
