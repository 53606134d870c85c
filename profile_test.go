package cbprofile_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/cbprofile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_MarshalJSON(t *testing.T) {
	t.Parallel()

	overview := cbprofile.NewFields()
	overview.SetText("Description", "HelloWorld")

	sections := cbprofile.NewFields()
	sections.Set(cbprofile.Label("Overview"), cbprofile.Nested(overview))

	p := &cbprofile.Profile{
		Name:     "Acme Inc",
		URL:      "https://www.crunchbase.com/organization/acme",
		Sections: sections,
	}

	got, err := json.Marshal(p)

	require.NoError(t, err)
	assert.Equal(t,
		`{"Acme Inc":{"Crunchbase URL":"https://www.crunchbase.com/organization/acme","Overview":{"Description":"HelloWorld"}}}`,
		string(got))
}

func TestProfile_Output_NoSections(t *testing.T) {
	t.Parallel()

	p := &cbprofile.Profile{Name: "Acme Inc", URL: "https://example.com/acme"}

	got, err := json.Marshal(p)

	require.NoError(t, err)
	assert.JSONEq(t, `{"Acme Inc":{"Crunchbase URL":"https://example.com/acme"}}`, string(got))
}

func TestProfileRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     cbprofile.ProfileRequest
		wantMsg string
	}{
		{"missing both", cbprofile.ProfileRequest{}, "profile name and URL required"},
		{"missing name", cbprofile.ProfileRequest{URL: "https://example.com"}, "profile name required"},
		{"missing url", cbprofile.ProfileRequest{Name: "Acme"}, "profile URL required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.req.Validate()

			require.Error(t, err)
			assert.Equal(t, cbprofile.EINVALID, cbprofile.ErrorCode(err))
			assert.Equal(t, tt.wantMsg, cbprofile.ErrorMessage(err))
		})
	}

	t.Run("valid request", func(t *testing.T) {
		t.Parallel()

		req := cbprofile.ProfileRequest{Name: "Acme", URL: "https://example.com"}
		assert.NoError(t, req.Validate())
	})
}

func TestCardType_IsInteractive(t *testing.T) {
	t.Parallel()

	assert.True(t, cbprofile.CardTabs.IsInteractive())
	assert.True(t, cbprofile.CardMoreResults.IsInteractive())
	assert.False(t, cbprofile.CardFields.IsInteractive())
	assert.False(t, cbprofile.CardDescription.IsInteractive())
}
