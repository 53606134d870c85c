package cbprofile

import (
	"context"
	"encoding/json"
)

// URLKey is the profile entry holding the profile's canonical URL.
const URLKey = "Crunchbase URL"

// Access is the profile access mode.
type Access string

// Access modes.
const (
	// AccessPublic decodes without authentication. Only static card
	// layouts are processed.
	AccessPublic Access = "public"

	// AccessElevated decodes with an authenticated session. Interactive
	// card layouts are processed as well.
	AccessElevated Access = "elevated"
)

// Profile is the decoded content of one profile.
type Profile struct {
	Name     string
	URL      string
	Access   Access
	Sections *Fields // section title -> section mapping
}

// Output returns the profile as a single nested mapping:
// {name: {"Crunchbase URL": url, section title: section mapping, ...}}.
func (p *Profile) Output() *Fields {
	body := NewFields()
	body.SetText(URLKey, p.URL)
	body.Merge(p.Sections)

	out := NewFields()
	out.Set(Label(p.Name), Nested(body))
	return out
}

// MarshalJSON encodes the profile in its output shape.
func (p *Profile) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Output())
}

// ProfileRequest identifies a profile to decode.
type ProfileRequest struct {
	// Name is the caller's name for the profile. The decoded page heading
	// takes precedence when present.
	Name string

	// URL is the profile page URL.
	URL string

	// Elevated selects elevated access mode.
	Elevated bool
}

// Validate returns an error if required fields are missing.
func (r *ProfileRequest) Validate() error {
	switch {
	case r.Name == "" && r.URL == "":
		return Errorf(EINVALID, "profile name and URL required")
	case r.Name == "":
		return Errorf(EINVALID, "profile name required")
	case r.URL == "":
		return Errorf(EINVALID, "profile URL required")
	}
	return nil
}

// ProfileDecoder decodes a profile by driving a browser through its tabs.
type ProfileDecoder interface {
	// DecodeProfile fetches the profile at req.URL and every tab linked from
	// it, decodes each section, and aggregates the results.
	// The browser must already be in the access mode req.Elevated implies.
	DecodeProfile(ctx context.Context, b Browser, req ProfileRequest) (*Profile, error)
}

// ProfileWriter persists or emits a decoded profile.
type ProfileWriter interface {
	WriteProfile(ctx context.Context, p *Profile) error
}
