package goquery

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cbprofile"
)

// DefaultBaseURL is the site that relative links resolve against.
const DefaultBaseURL = "https://www.crunchbase.com"

// DefaultClickTimeout is how long an interactive element may take to become
// clickable before it is skipped.
const DefaultClickTimeout = 5 * time.Second

// DefaultReadMoreTimeout bounds the search for a profile's "Read More" control.
const DefaultReadMoreTimeout = time.Second

// Page structure.
const (
	rowCardTag       = "row-card"
	sectionCardTag   = "section-card"
	sectionTitleSel  = "h2.section-title"
	tabLinksSel      = "div.mat-tab-links a"
	readMoreSelector = `a[aria-label="Read More"]`
)

// Ensure Decoder implements cbprofile.ProfileDecoder at compile time.
var _ cbprofile.ProfileDecoder = (*Decoder)(nil)

// Decoder decodes profile pages, their sections and the cards within them.
type Decoder struct {
	registry        *Registry
	baseURL         *url.URL
	clickTimeout    time.Duration
	readMoreTimeout time.Duration
}

// Option configures a Decoder.
type Option func(*Decoder) error

// WithRegistry sets the card registry. Defaults to NewDefaultRegistry().
func WithRegistry(r *Registry) Option {
	return func(d *Decoder) error {
		d.registry = r
		return nil
	}
}

// WithBaseURL sets the URL relative links resolve against.
// Defaults to DefaultBaseURL.
func WithBaseURL(rawURL string) Option {
	return func(d *Decoder) error {
		u, err := url.Parse(rawURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return cbprofile.Errorf(cbprofile.EINVALID, "invalid base URL: %q", rawURL)
		}
		d.baseURL = u
		return nil
	}
}

// WithClickTimeout sets how long a tab may take to become clickable.
func WithClickTimeout(timeout time.Duration) Option {
	return func(d *Decoder) error {
		d.clickTimeout = timeout
		return nil
	}
}

// WithReadMoreTimeout sets how long to look for a "Read More" control.
func WithReadMoreTimeout(timeout time.Duration) Option {
	return func(d *Decoder) error {
		d.readMoreTimeout = timeout
		return nil
	}
}

// NewDecoder creates a Decoder.
func NewDecoder(opts ...Option) (*Decoder, error) {
	d := &Decoder{
		registry:        NewDefaultRegistry(),
		clickTimeout:    DefaultClickTimeout,
		readMoreTimeout: DefaultReadMoreTimeout,
	}
	if err := WithBaseURL(DefaultBaseURL)(d); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// SectionOptions control how a section is decoded.
type SectionOptions struct {
	// Index is the section's position among the page's sections. Tab cards
	// use it to find the section again after the page re-renders.
	Index int

	// IgnoreInteractive skips interactive cards. It is set when a section
	// is decoded from within an interactive card.
	IgnoreInteractive bool

	// Elevated enables interactive cards.
	Elevated bool
}

// Env is what a card decoder may use beyond the card itself.
type Env struct {
	Browser      cbprofile.Browser
	BaseURL      *url.URL
	ClickTimeout time.Duration
	Options      SectionOptions

	decoder *Decoder
}

// DecodeSection decodes a section reached from within an interactive card.
// Interactive cards in that section are skipped.
func (e *Env) DecodeSection(ctx context.Context, section *goquery.Selection) (*cbprofile.Fields, error) {
	if e.decoder == nil {
		return cbprofile.NewFields(), nil
	}
	opts := e.Options
	opts.IgnoreInteractive = true
	return e.decoder.DecodeSection(ctx, section, e.Browser, opts)
}

// DecodeSection decodes every registered card type found in the section and
// merges the results in registration order; later card types overwrite
// earlier keys. In elevated mode the first interactive card decoded ends
// the section.
func (d *Decoder) DecodeSection(ctx context.Context, section *goquery.Selection, b cbprofile.Browser, opts SectionOptions) (*cbprofile.Fields, error) {
	out := cbprofile.NewFields()
	if empty(section) {
		return out, nil
	}

	env := &Env{
		Browser:      b,
		BaseURL:      d.baseURL,
		ClickTimeout: d.clickTimeout,
		Options:      opts,
		decoder:      d,
	}

	for _, t := range d.registry.Types() {
		interactive := t.IsInteractive()
		if interactive && (!opts.Elevated || opts.IgnoreInteractive) {
			continue
		}

		dec := d.registry.Get(t)
		cards := section.Find(string(t))
		for i := range cards.Length() {
			fields, err := dec.DecodeCard(ctx, cards.Eq(i), env)
			if err != nil {
				return nil, fmt.Errorf("decoding %s: %w", t, err)
			}
			if fields.Len() > 0 {
				out.Merge(fields)
			}
			if interactive {
				return out, nil
			}
		}
	}
	return out, nil
}

// DecodeProfile fetches the profile page, then every tab linked from it,
// and collects each non-empty section under its title. Sections repeated
// across tabs keep the last tab's result.
func (d *Decoder) DecodeProfile(ctx context.Context, b cbprofile.Browser, req cbprofile.ProfileRequest) (*cbprofile.Profile, error) {
	if b == nil {
		return nil, cbprofile.Errorf(cbprofile.EINVALID, "browser required")
	}
	if req.URL == "" {
		return nil, cbprofile.Errorf(cbprofile.EINVALID, "profile URL required")
	}

	html, err := b.Fetch(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("fetching profile %s: %w", req.URL, err)
	}
	doc, err := parseHTML(html)
	if err != nil {
		return nil, err
	}

	name := text(doc.Find("h1").First())
	if name == "" {
		name = req.Name
	}
	if name == "" {
		return nil, cbprofile.Errorf(cbprofile.EINVALID, "profile name not found on %s", req.URL)
	}

	access := cbprofile.AccessPublic
	if req.Elevated {
		access = cbprofile.AccessElevated
	}
	p := &cbprofile.Profile{
		Name:     name,
		URL:      req.URL,
		Access:   access,
		Sections: cbprofile.NewFields(),
	}

	links := d.tabLinks(doc)
	if len(links) == 0 {
		if err := d.decodePage(ctx, b, html, req.Elevated, p.Sections); err != nil {
			return nil, err
		}
		return p, nil
	}

	for _, link := range links {
		html, err := b.Fetch(ctx, link)
		if err != nil {
			return nil, fmt.Errorf("fetching tab %s: %w", link, err)
		}
		if err := d.decodePage(ctx, b, html, req.Elevated, p.Sections); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// tabLinks returns the profile's navigation tab URLs in page order.
func (d *Decoder) tabLinks(doc *goquery.Document) []string {
	var links []string
	doc.Find(tabLinksSel).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		links = append(links, resolveURL(d.baseURL, href))
	})
	return links
}

// decodePage expands the page's summary when possible, then decodes every
// section on it into sections.
func (d *Decoder) decodePage(ctx context.Context, b cbprofile.Browser, html string, elevated bool, sections *cbprofile.Fields) error {
	html, err := d.expandReadMore(ctx, b, html)
	if err != nil {
		return err
	}
	doc, err := parseHTML(html)
	if err != nil {
		return err
	}

	rows := doc.Find(rowCardTag)
	for i := range rows.Length() {
		row := rows.Eq(i)
		section := row.Find(sectionCardTag).First()
		title := text(row.Find(sectionTitleSel).First())
		if section.Length() == 0 || title == "" {
			continue
		}

		fields, err := d.DecodeSection(ctx, section, b, SectionOptions{Index: i, Elevated: elevated})
		if err != nil {
			return fmt.Errorf("section %q: %w", title, err)
		}
		if fields.Len() > 0 {
			sections.Set(cbprofile.Label(title), cbprofile.Nested(fields))
		}
	}
	return nil
}

// expandReadMore clicks the "Read More" control if the page has one and
// returns the updated HTML. Anything short of a successful click leaves
// the HTML unchanged.
func (d *Decoder) expandReadMore(ctx context.Context, b cbprofile.Browser, html string) (string, error) {
	res, err := b.Click(ctx, readMoreSelector, d.readMoreTimeout)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return html, nil
	}
	if res != cbprofile.ClickSucceeded {
		return html, nil
	}

	expanded, err := b.HTML(ctx)
	if err != nil {
		return "", fmt.Errorf("reading expanded page: %w", err)
	}
	return expanded, nil
}
