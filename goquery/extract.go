package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cbprofile"
)

// parseHTML parses a rendered page.
func parseHTML(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, cbprofile.Errorf(cbprofile.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// text returns the trimmed text content of the selection.
// strings.TrimSpace also strips non-breaking spaces.
func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

// normalizeSpace collapses whitespace runs, including non-breaking spaces,
// into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// empty reports whether there is nothing to decode.
func empty(sel *goquery.Selection) bool {
	return sel == nil || sel.Length() == 0
}

// resolveURL resolves href against base. A nil base or an unparsable href
// returns href unchanged.
func resolveURL(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
