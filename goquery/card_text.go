package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cbprofile"
)

// Labels used by text card layouts.
const (
	SummaryLabel     = "Summary"
	DescriptionLabel = "Description"
)

// imageWithFieldsLabels names image-with-fields values by position.
var imageWithFieldsLabels = []string{"Name", "Brief", "Location"}

// DecodePhraseList decodes a phrase-list card into a single "Summary" entry
// holding the card's whitespace-normalized text.
func DecodePhraseList(card *goquery.Selection) *cbprofile.Fields {
	out := cbprofile.NewFields()
	if empty(card) {
		return out
	}

	summary := normalizeSpace(card.Text())
	if summary == "" {
		return out
	}
	out.SetText(SummaryLabel, summary)
	return out
}

// DecodeDescription concatenates the trimmed text of every paragraph into a
// single "Description" entry. A card without paragraphs yields an empty
// description rather than no entry.
func DecodeDescription(card *goquery.Selection) *cbprofile.Fields {
	out := cbprofile.NewFields()
	if empty(card) {
		return out
	}

	var b strings.Builder
	card.Find("p").Each(func(_ int, p *goquery.Selection) {
		b.WriteString(text(p))
	})
	out.SetText(DescriptionLabel, b.String())
	return out
}

// DecodeImageWithFields names the card's values Name, Brief and Location by
// position. Values beyond the known labels are ignored.
func DecodeImageWithFields(card *goquery.Selection) *cbprofile.Fields {
	out := cbprofile.NewFields()
	if empty(card) {
		return out
	}

	card.Find(valueTag).EachWithBreak(func(i int, field *goquery.Selection) bool {
		if i >= len(imageWithFieldsLabels) {
			return false
		}
		out.SetText(imageWithFieldsLabels[i], text(field))
		return true
	})
	return out
}
