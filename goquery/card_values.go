package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cbprofile"
)

// Elements shared by label/value card layouts.
const (
	labelTag     = "label-with-info"
	valueTag     = "field-formatter"
	referenceTag = "press-reference"
)

// socialLabels are field labels whose value is the link target rather than
// the link text.
var socialLabels = map[string]bool{
	"Website":  true,
	"Facebook": true,
	"LinkedIn": true,
	"Twitter":  true,
}

// DecodeBigValues decodes a big-values card by pairing the i-th label with
// the i-th value. Extra labels or values are ignored.
func DecodeBigValues(card *goquery.Selection) *cbprofile.Fields {
	out := cbprofile.NewFields()
	if empty(card) {
		return out
	}

	labels := card.Find(labelTag)
	values := card.Find(valueTag)
	n := min(labels.Length(), values.Length())
	for i := range n {
		out.SetText(text(labels.Eq(i)), text(values.Eq(i)))
	}
	return out
}

// DecodeTimeline decodes a timeline card into positional entries, each
// mapping a field's text to the matching press reference. The card is
// skipped unless fields and references pair up exactly.
func DecodeTimeline(card *goquery.Selection) *cbprofile.Fields {
	out := cbprofile.NewFields()
	if empty(card) {
		return out
	}

	fields := card.Find(valueTag)
	refs := card.Find(referenceTag)
	if fields.Length() != refs.Length() {
		return out
	}

	for i := range fields.Length() {
		entry := cbprofile.NewFields()
		entry.SetText(text(fields.Eq(i)), text(refs.Eq(i)))
		out.Set(cbprofile.Index(i), cbprofile.Nested(entry))
	}
	return out
}

// DecodeFields decodes a fields card. Values rendered as a chip list are
// joined with ", ", social media values resolve to their link target, and
// all other values use their text. The card is skipped unless labels and
// values pair up exactly.
func DecodeFields(card *goquery.Selection) *cbprofile.Fields {
	out := cbprofile.NewFields()
	if empty(card) {
		return out
	}

	labels := card.Find(labelTag)
	values := card.Find(valueTag + ".ng-star-inserted")
	if labels.Length() != values.Length() {
		return out
	}

	for i := range values.Length() {
		label := text(labels.Eq(i))
		out.SetText(label, fieldValue(label, values.Eq(i)))
	}
	return out
}

func fieldValue(label string, value *goquery.Selection) string {
	if chips := value.Find("mat-chip-list").First(); chips.Length() > 0 {
		var parts []string
		chips.Find("mat-chip").Each(func(_ int, chip *goquery.Selection) {
			parts = append(parts, text(chip))
		})
		return strings.Join(parts, ", ")
	}

	if socialLabels[label] {
		if href, ok := value.Find("a").First().Attr("href"); ok {
			return strings.TrimSpace(href)
		}
	}

	return text(value)
}
