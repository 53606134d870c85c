package goquery_test

import (
	"testing"

	"github.com/fwojciec/cbprofile/goquery"
	"github.com/stretchr/testify/assert"
)

func TestDecodePhraseList(t *testing.T) {
	t.Parallel()

	t.Run("normalizes whitespace into a summary", func(t *testing.T) {
		t.Parallel()

		html := `<phrase-list-card>
	Acme is a&nbsp;<b>software</b>
	company   based in Berlin.
</phrase-list-card>`

		got := goquery.DecodePhraseList(find(t, html, "phrase-list-card"))

		assert.Equal(t, `{"Summary":"Acme is a software company based in Berlin."}`, encode(t, got))
	})

	t.Run("returns empty mapping for blank card", func(t *testing.T) {
		t.Parallel()

		got := goquery.DecodePhraseList(find(t, `<phrase-list-card> &nbsp; </phrase-list-card>`, "phrase-list-card"))

		assert.Equal(t, 0, got.Len())
	})
}

func TestDecodeDescription(t *testing.T) {
	t.Parallel()

	t.Run("concatenates trimmed paragraphs", func(t *testing.T) {
		t.Parallel()

		html := `<description-card><p>Hello </p><p>World</p></description-card>`

		got := goquery.DecodeDescription(find(t, html, "description-card"))

		assert.Equal(t, `{"Description":"HelloWorld"}`, encode(t, got))
	})

	t.Run("keeps empty description when there are no paragraphs", func(t *testing.T) {
		t.Parallel()

		got := goquery.DecodeDescription(find(t, `<description-card><span>x</span></description-card>`, "description-card"))

		assert.Equal(t, `{"Description":""}`, encode(t, got))
	})
}

func TestDecodeImageWithFields(t *testing.T) {
	t.Parallel()

	t.Run("names values by position", func(t *testing.T) {
		t.Parallel()

		html := `<image-with-fields-card>
	<field-formatter>Jane Doe</field-formatter>
	<field-formatter>CEO</field-formatter>
	<field-formatter>Berlin</field-formatter>
	<field-formatter>ignored</field-formatter>
</image-with-fields-card>`

		got := goquery.DecodeImageWithFields(find(t, html, "image-with-fields-card"))

		assert.Equal(t, `{"Name":"Jane Doe","Brief":"CEO","Location":"Berlin"}`, encode(t, got))
	})

	t.Run("includes only populated labels", func(t *testing.T) {
		t.Parallel()

		html := `<image-with-fields-card><field-formatter>Jane Doe</field-formatter></image-with-fields-card>`

		got := goquery.DecodeImageWithFields(find(t, html, "image-with-fields-card"))

		assert.Equal(t, `{"Name":"Jane Doe"}`, encode(t, got))
	})
}
