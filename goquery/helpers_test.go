package goquery_test

import (
	"encoding/json"
	"strings"
	"testing"

	pgq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cbprofile"
	"github.com/stretchr/testify/require"
)

// find parses html and returns the first element matching selector.
func find(t *testing.T, html, selector string) *pgq.Selection {
	t.Helper()
	doc, err := pgq.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc.Find(selector).First()
}

// encode returns the JSON encoding of f.
func encode(t *testing.T, f *cbprofile.Fields) string {
	t.Helper()
	b, err := json.Marshal(f)
	require.NoError(t, err)
	return string(b)
}
