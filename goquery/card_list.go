package goquery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cbprofile"
)

// SignUpPlaceholder is marketing copy the site renders inside table cells
// for anonymous visitors.
const SignUpPlaceholder = "Sign up for free to unlock and follow the latest funding activities"

// DecodeList decodes a table card. The header row names the columns and
// each body row becomes a positional entry mapping column name to cell text.
// Cells beyond the header are ignored.
func DecodeList(card *goquery.Selection) *cbprofile.Fields {
	out := cbprofile.NewFields()
	if empty(card) {
		return out
	}

	var columns []string
	card.Find("thead").First().Find("tr").First().Find("th").Each(func(_ int, th *goquery.Selection) {
		columns = append(columns, text(th))
	})
	if len(columns) == 0 {
		return out
	}

	card.Find("tbody").First().Find("tr").Each(func(i int, tr *goquery.Selection) {
		row := cbprofile.NewFields()
		tr.Find("td").EachWithBreak(func(j int, td *goquery.Selection) bool {
			if j >= len(columns) {
				return false
			}
			cell := strings.ReplaceAll(td.Text(), SignUpPlaceholder, "")
			row.SetText(columns[j], strings.TrimSpace(cell))
			return true
		})
		out.Set(cbprofile.Index(i), cbprofile.Nested(row))
	})
	return out
}

// DecodeImageList decodes an image-list card. Each list item is keyed by its
// linked name and maps field positions to text, plus the linked profile's
// absolute URL under "Crunchbase URL". Items without a link are skipped.
func DecodeImageList(card *goquery.Selection, base *url.URL) *cbprofile.Fields {
	out := cbprofile.NewFields()
	if empty(card) {
		return out
	}

	card.Find("li").Each(func(_ int, li *goquery.Selection) {
		fields := li.Find("div.fields").First()
		link := fields.Find("a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		item := cbprofile.NewFields()
		fields.Find(valueTag).Each(func(i int, field *goquery.Selection) {
			item.Set(cbprofile.Index(i), cbprofile.Text(text(field)))
		})
		item.SetText(cbprofile.URLKey, resolveURL(base, href))

		out.Set(cbprofile.Label(text(link)), cbprofile.Nested(item))
	})
	return out
}

func decodeImageListCard(_ context.Context, card *goquery.Selection, env *Env) (*cbprofile.Fields, error) {
	var base *url.URL
	if env != nil {
		base = env.BaseURL
	}
	return DecodeImageList(card, base), nil
}

// DecodeHubList decodes a hub-list card into positional entries holding the
// block title at position 0 and, when present, its subtext at position 1.
func DecodeHubList(card *goquery.Selection) *cbprofile.Fields {
	out := cbprofile.NewFields()
	if empty(card) {
		return out
	}

	card.Find("div.flex.layout-column.layout-align-center-start").Each(func(i int, block *goquery.Selection) {
		entry := cbprofile.NewFields()
		entry.Set(cbprofile.Index(0), cbprofile.Text(text(block.Find("a").First())))
		if subtext := block.Find("div.subtext").First(); subtext.Length() > 0 {
			entry.Set(cbprofile.Index(1), cbprofile.Text(text(subtext)))
		}
		out.Set(cbprofile.Index(i), cbprofile.Nested(entry))
	})
	return out
}
