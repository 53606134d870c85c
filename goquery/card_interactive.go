package goquery

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cbprofile"
)

// TabsDecoder decodes a card holding tabbed sub-sections. Each tab is
// clicked in turn; the section is then re-located on the updated page by
// its position and decoded without interactive cards. Results are keyed by
// tab label. Tabs that cannot be clicked are skipped.
type TabsDecoder struct{}

// DecodeCard clicks through the card's tabs.
func (d *TabsDecoder) DecodeCard(ctx context.Context, card *goquery.Selection, env *Env) (*cbprofile.Fields, error) {
	out := cbprofile.NewFields()
	if empty(card) || env == nil || env.Browser == nil {
		return out, nil
	}

	tabs := card.Find("div.mat-tab-labels").First().Find(`div[role="tab"]`)
	for i := range tabs.Length() {
		tab := tabs.Eq(i)
		id, ok := tab.Attr("id")
		if !ok || id == "" {
			continue
		}

		res, err := env.Browser.Click(ctx, fmt.Sprintf(`[id="%s"]`, id), env.ClickTimeout)
		if err != nil {
			return nil, fmt.Errorf("clicking tab %q: %w", id, err)
		}
		if res != cbprofile.ClickSucceeded {
			continue
		}

		html, err := env.Browser.HTML(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading tab %q: %w", id, err)
		}
		doc, err := parseHTML(html)
		if err != nil {
			return nil, err
		}

		section := doc.Find(rowCardTag).Eq(env.Options.Index).
			Find(string(cbprofile.CardTabs)).First().
			Find(sectionCardTag).First()
		if section.Length() == 0 {
			continue
		}

		fields, err := env.DecodeSection(ctx, section)
		if err != nil {
			return nil, err
		}
		out.Set(cbprofile.Label(text(tab)), cbprofile.Nested(fields))
	}
	return out, nil
}

// MoreResultsDecoder follows a card's "view all" link, decodes the first
// section of the linked page without interactive cards, and navigates back.
type MoreResultsDecoder struct{}

// DecodeCard visits the expanded listing and returns its decoded section.
func (d *MoreResultsDecoder) DecodeCard(ctx context.Context, card *goquery.Selection, env *Env) (*cbprofile.Fields, error) {
	if empty(card) || env == nil || env.Browser == nil {
		return cbprofile.NewFields(), nil
	}

	href, ok := card.Find("a").First().Attr("href")
	if !ok || href == "" {
		return cbprofile.NewFields(), nil
	}
	link := resolveURL(env.BaseURL, href)

	html, err := env.Browser.Fetch(ctx, link)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", link, err)
	}
	doc, err := parseHTML(html)
	if err != nil {
		return nil, err
	}

	out, decodeErr := env.DecodeSection(ctx, doc.Find(sectionCardTag).First())

	// Later cards expect the browser on the section's own page.
	if err := env.Browser.Back(ctx); err != nil {
		return nil, fmt.Errorf("navigating back from %s: %w", link, err)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return out, nil
}
