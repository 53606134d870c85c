package cbprofile

// CardType identifies a card layout by the custom element tag the site
// renders it with.
type CardType string

// Known card layouts.
const (
	CardTabs            CardType = "tabs-card"
	CardMoreResults     CardType = "list-card-more-results"
	CardBigValues       CardType = "big-values-card"
	CardPhraseList      CardType = "phrase-list-card"
	CardFields          CardType = "fields-card"
	CardTimeline        CardType = "timeline-card"
	CardList            CardType = "list-card"
	CardImageList       CardType = "image-list-card"
	CardHubList         CardType = "hub-list-card"
	CardDescription     CardType = "description-card"
	CardImageWithFields CardType = "image-with-fields-card"
)

// Catalog is the order in which card types are checked within a section.
// Later types overwrite earlier ones on key collision, so the order is part
// of the output contract.
var Catalog = []CardType{
	CardTabs,
	CardMoreResults,
	CardBigValues,
	CardPhraseList,
	CardFields,
	CardTimeline,
	CardList,
	CardImageList,
	CardHubList,
	CardDescription,
	CardImageWithFields,
}

// IsInteractive reports whether decoding the card drives the browser.
// Interactive cards are decoded only in elevated mode and end the section.
func (t CardType) IsInteractive() bool {
	return t == CardTabs || t == CardMoreResults
}
