package goquery

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cbprofile"
)

// CardDecoder decodes one card element into a mapping.
// Decoders return an empty mapping when the card lacks the elements they
// need; the error is reserved for browser failures in interactive cards.
type CardDecoder interface {
	DecodeCard(ctx context.Context, card *goquery.Selection, env *Env) (*cbprofile.Fields, error)
}

// CardDecoderFunc adapts a function to the CardDecoder interface.
type CardDecoderFunc func(ctx context.Context, card *goquery.Selection, env *Env) (*cbprofile.Fields, error)

// DecodeCard calls fn.
func (fn CardDecoderFunc) DecodeCard(ctx context.Context, card *goquery.Selection, env *Env) (*cbprofile.Fields, error) {
	return fn(ctx, card, env)
}

// StaticDecoder adapts a pure HTML decoder to the CardDecoder interface.
type StaticDecoder func(card *goquery.Selection) *cbprofile.Fields

// DecodeCard calls fn and never fails.
func (fn StaticDecoder) DecodeCard(_ context.Context, card *goquery.Selection, _ *Env) (*cbprofile.Fields, error) {
	return fn(card), nil
}

// Registry maps card types to decoders. Card types are checked in
// registration order, so a type registered later overwrites the keys of
// earlier types when both decode to the same label.
type Registry struct {
	order    []cbprofile.CardType
	decoders map[cbprofile.CardType]CardDecoder
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		decoders: make(map[cbprofile.CardType]CardDecoder),
	}
}

// NewDefaultRegistry creates a Registry holding a decoder for every card
// type in cbprofile.Catalog, in catalog order.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(cbprofile.CardTabs, &TabsDecoder{})
	r.Register(cbprofile.CardMoreResults, &MoreResultsDecoder{})
	r.Register(cbprofile.CardBigValues, StaticDecoder(DecodeBigValues))
	r.Register(cbprofile.CardPhraseList, StaticDecoder(DecodePhraseList))
	r.Register(cbprofile.CardFields, StaticDecoder(DecodeFields))
	r.Register(cbprofile.CardTimeline, StaticDecoder(DecodeTimeline))
	r.Register(cbprofile.CardList, StaticDecoder(DecodeList))
	r.Register(cbprofile.CardImageList, CardDecoderFunc(decodeImageListCard))
	r.Register(cbprofile.CardHubList, StaticDecoder(DecodeHubList))
	r.Register(cbprofile.CardDescription, StaticDecoder(DecodeDescription))
	r.Register(cbprofile.CardImageWithFields, StaticDecoder(DecodeImageWithFields))
	return r
}

// Register adds a decoder for a card type.
// If a decoder is already registered for the type, it is replaced and the
// type keeps its position.
func (r *Registry) Register(t cbprofile.CardType, d CardDecoder) {
	if _, ok := r.decoders[t]; !ok {
		r.order = append(r.order, t)
	}
	r.decoders[t] = d
}

// Get returns the decoder for a card type.
// Returns nil if no decoder is registered for the type.
func (r *Registry) Get(t cbprofile.CardType) CardDecoder {
	return r.decoders[t]
}

// Types returns the registered card types in check order.
func (r *Registry) Types() []cbprofile.CardType {
	types := make([]cbprofile.CardType, len(r.order))
	copy(types, r.order)
	return types
}
