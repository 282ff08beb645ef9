// Package deck builds flashcard review decks and drives the card-by-card
// review session until the deck is exhausted.
package deck

import "errors"

var (
	// ErrEmptyDeck is returned when a review session is started with no cards.
	ErrEmptyDeck = errors.New("deck: empty deck")
	// ErrNoCard is returned when a transition is invoked after the deck
	// has been exhausted. That is a caller bug, not a recoverable state.
	ErrNoCard = errors.New("deck: no card showing")
)

// Card is one directional question→answer pair.
type Card struct {
	Front string
	Back  string
}

// Reverse returns the card with its sides swapped.
func (c Card) Reverse() Card {
	return Card{Front: c.Back, Back: c.Front}
}

// Deck is the ordered queue of cards for one review session.
type Deck []Card

// Overrides maps paragraph names to per-session flip overrides chosen in
// advanced setup. Overrides take precedence over the paragraph's own
// "_meta.flip" and are discarded once the setup→review cycle ends.
type Overrides map[string]bool
