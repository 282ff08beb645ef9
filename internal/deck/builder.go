package deck

import (
	"math/rand"

	"github.com/Flashcards-Program/Flashcards/internal/content"
)

// Build constructs a review deck from one chapter.
//
// Every question of every selected paragraph contributes exactly two cards:
// one to the first half of the deck in question→answer direction, and one to
// the second half, reversed when the paragraph's flip flag is set and an
// exact duplicate otherwise. The second card is ALWAYS added; flip only
// decides its direction. Both halves are shuffled independently and then
// concatenated, so the deck length is always twice the selected question
// count.
func Build(chapter content.Chapter, selected []string, overrides Overrides) Deck {
	want := make(map[string]bool, len(selected))
	for _, name := range selected {
		want[name] = true
	}

	var first, second Deck
	for name, para := range chapter {
		if !want[name] {
			continue
		}
		flip := para.Flip()
		if ov, ok := overrides[name]; ok {
			flip = ov
		}
		for question, answer := range para.Entries {
			card := Card{Front: question, Back: answer}
			first = append(first, card)
			if flip {
				second = append(second, card.Reverse())
			} else {
				second = append(second, card)
			}
		}
	}

	shuffle(first)
	shuffle(second)
	return append(first, second...)
}

func shuffle(d Deck) {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}
