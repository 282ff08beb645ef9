package deck

import (
	"testing"

	"github.com/Flashcards-Program/Flashcards/internal/content"
)

func boolPtr(b bool) *bool { return &b }

func para(flip *bool, pairs ...string) content.Paragraph {
	entries := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		entries[pairs[i]] = pairs[i+1]
	}
	return content.Paragraph{Entries: entries, Meta: content.Meta{Flip: flip}}
}

// counts collapses a deck slice into a multiset for order-independent
// comparison.
func counts(cards []Card) map[Card]int {
	m := make(map[Card]int, len(cards))
	for _, c := range cards {
		m[c]++
	}
	return m
}

func assertMultiset(t *testing.T, name string, got []Card, want []Card) {
	t.Helper()
	gotM, wantM := counts(got), counts(want)
	if len(gotM) != len(wantM) {
		t.Fatalf("%s: got %v, want %v", name, gotM, wantM)
	}
	for card, n := range wantM {
		if gotM[card] != n {
			t.Errorf("%s: card %v count = %d, want %d", name, card, gotM[card], n)
		}
	}
}

func TestBuildLength(t *testing.T) {
	chapter := content.Chapter{
		"1.1": para(nil, "Q1", "A1", "Q2", "A2"),
		"1.2": para(nil, "Q3", "A3"),
	}
	d := Build(chapter, []string{"1.1", "1.2"}, nil)
	if len(d) != 6 {
		t.Errorf("deck length = %d, want 6 (2 × 3 questions)", len(d))
	}
}

func TestBuildFlipTrue(t *testing.T) {
	chapter := content.Chapter{"1.1": para(boolPtr(true), "Q1", "A1")}
	d := Build(chapter, []string{"1.1"}, nil)

	if len(d) != 2 {
		t.Fatalf("deck length = %d, want 2", len(d))
	}
	assertMultiset(t, "first half", d[:1], []Card{{"Q1", "A1"}})
	assertMultiset(t, "second half", d[1:], []Card{{"A1", "Q1"}})
}

func TestBuildFlipFalse(t *testing.T) {
	chapter := content.Chapter{"1.1": para(boolPtr(false), "Q1", "A1")}
	d := Build(chapter, []string{"1.1"}, nil)

	// The second card is a duplicate, not a reversal.
	assertMultiset(t, "deck", d, []Card{{"Q1", "A1"}, {"Q1", "A1"}})
}

func TestBuildFlipDefaultsTrue(t *testing.T) {
	// _meta present but with no flip key: defaults to true.
	chapter := content.Chapter{
		"1.1": para(nil, "Q1", "A1"),
		"1.2": para(nil, "Q2", "A2"),
	}
	d := Build(chapter, []string{"1.1", "1.2"}, nil)

	if len(d) != 4 {
		t.Fatalf("deck length = %d, want 4", len(d))
	}
	assertMultiset(t, "second half", d[2:], []Card{{"A1", "Q1"}, {"A2", "Q2"}})
}

func TestBuildOverrideBeatsMeta(t *testing.T) {
	chapter := content.Chapter{"1.1": para(boolPtr(true), "Q1", "A1")}
	d := Build(chapter, []string{"1.1"}, Overrides{"1.1": false})

	assertMultiset(t, "deck", d, []Card{{"Q1", "A1"}, {"Q1", "A1"}})
}

func TestBuildSkipsUnselected(t *testing.T) {
	chapter := content.Chapter{
		"1.1": para(nil, "Q1", "A1"),
		"1.2": para(nil, "Q2", "A2"),
	}
	d := Build(chapter, []string{"1.2"}, nil)

	assertMultiset(t, "deck", d, []Card{{"Q2", "A2"}, {"A2", "Q2"}})
}

func TestBuildEmptySelection(t *testing.T) {
	chapter := content.Chapter{"1.1": para(nil, "Q1", "A1")}
	if d := Build(chapter, nil, nil); len(d) != 0 {
		t.Errorf("deck length = %d, want 0", len(d))
	}
}

func TestBuildShuffleIsPermutation(t *testing.T) {
	chapter := content.Chapter{
		"1.1": para(boolPtr(true), "Q1", "A1", "Q2", "A2", "Q3", "A3"),
		"1.2": para(boolPtr(false), "Q4", "A4", "Q5", "A5"),
	}
	wantFirst := []Card{{"Q1", "A1"}, {"Q2", "A2"}, {"Q3", "A3"}, {"Q4", "A4"}, {"Q5", "A5"}}
	wantSecond := []Card{{"A1", "Q1"}, {"A2", "Q2"}, {"A3", "Q3"}, {"Q4", "A4"}, {"Q5", "A5"}}

	// Shuffling must only reorder within each half, never drop or invent
	// cards. Repeat to catch an off-by-one at the half boundary.
	for i := 0; i < 20; i++ {
		d := Build(chapter, []string{"1.1", "1.2"}, nil)
		if len(d) != 10 {
			t.Fatalf("deck length = %d, want 10", len(d))
		}
		assertMultiset(t, "first half", d[:5], wantFirst)
		assertMultiset(t, "second half", d[5:], wantSecond)
	}
}
