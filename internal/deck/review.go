package deck

import "math"

// Session drives one review from a freshly built deck to a final score.
//
// The front card is the one showing. Flip toggles its visible side without
// touching the deck; Correct and Wrong judge it and advance. A card judged
// correct is recorded: its first sighting goes to the seen log, and any
// later sighting of the same card in either direction goes to the correct
// log. That means a question's two directional cards can contribute 0, 1 or
// 2 correct entries depending on judging order; the score formula below
// keeps that behaviour on purpose.
type Session struct {
	deck     Deck
	seen     []Card
	correct  []Card
	side     int
	total    int // deck length at build time, fixed
	progress int
	infinite bool
}

// NewSession starts a review over a copy of the given deck. The infinite
// flag selects infinite-practice mode, where wrong cards are requeued
// instead of discarded.
func NewSession(d Deck, infinite bool) (*Session, error) {
	if len(d) == 0 {
		return nil, ErrEmptyDeck
	}
	cards := make(Deck, len(d))
	copy(cards, d)
	return &Session{deck: cards, total: len(d), infinite: infinite}, nil
}

// Done reports whether the deck is exhausted.
func (s *Session) Done() bool { return len(s.deck) == 0 }

// Remaining returns the number of cards still queued.
func (s *Session) Remaining() int { return len(s.deck) }

// Total returns the deck length at build time. It never changes.
func (s *Session) Total() int { return s.total }

// Progress returns the number of cards permanently judged so far.
// Requeued cards in infinite-practice mode do not advance it.
func (s *Session) Progress() int { return s.progress }

// Side returns the visible side of the current card: 0 front, 1 back.
func (s *Session) Side() int { return s.side }

// Infinite reports whether infinite-practice mode is on.
func (s *Session) Infinite() bool { return s.infinite }

// Current returns the card at the front of the deck.
func (s *Session) Current() (Card, error) {
	if len(s.deck) == 0 {
		return Card{}, ErrNoCard
	}
	return s.deck[0], nil
}

// Prompt returns the text of the current card's visible side.
func (s *Session) Prompt() (string, error) {
	card, err := s.Current()
	if err != nil {
		return "", err
	}
	if s.side == 0 {
		return card.Front, nil
	}
	return card.Back, nil
}

// Flip toggles the visible side of the current card. The deck is not
// mutated, and flipping is allowed any number of times.
func (s *Session) Flip() error {
	if len(s.deck) == 0 {
		return ErrNoCard
	}
	s.side = 1 - s.side
	return nil
}

// Correct judges the current card as answered correctly. The card is
// removed permanently; if it was already sighted in either direction it
// counts towards the score, otherwise this sighting is only recorded.
func (s *Session) Correct() error {
	if len(s.deck) == 0 {
		return ErrNoCard
	}
	card := s.deck[0]
	if s.sighted(card) {
		s.correct = append(s.correct, card)
	} else {
		s.seen = append(s.seen, card)
	}
	s.deck = s.deck[1:]
	s.progress++
	s.side = 0
	return nil
}

// Wrong judges the current card as answered incorrectly. Outside
// infinite-practice mode the card is discarded and progress advances; in
// infinite-practice mode it moves to the back of the deck unchanged.
func (s *Session) Wrong() error {
	if len(s.deck) == 0 {
		return ErrNoCard
	}
	if s.infinite {
		front := s.deck[0]
		copy(s.deck, s.deck[1:])
		s.deck[len(s.deck)-1] = front
	} else {
		s.deck = s.deck[1:]
		s.progress++
	}
	s.side = 0
	return nil
}

func (s *Session) sighted(card Card) bool {
	reversed := card.Reverse()
	for _, seen := range s.seen {
		if seen == card || seen == reversed {
			return true
		}
	}
	return false
}

// Score is the final result of a review.
type Score struct {
	Correct int     // entries in the correct log
	Total   int     // distinct questions: build-time deck length halved, min 1
	Percent float64 // one-decimal percentage, truncated
}

// Score computes the result from the session's logs. It is meaningful once
// Done reports true, but safe to call at any point.
func (s *Session) Score() Score {
	total := s.total / 2
	if total < 1 {
		total = 1
	}
	percent := math.Floor(float64(len(s.correct))/float64(total)*1000) / 10
	return Score{
		Correct: len(s.correct),
		Total:   total,
		Percent: percent,
	}
}
