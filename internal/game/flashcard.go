package game

import "github.com/abhisek/hanzi/internal/card"

// FlashcardRound walks the cards that were due when the round started.
// Each card is shown, revealed, then self-graded as known or not.
type FlashcardRound struct {
	cards    []card.Card
	pos      int
	revealed bool
}

// NewFlashcardRound starts a round over a snapshot of due.
func NewFlashcardRound(due []card.Card) *FlashcardRound {
	return &FlashcardRound{cards: append([]card.Card(nil), due...)}
}

// Current returns the card being shown.
func (r *FlashcardRound) Current() (card.Card, bool) {
	if r.Done() {
		return card.Card{}, false
	}
	return r.cards[r.pos], true
}

// Reveal flips the current card.
func (r *FlashcardRound) Reveal() {
	if !r.Done() {
		r.revealed = true
	}
}

// Revealed reports whether the current card is flipped.
func (r *FlashcardRound) Revealed() bool {
	return r.revealed
}

// Answer grades the current card and moves to the next one.
func (r *FlashcardRound) Answer(knew bool) (Outcome, error) {
	c, ok := r.Current()
	if !ok {
		return Outcome{}, ErrRoundOver
	}
	r.pos++
	r.revealed = false
	return Outcome{CardID: c.ID, Correct: knew, Graded: true}, nil
}

// Done reports whether every card has been answered.
func (r *FlashcardRound) Done() bool {
	return r.pos >= len(r.cards)
}

// Progress returns how many cards were answered out of the total.
func (r *FlashcardRound) Progress() (answered, total int) {
	return r.pos, len(r.cards)
}
