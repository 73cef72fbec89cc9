package spacedrep

import (
	"iter"
	"time"

	"github.com/abhisek/hanzi/internal/card"
)

// DueCards yields every card in cards whose next review is at or before now,
// in input order. The sequence is evaluated lazily and can be ranged over
// any number of times; each pass re-checks the cards.
func DueCards(cards []card.Card, now time.Time) iter.Seq[*card.Card] {
	return func(yield func(*card.Card) bool) {
		for i := range cards {
			if !cards[i].IsDue(now) {
				continue
			}
			if !yield(&cards[i]) {
				return
			}
		}
	}
}

// CountDue returns the number of cards due at now.
func CountDue(cards []card.Card, now time.Time) int {
	n := 0
	for range DueCards(cards, now) {
		n++
	}
	return n
}
