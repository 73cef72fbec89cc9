package spacedrep

import (
	"time"

	"github.com/abhisek/hanzi/internal/card"
)

// Intervals maps a card level to the number of days until its next review.
// Level 0 is due again immediately.
var Intervals = [...]int{0, 1, 3, 7, 14, 30, 60, 120}

// MaxLevel is the highest level a card can reach.
const MaxLevel = len(Intervals) - 1

// IntervalDays returns the review interval for level. Out-of-range levels
// are clamped to the table.
func IntervalDays(level int) int {
	return Intervals[clampLevel(level)]
}

func clampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// ApplyAnswer records one answer on c at now. A correct answer moves the card
// up one level; a miss sends it back to level 0. The next review is scheduled
// from the new level. stats may be nil when the answer is not part of a
// session.
func ApplyAnswer(c *card.Card, correct bool, now time.Time, stats *SessionStats) {
	if correct {
		c.CorrectCount++
		c.Level = clampLevel(c.Level + 1)
		c.Streak++
	} else {
		c.IncorrectCount++
		c.Level = 0
		c.Streak = 0
	}
	if stats != nil {
		stats.Record(correct)
	}

	reviewed := now
	c.LastReview = &reviewed
	c.NextReview = now.AddDate(0, 0, IntervalDays(c.Level))
}
