package spacedrep

import (
	"math"
	"time"

	"github.com/abhisek/hanzi/internal/card"
)

// Stats is a read-only summary of a card collection.
type Stats struct {
	TotalCards       int `json:"totalCards"`
	TotalStreak      int `json:"totalStreak"`
	TotalCorrect     int `json:"totalCorrect"`
	DueCount         int `json:"dueCount"`
	TodayReviewCount int `json:"todayReviewCount"`
}

// AggregateStats summarizes cards at now. A card counts as reviewed today
// when its last review falls on the same calendar date as now, in now's
// location.
func AggregateStats(cards []card.Card, now time.Time) Stats {
	s := Stats{TotalCards: len(cards)}
	for _, c := range cards {
		s.TotalStreak += c.Streak
		s.TotalCorrect += c.CorrectCount
		if c.IsDue(now) {
			s.DueCount++
		}
		if c.LastReview != nil && sameDay(*c.LastReview, now) {
			s.TodayReviewCount++
		}
	}
	return s
}

func sameDay(t, now time.Time) bool {
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SessionStats counts answers within one game session.
type SessionStats struct {
	Correct    int `json:"correct"`
	Incorrect  int `json:"incorrect"`
	Streak     int `json:"streak"`
	BestStreak int `json:"bestStreak"`
}

// Record counts one answer.
func (s *SessionStats) Record(correct bool) {
	if correct {
		s.Correct++
		s.Streak++
		if s.Streak > s.BestStreak {
			s.BestStreak = s.Streak
		}
		return
	}
	s.Incorrect++
	s.Streak = 0
}

// Reset zeroes all counters.
func (s *SessionStats) Reset() {
	*s = SessionStats{}
}

// Total returns the number of answers recorded.
func (s SessionStats) Total() int {
	return s.Correct + s.Incorrect
}

// Accuracy returns the share of correct answers as a whole percentage.
// Returns 0 when nothing has been answered.
func (s SessionStats) Accuracy() int {
	if s.Total() == 0 {
		return 0
	}
	return int(math.Floor(float64(s.Correct)*100/float64(s.Total()) + 0.5))
}
