package spacedrep

import (
	"time"

	"github.com/abhisek/hanzi/internal/card"
)

// ReviewStatus describes a card's review status for display.
type ReviewStatus string

const (
	ReviewNew     ReviewStatus = "new"
	ReviewNotDue  ReviewStatus = "not_due"
	ReviewDue     ReviewStatus = "due"
	ReviewOverdue ReviewStatus = "overdue"
	ReviewMature  ReviewStatus = "mature"
)

// Status returns the review status of c at now. A due card is overdue once
// it has waited more than half of its interval past the review date.
func Status(c card.Card, now time.Time) ReviewStatus {
	if c.LastReview == nil {
		return ReviewNew
	}
	if !c.IsDue(now) {
		if c.Level == MaxLevel {
			return ReviewMature
		}
		return ReviewNotDue
	}
	grace := time.Duration(float64(IntervalDays(c.Level)) * 0.5 * 24 * float64(time.Hour))
	if grace > 0 && now.After(c.NextReview.Add(grace)) {
		return ReviewOverdue
	}
	return ReviewDue
}

// OverdueDays returns how many days past due c is. Returns 0 if not yet due.
func OverdueDays(c card.Card, now time.Time) float64 {
	if now.Before(c.NextReview) {
		return 0
	}
	return now.Sub(c.NextReview).Hours() / 24.0
}

// DaysUntilReview returns the number of days until c is due.
// Returns 0 if already due.
func DaysUntilReview(c card.Card, now time.Time) int {
	if c.IsDue(now) {
		return 0
	}
	return int(c.NextReview.Sub(now).Hours()/24.0) + 1
}
