// Package game implements the quiz modes played over a card collection.
// Rounds only decide what to show and whether an answer was right; the
// session controller applies the outcome to the scheduler.
package game

import (
	"errors"
	"fmt"

	"github.com/abhisek/hanzi/internal/card"
)

// Mode identifies a game.
type Mode string

const (
	Flashcard      Mode = "flashcard"
	MultipleChoice Mode = "multiple-choice"
	Matching       Mode = "matching"
	Falling        Mode = "falling"
)

// Modes lists every game in menu order.
var Modes = []Mode{Flashcard, MultipleChoice, Matching, Falling}

var (
	// ErrNoCards means the collection is empty.
	ErrNoCards = errors.New("no cards yet, add or import some first")

	// ErrNotEnoughCards means the collection is too small for the mode.
	ErrNotEnoughCards = errors.New("not enough cards")

	// ErrNothingDue means no card is due. This is good news, not a failure.
	ErrNothingDue = errors.New("nothing to review right now")

	// ErrRoundOver is returned when answering after a round has finished.
	ErrRoundOver = errors.New("round is over")

	// ErrBadChoice is returned for a choice index outside the options.
	ErrBadChoice = errors.New("no such choice")
)

// ParseMode parses a mode name as used on the command line.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	switch s {
	case "review", "flip":
		return Flashcard, nil
	case "mc", "quiz":
		return MultipleChoice, nil
	case "match", "memory":
		return Matching, nil
	case "catch":
		return Falling, nil
	}
	return "", fmt.Errorf("unknown game mode %q", s)
}

// Title returns a display name for the mode.
func (m Mode) Title() string {
	switch m {
	case Flashcard:
		return "Review"
	case MultipleChoice:
		return "Multiple Choice"
	case Matching:
		return "Memory Match"
	case Falling:
		return "Catch"
	}
	return string(m)
}

// MinCards returns how many cards the mode needs.
func (m Mode) MinCards() int {
	switch m {
	case MultipleChoice, Matching:
		return OptionCount
	}
	return 1
}

// Graded reports whether answers in this mode feed the scheduler.
func (m Mode) Graded() bool {
	return m != Matching
}

// Check runs the entry guards for mode given the collection size and the
// number of due cards.
func Check(m Mode, total, due int) error {
	if total == 0 {
		return ErrNoCards
	}
	if total < m.MinCards() {
		return fmt.Errorf("%w: %s needs at least %d cards, you have %d",
			ErrNotEnoughCards, m.Title(), m.MinCards(), total)
	}
	if m == Flashcard && due == 0 {
		return ErrNothingDue
	}
	return nil
}

// Outcome is the result of one answer. Graded outcomes are applied to the
// scheduler; ungraded ones only affect the game score.
type Outcome struct {
	CardID  card.ID
	Correct bool
	Graded  bool
}
