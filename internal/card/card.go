// Package card defines the flashcard record and its review state.
package card

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrInvalid is returned when a draft is missing required fields.
var ErrInvalid = errors.New("invalid card")

var validate = validator.New(validator.WithRequiredStructEnabled())

// ID is the stable identity of a card. It never encodes a position.
type ID string

// NewID returns a fresh random card ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// Card is one Chinese-character flashcard with its review state.
type Card struct {
	ID             ID         `json:"id"`
	Character      string     `json:"character"`
	Pinyin         string     `json:"pinyin"`
	Zhuyin         string     `json:"zhuyin"`
	Meaning        string     `json:"meaning"`
	Level          int        `json:"level"`
	Streak         int        `json:"streak"`
	CorrectCount   int        `json:"correctCount"`
	IncorrectCount int        `json:"incorrectCount"`
	LastReview     *time.Time `json:"lastReview"`
	NextReview     time.Time  `json:"nextReview"`
}

// Draft holds the user-entered fields of a card before it is created.
type Draft struct {
	Character string `json:"character" validate:"required,excludesall=0x2C"`
	Pinyin    string `json:"pinyin" validate:"required_without=Zhuyin,excludesall=0x2C"`
	Zhuyin    string `json:"zhuyin" validate:"required_without=Pinyin,excludesall=0x2C"`
	Meaning   string `json:"meaning" validate:"required,excludesall=0x2C"`
}

// Normalize trims surrounding whitespace from every field.
func (d Draft) Normalize() Draft {
	return Draft{
		Character: strings.TrimSpace(d.Character),
		Pinyin:    strings.TrimSpace(d.Pinyin),
		Zhuyin:    strings.TrimSpace(d.Zhuyin),
		Meaning:   strings.TrimSpace(d.Meaning),
	}
}

// Validate reports whether the draft can become a card. A character and a
// meaning are required, plus at least one of pinyin or zhuyin. No field may
// contain a comma, since commas separate fields in deck files.
func (d Draft) Validate() error {
	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			var missing, commas []string
			for _, fe := range verrs {
				name := strings.ToLower(fe.Field())
				if fe.Tag() == "excludesall" {
					commas = append(commas, name)
				} else {
					missing = append(missing, name)
				}
			}
			var problems []string
			if len(missing) > 0 {
				problems = append(problems, "missing "+strings.Join(missing, ", "))
			}
			if len(commas) > 0 {
				problems = append(problems, "comma in "+strings.Join(commas, ", "))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// New builds a level-0 card from d that is due immediately.
func New(d Draft, now time.Time) Card {
	return Card{
		ID:         NewID(),
		Character:  d.Character,
		Pinyin:     d.Pinyin,
		Zhuyin:     d.Zhuyin,
		Meaning:    d.Meaning,
		NextReview: now,
	}
}

// Draft returns the user-entered fields of c.
func (c Card) Draft() Draft {
	return Draft{Character: c.Character, Pinyin: c.Pinyin, Zhuyin: c.Zhuyin, Meaning: c.Meaning}
}

// Pronunciation returns "pinyin / zhuyin" when both are set, otherwise
// whichever one is present.
func (c Card) Pronunciation() string {
	switch {
	case c.Pinyin != "" && c.Zhuyin != "":
		return c.Pinyin + " / " + c.Zhuyin
	case c.Pinyin != "":
		return c.Pinyin
	default:
		return c.Zhuyin
	}
}

// IsDue reports whether the card should be reviewed at now.
func (c Card) IsDue(now time.Time) bool {
	return !now.Before(c.NextReview)
}

// Progress is the review state written back to persistence after an answer.
type Progress struct {
	Level          int        `json:"level" validate:"min=0,max=7"`
	Streak         int        `json:"streak" validate:"min=0"`
	CorrectCount   int        `json:"correctCount" validate:"min=0"`
	IncorrectCount int        `json:"incorrectCount" validate:"min=0"`
	LastReview     *time.Time `json:"lastReview"`
	NextReview     time.Time  `json:"nextReview"`
}

// Validate checks the progress fields are in range.
func (p Progress) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Progress returns the review state of c.
func (c Card) Progress() Progress {
	return Progress{
		Level:          c.Level,
		Streak:         c.Streak,
		CorrectCount:   c.CorrectCount,
		IncorrectCount: c.IncorrectCount,
		LastReview:     c.LastReview,
		NextReview:     c.NextReview,
	}
}

// SetProgress overwrites the review state of c with p.
func (c *Card) SetProgress(p Progress) {
	c.Level = p.Level
	c.Streak = p.Streak
	c.CorrectCount = p.CorrectCount
	c.IncorrectCount = p.IncorrectCount
	c.LastReview = p.LastReview
	c.NextReview = p.NextReview
}
