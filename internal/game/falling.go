package game

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/abhisek/hanzi/internal/card"
)

const (
	// FallingDuration is the length of a catch game.
	FallingDuration = 30 * time.Second

	// MaxFallingChoices caps how many characters drop per round.
	MaxFallingChoices = 5

	HitPoints   = 10
	MissPenalty = 5
)

// FallingGame drops a handful of characters and asks the player to catch
// the one matching a pronunciation and meaning. Only catches count toward
// the scheduler.
type FallingGame struct {
	cards    []card.Card
	rng      *rand.Rand
	target   card.Card
	choices  []card.Card
	score    int
	hits     int
	misses   int
	deadline time.Time
}

// NewFallingGame starts a timed game at now.
func NewFallingGame(cards []card.Card, rng *rand.Rand, now time.Time) (*FallingGame, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	g := &FallingGame{
		cards:    append([]card.Card(nil), cards...),
		rng:      rng,
		deadline: now.Add(FallingDuration),
	}
	g.nextRound()
	return g, nil
}

func (g *FallingGame) nextRound() {
	ti := g.rng.IntN(len(g.cards))
	g.target = g.cards[ti]
	g.choices = []card.Card{g.target}
	for _, j := range g.rng.Perm(len(g.cards)) {
		if len(g.choices) == MaxFallingChoices {
			break
		}
		if j != ti {
			g.choices = append(g.choices, g.cards[j])
		}
	}
	g.rng.Shuffle(len(g.choices), func(i, j int) {
		g.choices[i], g.choices[j] = g.choices[j], g.choices[i]
	})
}

// Target returns the card to catch.
func (g *FallingGame) Target() card.Card {
	return g.target
}

// Prompt describes the target for the player.
func (g *FallingGame) Prompt() string {
	return fmt.Sprintf("%s (%s)", g.target.Pronunciation(), g.target.Meaning)
}

// Choices returns the characters falling in this round.
func (g *FallingGame) Choices() []card.Card {
	return append([]card.Card(nil), g.choices...)
}

// Pick catches choice i at now and starts a new round.
func (g *FallingGame) Pick(i int, now time.Time) (Outcome, error) {
	if g.Over(now) {
		return Outcome{}, ErrRoundOver
	}
	if i < 0 || i >= len(g.choices) {
		return Outcome{}, fmt.Errorf("%w: %d", ErrBadChoice, i)
	}

	out := Outcome{CardID: g.target.ID}
	if g.choices[i].ID == g.target.ID {
		g.score += HitPoints
		g.hits++
		out.Correct = true
		out.Graded = true
	} else {
		g.score = max(0, g.score-MissPenalty)
		g.misses++
	}
	g.nextRound()
	return out, nil
}

// Score returns the points earned so far.
func (g *FallingGame) Score() int {
	return g.score
}

// Hits returns the number of correct catches.
func (g *FallingGame) Hits() int {
	return g.hits
}

// Misses returns the number of wrong catches.
func (g *FallingGame) Misses() int {
	return g.misses
}

// Remaining returns the time left at now.
func (g *FallingGame) Remaining(now time.Time) time.Duration {
	return max(0, g.deadline.Sub(now))
}

// Over reports whether time has run out.
func (g *FallingGame) Over(now time.Time) bool {
	return !now.Before(g.deadline)
}
