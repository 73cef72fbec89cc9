package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/abhisek/hanzi/internal/card"
)

const (
	// MaxQuestions caps the length of a multiple-choice round.
	MaxQuestions = 10

	// OptionCount is the number of meanings offered per question.
	OptionCount = 4
)

// Option is one answer offered for a question.
type Option struct {
	CardID  card.ID
	Meaning string
}

// Question asks for the meaning of Card. Answer indexes the right option.
type Question struct {
	Card    card.Card
	Options []Option
	Answer  int
}

// MultipleChoiceRound asks for the meaning of up to MaxQuestions cards.
type MultipleChoiceRound struct {
	questions []Question
	pos       int
	correct   int
}

// NewMultipleChoiceRound builds questions for the first MaxQuestions cards.
// Wrong options are drawn from the rest of the collection.
func NewMultipleChoiceRound(cards []card.Card, rng *rand.Rand) (*MultipleChoiceRound, error) {
	if len(cards) < OptionCount {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrNotEnoughCards, OptionCount, len(cards))
	}

	n := min(MaxQuestions, len(cards))
	r := &MultipleChoiceRound{questions: make([]Question, 0, n)}
	for i := range n {
		r.questions = append(r.questions, buildQuestion(cards, i, rng))
	}
	return r, nil
}

func buildQuestion(cards []card.Card, target int, rng *rand.Rand) Question {
	t := cards[target]
	options := []Option{{CardID: t.ID, Meaning: t.Meaning}}
	seen := map[string]bool{t.Meaning: true}

	var spare []Option
	for _, j := range rng.Perm(len(cards)) {
		if j == target || len(options) == OptionCount {
			continue
		}
		o := Option{CardID: cards[j].ID, Meaning: cards[j].Meaning}
		if seen[o.Meaning] {
			spare = append(spare, o)
			continue
		}
		seen[o.Meaning] = true
		options = append(options, o)
	}
	// Collections with repeated meanings still get a full set of options.
	for _, o := range spare {
		if len(options) == OptionCount {
			break
		}
		options = append(options, o)
	}

	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	q := Question{Card: t, Options: options}
	for i, o := range options {
		if o.CardID == t.ID {
			q.Answer = i
		}
	}
	return q
}

// Current returns the question being asked.
func (r *MultipleChoiceRound) Current() (Question, bool) {
	if r.Done() {
		return Question{}, false
	}
	return r.questions[r.pos], true
}

// Choose answers the current question with option i.
func (r *MultipleChoiceRound) Choose(i int) (Outcome, error) {
	q, ok := r.Current()
	if !ok {
		return Outcome{}, ErrRoundOver
	}
	if i < 0 || i >= len(q.Options) {
		return Outcome{}, fmt.Errorf("%w: %d", ErrBadChoice, i)
	}
	r.pos++
	correct := i == q.Answer
	if correct {
		r.correct++
	}
	return Outcome{CardID: q.Card.ID, Correct: correct, Graded: true}, nil
}

// Done reports whether every question has been answered.
func (r *MultipleChoiceRound) Done() bool {
	return r.pos >= len(r.questions)
}

// Progress returns how many questions were answered out of the total.
func (r *MultipleChoiceRound) Progress() (answered, total int) {
	return r.pos, len(r.questions)
}

// Score returns the number of correct answers so far.
func (r *MultipleChoiceRound) Score() int {
	return r.correct
}
