// Package quiz is the multiple-choice screen: pick the meaning of a
// character from four options.
package quiz

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/hanzi/internal/card"
	"github.com/abhisek/hanzi/internal/game"
	"github.com/abhisek/hanzi/internal/router"
	"github.com/abhisek/hanzi/internal/screen"
	"github.com/abhisek/hanzi/internal/screens/summary"
	"github.com/abhisek/hanzi/internal/session"
	"github.com/abhisek/hanzi/internal/ui/components"
	"github.com/abhisek/hanzi/internal/ui/layout"
	"github.com/abhisek/hanzi/internal/ui/theme"
)

// QuizScreen runs one multiple-choice round.
type QuizScreen struct {
	env      *screen.Env
	round    *game.MultipleChoiceRound
	question game.Question
	choice   components.MultiChoice
	answered bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New builds a round from cards.
func New(env *screen.Env, cards []card.Card) (*QuizScreen, error) {
	round, err := game.NewMultipleChoiceRound(cards, env.Rand)
	if err != nil {
		return nil, err
	}
	s := &QuizScreen{env: env, round: round}
	s.next()
	return s, nil
}

func (s *QuizScreen) next() {
	q, ok := s.round.Current()
	if !ok {
		return
	}
	options := make([]string, len(q.Options))
	for i, o := range q.Options {
		options[i] = o.Meaning
	}
	s.question = q
	s.choice = components.NewMultiChoice(options, q.Answer)
	s.answered = false
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	return game.MultipleChoice.Title()
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.answered {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Quit round"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Choose"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Quit round"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.answered {
		if kmsg.String() != "enter" {
			return s, nil
		}
		if s.round.Done() {
			_, total := s.round.Progress()
			return s, router.Replace(summary.New(summary.Result{
				Mode:  game.MultipleChoice,
				Stats: s.env.Session.Session(),
				Score: fmt.Sprintf("%d of %d right", s.round.Score(), total),
			}))
		}
		s.next()
		return s, nil
	}

	s.choice, _ = s.choice.Update(msg)
	if !s.choice.Submitted {
		return s, nil
	}
	out, err := s.round.Choose(s.choice.ChosenIndex)
	if err != nil {
		return s, nil
	}
	s.answered = true
	_, _ = s.env.Session.Dispatch(s.env.Context(), session.Answer{CardID: out.CardID, Correct: out.Correct})
	return s, nil
}

func (s *QuizScreen) View(width, height int) string {
	answered, total := s.round.Progress()
	q := s.question

	var b strings.Builder
	b.WriteString(components.NewProgressBar(fmt.Sprintf("%d/%d", answered, total), answered, total, min(width-8, 50)).View())
	b.WriteString("\n\n")
	b.WriteString(theme.Card.Render(theme.Glyph.Render(q.Card.Character)))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render("What does it mean?"))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())

	if s.answered {
		b.WriteString("\n")
		if s.choice.IsCorrect() {
			b.WriteString(theme.Correct.Render("Correct! "))
		} else {
			b.WriteString(theme.Incorrect.Render("Not quite. "))
		}
		b.WriteString(theme.Reading.Render(q.Card.Character + " " + q.Card.Pronunciation() + " means " + q.Card.Meaning))
	}

	return layout.Center(b.String(), width, height)
}
