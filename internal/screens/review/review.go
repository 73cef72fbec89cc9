// Package review is the flashcard screen: show a due character, reveal
// its reading, then grade yourself.
package review

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

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

// ReviewScreen runs one flashcard round.
type ReviewScreen struct {
	env   *screen.Env
	round *game.FlashcardRound
	err   string
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)

// New reviews the given due cards.
func New(env *screen.Env, due []card.Card) *ReviewScreen {
	return &ReviewScreen{env: env, round: game.NewFlashcardRound(due)}
}

func (s *ReviewScreen) Init() tea.Cmd {
	return nil
}

func (s *ReviewScreen) Title() string {
	return game.Flashcard.Title()
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	if !s.round.Revealed() {
		return []layout.KeyHint{
			{Key: "Space", Description: "Reveal"},
			{Key: "Esc", Description: "Quit round"},
		}
	}
	return []layout.KeyHint{
		{Key: "Y", Description: "Knew it"},
		{Key: "N", Description: "Didn't"},
		{Key: "Esc", Description: "Quit round"},
	}
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "space", "enter":
		s.round.Reveal()
	case "y", "right":
		return s, s.answer(true)
	case "n", "left":
		return s, s.answer(false)
	}
	return s, nil
}

func (s *ReviewScreen) answer(knew bool) tea.Cmd {
	if !s.round.Revealed() {
		return nil
	}
	out, err := s.round.Answer(knew)
	if err != nil {
		return nil
	}
	if _, err := s.env.Session.Dispatch(s.env.Context(), session.Answer{CardID: out.CardID, Correct: out.Correct}); err != nil {
		s.err = err.Error()
	}
	if s.round.Done() {
		return router.Replace(summary.New(summary.Result{
			Mode:  game.Flashcard,
			Stats: s.env.Session.Session(),
		}))
	}
	return nil
}

func (s *ReviewScreen) View(width, height int) string {
	c, ok := s.round.Current()
	if !ok {
		return ""
	}
	answered, total := s.round.Progress()

	var b strings.Builder
	bar := components.NewProgressBar(fmt.Sprintf("%d/%d", answered, total), answered, total, min(width-8, 50))
	b.WriteString(bar.View())
	b.WriteString("\n\n")

	face := theme.Glyph.Render(c.Character)
	if s.round.Revealed() {
		face += "\n\n" + theme.Reading.Render(c.Pronunciation()) +
			"\n\n" + theme.Body.Render(c.Meaning)
	} else {
		face += "\n\n" + theme.Hint.Render("press space to reveal")
	}
	b.WriteString(theme.Card.Align(lipgloss.Center).Width(min(width-8, 40)).Render(face))

	stats := s.env.Session.Session()
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Correct %d   Incorrect %d   Streak %d",
		stats.Correct, stats.Incorrect, stats.Streak)))

	if s.err != "" {
		b.WriteString("\n\n" + theme.Incorrect.Render(s.err))
	}

	return layout.Center(b.String(), width, height)
}
