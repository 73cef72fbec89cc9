// Package catch is the timed falling-character game: catch the character
// that matches the reading shown before time runs out.
package catch

import (
	"fmt"
	"strings"
	"time"

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

const (
	tickEvery  = 200 * time.Millisecond
	laneWidth  = 10
	stagger    = 3 // rows between consecutive drops
	areaHeight = 10
)

// tickMsg is bound to the screen that scheduled it, so a screen left with
// Esc stops ticking and a new game never inherits its timer.
type tickMsg struct {
	screen *CatchScreen
}

// CatchScreen plays one timed game.
type CatchScreen struct {
	env        *screen.Env
	game       *game.FallingGame
	roundStart time.Time
	feedback   string
}

var _ screen.Screen = (*CatchScreen)(nil)
var _ screen.KeyHintProvider = (*CatchScreen)(nil)

// New starts the game clock now.
func New(env *screen.Env, cards []card.Card) (*CatchScreen, error) {
	now := env.Clock()
	g, err := game.NewFallingGame(cards, env.Rand, now)
	if err != nil {
		return nil, err
	}
	return &CatchScreen{env: env, game: g, roundStart: now}, nil
}

func (s *CatchScreen) tick() tea.Cmd {
	return tea.Tick(tickEvery, func(time.Time) tea.Msg { return tickMsg{screen: s} })
}

func (s *CatchScreen) Init() tea.Cmd {
	return s.tick()
}

func (s *CatchScreen) Title() string {
	return game.Falling.Title()
}

func (s *CatchScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: fmt.Sprintf("1-%d", len(s.game.Choices())), Description: "Catch"},
		{Key: "Esc", Description: "Quit game"},
	}
}

func (s *CatchScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	now := s.env.Clock()

	switch msg := msg.(type) {
	case tickMsg:
		if msg.screen != s {
			return s, nil
		}
		if s.game.Over(now) {
			return s, s.finish()
		}
		return s, s.tick()

	case tea.KeyMsg:
		n := components.Digit(msg)
		if n < 1 || n > len(s.game.Choices()) {
			return s, nil
		}
		target := s.game.Target()
		out, err := s.game.Pick(n-1, now)
		if err != nil {
			return s, s.finish()
		}
		if out.Graded {
			_, _ = s.env.Session.Dispatch(s.env.Context(), session.Answer{CardID: out.CardID, Correct: out.Correct})
		}
		if out.Correct {
			s.feedback = theme.Correct.Render(fmt.Sprintf("Caught %s! +%d", target.Character, game.HitPoints))
		} else {
			s.feedback = theme.Incorrect.Render(fmt.Sprintf("That was not %s. -%d", target.Character, game.MissPenalty))
		}
		s.roundStart = now
	}
	return s, nil
}

func (s *CatchScreen) finish() tea.Cmd {
	return router.Replace(summary.New(summary.Result{
		Mode:  game.Falling,
		Stats: s.env.Session.Session(),
		Score: fmt.Sprintf("Score %d   (%d caught, %d missed)", s.game.Score(), s.game.Hits(), s.game.Misses()),
	}))
}

// row returns where choice i is drawn, or -1 while it has not dropped yet.
// Characters that reach the bottom start again from the top.
func (s *CatchScreen) row(i int, now time.Time) int {
	r := int(now.Sub(s.roundStart)/tickEvery) - i*stagger
	if r < 0 {
		return -1
	}
	return r % areaHeight
}

func (s *CatchScreen) View(width, height int) string {
	now := s.env.Clock()
	choices := s.game.Choices()

	grid := make([][]string, areaHeight)
	for r := range grid {
		grid[r] = make([]string, len(choices))
	}
	for i, c := range choices {
		if r := s.row(i, now); r >= 0 {
			grid[r][i] = fmt.Sprintf("%d %s", i+1, c.Character)
		}
	}

	lane := lipgloss.NewStyle().Width(laneWidth).Align(lipgloss.Center)
	var area strings.Builder
	for _, cells := range grid {
		for _, cell := range cells {
			area.WriteString(lane.Render(theme.Glyph.Render(cell)))
		}
		area.WriteString("\n")
	}

	remaining := s.game.Remaining(now)
	timer := components.NewProgressBar(
		fmt.Sprintf("%2ds", int(remaining.Round(time.Second).Seconds())),
		int(remaining/time.Millisecond), int(game.FallingDuration/time.Millisecond),
		min(width-8, laneWidth*len(choices)))

	var b strings.Builder
	b.WriteString(theme.Body.Render("Catch: ") + theme.Reading.Render(s.game.Prompt()))
	b.WriteString("\n\n")
	b.WriteString(timer.View())
	b.WriteString("   " + theme.Selected.Render(fmt.Sprintf("Score %d", s.game.Score())))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(strings.TrimSuffix(area.String(), "\n")))
	b.WriteString("\n\n")
	b.WriteString(s.feedback)

	return layout.Center(b.String(), width, height)
}
