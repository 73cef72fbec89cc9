package home

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hanzi/internal/card"
	"github.com/abhisek/hanzi/internal/game"
	"github.com/abhisek/hanzi/internal/router"
	"github.com/abhisek/hanzi/internal/screen"
	"github.com/abhisek/hanzi/internal/screens/addcard"
	"github.com/abhisek/hanzi/internal/screens/catch"
	"github.com/abhisek/hanzi/internal/screens/history"
	"github.com/abhisek/hanzi/internal/screens/matching"
	"github.com/abhisek/hanzi/internal/screens/notice"
	"github.com/abhisek/hanzi/internal/screens/quiz"
	"github.com/abhisek/hanzi/internal/screens/review"
	"github.com/abhisek/hanzi/internal/session"
	"github.com/abhisek/hanzi/internal/spacedrep"
	"github.com/abhisek/hanzi/internal/ui/components"
	"github.com/abhisek/hanzi/internal/ui/layout"
)

// HomeScreen shows the deck counters and the game menu.
type HomeScreen struct {
	env   *screen.Env
	menu  components.Menu
	stats spacedrep.Stats
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(env *screen.Env) *HomeScreen {
	h := &HomeScreen{env: env}
	items := []components.MenuItem{
		{Label: "Review due cards", Action: func() tea.Cmd { return h.play(game.Flashcard) }},
		{Label: "Multiple choice", Action: func() tea.Cmd { return h.play(game.MultipleChoice) }},
		{Label: "Matching", Action: func() tea.Cmd { return h.play(game.Matching) }},
		{Label: "Catch", Action: func() tea.Cmd { return h.play(game.Falling) }},
		{Label: "Add a card", Action: func() tea.Cmd { return router.Push(addcard.New(env)) }},
		{Label: "History", Disabled: env.Events == nil, Action: func() tea.Cmd {
			return router.Push(history.New(env))
		}},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}
	h.menu = components.NewMenu(items)
	h.refresh()
	return h
}

// Init refreshes the counters each time the screen becomes active again.
func (h *HomeScreen) Init() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) refresh() {
	h.stats = h.env.Session.Stats()
	h.menu.Items[0].Hint = fmt.Sprintf("%d due", h.stats.DueCount)
}

// play starts a session in mode and opens its screen.
func (h *HomeScreen) play(mode game.Mode) tea.Cmd {
	res, err := h.env.Session.Dispatch(h.env.Context(), session.Start{Mode: mode})
	switch {
	case errors.Is(err, game.ErrNothingDue):
		return router.Push(notice.Good("All caught up", "Nothing to review right now. Come back later!"))
	case err != nil:
		return router.Push(notice.New("Cannot start "+mode.Title(), err.Error()))
	}

	s, err := h.gameScreen(mode, res.Cards)
	if err != nil {
		return router.Push(notice.New("Cannot start "+mode.Title(), err.Error()))
	}
	return router.Push(s)
}

func (h *HomeScreen) gameScreen(mode game.Mode, cards []card.Card) (screen.Screen, error) {
	switch mode {
	case game.Flashcard:
		return review.New(h.env, cards), nil
	case game.MultipleChoice:
		return quiz.New(h.env, cards)
	case game.Matching:
		return matching.New(h.env, cards)
	case game.Falling:
		return catch.New(h.env, cards)
	}
	return nil, fmt.Errorf("unsupported mode %q", mode)
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "q" {
		return h, tea.Quit
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height + 8)
	cw := contentWidth(width)

	sections := []string{
		renderTitle(h.stats, cw, compact),
		renderStatsBar(h.stats, cw),
		lipgloss.NewStyle().Width(cw).Render(h.menu.View()),
	}
	if h.stats.TotalCards == 0 {
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).
			Render("No cards yet. Add one, or run `hanzi import <file>`."))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
