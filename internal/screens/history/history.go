package history

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hanzi/internal/card"
	"github.com/abhisek/hanzi/internal/screen"
	"github.com/abhisek/hanzi/internal/store"
	"github.com/abhisek/hanzi/internal/ui/layout"
	"github.com/abhisek/hanzi/internal/ui/theme"
)

const (
	// Days is how far back the daily chart reaches.
	Days = 14

	recentLimit = 12
	barWidth    = 30
)

type historyLoadedMsg struct {
	days   []store.DayCount
	recent []store.ReviewEvent
	err    error
}

// HistoryScreen charts reviews per day and lists the latest answers.
type HistoryScreen struct {
	env    *screen.Env
	days   []store.DayCount
	recent []store.ReviewEvent
	loaded bool
	errMsg string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(env *screen.Env) *HistoryScreen {
	return &HistoryScreen{env: env}
}

func (s *HistoryScreen) Init() tea.Cmd {
	env := s.env
	return func() tea.Msg {
		ctx := env.Context()
		now := env.Clock()
		y, m, d := now.Date()
		from := time.Date(y, m, d-(Days-1), 0, 0, 0, 0, now.Location())

		days, err := env.Events.ReviewCountsByDay(ctx, env.UserID, from, now.Location())
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		recent, err := env.Events.RecentReviews(ctx, env.UserID, store.QueryOpts{Limit: recentLimit})
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		return historyLoadedMsg{days: days, recent: recent}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(historyLoadedMsg); ok {
		if msg.err != nil {
			s.errMsg = msg.err.Error()
		} else {
			s.days = msg.days
			s.recent = msg.recent
		}
		s.loaded = true
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	centered := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return centered.Foreground(theme.Error).Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return centered.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}
	if len(s.days) == 0 {
		return centered.Foreground(theme.TextDim).Italic(true).Render("\n\n  No reviews yet. Start practicing!")
	}

	peak := 1
	for _, d := range s.days {
		peak = max(peak, d.Reviews)
	}

	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Reviews over the last %d days", Days)))
	b.WriteString("\n\n")
	for _, d := range s.days {
		right := d.Correct * barWidth / peak
		wrong := (d.Reviews - d.Correct) * barWidth / peak
		b.WriteString(fmt.Sprintf("%s  %s%s %s\n",
			theme.Hint.Render(d.Day.Format("Mon Jan 02")),
			lipgloss.NewStyle().Foreground(theme.Success).Render(strings.Repeat("█", right)),
			lipgloss.NewStyle().Foreground(theme.Error).Render(strings.Repeat("█", wrong)),
			theme.Body.Render(fmt.Sprintf("%d/%d", d.Correct, d.Reviews))))
	}

	if len(s.recent) > 0 {
		chars := make(map[card.ID]string)
		for _, c := range s.env.Session.Cards() {
			chars[c.ID] = c.Character
		}

		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render("Latest answers"))
		b.WriteString("\n\n")
		for _, ev := range s.recent {
			ch, ok := chars[ev.CardID]
			if !ok {
				ch = "·"
			}
			mark := theme.Correct.Render("✓")
			if !ev.Correct {
				mark = theme.Incorrect.Render("✗")
			}
			b.WriteString(fmt.Sprintf("%s %s  %s  level %d → %d\n",
				mark, theme.Glyph.Render(ch),
				theme.Hint.Render(fmt.Sprintf("%-16s", ev.Mode)),
				ev.LevelBefore, ev.LevelAfter))
		}
	}

	return layout.Center(b.String(), width, height)
}
