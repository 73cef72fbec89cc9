package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hanzi/internal/game"
	"github.com/abhisek/hanzi/internal/router"
	"github.com/abhisek/hanzi/internal/screen"
	"github.com/abhisek/hanzi/internal/spacedrep"
	"github.com/abhisek/hanzi/internal/ui/layout"
	"github.com/abhisek/hanzi/internal/ui/theme"
)

// Result is what a finished game reports.
type Result struct {
	Mode  game.Mode
	Stats spacedrep.SessionStats
	// Score is a mode-specific line, such as moves taken or points caught.
	Score string
}

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	result Result
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(result Result) *SummaryScreen {
	return &SummaryScreen{result: result}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return s, router.PopToRoot
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.result
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder

	b.WriteString(center(theme.Title.Render("Session complete!")))
	b.WriteString("\n\n")
	b.WriteString(center(theme.Subtitle.Render(r.Mode.Title())))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(center(divider))
	b.WriteString("\n\n")

	if r.Mode.Graded() || r.Stats.Total() > 0 {
		b.WriteString(center(theme.Body.Render(fmt.Sprintf(
			"Correct: %d        Incorrect: %d        Best streak: %d",
			r.Stats.Correct, r.Stats.Incorrect, r.Stats.BestStreak))))
		b.WriteString("\n\n")

		accuracy := theme.Correct
		if r.Stats.Accuracy() < 50 {
			accuracy = theme.Incorrect
		}
		b.WriteString(center(accuracy.Render(fmt.Sprintf("Accuracy: %d%%", r.Stats.Accuracy()))))
		b.WriteString("\n\n")
	}

	if r.Score != "" {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent).Render(r.Score)))
		b.WriteString("\n")
	}

	return b.String()
}
