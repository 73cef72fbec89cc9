package notice

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hanzi/internal/router"
	"github.com/abhisek/hanzi/internal/screen"
	"github.com/abhisek/hanzi/internal/ui/layout"
	"github.com/abhisek/hanzi/internal/ui/theme"
)

// NoticeScreen shows a short centred message, such as why a game could
// not start.
type NoticeScreen struct {
	title    string
	message  string
	positive bool
}

var _ screen.Screen = (*NoticeScreen)(nil)
var _ screen.KeyHintProvider = (*NoticeScreen)(nil)

// New creates a warning notice.
func New(title, message string) *NoticeScreen {
	return &NoticeScreen{title: title, message: message}
}

// Good creates a notice for good news, like an empty review queue.
func Good(title, message string) *NoticeScreen {
	return &NoticeScreen{title: title, message: message, positive: true}
}

func (n *NoticeScreen) Init() tea.Cmd {
	return nil
}

func (n *NoticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return n, router.Pop
	}
	return n, nil
}

func (n *NoticeScreen) View(width, height int) string {
	heading := theme.Incorrect.Render("╌╌ " + n.title + " ╌╌")
	if n.positive {
		heading = theme.Correct.Render("╌╌ " + n.title + " ╌╌")
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(heading + "\n\n" + n.message)
}

func (n *NoticeScreen) Title() string {
	return n.title
}

func (n *NoticeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "OK"},
	}
}

// Positive reports whether the notice carries good news.
func (n *NoticeScreen) Positive() bool {
	return n.positive
}

// Message returns the body text.
func (n *NoticeScreen) Message() string {
	return n.message
}
