// Package app is the Bubble Tea shell of the terminal UI: a screen stack
// framed by a header with deck counters and a footer with key hints.
package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/hanzi/internal/router"
	"github.com/abhisek/hanzi/internal/screen"
	"github.com/abhisek/hanzi/internal/screens/home"
	"github.com/abhisek/hanzi/internal/session"
	"github.com/abhisek/hanzi/internal/spacedrep"
	"github.com/abhisek/hanzi/internal/store"
	"github.com/abhisek/hanzi/internal/ui/layout"
	"github.com/abhisek/hanzi/internal/ui/theme"
)

// Options configures the app.
type Options struct {
	Session *session.Controller
	Events  store.EventRepo // optional
	UserID  int64
	Rand    *rand.Rand // defaults to a time-seeded source
	Now     func() time.Time
}

// status is shared by every copy of the AppModel value.
type status struct {
	stats   spacedrep.Stats
	warning string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	status *status
	width  int
	height int
}

// New creates an AppModel with the home screen.
func New(ctx context.Context, opts Options) AppModel {
	if opts.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		opts.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	env := &screen.Env{
		Ctx:     ctx,
		Session: opts.Session,
		Events:  opts.Events,
		UserID:  opts.UserID,
		Rand:    opts.Rand,
		Now:     opts.Now,
	}

	st := &status{stats: opts.Session.Stats()}
	opts.Session.OnNotice(func(n session.Notice) {
		st.stats = n.Stats
		if n.Kind == session.NoticeWarning {
			st.warning = n.Message
		}
	})

	return AppModel{
		router: router.New(home.New(env)),
		status: st,
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.status.warning = ""
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) headerStatus() string {
	if m.status.warning != "" {
		return lipgloss.NewStyle().Foreground(theme.Error).Render("⚠ " + m.status.warning)
	}
	s := m.status.stats
	return fmt.Sprintf("%d due · %d cards", s.DueCount, s.TotalCards)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	v.SetContent(m.render())
	return v
}

// render draws the whole terminal for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.headerStatus(), m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Q", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
