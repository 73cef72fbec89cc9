// Package screen defines the contract between the router and the screens it stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/hanzi/internal/ui/layout"
)

// Screen is one page of the terminal app.
type Screen interface {
	// Init returns an initial command when the screen becomes active.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen and command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen body, without header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens that want their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
