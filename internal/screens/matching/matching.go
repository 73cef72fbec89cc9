// Package matching is the memory game: turn over tiles two at a time to
// pair each character with its meaning. Matching does not touch the
// review schedule.
package matching

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
	"github.com/abhisek/hanzi/internal/ui/layout"
	"github.com/abhisek/hanzi/internal/ui/theme"
)

const (
	columns   = 4
	tileWidth = 14

	// peekDelay is how long a mismatched pair stays face up.
	peekDelay = time.Second
)

type hideMsg struct{ seq int }

// MatchingScreen plays one board.
type MatchingScreen struct {
	board  *game.MatchingBoard
	cursor int
	peek   []int
	seq    int
}

var _ screen.Screen = (*MatchingScreen)(nil)
var _ screen.KeyHintProvider = (*MatchingScreen)(nil)

// New lays out a board from cards.
func New(env *screen.Env, cards []card.Card) (*MatchingScreen, error) {
	board, err := game.NewMatchingBoard(cards, env.Rand)
	if err != nil {
		return nil, err
	}
	return &MatchingScreen{board: board}, nil
}

func (s *MatchingScreen) Init() tea.Cmd {
	return nil
}

func (s *MatchingScreen) Title() string {
	return game.Matching.Title()
}

func (s *MatchingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "Move"},
		{Key: "Enter", Description: "Flip"},
		{Key: "Esc", Description: "Quit round"},
	}
}

func (s *MatchingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case hideMsg:
		if msg.seq == s.seq {
			s.peek = nil
		}
		return s, nil

	case tea.KeyMsg:
		s.peek = nil
		n := len(s.board.Tiles())
		switch msg.String() {
		case "left", "h":
			if s.cursor%columns > 0 {
				s.cursor--
			}
		case "right", "l":
			if s.cursor%columns < columns-1 && s.cursor+1 < n {
				s.cursor++
			}
		case "up", "k":
			if s.cursor >= columns {
				s.cursor -= columns
			}
		case "down", "j":
			if s.cursor+columns < n {
				s.cursor += columns
			}
		case "enter", "space":
			return s, s.flip()
		}
	}
	return s, nil
}

func (s *MatchingScreen) flip() tea.Cmd {
	first := s.board.Selected()
	res, err := s.board.Select(s.cursor)
	if err != nil {
		return nil
	}

	switch res {
	case game.Mismatched:
		s.peek = []int{first, s.cursor}
		s.seq++
		seq := s.seq
		return tea.Tick(peekDelay, func(time.Time) tea.Msg { return hideMsg{seq: seq} })
	case game.Matched:
		if s.board.Done() {
			found, _ := s.board.Pairs()
			return router.Replace(summary.New(summary.Result{
				Mode:  game.Matching,
				Score: fmt.Sprintf("Found %d pairs in %d moves", found, s.board.Moves()),
			}))
		}
	}
	return nil
}

func (s *MatchingScreen) faceUp(i int, t game.Tile) bool {
	if t.Matched || i == s.board.Selected() {
		return true
	}
	for _, p := range s.peek {
		if p == i {
			return true
		}
	}
	return false
}

func (s *MatchingScreen) View(width, height int) string {
	tiles := s.board.Tiles()

	var rows []string
	for start := 0; start < len(tiles); start += columns {
		var row []string
		for i := start; i < min(start+columns, len(tiles)); i++ {
			row = append(row, s.renderTile(i, tiles[i]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	found, total := s.board.Pairs()
	status := theme.Hint.Render(fmt.Sprintf("Pairs %d/%d   Moves %d", found, total, s.board.Moves()))

	return layout.Center(strings.Join(rows, "\n")+"\n\n"+status, width, height)
}

func (s *MatchingScreen) renderTile(i int, t game.Tile) string {
	text := "?"
	style := theme.Hint
	if s.faceUp(i, t) {
		text = clip(t.Text, tileWidth-2)
		style = theme.Body
		if t.Kind == game.CharacterTile {
			style = theme.Glyph
		}
		if t.Matched {
			style = theme.Matched
		}
	}

	border := theme.Border
	if i == s.cursor {
		border = theme.Primary
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(tileWidth).
		Align(lipgloss.Center).
		Render(style.Render(text))
}

// clip shortens s to at most w cells.
func clip(s string, w int) string {
	if lipgloss.Width(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > w {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
