package addcard

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/hanzi/internal/card"
	"github.com/abhisek/hanzi/internal/screen"
	"github.com/abhisek/hanzi/internal/session"
	"github.com/abhisek/hanzi/internal/ui/components"
	"github.com/abhisek/hanzi/internal/ui/layout"
	"github.com/abhisek/hanzi/internal/ui/theme"
)

const (
	fieldCharacter = iota
	fieldPinyin
	fieldZhuyin
	fieldMeaning
)

// AddCardScreen is a small form for creating cards one after another.
type AddCardScreen struct {
	env    *screen.Env
	fields []components.TextInput
	focus  int
	status string
	failed bool
}

var _ screen.Screen = (*AddCardScreen)(nil)
var _ screen.KeyHintProvider = (*AddCardScreen)(nil)

// New creates an empty form.
func New(env *screen.Env) *AddCardScreen {
	return &AddCardScreen{
		env: env,
		fields: []components.TextInput{
			components.NewTextInput("Character", "水", 8),
			components.NewTextInput("Pinyin", "shuǐ", 32),
			components.NewTextInput("Zhuyin", "ㄕㄨㄟˇ", 16),
			components.NewTextInput("Meaning", "water", 64),
		},
	}
}

func (s *AddCardScreen) Init() tea.Cmd {
	return s.fields[s.focus].Focus()
}

func (s *AddCardScreen) Title() string {
	return "Add Card"
}

func (s *AddCardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Save"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AddCardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return s, s.moveFocus(1)
		case "shift+tab", "up":
			return s, s.moveFocus(-1)
		case "enter":
			return s, s.save()
		}
	}

	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

func (s *AddCardScreen) moveFocus(delta int) tea.Cmd {
	s.fields[s.focus].Blur()
	s.focus = (s.focus + delta + len(s.fields)) % len(s.fields)
	return s.fields[s.focus].Focus()
}

func (s *AddCardScreen) draft() card.Draft {
	return card.Draft{
		Character: s.fields[fieldCharacter].Value(),
		Pinyin:    s.fields[fieldPinyin].Value(),
		Zhuyin:    s.fields[fieldZhuyin].Value(),
		Meaning:   s.fields[fieldMeaning].Value(),
	}
}

func (s *AddCardScreen) save() tea.Cmd {
	res, err := s.env.Session.Dispatch(s.env.Context(), session.Add{Draft: s.draft()})
	if err != nil {
		s.status = err.Error()
		s.failed = true
		return nil
	}

	s.status = "Added " + res.Card.Character + " " + res.Card.Pronunciation()
	s.failed = false
	for i := range s.fields {
		s.fields[i].SetValue("")
	}
	s.fields[s.focus].Blur()
	s.focus = fieldCharacter
	return s.fields[s.focus].Focus()
}

func (s *AddCardScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Pinyin or zhuyin is enough, both are welcome."))
	b.WriteString("\n\n")
	for _, f := range s.fields {
		b.WriteString(f.View())
		b.WriteString("\n\n")
	}
	if s.status != "" {
		if s.failed {
			b.WriteString(theme.Incorrect.Render(s.status))
		} else {
			b.WriteString(theme.Correct.Render(s.status))
		}
	}
	return layout.Center(theme.Card.Render(b.String()), width, height)
}
