package notice

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hanzi/internal/router"
)

func TestNoticeView(t *testing.T) {
	n := New("Cannot start", "not enough cards: need 4, have 2")

	assert.Equal(t, "Cannot start", n.Title())
	assert.False(t, n.Positive())
	assert.Contains(t, n.View(80, 20), "need 4, have 2")
	assert.True(t, Good("All caught up", "nothing due").Positive())
}

func TestNoticeEnterPops(t *testing.T) {
	_, cmd := New("x", "y").Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())

	_, cmd = New("x", "y").Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	assert.Nil(t, cmd)
}
