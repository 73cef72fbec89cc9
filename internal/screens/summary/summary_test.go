package summary

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/hanzi/internal/game"
	"github.com/abhisek/hanzi/internal/router"
	"github.com/abhisek/hanzi/internal/spacedrep"
)

func testResult() Result {
	return Result{
		Mode:  game.MultipleChoice,
		Stats: spacedrep.SessionStats{Correct: 7, Incorrect: 3, BestStreak: 4},
		Score: "7 of 10 right",
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	assert.Equal(t, "Session Summary", New(testResult()).Title())
}

func TestSummaryScreen_Display(t *testing.T) {
	view := New(testResult()).View(80, 24)

	assert.Contains(t, view, "Session complete!")
	assert.Contains(t, view, "Correct: 7")
	assert.Contains(t, view, "Best streak: 4")
	assert.Contains(t, view, "Accuracy: 70%")
	assert.Contains(t, view, "7 of 10 right")
}

func TestSummaryScreen_UngradedHidesAccuracy(t *testing.T) {
	view := New(Result{Mode: game.Matching, Score: "Found 4 pairs in 6 moves"}).View(80, 24)

	assert.NotContains(t, view, "Accuracy")
	assert.Contains(t, view, "Found 4 pairs in 6 moves")
}

func TestSummaryScreen_EnterReturnsHome(t *testing.T) {
	_, cmd := New(testResult()).Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopToRootMsg{}, cmd())
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	assert.Len(t, New(testResult()).KeyHints(), 2)
}
