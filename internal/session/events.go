package session

import (
	"github.com/abhisek/hanzi/internal/card"
	"github.com/abhisek/hanzi/internal/game"
	"github.com/abhisek/hanzi/internal/spacedrep"
)

// Event is a user action dispatched to the Controller.
type Event interface {
	event()
}

// Answer grades one card.
type Answer struct {
	CardID  card.ID
	Correct bool
}

// Add creates one card.
type Add struct {
	Draft card.Draft
}

// Import creates many cards, skipping invalid drafts.
type Import struct {
	Drafts []card.Draft
}

// Remove deletes one card.
type Remove struct {
	CardID card.ID
}

// Clear deletes every card and resets the session counters.
type Clear struct{}

// Start begins a game session in Mode.
type Start struct {
	Mode game.Mode
}

func (Answer) event() {}
func (Add) event()    {}
func (Import) event() {}
func (Remove) event() {}
func (Clear) event()  {}
func (Start) event()  {}

// Result reports what an event did.
type Result struct {
	// Card is the card answered or added.
	Card *card.Card

	// Added and Skipped count drafts for Add and Import.
	Added   int
	Skipped int

	// Cards are the cards a started game plays with: the due cards for
	// flashcard review, the whole collection otherwise.
	Cards []card.Card
}

// NoticeKind classifies a Notice.
type NoticeKind int

const (
	// NoticeChanged follows every change to the card collection.
	NoticeChanged NoticeKind = iota
	// NoticeWarning reports a persistence failure that was tolerated.
	NoticeWarning
)

// Notice is delivered to the handler registered with OnNotice.
type Notice struct {
	Kind    NoticeKind
	Message string
	Err     error
	Stats   spacedrep.Stats
}
