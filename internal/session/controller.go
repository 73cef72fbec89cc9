// Package session owns the in-memory card collection of one profile and
// routes user actions to the scheduler and to persistence.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/abhisek/hanzi/internal/card"
	"github.com/abhisek/hanzi/internal/game"
	"github.com/abhisek/hanzi/internal/spacedrep"
	"github.com/abhisek/hanzi/internal/store"
)

// ErrUnknownCard is returned when an event names a card not in the collection.
var ErrUnknownCard = errors.New("unknown card")

// CardStore persists cards. store.CardRepo satisfies it.
type CardStore interface {
	Load(ctx context.Context) ([]card.Card, error)
	Create(ctx context.Context, d card.Draft, now time.Time) (card.Card, error)
	Update(ctx context.Context, id card.ID, p card.Progress) error
	Delete(ctx context.Context, id card.ID) error
	Clear(ctx context.Context) error
}

// ReviewLog records answers. store.EventRepo satisfies it.
type ReviewLog interface {
	AppendReview(ctx context.Context, data store.ReviewEventData) error
}

// Options configures a Controller.
type Options struct {
	Cards   CardStore
	Reviews ReviewLog // optional
	UserID  int64
	Logger  *slog.Logger
	Now     func() time.Time
}

// Controller holds the card collection and session counters. The
// in-memory collection is the source of truth: persistence failures are
// logged and reported but never roll back a change. A Controller is not
// safe for concurrent use.
type Controller struct {
	store    CardStore
	reviews  ReviewLog
	userID   int64
	log      *slog.Logger
	now      func() time.Time
	onNotice func(Notice)

	cards     []card.Card
	session   spacedrep.SessionStats
	mode      game.Mode
	sessionID string
}

// New creates a Controller with an empty collection. Call Load to fill it.
func New(opts Options) *Controller {
	c := &Controller{
		store:   opts.Cards,
		reviews: opts.Reviews,
		userID:  opts.UserID,
		log:     opts.Logger,
		now:     opts.Now,
	}
	if c.log == nil {
		c.log = slog.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// OnNotice registers fn to receive change and warning notices.
func (c *Controller) OnNotice(fn func(Notice)) {
	c.onNotice = fn
}

// Load replaces the collection with the persisted cards. On failure the
// collection is left empty and the error is returned after a warning
// notice; callers may carry on with the empty collection.
func (c *Controller) Load(ctx context.Context) error {
	cards, err := c.store.Load(ctx)
	if err != nil {
		c.cards = nil
		c.warn("could not load cards, starting empty", err)
		return fmt.Errorf("load cards: %w", err)
	}
	c.cards = cards
	c.changed()
	return nil
}

// Dispatch applies ev.
func (c *Controller) Dispatch(ctx context.Context, ev Event) (Result, error) {
	switch ev := ev.(type) {
	case Answer:
		return c.answer(ctx, ev)
	case Add:
		return c.add(ctx, ev.Draft)
	case Import:
		return c.importDrafts(ctx, ev.Drafts)
	case Remove:
		return c.remove(ctx, ev.CardID)
	case Clear:
		return c.clear(ctx)
	case Start:
		return c.start(ev.Mode)
	}
	return Result{}, fmt.Errorf("unsupported event %T", ev)
}

func (c *Controller) index(id card.ID) int {
	return slices.IndexFunc(c.cards, func(x card.Card) bool { return x.ID == id })
}

func (c *Controller) answer(ctx context.Context, ev Answer) (Result, error) {
	i := c.index(ev.CardID)
	if i < 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownCard, ev.CardID)
	}

	cur := &c.cards[i]
	before := cur.Level
	spacedrep.ApplyAnswer(cur, ev.Correct, c.now(), &c.session)
	updated := *cur

	if err := c.store.Update(ctx, updated.ID, updated.Progress()); err != nil {
		c.warn("could not save review", err, "card", updated.ID)
	}
	if c.reviews != nil {
		err := c.reviews.AppendReview(ctx, store.ReviewEventData{
			UserID:      c.userID,
			CardID:      updated.ID,
			SessionID:   c.sessionID,
			Mode:        string(c.mode),
			Correct:     ev.Correct,
			LevelBefore: before,
			LevelAfter:  updated.Level,
		})
		if err != nil {
			c.log.Warn("append review event", "card", updated.ID, "error", err)
		}
	}

	c.changed()
	return Result{Card: &updated}, nil
}

func (c *Controller) create(ctx context.Context, d card.Draft) (card.Card, error) {
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return card.Card{}, err
	}
	created, err := c.store.Create(ctx, d, c.now())
	if err != nil {
		return card.Card{}, fmt.Errorf("create card: %w", err)
	}
	c.cards = append(c.cards, created)
	return created, nil
}

func (c *Controller) add(ctx context.Context, d card.Draft) (Result, error) {
	created, err := c.create(ctx, d)
	if err != nil {
		return Result{Skipped: 1}, err
	}
	c.changed()
	return Result{Card: &created, Added: 1}, nil
}

func (c *Controller) importDrafts(ctx context.Context, drafts []card.Draft) (Result, error) {
	var res Result
	for _, d := range drafts {
		if _, err := c.create(ctx, d); err != nil {
			if !errors.Is(err, card.ErrInvalid) {
				c.log.Warn("import card", "character", d.Character, "error", err)
			}
			res.Skipped++
			continue
		}
		res.Added++
	}
	if res.Added > 0 {
		c.changed()
	}
	return res, nil
}

func (c *Controller) remove(ctx context.Context, id card.ID) (Result, error) {
	i := c.index(id)
	if i < 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownCard, id)
	}
	c.cards = slices.Delete(c.cards, i, i+1)
	if err := c.store.Delete(ctx, id); err != nil {
		c.warn("could not delete card", err, "card", id)
	}
	c.changed()
	return Result{}, nil
}

func (c *Controller) clear(ctx context.Context) (Result, error) {
	c.cards = nil
	c.session.Reset()
	if err := c.store.Clear(ctx); err != nil {
		c.warn("could not clear saved cards", err)
	}
	c.changed()
	return Result{}, nil
}

func (c *Controller) start(mode game.Mode) (Result, error) {
	due := c.Due()
	if err := game.Check(mode, len(c.cards), len(due)); err != nil {
		return Result{}, err
	}

	c.session.Reset()
	c.mode = mode
	c.sessionID = shortuuid.New()
	c.log.Debug("session started", "session", c.sessionID, "mode", mode, "cards", len(c.cards), "due", len(due))

	if mode == game.Flashcard {
		return Result{Cards: due}, nil
	}
	return Result{Cards: c.Cards()}, nil
}

// Cards returns a copy of the collection in creation order.
func (c *Controller) Cards() []card.Card {
	return slices.Clone(c.cards)
}

// Due returns copies of the cards due now.
func (c *Controller) Due() []card.Card {
	var due []card.Card
	for d := range spacedrep.DueCards(c.cards, c.now()) {
		due = append(due, *d)
	}
	return due
}

// Stats summarizes the collection now.
func (c *Controller) Stats() spacedrep.Stats {
	return spacedrep.AggregateStats(c.cards, c.now())
}

// Session returns the counters of the current game session.
func (c *Controller) Session() spacedrep.SessionStats {
	return c.session
}

// Mode returns the mode of the current game session.
func (c *Controller) Mode() game.Mode {
	return c.mode
}

// SessionID identifies the current game session in review events.
func (c *Controller) SessionID() string {
	return c.sessionID
}

func (c *Controller) warn(msg string, err error, attrs ...any) {
	c.log.Warn(msg, append(attrs, "error", err)...)
	if c.onNotice != nil {
		c.onNotice(Notice{Kind: NoticeWarning, Message: msg, Err: err, Stats: c.Stats()})
	}
}

func (c *Controller) changed() {
	if c.onNotice != nil {
		c.onNotice(Notice{Kind: NoticeChanged, Stats: c.Stats()})
	}
}
