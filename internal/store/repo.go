package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/hanzi/internal/card"
)

var (
	// ErrNotFound is returned when a record does not exist or is not
	// visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrUserExists is returned when registering a name that is taken.
	ErrUserExists = errors.New("user already exists")
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// User is a registered account. Local CLI profiles have no password.
type User struct {
	ID           int64
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepo manages accounts.
type UserRepo interface {
	// Create registers a new user. Returns ErrUserExists if the name is taken.
	Create(ctx context.Context, name, passwordHash string) (*User, error)

	// ByName returns the user with the given name, or ErrNotFound.
	ByName(ctx context.Context, name string) (*User, error)

	// ByID returns the user with the given id, or ErrNotFound.
	ByID(ctx context.Context, id int64) (*User, error)

	// Ensure returns the named user, creating a passwordless one if needed.
	Ensure(ctx context.Context, name string) (*User, error)
}

// CardRepo persists the cards of a single user.
type CardRepo interface {
	// Load returns all cards in creation order.
	Load(ctx context.Context) ([]card.Card, error)

	// Get returns one card, or ErrNotFound.
	Get(ctx context.Context, id card.ID) (card.Card, error)

	// Create stores a new level-0 card built from d, due at now.
	Create(ctx context.Context, d card.Draft, now time.Time) (card.Card, error)

	// Update overwrites the review state of a card. Returns ErrNotFound
	// when the card does not exist for this user.
	Update(ctx context.Context, id card.ID, p card.Progress) error

	// Delete removes a card. Deleting a missing card succeeds.
	Delete(ctx context.Context, id card.ID) error

	// Clear removes every card and review event of the user.
	Clear(ctx context.Context) error
}

// ReviewEventData captures a single answer given to a card.
type ReviewEventData struct {
	UserID      int64
	CardID      card.ID
	SessionID   string
	Mode        string
	Correct     bool
	LevelBefore int
	LevelAfter  int
}

// ReviewEvent is a stored ReviewEventData.
type ReviewEvent struct {
	ReviewEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// DayCount is the number of reviews on one calendar day.
type DayCount struct {
	Day     time.Time
	Reviews int
	Correct int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a stored LLMRequestEventData.
type LLMEvent struct {
	LLMRequestEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendReview records an answer event.
	AppendReview(ctx context.Context, data ReviewEventData) error

	// RecentReviews returns a user's review events, newest first.
	RecentReviews(ctx context.Context, userID int64, opts QueryOpts) ([]ReviewEvent, error)

	// ReviewCountsByDay groups a user's reviews since from by calendar
	// day in loc, oldest first.
	ReviewCountsByDay(ctx context.Context, userID int64, from time.Time, loc *time.Location) ([]DayCount, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error)

	// GetLLMEvent returns one LLM event by id, or nil if absent.
	GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error)
}
