package screen

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/abhisek/hanzi/internal/session"
	"github.com/abhisek/hanzi/internal/store"
)

// Env is shared by every screen of one running app.
type Env struct {
	Ctx     context.Context
	Session *session.Controller
	Events  store.EventRepo // optional, enables history
	UserID  int64
	Rand    *rand.Rand
	Now     func() time.Time
}

// Context returns Ctx, or a background context when unset.
func (e *Env) Context() context.Context {
	if e.Ctx == nil {
		return context.Background()
	}
	return e.Ctx
}

// Clock returns Now, or time.Now when unset.
func (e *Env) Clock() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
