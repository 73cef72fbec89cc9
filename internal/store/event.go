package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/hanzi/internal/card"
)

// sequenceCounter hands out one monotonic sequence shared by every event
// table, so review and LLM events can be ordered against each other.
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo backed by the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

// applyQueryOpts adds the filters of opts to s, newest first.
func applyQueryOpts(s *entsql.Selector, opts QueryOpts) *entsql.Selector {
	if opts.After > 0 {
		s.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		s.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		s.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		s.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	s.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		s.Limit(opts.Limit)
	}
	return s
}

func (r *eventRepo) AppendReview(ctx context.Context, data ReviewEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(reviewEventsTable.Name).
		Columns("sequence", "timestamp", "user_id", "card_uid", "session_id",
			"mode", "correct", "level_before", "level_after").
		Values(seqNum, r.now().UTC(), data.UserID, string(data.CardID), data.SessionID,
			data.Mode, data.Correct, data.LevelBefore, data.LevelAfter).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save review event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentReviews(ctx context.Context, userID int64, opts QueryOpts) ([]ReviewEvent, error) {
	s := entsql.Dialect(dialect.SQLite).
		Select("id", "sequence", "timestamp", "user_id", "card_uid", "session_id",
			"mode", "correct", "level_before", "level_after").
		From(entsql.Table(reviewEventsTable.Name)).
		Where(entsql.EQ("user_id", userID))
	query, args := applyQueryOpts(s, opts).Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query review events: %w", err)
	}
	defer rows.Close()

	var events []ReviewEvent
	for rows.Next() {
		var (
			e   ReviewEvent
			uid string
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.UserID, &uid, &e.SessionID,
			&e.Mode, &e.Correct, &e.LevelBefore, &e.LevelAfter); err != nil {
			return nil, fmt.Errorf("scan review event: %w", err)
		}
		e.CardID = card.ID(uid)
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) ReviewCountsByDay(ctx context.Context, userID int64, from time.Time, loc *time.Location) ([]DayCount, error) {
	events, err := r.RecentReviews(ctx, userID, QueryOpts{From: from})
	if err != nil {
		return nil, err
	}

	var days []DayCount
	index := make(map[time.Time]int)
	// Events arrive newest first; walk backwards to build oldest first.
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		y, m, d := e.Timestamp.In(loc).Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, loc)
		j, ok := index[day]
		if !ok {
			j = len(days)
			index[day] = j
			days = append(days, DayCount{Day: day})
		}
		days[j].Reviews++
		if e.Correct {
			days[j].Correct++
		}
	}
	return days, nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(llmEventsTable.Name).
		Columns("sequence", "timestamp", "provider", "model", "purpose",
			"input_tokens", "output_tokens", "latency_ms", "success",
			"error_message", "request_body", "response_body").
		Values(seqNum, r.now().UTC(), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
			data.ErrorMessage, data.RequestBody, data.ResponseBody).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) llmSelector() *entsql.Selector {
	return entsql.Dialect(dialect.SQLite).
		Select(columnNames(llmEventsColumns)...).
		From(entsql.Table(llmEventsTable.Name))
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	query, args := applyQueryOpts(r.llmSelector(), opts).Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var events []LLMEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEvent, error) {
	query, args := r.llmSelector().Where(entsql.EQ("id", id)).Query()
	e, err := scanLLMEvent(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func scanLLMEvent(row rowScanner) (*LLMEvent, error) {
	var e LLMEvent
	err := row.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success,
		&e.ErrorMessage, &e.RequestBody, &e.ResponseBody)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan LLM event: %w", err)
	}
	return &e, nil
}
