package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/hanzi/internal/card"
)

// cardSelect lists the columns read back into a card.Card, in Scan order.
var cardSelect = []string{
	"uid", "character", "pinyin", "zhuyin", "meaning",
	"level", "streak", "correct_count", "incorrect_count",
	"last_review", "next_review",
}

type cardRepo struct {
	db     *sql.DB
	userID int64
}

func (r *cardRepo) owned(p *entsql.Predicate) *entsql.Predicate {
	return entsql.And(entsql.EQ("user_id", r.userID), p)
}

func (r *cardRepo) Load(ctx context.Context) ([]card.Card, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(cardSelect...).
		From(entsql.Table(cardsTable.Name)).
		Where(entsql.EQ("user_id", r.userID)).
		OrderBy("id").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []card.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	return cards, nil
}

func (r *cardRepo) Get(ctx context.Context, id card.ID) (card.Card, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(cardSelect...).
		From(entsql.Table(cardsTable.Name)).
		Where(r.owned(entsql.EQ("uid", string(id)))).
		Limit(1).
		Query()

	c, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return card.Card{}, ErrNotFound
	}
	return c, err
}

func (r *cardRepo) Create(ctx context.Context, d card.Draft, now time.Time) (card.Card, error) {
	c := card.New(d, now)
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(cardsTable.Name).
		Columns("uid", "character", "pinyin", "zhuyin", "meaning",
			"level", "streak", "correct_count", "incorrect_count",
			"last_review", "next_review", "created_at", "user_id").
		Values(string(c.ID), c.Character, c.Pinyin, c.Zhuyin, c.Meaning,
			c.Level, c.Streak, c.CorrectCount, c.IncorrectCount,
			utcPtr(c.LastReview), c.NextReview.UTC(), now.UTC(), r.userID).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return card.Card{}, fmt.Errorf("insert card: %w", err)
	}
	return c, nil
}

func (r *cardRepo) Update(ctx context.Context, id card.ID, p card.Progress) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Update(cardsTable.Name).
		Set("level", p.Level).
		Set("streak", p.Streak).
		Set("correct_count", p.CorrectCount).
		Set("incorrect_count", p.IncorrectCount).
		Set("last_review", utcPtr(p.LastReview)).
		Set("next_review", p.NextReview.UTC()).
		Where(r.owned(entsql.EQ("uid", string(id)))).
		Query()

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update card %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update card %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("update card %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *cardRepo) Delete(ctx context.Context, id card.ID) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(cardsTable.Name).
		Where(r.owned(entsql.EQ("uid", string(id)))).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete card %s: %w", id, err)
	}
	return nil
}

func (r *cardRepo) Clear(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("clear cards: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{cardsTable.Name, reviewEventsTable.Name} {
		query, args := entsql.Dialect(dialect.SQLite).
			Delete(table).
			Where(entsql.EQ("user_id", r.userID)).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (card.Card, error) {
	var (
		c    card.Card
		uid  string
		last sql.NullTime
	)
	err := row.Scan(&uid, &c.Character, &c.Pinyin, &c.Zhuyin, &c.Meaning,
		&c.Level, &c.Streak, &c.CorrectCount, &c.IncorrectCount,
		&last, &c.NextReview)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return card.Card{}, err
		}
		return card.Card{}, fmt.Errorf("scan card: %w", err)
	}
	c.ID = card.ID(uid)
	if last.Valid {
		t := last.Time
		c.LastReview = &t
	}
	return c, nil
}

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
