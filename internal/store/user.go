package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

type userRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *userRepo) Create(ctx context.Context, name, passwordHash string) (*User, error) {
	if _, err := r.ByName(ctx, name); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	u := &User{Name: name, PasswordHash: passwordHash, CreatedAt: r.now().UTC()}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(usersTable.Name).
		Columns("name", "password_hash", "created_at").
		Values(u.Name, u.PasswordHash, u.CreatedAt).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	if u.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (r *userRepo) ByName(ctx context.Context, name string) (*User, error) {
	return r.one(ctx, entsql.EQ("name", name))
}

func (r *userRepo) ByID(ctx context.Context, id int64) (*User, error) {
	return r.one(ctx, entsql.EQ("id", id))
}

func (r *userRepo) Ensure(ctx context.Context, name string) (*User, error) {
	u, err := r.ByName(ctx, name)
	if errors.Is(err, ErrNotFound) {
		u, err = r.Create(ctx, name, "")
	}
	if err != nil {
		return nil, fmt.Errorf("ensure user %q: %w", name, err)
	}
	return u, nil
}

func (r *userRepo) one(ctx context.Context, p *entsql.Predicate) (*User, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(columnNames(usersColumns)...).
		From(entsql.Table(usersTable.Name)).
		Where(p).
		Limit(1).
		Query()

	var u User
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
