// Package repositories is the data-access layer. Every operation takes a
// context and runs one statement (or one small fixed set of statements)
// against the handle it was built from, which may be a transaction.
package repositories

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"sync/atomic"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("duplicate record")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConsumed          = errors.New("result set already consumed")
	// ErrStale means a conditional update matched no row because the
	// record changed between read and write.
	ErrStale = errors.New("record changed concurrently")
)

// Store hands out repositories bound to one database handle.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for health checks and migrations.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Users() *UserRepository       { return &UserRepository{db: s.db} }
func (s *Store) Products() *ProductRepository { return &ProductRepository{db: s.db} }
func (s *Store) Orders() *OrderRepository     { return &OrderRepository{db: s.db} }

// Tx runs fn against a Store bound to a single transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (s *Store) Tx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Page bounds a list query.
type Page struct {
	Limit  int
	Offset int
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Normalize clamps the window to [1, MaxLimit] rows from a non-negative
// offset.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	p = p.Normalize()
	return q.Limit(p.Limit).Offset(p.Offset)
}

// scan streams q row by row. The sequence may be ranged over once; later
// attempts yield ErrConsumed. Breaking out early closes the cursor.
func scan[T any](q *gorm.DB) iter.Seq2[T, error] {
	var used atomic.Bool
	return func(yield func(T, error) bool) {
		var zero T
		if used.Swap(true) {
			yield(zero, ErrConsumed)
			return
		}

		rows, err := q.Rows()
		if err != nil {
			yield(zero, translate(err))
			return
		}
		defer rows.Close()

		scanner := q.Session(&gorm.Session{NewDB: true})
		for rows.Next() {
			var v T
			if err := scanner.ScanRows(rows, &v); err != nil {
				yield(zero, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(zero, err)
		}
	}
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

// Not every dialector translates constraint errors, so fall back to the
// driver message.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

func affected(res *gorm.DB, none error) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return none
	}
	return nil
}
