package store

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-txcache/txscope"
	"github.com/uptrace/bun"
)

// Beginner opens bun transactions for txscope handles.
type Beginner struct {
	db   *bun.DB
	opts *sql.TxOptions
}

var _ txscope.Beginner = (*Beginner)(nil)

// NewBeginner returns a Beginner over db. opts may be nil.
func NewBeginner(db *bun.DB, opts *sql.TxOptions) *Beginner {
	return &Beginner{db: db, opts: opts}
}

// Begin starts a transaction.
func (b *Beginner) Begin(ctx context.Context) (txscope.Tx, error) {
	tx, err := b.db.BeginTx(ctx, b.opts)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
