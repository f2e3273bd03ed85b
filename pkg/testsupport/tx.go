package testsupport

import (
	"context"
	"sync/atomic"

	"github.com/goliatone/go-txcache/txscope"
)

// CountingBeginner wraps a Beginner and records how often transactions are
// begun, committed and rolled back. Setting CommitErr makes every commit fail
// without reaching the store.
type CountingBeginner struct {
	Next      txscope.Beginner
	CommitErr error
	BeginErr  error

	begins    atomic.Int32
	commits   atomic.Int32
	rollbacks atomic.Int32
}

var _ txscope.Beginner = (*CountingBeginner)(nil)

// NewCountingBeginner wraps next.
func NewCountingBeginner(next txscope.Beginner) *CountingBeginner {
	return &CountingBeginner{Next: next}
}

func (b *CountingBeginner) Begin(ctx context.Context) (txscope.Tx, error) {
	b.begins.Add(1)
	if b.BeginErr != nil {
		return nil, b.BeginErr
	}
	tx, err := b.Next.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &countingTx{Tx: tx, parent: b}, nil
}

// Begins returns the number of Begin calls.
func (b *CountingBeginner) Begins() int { return int(b.begins.Load()) }

// Commits returns the number of Commit calls, failed ones included.
func (b *CountingBeginner) Commits() int { return int(b.commits.Load()) }

// Rollbacks returns the number of Rollback calls.
func (b *CountingBeginner) Rollbacks() int { return int(b.rollbacks.Load()) }

type countingTx struct {
	txscope.Tx
	parent *CountingBeginner
}

func (t *countingTx) Commit() error {
	t.parent.commits.Add(1)
	if t.parent.CommitErr != nil {
		return t.parent.CommitErr
	}
	return t.Tx.Commit()
}

func (t *countingTx) Rollback() error {
	t.parent.rollbacks.Add(1)
	return t.Tx.Rollback()
}
