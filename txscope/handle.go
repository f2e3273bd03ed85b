package txscope

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/uptrace/bun"
)

// Tx is the part of a store transaction the handle relies on. bun.Tx satisfies it.
type Tx interface {
	bun.IDB
	Commit() error
	Rollback() error
}

// Beginner opens store transactions.
type Beginner interface {
	Begin(ctx context.Context) (Tx, error)
}

// BeginnerFunc adapts a function to Beginner.
type BeginnerFunc func(ctx context.Context) (Tx, error)

func (f BeginnerFunc) Begin(ctx context.Context) (Tx, error) {
	return f(ctx)
}

type handleState int

const (
	stateUnrealized handleState = iota
	stateOpen
	stateFinished
)

// Handle is a lazy wrapper around one store transaction. The zero value is not
// usable; create handles with NewHandle or let a Scope do it.
type Handle struct {
	beginner Beginner
	observer Observer

	mu        sync.Mutex
	state     handleState
	tx        Tx
	meta      *Metadata
	mutations int
	// raw is set once the transaction escaped through Ensure, after which
	// pending work can no longer be tracked.
	raw              bool
	committedByOwner bool
}

// NewHandle returns an unrealized handle that opens its transaction through b.
func NewHandle(b Beginner) *Handle {
	return &Handle{
		beginner: b,
		observer: nopObserver{},
		meta:     NewMetadata(),
	}
}

// Realized reports whether the underlying transaction has been opened.
func (h *Handle) Realized() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tx != nil
}

// Metadata returns the handle's metadata bag. The same bag is returned before
// and after realization.
func (h *Handle) Metadata() *Metadata {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.meta
}

// Ensure realizes the transaction and returns it. Statements run directly on the
// returned Tx are not tracked, so the handle reports pending work from then on.
func (h *Handle) Ensure(ctx context.Context) (Tx, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	tx, err := h.ensureLocked(ctx)
	if err != nil {
		return nil, err
	}
	h.raw = true
	return tx, nil
}

func (h *Handle) ensureLocked(ctx context.Context) (Tx, error) {
	switch h.state {
	case stateOpen:
		return h.tx, nil
	case stateFinished:
		return nil, ErrHandleFinished
	}

	tx, err := h.beginner.Begin(ctx)
	if err != nil {
		return nil, NewStoreError("begin", KindConnection, err)
	}

	h.tx = tx
	h.state = stateOpen
	h.observer.TransactionOpened()
	return tx, nil
}

// Query runs a read-only fn inside the transaction, realizing it when needed.
func (h *Handle) Query(ctx context.Context, fn func(ctx context.Context, db bun.IDB) error) error {
	tx, err := h.acquire(ctx, false)
	if err != nil {
		return err
	}
	return fn(ctx, tx)
}

// Exec runs a mutating fn inside the transaction, realizing it when needed. The
// mutation is counted before fn runs so a failed statement still leaves the
// handle dirty.
func (h *Handle) Exec(ctx context.Context, fn func(ctx context.Context, db bun.IDB) error) error {
	tx, err := h.acquire(ctx, true)
	if err != nil {
		return err
	}
	return fn(ctx, tx)
}

func (h *Handle) acquire(ctx context.Context, mutating bool) (Tx, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	tx, err := h.ensureLocked(ctx)
	if err != nil {
		return nil, err
	}
	if mutating {
		h.mutations++
	}
	return tx, nil
}

// MutationCount returns the number of Exec calls issued on the transaction.
func (h *Handle) MutationCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mutations
}

// HasPendingWork reports whether an open transaction may hold uncommitted
// changes. It is conservative: once the raw transaction has been handed out
// through Ensure it always reports true.
func (h *Handle) HasPendingWork() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != stateOpen {
		return false
	}
	return h.mutations > 0 || h.raw
}

// CommittedByOwner reports whether the handler took over the commit.
func (h *Handle) CommittedByOwner() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.committedByOwner
}

// CommitNow commits immediately and tags the handle as committed by its owner,
// so the enclosing scope will not commit again. On an unrealized handle there is
// nothing to commit; the handle is closed so later statements fail with
// ErrHandleFinished instead of opening a transaction nobody commits. A failed
// commit is rolled back and leaves the handle untagged.
func (h *Handle) CommitNow(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch h.state {
	case stateUnrealized:
		h.state = stateFinished
		h.committedByOwner = true
		return nil
	case stateFinished:
		return ErrHandleFinished
	}

	h.state = stateFinished
	if err := h.tx.Commit(); err != nil {
		commitErr := NewStoreError("commit", KindCommit, err)
		if rbErr := h.tx.Rollback(); rbErr != nil {
			if !errors.Is(rbErr, sql.ErrTxDone) {
				return errors.Join(commitErr, rbErr)
			}
		} else {
			h.observer.RolledBack()
		}
		return commitErr
	}
	h.committedByOwner = true
	h.observer.Committed(true)
	return nil
}

// Rollback aborts the open transaction. It is a no-op when the handle was never
// realized or has already finished.
func (h *Handle) Rollback(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rollbackLocked()
}

func (h *Handle) rollbackLocked() error {
	if h.state != stateOpen {
		return nil
	}
	h.state = stateFinished
	if err := h.tx.Rollback(); err != nil {
		return err
	}
	h.observer.RolledBack()
	return nil
}

// commit is the scope's end-of-request commit. When the commit fails the
// transaction is rolled back; a rollback on a transaction the driver already
// closed is not reported.
func (h *Handle) commit() (commitErr, rollbackErr error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != stateOpen {
		return nil, nil
	}
	h.state = stateFinished
	if err := h.tx.Commit(); err != nil {
		commitErr = NewStoreError("commit", KindCommit, err)
		if rbErr := h.tx.Rollback(); rbErr != nil {
			if !errors.Is(rbErr, sql.ErrTxDone) {
				rollbackErr = rbErr
			}
		} else {
			h.observer.RolledBack()
		}
		return commitErr, rollbackErr
	}
	h.observer.Committed(false)
	return nil, nil
}

// release ends an open transaction without committing it. Rolling back a
// transaction that only read is how the connection goes back to the pool.
func (h *Handle) release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != stateOpen {
		h.state = stateFinished
		return nil
	}
	h.state = stateFinished
	return h.tx.Rollback()
}
