package txscope

import (
	"context"
	"fmt"

	"github.com/goliatone/go-txcache/pkg/logger"
)

// HandlerFunc is the unit of work a Scope wraps.
type HandlerFunc func(ctx context.Context) error

// Scope applies the end-of-request commit policy to a fresh Handle per call. A
// Scope holds no per-request state and is safe for concurrent use.
type Scope struct {
	beginner Beginner
	observer Observer
}

// Option configures a Scope.
type Option func(*Scope)

// WithObserver reports lifecycle events to o.
func WithObserver(o Observer) Option {
	return func(s *Scope) {
		if o != nil {
			s.observer = o
		}
	}
}

// New returns a Scope that opens transactions through b.
func New(b Beginner, opts ...Option) *Scope {
	s := &Scope{beginner: b, observer: nopObserver{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes fn with a new Handle on its context and finalizes the handle once
// fn returns. The error fn returns is passed back unchanged; a panic is
// re-raised after the handle has been rolled back and released.
func (s *Scope) Run(ctx context.Context, fn HandlerFunc) (err error) {
	h := NewHandle(s.beginner)
	h.observer = s.observer
	ctx = WithHandle(ctx, h)

	defer func() {
		if r := recover(); r != nil {
			s.abort(ctx, h, fmt.Errorf("panic: %v", r))
			panic(r)
		}
	}()

	if err := fn(ctx); err != nil {
		s.abort(ctx, h, err)
		return err
	}

	// A request cancelled while its transaction is still open is treated as failed.
	if cerr := ctx.Err(); cerr != nil && h.Realized() && !h.CommittedByOwner() {
		s.abort(ctx, h, cerr)
		return cerr
	}

	return s.finish(ctx, h)
}

// Middleware adapts the scope to wrap next.
func (s *Scope) Middleware(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context) error {
		return s.Run(ctx, next)
	}
}

func (s *Scope) finish(ctx context.Context, h *Handle) error {
	log := logger.FromContext(ctx)

	if !h.Realized() {
		log.Debug("txscope: no transaction opened")
		s.observer.ScopeFinished(OutcomeNoTransaction)
		return nil
	}

	if h.CommittedByOwner() {
		log.Debug("txscope: handler already committed")
		if err := h.release(); err != nil {
			log.Warn("txscope: release failed", "error", err)
		}
		s.observer.ScopeFinished(OutcomeOwnerCommitted)
		return nil
	}

	if h.HasPendingWork() {
		commitErr, rollbackErr := h.commit()
		if commitErr != nil {
			if rollbackErr != nil {
				log.Error("txscope: rollback after failed commit failed", "error", rollbackErr)
			}
			log.Error("txscope: commit failed", "error", commitErr, "mutations", h.MutationCount())
			s.observer.ScopeFinished(OutcomeCommitFailed)
			return commitErr
		}
		log.Info("txscope: committed", "mutations", h.MutationCount())
		s.observer.ScopeFinished(OutcomeCommitted)
		return nil
	}

	if err := h.release(); err != nil {
		log.Warn("txscope: release failed", "error", err)
	}
	log.Debug("txscope: nothing to commit")
	s.observer.ScopeFinished(OutcomeReleased)
	return nil
}

func (s *Scope) abort(ctx context.Context, h *Handle, cause error) {
	log := logger.FromContext(ctx)

	if !h.Realized() {
		s.observer.ScopeFinished(OutcomeNoTransaction)
		return
	}

	if h.CommittedByOwner() {
		log.Warn("txscope: skipping rollback of owner-committed transaction",
			"error", &CommitAfterOwnerError{Cause: cause})
		if err := h.release(); err != nil {
			log.Warn("txscope: release failed", "error", err)
		}
		s.observer.ScopeFinished(OutcomeOwnerCommitted)
		return
	}

	if err := h.Rollback(ctx); err != nil {
		log.Error("txscope: rollback failed", "error", err, "cause", cause)
	} else {
		log.Info("txscope: rolled back", "cause", cause)
	}
	if err := h.release(); err != nil {
		log.Warn("txscope: release failed", "error", err)
	}
	s.observer.ScopeFinished(OutcomeRolledBack)
}
