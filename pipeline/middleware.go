package pipeline

import (
	"context"
	"time"

	"github.com/goliatone/go-txcache/pkg/logger"
	"github.com/goliatone/go-txcache/txscope"
	"github.com/google/uuid"
)

// Middleware decorates a Handler.
type Middleware func(Handler) Handler

// Chain wraps h so that mws[0] is the outermost middleware.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestID assigns a fresh id to every update and attaches a logger carrying it
// and the update coordinates.
func RequestID() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, u *Update, out Sender) error {
			id := uuid.NewString()
			ctx = context.WithValue(ctx, requestIDKey{}, id)

			fields := []any{"request_id", id, "update_id", u.UpdateID, "kind", u.Kind()}
			if from, ok := u.From(); ok {
				fields = append(fields, "account_id", from.ID)
			}
			ctx = logger.ContextWithLogger(ctx, logger.FromContext(ctx).With(fields...))
			return next.Handle(ctx, u, out)
		})
	}
}

// Transaction runs every update inside s. The request id, when present, is
// recorded in the handle's metadata.
func Transaction(s *txscope.Scope) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, u *Update, out Sender) error {
			return s.Run(ctx, func(ctx context.Context) error {
				if id := RequestIDFromContext(ctx); id != "" {
					txscope.FromContext(ctx).Metadata().Set(txscope.MetaRequestID, id)
				}
				return next.Handle(ctx, u, out)
			})
		})
	}
}

// UpdateObserver receives one event per handled update.
type UpdateObserver interface {
	UpdateHandled(kind string, err error, elapsed time.Duration)
}

// Instrument logs the outcome of every update and reports it to obs, which may
// be nil.
func Instrument(obs UpdateObserver) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, u *Update, out Sender) error {
			start := time.Now()
			err := next.Handle(ctx, u, out)
			elapsed := time.Since(start)

			log := logger.FromContext(ctx)
			if err != nil {
				log.Error("Update failed", "error", err, "elapsed", elapsed)
			} else {
				log.Debug("Update handled", "elapsed", elapsed)
			}
			if obs != nil {
				obs.UpdateHandled(u.Kind(), err, elapsed)
			}
			return err
		})
	}
}
