package txscope

import "context"

type handleContextKey struct{}

// WithHandle attaches h to ctx.
func WithHandle(ctx context.Context, h *Handle) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, handleContextKey{}, h)
}

// FromContext returns the handle placed on ctx by a Scope, or nil.
func FromContext(ctx context.Context) *Handle {
	if ctx == nil {
		return nil
	}
	h, _ := ctx.Value(handleContextKey{}).(*Handle)
	return h
}
