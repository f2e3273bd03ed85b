package pipeline

import (
	"context"
	"errors"
	"strings"
)

// ErrNoRoute is returned when no handler matches an update and no fallback is set.
var ErrNoRoute = errors.New("pipeline: no handler for update")

// Handler processes one update.
type Handler interface {
	Handle(ctx context.Context, u *Update, out Sender) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, u *Update, out Sender) error

func (f HandlerFunc) Handle(ctx context.Context, u *Update, out Sender) error {
	return f(ctx, u, out)
}

type callbackRoute struct {
	prefix  string
	handler Handler
}

// Router dispatches messages by command and callbacks by data prefix. Routes
// are registered at startup; the Router is read-only afterwards.
type Router struct {
	commands  map[string]Handler
	callbacks []callbackRoute
	fallback  Handler
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{commands: make(map[string]Handler)}
}

// Command routes "/name" messages to h.
func (r *Router) Command(name string, h Handler) {
	r.commands[strings.ToLower(strings.TrimPrefix(name, "/"))] = h
}

// Callback routes callbacks whose data starts with prefix to h. The first
// matching prefix wins.
func (r *Router) Callback(prefix string, h Handler) {
	r.callbacks = append(r.callbacks, callbackRoute{prefix: prefix, handler: h})
}

// Fallback handles updates no other route matched.
func (r *Router) Fallback(h Handler) {
	r.fallback = h
}

func (r *Router) Handle(ctx context.Context, u *Update, out Sender) error {
	if h := r.match(u); h != nil {
		return h.Handle(ctx, u, out)
	}
	return ErrNoRoute
}

func (r *Router) match(u *Update) Handler {
	if name, ok := u.Command(); ok {
		if h, found := r.commands[name]; found {
			return h
		}
	}
	if u.Callback != nil {
		for _, route := range r.callbacks {
			if strings.HasPrefix(u.Callback.Data, route.prefix) {
				return route.handler
			}
		}
	}
	return r.fallback
}
