package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-txcache/pipeline"
	"github.com/goliatone/go-txcache/pkg/testsupport"
	"github.com/goliatone/go-txcache/store"
	"github.com/goliatone/go-txcache/txscope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func message(text string) *pipeline.Update {
	return &pipeline.Update{
		UpdateID: 1,
		Message:  &pipeline.Message{MessageID: 10, From: pipeline.User{ID: 42, Username: "alice"}, Text: text},
	}
}

func callback(data string) *pipeline.Update {
	return &pipeline.Update{
		UpdateID: 2,
		Callback: &pipeline.CallbackQuery{ID: "cb", ChatID: 99, From: pipeline.User{ID: 42}, Data: data},
	}
}

func named(name string, got *string) pipeline.Handler {
	return pipeline.HandlerFunc(func(context.Context, *pipeline.Update, pipeline.Sender) error {
		*got = name
		return nil
	})
}

func TestUpdate_Command(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"/start", "start", true},
		{"/Lang@my_bot now", "lang", true},
		{"hello", "", false},
		{"/", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			got, ok := message(tc.text).Command()
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	_, ok := callback("lang:en").Command()
	assert.False(t, ok)
}

func TestUpdate_Accessors(t *testing.T) {
	m := message("hi")
	assert.Equal(t, "message", m.Kind())
	assert.Equal(t, int64(42), m.ChatID())

	c := callback("x")
	assert.Equal(t, "callback", c.Kind())
	assert.Equal(t, int64(99), c.ChatID())

	empty := &pipeline.Update{}
	assert.Equal(t, "unknown", empty.Kind())
	_, ok := empty.From()
	assert.False(t, ok)
}

func TestUser_Profile(t *testing.T) {
	p := pipeline.User{ID: 1, Username: "bob", FirstName: "Bob", LastName: "Stone", IsPremium: true}.Profile()
	require.NotNil(t, p.Username)
	assert.Equal(t, "bob", *p.Username)
	assert.Equal(t, "Bob Stone", *p.DisplayName)
	assert.True(t, *p.IsPremium)

	p = pipeline.User{ID: 2}.Profile()
	assert.Nil(t, p.Username)
	assert.Nil(t, p.DisplayName)
	assert.False(t, *p.IsPremium)
}

func TestRouter(t *testing.T) {
	var got string
	r := pipeline.NewRouter()
	r.Command("/start", named("start", &got))
	r.Callback("lang:", named("lang", &got))

	ctx := context.Background()
	out := &pipeline.Recorder{}

	require.NoError(t, r.Handle(ctx, message("/start"), out))
	assert.Equal(t, "start", got)

	require.NoError(t, r.Handle(ctx, callback("lang:uz"), out))
	assert.Equal(t, "lang", got)

	assert.ErrorIs(t, r.Handle(ctx, message("/unknown"), out), pipeline.ErrNoRoute)

	r.Fallback(named("fallback", &got))
	require.NoError(t, r.Handle(ctx, message("plain text"), out))
	assert.Equal(t, "fallback", got)
}

func TestChain_Order(t *testing.T) {
	var trail []string
	mw := func(name string) pipeline.Middleware {
		return func(next pipeline.Handler) pipeline.Handler {
			return pipeline.HandlerFunc(func(ctx context.Context, u *pipeline.Update, out pipeline.Sender) error {
				trail = append(trail, name)
				return next.Handle(ctx, u, out)
			})
		}
	}
	h := pipeline.Chain(pipeline.HandlerFunc(func(context.Context, *pipeline.Update, pipeline.Sender) error {
		trail = append(trail, "handler")
		return nil
	}), mw("outer"), mw("inner"))

	require.NoError(t, h.Handle(context.Background(), message("x"), &pipeline.Recorder{}))
	assert.Equal(t, []string{"outer", "inner", "handler"}, trail)
}

func TestTransaction_RecordsRequestID(t *testing.T) {
	db := testsupport.NewSQLiteDB(t)
	b := testsupport.NewCountingBeginner(store.NewBeginner(db, nil))

	var requestID, metaID string
	h := pipeline.Chain(pipeline.HandlerFunc(func(ctx context.Context, _ *pipeline.Update, _ pipeline.Sender) error {
		requestID = pipeline.RequestIDFromContext(ctx)
		handle := txscope.FromContext(ctx)
		require.NotNil(t, handle)
		metaID = handle.Metadata().GetString(txscope.MetaRequestID)
		return nil
	}), pipeline.RequestID(), pipeline.Transaction(txscope.New(b)))

	require.NoError(t, h.Handle(context.Background(), message("/start"), &pipeline.Recorder{}))
	assert.NotEmpty(t, requestID)
	assert.Equal(t, requestID, metaID)
	assert.Zero(t, b.Begins(), "recording metadata does not open a transaction")
}

type updateEvents struct {
	kinds []string
	errs  []error
}

func (e *updateEvents) UpdateHandled(kind string, err error, _ time.Duration) {
	e.kinds = append(e.kinds, kind)
	e.errs = append(e.errs, err)
}

func TestInstrument(t *testing.T) {
	events := &updateEvents{}
	boom := errors.New("boom")
	h := pipeline.Chain(pipeline.HandlerFunc(func(context.Context, *pipeline.Update, pipeline.Sender) error {
		return boom
	}), pipeline.Instrument(events))

	err := h.Handle(context.Background(), callback("x"), &pipeline.Recorder{})
	assert.Same(t, boom, err)
	assert.Equal(t, []string{"callback"}, events.kinds)
	assert.Equal(t, []error{boom}, events.errs)

	require.NotPanics(t, func() {
		_ = pipeline.Chain(pipeline.HandlerFunc(func(context.Context, *pipeline.Update, pipeline.Sender) error {
			return nil
		}), pipeline.Instrument(nil)).Handle(context.Background(), message("x"), &pipeline.Recorder{})
	})
}

func TestRecorder(t *testing.T) {
	rec := &pipeline.Recorder{}
	require.NoError(t, rec.Send(context.Background(), pipeline.Reply{ChatID: 1, Text: "a"}))
	require.NoError(t, rec.Send(context.Background(), pipeline.Reply{ChatID: 1, Text: "b"}))

	replies := rec.Replies()
	require.Len(t, replies, 2)
	assert.Equal(t, "b", replies[1].Text)
}
