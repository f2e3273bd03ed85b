package langrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-txcache/cache"
	"github.com/goliatone/go-txcache/pkg/logger"
	"github.com/goliatone/go-txcache/store"
	"github.com/goliatone/go-txcache/txscope"
	"github.com/uptrace/bun"
)

// ErrNoHandle is returned when the context carries no transaction handle.
var ErrNoHandle = errors.New("langrepo: no transaction handle on context")

// Repository reads and writes the language preference with cache-aside
// semantics. It is stateless per request and safe for concurrent use.
type Repository struct {
	cache    cache.CacheService
	keys     cache.KeySerializer
	ttl      time.Duration
	observer Observer
}

// Option configures a Repository.
type Option func(*Repository)

// WithTTL overrides the cache entry lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(r *Repository) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithKeySerializer overrides the cache key format.
func WithKeySerializer(keys cache.KeySerializer) Option {
	return func(r *Repository) {
		if keys != nil {
			r.keys = keys
		}
	}
}

// WithObserver reports cache events to o.
func WithObserver(o Observer) Option {
	return func(r *Repository) {
		if o != nil {
			r.observer = o
		}
	}
}

// New creates a Repository on top of the shared cache service.
func New(cacheService cache.CacheService, opts ...Option) *Repository {
	r := &Repository{
		cache:    cacheService,
		keys:     cache.NewLanguageKeySerializer(),
		ttl:      cache.DefaultTTL,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read returns the account's chosen language. ok is false when the account is
// unknown or has not chosen a language yet.
func (r *Repository) Read(ctx context.Context, accountID int64) (lang string, ok bool, err error) {
	log := logger.FromContext(ctx).With("account_id", accountID)
	key := r.keys.SerializeKey(accountID)

	if lang, hit := r.lookup(ctx, key); hit {
		log.Debug("langrepo: cache hit", "lang", lang)
		return lang, true, nil
	}

	h := txscope.FromContext(ctx)
	if h == nil {
		return "", false, ErrNoHandle
	}

	var row *store.UserPreference
	err = h.Query(ctx, func(ctx context.Context, db bun.IDB) error {
		var qerr error
		row, qerr = store.FindByAccount(ctx, db, accountID)
		return qerr
	})
	if errors.Is(err, store.ErrNotFound) {
		log.Debug("langrepo: no row")
		return "", false, nil
	}
	if err != nil {
		return "", false, txscope.NewStoreError("read language", txscope.KindRead, err)
	}
	if !row.HasLanguage() {
		log.Debug("langrepo: language not chosen yet")
		return "", false, nil
	}

	lang = *row.Language
	r.fill(ctx, key, lang)
	return lang, true, nil
}

// WriteInput describes a write of the preference row.
type WriteInput struct {
	AccountID int64
	Profile   store.Profile
	// Language is only written when non-nil.
	Language *string
	// AddedBy tags where the row came from; it is recorded on insert only.
	AddedBy *string
}

type writeOptions struct {
	commitNow bool
}

// WriteOption configures a single Write.
type WriteOption func(*writeOptions)

// WithCommitNow commits the transaction right after the store write, making the
// caller the commit owner. Use it when durability must be guaranteed before a
// side effect outside the transaction.
func WithCommitNow() WriteOption {
	return func(o *writeOptions) {
		o.commitNow = true
	}
}

// Write upserts the preference row and returns its id. When a language is
// supplied it is cached after the store write succeeded.
func (r *Repository) Write(ctx context.Context, in WriteInput, opts ...WriteOption) (int64, error) {
	var o writeOptions
	for _, opt := range opts {
		opt(&o)
	}

	if in.Language != nil {
		if err := ValidateLanguage(*in.Language); err != nil {
			return 0, fmt.Errorf("langrepo: invalid language %q: %w", *in.Language, err)
		}
	}

	h := txscope.FromContext(ctx)
	if h == nil {
		return 0, ErrNoHandle
	}
	log := logger.FromContext(ctx).With("account_id", in.AccountID)

	var id int64
	err := h.Exec(ctx, func(ctx context.Context, db bun.IDB) error {
		var werr error
		id, werr = store.Upsert(ctx, db, store.UpsertInput{
			AccountID: in.AccountID,
			Profile:   in.Profile,
			Language:  in.Language,
			AddedBy:   in.AddedBy,
		})
		return werr
	})
	if err != nil {
		return 0, txscope.NewStoreError("write language", txscope.KindWrite, err)
	}

	if o.commitNow {
		if err := h.CommitNow(ctx); err != nil {
			return 0, err
		}
		log.Info("langrepo: committed by handler", "id", id)
	}

	if in.Language != nil {
		r.fill(ctx, r.keys.SerializeKey(in.AccountID), *in.Language)
	}
	return id, nil
}

// Touch makes sure the account has a row and refreshes its profile columns. A
// previously chosen language is left untouched.
func (r *Repository) Touch(ctx context.Context, accountID int64, profile store.Profile, addedBy *string, opts ...WriteOption) (int64, error) {
	return r.Write(ctx, WriteInput{
		AccountID: accountID,
		Profile:   profile,
		AddedBy:   addedBy,
	}, opts...)
}

// lookup reads the cache. Errors count as a miss.
func (r *Repository) lookup(ctx context.Context, key string) (string, bool) {
	val, err := r.cache.Get(ctx, key)
	switch {
	case err == nil && val != "":
		r.observer.CacheLookup(CacheHit)
		return val, true
	case err == nil, errors.Is(err, cache.ErrCacheMiss):
		r.observer.CacheLookup(CacheMiss)
	default:
		r.observer.CacheLookup(CacheError)
		logger.FromContext(ctx).Warn("langrepo: cache read failed", "key", key, "error", err)
	}
	return "", false
}

// fill writes the cache entry, logging and ignoring failures.
func (r *Repository) fill(ctx context.Context, key, lang string) {
	if err := r.cache.Set(ctx, key, lang, r.ttl); err != nil {
		r.observer.CacheWriteFailed()
		logger.FromContext(ctx).Warn("langrepo: cache write failed", "key", key, "error", err)
	}
}
