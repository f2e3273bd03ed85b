// Package store is the relational side of the language preference: the users
// table model, connection setup for postgres and sqlite, schema bootstrap and the
// two statements the cache-aside repository needs.
//
// Every query function takes a bun.IDB so it runs inside whatever transaction the
// caller holds, normally the one owned by a txscope.Handle.
//
// Upsert applies a merge policy on conflict: only the columns the caller supplied
// are overwritten. A profile-only write therefore never clears a previously chosen
// language.
package store
