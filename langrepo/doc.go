// Package langrepo implements the cache-aside repository for a user's language
// preference.
//
// # Read path
//
// Read consults the cache first. A hit is returned without touching the
// transaction handle, so requests served from cache never open a database
// transaction. On a miss the handle is realized and the row is loaded; a chosen
// language is written back to the cache with the fixed TTL. A row whose language
// is still unset is reported as absent and is not cached.
//
// # Write path
//
// Write upserts the row inside the request's transaction. Profile columns that
// are supplied are refreshed, the language is only overwritten when given.
// WithCommitNow makes the handler the commit owner: the transaction is committed
// before the cache is touched. Either way the cache is filled after the store
// write succeeded, and a cache failure never fails the write.
//
// # Errors
//
// Store failures come back as *txscope.StoreError. Cache failures are logged at
// warn level and absorbed.
package langrepo
