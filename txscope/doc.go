// Package txscope provides a request-scoped lazy transaction and the scope that
// finalizes it.
//
// # Overview
//
// A Handle wraps at most one store transaction. The transaction is opened the first
// time a caller actually touches the store through Query, Exec or Ensure; a request
// whose reads are all served from cache never opens one.
//
// A Scope wraps one request handler. It creates a fresh Handle, places it on the
// context, runs the handler and then applies the finalization policy:
//
//   - handle never realized: nothing to do
//   - handler committed explicitly (CommitNow): release only, no second commit
//   - pending writes: commit, and on commit failure roll back and return the error
//   - pure read: release without committing
//   - handler failed: roll back unless the handler already committed, then return
//     the original error unchanged
//
// # Commit ownership
//
// A handler that must guarantee durability before an outside side effect (a cache
// write, a network confirmation) calls Handle.CommitNow. The handle records that the
// handler owns the commit, and the scope will not commit or roll back afterwards.
//
//	err := scope.Run(ctx, func(ctx context.Context) error {
//		h := txscope.FromContext(ctx)
//		if err := h.Exec(ctx, write); err != nil {
//			return err
//		}
//		if err := h.CommitNow(ctx); err != nil {
//			return err
//		}
//		return notify(ctx)
//	})
//
// # Metadata
//
// Handle.Metadata is a live bag for cross-layer signaling. It exists before the
// transaction does, and the same bag stays attached once the transaction is opened,
// so values written early are visible afterwards.
package txscope
