package txscope

// Outcome is how a Scope finished a request.
type Outcome string

const (
	OutcomeNoTransaction  Outcome = "no_transaction"
	OutcomeCommitted      Outcome = "committed"
	OutcomeOwnerCommitted Outcome = "owner_committed"
	OutcomeReleased       Outcome = "released"
	OutcomeRolledBack     Outcome = "rolled_back"
	OutcomeCommitFailed   Outcome = "commit_failed"
)

// Observer receives transaction lifecycle events. Implementations must be safe
// for concurrent use; one observer is shared by every request.
type Observer interface {
	TransactionOpened()
	Committed(byOwner bool)
	RolledBack()
	ScopeFinished(outcome Outcome)
}

type nopObserver struct{}

func (nopObserver) TransactionOpened()    {}
func (nopObserver) Committed(bool)        {}
func (nopObserver) RolledBack()           {}
func (nopObserver) ScopeFinished(Outcome) {}
