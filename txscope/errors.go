package txscope

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreConnection is returned when the transaction cannot be opened.
	ErrStoreConnection = errors.New("store connection failed")

	// ErrStoreRead is returned when a read statement fails.
	ErrStoreRead = errors.New("store read failed")

	// ErrStoreWrite is returned when a write statement fails.
	ErrStoreWrite = errors.New("store write failed")

	// ErrStoreCommit is returned when committing the transaction fails.
	ErrStoreCommit = errors.New("store commit failed")

	// ErrHandleFinished is returned when a handle is used after its transaction ended.
	ErrHandleFinished = errors.New("transaction already finished")
)

// Kind classifies a StoreError.
type Kind int

const (
	KindConnection Kind = iota + 1
	KindRead
	KindWrite
	KindCommit
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	case KindCommit:
		return "commit"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindConnection:
		return ErrStoreConnection
	case KindRead:
		return ErrStoreRead
	case KindWrite:
		return ErrStoreWrite
	case KindCommit:
		return ErrStoreCommit
	default:
		return nil
	}
}

// StoreError wraps a failure of the transactional store.
type StoreError struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *StoreError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("store %s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("store %s error in %s: %v", e.Kind, e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error kind.
func (e *StoreError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// NewStoreError wraps err as a StoreError of the given kind. A nil err yields nil,
// and an err that already is a StoreError is returned as is.
func NewStoreError(op string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Kind: kind, Err: err}
}

// CommitAfterOwnerError describes a handler that committed explicitly and then
// failed anyway. The scope logs it; the handler's own error is what gets returned.
type CommitAfterOwnerError struct {
	Cause error
}

func (e *CommitAfterOwnerError) Error() string {
	return fmt.Sprintf("handler failed after committing its transaction: %v", e.Cause)
}

func (e *CommitAfterOwnerError) Unwrap() error {
	return e.Cause
}
