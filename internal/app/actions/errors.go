// internal/app/actions/errors.go
package actions

import "fmt"

// Kind identifies which action failed and why.
type Kind int

const (
	KindConnection Kind = iota + 1
	KindInvalidInput
	KindWrite
	KindRead
	KindSearch
	KindAggregation
	KindActivity
)

var kindInfo = map[Kind]struct {
	label  string
	prefix string
}{
	KindConnection:   {"connection", "Failed to connect to database"},
	KindInvalidInput: {"invalid_input", "Invalid input"},
	KindWrite:        {"write", "Failed to create/update user"},
	KindRead:         {"read", "Failed to fetch user"},
	KindSearch:       {"search", "Failed to fetch users"},
	KindAggregation:  {"aggregation", "Error in fetching user posts"},
	KindActivity:     {"activity", "Error in fetching activity"},
}

// String returns a short label suitable for metrics.
func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.label
	}
	return "unknown"
}

// Error is returned by every action. Compare with errors.Is against the
// Err* sentinels, or unwrap to reach the store error.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	prefix := kindInfo[e.Kind].prefix
	if e.Err == nil {
		return prefix
	}
	return fmt.Sprintf("%s: %s", prefix, e.Err.Error())
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrConnectionFailure  = &Error{Kind: KindConnection}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
	ErrWriteFailure       = &Error{Kind: KindWrite}
	ErrReadFailure        = &Error{Kind: KindRead}
	ErrSearchFailure      = &Error{Kind: KindSearch}
	ErrAggregationFailure = &Error{Kind: KindAggregation}
	ErrActivityFailure    = &Error{Kind: KindActivity}
)
