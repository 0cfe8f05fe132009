package join

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHost is returned when a join has no Host.
	ErrNoHost = errors.New("join: host is nil")

	// ErrNoFactory is returned when items enter and the join has no Factory.
	ErrNoFactory = errors.New("join: factory is nil")
)

// InvalidKeyError reports two items producing the same key in strict mode.
type InvalidKeyError struct {
	Key    string
	First  int
	Second int
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("join: duplicate key %q at indices %d and %d", e.Key, e.First, e.Second)
}

// FactoryError wraps an error returned by the Factory. Nodes created earlier
// in the same join stay attached.
type FactoryError struct {
	Key   string
	Index int
	Err   error
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("join: factory failed for key %q (index %d): %v", e.Key, e.Index, e.Err)
}

func (e *FactoryError) Unwrap() error {
	return e.Err
}
