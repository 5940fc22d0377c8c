package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidK is returned when a search is requested with non-positive k.
var ErrInvalidK = errors.New("k must be positive")

// DimensionMismatchError indicates a vector of unexpected length was
// presented to the index. The insertion batch is rejected as a whole; the
// index state is left untouched.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// EmbeddingError indicates an upstream embedding call failed (network,
// auth, rate limit, malformed model output). The enclosing batch is
// aborted; the caller may retry the whole batch.
//
// The underlying error can be accessed via errors.Unwrap.
type EmbeddingError struct {
	Provider  string
	BatchSize int
	Err       error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding provider %s: batch of %d: %v", e.Provider, e.BatchSize, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// PersistenceError indicates a save/load I/O failure or an integrity-check
// failure (count mismatch across persisted artifacts, truncated or corrupt
// file). Load fails closed: in-memory state is left as it was.
//
// The underlying error can be accessed via errors.Unwrap.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// OutOfRangeError indicates a document store lookup for a position that
// does not exist. It signals misaligned containers, a defect rather than a
// user-facing condition.
type OutOfRangeError struct {
	Position int
	Size     int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("position %d out of range (size %d)", e.Position, e.Size)
}
