package assettypes

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage marks filesystem failures: directory or file creation,
	// copy, and delete.
	ErrStorage = errors.New("storage error")
	// ErrNotFound is returned when an id is absent from the catalog.
	ErrNotFound = errors.New("not found")
	// ErrDecode is returned when no strategy could decode a thumbnail source.
	ErrDecode = errors.New("decode error")
	// ErrCanceled is returned by pickers when the user dismissed the dialog.
	// It is a normal outcome, not a failure.
	ErrCanceled = errors.New("canceled by user")
)

// StorageError records a failed filesystem operation on a path.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorage) true for every StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// NewStorageError wraps err, or returns nil when err is nil.
func NewStorageError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Path: path, Err: err}
}
