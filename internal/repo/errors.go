package repo

import "fmt"

// StorageError is returned when a statement against the store fails for any
// reason (connectivity, constraint, timeout). Err is the driver error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
