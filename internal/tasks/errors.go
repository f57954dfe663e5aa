package tasks

import (
	"errors"
	"fmt"
)

// Error kinds carried by StorageError. Match them with errors.Is.
var (
    ErrConnection = errors.New("connection")
    ErrQuery      = errors.New("query")
    ErrConflict   = errors.New("conflict")
)

// StorageError reports a failed persistence operation.
type StorageError struct {
    Kind error
    Op   string
    Err  error
}

func (e *StorageError) Error() string {
    return fmt.Sprintf("storage %v error: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{e.Kind, e.Err} }

func connErr(op string, err error) error  { return &StorageError{Kind: ErrConnection, Op: op, Err: err} }
func queryErr(op string, err error) error { return &StorageError{Kind: ErrQuery, Op: op, Err: err} }
