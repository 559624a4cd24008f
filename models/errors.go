package models

import (
	"errors"
	"fmt"
)

// ErrAdvisoryUnavailable is matched by every AdvisoryError.
var ErrAdvisoryUnavailable = errors.New("advisory commentary unavailable")

// PersistenceError reports a failed upsert of a single product.
type PersistenceError struct {
	ProductID string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist product %s: %v", e.ProductID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// AdvisoryError reports why the advisory collaborator produced no commentary.
type AdvisoryError struct {
	Err error
}

func (e *AdvisoryError) Error() string {
	if e.Err == nil {
		return ErrAdvisoryUnavailable.Error()
	}
	return fmt.Sprintf("%s: %v", ErrAdvisoryUnavailable, e.Err)
}

func (e *AdvisoryError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrAdvisoryUnavailable}
	}
	return []error{ErrAdvisoryUnavailable, e.Err}
}
