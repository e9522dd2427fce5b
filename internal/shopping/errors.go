package shopping

import "fmt"

// ValidationError reports logically invalid input to the builder. It is
// always raised before any store access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IncompletePersistenceError reports that a list header was created but the
// item insert failed, so the persisted list may be incomplete. The caller can
// use ListID to delete the orphaned header or retry the insert.
type IncompletePersistenceError struct {
	ListID int64
	Err    error
}

func (e *IncompletePersistenceError) Error() string {
	return fmt.Sprintf("shopping list %d persisted without its items: %v", e.ListID, e.Err)
}

func (e *IncompletePersistenceError) Unwrap() error {
	return e.Err
}
