package ledger

import "fmt"

// ValidationError reports an invalid or missing required field on a write.
// The operation is not attempted when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// MissingCategoryError reports an attempt to reconcile a transaction that has
// no category assigned. No state change occurs.
type MissingCategoryError struct {
	TransactionID string
}

func (e *MissingCategoryError) Error() string {
	return fmt.Sprintf("transaction %s has no category assigned", e.TransactionID)
}
