package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
// Lookups are always tenant-scoped, so a resource belonging to another
// company is reported as not found rather than forbidden.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates that an operation is not permitted in the
// transaction's current status (illegal transition, edit or delete of a
// non-modifiable document).
var ErrInvalidState = errors.New("operation not permitted in current state")

// ErrInsufficientStock indicates that an outbound stock movement would
// drive a product's stock level negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrIntegrity indicates a ledger debit/credit mismatch or a balance-sheet
// imbalance. It is never expected in correct operation and is surfaced
// rather than silently corrected.
var ErrIntegrity = errors.New("data integrity violation")

// ErrConflict indicates a concurrent-modification race detected by the store.
var ErrConflict = errors.New("conflicting concurrent modification")

// ErrForbidden indicates the caller lacks permission for the operation.
var ErrForbidden = errors.New("operation forbidden")

// ErrUnauthorized indicates missing or invalid authentication.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")
