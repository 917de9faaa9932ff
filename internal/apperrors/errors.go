package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// Ledger posting error kinds. All are rejected before any state change.
var (
	ErrUnbalancedEntry      = errors.New("entry debits do not equal credits")
	ErrUnknownAccount       = errors.New("unknown account")
	ErrInactiveAccount      = errors.New("inactive account")
	ErrZeroOrNegativeAmount = errors.New("posting amount must be positive")
	ErrEmptyEntry           = errors.New("entry must contain at least one debit and one credit posting")
	ErrAlreadyReversed      = errors.New("entry has already been reversed")
)

// ErrDuplicateTransaction indicates a raw transaction whose fingerprint has
// already been processed. Non-fatal to a batch import.
var ErrDuplicateTransaction = errors.New("duplicate transaction fingerprint")

// ErrReconciliation indicates a statement's structural identity failed.
// This is a data-integrity alarm: reporting halts rather than display
// numbers that contradict the ledger.
var ErrReconciliation = errors.New("statement failed reconciliation cross-check")
