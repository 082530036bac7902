package models

import "errors"

// Error taxonomy shared across services and handlers. Services wrap these
// with fmt.Errorf and %w; handlers map them to HTTP status codes with
// errors.Is.
var (
	// ErrNotFound means the referenced point, request or user does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation means the request input is malformed and was not persisted.
	ErrValidation = errors.New("validation failed")
	// ErrConflict means a redemption was already claimed or lost a concurrent
	// race after the retry budget was exhausted.
	ErrConflict = errors.New("conflict")
	// ErrLookup means the backing store was unreachable; the attempt may be
	// retried by the caller.
	ErrLookup = errors.New("store lookup failed")
	// ErrTxConflict is a retryable serialization failure reported by the
	// transactional store. It never escapes the ledger service.
	ErrTxConflict = errors.New("transaction conflict")
)
