package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidState indicates an operation attempted against a transaction
// whose status does not permit it (e.g. mutating a voided or completed one).
var ErrInvalidState = errors.New("invalid transaction state")

// ErrInsufficientPayment indicates a tendered amount below the transaction total.
var ErrInsufficientPayment = errors.New("insufficient payment")
