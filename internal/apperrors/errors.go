package apperrors

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the request conflicts with the current state of the resource.
var ErrConflict = errors.New("conflict")

// ErrForbidden indicates the caller may not perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInternal is returned for failures the caller cannot act on.
var ErrInternal = errors.New("internal error")

// ErrDomainInvariant indicates a well-formed request that would break an accounting invariant.
var ErrDomainInvariant = errors.New("domain invariant violation")

// AppError carries an HTTP-ish status code alongside a wrapped infrastructure error.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// ValidationError reports malformed or missing input. It is raised before any domain check.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// EmptyTransactionError is returned when a transaction without lines is posted.
type EmptyTransactionError struct {
	TransactionID string
}

func (e *EmptyTransactionError) Error() string {
	return fmt.Sprintf("transaction %s has no lines", e.TransactionID)
}

func (e *EmptyTransactionError) Unwrap() error { return ErrValidation }

// AlreadyPostedError guards idempotency: the transaction was posted before, nothing changed.
type AlreadyPostedError struct {
	TransactionID string
}

func (e *AlreadyPostedError) Error() string {
	return fmt.Sprintf("transaction %s is already posted", e.TransactionID)
}

func (e *AlreadyPostedError) Unwrap() error { return ErrConflict }

// UnbalancedTransactionError reports the debit and credit sums of a transaction that does not balance.
type UnbalancedTransactionError struct {
	TransactionID string
	Debits        decimal.Decimal
	Credits       decimal.Decimal
}

func (e *UnbalancedTransactionError) Error() string {
	return fmt.Sprintf("transaction %s is unbalanced: debits=%s, credits=%s",
		e.TransactionID, e.Debits.StringFixed(2), e.Credits.StringFixed(2))
}

func (e *UnbalancedTransactionError) Unwrap() error { return ErrDomainInvariant }

// LockedPeriodError is returned when the period covering a transaction date is locked.
type LockedPeriodError struct {
	PeriodID   string
	PeriodName string
	Date       time.Time
}

func (e *LockedPeriodError) Error() string {
	return fmt.Sprintf("period %s (%s) covering %s is locked",
		e.PeriodName, e.PeriodID, e.Date.Format("2006-01-02"))
}

func (e *LockedPeriodError) Unwrap() error { return ErrDomainInvariant }

// InactiveAccountError names the inactive account a line refers to.
type InactiveAccountError struct {
	AccountID string
	Code      string
}

func (e *InactiveAccountError) Error() string {
	return fmt.Sprintf("account %s (%s) is inactive", e.Code, e.AccountID)
}

func (e *InactiveAccountError) Unwrap() error { return ErrDomainInvariant }

// AmountExceedsBalanceError is returned when a reversal would exceed the unreversed amount of a line.
type AmountExceedsBalanceError struct {
	LineID    string
	Requested decimal.Decimal
	Remaining decimal.Decimal
}

func (e *AmountExceedsBalanceError) Error() string {
	return fmt.Sprintf("amount %s exceeds remaining balance %s of line %s",
		e.Requested.StringFixed(2), e.Remaining.StringFixed(2), e.LineID)
}

func (e *AmountExceedsBalanceError) Unwrap() error { return ErrDomainInvariant }

// NotPostedError is returned when an operation needs a POSTED transaction but got a draft.
type NotPostedError struct {
	TransactionID string
}

func (e *NotPostedError) Error() string {
	return fmt.Sprintf("transaction %s is not posted", e.TransactionID)
}

func (e *NotPostedError) Unwrap() error { return ErrConflict }
