package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidState indicates the operation is not allowed for the resource's current status.
var ErrInvalidState = errors.New("invalid state")

// ErrConflict indicates a lost race against a concurrent writer.
var ErrConflict = errors.New("concurrency conflict")

// ErrDataIntegrity marks non-fatal anomalies found while reading the ledger.
var ErrDataIntegrity = errors.New("data integrity warning")

// ErrInternal wraps unexpected infrastructure failures.
var ErrInternal = errors.New("internal error")

// ErrUnauthorized indicates the caller could not be identified.
var ErrUnauthorized = errors.New("unauthorized")

// Kind classifies an AppError for callers that map errors to transport responses.
type Kind string

const (
	KindNotFound      Kind = "NOT_FOUND"
	KindValidation    Kind = "VALIDATION_FAILURE"
	KindDuplicate     Kind = "DUPLICATE"
	KindInvalidState  Kind = "INVALID_STATE"
	KindConflict      Kind = "CONCURRENCY_CONFLICT"
	KindDataIntegrity Kind = "DATA_INTEGRITY_WARNING"
	KindInternal      Kind = "INTERNAL"
)

// Error codes naming the specific rule that was violated.
const (
	CodeEntryNotFound       = "EntryNotFound"
	CodeAccountNotFound     = "AccountNotFound"
	CodeEntryNotDraft       = "EntryNotDraft"
	CodeEntryNotApproved    = "EntryNotApproved"
	CodeEntryNotPosted      = "EntryNotPosted"
	CodeAlreadyReversed     = "AlreadyReversed"
	CodeInvalidTransition   = "InvalidTransition"
	CodeUnbalancedEntry     = "UnbalancedEntry"
	CodeInvalidLineCount    = "InvalidLineCount"
	CodeInvalidLineAmount   = "InvalidLineAmount"
	CodeUnknownAccount      = "UnknownAccount"
	CodeReasonRequired      = "ReasonRequired"
	CodeEntryDateRequired   = "EntryDateRequired"
	CodeInvalidReversalDate = "InvalidReversalDate"
	CodeInvalidDateRange    = "InvalidDateRange"
	CodeInvalidPageToken    = "InvalidPageToken"
	CodeConcurrentPost      = "ConcurrentModification"

	CodePeriodClosed          = "PeriodClosed"
	CodePeriodNotFound        = "PeriodNotFound"
	CodePeriodOverlap         = "PeriodOverlap"
	CodeTemplateNotFound      = "TemplateNotFound"
	CodeDuplicateTemplateCode = "DuplicateTemplateCode"
	CodeInvalidSchedule       = "InvalidSchedule"
	CodeNameRequired          = "NameRequired"
)

var kindSentinels = map[Kind]error{
	KindNotFound:      ErrNotFound,
	KindValidation:    ErrValidation,
	KindDuplicate:     ErrDuplicate,
	KindInvalidState:  ErrInvalidState,
	KindConflict:      ErrConflict,
	KindDataIntegrity: ErrDataIntegrity,
	KindInternal:      ErrInternal,
}

// ValidationFailure describes one violated input rule.
type ValidationFailure struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// AppError is the structured error returned across the service boundary.
type AppError struct {
	Kind     Kind
	Code     string
	Message  string
	Failures []ValidationFailure
	Err      error
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

// Is lets errors.Is(err, ErrValidation) and friends match on the error kind.
func (e *AppError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// NewNotFound builds a NotFound error for the given code.
func NewNotFound(code, message string) *AppError {
	return &AppError{Kind: KindNotFound, Code: code, Message: message}
}

// NewInvalidState builds an InvalidState error for the given code.
func NewInvalidState(code, message string) *AppError {
	return &AppError{Kind: KindInvalidState, Code: code, Message: message}
}

// NewDuplicate builds a Duplicate error for the given code.
func NewDuplicate(code, message string, err error) *AppError {
	return &AppError{Kind: KindDuplicate, Code: code, Message: message, Err: err}
}

// NewConflict builds a ConcurrencyConflict error.
func NewConflict(message string, err error) *AppError {
	return &AppError{Kind: KindConflict, Code: CodeConcurrentPost, Message: message, Err: err}
}

// NewInternal wraps an infrastructure failure.
func NewInternal(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// NewValidation combines one or more failures into a single ValidationFailure error.
// The first failure's code becomes the error code.
func NewValidation(failures ...ValidationFailure) *AppError {
	if len(failures) == 0 {
		return &AppError{Kind: KindValidation, Message: "validation failed"}
	}
	msgs := make([]string, len(failures))
	for i, f := range failures {
		msgs[i] = f.Message
	}
	return &AppError{
		Kind:     KindValidation,
		Code:     failures[0].Code,
		Message:  strings.Join(msgs, "; "),
		Failures: failures,
	}
}

// KindOf returns the kind of the first AppError in the chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrDuplicate):
		return KindDuplicate
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrConflict):
		return KindConflict
	}
	return KindInternal
}

// CodeOf returns the code of the first AppError in the chain, if any.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// FailuresOf returns the validation failures attached to err, if any.
func FailuresOf(err error) []ValidationFailure {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Failures
	}
	return nil
}

// HasFailure reports whether err carries a validation failure with the given code.
func HasFailure(err error, code string) bool {
	for _, f := range FailuresOf(err) {
		if f.Code == code {
			return true
		}
	}
	return false
}
