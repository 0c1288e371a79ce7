package report

import (
	"github.com/pos-admin/backend/internal/domain/shared"
)

// Error codes
const (
	CodeInvalidFilter = "INVALID_INPUT"
	CodeInvalidRange  = "INVALID_RANGE"
	CodeFetchFailed   = "FETCH_FAILED"
)

// ErrInvalidFilter matches any filter validation error via errors.Is
var ErrInvalidFilter = shared.ErrInvalidInput

// NewInvalidFilterError creates a filter validation error
func NewInvalidFilterError(message string) *shared.DomainError {
	return shared.NewDomainError(CodeInvalidFilter, message)
}

// NewInvalidRangeError creates an inverted date range error. It also matches ErrInvalidFilter.
func NewInvalidRangeError(message string) *shared.DomainError {
	return shared.WrapDomainError(CodeInvalidRange, message, shared.ErrInvalidInput)
}

// FetchError reports a record source failure. The cause is kept intact for errors.Is.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return "fetch " + e.Op + ": " + e.Err.Error()
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is makes every FetchError match shared.ErrFetchFailed
func (e *FetchError) Is(target error) bool {
	return target == shared.ErrFetchFailed
}

// NewFetchError wraps err as a record source failure for op. A nil err yields nil.
func NewFetchError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{Op: op, Err: err}
}
