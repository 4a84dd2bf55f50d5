package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents an archive error code.
type ErrorCode string

const (
	ErrFormat         ErrorCode = "FORMAT_ERROR"          // malformed ledger line
	ErrVocabulary     ErrorCode = "VOCABULARY_ERROR"      // value outside a closed set or pattern
	ErrCrossReference ErrorCode = "CROSS_REFERENCE_ERROR" // dangling speaker link, side-file mismatch
	ErrStructural     ErrorCode = "STRUCTURAL_ERROR"      // shape of the record tree is wrong
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrCancelled      ErrorCode = "CANCELLED"
	ErrInternal       ErrorCode = "INTERNAL"
)

// ArchiveError represents a structured error with code, message, and details.
type ArchiveError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ArchiveError) Error() string {
	if line, ok := e.Details["line"]; ok {
		return fmt.Sprintf("%s: line %v: %s", e.Code, line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AtLine returns a copy of the error annotated with a 1-based input line number.
// An existing line number is kept so the innermost location wins.
func (e *ArchiveError) AtLine(line int) *ArchiveError {
	if _, ok := e.Details["line"]; ok {
		return e
	}
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details["line"] = line
	return &ArchiveError{Code: e.Code, Message: e.Message, Details: details}
}

// NewFormat creates an error for a physical line that breaks the ledger layout.
func NewFormat(msg string, text string) *ArchiveError {
	return &ArchiveError{
		Code:    ErrFormat,
		Message: msg,
		Details: map[string]any{"text": text},
	}
}

// NewVocabulary creates an error for a field value outside its closed vocabulary.
func NewVocabulary(field, value string) *ArchiveError {
	return &ArchiveError{
		Code:    ErrVocabulary,
		Message: fmt.Sprintf("unexpected %s: %q", field, value),
		Details: map[string]any{"field": field, "value": value},
	}
}

// NewCrossReference creates an error for a reference that does not resolve.
func NewCrossReference(msg string, ref string) *ArchiveError {
	return &ArchiveError{
		Code:    ErrCrossReference,
		Message: fmt.Sprintf("%s: %s", msg, ref),
		Details: map[string]any{"ref": ref},
	}
}

// NewStructural creates an error for a record tree with the wrong shape.
func NewStructural(msg string) *ArchiveError {
	return &ArchiveError{
		Code:    ErrStructural,
		Message: msg,
	}
}

// NewInvalidRequest creates an error for invalid operation parameters.
func NewInvalidRequest(msg string) *ArchiveError {
	return &ArchiveError{
		Code:    ErrInvalidRequest,
		Message: msg,
	}
}

// NewNotFound creates an error for a missing input file.
func NewNotFound(path string) *ArchiveError {
	return &ArchiveError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewCancelled creates an error for an operation stopped by its context.
func NewCancelled(operation string) *ArchiveError {
	return &ArchiveError{
		Code:    ErrCancelled,
		Message: fmt.Sprintf("%s cancelled", operation),
		Details: map[string]any{"operation": operation},
	}
}

// NewInternal creates an error for unexpected I/O or encoding failures.
func NewInternal(err error) *ArchiveError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ArchiveError{
		Code:    ErrInternal,
		Message: msg,
	}
}

// Is checks if an error is an ArchiveError with the given code.
func Is(err error, code ErrorCode) bool {
	var aErr *ArchiveError
	if stderrors.As(err, &aErr) {
		return aErr.Code == code
	}
	return false
}
