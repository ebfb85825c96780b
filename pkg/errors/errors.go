// Package errors defines the coded errors returned across composer.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure. Callers and tests branch on codes,
// never on message text.
type ErrorCode string

// Error codes, grouped by the stage that raises them
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Document errors
	ErrDocumentLoad  ErrorCode = "DOCUMENT_LOAD"
	ErrDocumentSave  ErrorCode = "DOCUMENT_SAVE"
	ErrDocumentQuery ErrorCode = "DOCUMENT_QUERY"

	// Rule errors
	ErrRulesParse   ErrorCode = "RULES_PARSE"
	ErrRulesPattern ErrorCode = "RULES_PATTERN"

	// Tree mapping errors
	ErrScan        ErrorCode = "SCAN"
	ErrRemoteFetch ErrorCode = "REMOTE_FETCH"
	ErrScriptWrite ErrorCode = "SCRIPT_WRITE"

	// Execution errors
	ErrDirCreate          ErrorCode = "DIR_CREATE"
	ErrRename             ErrorCode = "RENAME"
	ErrLinkCreate         ErrorCode = "LINK_CREATE"
	ErrLinkReplace        ErrorCode = "LINK_REPLACE"
	ErrCrossDevice        ErrorCode = "CROSS_DEVICE"
	ErrOverlappingTargets ErrorCode = "OVERLAPPING_TARGETS"
)

// ComposerError carries a code, a human message, structured details
// (paths, keys, values) and the underlying cause.
type ComposerError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error renders "[CODE] message: cause".
func (e *ComposerError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ComposerError) Unwrap() error {
	return e.Wrapped
}

// Is matches any ComposerError with the same code, so errors.Is works
// against a bare New(code, "") sentinel.
func (e *ComposerError) Is(target error) bool {
	var targetErr *ComposerError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New returns an error with no underlying cause.
func New(code ErrorCode, message string) *ComposerError {
	return &ComposerError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *ComposerError {
	return &ComposerError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap attaches a code and message to err. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) *ComposerError {
	if err == nil {
		return nil
	}
	return &ComposerError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ComposerError {
	if err == nil {
		return nil
	}
	return &ComposerError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail records one detail, such as the path an operation failed on.
func (e *ComposerError) WithDetail(key string, value interface{}) *ComposerError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails records several details at once.
func (e *ComposerError) WithDetails(details map[string]interface{}) *ComposerError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode reports whether the outermost ComposerError in err's chain
// has code.
func IsErrorCode(err error, code ErrorCode) bool {
	var composerErr *ComposerError
	if errors.As(err, &composerErr) {
		return composerErr.Code == code
	}
	return false
}

// GetErrorCode returns the code of the outermost ComposerError in err's
// chain, or ErrUnknown.
func GetErrorCode(err error) ErrorCode {
	var composerErr *ComposerError
	if errors.As(err, &composerErr) {
		return composerErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details of the outermost ComposerError in
// err's chain, or nil.
func GetErrorDetails(err error) map[string]interface{} {
	var composerErr *ComposerError
	if errors.As(err, &composerErr) {
		return composerErr.Details
	}
	return nil
}
