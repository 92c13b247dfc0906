package docdex

import (
	"errors"
	"fmt"
)

// Application error codes.
//
// EINTERNAL means a failure the caller cannot act on; every other code maps
// to a condition the caller is expected to handle (retry with a different
// strategy, index first, wait for a rate-limit reset, and so on).
const (
	ECONFLICT  = "conflict"   // conflicting state (e.g., concurrent refresh)
	EINVALID   = "invalid"    // malformed or missing input
	ENOTFOUND  = "not_found"  // entity genuinely does not exist
	ERATELIMIT = "rate_limit" // upstream quota exhausted
	EBLOCKED   = "blocked"    // crawl denied by robots/403-class responses
	ENOCONTENT = "no_content" // run produced zero usable items
	EINTERNAL  = "internal"   // everything else
)

// Error represents an application error with a machine-readable code and a
// human-readable message. The message should include a concrete next action
// where one exists.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("docdex error: code=%s message=%s", e.Code, e.Message)
}

// Errorf constructs an *Error with the given code and formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps err and returns its code, or EINTERNAL for non-application
// errors. A nil error returns an empty string.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps err and returns its message. Non-application errors
// report a generic message so internal details never leak to callers.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
