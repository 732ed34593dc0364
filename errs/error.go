package errs

import (
	"errors"
	"fmt"
)

// Application error codes. They let the services report domain failures
// without knowing how the transport layer presents them.
const (
	ECONFLICT     = "conflict"     // the action conflicts with current state (already liked, not liked)
	EINTERNAL     = "internal"     // unexpected internal error
	EINVALID      = "invalid"      // validation failed
	ENOTFOUND     = "not_found"    // the entity does not exist
	EUNAUTHORIZED = "unauthorized" // the requester does not own the resource
	EUNAVAILABLE  = "unavailable"  // the database is unreachable
)

// Error is an application error. It carries a machine-readable code
// and a human-readable message that is safe to show to the client.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("recipebook error: code=%s message=%s", e.Code, e.Message)
}

// Errorf returns an Error with the given code and formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Any non-application error maps to EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Messages of non-application errors are not safe to expose, so they
// all read as a generic internal error.
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
