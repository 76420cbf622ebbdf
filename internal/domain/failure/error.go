// Package failure is the user-facing error taxonomy of the engine. Every
// failure is reported before any state is mutated.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	// KindInputEmpty means there was no usable text to send upstream.
	KindInputEmpty Kind = "INPUT_EMPTY"
	// KindUpstream means the generation service failed.
	KindUpstream Kind = "UPSTREAM"
	// KindEmptyResult means the generation service answered with blank text.
	KindEmptyResult Kind = "EMPTY_RESULT"
	// KindUnparsable means nothing could be extracted from the answer.
	KindUnparsable Kind = "UNPARSABLE"
	// KindIneligible means a stage transition was refused.
	KindIneligible Kind = "INELIGIBLE"
	KindNotFound   Kind = "NOT_FOUND"
	KindInvalid    Kind = "INVALID"
	// KindBusy means the item already has a generation call in flight.
	KindBusy Kind = "BUSY"
)

// Error carries a Kind and a message meant for the user.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so sentinel-style checks like
// errors.Is(err, &Error{Kind: KindBusy}) work.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// New creates a failure without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a failure with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a failure around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var f *Error
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// Is reports whether err carries a failure of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-facing message for err. Errors outside the
// taxonomy fall back to their Error text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var f *Error
	if errors.As(err, &f) {
		if f.Err != nil && f.Kind == KindUpstream {
			return fmt.Sprintf("%s: %v", f.Message, f.Err)
		}
		return f.Message
	}
	return err.Error()
}
