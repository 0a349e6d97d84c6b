package errs

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is to test which kind an error carries.
var (
	ErrValidation    = errors.New("validation error")
	ErrNetwork       = errors.New("network error")
	ErrAuthorization = errors.New("authorization error")
	ErrDecode        = errors.New("decode error")
	ErrNotAuth       = errors.New("not authenticated")
	ErrSuperseded    = errors.New("superseded")
)

// Error is a categorized failure returned at a component boundary
type Error struct {
	Kind error  // One of the Err* kinds above
	Op   string // Operation that failed, e.g. "history.refresh"
	Msg  string // Message safe to show to a user
	Err  error  // Underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is reports whether target is the kind of this error
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns an ErrValidation error
func Validation(op, msg string) error {
	return &Error{Kind: ErrValidation, Op: op, Msg: msg}
}

// Network wraps a transport failure
func Network(op string, err error) error {
	return &Error{Kind: ErrNetwork, Op: op, Msg: "could not reach the translation service", Err: err}
}

// Authorization returns an ErrAuthorization error with the server's reason
func Authorization(op, msg string) error {
	return &Error{Kind: ErrAuthorization, Op: op, Msg: msg}
}

// Decode wraps a malformed payload or response body
func Decode(op string, err error) error {
	return &Error{Kind: ErrDecode, Op: op, Msg: "received malformed data", Err: err}
}

// NotAuthenticated returns an ErrNotAuth error
func NotAuthenticated(op string) error {
	return &Error{Kind: ErrNotAuth, Op: op, Msg: "you are not logged in"}
}

// Superseded returns an ErrSuperseded error for a request with the given sequence id
func Superseded(op string, seq uint64) error {
	return &Error{Kind: ErrSuperseded, Op: op, Msg: fmt.Sprintf("request %d was superseded", seq)}
}

// Message renders err for display. Categorized errors show their message
// without the wrapped transport detail.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Msg != "" {
			return e.Msg
		}
		return e.Kind.Error()
	}
	return err.Error()
}
