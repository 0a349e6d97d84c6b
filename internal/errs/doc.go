// Package errs defines the error taxonomy shared by every tarjama component.
// Components never panic into callers; they return an *Error whose Kind is
// one of the sentinel errors so callers can branch with errors.Is.
package errs
