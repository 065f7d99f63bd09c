// Package apperror defines the error taxonomy shared by services and handlers.
//
// An Error carries a Kind (what went wrong, mapped to an HTTP status) and a
// Code (which message to show). Human text is rendered from the Code at the
// edge by Localize, so no caller ever branches on message strings.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/text/language"
)

type Kind string

const (
	KindValidation       Kind = "validation"
	KindConflict         Kind = "conflict"
	KindNotFound         Kind = "not_found"
	KindAuthentication   Kind = "authentication"
	KindAuthorization    Kind = "authorization"
	KindMethodNotAllowed Kind = "method_not_allowed"
	KindInternal         Kind = "internal"
)

type Error struct {
	Kind  Kind
	Code  string
	Field string
	Args  []any
	Err   error
}

func (e *Error) Error() string {
	msg := Localize(language.English, e.Code, e.Args...)
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on kind and code so sentinel-style comparisons work:
// errors.Is(err, apperror.NotFound(apperror.CodeTitleNotFound))
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Message renders the error in the given language
func (e *Error) Message(tag language.Tag) string {
	return Localize(tag, e.Code, e.Args...)
}

// Wrap attaches a cause without changing kind or code
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

// WithField names the offending input field
func (e *Error) WithField(field string) *Error {
	cp := *e
	cp.Field = field
	return &cp
}

func Validation(code, field string, args ...any) *Error {
	return &Error{Kind: KindValidation, Code: code, Field: field, Args: args}
}

func Conflict(code string, args ...any) *Error {
	return &Error{Kind: KindConflict, Code: code, Args: args}
}

func NotFound(code string) *Error {
	return &Error{Kind: KindNotFound, Code: code}
}

func Authentication(code string) *Error {
	return &Error{Kind: KindAuthentication, Code: code}
}

func Authorization(code string) *Error {
	return &Error{Kind: KindAuthorization, Code: code}
}

func MethodNotAllowed() *Error {
	return &Error{Kind: KindMethodNotAllowed, Code: CodeMethodNotAllowed}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Err: err}
}

// As extracts an *Error from err. Anything that is not one becomes internal.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// KindOf returns the kind of err, KindInternal for foreign errors
func KindOf(err error) Kind {
	return As(err).Kind
}

// HTTPStatus maps a kind to the response status code
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
