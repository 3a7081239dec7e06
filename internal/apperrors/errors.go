package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// Error is the unit of failure propagation. Every expected failure in the
// request pipeline (validation, auth, business rules) travels as one of
// these; the API layer's error sink consumes it exactly once.
type Error struct {
	Message string
	Name    string
	Status  int
	Code    string

	// IsOperational distinguishes expected, handled failures from
	// programming defects.
	IsOperational bool

	// Cause carries opaque context (for validation errors, the joined
	// violation list).
	Cause any

	// Err is the nested original error, if any.
	Err error

	// Stack is captured at construction so the sink can echo it outside
	// production.
	Stack string

	// built marks values constructed through a builder. Raisers refuse
	// anything without it.
	built bool
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Built reports whether the value was constructed through a builder.
func (e *Error) Built() bool { return e != nil && e.built }

// Params is the common input shape shared by all builders and raisers.
// Status is never part of it: each builder fixes its own.
type Params struct {
	Message string
	Name    string
	Code    string
	Cause   any
	Err     error
}

func build(status int, defaultName, defaultCode string, p Params) *Error {
	name := p.Name
	if name == "" {
		name = defaultName
	}
	code := p.Code
	if code == "" {
		code = defaultCode
	}
	return &Error{
		Message:       p.Message,
		Name:          name,
		Status:        status,
		Code:          code,
		IsOperational: true,
		Cause:         p.Cause,
		Err:           p.Err,
		Stack:         callStack(3),
		built:         true,
	}
}

// BuildBadRequest returns a built 400 error. No side effects.
func BuildBadRequest(p Params) *Error {
	if p.Message == "" {
		p.Message = "Bad Request"
	}
	return build(http.StatusBadRequest, "BadRequestError", CodeGeneric, p)
}

// BuildNotFound returns a built 404 error.
func BuildNotFound(p Params) *Error {
	return build(http.StatusNotFound, "NotFoundError", CodeGeneric, p)
}

// BuildUnauthorized returns a built 401 error.
func BuildUnauthorized(p Params) *Error {
	return build(http.StatusUnauthorized, "UnauthorizedError", CodeGeneric, p)
}

// BuildInternal returns a built 500 error. IsOperational stays true here;
// truly unexpected failures reach the sink as plain errors instead.
func BuildInternal(p Params) *Error {
	if p.Message == "" {
		p.Message = "Internal server error"
	}
	return build(http.StatusInternalServerError, "InternalError", CodeUnhandled, p)
}

// Raise is the single raising primitive. Handing it anything that did not
// come out of a builder is a programming defect, answered with a generic
// internal error rather than the malformed value.
func Raise(e *Error) error {
	if !e.Built() {
		return errors.New("error must be a built error object")
	}
	return e
}

// BadRequest builds and raises in one step.
func BadRequest(p Params) error { return Raise(BuildBadRequest(p)) }

// NotFound builds and raises in one step.
func NotFound(p Params) error { return Raise(BuildNotFound(p)) }

// Unauthorized builds and raises in one step.
func Unauthorized(p Params) error { return Raise(BuildUnauthorized(p)) }

// Internal builds and raises in one step.
func Internal(p Params) error { return Raise(BuildInternal(p)) }

// From extracts the typed error from an error chain. The second return is
// false for ad-hoc errors that never went through a builder.
func From(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e.Built() {
		return e, true
	}
	return nil, false
}

func callStack(skip int) string {
	pc := make([]uintptr, 32)
	n := runtime.Callers(skip, pc)
	frames := runtime.CallersFrames(pc[:n])

	var b strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return b.String()
}
