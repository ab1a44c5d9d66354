package value

import "github.com/mycolang/myco/internal/errors"

// ErrorCode is the value bound to a catch variable: spec.md §4.5 requires
// that printing it render its human description with ANSI color markers,
// the same wire format as an uncaught top-level error.
type ErrorCode struct {
	Code errors.Code
	Line int
}

func (e ErrorCode) Type() string { return "error" }

func (e ErrorCode) String() string {
	return (&errors.RuntimeError{Code: e.Code, Line: e.Line}).Format()
}
