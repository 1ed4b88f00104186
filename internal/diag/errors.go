package diag

import (
	"errors"
	"fmt"

	"plsqldoc/internal/source"
)

var (
	// ErrSyntax matches every *SyntaxError.
	ErrSyntax = errors.New("syntax error")
	// ErrUnexpectedEOF matches syntax errors raised at end of input.
	ErrUnexpectedEOF = errors.New("unexpected end of input")
	// ErrNotImplemented matches every *NotImplementedError.
	ErrNotImplemented = errors.New("not implemented")
	// ErrInvalidArgument matches every *InvalidArgumentError.
	ErrInvalidArgument = errors.New("invalid argument")
)

// SyntaxError is returned when the parser cannot continue the current unit.
type SyntaxError struct {
	Span     source.Span
	Expected string // описание ожидаемого шаблона
	Got      string // фактический токен
	AtEOF    bool
	Message  string
}

func (e *SyntaxError) Error() string {
	where := e.Span.Start.String()
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", where, e.Message)
	}
	if e.AtEOF {
		return fmt.Sprintf("%s: expected %s, got unexpected end of input", where, e.Expected)
	}
	return fmt.Sprintf("%s: expected %s, got %s", where, e.Expected, e.Got)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax || (e.AtEOF && target == ErrUnexpectedEOF)
}

// NotImplementedError marks a recognised construct the reader does not model.
type NotImplementedError struct {
	Construct string
	Span      source.Span
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s: %s is not supported", e.Span.Start, e.Construct)
}

func (e *NotImplementedError) Is(target error) bool {
	return target == ErrNotImplemented
}

// InvalidArgumentError reports a constructor contract violation.
type InvalidArgumentError struct {
	What string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.What
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// InvalidArgument builds an *InvalidArgumentError with a formatted message.
func InvalidArgument(format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{What: fmt.Sprintf(format, args...)}
}

// Code maps a structured error to its diagnostic code.
func CodeOf(err error) Code {
	var (
		se *SyntaxError
		ni *NotImplementedError
		ia *InvalidArgumentError
	)
	switch {
	case errors.As(err, &ni):
		return SynNotImplemented
	case errors.As(err, &ia):
		return SynInvalidArgument
	case errors.As(err, &se):
		if se.AtEOF {
			return SynUnexpectedEOF
		}
		return SynUnexpectedToken
	}
	return UnknownCode
}

// SpanOf extracts the span carried by a structured error.
func SpanOf(err error) (source.Span, bool) {
	var (
		se *SyntaxError
		ni *NotImplementedError
	)
	switch {
	case errors.As(err, &se):
		return se.Span, true
	case errors.As(err, &ni):
		return ni.Span, true
	}
	return source.Span{}, false
}
