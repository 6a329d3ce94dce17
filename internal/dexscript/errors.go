package dexscript

import (
	"fmt"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
)

// ErrorKind classifies script errors
type ErrorKind int

const (
	UnresolvedModel ErrorKind = iota
	UnknownCommand
	MissingMethod
	UnknownMethod
	MissingArgument
)

// Code returns the foundation error code of the kind
func (k ErrorKind) Code() mdwerror.Code {
	switch k {
	case UnresolvedModel:
		return mdwerror.CodeUnresolvedModel
	case UnknownCommand:
		return mdwerror.CodeUnknownCommand
	case MissingMethod:
		return mdwerror.CodeMissingMethod
	case UnknownMethod:
		return mdwerror.CodeUnknownMethod
	case MissingArgument:
		return mdwerror.CodeMissingArgument
	default:
		return mdwerror.CodeUnknown
	}
}

// String returns the kind name
func (k ErrorKind) String() string {
	switch k {
	case UnresolvedModel:
		return "UnresolvedModel"
	case UnknownCommand:
		return "UnknownCommand"
	case MissingMethod:
		return "MissingMethod"
	case UnknownMethod:
		return "UnknownMethod"
	case MissingArgument:
		return "MissingArgument"
	default:
		return "Unknown"
	}
}

// LineError is an error isolated to one script line
type LineError struct {
	Line    int
	Kind    ErrorKind
	Message string
	Err     *mdwerror.Error
}

func newLineError(line int, kind ErrorKind, format string, args ...interface{}) *LineError {
	msg := fmt.Sprintf("Line %d: ", line) + fmt.Sprintf(format, args...)
	return &LineError{
		Line:    line,
		Kind:    kind,
		Message: msg,
		Err: mdwerror.New(msg).
			WithCode(kind.Code()).
			WithOperation("dexscript.Execute").
			WithDetail("line", line),
	}
}

// Error implements error
func (e *LineError) Error() string {
	return e.Message
}

// Unwrap exposes the coded error
func (e *LineError) Unwrap() error {
	return e.Err
}

// Render returns the terse message, or the full report with stack trace
// when debug is set
func (e *LineError) Render(debug bool) string {
	if debug && e.Err != nil {
		return e.Err.String()
	}
	return e.Message
}
