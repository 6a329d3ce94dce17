// File: codes.go
// Title: Error Code Definitions
// Description: Defines the error codes used for consistent error classification
//              across DexComX: generic codes, storage codes, configuration codes
//              and the script codes reported per line by the executor.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core error codes
// - 2026-10-17 v0.2.0: Replaced TCOL codes with script engine codes

package error

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeNotFound     Code = "NOT_FOUND"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeTimeout      Code = "TIMEOUT"
	CodeForbidden    Code = "FORBIDDEN"

	// Database and storage
	CodeDatabaseError  Code = "DATABASE_ERROR"
	CodeDuplicateEntry Code = "DUPLICATE_ENTRY"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Validation
	CodeValidationFailed Code = "VALIDATION_FAILED"
	CodeInvalidFormat    Code = "INVALID_FORMAT"

	// Script engine
	CodeUnresolvedModel Code = "SCRIPT_UNRESOLVED_MODEL"
	CodeUnknownCommand  Code = "SCRIPT_UNKNOWN_COMMAND"
	CodeMissingMethod   Code = "SCRIPT_MISSING_METHOD"
	CodeUnknownMethod   Code = "SCRIPT_UNKNOWN_METHOD"
	CodeMissingArgument Code = "SCRIPT_MISSING_ARGUMENT"
	CodeCommandFailed   Code = "SCRIPT_COMMAND_FAILED"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// Category returns the high-level category of the error code
func (c Code) Category() string {
	switch c {
	case CodeDatabaseError, CodeDuplicateEntry:
		return "database"
	case CodeConfigError, CodeInvalidConfig:
		return "configuration"
	case CodeValidationFailed, CodeInvalidFormat:
		return "validation"
	case CodeUnresolvedModel, CodeUnknownCommand, CodeMissingMethod,
		CodeUnknownMethod, CodeMissingArgument, CodeCommandFailed:
		return "script"
	default:
		return "generic"
	}
}

// IsLineScoped reports whether errors with this code are isolated to one
// script line instead of aborting the whole run
func (c Code) IsLineScoped() bool {
	switch c {
	case CodeUnknownCommand, CodeMissingMethod, CodeUnknownMethod, CodeMissingArgument:
		return true
	default:
		return false
	}
}

// HTTPStatus returns the HTTP status code the host surface answers with
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return 404
	case CodeForbidden:
		return 403
	case CodeInvalidInput, CodeValidationFailed, CodeInvalidFormat,
		CodeUnresolvedModel, CodeUnknownCommand, CodeMissingMethod,
		CodeUnknownMethod, CodeMissingArgument:
		return 400
	case CodeDuplicateEntry:
		return 409
	case CodeTimeout:
		return 408
	case CodeDatabaseError:
		return 503
	default:
		return 500
	}
}
