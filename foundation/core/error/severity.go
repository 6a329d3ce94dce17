// File: severity.go
// Title: Error Severity Levels
// Description: Defines severity levels for errors so that logging can pick an
//              appropriate level and operators can tell user mistakes in a
//              script apart from infrastructure failures.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with severity levels
// - 2026-10-17 v0.2.0: Script codes map to low severity

package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow indicates a mistake in operator input, e.g. a typo in a script line
	SeverityLow Severity = iota

	// SeverityMedium indicates an error that affects functionality but has workarounds
	SeverityMedium

	// SeverityHigh indicates a serious error such as an unavailable database
	SeverityHigh

	// SeverityCritical indicates an error that makes the system unusable
	SeverityCritical
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ShouldAlert returns true if this severity level should trigger alerts
func (s Severity) ShouldAlert() bool {
	return s >= SeverityHigh
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeUnresolvedModel, CodeUnknownCommand, CodeMissingMethod,
		CodeUnknownMethod, CodeMissingArgument, CodeInvalidInput,
		CodeValidationFailed, CodeInvalidFormat, CodeNotFound:
		return SeverityLow
	case CodeDatabaseError, CodeConfigError, CodeInvalidConfig:
		return SeverityHigh
	case CodeInternal:
		return SeverityCritical
	default:
		return SeverityMedium
	}
}
