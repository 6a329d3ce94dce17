// Package error provides structured error handling for DexComX.
//
// Package: error
// Title: DexComX Error Handling Framework
// Description: This package implements a structured error type with contextual
//              information, error codes, severity levels and stack traces. The
//              script engine tags every line failure with one of the script
//              codes so callers can tell a typo in a script apart from a
//              broken command implementation.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-17 v0.2.0: Script engine codes, Trace rendering
//
// Usage:
//
//	import mdwerror "github.com/msto63/dexcomx/foundation/core/error"
//
//	err := mdwerror.New("'foo' is not a valid command.").
//		WithCode(mdwerror.CodeUnknownCommand).
//		WithDetail("line", 3)
//
//	if mdwerror.HasCode(err, mdwerror.CodeUnknownCommand) {
//		// isolated to one line, the run continues
//	}
package error
