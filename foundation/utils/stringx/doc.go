// File: doc.go
// Title: Package Documentation for stringx
// Description: Package stringx provides the string helpers shared by the
//              script engine, the host and the console.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core string utilities
// - 2026-10-17 v0.3.0: Reduced to blank checks, line splitting and fences

// Package stringx provides extended string operations for DexComX.
//
// Line handling is CRLF tolerant so scripts pasted from any chat client
// split into the same lines:
//
//	for _, line := range stringx.SplitLines(script) {
//		if stringx.IsBlank(line) {
//			continue
//		}
//	}
package stringx
