// Package timex implements the time helpers used by DexComX.
//
// Package: timex
// Title: Extended Time Utilities for Go
// Description: Flexible parsing of operator supplied timestamps and compact
//              duration rendering. Script tokens such as "2024-05-01" or
//              "2024-05-01 18:30" are recognised through Parse.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive time operations
// - 2026-10-17 v0.2.0: Reduced to parsing and duration formatting
package timex
