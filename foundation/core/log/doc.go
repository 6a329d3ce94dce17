// Package log provides structured logging for DexComX.
//
// Package: log
// Title: DexComX Structured Logging Framework
// Description: This package implements structured logging with contextual
//              fields, several output formats and level filtering. Loggers
//              are immutable: every With* call returns a derived logger, so
//              the script executor can hand out per-run loggers tagged with
//              the run ID while the host keeps its own.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-17 v0.2.0: Run IDs replace request/user IDs, deterministic field order
//
// Usage:
//
//	logger := log.New().WithName("executor").WithRunID(runID)
//	logger.Info("line executed", log.Fields{"line": 3, "class": "ball"})
//
//	timer := logger.StartTimer("script")
//	defer timer.Stop()
package log
