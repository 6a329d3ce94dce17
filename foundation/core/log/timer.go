// File: timer.go
// Title: Performance Timer
// Description: Measures an operation and logs its duration on completion.
//              The executor uses one timer per script run with a checkpoint
//              per line.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-17 v0.2.0: Checkpoints log at trace level

package log

import (
	"time"
)

// Timer measures the duration of an operation
type Timer struct {
	logger    *Logger
	operation string
	startTime time.Time
	fields    Fields
	level     Level
	stopped   bool
}

// NewTimer starts a timer that reports to logger
func NewTimer(logger *Logger, operation string) *Timer {
	return &Timer{
		logger:    logger,
		operation: operation,
		startTime: time.Now(),
		fields:    make(Fields),
		level:     LevelDebug,
	}
}

// WithLevel sets the level of the completion entry
func (t *Timer) WithLevel(level Level) *Timer {
	t.level = level
	return t
}

// WithField attaches a field to the completion entry
func (t *Timer) WithField(key string, value interface{}) *Timer {
	t.fields[key] = value
	return t
}

// Elapsed returns the time since the timer started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

// Checkpoint logs an intermediate mark without stopping the timer
func (t *Timer) Checkpoint(name string, fields ...Fields) {
	if t.stopped || t.logger == nil {
		return
	}

	elapsed := t.Elapsed()
	combined := t.fields.Merge(Fields{
		"operation":  t.operation,
		"checkpoint": name,
		"elapsed_ms": float64(elapsed.Nanoseconds()) / 1e6,
	})
	for _, f := range fields {
		combined = combined.Merge(f)
	}

	t.logger.Trace(t.operation+" checkpoint: "+name, combined)
}

// Stop logs the completion entry and returns the elapsed time.
// Subsequent calls return zero.
func (t *Timer) Stop() time.Duration {
	if t.stopped {
		return 0
	}
	t.stopped = true
	elapsed := t.Elapsed()

	if t.logger != nil {
		t.logger.logWithDuration(t.level, t.operation+" completed", nil, elapsed, t.fields.Merge(Fields{"operation": t.operation}))
	}
	return elapsed
}

// StopWithError logs a failure entry at error level
func (t *Timer) StopWithError(err error) time.Duration {
	if t.stopped {
		return 0
	}
	t.stopped = true
	elapsed := t.Elapsed()

	if t.logger != nil {
		t.logger.logWithDuration(LevelError, t.operation+" failed", err, elapsed,
			t.fields.Merge(Fields{"operation": t.operation, "success": false}))
	}
	return elapsed
}
