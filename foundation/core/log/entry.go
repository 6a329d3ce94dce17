// File: entry.go
// Title: Log Entry Structure
// Description: A single log record and the Fields map attached to it.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2026-10-17 v0.2.0: RunID field, sorted field keys

package log

import (
	"sort"
	"time"
)

// Fields holds structured key/value data for a log entry
type Fields map[string]interface{}

// Entry is one log record handed to a Formatter
type Entry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Logger    string
	RunID     string
	Fields    Fields
	Error     error
	Duration  time.Duration
	Caller    *CallerInfo
}

// CallerInfo identifies the source location of a log call
type CallerInfo struct {
	Function string
	File     string
	Line     int
}

// Err wraps an error as Fields
func Err(err error) Fields {
	return Fields{"error": err}
}

// Merge returns a new Fields with other layered over f
func (f Fields) Merge(other Fields) Fields {
	result := make(Fields, len(f)+len(other))
	for k, v := range f {
		result[k] = v
	}
	for k, v := range other {
		result[k] = v
	}
	return result
}

// Keys returns the field names in sorted order
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewEntry creates an entry stamped with the current time
func NewEntry(level Level, message string) *Entry {
	return &Entry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Fields:    make(Fields),
	}
}
