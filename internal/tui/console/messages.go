// ============================================================================
// DexComX - Bulk Scripting Toolkit
// ============================================================================
//
// Package:     console
// Description: Transcript entries and message types for async operations
// Author:      Mike Stoffels
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package console

import (
	"time"

	"github.com/msto63/dexcomx/internal/host"
)

// EntryKind tells the transcript how to render an entry
type EntryKind int

const (
	EntryScript EntryKind = iota // submitted script
	EntryOutput                  // command output of a run
	EntryResult                  // success reaction
	EntryError                   // ERROR: ... reply
	EntrySystem                  // console notices (settings, help)
	EntryMarkdown                // pre-rendered markdown such as the about card
)

// Entry is one block in the transcript
type Entry struct {
	Kind      EntryKind
	Content   string
	Timestamp time.Time
	Duration  string
}

// runResultMsg is sent when a script run finishes
type runResultMsg struct {
	result host.RunResult
}
