// ============================================================================
// DexComX - Bulk Scripting Toolkit
// ============================================================================
//
// Package:     console
// Description: Script history persistence for the console
// Author:      Mike Stoffels
// Created:     2025-12-07
// License:     MIT
// ============================================================================

package console

import (
	"encoding/json"
	"os"
	"path/filepath"

	mdwerror "github.com/msto63/dexcomx/foundation/core/error"
)

// DefaultHistorySize is used when the configured size is not positive
const DefaultHistorySize = 500

// historyFile is the on-disk layout of the history file
type historyFile struct {
	Entries []string `json:"entries"`
}

// History keeps submitted scripts, oldest first. Scripts may span lines,
// so entries are stored as a JSON list rather than one per line.
type History struct {
	path    string
	size    int
	entries []string
}

// LoadHistory reads the history at path. A missing or unreadable file
// yields an empty history; an empty path keeps history in memory only.
func LoadHistory(path string, size int) (*History, error) {
	if size <= 0 {
		size = DefaultHistorySize
	}
	h := &History{path: path, size: size}
	if path == "" {
		return h, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, mdwerror.Wrap(err, "failed to read console history").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("console.LoadHistory").
			WithDetail("path", path)
	}

	var file historyFile
	if err := json.Unmarshal(data, &file); err != nil {
		// A corrupt history is not worth refusing to start over
		return h, nil
	}
	h.entries = h.trim(file.Entries)
	return h, nil
}

// Entries returns a copy of the stored scripts
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of stored scripts
func (h *History) Len() int { return len(h.entries) }

// At returns the script at index i
func (h *History) At(i int) string { return h.entries[i] }

// Add appends entry unless it repeats the latest one, then saves
func (h *History) Add(entry string) error {
	if entry == "" {
		return nil
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}
	h.entries = h.trim(append(h.entries, entry))
	return h.save()
}

func (h *History) trim(entries []string) []string {
	if len(entries) > h.size {
		entries = entries[len(entries)-h.size:]
	}
	return entries
}

func (h *History) save() error {
	if h.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return mdwerror.Wrap(err, "failed to create history directory").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("console.History.save")
	}

	data, err := json.MarshalIndent(historyFile{Entries: h.entries}, "", "  ")
	if err != nil {
		return mdwerror.Wrap(err, "failed to encode console history").WithCode(mdwerror.CodeInternal)
	}
	if err := os.WriteFile(h.path, data, 0o600); err != nil {
		return mdwerror.Wrap(err, "failed to write console history").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("console.History.save").
			WithDetail("path", h.path)
	}
	return nil
}
