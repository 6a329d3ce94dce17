// File: stringx.go
// Title: Core String Utility Functions
// Description: Unicode safe helpers for blank detection, truncation, line
//              splitting and stripping markdown code fences from pasted text.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with core utilities
// - 2026-10-17 v0.3.0: Added StripFence, CountRune

package stringx

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsBlank returns true if the string is empty or contains only whitespace.
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// IsNotBlank returns true if the string contains non-whitespace characters.
func IsNotBlank(s string) bool {
	return !IsBlank(s)
}

// FirstNonBlank returns the first non-blank string from the provided strings.
func FirstNonBlank(values ...string) string {
	for _, s := range values {
		if IsNotBlank(s) {
			return s
		}
	}
	return ""
}

// Truncate shortens s to maxLen runes, ending with ellipsis when cut.
func Truncate(s string, maxLen int, ellipsis string) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}

	ellipsisLen := utf8.RuneCountInString(ellipsis)
	if ellipsisLen >= maxLen {
		return string([]rune(s)[:maxLen])
	}
	return string([]rune(s)[:maxLen-ellipsisLen]) + ellipsis
}

// SplitLines splits a string into lines, handling \n, \r\n and \r endings.
func SplitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// CountRune returns how many times r occurs in s.
func CountRune(s string, r rune) int {
	n := 0
	for _, c := range s {
		if c == r {
			n++
		}
	}
	return n
}

// StripFence removes a surrounding markdown code fence from s.
// A known language tag after the opening fence ("```sql") is dropped with
// it; any other first line is kept as content.
// Text without a complete fence is returned trimmed but otherwise unchanged.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}

	body := s[3 : len(s)-3]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		first := strings.TrimSpace(body[:nl])
		if first == "" || fenceLanguages[strings.ToLower(first)] {
			body = body[nl+1:]
		}
	}
	return strings.TrimSpace(body)
}

// fenceLanguages are the info strings chat clients put after a fence
var fenceLanguages = map[string]bool{
	"text": true, "txt": true, "plaintext": true, "plain": true,
	"sql": true, "py": true, "python": true, "sh": true, "bash": true,
	"shell": true, "console": true, "md": true, "markdown": true,
	"yaml": true, "yml": true, "json": true, "ini": true, "toml": true,
	"dex": true, "dexscript": true, "go": true, "js": true, "ts": true,
}
