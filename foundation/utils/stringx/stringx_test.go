// File: stringx_test.go
// Title: Unit Tests for Core String Utilities
// Description: Unit tests for the stringx helpers, including Unicode input.
// Author: msto63
// Version: v0.3.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial test implementation
// - 2026-10-17 v0.3.0: Fence and rune counting tests

package stringx

import (
	"reflect"
	"testing"
)

func TestIsBlank(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"empty string", "", true},
		{"spaces", "   ", true},
		{"tabs and newlines", "\t\n\r", true},
		{"text", " a ", false},
		{"unicode", "こんにちは", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBlank(tt.input); got != tt.expected {
				t.Errorf("IsBlank(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			if got := IsNotBlank(tt.input); got == tt.expected {
				t.Errorf("IsNotBlank(%q) = %v", tt.input, got)
			}
		})
	}
}

func TestFirstNonBlank(t *testing.T) {
	if got := FirstNonBlank("", "  ", "x", "y"); got != "x" {
		t.Errorf("FirstNonBlank() = %q, want x", got)
	}
	if got := FirstNonBlank(" "); got != "" {
		t.Errorf("FirstNonBlank() = %q, want empty", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		ellipsis string
		expected string
	}{
		{"fits", "hello", 10, "...", "hello"},
		{"cut", "hello world", 8, "...", "hello..."},
		{"unicode", "こんにちは世界", 4, "…", "こんに…"},
		{"ellipsis too long", "hello", 2, "...", "he"},
		{"zero", "hello", 0, "...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxLen, tt.ellipsis); got != tt.expected {
				t.Errorf("Truncate() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("a\r\nb\rc\nd")
	want := []string{"a", "b", "c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLines() = %v, want %v", got, want)
	}
}

func TestCountRune(t *testing.T) {
	if got := CountRune("2024-05-01", '-'); got != 2 {
		t.Errorf("CountRune() = %d, want 2", got)
	}
}

func TestStripFence(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "view > ball > germany", "view > ball > germany"},
		{"fenced", "```\nview > ball\n```", "view > ball"},
		{"language tag", "```sql\nview > ball\nls > regime\n```", "view > ball\nls > regime"},
		{"upper-case tag", "```Python\nview > ball\n```", "view > ball"},
		{"command after fence", "```ls\nview > ball\n```", "ls\nview > ball"},
		{"alias after fence", "```count\nls > regime\n```", "count\nls > regime"},
		{"single line fence", "```view > ball```", "view > ball"},
		{"unterminated", "```view > ball", "```view > ball"},
		{"surrounding space", "  ```\nls > ball\n```  ", "ls > ball"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripFence(tt.input); got != tt.expected {
				t.Errorf("StripFence(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
