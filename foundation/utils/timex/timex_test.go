// File: timex_test.go
// Title: Time Utilities Tests
// Description: Tests for flexible parsing and compact duration formatting.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial test implementation with comprehensive coverage
// - 2026-10-17 v0.2.0: Dashed date variants and month name casing

package timex

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		wantErr  bool
		expected string
	}{
		{"RFC3339", "2023-12-25T15:30:45Z", false, "2023-12-25T15:30:45Z"},
		{"ISO8601 offset", "2023-12-25T15:30:45+02:00", false, "2023-12-25T13:30:45Z"},
		{"business datetime", "2023-12-25 15:30:45", false, "2023-12-25T15:30:45Z"},
		{"business date", "2023-12-25", false, "2023-12-25T00:00:00Z"},
		{"no padding", "2023-1-5", false, "2023-01-05T00:00:00Z"},
		{"month first dashed", "05-06-2024", false, "2024-05-06T00:00:00Z"},
		{"month first unpadded", "2-1-2006", false, "2006-02-01T00:00:00Z"},
		{"day first dashed", "25-12-2023", false, "2023-12-25T00:00:00Z"},
		{"day first unpadded", "13-1-2024", false, "2024-01-13T00:00:00Z"},
		{"lower-case month", "25-dec-2023", false, "2023-12-25T00:00:00Z"},
		{"short date", "12/25/2023", false, "2023-12-25T00:00:00Z"},
		{"display date", "December 25, 2023", false, "2023-12-25T00:00:00Z"},
		{"surrounding space", "  2023-12-25 ", false, "2023-12-25T00:00:00Z"},
		{"empty string", "", true, ""},
		{"plain word", "germany", true, ""},
		{"number", "12", true, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Parse(%q) = %v, want error", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tc.input, err)
			}
			if s := got.UTC().Format(time.RFC3339); s != tc.expected {
				t.Errorf("Parse(%q) = %s, want %s", tc.input, s, tc.expected)
			}
		})
	}
}

func TestIsDate(t *testing.T) {
	if !IsDate("2024-05-01") {
		t.Error("IsDate(2024-05-01) = false")
	}
	if IsDate("true") {
		t.Error("IsDate(true) = true")
	}
}

func TestFormatDurationCompact(t *testing.T) {
	testCases := []struct {
		input    time.Duration
		expected string
	}{
		{0, "0s"},
		{1500 * time.Microsecond, "1ms"},
		{250 * time.Microsecond, "250µs"},
		{65 * time.Second, "1m 5s"},
		{2*time.Hour + 3*time.Second, "2h 3s"},
		{-90 * time.Second, "-1m 30s"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			if got := FormatDurationCompact(tc.input); got != tc.expected {
				t.Errorf("FormatDurationCompact(%v) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}
