// File: timex.go
// Title: Core Time Utilities
// Description: Parses timestamps in the layouts operators commonly type and
//              formats durations compactly for run summaries.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with comprehensive time utilities
// - 2025-07-26 v0.1.1: Added FormatDurationCompact, European date parsing
// - 2026-10-17 v0.2.0: Layout table extended with dashed date variants,
//   month first with a day-first fallback

package timex

import (
	"fmt"
	"strings"
	"time"
)

// Common layouts
const (
	ISO8601          = "2006-01-02T15:04:05Z07:00"
	ISO8601DateTime  = "2006-01-02T15:04:05"
	BusinessDate     = "2006-01-02"
	BusinessDateTime = "2006-01-02 15:04:05"
	ShortDate        = "01/02/2006"
	ShortDateTime    = "01/02/2006 15:04"
	DisplayDate      = "January 2, 2006"
	CompactDate      = "20060102"
	LogTimestamp     = "2006-01-02 15:04:05.000"
)

var layouts = []string{
	time.RFC3339Nano,
	ISO8601,
	ISO8601DateTime,
	LogTimestamp,
	BusinessDateTime,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	BusinessDate,
	"2006-1-2 15:04:05",
	"2006-1-2 15:04",
	"2006-1-2",
	"01-02-2006",
	"1-2-2006",
	"02-01-2006",
	"2-1-2006",
	"02-Jan-2006",
	"2006-Jan-02",
	ShortDateTime,
	ShortDate,
	"2.1.2006",
	DisplayDate,
	CompactDate,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
}

// Parse attempts to parse value with each known layout in turn.
// Month names are matched case-insensitively. Ambiguous dashed dates such
// as 05-06-2024 are read month first.
func Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty time string")
	}

	candidates := []string{value}
	if titled := titleMonths(value); titled != value {
		candidates = append(candidates, titled)
	}

	for _, candidate := range candidates {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				return t, nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse time string: %s", value)
}

// IsDate reports whether Parse accepts value
func IsDate(value string) bool {
	_, err := Parse(value)
	return err == nil
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june", "july",
	"august", "september", "october", "november", "december",
	"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "oct", "nov", "dec",
}

// titleMonths rewrites lower-case month names so time.Parse can read them
func titleMonths(value string) string {
	lower := strings.ToLower(value)
	for _, name := range monthNames {
		idx := strings.Index(lower, name)
		if idx < 0 {
			continue
		}
		titled := strings.ToUpper(name[:1]) + name[1:]
		return value[:idx] + titled + value[idx+len(name):]
	}
	return value
}

// FormatDurationCompact formats a duration in compact form, e.g. "1m 5s" or "12ms"
func FormatDurationCompact(d time.Duration) string {
	if d == 0 {
		return "0s"
	}
	if d < 0 {
		return "-" + FormatDurationCompact(-d)
	}

	var parts []string
	if hours := int(d.Hours()); hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
		d -= time.Duration(hours) * time.Hour
	}
	if minutes := int(d.Minutes()); minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
		d -= time.Duration(minutes) * time.Minute
	}
	if seconds := int(d.Seconds()); seconds > 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
		d -= time.Duration(seconds) * time.Second
	}
	if len(parts) == 0 {
		if ms := d.Milliseconds(); ms > 0 {
			return fmt.Sprintf("%dms", ms)
		}
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return strings.Join(parts, " ")
}
