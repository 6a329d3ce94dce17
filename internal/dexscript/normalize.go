package dexscript

import (
	"regexp"
	"strings"

	"github.com/msto63/dexcomx/foundation/utils/stringx"
)

var (
	separatorPattern = regexp.MustCompile(`\s*(?:>|::|=>)\s*`)
	runPrefixPattern = regexp.MustCompile(`(?i)^(?:o\.)?run\b`)
)

// CommentPrefix marks a line that is not executed
const CommentPrefix = "--"

// CleanLine trims a raw line and strips a leading "run" or "o.run".
// It returns "" for lines that should be dropped.
func CleanLine(line string) string {
	line = strings.Trim(strings.TrimSpace(line), "`")
	line = strings.TrimSpace(line)
	line = strings.TrimSpace(runPrefixPattern.ReplaceAllString(line, ""))
	if line == "." {
		return ""
	}
	return line
}

// RemoveCodeMarkdown strips a surrounding ``` fence and its language tag
func RemoveCodeMarkdown(text string) string {
	return stringx.StripFence(text)
}

// SplitScript cleans every line of text and splits it into raw tokens.
// Blank and comment lines are dropped without a placeholder. A line made
// only of separators stays as an empty entry so that it keeps its number.
func SplitScript(text string) [][]string {
	var lines [][]string
	for _, raw := range stringx.SplitLines(text) {
		line := CleanLine(raw)
		if line == "" || strings.HasPrefix(line, CommentPrefix) {
			continue
		}

		var tokens []string
		for _, tok := range separatorPattern.Split(line, -1) {
			if tok = strings.TrimSpace(tok); tok != "" {
				tokens = append(tokens, tok)
			}
		}
		lines = append(lines, tokens)
	}
	return lines
}
