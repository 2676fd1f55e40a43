// Package textutil provides the whitespace canonicalization shared by every
// parser in the pipeline. All pattern tables assume normalized input.
package textutil

import (
	"regexp"
	"strings"
)

// Go's \s is ASCII-only; \p{Zs} picks up the Unicode space separators,
// in particular the ideographic space U+3000 common in LINE exports.
var spaceRun = regexp.MustCompile(`[\s\p{Zs}]+`)

// Normalize collapses any run of whitespace into a single ASCII space and
// trims leading/trailing whitespace. Idempotent, never fails.
func Normalize(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// Lines splits raw text on \r?\n, normalizes each line, and drops empties.
func Lines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if n := Normalize(l); n != "" {
			lines = append(lines, n)
		}
	}
	return lines
}
