// Package roster turns flattened roster-PDF text into structured entries.
// The extraction is heuristic and best-effort: a line that fits no known
// shape is skipped, never an error.
package roster

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/seminarops/rollcall/internal/config"
	"github.com/seminarops/rollcall/internal/textutil"
)

// ErrNoRows reports a roster file that decoded fine but yielded zero entries,
// which usually means the PDF layout defeated the line heuristics.
var ErrNoRows = errors.New("no roster rows extracted")

// Entry is one person on the roster. Name uniquely identifies a person
// within one run.
type Entry struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	Seniority string `json:"seniority"`
}

type Extractor struct {
	hints    []string
	suffixes []string
	headers  []*regexp.Regexp
	skips    []*regexp.Regexp
}

func NewExtractor(rules config.Rules) *Extractor {
	e := &Extractor{
		hints:    rules.SeniorityHints,
		suffixes: rules.OccupationSuffixes,
	}
	for _, p := range rules.HeaderPatterns {
		e.headers = append(e.headers, regexp.MustCompile(p))
	}
	for _, p := range rules.SkipPatterns {
		e.skips = append(e.skips, regexp.MustCompile(p))
	}
	return e
}

// Extract parses normalized lines into entries, dropping duplicate names
// (first occurrence wins). An empty result is expected for layouts the
// heuristics cannot read.
func (e *Extractor) Extract(lines []string) []Entry {
	var entries []Entry
	seen := make(map[string]bool)
	for _, line := range lines {
		entry, ok := e.tryLine(textutil.Normalize(line))
		if !ok || seen[entry.Name] {
			continue
		}
		seen[entry.Name] = true
		entries = append(entries, entry)
	}
	return entries
}

func (e *Extractor) tryLine(s string) (Entry, bool) {
	if s == "" || e.isFurniture(s) {
		return Entry{}, false
	}

	if left, hint, ok := e.findSeniority(s); ok {
		return e.splitNameTitle(left, hint)
	}

	return e.positionalFallback(s)
}

// isFurniture rejects table headers, page numbers, totals rows, and lines
// with no letters at all.
func (e *Extractor) isFurniture(s string) bool {
	for _, re := range e.headers {
		if re.MatchString(s) {
			return true
		}
	}
	for _, re := range e.skips {
		if re.MatchString(s) {
			return true
		}
	}
	return strings.IndexFunc(s, unicode.IsLetter) < 0
}

// findSeniority locates a tenure label searching from the end of the line
// backward. A label anchored at the line end wins over one found mid-line;
// the return value is the text left of the label.
func (e *Extractor) findSeniority(s string) (left, hint string, ok bool) {
	for _, h := range e.hints {
		if strings.HasSuffix(s, h) {
			return strings.TrimSpace(s[:len(s)-len(h)]), h, true
		}
	}
	tokens := strings.Fields(s)
	for i := len(tokens) - 1; i >= 0; i-- {
		for _, h := range e.hints {
			if tokens[i] == h {
				return strings.Join(tokens[:i], " "), h, true
			}
		}
	}
	return "", "", false
}

// splitNameTitle divides the tokens left of the seniority label into name
// and title. The leading row number, if any, is discarded. The title is the
// last token plus any preceding run of occupation-suffix tokens; everything
// before it concatenates (no separator) into the name.
func (e *Extractor) splitNameTitle(left, hint string) (Entry, bool) {
	tokens := strings.Fields(left)
	if len(tokens) > 0 && isInteger(tokens[0]) {
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return Entry{}, false
	}
	if len(tokens) == 1 {
		return Entry{Name: tokens[0], Seniority: hint}, true
	}

	start := len(tokens) - 1
	for start > 1 && e.hasOccupationSuffix(tokens[start-1]) {
		start--
	}
	return Entry{
		Name:      strings.Join(tokens[:start], ""),
		Title:     strings.Join(tokens[start:], ""),
		Seniority: hint,
	}, true
}

// positionalFallback handles rows whose tenure label is not in the
// vocabulary: with a leading row number and at least four tokens, assume
// number / name / title… / seniority by position.
func (e *Extractor) positionalFallback(s string) (Entry, bool) {
	tokens := strings.Fields(s)
	if len(tokens) < 4 || !isInteger(tokens[0]) {
		return Entry{}, false
	}
	name := tokens[1]
	if !plausibleName(name) {
		return Entry{}, false
	}
	return Entry{
		Name:      name,
		Title:     strings.Join(tokens[2:len(tokens)-1], ""),
		Seniority: tokens[len(tokens)-1],
	}, true
}

func (e *Extractor) hasOccupationSuffix(token string) bool {
	for _, suf := range e.suffixes {
		if strings.HasSuffix(token, suf) {
			return true
		}
	}
	return false
}

func isInteger(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// plausibleName accepts 2–10 CJK characters, or anything 2–50 runes long.
func plausibleName(s string) bool {
	runes := []rune(s)
	n := len(runes)
	if n >= 2 && n <= 10 {
		cjk := true
		for _, r := range runes {
			if !unicode.Is(unicode.Han, r) {
				cjk = false
				break
			}
		}
		if cjk {
			return true
		}
	}
	return n >= 2 && n <= 50
}
