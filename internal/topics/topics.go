// Package topics builds the date → topic lookup from either a tabular file
// with loosely named columns or unstructured transcript-style text.
package topics

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/seminarops/rollcall/internal/config"
)

// ErrNoTopics reports a topic file that decoded fine but contained no row
// with a resolvable date.
var ErrNoTopics = errors.New("no topic rows with a valid date")

// Entry maps one date (YYYY/MM/DD) to the topic under discussion that day.
type Entry struct {
	Date  string `json:"date"`
	Topic string `json:"topic"`
}

var (
	fullDate = regexp.MustCompile(`^(\d{4})/(\d{1,2})/(\d{1,2})`)
	bareDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
	// embeddedDate finds a date token anywhere in a text line.
	embeddedDate = regexp.MustCompile(`\d{4}[/\-]\d{1,2}[/\-]\d{1,2}`)
	// timeTopic is the "HH:MM <topic>" shape that follows a date in
	// agenda-style transcript lines.
	timeTopic = regexp.MustCompile(`^(\d{1,2}:\d{2})\s+(\S+)`)
)

// NormalizeDate canonicalizes YYYY/M/D, YYYY-M-D, or bare M/D (year
// defaulted) to YYYY/MM/DD with zero-padded month and day. Anything else
// normalizes to "".
func NormalizeDate(s string, defaultYear int) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "-", "/")
	if m := fullDate.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%s/%s/%s", m[1], pad2(m[2]), pad2(m[3]))
	}
	if m := bareDate.FindStringSubmatch(s); m != nil {
		return fmt.Sprintf("%d/%s/%s", defaultYear, pad2(m[1]), pad2(m[2]))
	}
	return ""
}

type Builder struct {
	defaultYear int
	dateCols    []string
	topicCols   []string
}

func NewBuilder(rules config.Rules, defaultYear int) *Builder {
	return &Builder{
		defaultYear: defaultYear,
		dateCols:    lowered(rules.DateColumns),
		topicCols:   lowered(rules.TopicColumns),
	}
}

// FromRows reads a tabular dataset whose column names vary across the known
// synonyms. Rows without a resolvable date are dropped.
func (b *Builder) FromRows(rows []map[string]string) []Entry {
	var entries []Entry
	for _, row := range rows {
		date := NormalizeDate(b.pick(row, b.dateCols), b.defaultYear)
		if date == "" {
			continue
		}
		entries = append(entries, Entry{Date: date, Topic: b.pick(row, b.topicCols)})
	}
	return Dedupe(entries)
}

// FromText scans unstructured lines for embedded dates. A "HH:MM <token>"
// shape right after the date supplies the topic; without it the date is kept
// with an empty topic, favoring date coverage over topic completeness.
func (b *Builder) FromText(lines []string) []Entry {
	var entries []Entry
	for _, line := range lines {
		loc := embeddedDate.FindStringIndex(line)
		if loc == nil {
			continue
		}
		date := NormalizeDate(line[loc[0]:loc[1]], b.defaultYear)
		if date == "" {
			continue
		}
		topic := ""
		if m := timeTopic.FindStringSubmatch(strings.TrimSpace(line[loc[1]:])); m != nil {
			topic = m[2]
		}
		entries = append(entries, Entry{Date: date, Topic: topic})
	}
	return Dedupe(entries)
}

// Dedupe retains at most one entry per distinct date, first occurrence wins.
func Dedupe(entries []Entry) []Entry {
	var out []Entry
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.Date] {
			continue
		}
		seen[e.Date] = true
		out = append(out, e)
	}
	return out
}

// Lookup builds the date-keyed topic map for the merge join.
func Lookup(entries []Entry) map[string]string {
	m := make(map[string]string, len(entries))
	for _, e := range entries {
		if _, ok := m[e.Date]; !ok {
			m[e.Date] = e.Topic
		}
	}
	return m
}

func (b *Builder) pick(row map[string]string, cols []string) string {
	for _, c := range cols {
		if v := strings.TrimSpace(row[c]); v != "" {
			return v
		}
	}
	return ""
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func lowered(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToLower(s)
	}
	return out
}
