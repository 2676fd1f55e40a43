// Package merge assembles the final row set: one row per roster entry,
// annotated with the person's first question, the date it was asked, and the
// topic under discussion that day.
package merge

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/seminarops/rollcall/internal/roster"
	"github.com/seminarops/rollcall/internal/topics"
	"github.com/seminarops/rollcall/internal/transcript"
)

// Row is the unit a human reviewer edits and the unit serialized to the
// export file.
type Row struct {
	Name       string  `json:"name"`
	Title      string  `json:"title"`
	Seniority  string  `json:"seniority"`
	Question   string  `json:"question"`
	Date       string  `json:"date"`
	Topic      string  `json:"topic"`
	MatchScore float64 `json:"matchScore"`
}

// Run is one completed merge. The ID gives reviewers a handle for reporting
// a specific run.
type Run struct {
	ID   uuid.UUID `json:"run_id"`
	Rows []Row     `json:"rows"`
}

// identityHint matches a parenthetical "title（seniority）" pattern inside a
// question, e.g. "護理師（5~10年）想請問…".
var (
	identityHint = regexp.MustCompile(`(\S{1,10})[（(]([^（）()]{1,15})[）)]`)
	tenureRange  = regexp.MustCompile(`\d+\s*[~～]\s*\d+`)
)

// NewRun assembles rows for the whole roster, in roster order, and assigns a
// fresh run ID.
func NewRun(entries []roster.Entry, results map[string]transcript.Result, topicEntries []topics.Entry) Run {
	return Run{ID: uuid.New(), Rows: Assemble(entries, results, topicEntries)}
}

// Assemble produces exactly one Row per roster entry, in roster order. An
// entry without a match gets empty question/date/topic and score 0.
func Assemble(entries []roster.Entry, results map[string]transcript.Result, topicEntries []topics.Entry) []Row {
	byDate := topics.Lookup(topicEntries)

	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		row := Row{Name: e.Name, Title: e.Title, Seniority: e.Seniority}
		if r, ok := results[e.Name]; ok {
			row.Question = r.Question
			row.Date = r.Date
			row.MatchScore = r.Score
			if r.Date != "" {
				row.Topic = byDate[r.Date]
			}
		}
		backfillIdentity(&row)
		rows = append(rows, row)
	}
	return rows
}

// backfillIdentity fills an empty title or seniority from a parenthetical
// identity hint inside the captured question. The inner token counts as
// seniority only when it reads like a tenure expression; existing non-empty
// fields are never overwritten.
func backfillIdentity(row *Row) {
	if row.Question == "" || (row.Title != "" && row.Seniority != "") {
		return
	}
	m := identityHint.FindStringSubmatch(row.Question)
	if m == nil {
		return
	}
	title, inner := m[1], strings.TrimSpace(m[2])
	if row.Title == "" {
		row.Title = title
	}
	if row.Seniority == "" && looksLikeTenure(inner) {
		row.Seniority = inner
	}
}

func looksLikeTenure(s string) bool {
	return strings.Contains(s, "年") || tenureRange.MatchString(s)
}
