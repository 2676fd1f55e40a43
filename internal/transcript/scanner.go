// Package transcript walks a normalized chat log and finds, for each roster
// member, the first question-shaped message attributed to them.
package transcript

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/seminarops/rollcall/internal/config"
	"github.com/seminarops/rollcall/internal/match"
	"github.com/seminarops/rollcall/internal/topics"
)

// Result is one person's first qualifying question. Score is the identity
// match confidence: 1 for an exact name hit.
type Result struct {
	Question string
	Date     string
	Score    float64
}

// candidate is a question-shaped line kept for the fallback pass.
type candidate struct {
	speaker string
	content string
	date    string
}

var embeddedDate = regexp.MustCompile(`\d{4}[/\-]\d{1,2}[/\-]\d{1,2}|\b\d{1,2}/\d{1,2}\b`)

type Scanner struct {
	matcher     *match.Matcher
	notices     []*regexp.Regexp
	colonSplit  *regexp.Regexp
	spaceSplit  *regexp.Regexp
	defaultYear int
}

func NewScanner(rules config.Rules, threshold float64, defaultYear int) *Scanner {
	s := &Scanner{
		matcher:     match.New(threshold),
		colonSplit:  regexp.MustCompile(fmt.Sprintf(`^(.{1,%d}?)[：:]\s*(.*)$`, rules.SpeakerMaxLen)),
		spaceSplit:  regexp.MustCompile(fmt.Sprintf(`^(.{1,%d})\s+(.*)$`, rules.SpeakerMaxLen)),
		defaultYear: defaultYear,
	}
	for _, p := range rules.NoticePatterns {
		s.notices = append(s.notices, regexp.MustCompile(p))
	}
	return s
}

// Scan runs two passes over the lines. The first pass matches speakers
// against the full roster; the second re-scans the question-shaped lines for
// the names the first pass left unresolved, with that smaller pool as the
// only candidates. The result map inserts on absence only, so the first
// qualifying question per person wins.
func (s *Scanner) Scan(lines []string, names []string) map[string]Result {
	results := make(map[string]Result, len(names))

	var candidates []candidate
	date := ""
	for _, line := range lines {
		// Date headers and inline dates both advance the current date,
		// question or not.
		if d := s.extractDate(line); d != "" {
			date = d
		}
		if s.isNotice(line) {
			continue
		}
		speaker, content, ok := s.splitSpeaker(line)
		if !ok || !hasQuestionMark(content) {
			continue
		}
		candidates = append(candidates, candidate{speaker: speaker, content: content, date: date})

		name, score, ok := s.matcher.Resolve(speaker, names)
		if !ok {
			continue
		}
		if _, taken := results[name]; !taken {
			results[name] = Result{Question: content, Date: date, Score: score}
		}
	}

	s.fallbackPass(candidates, names, results)
	return results
}

// fallbackPass retries the stored question lines against only the names the
// first pass missed. The narrower pool makes ambiguous short speakers
// resolvable that the roster-wide pass could not place.
func (s *Scanner) fallbackPass(candidates []candidate, names []string, results map[string]Result) {
	var unmatched []string
	for _, n := range names {
		if _, ok := results[n]; !ok {
			unmatched = append(unmatched, n)
		}
	}
	if len(unmatched) == 0 {
		return
	}

	for _, c := range candidates {
		name, score, ok := s.matcher.Resolve(c.speaker, unmatched)
		if !ok {
			continue
		}
		if _, taken := results[name]; taken {
			continue
		}
		results[name] = Result{Question: c.content, Date: c.date, Score: score}

		remaining := unmatched[:0]
		for _, n := range unmatched {
			if n != name {
				remaining = append(remaining, n)
			}
		}
		unmatched = remaining
		if len(unmatched) == 0 {
			return
		}
	}
}

func (s *Scanner) isNotice(line string) bool {
	for _, re := range s.notices {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// splitSpeaker divides a line into (speaker, content), preferring the colon
// delimiter over a plain first-whitespace split.
func (s *Scanner) splitSpeaker(line string) (string, string, bool) {
	m := s.colonSplit.FindStringSubmatch(line)
	if m == nil {
		m = s.spaceSplit.FindStringSubmatch(line)
	}
	if m == nil {
		return "", "", false
	}
	speaker := strings.TrimSpace(m[1])
	content := strings.TrimSpace(m[2])
	if speaker == "" || content == "" {
		return "", "", false
	}
	return speaker, content, true
}

func (s *Scanner) extractDate(line string) string {
	token := embeddedDate.FindString(line)
	if token == "" {
		return ""
	}
	return topics.NormalizeDate(token, s.defaultYear)
}

func hasQuestionMark(s string) bool {
	return strings.ContainsAny(s, "?？")
}
