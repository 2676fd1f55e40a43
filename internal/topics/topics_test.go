package topics

import (
	"testing"

	"github.com/seminarops/rollcall/internal/config"
)

func newTestBuilder() *Builder {
	return NewBuilder(config.DefaultRules(), 2025)
}

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"2025-3-5", "2025/03/05"},
		{"2025/03/05", "2025/03/05"},
		{"2025/3/5", "2025/03/05"},
		{"2025/03/05 14:00", "2025/03/05"},
		{"3/5", "2025/03/05"},
		{"12/31", "2025/12/31"},
		{"昨天", ""},
		{"", ""},
		{"3/5/extra", ""},
	}
	for _, c := range cases {
		if got := NormalizeDate(c.in, 2025); got != c.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeDate_ConfiguredYear(t *testing.T) {
	if got := NormalizeDate("3/5", 2024); got != "2024/03/05" {
		t.Errorf("NormalizeDate with year 2024 = %q", got)
	}
}

func TestFromRows_ColumnSynonyms(t *testing.T) {
	b := newTestBuilder()
	rows := []map[string]string{
		{"date": "2025-3-5", "topic": "開場介紹"},
		{"日期": "2025/3/6", "主題": "臨床分享"},
		{"時間": "3/7", "topic": "提問時間"},
	}
	entries := b.FromRows(rows)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %+v", len(entries), entries)
	}
	want := []Entry{
		{Date: "2025/03/05", Topic: "開場介紹"},
		{Date: "2025/03/06", Topic: "臨床分享"},
		{Date: "2025/03/07", Topic: "提問時間"},
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestFromRows_DropsUnparseableDates(t *testing.T) {
	b := newTestBuilder()
	rows := []map[string]string{
		{"date": "not a date", "topic": "x"},
		{"topic": "no date column at all"},
		{"date": "2025/3/5", "topic": "keep"},
	}
	entries := b.FromRows(rows)
	if len(entries) != 1 || entries[0].Topic != "keep" {
		t.Errorf("expected only the valid row, got %+v", entries)
	}
}

func TestFromRows_DuplicateDateFirstWins(t *testing.T) {
	b := newTestBuilder()
	rows := []map[string]string{
		{"date": "2025/3/5", "topic": "first"},
		{"date": "2025-03-05", "topic": "second"},
	}
	entries := b.FromRows(rows)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Topic != "first" {
		t.Errorf("kept topic %q, want first", entries[0].Topic)
	}
}

func TestFromRows_EmptyTopicAllowed(t *testing.T) {
	b := newTestBuilder()
	entries := b.FromRows([]map[string]string{{"date": "2025/3/5"}})
	if len(entries) != 1 || entries[0].Topic != "" {
		t.Errorf("expected date kept with empty topic, got %+v", entries)
	}
}

func TestFromText_TimeTopicShape(t *testing.T) {
	b := newTestBuilder()
	entries := b.FromText([]string{
		"2025/3/5 14:00 開場介紹 主持人發言",
		"無關的一行",
		"會議 2025-3-6 09:30 臨床分享",
	})
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
	if entries[0] != (Entry{Date: "2025/03/05", Topic: "開場介紹"}) {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1] != (Entry{Date: "2025/03/06", Topic: "臨床分享"}) {
		t.Errorf("entry 1 = %+v", entries[1])
	}
}

func TestFromText_DateWithoutTopicKept(t *testing.T) {
	b := newTestBuilder()
	entries := b.FromText([]string{"2025/3/5 無時間標記的內容"})
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Date != "2025/03/05" || entries[0].Topic != "" {
		t.Errorf("entry = %+v, want date kept with empty topic", entries[0])
	}
}

func TestLookup(t *testing.T) {
	m := Lookup([]Entry{{Date: "2025/03/05", Topic: "開場介紹"}})
	if m["2025/03/05"] != "開場介紹" {
		t.Errorf("lookup = %v", m)
	}
	if _, ok := m["2025/03/06"]; ok {
		t.Error("unexpected entry for missing date")
	}
}
