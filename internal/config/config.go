package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           int
	LogLevel       string
	RulesPath      string
	MatchThreshold float64
	DefaultYear    int
	Rules          Rules
}

// Rules holds the heuristic pattern tables the parsers run on. The defaults
// match the document layouts observed in production; a YAML rules file
// replaces any section it names so new layouts can be added without touching
// the algorithms.
type Rules struct {
	// SeniorityHints is the closed vocabulary of tenure-bucket labels that
	// delimit roster-line parsing.
	SeniorityHints []string `yaml:"seniority_hints"`
	// OccupationSuffixes mark tokens that belong to a job title when the
	// name/title boundary is ambiguous.
	OccupationSuffixes []string `yaml:"occupation_suffixes"`
	// HeaderPatterns reject table-header lines in roster PDFs.
	HeaderPatterns []string `yaml:"header_patterns"`
	// SkipPatterns reject page numbers, totals rows and similar furniture.
	SkipPatterns []string `yaml:"skip_patterns"`
	// NoticePatterns reject chat system notices (join/leave, recalls, room
	// image changes, links, live-stream announcements).
	NoticePatterns []string `yaml:"notice_patterns"`
	// DateColumns / TopicColumns are the accepted column-name synonyms in
	// tabular topic files. Matched case-insensitively.
	DateColumns  []string `yaml:"date_columns"`
	TopicColumns []string `yaml:"topic_columns"`
	// SpeakerMaxLen bounds the speaker capture before the colon delimiter.
	SpeakerMaxLen int `yaml:"speaker_max_len"`
}

// DefaultRules returns the built-in pattern tables.
func DefaultRules() Rules {
	return Rules{
		SeniorityHints: []string{
			"0~2年", "1~3年", "2~5年", "3~5年", "5~10年", "10年以上",
			"一年以內", "學生", "在學學生", "目前為學生", "未職業", "Entry-Level",
		},
		OccupationSuffixes: []string{"師", "員", "長", "主任", "醫生", "老師", "助理"},
		HeaderPatterns: []string{
			`^編號\s*姓名\s*背景\s*年資$`,
			`^編號\s+姓名(\s+\S+)*\s+年資$`,
		},
		SkipPatterns: []string{
			`^第\s*\d+\s*頁$`,
			`^-\s*\d+\s*-$`,
			`^(?i)page\s*\d+$`,
			`^共\s*\d+\s*[筆人]$`,
		},
		NoticePatterns: []string{
			`加入聊天`,
			`已收回訊息`,
			`變更了聊天室圖片`,
			`歡迎您參加`,
			`請您將顯示名稱`,
			`已將.*強制退出`,
			`已分享記事本`,
			`https?://`,
			`開始直播`,
		},
		DateColumns:   []string{"date", "日期", "時間"},
		TopicColumns:  []string{"topic", "主題"},
		SpeakerMaxLen: 20,
	}
}

func Load() (Config, error) {
	cfg := Config{
		Port:           envInt("ROLLCALL_PORT", 8760),
		LogLevel:       envStr("LOG_LEVEL", "info"),
		RulesPath:      envStr("ROLLCALL_CONFIG", ""),
		MatchThreshold: envFloat("MATCH_THRESHOLD", 0.85),
		DefaultYear:    envInt("DEFAULT_YEAR", 2025),
		Rules:          DefaultRules(),
	}

	if cfg.RulesPath != "" {
		data, err := os.ReadFile(cfg.RulesPath)
		if err != nil {
			return cfg, fmt.Errorf("read rules file: %w", err)
		}
		if err := cfg.Rules.merge(data); err != nil {
			return cfg, fmt.Errorf("parse rules file %s: %w", cfg.RulesPath, err)
		}
	}

	return cfg, nil
}

// merge decodes YAML into a fresh Rules and copies over every section the
// file actually set, leaving the defaults in place for the rest.
func (r *Rules) merge(data []byte) error {
	var in Rules
	if err := yaml.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.SeniorityHints != nil {
		r.SeniorityHints = in.SeniorityHints
	}
	if in.OccupationSuffixes != nil {
		r.OccupationSuffixes = in.OccupationSuffixes
	}
	if in.HeaderPatterns != nil {
		r.HeaderPatterns = in.HeaderPatterns
	}
	if in.SkipPatterns != nil {
		r.SkipPatterns = in.SkipPatterns
	}
	if in.NoticePatterns != nil {
		r.NoticePatterns = in.NoticePatterns
	}
	if in.DateColumns != nil {
		r.DateColumns = in.DateColumns
	}
	if in.TopicColumns != nil {
		r.TopicColumns = in.TopicColumns
	}
	if in.SpeakerMaxLen > 0 {
		r.SpeakerMaxLen = in.SpeakerMaxLen
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
