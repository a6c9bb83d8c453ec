package config

// Patterns holds the keyword and header lists driving extraction. Every entry
// is a regular expression; list order is significant for headers.
type Patterns struct {
	TaskKeywords     []string `json:"task_keywords,omitempty"`
	SkillKeywords    []string `json:"skill_keywords,omitempty"`
	MustHeaders      []string `json:"must_headers,omitempty"`
	WantHeaders      []string `json:"want_headers,omitempty"`
	MinSentenceChars int      `json:"min_sentence_chars,omitempty" validate:"gte=0"`
}

// DefaultPatterns returns the lists tuned for Japanese job postings.
func DefaultPatterns() Patterns {
	return Patterns{
		TaskKeywords: []string{
			"開発", "設計", "実装", "運用", "推進", "改善", "構築",
			"分析", "要件", "連携", "最適化", "評価", "検証", "構成",
		},
		SkillKeywords: []string{
			"経験", "知識", "理解", "能力", "スキル", "開発", "運用", "設計",
			"英語", "マネジメント", "実装", "クラウド",
			"AWS", "GCP", "Python", "Go", "Java", "React", "SQL", "RDBMS",
			"Docker", "Kubernetes", "Terraform", "Datadog", "Elasticsearch",
		},
		MustHeaders: []string{
			`【?必須(?:（?MUST）?)?】?`,
			`必須(?:（?MUST）?)?`,
			`MUST`,
		},
		WantHeaders: []string{
			`【?歓迎(?:（?WANT）?)?】?`,
			`歓迎(?:（?WANT）?)?`,
			`WANT`,
			`あると望ましい`,
		},
		MinSentenceChars: 6,
	}
}

// mergeWithDefaults fills nil lists from defaults. An explicitly empty list
// in the config file is kept and disables that list.
func (p Patterns) mergeWithDefaults(defaults Patterns) Patterns {
	if p.TaskKeywords == nil {
		p.TaskKeywords = defaults.TaskKeywords
	}
	if p.SkillKeywords == nil {
		p.SkillKeywords = defaults.SkillKeywords
	}
	if p.MustHeaders == nil {
		p.MustHeaders = defaults.MustHeaders
	}
	if p.WantHeaders == nil {
		p.WantHeaders = defaults.WantHeaders
	}
	if p.MinSentenceChars == 0 {
		p.MinSentenceChars = defaults.MinSentenceChars
	}
	return p
}
