package models

import "time"

// Quote is the canonical unit produced by one acquisition cycle
type Quote struct {
	Text     string `json:"text"`
	Author   string `json:"author"`   // "Unknown" or empty means no author
	Category string `json:"category"` // defaults to "General" when the source has none
}

// AuthorSummary is the enrichment result for a quote's author
type AuthorSummary struct {
	Summary   string `json:"summary"`
	SourceURL string `json:"source_url,omitempty"` // read-more link, only set when truncated
	Truncated bool   `json:"truncated"`
}

// Sentiment holds a sentiment classification
type Sentiment struct {
	Label   string `json:"label"`   // "positive", "neutral", "negative"
	Display string `json:"display"` // "Positive", "Neutral", "Negative"
}

// Complexity holds a complexity classification
type Complexity struct {
	Level string  `json:"level"` // "Simple", "Medium", "Complex"
	Score float64 `json:"score"`
}

// AnalyticsResult holds the derived metrics for a quote's text.
// Recomputed every time the current quote changes, never updated in place.
type AnalyticsResult struct {
	WordCount   int        `json:"word_count"`
	ReadingTime string     `json:"reading_time"` // "12s" or "3min"
	Sentiment   Sentiment  `json:"sentiment"`
	Complexity  Complexity `json:"complexity"`
	Themes      []string   `json:"themes"` // at least 1, at most 3, declaration order
}

// Reflection holds the journaling prompts generated for a quote
type Reflection struct {
	Application string   `json:"application"`
	Prompts     []string `json:"prompts"`
}

// SavedQuote is a quote the user kept, as stored locally
type SavedQuote struct {
	ID      string    `json:"id"`
	Quote   Quote     `json:"quote"`
	SavedAt time.Time `json:"saved_at"`
}

// JournalEntry is a user note attached to a saved quote
type JournalEntry struct {
	Note string    `json:"note"`
	Date time.Time `json:"date"`
}

// DailyQuote is the payload sent through notification channels
type DailyQuote struct {
	GeneratedAt time.Time        `json:"generated_at"`
	Quote       Quote            `json:"quote"`
	Analytics   *AnalyticsResult `json:"analytics,omitempty"`
	UsedBackup  bool             `json:"used_backup"`
}

// Key identifies a quote for journal and duplicate lookups,
// matching the text|author convention of the stored data.
func (q Quote) Key() string {
	return q.Text + "|" + q.Author
}
