package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/quotify/quotifyd/internal/models"
)

// Words-per-minute assumption for the reading time estimate
const readingSpeedWPM = 200

var positiveWords = []string{
	"love", "happy", "great", "beautiful", "wonderful", "amazing", "best",
	"excellent", "fantastic", "perfect", "joy", "peace", "hope", "success",
	"win", "achievement",
}

var negativeWords = []string{
	"hate", "sad", "terrible", "awful", "horrible", "worst", "bad",
	"failure", "lost", "pain", "suffering", "death", "fear", "angry", "mad",
}

// themePattern maps a theme label to the keywords that trigger it.
// Order matters: themes are reported in declaration order.
type themePattern struct {
	label    string
	keywords []string
}

var themePatterns = []themePattern{
	{"Wisdom", []string{"wisdom", "knowledge", "learn", "understand", "truth"}},
	{"Love", []string{"love", "heart", "care", "affection", "compassion"}},
	{"Success", []string{"success", "achieve", "win", "victory", "goal", "dream"}},
	{"Time", []string{"time", "moment", "past", "future", "present", "now"}},
	{"Courage", []string{"courage", "brave", "fear", "risk", "bold"}},
	{"Work", []string{"work", "effort", "labor", "persistence", "hard"}},
	{"Life", []string{"life", "live", "experience", "journey", "path"}},
	{"Hope", []string{"hope", "faith", "believe", "optimism", "positive"}},
	{"Change", []string{"change", "grow", "evolve", "transform", "become"}},
}

// Analyze derives every metric for one quote text
func Analyze(text string) models.AnalyticsResult {
	return models.AnalyticsResult{
		WordCount:   WordCount(text),
		ReadingTime: ReadingTime(text),
		Sentiment:   AnalyzeSentiment(text),
		Complexity:  AnalyzeComplexity(text),
		Themes:      DetectThemes(text),
	}
}

// WordCount counts whitespace-delimited non-empty tokens
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ReadingTime estimates how long the text takes to read at 200 wpm.
// Reported in whole seconds (rounded up) when at most a minute, otherwise
// in whole minutes (rounded up).
func ReadingTime(text string) string {
	words := WordCount(text)
	minutes := float64(words) / readingSpeedWPM
	seconds := int(math.Ceil(minutes * 60))

	if seconds <= 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return fmt.Sprintf("%dmin", int(math.Ceil(minutes)))
}

// AnalyzeSentiment classifies text by counting words that contain an entry
// from the positive or negative keyword lists. Matching is substring, not
// whole-word, so a word may count toward both lists.
func AnalyzeSentiment(text string) models.Sentiment {
	words := strings.Fields(strings.ToLower(text))

	positiveCount := 0
	negativeCount := 0

	for _, word := range words {
		if containsAny(word, positiveWords) {
			positiveCount++
		}
		if containsAny(word, negativeWords) {
			negativeCount++
		}
	}

	total := positiveCount + negativeCount
	if total == 0 {
		return models.Sentiment{Label: "neutral", Display: "Neutral"}
	}

	ratio := float64(positiveCount) / float64(total)
	if ratio > 0.6 {
		return models.Sentiment{Label: "positive", Display: "Positive"}
	}
	if ratio < 0.4 {
		return models.Sentiment{Label: "negative", Display: "Negative"}
	}
	return models.Sentiment{Label: "neutral", Display: "Neutral"}
}

// AnalyzeComplexity scores text on average sentence length and average word
// length, weighted equally. Empty or punctuation-only input is Simple with
// score 0 rather than a division by zero.
func AnalyzeComplexity(text string) models.Complexity {
	words := strings.Fields(text)
	sentences := splitSentences(text)

	if len(words) == 0 || len(sentences) == 0 {
		return models.Complexity{Level: "Simple", Score: 0}
	}

	avgSentenceLength := float64(len(words)) / float64(len(sentences))
	avgWordLength := float64(letterCount(text)) / float64(len(words))
	score := avgSentenceLength*0.5 + avgWordLength*0.5

	switch {
	case score < 4:
		return models.Complexity{Level: "Simple", Score: score}
	case score < 6:
		return models.Complexity{Level: "Medium", Score: score}
	default:
		return models.Complexity{Level: "Complex", Score: score}
	}
}

// DetectThemes returns between one and three theme labels in declaration
// order. When no keyword matches, a label is picked from the text length:
// short texts read as Reflection, long ones as Philosophy, the rest as
// Inspiration.
func DetectThemes(text string) []string {
	lower := strings.ToLower(text)

	var themes []string
	for _, pattern := range themePatterns {
		if containsAny(lower, pattern.keywords) {
			themes = append(themes, pattern.label)
		}
	}

	if len(themes) == 0 {
		length := len([]rune(text))
		switch {
		case length < 50:
			themes = append(themes, "Reflection")
		case length > 150:
			themes = append(themes, "Philosophy")
		default:
			themes = append(themes, "Inspiration")
		}
	}

	if len(themes) > 3 {
		themes = themes[:3]
	}
	return themes
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

func splitSentences(text string) []string {
	fragments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	var sentences []string
	for _, fragment := range fragments {
		if strings.TrimSpace(fragment) != "" {
			sentences = append(sentences, fragment)
		}
	}
	return sentences
}

func letterCount(text string) int {
	count := 0
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			count++
		}
	}
	return count
}
