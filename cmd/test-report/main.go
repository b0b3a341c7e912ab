package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quotify/quotifyd/internal/export"
	"github.com/quotify/quotifyd/internal/models"
	"github.com/quotify/quotifyd/internal/pipeline"
	"github.com/quotify/quotifyd/internal/sources"
)

// Canned quotes so the preview needs no network access
var sampleQuotes = []models.Quote{
	{
		Text:     "Success is not final, failure is not fatal: it is the courage to continue that counts.",
		Author:   "Winston Churchill",
		Category: "success",
	},
	{
		Text:     "Time heals all wounds.",
		Author:   "Unknown",
		Category: "time",
	},
	{
		Text:     "We love life, not because we are used to living but because we are used to loving.",
		Author:   "Friedrich Nietzsche",
		Category: "love",
	},
}

// cannedSource serves the sample quotes in order
type cannedSource struct {
	next int
}

func (c *cannedSource) GetName() string { return "canned" }
func (c *cannedSource) IsEnabled() bool { return true }

func (c *cannedSource) FetchQuote(ctx context.Context, category string) (models.Quote, error) {
	quote := sampleQuotes[c.next%len(sampleQuotes)]
	c.next++
	return quote, nil
}

// cannedResolver skips the Wikipedia round trips
type cannedResolver struct{}

func (cannedResolver) Resolve(ctx context.Context, name string) *models.AuthorSummary {
	return &models.AuthorSummary{
		Summary: fmt.Sprintf("%s is a widely quoted author. (sample biography)", name),
	}
}

func main() {
	fmt.Println("📊 quotifyd - Sample Report Preview")
	fmt.Println("===================================")

	selector := sources.NewSelector(&cannedSource{}, &cannedSource{}, nil)
	service := pipeline.NewService(selector, cannedResolver{}, nil)

	fmt.Println("\n📝 Quote cycles:")
	for range sampleQuotes {
		snapshot, accepted := service.Fetch(context.Background())
		if !accepted {
			continue
		}
		printSnapshot(snapshot)
		// Let the sample author resolution settle before the next cycle
		time.Sleep(50 * time.Millisecond)
	}

	fmt.Println("\n📬 Daily quote message preview:")
	final := service.Current()
	fmt.Printf("   Quote of the day: %q — %s\n", final.Quote.Text, final.Quote.Author)

	fmt.Println("\n💾 Export preview:")
	saved := make([]models.SavedQuote, 0, len(sampleQuotes))
	notes := make(map[string]models.JournalEntry)
	for i, quote := range sampleQuotes {
		saved = append(saved, models.SavedQuote{
			ID:      fmt.Sprintf("sample-%d", i+1),
			Quote:   quote,
			SavedAt: time.Now(),
		})
	}
	notes[sampleQuotes[0].Key()] = models.JournalEntry{
		Note: "Keep going even when the outcome is unclear.",
		Date: time.Now(),
	}
	fmt.Println(export.Build(saved, notes, time.Now()))

	fmt.Println("✅ Report preview completed!")
}

func printSnapshot(snapshot pipeline.Snapshot) {
	fmt.Println("\n" + strings.Repeat("-", 60))
	fmt.Printf("   %q — %s [%s]\n", snapshot.Quote.Text, snapshot.Quote.Author, snapshot.Quote.Category)
	if snapshot.Analytics != nil {
		fmt.Printf("   Words: %d (%s read)\n", snapshot.Analytics.WordCount, snapshot.Analytics.ReadingTime)
		fmt.Printf("   Sentiment: %s  Complexity: %s (%.1f)\n",
			snapshot.Analytics.Sentiment.Display,
			snapshot.Analytics.Complexity.Level,
			snapshot.Analytics.Complexity.Score)
		fmt.Printf("   Themes: %s\n", strings.Join(snapshot.Analytics.Themes, ", "))
	}
	if snapshot.Reflection != nil {
		fmt.Printf("   Application: %s\n", snapshot.Reflection.Application)
	}
}
