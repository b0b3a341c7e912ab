package sources

import (
	"context"
	"math/rand"

	"github.com/quotify/quotifyd/internal/models"
	"github.com/sirupsen/logrus"
)

// Categories the primary source is queried with, one picked uniformly at
// random per acquisition.
var Categories = []string{
	"wisdom", "philosophy", "life", "truth", "inspirational",
	"relationships", "love", "faith", "humor", "success",
	"courage", "happiness", "art", "writing", "fear",
	"nature", "time", "freedom", "death", "leadership",
}

// Fixed quote shown when every source is exhausted
var unavailableQuote = models.Quote{
	Text:     "We couldn't fetch a quote right now. Try again in a moment.",
	Author:   "System",
	Category: "General",
}

// Notifier receives short-lived human-readable status strings
type Notifier interface {
	Notice(message string)
}

// Result describes the outcome of one acquisition
type Result struct {
	Quote      models.Quote
	UsedBackup bool
	Degraded   bool
}

// Selector picks one quote per call: primary source first, backup source on
// any primary failure, a fixed unavailable quote when both fail. There is no
// retry loop beyond that single fallback step.
type Selector struct {
	primary  QuoteSource
	backup   QuoteSource
	notifier Notifier
}

// NewSelector creates a new quote source selector
func NewSelector(primary, backup QuoteSource, notifier Notifier) *Selector {
	return &Selector{
		primary:  primary,
		backup:   backup,
		notifier: notifier,
	}
}

// Acquire returns a quote from the first source that answers. It never
// returns an error; total unavailability is reported through the Degraded
// flag and the fixed degraded-state quote.
func (s *Selector) Acquire(ctx context.Context) Result {
	category := Categories[rand.Intn(len(Categories))]

	if s.primary.IsEnabled() {
		quote, err := s.primary.FetchQuote(ctx, category)
		if err == nil {
			return Result{Quote: quote}
		}
		logrus.Errorf("Primary quote source failed: %v", err)
	} else {
		logrus.Debug("Primary quote source disabled - missing API key")
	}

	s.notice("Primary source is down, pulling from backup source.")

	quote, err := s.backup.FetchQuote(ctx, category)
	if err == nil {
		return Result{Quote: quote, UsedBackup: true}
	}
	logrus.Errorf("Backup quote source failed: %v", err)

	return Result{Quote: unavailableQuote, Degraded: true}
}

// UnavailableQuote returns the fixed degraded-state quote
func UnavailableQuote() models.Quote {
	return unavailableQuote
}

func (s *Selector) notice(message string) {
	if s.notifier != nil {
		s.notifier.Notice(message)
	}
}
