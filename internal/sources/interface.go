package sources

import (
	"context"

	"github.com/quotify/quotifyd/internal/models"
)

// QuoteSource interface defines the contract for all quote providers.
// Category is a hint; providers that cannot filter by category ignore it.
type QuoteSource interface {
	GetName() string
	FetchQuote(ctx context.Context, category string) (models.Quote, error)
	IsEnabled() bool
}
