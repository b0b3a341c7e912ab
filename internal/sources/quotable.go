package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/quotify/quotifyd/internal/models"
)

// QuotableSource implements the keyless backup quote API
type QuotableSource struct {
	baseURL string
	client  *resty.Client
}

type quotableQuote struct {
	Content string   `json:"content"`
	Author  string   `json:"author"`
	Tags    []string `json:"tags"`
}

// NewQuotableSource creates a new Quotable source
func NewQuotableSource(baseURL string, timeout time.Duration) *QuotableSource {
	return &QuotableSource{
		baseURL: baseURL,
		client:  resty.New().SetTimeout(timeout),
	}
}

func (q *QuotableSource) GetName() string {
	return "quotable"
}

func (q *QuotableSource) IsEnabled() bool {
	return true // Quotable doesn't require authentication
}

// FetchQuote requests one random quote. The category hint is ignored;
// the first tag of the response becomes the category, "General" when the
// quote carries no tags.
func (q *QuotableSource) FetchQuote(ctx context.Context, category string) (models.Quote, error) {
	resp, err := q.client.R().
		SetContext(ctx).
		Get(q.baseURL)

	if err != nil {
		return models.Quote{}, fmt.Errorf("fallback API request failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return models.Quote{}, fmt.Errorf("fallback API returned status %d", resp.StatusCode())
	}

	var quote quotableQuote
	if err := json.Unmarshal(resp.Body(), &quote); err != nil {
		return models.Quote{}, fmt.Errorf("failed to parse fallback API response: %w", err)
	}

	if quote.Content == "" {
		return models.Quote{}, fmt.Errorf("fallback API returned an empty quote")
	}

	result := models.Quote{
		Text:     quote.Content,
		Author:   quote.Author,
		Category: "General",
	}
	if len(quote.Tags) > 0 {
		result.Category = quote.Tags[0]
	}

	return result, nil
}
