package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/quotify/quotifyd/internal/models"
)

// APINinjasSource implements the primary, keyed quote API
type APINinjasSource struct {
	apiKey  string
	baseURL string
	client  *resty.Client
}

type apiNinjasQuote struct {
	Quote    string `json:"quote"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

// NewAPINinjasSource creates a new API Ninjas source
func NewAPINinjasSource(apiKey, baseURL string, timeout time.Duration) *APINinjasSource {
	return &APINinjasSource{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  resty.New().SetTimeout(timeout),
	}
}

func (a *APINinjasSource) GetName() string {
	return "api-ninjas"
}

func (a *APINinjasSource) IsEnabled() bool {
	return a.apiKey != ""
}

// FetchQuote requests one quote filtered by category. Any non-200 status,
// non-array body, or empty array is a failure the caller falls back on.
func (a *APINinjasSource) FetchQuote(ctx context.Context, category string) (models.Quote, error) {
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", a.apiKey).
		SetQueryParam("category", category).
		Get(a.baseURL)

	if err != nil {
		return models.Quote{}, fmt.Errorf("quotes API request failed: %w", err)
	}

	if resp.StatusCode() != 200 {
		return models.Quote{}, fmt.Errorf("quotes API returned status %d", resp.StatusCode())
	}

	var quotes []apiNinjasQuote
	if err := json.Unmarshal(resp.Body(), &quotes); err != nil {
		return models.Quote{}, fmt.Errorf("failed to parse quotes API response: %w", err)
	}

	if len(quotes) == 0 {
		return models.Quote{}, fmt.Errorf("quotes API returned no quotes")
	}

	quote := models.Quote{
		Text:     quotes[0].Quote,
		Author:   quotes[0].Author,
		Category: quotes[0].Category,
	}
	if quote.Category == "" {
		quote.Category = category
	}

	return quote, nil
}
