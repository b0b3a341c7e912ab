package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/quotify/quotifyd/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// Biographies longer than maxSummaryLen runes are cut at truncateAt
	// and suffixed with an ellipsis.
	maxSummaryLen = 450
	truncateAt    = 430

	pageURLBase = "https://en.wikipedia.org/wiki/"
)

// Resolver looks up a short author biography against the Wikipedia summary
// and search APIs. It never returns an error: a nil result means no usable
// biography was found.
type Resolver struct {
	summaryURL string
	searchURL  string
	client     *resty.Client
	limiter    *rate.Limiter
}

type summaryResponse struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

type searchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

// NewResolver creates a new author resolver. requestsPerSecond limits
// outbound calls against the shared Wikipedia endpoints.
func NewResolver(summaryURL, searchURL string, timeout time.Duration, requestsPerSecond float64) *Resolver {
	return &Resolver{
		summaryURL: strings.TrimSuffix(summaryURL, "/"),
		searchURL:  searchURL,
		client: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", "quotifyd/1.0"),
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// HasAuthor reports whether a name denotes an actual author. Empty,
// whitespace-only, and "unknown" (any case) names carry no author.
func HasAuthor(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && !strings.EqualFold(trimmed, "unknown")
}

// Resolve returns a capped biography for the named author, or nil when no
// usable biography exists. Names without an author are rejected before any
// network call.
func (r *Resolver) Resolve(ctx context.Context, name string) *models.AuthorSummary {
	if !HasAuthor(name) {
		return nil
	}

	normalized := NormalizeName(name)
	if normalized == "" {
		return nil
	}

	for _, title := range CandidateTitles(normalized) {
		summary, err := r.lookupSummary(ctx, title)
		if err != nil {
			logrus.Debugf("Summary lookup for %q failed: %v", title, err)
			continue
		}
		if summary != nil && summary.Extract != "" {
			return buildSummary(summary)
		}
	}

	// Direct lookups missed; one search round decides it
	title, err := r.searchTitle(ctx, normalized)
	if err != nil {
		logrus.Debugf("Search for %q failed: %v", normalized, err)
		return nil
	}
	if title == "" {
		return nil
	}

	summary, err := r.lookupSummary(ctx, title)
	if err != nil || summary == nil || summary.Extract == "" {
		return nil
	}
	return buildSummary(summary)
}

// NormalizeName collapses whitespace, drops everything from the first
// parenthesis or comma (disambiguation and birth-death annotations), and
// strips trailing periods and commas.
func NormalizeName(name string) string {
	normalized := strings.Join(strings.Fields(name), " ")

	if idx := strings.IndexAny(normalized, "(,"); idx >= 0 {
		normalized = normalized[:idx]
	}

	normalized = strings.TrimSpace(normalized)
	normalized = strings.TrimRight(normalized, ".,")
	return strings.TrimSpace(normalized)
}

// CandidateTitles returns the lookup titles for a normalized name in
// priority order: the full name, then first-plus-last when the name has at
// least two components.
func CandidateTitles(normalized string) []string {
	titles := []string{normalized}

	parts := strings.Fields(normalized)
	if len(parts) >= 2 {
		firstLast := parts[0] + " " + parts[len(parts)-1]
		if firstLast != normalized {
			titles = append(titles, firstLast)
		}
	}

	return titles
}

func (r *Resolver) lookupSummary(ctx context.Context, title string) (*summaryResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	pageTitle := url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParam("redirect", "true").
		Get(r.summaryURL + "/" + pageTitle)

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		// 404 means no page with that exact title; not an error worth surfacing
		return nil, nil
	}

	var summary summaryResponse
	if err := json.Unmarshal(resp.Body(), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary response: %w", err)
	}

	return &summary, nil
}

func (r *Resolver) searchTitle(ctx context.Context, query string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"action":   "query",
			"list":     "search",
			"srsearch": query,
			"srlimit":  "1",
			"format":   "json",
		}).
		Get(r.searchURL)

	if err != nil {
		return "", err
	}

	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("search API returned status %d", resp.StatusCode())
	}

	var search searchResponse
	if err := json.Unmarshal(resp.Body(), &search); err != nil {
		return "", fmt.Errorf("failed to parse search response: %w", err)
	}

	if len(search.Query.Search) == 0 {
		return "", nil
	}
	return search.Query.Search[0].Title, nil
}

func buildSummary(resp *summaryResponse) *models.AuthorSummary {
	extract := []rune(resp.Extract)
	if len(extract) <= maxSummaryLen {
		return &models.AuthorSummary{Summary: resp.Extract}
	}

	sourceURL := resp.ContentURLs.Desktop.Page
	if sourceURL == "" {
		sourceURL = pageURLBase + url.PathEscape(strings.ReplaceAll(resp.Title, " ", "_"))
	}

	return &models.AuthorSummary{
		Summary:   string(extract[:truncateAt]) + "…",
		SourceURL: sourceURL,
		Truncated: true,
	}
}
