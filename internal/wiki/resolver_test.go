package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasAuthor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "Regular name", input: "Maya Angelou", expected: true},
		{name: "Empty string", input: "", expected: false},
		{name: "Whitespace only", input: "   ", expected: false},
		{name: "Unknown lowercase", input: "unknown", expected: false},
		{name: "Unknown mixed case", input: "UnKnOwN", expected: false},
		{name: "Unknown with padding", input: "  Unknown  ", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasAuthor(tt.input))
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Collapses internal whitespace",
			input:    "  Maya   Angelou  ",
			expected: "Maya Angelou",
		},
		{
			name:     "Drops parenthetical annotation",
			input:    "Seneca (the Younger)",
			expected: "Seneca",
		},
		{
			name:     "Drops everything after a comma",
			input:    "Angelou, Maya",
			expected: "Angelou",
		},
		{
			name:     "Strips trailing period",
			input:    "Mark Twain.",
			expected: "Mark Twain",
		},
		{
			name:     "Keeps internal periods",
			input:    "J. R. R. Tolkien",
			expected: "J. R. R. Tolkien",
		},
		{
			name:     "Annotation only yields empty",
			input:    "(1803-1882)",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeName(tt.input))
		})
	}
}

func TestCandidateTitles(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Two-part name has no extra candidate",
			input:    "Maya Angelou",
			expected: []string{"Maya Angelou"},
		},
		{
			name:     "Three-part name adds first plus last",
			input:    "Martin Luther King",
			expected: []string{"Martin Luther King", "Martin King"},
		},
		{
			name:     "Single name",
			input:    "Plato",
			expected: []string{"Plato"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CandidateTitles(tt.input))
		})
	}
}

// wikiServer fakes the summary and search endpoints. Summaries are keyed
// by underscored page title.
func wikiServer(t *testing.T, summaries map[string]string, searchHit string, requests *int32) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/summary/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		title := strings.TrimPrefix(r.URL.Path, "/summary/")
		extract, ok := summaries[title]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"title":   strings.ReplaceAll(title, "_", " "),
			"extract": extract,
		})
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(requests, 1)
		assert.Equal(t, "query", r.URL.Query().Get("action"))
		hits := []map[string]string{}
		if searchHit != "" {
			hits = append(hits, map[string]string{"title": searchHit})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"query": map[string]interface{}{"search": hits},
		})
	})

	return httptest.NewServer(mux)
}

func newTestResolver(serverURL string) *Resolver {
	return NewResolver(serverURL+"/summary", serverURL+"/search", time.Second, 1000)
}

func TestResolver_Resolve_NoAuthorSkipsNetwork(t *testing.T) {
	var requests int32
	server := wikiServer(t, nil, "", &requests)
	defer server.Close()

	resolver := newTestResolver(server.URL)

	assert.Nil(t, resolver.Resolve(context.Background(), "Unknown"))
	assert.Nil(t, resolver.Resolve(context.Background(), ""))
	assert.Nil(t, resolver.Resolve(context.Background(), "   "))
	assert.Equal(t, int32(0), atomic.LoadInt32(&requests))
}

func TestResolver_Resolve_DirectHit(t *testing.T) {
	var requests int32
	server := wikiServer(t, map[string]string{
		"Maya_Angelou": "Maya Angelou was an American memoirist and poet.",
	}, "", &requests)
	defer server.Close()

	resolver := newTestResolver(server.URL)
	summary := resolver.Resolve(context.Background(), "Maya Angelou")

	require.NotNil(t, summary)
	assert.Equal(t, "Maya Angelou was an American memoirist and poet.", summary.Summary)
	assert.False(t, summary.Truncated)
	assert.Empty(t, summary.SourceURL)
	assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
}

func TestResolver_Resolve_SecondCandidateHits(t *testing.T) {
	var requests int32
	server := wikiServer(t, map[string]string{
		"Martin_King": "Martin King placeholder biography.",
	}, "", &requests)
	defer server.Close()

	resolver := newTestResolver(server.URL)
	summary := resolver.Resolve(context.Background(), "Martin Luther King")

	require.NotNil(t, summary)
	assert.Equal(t, "Martin King placeholder biography.", summary.Summary)
	// Full-name miss plus first-last hit
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestResolver_Resolve_SearchFallback(t *testing.T) {
	var requests int32
	server := wikiServer(t, map[string]string{
		"Maya_Angelou": "Maya Angelou was an American memoirist and poet.",
	}, "Maya Angelou", &requests)
	defer server.Close()

	resolver := newTestResolver(server.URL)
	summary := resolver.Resolve(context.Background(), "M. Angelou")

	require.NotNil(t, summary)
	assert.Equal(t, "Maya Angelou was an American memoirist and poet.", summary.Summary)
}

func TestResolver_Resolve_NothingFound(t *testing.T) {
	var requests int32
	server := wikiServer(t, nil, "", &requests)
	defer server.Close()

	resolver := newTestResolver(server.URL)
	assert.Nil(t, resolver.Resolve(context.Background(), "Nobody Important"))
}

func TestResolver_Resolve_TruncatesLongExtract(t *testing.T) {
	longExtract := strings.Repeat("é", 500)

	var requests int32
	server := wikiServer(t, map[string]string{
		"Maya_Angelou": longExtract,
	}, "", &requests)
	defer server.Close()

	resolver := newTestResolver(server.URL)
	summary := resolver.Resolve(context.Background(), "Maya Angelou")

	require.NotNil(t, summary)
	assert.True(t, summary.Truncated)
	runes := []rune(summary.Summary)
	assert.Len(t, runes, 431)
	assert.Equal(t, '…', runes[430])
	assert.Equal(t, "https://en.wikipedia.org/wiki/Maya_Angelou", summary.SourceURL)
}

func TestResolver_Resolve_PrefersContentURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"title": "Maya Angelou",
			"extract": %q,
			"content_urls": {"desktop": {"page": "https://en.wikipedia.org/wiki/Maya_Angelou_(poet)"}}
		}`, strings.Repeat("a", 500))
	}))
	defer server.Close()

	resolver := newTestResolver(server.URL)
	summary := resolver.Resolve(context.Background(), "Maya Angelou")

	require.NotNil(t, summary)
	assert.True(t, summary.Truncated)
	assert.Equal(t, "https://en.wikipedia.org/wiki/Maya_Angelou_(poet)", summary.SourceURL)
}

func TestResolver_Resolve_ShortExtractHasNoReadMore(t *testing.T) {
	server := wikiServer(t, map[string]string{
		"Plato": strings.Repeat("a", 450),
	}, "", new(int32))
	defer server.Close()

	resolver := newTestResolver(server.URL)
	summary := resolver.Resolve(context.Background(), "Plato")

	require.NotNil(t, summary)
	assert.False(t, summary.Truncated)
	assert.Empty(t, summary.SourceURL)
	assert.Len(t, []rune(summary.Summary), 450)
}
