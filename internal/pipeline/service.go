package pipeline

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/quotify/quotifyd/internal/analysis"
	"github.com/quotify/quotifyd/internal/models"
	"github.com/quotify/quotifyd/internal/sources"
	"github.com/quotify/quotifyd/internal/wiki"
	"github.com/sirupsen/logrus"
)

// Fixed biography lines for the states where no lookup result applies
const (
	loadingBio  = "Looking up the author for some context…"
	noAuthorBio = "No author information is attached to this quote."
	genericBio  = "Couldn't find a compact biography, but this author is well-cited in modern quote collections."
	degradedBio = "No author context available at the moment."
)

// State of the acquisition pipeline
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateDegraded
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateDegraded:
		return "degraded"
	default:
		return "idle"
	}
}

// Acquirer returns one quote per call and never fails outright
type Acquirer interface {
	Acquire(ctx context.Context) sources.Result
}

// AuthorResolver produces a biography for an author name; nil means absent
type AuthorResolver interface {
	Resolve(ctx context.Context, name string) *models.AuthorSummary
}

// Renderer receives pipeline updates as they are published. Quote and
// analytics arrive together; the author biography arrives later and must
// never delay the quote.
type Renderer interface {
	ShowLoading()
	ShowQuote(quote models.Quote, analytics models.AnalyticsResult, reflection models.Reflection)
	ShowAuthor(bio string, summary *models.AuthorSummary)
	ShowUnavailable(quote models.Quote)
}

// Snapshot is an immutable view of the current cycle's published state
type Snapshot struct {
	State         string                  `json:"state"`
	Quote         models.Quote            `json:"quote"`
	Analytics     *models.AnalyticsResult `json:"analytics,omitempty"`
	Reflection    *models.Reflection      `json:"reflection,omitempty"`
	AuthorBio     string                  `json:"author_bio"`
	Author        *models.AuthorSummary   `json:"author,omitempty"`
	AuthorPending bool                    `json:"author_pending"`
	UsedBackup    bool                    `json:"used_backup"`
	FetchCount    int                     `json:"fetch_count"`
}

// Metrics holds pipeline counters
type Metrics struct {
	TotalFetches       int            `json:"total_fetches"`
	BackupFetches      int            `json:"backup_fetches"`
	DegradedFetches    int            `json:"degraded_fetches"`
	DroppedFetches     int            `json:"dropped_fetches"`
	StaleAuthorResults int            `json:"stale_author_results"`
	LastFetch          time.Time      `json:"last_fetch"`
	LastFetchDuration  string         `json:"last_fetch_duration"`
	SentimentBreakdown map[string]int `json:"sentiment_breakdown"`
}

// Service runs one acquisition cycle at a time: source selection, then
// synchronous text analytics, then asynchronous author resolution. The
// current quote is a single-owner cell replaced whole per cycle; readers
// only ever get copies.
type Service struct {
	selector Acquirer
	resolver AuthorResolver
	renderer Renderer

	mu       sync.Mutex
	state    State
	seq      uint64
	snapshot Snapshot
	metrics  Metrics
}

// NewService creates a new acquisition pipeline
func NewService(selector Acquirer, resolver AuthorResolver, renderer Renderer) *Service {
	return &Service{
		selector: selector,
		resolver: resolver,
		renderer: renderer,
		snapshot: Snapshot{State: StateIdle.String(), AuthorBio: noAuthorBio},
		metrics: Metrics{
			SentimentBreakdown: make(map[string]int),
		},
	}
}

// Fetch runs one acquisition cycle and returns the published snapshot.
// A fetch arriving while another cycle is loading is silently dropped
// (debounce against double-invocation) and reports accepted=false without
// touching either quote source.
func (s *Service) Fetch(ctx context.Context) (Snapshot, bool) {
	s.mu.Lock()
	if s.state == StateLoading {
		s.metrics.DroppedFetches++
		s.mu.Unlock()
		logrus.Debug("Fetch dropped - a cycle is already in flight")
		return Snapshot{}, false
	}
	s.state = StateLoading
	s.seq++
	cycle := s.seq
	fetchCount := s.snapshot.FetchCount
	s.snapshot = Snapshot{
		State:      StateLoading.String(),
		AuthorBio:  loadingBio,
		FetchCount: fetchCount,
	}
	s.mu.Unlock()

	if s.renderer != nil {
		s.renderer.ShowLoading()
	}

	start := time.Now()
	result := s.selector.Acquire(ctx)

	if result.Degraded {
		return s.publishDegraded(result.Quote, start), true
	}

	analytics := analysis.Analyze(result.Quote.Text)
	reflection := analysis.GenerateReflection(result.Quote.Text)
	hasAuthor := wiki.HasAuthor(result.Quote.Author)

	bio := loadingBio
	if !hasAuthor {
		bio = noAuthorBio
	}

	s.mu.Lock()
	s.state = StateReady
	s.snapshot = Snapshot{
		State:         StateReady.String(),
		Quote:         result.Quote,
		Analytics:     &analytics,
		Reflection:    &reflection,
		AuthorBio:     bio,
		AuthorPending: hasAuthor,
		UsedBackup:    result.UsedBackup,
		FetchCount:    fetchCount + 1,
	}
	s.metrics.TotalFetches++
	if result.UsedBackup {
		s.metrics.BackupFetches++
	}
	s.metrics.SentimentBreakdown[analytics.Sentiment.Label]++
	s.metrics.LastFetch = time.Now()
	s.metrics.LastFetchDuration = time.Since(start).String()
	published := s.snapshot
	s.mu.Unlock()

	if s.renderer != nil {
		s.renderer.ShowQuote(result.Quote, analytics, reflection)
	}

	if !hasAuthor {
		s.settle(cycle)
		return published, true
	}

	// Biography latency must never block the quote itself
	go s.resolveAuthor(cycle, result.Quote.Author)

	return published, true
}

// Current returns the latest published snapshot
func (s *Service) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}

func (s *Service) publishDegraded(quote models.Quote, start time.Time) Snapshot {
	s.mu.Lock()
	s.state = StateDegraded
	s.snapshot = Snapshot{
		State:      StateDegraded.String(),
		Quote:      quote,
		AuthorBio:  degradedBio,
		FetchCount: s.snapshot.FetchCount,
	}
	s.metrics.TotalFetches++
	s.metrics.DegradedFetches++
	s.metrics.LastFetch = time.Now()
	s.metrics.LastFetchDuration = time.Since(start).String()
	published := s.snapshot
	cycle := s.seq
	s.mu.Unlock()

	if s.renderer != nil {
		s.renderer.ShowUnavailable(quote)
	}

	// Degraded cycles have no async work left
	s.settle(cycle)
	return published
}

func (s *Service) resolveAuthor(cycle uint64, author string) {
	// Resolution outlives the request that triggered the cycle
	summary := s.resolver.Resolve(context.Background(), author)

	s.mu.Lock()
	if s.seq != cycle {
		s.metrics.StaleAuthorResults++
		s.mu.Unlock()
		logrus.Debugf("Discarding stale author result for cycle %d", cycle)
		return
	}

	bio := genericBio
	if summary != nil {
		bio = summary.Summary
	}
	s.snapshot.Author = summary
	s.snapshot.AuthorBio = bio
	s.snapshot.AuthorPending = false
	s.mu.Unlock()

	if s.renderer != nil {
		s.renderer.ShowAuthor(bio, summary)
	}

	s.settle(cycle)
}

// settle returns the pipeline to idle once a cycle's work is finished,
// unless a newer cycle has already taken over.
func (s *Service) settle(cycle uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == cycle && s.state != StateLoading {
		s.state = StateIdle
	}
}
