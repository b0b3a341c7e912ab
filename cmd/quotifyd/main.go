package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/quotify/quotifyd/internal/config"
	"github.com/quotify/quotifyd/internal/export"
	"github.com/quotify/quotifyd/internal/models"
	"github.com/quotify/quotifyd/internal/notifications"
	"github.com/quotify/quotifyd/internal/pipeline"
	"github.com/quotify/quotifyd/internal/scheduler"
	"github.com/quotify/quotifyd/internal/share"
	"github.com/quotify/quotifyd/internal/sources"
	"github.com/quotify/quotifyd/internal/store"
	"github.com/quotify/quotifyd/internal/wiki"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting quotifyd")

	// Initialize local storage
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}
	defer db.Close()

	// Initialize notification service
	notifier := notifications.NewService(cfg)

	// Initialize the acquisition pipeline
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	selector := sources.NewSelector(
		sources.NewAPINinjasSource(cfg.QuotesAPIKey, cfg.QuotesAPIURL, timeout),
		sources.NewQuotableSource(cfg.FallbackAPIURL, timeout),
		notifier,
	)
	resolver := wiki.NewResolver(cfg.WikiSummaryURL, cfg.WikiSearchURL, timeout, cfg.WikiRateLimit)
	pipelineService := pipeline.NewService(selector, resolver, logRenderer{})

	// Initialize scheduler
	schedulerService := scheduler.NewService(cfg, pipelineService, notifier)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	// Fetch the first quote in the background, the way the widget does on load
	if cfg.FetchOnStartup {
		go func() {
			if _, accepted := pipelineService.Fetch(context.Background()); !accepted {
				logrus.Warn("Startup fetch dropped")
			}
		}()
	}

	// Set up HTTP server
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.HandleFunc("/metrics", metricsHandler(pipelineService)).Methods("GET")

	router.HandleFunc("/quote", currentQuoteHandler(pipelineService)).Methods("GET")
	router.HandleFunc("/quote/next", nextQuoteHandler(pipelineService)).Methods("POST")
	router.HandleFunc("/quote/share/{network}", shareHandler(pipelineService)).Methods("GET")

	router.HandleFunc("/saved", listSavedHandler(db)).Methods("GET")
	router.HandleFunc("/saved", saveQuoteHandler(db)).Methods("POST")
	router.HandleFunc("/saved/clear", clearSavedHandler(db)).Methods("POST")
	router.HandleFunc("/saved/{id}", deleteSavedHandler(db)).Methods("DELETE")

	router.HandleFunc("/notes", attachNoteHandler(db)).Methods("POST")
	router.HandleFunc("/export", exportHandler(db)).Methods("GET")

	router.HandleFunc("/settings", getSettingsHandler(db)).Methods("GET")
	router.HandleFunc("/settings", putSettingsHandler(db)).Methods("PUT")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// logRenderer is the default rendering collaborator: it narrates pipeline
// updates to the log. The HTTP handlers read the same state through
// pipeline snapshots.
type logRenderer struct{}

func (logRenderer) ShowLoading() {
	logrus.Debug("Finding something worth reading…")
}

func (logRenderer) ShowQuote(quote models.Quote, analytics models.AnalyticsResult, _ models.Reflection) {
	logrus.Infof("Quote ready: %q — %s [%s, %s]",
		quote.Text, quote.Author, analytics.Sentiment.Display, analytics.Complexity.Level)
}

func (logRenderer) ShowAuthor(bio string, _ *models.AuthorSummary) {
	logrus.Debugf("Author context: %s", bio)
}

func (logRenderer) ShowUnavailable(quote models.Quote) {
	logrus.Warnf("Every quote source failed: %s", quote.Text)
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}

func metricsHandler(pipelineService *pipeline.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(pipelineService.GetMetrics()))
	}
}

func currentQuoteHandler(pipelineService *pipeline.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, pipelineService.Current())
	}
}

func nextQuoteHandler(pipelineService *pipeline.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, accepted := pipelineService.Fetch(r.Context())
		if !accepted {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "A fetch is already in flight"})
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
	}
}

func shareHandler(pipelineService *pipeline.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := pipelineService.Current()
		if snapshot.Quote.Text == "" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Load a quote first."})
			return
		}

		var shareURL string
		switch mux.Vars(r)["network"] {
		case "twitter":
			shareURL = share.TwitterURL(snapshot.Quote)
		case "threads":
			shareURL = share.ThreadsURL(snapshot.Quote)
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Unknown share network"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"url": shareURL})
	}
}

func listSavedHandler(db *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saved, err := db.ListSaved()
		if err != nil {
			logrus.Errorf("Failed to list saved quotes: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to list saved quotes"})
			return
		}
		if saved == nil {
			saved = []models.SavedQuote{}
		}
		writeJSON(w, http.StatusOK, saved)
	}
}

func saveQuoteHandler(db *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var quote models.Quote
		if err := json.NewDecoder(r.Body).Decode(&quote); err != nil || quote.Text == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "A quote with text is required"})
			return
		}
		if quote.Author == "" {
			quote.Author = "Unknown"
		}

		saved, err := db.SaveQuote(quote)
		if err == store.ErrAlreadySaved {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Already saved."})
			return
		}
		if err != nil {
			logrus.Errorf("Failed to save quote: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to save quote"})
			return
		}

		writeJSON(w, http.StatusCreated, saved)
	}
}

func clearSavedHandler(db *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.ClearAll(); err != nil {
			logrus.Errorf("Failed to clear saved quotes: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to clear saved quotes"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "All saved quotes cleared"})
	}
}

func deleteSavedHandler(db *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := db.DeleteSaved(mux.Vars(r)["id"])
		if err == store.ErrNotFound {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Saved quote not found"})
			return
		}
		if err != nil {
			logrus.Errorf("Failed to delete saved quote: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to delete saved quote"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Quote deleted"})
	}
}

func attachNoteHandler(db *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text   string `json:"text"`
			Author string `json:"author"`
			Note   string `json:"note"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "A quote with text is required"})
			return
		}

		quote := models.Quote{Text: body.Text, Author: body.Author}
		if err := db.AttachNote(quote.Key(), body.Note); err != nil {
			logrus.Errorf("Failed to save note: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to save note"})
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Note saved"})
	}
}

func exportHandler(db *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saved, err := db.ListSaved()
		if err != nil {
			logrus.Errorf("Failed to export saved quotes: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to export saved quotes"})
			return
		}
		notes, err := db.Notes()
		if err != nil {
			logrus.Errorf("Failed to export journal entries: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to export journal entries"})
			return
		}

		now := time.Now().UTC()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(now)))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(export.Build(saved, notes, now)))
	}
}

// Settings keys mirror the widget's preferences
var settingKeys = []string{"fontStyle", "textSize", "theme"}

func isSettingKey(key string) bool {
	for _, known := range settingKeys {
		if key == known {
			return true
		}
	}
	return false
}

func getSettingsHandler(db *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings := make(map[string]string, len(settingKeys))
		for _, key := range settingKeys {
			value, err := db.Setting(key)
			if err != nil {
				logrus.Errorf("Failed to load setting %s: %v", key, err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to load settings"})
				return
			}
			settings[key] = value
		}
		writeJSON(w, http.StatusOK, settings)
	}
}

func putSettingsHandler(db *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var settings map[string]string
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid settings body"})
			return
		}

		for key := range settings {
			if !isSettingKey(key) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"message": fmt.Sprintf("Unknown setting %q", key)})
				return
			}
		}

		for _, key := range settingKeys {
			value, ok := settings[key]
			if !ok {
				continue
			}
			if err := db.SetSetting(key, value); err != nil {
				logrus.Errorf("Failed to save setting %s: %v", key, err)
				writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to save settings"})
				return
			}
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "Settings saved"})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}
