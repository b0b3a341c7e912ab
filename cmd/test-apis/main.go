package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/quotify/quotifyd/internal/config"
	"github.com/quotify/quotifyd/internal/sources"
	"github.com/quotify/quotifyd/internal/wiki"
)

func main() {
	fmt.Println("🔍 quotifyd - API Connectivity Test")
	fmt.Println("===================================")

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	timeout := time.Duration(cfg.RequestTimeout) * time.Second

	fmt.Println("\n📡 Testing quote sources...")
	fmt.Println(strings.Repeat("-", 40))

	testSource(ctx, "API Ninjas", sources.NewAPINinjasSource(cfg.QuotesAPIKey, cfg.QuotesAPIURL, timeout))
	testSource(ctx, "Quotable", sources.NewQuotableSource(cfg.FallbackAPIURL, timeout))

	fmt.Println("\n📖 Testing author lookup...")
	fmt.Println(strings.Repeat("-", 40))

	resolver := wiki.NewResolver(cfg.WikiSummaryURL, cfg.WikiSearchURL, timeout, cfg.WikiRateLimit)
	testResolver(ctx, resolver, "Maya Angelou")
	testResolver(ctx, resolver, "Seneca the Younger")

	fmt.Println("\n✅ API connectivity test completed!")
	fmt.Println("\n💡 Next steps:")
	fmt.Println("   • Configure a missing QUOTES_API_KEY in the .env file")
	fmt.Println("   • Run the daemon with: go run ./cmd/quotifyd")
}

func testSource(ctx context.Context, name string, source sources.QuoteSource) {
	fmt.Printf("🔸 Testing %s... ", name)

	if !source.IsEnabled() {
		fmt.Printf("⚠️  DISABLED (missing API key)\n")
		return
	}

	quote, err := source.FetchQuote(ctx, "wisdom")
	if err != nil {
		fmt.Printf("❌ ERROR: %v\n", err)
		return
	}

	fmt.Printf("✅ SUCCESS\n")
	fmt.Printf("   📝 Sample: %q — %s\n", quote.Text, quote.Author)
}

func testResolver(ctx context.Context, resolver *wiki.Resolver, name string) {
	fmt.Printf("🔸 Looking up %s... ", name)

	summary := resolver.Resolve(ctx, name)
	if summary == nil {
		fmt.Printf("❌ NO BIOGRAPHY FOUND\n")
		return
	}

	preview := summary.Summary
	if len([]rune(preview)) > 80 {
		preview = string([]rune(preview)[:80]) + "…"
	}
	fmt.Printf("✅ SUCCESS (truncated: %v)\n", summary.Truncated)
	fmt.Printf("   📝 %s\n", preview)
}
