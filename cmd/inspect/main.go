package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"legal-assistant-backend/internal/ai"
	"legal-assistant-backend/internal/config"
	"legal-assistant-backend/internal/logger"
	"legal-assistant-backend/services"
)

// Prints the state of the persisted index, optionally running a retrieval
// probe to see which passages a query would pull in.
func main() {
	query := flag.String("query", "", "run a retrieval probe with this query")
	topK := flag.Int("top-k", 0, "override the configured result count for the probe")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	ctx := context.Background()
	aiClient, err := ai.NewClient(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to create Gemini client:", err)
	}
	defer aiClient.Close()

	store := services.NewIndexStore(cfg.IndexDir, aiClient)
	if !store.Exists() {
		log.Fatalf("No index found at %s", cfg.IndexDir)
	}

	index, err := store.Load()
	if err != nil {
		log.Fatal("Failed to load index:", err)
	}

	fmt.Printf("Index location: %s\n", cfg.IndexDir)
	fmt.Printf("Indexed units:  %d\n", index.Count())

	if *query == "" {
		return
	}

	k := cfg.TopK
	if *topK > 0 {
		k = *topK
	}

	retriever := services.NewRetriever(k)
	results, err := retriever.Retrieve(ctx, index, *query)
	if err != nil {
		log.Fatal("Retrieval probe failed:", err)
	}

	fmt.Printf("\nTop %d results for %q:\n", len(results), *query)
	for i, r := range results {
		page := r.Unit.PageLabel
		if page == "" {
			page = "-"
		}
		fmt.Printf("%2d. score=%.4f file=%s page=%s\n    %s\n", i+1, r.Score, r.Unit.FileName, page, truncatePreview(r.Unit.Text, 120))
	}
}

// truncatePreview cuts on rune boundaries so regional scripts are never
// split mid-character.
func truncatePreview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
