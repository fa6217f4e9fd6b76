package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"legal-assistant-backend/internal/ai"
	"legal-assistant-backend/internal/config"
	"legal-assistant-backend/internal/logger"
	"legal-assistant-backend/services"
)

// Rebuilds the vector index from the archived source documents. Useful
// after chunking parameter changes or when the persisted index is
// unreadable.
func main() {
	fresh := flag.Bool("fresh", false, "delete the existing index before re-ingesting")
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

	extractor := services.NewExtractor(aiClient)
	chunker := services.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	store := services.NewIndexStore(cfg.IndexDir, aiClient)
	retriever := services.NewRetriever(cfg.TopK)
	assembler := services.NewAnswerAssembler(aiClient)
	pipeline := services.NewPipeline(extractor, chunker, store, retriever, assembler)

	if *fresh {
		if err := os.RemoveAll(cfg.IndexDir); err != nil {
			log.Fatal("Failed to remove existing index:", err)
		}
		log.Printf("Removed existing index at %s", cfg.IndexDir)
	}

	entries, err := os.ReadDir(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to read data directory %s: %v", cfg.DataDir, err)
	}

	var total, failed int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(cfg.DataDir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Skipping %s: %v", entry.Name(), err)
			failed++
			continue
		}

		chunks, err := pipeline.Ingest(ctx, entry.Name(), content)
		if err != nil {
			log.Printf("Failed to ingest %s: %v", entry.Name(), err)
			failed++
			continue
		}

		log.Printf("Ingested %s (%d chunks)", entry.Name(), chunks)
		total += chunks
	}

	log.Printf("Re-ingestion complete: %d chunks indexed, %d files failed", total, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
