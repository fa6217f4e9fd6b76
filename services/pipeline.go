package services

import (
	"context"
	"fmt"

	"legal-assistant-backend/internal/logger"
	"legal-assistant-backend/models"
)

// Pipeline wires Extractor → Chunker → IndexStore for ingestion and
// Retriever → AnswerAssembler for querying. The two flows share only the
// index store.
type Pipeline struct {
	extractor *Extractor
	chunker   *Chunker
	store     *IndexStore
	retriever *Retriever
	assembler *AnswerAssembler
}

func NewPipeline(extractor *Extractor, chunker *Chunker, store *IndexStore, retriever *Retriever, assembler *AnswerAssembler) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		chunker:   chunker,
		store:     store,
		retriever: retriever,
		assembler: assembler,
	}
}

// Ingest extracts, chunks and indexes one document, returning the number
// of units added. The load→insert→persist sequence runs under the store's
// per-location lock: one ingestion at a time per persisted index.
func (p *Pipeline) Ingest(ctx context.Context, filename string, content []byte) (int, error) {
	result, err := p.extractor.Extract(ctx, filename, content)
	if err != nil {
		return 0, err
	}

	units := p.chunker.Chunk(result, filename)
	if len(units) == 0 {
		return 0, fmt.Errorf("%w: %s: no content extracted", ErrExtractionFailed, filename)
	}

	unlock := p.store.Lock()
	defer unlock()

	var index *Index
	if p.store.Exists() {
		index, err = p.store.Load()
		if err != nil {
			return 0, err
		}
		if err := p.store.Insert(ctx, index, units); err != nil {
			return 0, err
		}
	} else {
		index, err = p.store.Create(ctx, units)
		if err != nil {
			return 0, err
		}
	}

	if err := p.store.Persist(index); err != nil {
		return 0, err
	}

	logger.Info("Document ingested", "file", filename, "strategy", result.Strategy, "units", len(units), "index_total", index.Count())
	return len(units), nil
}

// Query retrieves the most relevant units for the question and assembles
// a grounded answer. Reads from whatever snapshot is persisted at call
// start; safe to run concurrently with other queries.
func (p *Pipeline) Query(ctx context.Context, query string) (*models.QueryResult, error) {
	if !p.store.Exists() {
		return nil, fmt.Errorf("%w: no documents ingested yet", ErrIndexNotFound)
	}

	index, err := p.store.Load()
	if err != nil {
		return nil, err
	}

	retrieved, err := p.retriever.Retrieve(ctx, index, query)
	if err != nil {
		return nil, err
	}

	return p.assembler.Answer(ctx, query, retrieved)
}
