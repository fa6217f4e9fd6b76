package services

import (
	"context"
	"fmt"

	"legal-assistant-backend/models"
)

// DefaultTopK is deliberately generous: legal questions often hinge on
// cross-references spread over several provisions, so broader recall
// beats a tighter context window here.
const DefaultTopK = 10

// Retriever embeds a query and returns the most similar units, highest
// similarity first.
type Retriever struct {
	topK int
}

func NewRetriever(topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{topK: topK}
}

// Retrieve returns up to topK scored units for the query. A remote
// embedding failure wraps ErrEmbeddingService.
func (r *Retriever) Retrieve(ctx context.Context, index *Index, query string) ([]models.ScoredUnit, error) {
	count := index.Count()
	if count == 0 {
		return nil, nil
	}

	limit := r.topK
	if limit > count {
		limit = count
	}

	results, err := index.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingService, err)
	}

	scored := make([]models.ScoredUnit, len(results))
	for i, res := range results {
		scored[i] = models.ScoredUnit{
			Unit:  unitFromResult(res),
			Score: res.Similarity,
		}
	}
	return scored, nil
}
