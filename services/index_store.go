package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"legal-assistant-backend/internal/logger"
	"legal-assistant-backend/models"

	chromem "github.com/philippgille/chromem-go"
)

// Embedder produces a vector for a piece of text. Implemented by the
// Gemini client; mocked in tests.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

const (
	collectionName = "legal_documents"
	indexFileName  = "index.gob.gz"
)

// indexLocks provides per-location mutual exclusion for the full
// load→insert→persist sequence. Without it, two concurrent ingestions
// against the same location would silently lose the first one's units
// (last persist wins).
var indexLocks sync.Map // abs path -> *sync.Mutex

// Index is a loaded vector index: all retrieval units plus their
// embeddings, held in a chromem collection.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// Count returns the number of units in the index.
func (ix *Index) Count() int {
	return ix.collection.Count()
}

// IndexStore owns the on-disk representation of the index: a single
// self-describing bundle under the configured directory.
type IndexStore struct {
	dir      string
	embedder Embedder
	embedFn  chromem.EmbeddingFunc
}

func NewIndexStore(dir string, embedder Embedder) *IndexStore {
	return &IndexStore{
		dir:      dir,
		embedder: embedder,
		embedFn: func(ctx context.Context, text string) ([]float32, error) {
			return embedder.EmbedText(ctx, text)
		},
	}
}

// Lock acquires the mutual-exclusion lock for this store's location.
// Callers must hold it across load→insert→persist.
func (s *IndexStore) Lock() func() {
	key, err := filepath.Abs(s.dir)
	if err != nil {
		key = s.dir
	}
	mu, _ := indexLocks.LoadOrStore(key, &sync.Mutex{})
	mutex := mu.(*sync.Mutex)
	mutex.Lock()
	return mutex.Unlock
}

func (s *IndexStore) indexPath() string {
	return filepath.Join(s.dir, indexFileName)
}

// Exists reports whether a persisted index is present at the configured
// location.
func (s *IndexStore) Exists() bool {
	info, err := os.Stat(s.indexPath())
	return err == nil && !info.IsDir()
}

// Load deserializes the persisted index. An unreadable bundle wraps
// ErrIndexCorrupt.
func (s *IndexStore) Load() (*Index, error) {
	db := chromem.NewDB()
	if err := db.ImportFromFile(s.indexPath(), ""); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexCorrupt, err)
	}

	collection := db.GetCollection(collectionName, s.embedFn)
	if collection == nil {
		return nil, fmt.Errorf("%w: collection %q missing from persisted index", ErrIndexCorrupt, collectionName)
	}

	return &Index{db: db, collection: collection}, nil
}

// Create builds a fresh index from a non-empty unit sequence, embedding
// each unit's text.
func (s *IndexStore) Create(ctx context.Context, units []models.RetrievalUnit) (*Index, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("cannot create index from zero units")
	}

	db := chromem.NewDB()
	collection, err := db.CreateCollection(collectionName, nil, s.embedFn)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	index := &Index{db: db, collection: collection}
	if err := s.Insert(ctx, index, units); err != nil {
		return nil, err
	}
	return index, nil
}

// Insert embeds and appends units to an already-loaded index. Existing
// units keep their stored embeddings; only the new units hit the
// embedding service.
func (s *IndexStore) Insert(ctx context.Context, index *Index, units []models.RetrievalUnit) error {
	if len(units) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(units))
	for i, unit := range units {
		docs[i] = chromem.Document{
			ID:       unit.UnitID,
			Content:  unit.Text,
			Metadata: unitMetadata(unit),
		}
	}

	// Sequential embedding; the remote service is the rate-limited
	// bottleneck, not local CPU.
	if err := index.collection.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("%w: %v", ErrEmbeddingService, err)
	}
	return nil
}

// Persist durably writes the full index state. The bundle is written to a
// temp file and renamed into place so a reader never observes a
// half-written index.
func (s *IndexStore) Persist(index *Index) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	tempPath := s.indexPath() + ".tmp"
	if err := index.db.ExportToFile(tempPath, true, ""); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to export index: %w", err)
	}

	if err := os.Rename(tempPath, s.indexPath()); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to move index into place: %w", err)
	}

	logger.Debug("Index persisted", "path", s.indexPath(), "units", index.Count())
	return nil
}

func unitMetadata(unit models.RetrievalUnit) map[string]string {
	md := map[string]string{
		"file_name": unit.FileName,
		"order":     strconv.Itoa(unit.Order),
	}
	if unit.PageLabel != "" {
		md["page_label"] = unit.PageLabel
	}
	return md
}

func unitFromResult(r chromem.Result) models.RetrievalUnit {
	order, _ := strconv.Atoi(r.Metadata["order"])
	return models.RetrievalUnit{
		UnitID:    r.ID,
		Text:      r.Content,
		FileName:  r.Metadata["file_name"],
		PageLabel: r.Metadata["page_label"],
		Order:     order,
	}
}
