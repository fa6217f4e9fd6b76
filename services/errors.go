package services

import "errors"

// Pipeline error taxonomy. Every failure wraps exactly one of these
// sentinels so callers can tell "fix your file" apart from "try again
// later" and "re-upload documents".
var (
	// ErrExtractionFailed means every extraction strategy was exhausted
	// without producing non-empty text.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrIndexCorrupt means the persisted index could not be parsed. The
	// index must be rebuilt from scratch before ingestion or querying can
	// resume.
	ErrIndexCorrupt = errors.New("index corrupt")

	// ErrIndexNotFound means no index has been created yet.
	ErrIndexNotFound = errors.New("index not found")

	// ErrEmbeddingService means the remote embedding call failed. Not
	// retried automatically.
	ErrEmbeddingService = errors.New("embedding service error")

	// ErrGenerationService means the remote generation call failed. Not
	// retried automatically.
	ErrGenerationService = errors.New("generation service error")
)
