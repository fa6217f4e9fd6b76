package services

import (
	"strings"
	"unicode/utf8"

	"legal-assistant-backend/models"

	"github.com/google/uuid"
)

// Chunker splits extracted text into overlapping retrieval units sized
// for the embedding model. Sizes are measured in word-level token
// equivalents. Units are produced in source order; adjacent units from
// the same section share an overlap window so legal cross-references
// survive chunk boundaries.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 512
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 4
	}
	return &Chunker{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Chunk turns an extraction result into ordered retrieval units carrying
// the source filename and page label. Empty text yields no units.
func (c *Chunker) Chunk(result *ExtractionResult, filename string) []models.RetrievalUnit {
	if result == nil {
		return nil
	}

	var units []models.RetrievalUnit
	for _, section := range result.Sections {
		for _, text := range c.chunkText(section.Text) {
			units = append(units, models.RetrievalUnit{
				UnitID:    uuid.NewString(),
				Text:      text,
				FileName:  filename,
				PageLabel: section.PageLabel,
				Order:     len(units),
			})
		}
	}
	return units
}

// chunkText accumulates sentences until the size threshold, then steps
// back far enough to cover the overlap window. The overlap is sentence
// aligned: the trailing sentences of one chunk are exactly the leading
// sentences of the next.
func (c *Chunker) chunkText(text string) []string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	counts := make([]int, len(sentences))
	for i, s := range sentences {
		counts[i] = len(strings.Fields(s))
	}

	var chunks []string
	i := 0
	for i < len(sentences) {
		j := i
		words := 0
		for j < len(sentences) && (words == 0 || words+counts[j] <= c.chunkSize) {
			words += counts[j]
			j++
		}

		chunks = append(chunks, strings.Join(sentences[i:j], " "))

		if j >= len(sentences) {
			break
		}

		// Step back whole sentences until the overlap window is covered.
		// Always advance by at least one sentence.
		next := j
		overlap := 0
		for next > i+1 && overlap < c.chunkOverlap {
			if overlap+counts[next-1] > c.chunkOverlap {
				break
			}
			next--
			overlap += counts[next]
		}
		i = next
	}

	return chunks
}

// sentenceTerminators includes the Devanagari danda used across several
// of the supported regional scripts.
const sentenceTerminators = ".!?।"

// splitSentences cuts text at sentence terminators, keeping the
// terminator with its sentence. Text without any terminator is a single
// sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i, r := range text {
		if strings.ContainsRune(sentenceTerminators, r) {
			end := i + utf8.RuneLen(r)
			if s := strings.TrimSpace(text[start:end]); s != "" {
				sentences = append(sentences, s)
			}
			start = end
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}
