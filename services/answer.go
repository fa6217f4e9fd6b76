package services

import (
	"context"
	"fmt"
	"strings"

	"legal-assistant-backend/models"
)

// Generator runs a single-shot completion. Implemented by the Gemini
// client; mocked in tests.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// citationPreviewLen bounds the source snippet returned with an answer.
const citationPreviewLen = 200

// answerRules is the fixed instruction set appended to every grounded
// prompt. The privacy rule keeps storage paths out of answers; the
// citation rule keeps "Section 2(j)" and "Section 2j" apart; the language
// rule makes the answer follow the query's script.
const answerRules = `Rules you must follow:
1. Use only the context information above, not prior knowledge.
2. Never reveal filesystem paths or internal directory structure. Refer to documents only by their filename.
3. Prefer quoting the literal text of the documents over summarizing metadata about them.
4. Treat bracketed legal citations as distinct literal identifiers: "Section 2(j)" and "Section 2j" are different provisions unless the documents explicitly state they are equivalent. When the context contains several similar citations, state which one you are quoting.
5. Answer in the same language as the query. If the query is in Hindi, Tamil, Telugu, Kannada, Malayalam, Sanskrit, or Urdu, translate the answer into that language accurately.`

// AnswerAssembler builds a grounded prompt from retrieved units and
// invokes the generation model once per query.
type AnswerAssembler struct {
	generator Generator
}

func NewAnswerAssembler(generator Generator) *AnswerAssembler {
	return &AnswerAssembler{generator: generator}
}

// Answer produces the final response plus citations in retrieval rank
// order. A remote generation failure wraps ErrGenerationService; it is
// surfaced to the caller, not retried.
func (a *AnswerAssembler) Answer(ctx context.Context, query string, retrieved []models.ScoredUnit) (*models.QueryResult, error) {
	prompt := a.buildPrompt(query, retrieved)

	response, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationService, err)
	}

	return &models.QueryResult{
		Response: strings.TrimSpace(response),
		Sources:  buildCitations(retrieved),
	}, nil
}

func (a *AnswerAssembler) buildPrompt(query string, retrieved []models.ScoredUnit) string {
	var b strings.Builder
	b.WriteString("Context information is below.\n")
	b.WriteString("---------------------\n")
	for _, scored := range retrieved {
		unit := scored.Unit
		if unit.PageLabel != "" {
			fmt.Fprintf(&b, "[%s, page %s]\n", unit.FileName, unit.PageLabel)
		} else {
			fmt.Fprintf(&b, "[%s]\n", unit.FileName)
		}
		b.WriteString(unit.Text)
		b.WriteString("\n\n")
	}
	b.WriteString("---------------------\n")
	b.WriteString("Given the context information and not prior knowledge, answer the query.\n")
	b.WriteString(answerRules)
	b.WriteString("\nQuery: ")
	b.WriteString(query)
	b.WriteString("\nAnswer: ")
	return b.String()
}

func buildCitations(retrieved []models.ScoredUnit) []models.Citation {
	citations := make([]models.Citation, len(retrieved))
	for i, scored := range retrieved {
		citations[i] = models.Citation{
			File: scored.Unit.FileName,
			Page: scored.Unit.PageLabel,
			Text: previewText(scored.Unit.Text),
		}
	}
	return citations
}

// previewText truncates on rune boundaries so regional scripts are never
// cut mid-character.
func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= citationPreviewLen {
		return text
	}
	return string(runes[:citationPreviewLen]) + "..."
}
