package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"legal-assistant-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator records the prompt it received and returns a scripted
// response.
type fakeGenerator struct {
	response string
	err      error
	prompt   string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func scoredUnits() []models.ScoredUnit {
	return []models.ScoredUnit{
		{Unit: models.RetrievalUnit{UnitID: "a", Text: "Section 2(j) defines workman as any person employed in any industry.", FileName: "ida.pdf", PageLabel: "3", Order: 0}, Score: 0.91},
		{Unit: models.RetrievalUnit{UnitID: "b", Text: "The appropriate government may refer disputes to a tribunal.", FileName: "ida.pdf", PageLabel: "7", Order: 1}, Score: 0.84},
	}
}

func TestAnswerReturnsResponseAndCitations(t *testing.T) {
	gen := &fakeGenerator{response: "  A workman is any person employed in an industry.  "}
	assembler := NewAnswerAssembler(gen)

	result, err := assembler.Answer(context.Background(), "who is a workman", scoredUnits())
	require.NoError(t, err)

	assert.Equal(t, "A workman is any person employed in an industry.", result.Response)
	require.Len(t, result.Sources, 2)

	// Citations follow retrieval rank order.
	assert.Equal(t, "ida.pdf", result.Sources[0].File)
	assert.Equal(t, "3", result.Sources[0].Page)
	assert.Equal(t, "7", result.Sources[1].Page)
}

func TestAnswerGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model overloaded")}
	assembler := NewAnswerAssembler(gen)

	_, err := assembler.Answer(context.Background(), "who is a workman", scoredUnits())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationService)
}

func TestPromptContainsContextAndRules(t *testing.T) {
	gen := &fakeGenerator{response: "ok"}
	assembler := NewAnswerAssembler(gen)

	_, err := assembler.Answer(context.Background(), "who is a workman", scoredUnits())
	require.NoError(t, err)

	assert.Contains(t, gen.prompt, "Context information is below.")
	assert.Contains(t, gen.prompt, "[ida.pdf, page 3]")
	assert.Contains(t, gen.prompt, "Section 2(j) defines workman")
	assert.Contains(t, gen.prompt, "Query: who is a workman")

	// The fixed rule set rides along on every prompt.
	assert.Contains(t, gen.prompt, "Never reveal filesystem paths")
	assert.Contains(t, gen.prompt, `"Section 2(j)" and "Section 2j" are different provisions`)
	assert.Contains(t, gen.prompt, "Answer in the same language as the query")
}

func TestPromptOmitsPageWhenUnlabeled(t *testing.T) {
	gen := &fakeGenerator{response: "ok"}
	assembler := NewAnswerAssembler(gen)

	units := []models.ScoredUnit{
		{Unit: models.RetrievalUnit{UnitID: "x", Text: "plain text unit", FileName: "notes.txt"}, Score: 0.5},
	}
	_, err := assembler.Answer(context.Background(), "q", units)
	require.NoError(t, err)

	assert.Contains(t, gen.prompt, "[notes.txt]\n")
	assert.NotContains(t, gen.prompt, "[notes.txt, page")
}

func TestCitationPreviewTruncation(t *testing.T) {
	long := strings.Repeat("x", citationPreviewLen+50)
	units := []models.ScoredUnit{
		{Unit: models.RetrievalUnit{UnitID: "x", Text: long, FileName: "big.txt"}, Score: 0.5},
	}

	citations := buildCitations(units)
	require.Len(t, citations, 1)
	assert.Len(t, []rune(citations[0].Text), citationPreviewLen+3)
	assert.True(t, strings.HasSuffix(citations[0].Text, "..."))
}

func TestCitationPreviewRuneSafe(t *testing.T) {
	// Devanagari text must never be cut mid-character.
	long := strings.Repeat("धारा ", 100)
	units := []models.ScoredUnit{
		{Unit: models.RetrievalUnit{UnitID: "x", Text: long, FileName: "hindi.txt"}, Score: 0.5},
	}

	citations := buildCitations(units)
	require.Len(t, citations, 1)
	assert.True(t, strings.HasSuffix(citations[0].Text, "..."))
	for _, r := range citations[0].Text {
		assert.NotEqual(t, '�', r)
	}
}

func TestAnswerWithNoRetrievedUnits(t *testing.T) {
	gen := &fakeGenerator{response: "I could not find relevant documents."}
	assembler := NewAnswerAssembler(gen)

	result, err := assembler.Answer(context.Background(), "anything", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Sources)
	assert.NotEmpty(t, result.Response)
}
