package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sectionResult(texts ...string) *ExtractionResult {
	sections := make([]Section, len(texts))
	for i, t := range texts {
		sections[i] = Section{Text: t}
	}
	return &ExtractionResult{Sections: sections, Strategy: "plain-text"}
}

func TestChunkerSmallTextSingleUnit(t *testing.T) {
	chunker := NewChunker(512, 150)

	units := chunker.Chunk(sectionResult("This is a short document. It has two sentences."), "short.txt")

	require.Len(t, units, 1)
	assert.Equal(t, "This is a short document. It has two sentences.", units[0].Text)
	assert.Equal(t, "short.txt", units[0].FileName)
	assert.Equal(t, 0, units[0].Order)
	assert.NotEmpty(t, units[0].UnitID)
}

func TestChunkerEmptyTextNoUnits(t *testing.T) {
	chunker := NewChunker(512, 150)

	assert.Empty(t, chunker.Chunk(sectionResult(""), "empty.txt"))
	assert.Empty(t, chunker.Chunk(sectionResult("   \n\t  "), "blank.txt"))
	assert.Empty(t, chunker.Chunk(nil, "nil.txt"))
}

func TestChunkerOrderIsSequential(t *testing.T) {
	chunker := NewChunker(20, 5)

	var b strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "Sentence number %d carries a handful of words for testing. ", i)
	}

	units := chunker.Chunk(sectionResult(b.String()), "long.txt")
	require.Greater(t, len(units), 1)

	for i, unit := range units {
		assert.Equal(t, i, unit.Order)
		assert.Equal(t, "long.txt", unit.FileName)
	}
}

func TestChunkerOverlapIsSentenceAligned(t *testing.T) {
	chunker := NewChunker(20, 8)

	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "Provision %d of the act applies here. ", i)
	}

	units := chunker.Chunk(sectionResult(b.String()), "act.txt")
	require.Greater(t, len(units), 1)

	// Each chunk after the first must start with a sentence that already
	// appeared at the tail of the previous chunk.
	for i := 1; i < len(units); i++ {
		firstSentence := splitSentences(units[i].Text)[0]
		assert.Contains(t, units[i-1].Text, firstSentence,
			"chunk %d does not overlap with its predecessor", i)
	}
}

func TestChunkerNoSentenceLost(t *testing.T) {
	chunker := NewChunker(15, 4)

	var sentences []string
	for i := 0; i < 25; i++ {
		sentences = append(sentences, fmt.Sprintf("Clause %d binds the parties.", i))
	}

	units := chunker.Chunk(sectionResult(strings.Join(sentences, " ")), "clauses.txt")
	require.NotEmpty(t, units)

	joined := ""
	for _, u := range units {
		joined += u.Text + " "
	}
	for _, s := range sentences {
		assert.Contains(t, joined, s)
	}
}

func TestChunkerPageLabelsCarryThrough(t *testing.T) {
	chunker := NewChunker(512, 150)

	result := &ExtractionResult{
		Sections: []Section{
			{PageLabel: "1", Text: "First page content here."},
			{PageLabel: "2", Text: "Second page content here."},
		},
		Strategy: "pdf-text-layer",
	}

	units := chunker.Chunk(result, "doc.pdf")
	require.Len(t, units, 2)
	assert.Equal(t, "1", units[0].PageLabel)
	assert.Equal(t, "2", units[1].PageLabel)
	assert.Equal(t, 0, units[0].Order)
	assert.Equal(t, 1, units[1].Order)
}

func TestChunkerOversizedSentenceStillChunked(t *testing.T) {
	chunker := NewChunker(10, 3)

	// One sentence far above the size threshold must still produce a unit.
	long := strings.Repeat("word ", 50) + "end."
	units := chunker.Chunk(sectionResult(long), "big.txt")
	require.NotEmpty(t, units)
}

func TestSplitSentencesDevanagariDanda(t *testing.T) {
	sentences := splitSentences("यह पहला वाक्य है। यह दूसरा वाक्य है।")
	require.Len(t, sentences, 2)
	assert.Equal(t, "यह पहला वाक्य है।", sentences[0])
	assert.Equal(t, "यह दूसरा वाक्य है।", sentences[1])
}

func TestSplitSentencesNoTerminator(t *testing.T) {
	sentences := splitSentences("a fragment without any terminator")
	require.Len(t, sentences, 1)
}
