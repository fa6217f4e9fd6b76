package main

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncatePreviewShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "short text", truncatePreview("short text", 120))
}

func TestTruncatePreviewLongText(t *testing.T) {
	long := strings.Repeat("x", 200)
	got := truncatePreview(long, 120)
	assert.Len(t, got, 123)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestTruncatePreviewRuneSafe(t *testing.T) {
	// Devanagari runes are multi-byte; truncation must never leave a
	// partial character behind.
	long := strings.Repeat("धारा ", 100)
	got := truncatePreview(long, 120)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 123, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}
