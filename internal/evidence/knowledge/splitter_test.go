package knowledge

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSplitterPacksWords(t *testing.T) {
	s := NewSplitter(10, 3)
	assert.Equal(t, []string{"aaaa bbbb", "cccc dddd"}, s.Split("aaaa bbbb cccc dddd"))
}

func TestSplitterCarriesOverlap(t *testing.T) {
	s := NewSplitter(10, 5)
	assert.Equal(t, []string{"aaaa bbbb", "bbbb cccc", "cccc dddd"}, s.Split("aaaa bbbb cccc dddd"))
}

func TestSplitterFallsBackToCharacters(t *testing.T) {
	s := NewSplitter(4, 0)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, s.Split("abcdefghij"))
}

func TestSplitterPrefersParagraphs(t *testing.T) {
	s := NewSplitter(20, 0)
	got := s.Split("first para\n\nsecond para")
	assert.Equal(t, []string{"first para", "second para"}, got)
}

func TestSplitterCountsRunes(t *testing.T) {
	s := NewSplitter(DefaultChunkSize, DefaultChunkOverlap)
	line := strings.Repeat("ሞት ", 400)
	for _, chunk := range s.Split(line) {
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), DefaultChunkSize)
	}
}

func TestNewSplitterDefaults(t *testing.T) {
	s := NewSplitter(0, -1)
	assert.Equal(t, DefaultChunkSize, s.Size)
	assert.Equal(t, 0, s.Overlap)
	assert.Empty(t, s.Split(""))
}

func TestSplitOnKeepsSeparatorAsPrefix(t *testing.T) {
	assert.Equal(t, []string{"a", " b", " c"}, splitOn("a b c", " "))
	assert.Equal(t, []string{"\n\nrule 1", "\n\nrule 2"}, splitOn("\n\nrule 1\n\nrule 2", "\n\n"))
}

func TestSplitterPreservesRepeatedSeparators(t *testing.T) {
	s := NewSplitter(20, 0)
	assert.Equal(t, []string{"alpha  beta"}, s.Split("alpha  beta"))
}

func TestSplitterChunksAreSourceSubstrings(t *testing.T) {
	text := "Section 1\n\nA death must be reported within 30 days.\nLate reports need a court order.\n\n" +
		"Section 2\n\nThe informant  must present an ID card."
	s := NewSplitter(40, 10)
	chunks := s.Split(text)
	assert.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.Contains(t, text, chunk)
		assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 40)
	}
}
