package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  1234567890  ", "DEATH  "},
			expected: []string{"1234567890", "DEATH"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"b", "a", "b", "c", "a"},
			expected: []string{"b", "a", "c"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"a", "", "  ", "b"},
			expected: []string{"a", "b"},
		},
		{
			name:     "keeps case distinct",
			input:    []string{"Death", "death"},
			expected: []string{"Death", "death"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestFirstMissing(t *testing.T) {
	text := "FEDERAL REPUBLIC\nNational ID: 1234567890\nJohn Doe"

	t.Run("all present", func(t *testing.T) {
		missing, ok := FirstMissing(text, []string{"1234567890", "John Doe"})
		assert.True(t, ok)
		assert.Empty(t, missing)
	})

	t.Run("case sensitive", func(t *testing.T) {
		missing, ok := FirstMissing(text, []string{"john doe"})
		assert.False(t, ok)
		assert.Equal(t, "john doe", missing)
	})

	t.Run("reports first absent needle", func(t *testing.T) {
		missing, ok := FirstMissing(text, []string{"1234567890", "0000", "1111"})
		assert.False(t, ok)
		assert.Equal(t, "0000", missing)
	})

	t.Run("no needles", func(t *testing.T) {
		_, ok := FirstMissing("", nil)
		assert.True(t, ok)
	})
}
