package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "civreg/pkg/domain-errors"
)

const caseYAML = `
national_id: " NID-1001 "
full_name: Amina Yusuf
gender: F
date_of_birth: "1950-03-14"
date_of_death: "2024-01-05"
place_of_death: County Hospital
cause_of_death: Cardiac arrest
informant_name: Omar Yusuf
informant_id: INF-77
relation_to_deceased: Son
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadCase(t *testing.T) {
	dir := t.TempDir()

	t.Run("decodes and normalizes", func(t *testing.T) {
		req, err := readCase(writeFile(t, dir, "case.yaml", caseYAML))
		require.NoError(t, err)
		assert.Equal(t, "NID-1001", req.NationalID)
		assert.Equal(t, "Son", req.RelationToDeceased)
	})

	t.Run("missing required field is a validation error", func(t *testing.T) {
		_, err := readCase(writeFile(t, dir, "partial.yaml", "full_name: Someone\n"))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readCase(filepath.Join(dir, "nope.yaml"))
		assert.ErrorContains(t, err, "read case")
	})
}

func TestReadDocumentsKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b.txt", "second")
	a := writeFile(t, dir, "a.txt", "first")

	docs, err := readDocuments([]string{b, a})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "b.txt", docs[0].Name)
	assert.Equal(t, []byte("first"), docs[1].Content)

	_, err = readDocuments([]string{filepath.Join(dir, "missing.png")})
	assert.ErrorContains(t, err, "read document")
}
