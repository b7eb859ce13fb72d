package knowledge

import (
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenKeepsDocumentOrder(t *testing.T) {
	src := []byte(`
death_registration:
  required_documents:
    - National ID
    - Hospital death certificate
  deadline_days: 30
fraud:
  duplicate: reject
`)
	lines, err := Flatten(src)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"death_registration.required_documents[0]: National ID",
		"death_registration.required_documents[1]: Hospital death certificate",
		"death_registration.deadline_days: 30",
		"fraud.duplicate: reject",
	}, lines)
}

func TestFlattenJSON(t *testing.T) {
	lines, err := Flatten([]byte(`{"b": 1, "a": {"c": [true, {"d": "x"}]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"b: 1",
		"a.c[0]: true",
		"a.c[1]: {d: x}",
	}, lines)
}

func TestFlattenRejectsNonMapping(t *testing.T) {
	_, err := Flatten([]byte(`- one
- two`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sequence")

	lines, err := Flatten(nil)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestLoadSourceMissingFileNamesSetting(t *testing.T) {
	_, err := LoadSource(filepath.Join(t.TempDir(), "absent.json"))
	require.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "knowledge.source_path")
	assert.Contains(t, err.Error(), "absent.json")
}

func TestLoadSourceShippedRules(t *testing.T) {
	lines, err := LoadSource(filepath.Join("..", "..", "..", "knowledge_base", "death_rules.json"))
	require.NoError(t, err)
	assert.Contains(t, lines, "death_registration.reporting_deadline_days: 30")
	assert.Contains(t, lines, "outcomes.rejected_duplicate: A death record already exists for the citizen")
}
