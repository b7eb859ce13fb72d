package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civreg/internal/registration/models"
)

func testDocument() models.CertificateDocument {
	return models.CertificateDocument{
		CertificateRequest: models.CertificateRequest{
			RecordID:      7,
			FullName:      "Abebe Kebede",
			NationalID:    "1234567890",
			DateOfDeath:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
			PlaceOfDeath:  "Addis Ababa",
			CauseOfDeath:  "Natural causes",
			InformantName: "Almaz Kebede",
		},
		Number:   "DC-0007",
		IssuedOn: time.Date(2025, 3, 20, 9, 30, 0, 0, time.UTC),
	}
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{
		"Certificate Number: DC-0007",
		"Full Name: Abebe Kebede",
		"National ID: 1234567890",
		"Date of Death: 2025-03-14",
		"Place of Death: Addis Ababa",
		"Cause of Death: Natural causes",
		"Informant: Almaz Kebede",
		"Date Registered: 2025-03-20",
	}, Lines(testDocument()))
}

func TestLinesZeroDates(t *testing.T) {
	lines := Lines(models.CertificateDocument{Number: "DC-0001"})
	assert.Equal(t, "Date of Death: ", lines[3])
	assert.Equal(t, "Date Registered: ", lines[7])
}

func TestRenderWritesPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "certificates", "DC-0007.pdf")

	got, err := New(WithCompression(false)).Render(context.Background(), path, testDocument())
	require.NoError(t, err)
	assert.Equal(t, path, got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
	assert.Contains(t, string(raw), "(Death Certificate)")
	assert.Contains(t, string(raw), "(Certificate Number: DC-0007)")
	assert.Contains(t, string(raw), "(Informant: Almaz Kebede)")
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Render(ctx, filepath.Join(t.TempDir(), "x.pdf"), testDocument())
	require.ErrorIs(t, err, context.Canceled)
}
