package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "civreg/pkg/domain-errors"
)

func validSubmission() Submission {
	return Submission{
		NationalID:         "1234567890",
		FullName:           "John Doe",
		Gender:             "Male",
		DateOfBirth:        time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
		DateOfDeath:        time.Date(2025, 9, 6, 0, 0, 0, 0, time.UTC),
		PlaceOfDeath:       "Addis Ababa Hospital",
		CauseOfDeath:       "Natural Causes",
		InformantName:      "Jane Doe",
		InformantID:        "9876543210",
		RelationToDeceased: "Spouse",
		Documents: []UploadedDocument{
			{Name: "id_document.pdf", Content: []byte("1234567890")},
		},
	}
}

func TestNewCaseRecord(t *testing.T) {
	caseID := uuid.New()

	t.Run("valid submission", func(t *testing.T) {
		rec, err := NewCaseRecord(caseID, validSubmission())
		require.NoError(t, err)
		assert.Equal(t, caseID, rec.CaseID)
		assert.Equal(t, "1234567890", rec.NationalID)
		assert.Len(t, rec.Uploads, 1)
		assert.Empty(t, rec.Status)
		assert.False(t, rec.HasRecord())
	})

	tests := []struct {
		name   string
		mutate func(*Submission)
	}{
		{"missing national id", func(s *Submission) { s.NationalID = "  " }},
		{"missing full name", func(s *Submission) { s.FullName = "" }},
		{"missing date of death", func(s *Submission) { s.DateOfDeath = time.Time{} }},
		{"death before birth", func(s *Submission) { s.DateOfDeath = s.DateOfBirth.AddDate(-1, 0, 0) }},
		{"missing informant", func(s *Submission) { s.InformantName = "" }},
		{"unnamed document", func(s *Submission) { s.Documents[0].Name = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validSubmission()
			tt.mutate(&in)
			_, err := NewCaseRecord(caseID, in)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestCaseRecordIdentityIsAssignedOnce(t *testing.T) {
	rec, err := NewCaseRecord(uuid.New(), validSubmission())
	require.NoError(t, err)

	rec, err = rec.WithCitizenID(7)
	require.NoError(t, err)

	same, err := rec.WithCitizenID(7)
	require.NoError(t, err)
	assert.Equal(t, CitizenID(7), same.CitizenID)

	_, err = rec.WithCitizenID(8)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	rec, err = rec.WithInformantID(3)
	require.NoError(t, err)
	_, err = rec.WithInformantID(4)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestCaseRecordStatusIsWriteOnce(t *testing.T) {
	rec, err := NewCaseRecord(uuid.New(), validSubmission())
	require.NoError(t, err)

	_, err = rec.WithScreening(ScreeningOutcome{Status: "maybe"})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	rec, err = rec.WithScreening(ScreeningOutcome{Status: StatusRejectedFraud})
	require.NoError(t, err)
	_, err = rec.WithScreening(ScreeningOutcome{Status: StatusApproved})
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestCaseRecordRecordIDRequiresApproval(t *testing.T) {
	rec, err := NewCaseRecord(uuid.New(), validSubmission())
	require.NoError(t, err)

	_, err = rec.WithRecordID(1)
	require.Error(t, err)

	rec, err = rec.WithScreening(ScreeningOutcome{Status: StatusApproved})
	require.NoError(t, err)
	rec, err = rec.WithRecordID(1)
	require.NoError(t, err)
	assert.True(t, rec.HasRecord())

	_, err = rec.WithRecordID(2)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestCaseRecordCertificateIsWriteOnce(t *testing.T) {
	rec, err := NewCaseRecord(uuid.New(), validSubmission())
	require.NoError(t, err)

	rec, err = rec.WithCertificate(Certificate{Number: "MOCK-0001", Path: "certificates/mock_certificate_0000.pdf"}, true)
	require.NoError(t, err)
	assert.True(t, rec.CertificatePlaceholder)

	_, err = rec.WithCertificate(Certificate{Number: "DC-0001"}, false)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestCaseRecordWithDocumentsCopies(t *testing.T) {
	rec, err := NewCaseRecord(uuid.New(), validSubmission())
	require.NoError(t, err)

	docs := []VerifiedDocument{{Name: "a.pdf", OCRVerified: true, ReasoningVerified: true}}
	rec = rec.WithDocuments(docs, 1)
	docs[0].OCRVerified = false

	assert.True(t, rec.DocumentsVerified)
	assert.True(t, rec.Documents[0].OCRVerified)
}

func TestDocumentsVerified(t *testing.T) {
	ok := VerifiedDocument{OCRVerified: true, ReasoningVerified: true}
	ocrOnly := VerifiedDocument{OCRVerified: true}

	assert.False(t, DocumentsVerified(nil, 1), "empty set with a required marker")
	assert.True(t, DocumentsVerified(nil, 0), "empty set with nothing required")
	assert.True(t, DocumentsVerified([]VerifiedDocument{ok, ok}, 1))
	assert.False(t, DocumentsVerified([]VerifiedDocument{ok, ocrOnly}, 1))
}
