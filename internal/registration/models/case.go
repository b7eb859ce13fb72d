package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	dErrors "civreg/pkg/domain-errors"
)

// Submission is the caller input for one death registration.
type Submission struct {
	NationalID         string
	FullName           string
	Gender             string
	DateOfBirth        time.Time
	DateOfDeath        time.Time
	PlaceOfDeath       string
	CauseOfDeath       string
	InformantName      string
	InformantID        string
	RelationToDeceased string
	Documents          []UploadedDocument
}

// CaseRecord is one death-registration attempt as it moves through the
// pipeline. Stages never mutate a record in place; they return a new value
// built with the With* methods.
//
// Invariants:
//   - CitizenID and InformantID are assigned at most once
//   - Status is written once and is always a known decision
//   - RecordID is set only when Status is approved
//   - certificate fields are written once
type CaseRecord struct {
	CaseID uuid.UUID

	NationalID  string
	CitizenID   CitizenID
	FullName    string
	Gender      string
	DateOfBirth time.Time

	DateOfDeath  time.Time
	PlaceOfDeath string
	CauseOfDeath string

	InformantName       string
	InformantExternalID string
	RelationToDeceased  string
	InformantID         InformantID

	Uploads           []UploadedDocument
	Documents         []VerifiedDocument
	DocumentsVerified bool

	Status    Status
	Screening ScreeningOutcome

	RecordID               RecordID
	CertificateNumber      string
	CertificatePath        string
	CertificatePlaceholder bool
}

// NewCaseRecord validates a submission and builds the initial record.
func NewCaseRecord(caseID uuid.UUID, in Submission) (CaseRecord, error) {
	nationalID := strings.TrimSpace(in.NationalID)
	if nationalID == "" {
		return CaseRecord{}, dErrors.New(dErrors.CodeValidation, "national_id is required")
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		return CaseRecord{}, dErrors.New(dErrors.CodeValidation, "full_name is required")
	}
	if in.DateOfDeath.IsZero() {
		return CaseRecord{}, dErrors.New(dErrors.CodeValidation, "date_of_death is required")
	}
	if !in.DateOfBirth.IsZero() && in.DateOfDeath.Before(in.DateOfBirth) {
		return CaseRecord{}, dErrors.New(dErrors.CodeValidation, "date_of_death is before date_of_birth")
	}
	if strings.TrimSpace(in.InformantName) == "" {
		return CaseRecord{}, dErrors.New(dErrors.CodeValidation, "informant_name is required")
	}
	for _, doc := range in.Documents {
		if strings.TrimSpace(doc.Name) == "" {
			return CaseRecord{}, dErrors.New(dErrors.CodeValidation, "document name is required")
		}
	}

	return CaseRecord{
		CaseID:              caseID,
		NationalID:          nationalID,
		FullName:            fullName,
		Gender:              strings.TrimSpace(in.Gender),
		DateOfBirth:         in.DateOfBirth,
		DateOfDeath:         in.DateOfDeath,
		PlaceOfDeath:        strings.TrimSpace(in.PlaceOfDeath),
		CauseOfDeath:        strings.TrimSpace(in.CauseOfDeath),
		InformantName:       strings.TrimSpace(in.InformantName),
		InformantExternalID: strings.TrimSpace(in.InformantID),
		RelationToDeceased:  strings.TrimSpace(in.RelationToDeceased),
		Uploads:             append([]UploadedDocument(nil), in.Documents...),
	}, nil
}

// Subject returns the identity used in collaborator prompts.
func (c CaseRecord) Subject() Subject {
	return Subject{FullName: c.FullName, NationalID: c.NationalID}
}

// HasRecord reports whether persistence assigned a record id.
func (c CaseRecord) HasRecord() bool {
	return c.RecordID != 0
}

// WithCitizenID assigns the citizen id. Re-assigning the same id is a no-op.
func (c CaseRecord) WithCitizenID(id CitizenID) (CaseRecord, error) {
	if id == 0 {
		return c, dErrors.New(dErrors.CodeInvariantViolation, "citizen id must be non-zero")
	}
	if c.CitizenID != 0 && c.CitizenID != id {
		return c, dErrors.New(dErrors.CodeInvariantViolation, "citizen id already assigned")
	}
	c.CitizenID = id
	return c, nil
}

// WithInformantID assigns the informant id. Re-assigning the same id is a no-op.
func (c CaseRecord) WithInformantID(id InformantID) (CaseRecord, error) {
	if id == 0 {
		return c, dErrors.New(dErrors.CodeInvariantViolation, "informant id must be non-zero")
	}
	if c.InformantID != 0 && c.InformantID != id {
		return c, dErrors.New(dErrors.CodeInvariantViolation, "informant id already assigned")
	}
	c.InformantID = id
	return c, nil
}

// WithDocuments records verification results in submission order.
func (c CaseRecord) WithDocuments(docs []VerifiedDocument, requiredMarkers int) CaseRecord {
	c.Documents = append([]VerifiedDocument(nil), docs...)
	c.DocumentsVerified = DocumentsVerified(c.Documents, requiredMarkers)
	return c
}

// WithScreening writes the screening decision. Status is write-once.
func (c CaseRecord) WithScreening(outcome ScreeningOutcome) (CaseRecord, error) {
	if c.Status != "" {
		return c, dErrors.New(dErrors.CodeInvariantViolation, "status already decided")
	}
	if !outcome.Status.IsValid() {
		return c, dErrors.New(dErrors.CodeInvariantViolation, "unknown status "+string(outcome.Status))
	}
	c.Status = outcome.Status
	c.Screening = outcome
	return c, nil
}

// WithRecordID assigns the persisted record id of an approved case.
func (c CaseRecord) WithRecordID(id RecordID) (CaseRecord, error) {
	if !c.Status.IsApproved() {
		return c, dErrors.New(dErrors.CodeInvariantViolation, "only approved cases are persisted")
	}
	if id == 0 {
		return c, dErrors.New(dErrors.CodeInvariantViolation, "record id must be non-zero")
	}
	if c.RecordID != 0 {
		return c, dErrors.New(dErrors.CodeInvariantViolation, "record id already assigned")
	}
	c.RecordID = id
	return c, nil
}

// WithCertificate writes the certificate fields once.
func (c CaseRecord) WithCertificate(cert Certificate, placeholder bool) (CaseRecord, error) {
	if c.CertificateNumber != "" || c.CertificatePath != "" {
		return c, dErrors.New(dErrors.CodeInvariantViolation, "certificate already issued")
	}
	c.CertificateNumber = cert.Number
	c.CertificatePath = cert.Path
	c.CertificatePlaceholder = placeholder
	return c, nil
}

// CertificateRequest projects the fields printed on a certificate.
func (c CaseRecord) CertificateRequest() CertificateRequest {
	return CertificateRequest{
		RecordID:      c.RecordID,
		FullName:      c.FullName,
		NationalID:    c.NationalID,
		DateOfDeath:   c.DateOfDeath,
		PlaceOfDeath:  c.PlaceOfDeath,
		CauseOfDeath:  c.CauseOfDeath,
		InformantName: c.InformantName,
	}
}

// DeathRecord projects the row persisted for an approved case.
func (c CaseRecord) DeathRecord(createdAt time.Time) DeathRecord {
	return DeathRecord{
		CaseID:       c.CaseID,
		CitizenID:    c.CitizenID,
		InformantID:  c.InformantID,
		DateOfDeath:  c.DateOfDeath,
		PlaceOfDeath: c.PlaceOfDeath,
		CauseOfDeath: c.CauseOfDeath,
		Documents:    append([]VerifiedDocument(nil), c.Documents...),
		Screening:    c.Screening,
		CreatedAt:    createdAt,
	}
}

// Citizen projects the citizen row for an upsert.
func (c CaseRecord) Citizen() Citizen {
	return Citizen{
		FullName:    c.FullName,
		NationalID:  c.NationalID,
		Gender:      c.Gender,
		DateOfBirth: c.DateOfBirth,
		Status:      CitizenAlive,
	}
}

// Informant projects the informant row for an upsert.
func (c CaseRecord) Informant() Informant {
	return Informant{
		FullName:           c.InformantName,
		ExternalID:         c.InformantExternalID,
		RelationToDeceased: c.RelationToDeceased,
	}
}
