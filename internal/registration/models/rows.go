package models

import (
	"time"

	"github.com/google/uuid"
)

// CitizenID, InformantID and RecordID are storage-assigned surrogate keys.
// Zero means "not assigned".
type (
	CitizenID   int64
	InformantID int64
	RecordID    int64
)

// CitizenStatus tracks whether the registry considers the citizen alive.
type CitizenStatus string

const (
	CitizenAlive    CitizenStatus = "alive"
	CitizenDeceased CitizenStatus = "deceased"
)

// Citizen is the stored projection of the deceased. NationalID is the natural key.
type Citizen struct {
	ID          CitizenID
	FullName    string
	NationalID  string
	Gender      string
	DateOfBirth time.Time
	Status      CitizenStatus
}

// Informant is the person reporting the death. ExternalID is the natural key
// when present.
type Informant struct {
	ID                 InformantID
	FullName           string
	ExternalID         string
	RelationToDeceased string
}

// DeathRecord is the persisted registration. Documents and Screening are
// written alongside it for the audit trail.
type DeathRecord struct {
	ID                RecordID
	CaseID            uuid.UUID
	CitizenID         CitizenID
	InformantID       InformantID
	DateOfDeath       time.Time
	PlaceOfDeath      string
	CauseOfDeath      string
	CertificateNumber string
	Documents         []VerifiedDocument
	Screening         ScreeningOutcome
	CreatedAt         time.Time
}
