package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryCompliance covers events with legal significance: decisions,
	// persisted records and issued certificates.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine progress and failures.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// CaseID correlates every event of one registration run.
	CaseID string
	// SubjectIDHash is a SHA-256 hash of the deceased's national id. Raw
	// national ids never enter the audit trail.
	SubjectIDHash string
	Action        string
	Stage         string
	Decision      string
	Reason        string
	RequestID     string
}

type AuditEvent string

const (
	EventRegistrationStarted  AuditEvent = "registration_started"
	EventDocumentsVerified    AuditEvent = "documents_verified"
	EventScreeningDecided     AuditEvent = "screening_decided"
	EventDeathRecordPersisted AuditEvent = "death_record_persisted"
	EventCertificateIssued    AuditEvent = "certificate_issued"
	EventRegistrationFailed   AuditEvent = "registration_failed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventScreeningDecided:     CategoryCompliance,
	EventDeathRecordPersisted: CategoryCompliance,
	EventCertificateIssued:    CategoryCompliance,

	EventRegistrationStarted: CategoryOperations,
	EventDocumentsVerified:   CategoryOperations,
	EventRegistrationFailed:  CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// HashSubject returns the hex SHA-256 of a subject identifier.
func HashSubject(nationalID string) string {
	if nationalID == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(nationalID))
	return hex.EncodeToString(sum[:])
}
