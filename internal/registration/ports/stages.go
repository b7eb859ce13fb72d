package ports

import (
	"context"

	"civreg/internal/registration/models"
	"civreg/pkg/platform/audit"
)

// DocumentVerifier checks one stored document.
type DocumentVerifier interface {
	VerifyDocument(ctx context.Context, name, storedPath string, markers []string, subject models.Subject) (models.VerifiedDocument, error)
}

// FraudScreener decides the case status.
type FraudScreener interface {
	Screen(ctx context.Context, citizenID models.CitizenID, documentsVerified bool) (models.ScreeningOutcome, error)
}

// CertificateIssuer renders the certificate of a persisted record.
type CertificateIssuer interface {
	Issue(ctx context.Context, req models.CertificateRequest) (models.Certificate, error)
}

// AuditPublisher receives registration audit events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
