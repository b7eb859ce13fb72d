package certificate

import (
	"fmt"

	"civreg/internal/registration/models"
)

// Fallback decides the certificate fields of a case that was not approved
// and persisted.
type Fallback string

const (
	// FallbackPlaceholder fills a fixed mock number and a synthesized path.
	FallbackPlaceholder Fallback = "placeholder"
	// FallbackNone leaves the certificate fields empty.
	FallbackNone Fallback = "none"
)

const PlaceholderNumber = "MOCK-0001"

func (f Fallback) IsValid() bool {
	return f == FallbackPlaceholder || f == FallbackNone
}

// Apply returns the fallback certificate and whether it is a placeholder.
// Nothing is written to disk.
func (f Fallback) Apply(id models.RecordID) (models.Certificate, bool) {
	if f == FallbackNone {
		return models.Certificate{}, false
	}
	return models.Certificate{
		Number: PlaceholderNumber,
		Path:   fmt.Sprintf("certificates/mock_certificate_%04d.pdf", id),
	}, true
}
