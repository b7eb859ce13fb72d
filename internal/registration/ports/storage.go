package ports

import (
	"context"

	"civreg/internal/registration/models"
)

// Storage is the durable store for citizens, informants and death records.
// Upserts are atomic per natural key so concurrent cases for the same
// national id converge on one citizen row.
type Storage interface {
	// FindCitizenByNationalID returns sentinel.ErrNotFound when no citizen
	// carries the national id.
	FindCitizenByNationalID(ctx context.Context, nationalID string) (models.Citizen, error)

	// UpsertCitizen inserts the citizen or returns the id of the existing row
	// with the same national id. Existing rows are not overwritten.
	UpsertCitizen(ctx context.Context, citizen models.Citizen) (models.CitizenID, error)

	// UpsertInformant inserts the informant. When ExternalID is set and
	// already stored, the existing id is returned.
	UpsertInformant(ctx context.Context, informant models.Informant) (models.InformantID, error)

	HasDeathRecordFor(ctx context.Context, citizenID models.CitizenID) (bool, error)

	// InsertDeathRecord writes the record together with its verified
	// documents and screening outcome and marks the citizen deceased.
	InsertDeathRecord(ctx context.Context, record models.DeathRecord) (models.RecordID, error)

	// AttachCertificate stores the issued certificate number on the record.
	AttachCertificate(ctx context.Context, recordID models.RecordID, number string) error
}
