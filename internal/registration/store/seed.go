// Package store holds the registration storage adapters and their shared
// seed data.
package store

import (
	"context"
	"fmt"
	"time"

	"civreg/internal/registration/models"
	"civreg/internal/registration/ports"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

var seedCitizens = []models.Citizen{
	{FullName: "John Doe", NationalID: "1234567890", Gender: "Male", DateOfBirth: day("1980-01-01"), Status: models.CitizenAlive},
	{FullName: "Alice Smith", NationalID: "9876543210", Gender: "Female", DateOfBirth: day("1990-05-12"), Status: models.CitizenAlive},
	{FullName: "Bob Johnson", NationalID: "5555555555", Gender: "Male", DateOfBirth: day("1975-03-20"), Status: models.CitizenAlive},
}

var seedInformants = []models.Informant{
	{FullName: "Jane Doe", ExternalID: "1111111111", RelationToDeceased: "Spouse"},
	{FullName: "Mary Smith", ExternalID: "2222222222", RelationToDeceased: "Parent"},
	{FullName: "Tom Johnson", ExternalID: "3333333333", RelationToDeceased: "Sibling"},
}

type seedRecord struct {
	citizen, informant int
	dateOfDeath        string
	place, cause       string
	certificate        string
}

var seedRecords = []seedRecord{
	{0, 0, "2025-09-06", "Addis Ababa Hospital", "Natural Causes", "DC-2025-0001"},
	{1, 1, "2025-08-15", "Health Center Bole", "Accident", "DC-2025-0002"},
}

// SeedResult lists the ids the seed produced, in seed order.
type SeedResult struct {
	Citizens   []models.CitizenID
	Informants []models.InformantID
	Records    []models.RecordID
}

// Seed loads the reference citizens, informants and historical death
// records. Citizens and informants are upserted by natural key. Records are
// inserted only for citizens that have none yet, so re-seeding is safe.
func Seed(ctx context.Context, s ports.Storage) (SeedResult, error) {
	var res SeedResult
	for _, c := range seedCitizens {
		id, err := s.UpsertCitizen(ctx, c)
		if err != nil {
			return res, fmt.Errorf("seed citizen %s: %w", c.FullName, err)
		}
		res.Citizens = append(res.Citizens, id)
	}
	for _, i := range seedInformants {
		id, err := s.UpsertInformant(ctx, i)
		if err != nil {
			return res, fmt.Errorf("seed informant %s: %w", i.FullName, err)
		}
		res.Informants = append(res.Informants, id)
	}
	for _, r := range seedRecords {
		citizenID := res.Citizens[r.citizen]
		exists, err := s.HasDeathRecordFor(ctx, citizenID)
		if err != nil {
			return res, fmt.Errorf("seed death record: %w", err)
		}
		if exists {
			continue
		}
		id, err := s.InsertDeathRecord(ctx, models.DeathRecord{
			CitizenID:    citizenID,
			InformantID:  res.Informants[r.informant],
			DateOfDeath:  day(r.dateOfDeath),
			PlaceOfDeath: r.place,
			CauseOfDeath: r.cause,
			Screening:    models.ScreeningOutcome{Status: models.StatusApproved},
			CreatedAt:    time.Now(),
		})
		if err != nil {
			return res, fmt.Errorf("seed death record: %w", err)
		}
		if err := s.AttachCertificate(ctx, id, r.certificate); err != nil {
			return res, fmt.Errorf("seed certificate %s: %w", r.certificate, err)
		}
		res.Records = append(res.Records, id)
	}
	return res, nil
}
