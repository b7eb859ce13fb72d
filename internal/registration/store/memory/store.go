// Package memory is an in-process registration store for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"civreg/internal/registration/models"
	"civreg/pkg/platform/sentinel"
)

// Store guards every natural key with one mutex, which gives the same
// per-key atomicity the postgres unique constraints give.
type Store struct {
	mu sync.RWMutex

	nextCitizen   models.CitizenID
	nextInformant models.InformantID
	nextRecord    models.RecordID

	citizens         map[models.CitizenID]models.Citizen
	citizenByNID     map[string]models.CitizenID
	informants       map[models.InformantID]models.Informant
	informantByExtID map[string]models.InformantID
	records          map[models.RecordID]models.DeathRecord
	certificates     map[string]models.RecordID
}

func New() *Store {
	return &Store{
		citizens:         make(map[models.CitizenID]models.Citizen),
		citizenByNID:     make(map[string]models.CitizenID),
		informants:       make(map[models.InformantID]models.Informant),
		informantByExtID: make(map[string]models.InformantID),
		records:          make(map[models.RecordID]models.DeathRecord),
		certificates:     make(map[string]models.RecordID),
	}
}

func (s *Store) FindCitizenByNationalID(_ context.Context, nationalID string) (models.Citizen, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.citizenByNID[nationalID]
	if !ok {
		return models.Citizen{}, sentinel.ErrNotFound
	}
	return s.citizens[id], nil
}

func (s *Store) UpsertCitizen(_ context.Context, citizen models.Citizen) (models.CitizenID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.citizenByNID[citizen.NationalID]; ok {
		return id, nil
	}
	s.nextCitizen++
	citizen.ID = s.nextCitizen
	if citizen.Status == "" {
		citizen.Status = models.CitizenAlive
	}
	s.citizens[citizen.ID] = citizen
	s.citizenByNID[citizen.NationalID] = citizen.ID
	return citizen.ID, nil
}

func (s *Store) UpsertInformant(_ context.Context, informant models.Informant) (models.InformantID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if informant.ExternalID != "" {
		if id, ok := s.informantByExtID[informant.ExternalID]; ok {
			return id, nil
		}
	}
	s.nextInformant++
	informant.ID = s.nextInformant
	s.informants[informant.ID] = informant
	if informant.ExternalID != "" {
		s.informantByExtID[informant.ExternalID] = informant.ID
	}
	return informant.ID, nil
}

func (s *Store) HasDeathRecordFor(_ context.Context, citizenID models.CitizenID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.CitizenID == citizenID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) InsertDeathRecord(_ context.Context, record models.DeathRecord) (models.RecordID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	citizen, ok := s.citizens[record.CitizenID]
	if !ok {
		return 0, fmt.Errorf("citizen %d: %w", record.CitizenID, sentinel.ErrNotFound)
	}
	if _, ok := s.informants[record.InformantID]; !ok {
		return 0, fmt.Errorf("informant %d: %w", record.InformantID, sentinel.ErrNotFound)
	}
	if record.CertificateNumber != "" {
		if _, taken := s.certificates[record.CertificateNumber]; taken {
			return 0, fmt.Errorf("certificate %s: %w", record.CertificateNumber, sentinel.ErrConflict)
		}
	}
	s.nextRecord++
	record.ID = s.nextRecord
	record.Documents = append([]models.VerifiedDocument(nil), record.Documents...)
	s.records[record.ID] = record
	if record.CertificateNumber != "" {
		s.certificates[record.CertificateNumber] = record.ID
	}
	citizen.Status = models.CitizenDeceased
	s.citizens[citizen.ID] = citizen
	return record.ID, nil
}

func (s *Store) AttachCertificate(_ context.Context, recordID models.RecordID, number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[recordID]
	if !ok {
		return fmt.Errorf("death record %d: %w", recordID, sentinel.ErrNotFound)
	}
	if owner, taken := s.certificates[number]; taken && owner != recordID {
		return fmt.Errorf("certificate %s: %w", number, sentinel.ErrConflict)
	}
	if record.CertificateNumber != "" {
		delete(s.certificates, record.CertificateNumber)
	}
	record.CertificateNumber = number
	s.records[recordID] = record
	s.certificates[number] = recordID
	return nil
}

// DeathRecord returns a stored record.
func (s *Store) DeathRecord(_ context.Context, id models.RecordID) (models.DeathRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return models.DeathRecord{}, sentinel.ErrNotFound
	}
	return r, nil
}

// Counts reports how many rows each table holds.
func (s *Store) Counts() (citizens, informants, records int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.citizens), len(s.informants), len(s.records)
}
