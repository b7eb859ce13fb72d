package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civreg/internal/registration/models"
	"civreg/pkg/platform/sentinel"
)

func TestCitizenUpsertIsIdempotentByNationalID(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.FindCitizenByNationalID(ctx, "1234567890")
	require.True(t, errors.Is(err, sentinel.ErrNotFound))

	first, err := s.UpsertCitizen(ctx, models.Citizen{FullName: "John Doe", NationalID: "1234567890"})
	require.NoError(t, err)
	second, err := s.UpsertCitizen(ctx, models.Citizen{FullName: "J. Doe", NationalID: "1234567890"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	found, err := s.FindCitizenByNationalID(ctx, "1234567890")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", found.FullName, "existing row is not overwritten")
	assert.Equal(t, models.CitizenAlive, found.Status)
}

func TestConcurrentCitizenUpsert(t *testing.T) {
	ctx := context.Background()
	s := New()
	const goroutines = 50

	ids := make([]models.CitizenID, goroutines)
	var wg sync.WaitGroup
	for i := range goroutines {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			id, err := s.UpsertCitizen(ctx, models.Citizen{FullName: "John Doe", NationalID: "1234567890"})
			assert.NoError(t, err)
			ids[idx] = id
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	citizens, _, _ := s.Counts()
	assert.Equal(t, 1, citizens)
}

func TestInformantUpsert(t *testing.T) {
	ctx := context.Background()
	s := New()

	a, err := s.UpsertInformant(ctx, models.Informant{FullName: "Jane Doe", ExternalID: "9876543210"})
	require.NoError(t, err)
	b, err := s.UpsertInformant(ctx, models.Informant{FullName: "Jane Doe", ExternalID: "9876543210"})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := s.UpsertInformant(ctx, models.Informant{FullName: "Anonymous"})
	require.NoError(t, err)
	d, err := s.UpsertInformant(ctx, models.Informant{FullName: "Anonymous"})
	require.NoError(t, err)
	assert.NotEqual(t, c, d, "informants without an external id always insert")
}

func TestInsertDeathRecord(t *testing.T) {
	ctx := context.Background()
	s := New()

	citizenID, _ := s.UpsertCitizen(ctx, models.Citizen{FullName: "John Doe", NationalID: "1234567890"})
	informantID, _ := s.UpsertInformant(ctx, models.Informant{FullName: "Jane Doe"})

	has, err := s.HasDeathRecordFor(ctx, citizenID)
	require.NoError(t, err)
	assert.False(t, has)

	recordID, err := s.InsertDeathRecord(ctx, models.DeathRecord{CitizenID: citizenID, InformantID: informantID})
	require.NoError(t, err)
	assert.NotZero(t, recordID)

	has, err = s.HasDeathRecordFor(ctx, citizenID)
	require.NoError(t, err)
	assert.True(t, has)

	citizen, err := s.FindCitizenByNationalID(ctx, "1234567890")
	require.NoError(t, err)
	assert.Equal(t, models.CitizenDeceased, citizen.Status)

	_, err = s.InsertDeathRecord(ctx, models.DeathRecord{CitizenID: 99, InformantID: informantID})
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}

func TestAttachCertificate(t *testing.T) {
	ctx := context.Background()
	s := New()

	citizenID, _ := s.UpsertCitizen(ctx, models.Citizen{NationalID: "1"})
	otherID, _ := s.UpsertCitizen(ctx, models.Citizen{NationalID: "2"})
	informantID, _ := s.UpsertInformant(ctx, models.Informant{FullName: "Jane Doe"})
	first, _ := s.InsertDeathRecord(ctx, models.DeathRecord{CitizenID: citizenID, InformantID: informantID})
	second, _ := s.InsertDeathRecord(ctx, models.DeathRecord{CitizenID: otherID, InformantID: informantID})

	require.NoError(t, s.AttachCertificate(ctx, first, "DC-0001"))
	record, err := s.DeathRecord(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "DC-0001", record.CertificateNumber)

	err = s.AttachCertificate(ctx, second, "DC-0001")
	assert.True(t, errors.Is(err, sentinel.ErrConflict))

	err = s.AttachCertificate(ctx, 42, "DC-0042")
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))
}
