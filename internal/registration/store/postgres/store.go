// Package postgres is the PostgreSQL registration store.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"civreg/internal/registration/models"
	"civreg/pkg/platform/sentinel"
	txcontext "civreg/pkg/platform/tx"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Store persists citizens, informants and death records. Natural-key
// upserts rely on the unique indexes so concurrent cases converge.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *Store) FindCitizenByNationalID(ctx context.Context, nationalID string) (models.Citizen, error) {
	query := `
		SELECT citizen_id, full_name, national_id, gender, date_of_birth, status
		FROM citizens
		WHERE national_id = $1
	`
	var (
		c   models.Citizen
		dob sql.NullTime
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, nationalID).Scan(
		&c.ID, &c.FullName, &c.NationalID, &c.Gender, &dob, &c.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Citizen{}, sentinel.ErrNotFound
		}
		return models.Citizen{}, fmt.Errorf("find citizen: %w", err)
	}
	if dob.Valid {
		c.DateOfBirth = dob.Time
	}
	return c, nil
}

func (s *Store) UpsertCitizen(ctx context.Context, citizen models.Citizen) (models.CitizenID, error) {
	status := citizen.Status
	if status == "" {
		status = models.CitizenAlive
	}
	query := `
		INSERT INTO citizens (full_name, national_id, gender, date_of_birth, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (national_id) DO UPDATE SET
			national_id = EXCLUDED.national_id
		RETURNING citizen_id
	`
	var id models.CitizenID
	err := s.execer(ctx).QueryRowContext(ctx, query,
		citizen.FullName,
		citizen.NationalID,
		citizen.Gender,
		nullDate(citizen.DateOfBirth),
		string(status),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert citizen: %w", err)
	}
	return id, nil
}

func (s *Store) UpsertInformant(ctx context.Context, informant models.Informant) (models.InformantID, error) {
	query := `
		INSERT INTO informants (full_name, external_id, relation_to_deceased)
		VALUES ($1, $2, $3)
		ON CONFLICT (external_id) WHERE external_id <> '' DO UPDATE SET
			external_id = EXCLUDED.external_id
		RETURNING informant_id
	`
	var id models.InformantID
	err := s.execer(ctx).QueryRowContext(ctx, query,
		informant.FullName,
		informant.ExternalID,
		informant.RelationToDeceased,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert informant: %w", err)
	}
	return id, nil
}

func (s *Store) HasDeathRecordFor(ctx context.Context, citizenID models.CitizenID) (bool, error) {
	var exists bool
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM death_records WHERE citizen_id = $1)`, citizenID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check death record: %w", err)
	}
	return exists, nil
}

// InsertDeathRecord writes the record, its documents and screening outcome,
// and flips the citizen to deceased in one transaction.
func (s *Store) InsertDeathRecord(ctx context.Context, record models.DeathRecord) (models.RecordID, error) {
	var id models.RecordID
	err := txcontext.Run(ctx, s.db, func(ctx context.Context) error {
		exec := s.execer(ctx)
		query := `
			INSERT INTO death_records (citizen_id, date_of_death, place_of_death, cause_of_death,
				informant_id, certificate_number, case_id, created_at)
			VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)
			RETURNING record_id
		`
		err := exec.QueryRowContext(ctx, query,
			record.CitizenID,
			record.DateOfDeath,
			record.PlaceOfDeath,
			record.CauseOfDeath,
			record.InformantID,
			record.CertificateNumber,
			nullUUID(record.CaseID),
			createdAt(record.CreatedAt),
		).Scan(&id)
		if err != nil {
			return mapWriteError("insert death record", err)
		}

		for _, doc := range record.Documents {
			_, err := exec.ExecContext(ctx, `
				INSERT INTO documents (record_id, name, stored_path, markers, ocr_verified, reasoning_verified)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, id, doc.Name, doc.StoredPath, pq.Array(doc.Markers), doc.OCRVerified, doc.ReasoningVerified)
			if err != nil {
				return fmt.Errorf("insert document %q: %w", doc.Name, err)
			}
		}

		if record.Screening.Status != "" {
			_, err := exec.ExecContext(ctx, `
				INSERT INTO fraud_checks (record_id, duplicate_found, documents_verified, decision, raw_answer, fell_back, checked_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, id,
				record.Screening.DuplicateFound,
				record.Screening.DocumentsVerified,
				string(record.Screening.Status),
				record.Screening.RawAnswer,
				record.Screening.FellBack,
				createdAt(record.CreatedAt),
			)
			if err != nil {
				return fmt.Errorf("insert fraud check: %w", err)
			}
		}

		if _, err := exec.ExecContext(ctx,
			`UPDATE citizens SET status = $2 WHERE citizen_id = $1`,
			record.CitizenID, string(models.CitizenDeceased),
		); err != nil {
			return fmt.Errorf("mark citizen deceased: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Store) AttachCertificate(ctx context.Context, recordID models.RecordID, number string) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`UPDATE death_records SET certificate_number = $2 WHERE record_id = $1`,
		recordID, number,
	)
	if err != nil {
		return mapWriteError("attach certificate", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("attach certificate rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("death record %d: %w", recordID, sentinel.ErrNotFound)
	}
	return nil
}

// DeathRecord loads a stored record with its documents and latest
// screening outcome.
func (s *Store) DeathRecord(ctx context.Context, id models.RecordID) (models.DeathRecord, error) {
	exec := s.execer(ctx)
	var (
		r      models.DeathRecord
		cert   sql.NullString
		caseID uuid.NullUUID
	)
	err := exec.QueryRowContext(ctx, `
		SELECT record_id, citizen_id, informant_id, date_of_death, place_of_death, cause_of_death,
			certificate_number, case_id, created_at
		FROM death_records
		WHERE record_id = $1
	`, id).Scan(&r.ID, &r.CitizenID, &r.InformantID, &r.DateOfDeath, &r.PlaceOfDeath, &r.CauseOfDeath,
		&cert, &caseID, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DeathRecord{}, sentinel.ErrNotFound
		}
		return models.DeathRecord{}, fmt.Errorf("get death record: %w", err)
	}
	r.CertificateNumber = cert.String
	if caseID.Valid {
		r.CaseID = caseID.UUID
	}

	rows, err := exec.QueryContext(ctx, `
		SELECT name, stored_path, markers, ocr_verified, reasoning_verified
		FROM documents
		WHERE record_id = $1
		ORDER BY doc_id
	`, id)
	if err != nil {
		return models.DeathRecord{}, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d models.VerifiedDocument
		if err := rows.Scan(&d.Name, &d.StoredPath, pq.Array(&d.Markers), &d.OCRVerified, &d.ReasoningVerified); err != nil {
			return models.DeathRecord{}, fmt.Errorf("scan document: %w", err)
		}
		r.Documents = append(r.Documents, d)
	}
	if err := rows.Err(); err != nil {
		return models.DeathRecord{}, fmt.Errorf("iterate documents: %w", err)
	}

	var decision string
	err = exec.QueryRowContext(ctx, `
		SELECT duplicate_found, documents_verified, decision, raw_answer, fell_back
		FROM fraud_checks
		WHERE record_id = $1
		ORDER BY check_id DESC
		LIMIT 1
	`, id).Scan(&r.Screening.DuplicateFound, &r.Screening.DocumentsVerified, &decision,
		&r.Screening.RawAnswer, &r.Screening.FellBack)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return models.DeathRecord{}, fmt.Errorf("get fraud check: %w", err)
	default:
		r.Screening.Status = models.Status(decision)
	}
	return r, nil
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, sentinel.ErrConflict)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, sentinel.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func nullDate(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}

func createdAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
