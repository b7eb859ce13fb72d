package handler

import (
	"strings"
	"time"

	"civreg/internal/registration/models"
	dErrors "civreg/pkg/domain-errors"
)

const (
	dateLayout      = "2006-01-02"
	maxFieldLength  = 256
	maxDocumentsPer = 20
)

// RegisterDeathRequest is the "case" part of a registration submission.
type RegisterDeathRequest struct {
	NationalID         string `json:"national_id" yaml:"national_id"`
	FullName           string `json:"full_name" yaml:"full_name"`
	Gender             string `json:"gender" yaml:"gender"`
	DateOfBirth        string `json:"date_of_birth" yaml:"date_of_birth"`
	DateOfDeath        string `json:"date_of_death" yaml:"date_of_death"`
	PlaceOfDeath       string `json:"place_of_death" yaml:"place_of_death"`
	CauseOfDeath       string `json:"cause_of_death" yaml:"cause_of_death"`
	InformantName      string `json:"informant_name" yaml:"informant_name"`
	InformantID        string `json:"informant_id" yaml:"informant_id"`
	RelationToDeceased string `json:"relation_to_deceased" yaml:"relation_to_deceased"`
}

// Normalize trims every field in place.
func (r *RegisterDeathRequest) Normalize() {
	for _, f := range r.fields() {
		*f = strings.TrimSpace(*f)
	}
}

func (r *RegisterDeathRequest) fields() []*string {
	return []*string{
		&r.NationalID, &r.FullName, &r.Gender, &r.DateOfBirth, &r.DateOfDeath,
		&r.PlaceOfDeath, &r.CauseOfDeath, &r.InformantName, &r.InformantID, &r.RelationToDeceased,
	}
}

// Validate checks shape only: required fields, sizes and date formats.
// Cross-field rules live in models.NewCaseRecord.
func (r *RegisterDeathRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	for _, f := range r.fields() {
		if len(*f) > maxFieldLength {
			return dErrors.New(dErrors.CodeValidation, "field exceeds 256 characters")
		}
	}
	if r.NationalID == "" {
		return dErrors.New(dErrors.CodeValidation, "national_id is required")
	}
	if r.FullName == "" {
		return dErrors.New(dErrors.CodeValidation, "full_name is required")
	}
	if r.InformantName == "" {
		return dErrors.New(dErrors.CodeValidation, "informant_name is required")
	}
	if r.DateOfDeath == "" {
		return dErrors.New(dErrors.CodeValidation, "date_of_death is required")
	}
	if _, err := parseDate(r.DateOfDeath); err != nil {
		return dErrors.New(dErrors.CodeValidation, "date_of_death must be YYYY-MM-DD")
	}
	if r.DateOfBirth != "" {
		if _, err := parseDate(r.DateOfBirth); err != nil {
			return dErrors.New(dErrors.CodeValidation, "date_of_birth must be YYYY-MM-DD")
		}
	}
	return nil
}

// ToSubmission converts a validated request plus its uploads.
func (r *RegisterDeathRequest) ToSubmission(docs []models.UploadedDocument) (models.Submission, error) {
	if len(docs) > maxDocumentsPer {
		return models.Submission{}, dErrors.New(dErrors.CodeValidation, "too many documents")
	}
	dod, err := parseDate(r.DateOfDeath)
	if err != nil {
		return models.Submission{}, dErrors.New(dErrors.CodeValidation, "date_of_death must be YYYY-MM-DD")
	}
	var dob time.Time
	if r.DateOfBirth != "" {
		if dob, err = parseDate(r.DateOfBirth); err != nil {
			return models.Submission{}, dErrors.New(dErrors.CodeValidation, "date_of_birth must be YYYY-MM-DD")
		}
	}
	return models.Submission{
		NationalID:         r.NationalID,
		FullName:           r.FullName,
		Gender:             r.Gender,
		DateOfBirth:        dob,
		DateOfDeath:        dod,
		PlaceOfDeath:       r.PlaceOfDeath,
		CauseOfDeath:       r.CauseOfDeath,
		InformantName:      r.InformantName,
		InformantID:        r.InformantID,
		RelationToDeceased: r.RelationToDeceased,
		Documents:          docs,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
