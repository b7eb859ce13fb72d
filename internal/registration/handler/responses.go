package handler

import (
	"time"

	"civreg/internal/registration/models"
	audit "civreg/pkg/platform/audit"
)

// CaseResponse is the final state of a registration run.
type CaseResponse struct {
	CaseID                 string             `json:"case_id" yaml:"case_id"`
	Status                 string             `json:"status" yaml:"status"`
	NationalID             string             `json:"national_id" yaml:"national_id"`
	FullName               string             `json:"full_name" yaml:"full_name"`
	CitizenID              int64              `json:"citizen_id,omitempty" yaml:"citizen_id,omitempty"`
	InformantID            int64              `json:"informant_id,omitempty" yaml:"informant_id,omitempty"`
	DateOfDeath            string             `json:"date_of_death" yaml:"date_of_death"`
	PlaceOfDeath           string             `json:"place_of_death,omitempty" yaml:"place_of_death,omitempty"`
	CauseOfDeath           string             `json:"cause_of_death,omitempty" yaml:"cause_of_death,omitempty"`
	DocumentsVerified      bool               `json:"documents_verified" yaml:"documents_verified"`
	Documents              []DocumentResponse `json:"documents" yaml:"documents"`
	Screening              ScreeningResponse  `json:"screening" yaml:"screening"`
	RecordID               int64              `json:"record_id,omitempty" yaml:"record_id,omitempty"`
	CertificateNumber      string             `json:"certificate_number,omitempty" yaml:"certificate_number,omitempty"`
	CertificatePath        string             `json:"certificate_path,omitempty" yaml:"certificate_path,omitempty"`
	CertificatePlaceholder bool               `json:"certificate_placeholder,omitempty" yaml:"certificate_placeholder,omitempty"`
}

type DocumentResponse struct {
	Name              string `json:"name" yaml:"name"`
	StoredPath        string `json:"stored_path" yaml:"stored_path"`
	OCRVerified       bool   `json:"ocr_verified" yaml:"ocr_verified"`
	ReasoningVerified bool   `json:"reasoning_verified" yaml:"reasoning_verified"`
}

type ScreeningResponse struct {
	DuplicateFound bool `json:"duplicate_found" yaml:"duplicate_found"`
	FellBack       bool `json:"fell_back" yaml:"fell_back"`
}

type AuditEventResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category"`
	Action    string    `json:"action"`
	Stage     string    `json:"stage,omitempty"`
	Decision  string    `json:"decision,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// ToCaseResponse projects a case record for callers. Raw OCR text and
// reasoning answers are not exposed.
func ToCaseResponse(rec models.CaseRecord) CaseResponse {
	docs := make([]DocumentResponse, 0, len(rec.Documents))
	for _, d := range rec.Documents {
		docs = append(docs, DocumentResponse{
			Name:              d.Name,
			StoredPath:        d.StoredPath,
			OCRVerified:       d.OCRVerified,
			ReasoningVerified: d.ReasoningVerified,
		})
	}
	resp := CaseResponse{
		CaseID:                 rec.CaseID.String(),
		Status:                 rec.Status.String(),
		NationalID:             rec.NationalID,
		FullName:               rec.FullName,
		CitizenID:              int64(rec.CitizenID),
		InformantID:            int64(rec.InformantID),
		PlaceOfDeath:           rec.PlaceOfDeath,
		CauseOfDeath:           rec.CauseOfDeath,
		DocumentsVerified:      rec.DocumentsVerified,
		Documents:              docs,
		Screening:              ScreeningResponse{DuplicateFound: rec.Screening.DuplicateFound, FellBack: rec.Screening.FellBack},
		RecordID:               int64(rec.RecordID),
		CertificateNumber:      rec.CertificateNumber,
		CertificatePath:        rec.CertificatePath,
		CertificatePlaceholder: rec.CertificatePlaceholder,
	}
	if !rec.DateOfDeath.IsZero() {
		resp.DateOfDeath = rec.DateOfDeath.Format(dateLayout)
	}
	return resp
}

func toAuditResponses(events []audit.Event) []AuditEventResponse {
	out := make([]AuditEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, AuditEventResponse{
			Timestamp: e.Timestamp,
			Category:  string(e.Category),
			Action:    e.Action,
			Stage:     e.Stage,
			Decision:  e.Decision,
			Reason:    e.Reason,
		})
	}
	return out
}
