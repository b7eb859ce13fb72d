package models

import "time"

// CertificateRequest carries what is printed on a certificate.
type CertificateRequest struct {
	RecordID      RecordID
	FullName      string
	NationalID    string
	DateOfDeath   time.Time
	PlaceOfDeath  string
	CauseOfDeath  string
	InformantName string
}

// CertificateDocument is the rendered layout: the request plus the values
// computed at issuance.
type CertificateDocument struct {
	CertificateRequest
	Number   string
	IssuedOn time.Time
}

// Certificate is where an issued certificate landed.
type Certificate struct {
	Number string
	Path   string
}
