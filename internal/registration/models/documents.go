package models

// UploadedDocument is a supporting document as submitted.
type UploadedDocument struct {
	Name    string
	Content []byte
}

// VerifiedDocument is the result of storing and checking one upload.
type VerifiedDocument struct {
	Name              string
	StoredPath        string
	Markers           []string
	OCRVerified       bool
	ReasoningVerified bool
}

// Verified is true only when both the marker check and the reasoning
// judgment accepted the document.
func (d VerifiedDocument) Verified() bool {
	return d.OCRVerified && d.ReasoningVerified
}

// DocumentsVerified aggregates per-document results. An empty set verifies
// only when no marker was required.
func DocumentsVerified(docs []VerifiedDocument, requiredMarkers int) bool {
	if len(docs) == 0 {
		return requiredMarkers == 0
	}
	for _, d := range docs {
		if !d.Verified() {
			return false
		}
	}
	return true
}

// Subject identifies the deceased to collaborators that need it in prompts.
type Subject struct {
	FullName   string
	NationalID string
}
