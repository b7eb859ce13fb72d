package models

// Status is the screening decision for a case. It is set once, by the
// screening stage.
type Status string

const (
	StatusApproved          Status = "approved"
	StatusRejectedDuplicate Status = "rejected_duplicate"
	StatusRejectedFraud     Status = "rejected_fraud"
)

// IsValid reports whether s is one of the three known decisions.
func (s Status) IsValid() bool {
	switch s {
	case StatusApproved, StatusRejectedDuplicate, StatusRejectedFraud:
		return true
	}
	return false
}

// IsApproved reports whether the case may be persisted.
func (s Status) IsApproved() bool {
	return s == StatusApproved
}

func (s Status) String() string {
	return string(s)
}

// ScreeningOutcome is what the screening stage decided and why.
type ScreeningOutcome struct {
	Status            Status
	DuplicateFound    bool
	DocumentsVerified bool
	// RawAnswer is the reasoning collaborator's unnormalized text.
	RawAnswer string
	// FellBack is true when RawAnswer was not a known status and the
	// deterministic fallback decided instead.
	FellBack bool
}
