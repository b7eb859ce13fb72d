// Package verdict decodes free-text answers from the reasoning collaborator
// into closed decisions. Unrecognized text never produces an error.
package verdict

import (
	"strings"

	"civreg/internal/registration/models"
)

var admissibleAnswers = map[string]struct{}{
	"true":     {},
	"yes":      {},
	"approved": {},
}

func normalize(answer string) string {
	return strings.ToLower(strings.TrimSpace(answer))
}

// Admissible reports whether a document judgment accepts the document.
func Admissible(answer string) bool {
	_, ok := admissibleAnswers[normalize(answer)]
	return ok
}

// Classify maps a screening answer onto a status. When the answer is not
// exactly one of the known statuses the duplicate flag decides, and fellBack
// is true.
func Classify(answer string, duplicate bool) (status models.Status, fellBack bool) {
	status = models.Status(normalize(answer))
	if status.IsValid() {
		return status, false
	}
	if duplicate {
		return models.StatusRejectedDuplicate, true
	}
	return models.StatusApproved, true
}
