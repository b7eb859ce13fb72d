// Package screening decides whether a case is approved, a duplicate, or
// fraudulent.
package screening

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"civreg/internal/registration/models"
	"civreg/internal/registration/ports"
	"civreg/internal/registration/verdict"
)

const (
	DefaultQuery = "Fraud checks for death registration"
	DefaultTopK  = 3
)

// DuplicateChecker is the storage lookup screening needs.
type DuplicateChecker interface {
	HasDeathRecordFor(ctx context.Context, citizenID models.CitizenID) (bool, error)
}

// Screener implements ports.FraudScreener.
type Screener struct {
	records   DuplicateChecker
	retriever ports.Retriever
	reasoner  ports.Reasoner
	query     string
	topK      int
	logger    *slog.Logger
}

type Option func(*Screener)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Screener) {
		s.logger = logger
	}
}

// WithRetrieval overrides the knowledge-base query and result count.
func WithRetrieval(query string, topK int) Option {
	return func(s *Screener) {
		if query != "" {
			s.query = query
		}
		if topK > 0 {
			s.topK = topK
		}
	}
}

func New(records DuplicateChecker, retriever ports.Retriever, reasoner ports.Reasoner, opts ...Option) (*Screener, error) {
	if records == nil {
		return nil, errors.New("death record lookup is required")
	}
	if retriever == nil {
		return nil, errors.New("retriever is required")
	}
	if reasoner == nil {
		return nil, errors.New("reasoner is required")
	}
	s := &Screener{
		records:   records,
		retriever: retriever,
		reasoner:  reasoner,
		query:     DefaultQuery,
		topK:      DefaultTopK,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Screen always yields one of the three known statuses. The reasoner's answer
// wins when it names a status; otherwise the duplicate flag decides.
func (s *Screener) Screen(ctx context.Context, citizenID models.CitizenID, documentsVerified bool) (models.ScreeningOutcome, error) {
	duplicate, err := s.records.HasDeathRecordFor(ctx, citizenID)
	if err != nil {
		return models.ScreeningOutcome{}, fmt.Errorf("check duplicate death record: %w", err)
	}
	kb, err := s.retriever.Query(ctx, s.query, s.topK)
	if err != nil {
		return models.ScreeningOutcome{}, fmt.Errorf("query knowledge base: %w", err)
	}
	answer, err := s.reasoner.Complete(ctx, screeningPrompt(citizenID, duplicate, documentsVerified, kb))
	if err != nil {
		return models.ScreeningOutcome{}, fmt.Errorf("classify case: %w", err)
	}

	status, fellBack := verdict.Classify(answer, duplicate)
	if fellBack {
		s.logger.WarnContext(ctx, "unrecognized screening answer, applied fallback",
			"citizen_id", citizenID,
			"duplicate", duplicate,
			"status", status,
		)
	}
	return models.ScreeningOutcome{
		Status:            status,
		DuplicateFound:    duplicate,
		DocumentsVerified: documentsVerified,
		RawAnswer:         answer,
		FellBack:          fellBack,
	}, nil
}

func screeningPrompt(citizenID models.CitizenID, duplicate, documentsVerified bool, kb []string) string {
	var b strings.Builder
	b.WriteString("You are an AI agent for fraud detection in death registration.\n")
	fmt.Fprintf(&b, "Citizen ID: %d.\n", citizenID)
	fmt.Fprintf(&b, "Duplicate check result: %t.\n", duplicate)
	fmt.Fprintf(&b, "Documents verified: %t.\n", documentsVerified)
	fmt.Fprintf(&b, "Knowledge base: %s.\n", strings.Join(kb, "\n"))
	b.WriteString("Decide the registration status: approved, rejected_duplicate, or rejected_fraud.")
	return b.String()
}
