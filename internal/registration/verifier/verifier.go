// Package verifier checks uploaded documents: an OCR marker check and a
// reasoning judgment over the knowledge base.
package verifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"civreg/internal/registration/models"
	"civreg/internal/registration/ports"
	"civreg/internal/registration/verdict"
	pstrings "civreg/pkg/platform/strings"
)

const (
	DefaultLanguage = "eng"
	DefaultQuery    = "Required documents for death registration"
	DefaultTopK     = 3
)

// Verifier implements ports.DocumentVerifier.
type Verifier struct {
	extractor ports.TextExtractor
	retriever ports.Retriever
	reasoner  ports.Reasoner
	language  string
	query     string
	topK      int
	logger    *slog.Logger
}

type Option func(*Verifier)

func WithLogger(logger *slog.Logger) Option {
	return func(v *Verifier) {
		v.logger = logger
	}
}

// WithLanguage sets the OCR language passed to the extractor.
func WithLanguage(lang string) Option {
	return func(v *Verifier) {
		if lang != "" {
			v.language = lang
		}
	}
}

// WithRetrieval overrides the knowledge-base query and result count.
func WithRetrieval(query string, topK int) Option {
	return func(v *Verifier) {
		if query != "" {
			v.query = query
		}
		if topK > 0 {
			v.topK = topK
		}
	}
}

func New(extractor ports.TextExtractor, retriever ports.Retriever, reasoner ports.Reasoner, opts ...Option) (*Verifier, error) {
	if extractor == nil {
		return nil, errors.New("text extractor is required")
	}
	if retriever == nil {
		return nil, errors.New("retriever is required")
	}
	if reasoner == nil {
		return nil, errors.New("reasoner is required")
	}
	v := &Verifier{
		extractor: extractor,
		retriever: retriever,
		reasoner:  reasoner,
		language:  DefaultLanguage,
		query:     DefaultQuery,
		topK:      DefaultTopK,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify reports whether every marker occurs in the document's OCR text.
// An empty marker set is satisfied by any document, including one whose text
// could not be read.
func (v *Verifier) Verify(ctx context.Context, storedPath string, markers []string) bool {
	text := v.extractor.ExtractText(ctx, storedPath, v.language)
	missing, ok := pstrings.FirstMissing(text, markers)
	if !ok {
		v.logger.DebugContext(ctx, "document marker missing",
			"path", storedPath,
			"marker_len", len(missing),
		)
	}
	return ok
}

// Judge asks the reasoner whether the document is admissible. Any answer
// outside the accepted set is a negative judgment.
func (v *Verifier) Judge(ctx context.Context, name string, ocrVerified bool, subject models.Subject) (bool, error) {
	kb, err := v.retriever.Query(ctx, v.query, v.topK)
	if err != nil {
		return false, fmt.Errorf("query knowledge base: %w", err)
	}
	answer, err := v.reasoner.Complete(ctx, documentPrompt(name, ocrVerified, kb, subject))
	if err != nil {
		return false, fmt.Errorf("judge document: %w", err)
	}
	return verdict.Admissible(answer), nil
}

// VerifyDocument runs both checks for one stored document.
func (v *Verifier) VerifyDocument(ctx context.Context, name, storedPath string, markers []string, subject models.Subject) (models.VerifiedDocument, error) {
	ocrVerified := v.Verify(ctx, storedPath, markers)
	reasoningVerified, err := v.Judge(ctx, name, ocrVerified, subject)
	if err != nil {
		return models.VerifiedDocument{}, err
	}
	v.logger.InfoContext(ctx, "document verified",
		"document", name,
		"ocr_verified", ocrVerified,
		"reasoning_verified", reasoningVerified,
	)
	return models.VerifiedDocument{
		Name:              name,
		StoredPath:        storedPath,
		Markers:           append([]string(nil), markers...),
		OCRVerified:       ocrVerified,
		ReasoningVerified: reasoningVerified,
	}, nil
}

func documentPrompt(name string, ocrVerified bool, kb []string, subject models.Subject) string {
	var b strings.Builder
	b.WriteString("You are an AI agent assisting with death registration.\n")
	fmt.Fprintf(&b, "OCR verified: %t.\n", ocrVerified)
	fmt.Fprintf(&b, "Uploaded file: %s.\n", name)
	fmt.Fprintf(&b, "Knowledge base context: %s.\n", strings.Join(kb, "\n"))
	fmt.Fprintf(&b, "Citizen: %s (%s).\n", subject.FullName, subject.NationalID)
	b.WriteString("Decide if this document is valid for registration (return True/False).")
	return b.String()
}
