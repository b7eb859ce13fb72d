package ports

import (
	"context"

	"civreg/internal/registration/models"
)

// TextExtractor runs OCR over a stored file. It never fails: unreadable or
// missing files yield an empty string.
type TextExtractor interface {
	ExtractText(ctx context.Context, path, language string) string
}

// Retriever returns the knowledge-base chunks most similar to query.
type Retriever interface {
	Query(ctx context.Context, query string, topK int) ([]string, error)
}

// Reasoner is a stateless single-turn text completion.
type Reasoner interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Renderer writes a certificate layout to path and returns the written path.
type Renderer interface {
	Render(ctx context.Context, path string, doc models.CertificateDocument) (string, error)
}

// DocumentArea persists uploaded bytes keyed by file name. A later save
// under the same name replaces the earlier one.
type DocumentArea interface {
	Save(ctx context.Context, name string, content []byte) (string, error)
}
