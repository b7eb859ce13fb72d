// Package certificate issues death certificates for persisted records.
package certificate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"civreg/internal/registration/models"
	"civreg/internal/registration/ports"
	"civreg/pkg/requestcontext"
)

const (
	DefaultPrefix    = "DC"
	DefaultOutputDir = "certificates"
)

// FormatNumber builds a certificate number: prefix, a dash, and the record
// id zero-padded to four digits.
//
//	FormatNumber("DC", 7) // "DC-0007"
func FormatNumber(prefix string, id models.RecordID) string {
	return fmt.Sprintf("%s-%04d", prefix, id)
}

// Issuer implements ports.CertificateIssuer.
type Issuer struct {
	renderer  ports.Renderer
	outputDir string
	prefix    string
	logger    *slog.Logger
}

type Option func(*Issuer)

func WithLogger(logger *slog.Logger) Option {
	return func(i *Issuer) {
		i.logger = logger
	}
}

func WithPrefix(prefix string) Option {
	return func(i *Issuer) {
		if prefix != "" {
			i.prefix = prefix
		}
	}
}

func WithOutputDir(dir string) Option {
	return func(i *Issuer) {
		if dir != "" {
			i.outputDir = dir
		}
	}
}

func New(renderer ports.Renderer, opts ...Option) (*Issuer, error) {
	if renderer == nil {
		return nil, errors.New("renderer is required")
	}
	i := &Issuer{
		renderer:  renderer,
		outputDir: DefaultOutputDir,
		prefix:    DefaultPrefix,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Issue renders the certificate into <outputDir>/<number>.pdf. The issue date
// is the request-scoped time.
func (i *Issuer) Issue(ctx context.Context, req models.CertificateRequest) (models.Certificate, error) {
	if req.RecordID == 0 {
		return models.Certificate{}, errors.New("certificate requires a persisted record")
	}
	number := FormatNumber(i.prefix, req.RecordID)
	if err := os.MkdirAll(i.outputDir, 0o755); err != nil {
		return models.Certificate{}, fmt.Errorf("create certificate directory: %w", err)
	}
	path := filepath.Join(i.outputDir, number+".pdf")

	written, err := i.renderer.Render(ctx, path, models.CertificateDocument{
		CertificateRequest: req,
		Number:             number,
		IssuedOn:           requestcontext.Now(ctx),
	})
	if err != nil {
		return models.Certificate{}, fmt.Errorf("render certificate %s: %w", number, err)
	}
	i.logger.InfoContext(ctx, "certificate issued",
		"record_id", req.RecordID,
		"certificate_number", number,
	)
	return models.Certificate{Number: number, Path: written}, nil
}
