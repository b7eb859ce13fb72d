// Package render lays out death certificates as single-page A4 PDFs.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"civreg/internal/registration/models"
)

const (
	dateLayout = "2006-01-02"

	pageHeight = 841.89
	marginLeft = 100.0
	titleTop   = 800.0
	firstLine  = 770.0
	lineStep   = 20.0
)

// Lines returns the certificate body in print order.
func Lines(doc models.CertificateDocument) []string {
	return []string{
		"Certificate Number: " + doc.Number,
		"Full Name: " + doc.FullName,
		"National ID: " + doc.NationalID,
		"Date of Death: " + day(doc.DateOfDeath),
		"Place of Death: " + doc.PlaceOfDeath,
		"Cause of Death: " + doc.CauseOfDeath,
		"Informant: " + doc.InformantName,
		"Date Registered: " + day(doc.IssuedOn),
	}
}

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// PDF implements ports.Renderer.
type PDF struct {
	compress bool
}

type Option func(*PDF)

// WithCompression toggles stream compression; tests disable it to inspect
// the output.
func WithCompression(on bool) Option {
	return func(p *PDF) {
		p.compress = on
	}
}

func New(opts ...Option) *PDF {
	p := &PDF{compress: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Render writes doc to path, creating parent directories as needed.
func (p *PDF) Render(ctx context.Context, path string, doc models.CertificateDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create certificate dir: %w", err)
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(p.compress)
	pdf.SetTitle("Death Certificate "+doc.Number, true)
	pdf.SetCreationDate(doc.IssuedOn)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(marginLeft, pageHeight-titleTop, "Death Certificate")

	pdf.SetFont("Helvetica", "", 12)
	for i, line := range Lines(doc) {
		pdf.Text(marginLeft, pageHeight-(firstLine-float64(i)*lineStep), tr(line))
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write certificate: %w", err)
	}
	return path, nil
}
