// Package ocr extracts text from stored documents with the tesseract and
// pdftoppm command-line tools.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// Runner executes an external command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// Extractor implements ports.TextExtractor. It never returns an error:
// failures are logged and yield empty text.
type Extractor struct {
	runner    Runner
	tesseract string
	pdftoppm  string
	dpi       int
	logger    *slog.Logger
}

type Option func(*Extractor)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

func WithRunner(r Runner) Option {
	return func(e *Extractor) {
		e.runner = r
	}
}

// WithBinaries overrides the tesseract and pdftoppm executables.
func WithBinaries(tesseract, pdftoppm string) Option {
	return func(e *Extractor) {
		if tesseract != "" {
			e.tesseract = tesseract
		}
		if pdftoppm != "" {
			e.pdftoppm = pdftoppm
		}
	}
}

func New(opts ...Option) *Extractor {
	e := &Extractor{
		runner:    execRunner{},
		tesseract: "tesseract",
		pdftoppm:  "pdftoppm",
		dpi:       200,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractText OCRs an image directly, or rasterizes a PDF and joins the
// per-page text with newlines. The result is trimmed.
func (e *Extractor) ExtractText(ctx context.Context, path, language string) string {
	if _, err := os.Stat(path); err != nil {
		e.logger.WarnContext(ctx, "ocr input missing", "path", path, "error", err)
		return ""
	}
	var (
		text string
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err = e.extractPDF(ctx, path, language)
	} else {
		text, err = e.image(ctx, path, language)
	}
	if err != nil {
		e.logger.WarnContext(ctx, "ocr failed", "path", path, "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}

func (e *Extractor) image(ctx context.Context, path, language string) (string, error) {
	args := []string{path, "stdout"}
	if language != "" {
		args = append(args, "-l", language)
	}
	out, err := e.runner.Run(ctx, e.tesseract, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (e *Extractor) extractPDF(ctx context.Context, path, language string) (string, error) {
	dir, err := os.MkdirTemp("", "civreg-ocr-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	if _, err := e.runner.Run(ctx, e.pdftoppm, "-r", fmt.Sprint(e.dpi), "-png", path, prefix); err != nil {
		return "", err
	}
	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return "", err
	}
	sortPages(pages)

	var b strings.Builder
	for _, page := range pages {
		text, err := e.image(ctx, page, language)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// sortPages orders pdftoppm output numerically; page-10 sorts after page-9
// whatever the zero padding.
func sortPages(pages []string) {
	sort.Slice(pages, func(i, j int) bool {
		if len(pages[i]) != len(pages[j]) {
			return len(pages[i]) < len(pages[j])
		}
		return pages[i] < pages[j]
	})
}
