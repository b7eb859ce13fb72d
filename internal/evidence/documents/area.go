// Package documents stores uploaded supporting documents on disk.
package documents

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const DefaultDir = "documents"

// Area writes documents under one directory, keyed by their file name.
// Saving the same name twice replaces the first file.
type Area struct {
	dir string
}

func New(dir string) *Area {
	if dir == "" {
		dir = DefaultDir
	}
	return &Area{dir: dir}
}

func (a *Area) Dir() string {
	return a.dir
}

// Save writes content to <dir>/<base name> and returns that path. Directory
// components in name are discarded.
func (a *Area) Save(ctx context.Context, name string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == "/" || base == ".." || base == "" {
		return "", errors.New("invalid document name")
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("create documents directory: %w", err)
	}
	path := filepath.Join(a.dir, base)

	tmp, err := os.CreateTemp(a.dir, "."+base+".*")
	if err != nil {
		return "", fmt.Errorf("create document: %w", err)
	}
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("close document: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("store document: %w", err)
	}
	return path, nil
}
