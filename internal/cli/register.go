package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"civreg/internal/app"
	"civreg/internal/registration/handler"
	"civreg/internal/registration/models"
	"civreg/internal/registration/pipeline"
)

var (
	registerCase string
	registerDocs []string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Run one death registration and print the final record",
	Example: `  civreg register --case case.yaml --doc id.png --doc hospital.pdf`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if registerCase == "" {
			return errors.New("--case is required")
		}
		req, err := readCase(registerCase)
		if err != nil {
			return err
		}
		docs, err := readDocuments(registerDocs)
		if err != nil {
			return err
		}
		submission, err := req.ToSubmission(docs)
		if err != nil {
			return err
		}
		initial, err := models.NewCaseRecord(uuid.New(), submission)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := app.Build(cmd.Context(), cfg, newLogger(cfg, cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		defer a.Close()

		final, err := a.Pipeline.Run(cmd.Context(), initial)
		if err != nil {
			return pipeline.AsDomainError(err)
		}
		out, err := yaml.Marshal(handler.ToCaseResponse(final))
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerCase, "case", "", "YAML or JSON file describing the case")
	registerCmd.Flags().StringArrayVar(&registerDocs, "doc", nil, "supporting document, repeatable, kept in order")
}

func readCase(path string) (*handler.RegisterDeathRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read case: %w", err)
	}
	var req handler.RegisterDeathRequest
	if err := yaml.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("parse case: %w", err)
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

func readDocuments(paths []string) ([]models.UploadedDocument, error) {
	docs := make([]models.UploadedDocument, 0, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		docs = append(docs, models.UploadedDocument{Name: filepath.Base(p), Content: content})
	}
	return docs, nil
}
