// Package handler exposes death registration over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"civreg/internal/registration/models"
	"civreg/internal/registration/pipeline"
	dErrors "civreg/pkg/domain-errors"
	audit "civreg/pkg/platform/audit"
	"civreg/pkg/platform/httputil"
	"civreg/pkg/requestcontext"
)

const defaultMaxUploadBytes = 32 << 20

// Runner drives one case through the registration pipeline.
type Runner interface {
	Run(ctx context.Context, initial models.CaseRecord) (models.CaseRecord, error)
}

// AuditLister reads a case's audit trail.
type AuditLister interface {
	List(ctx context.Context, caseID string) ([]audit.Event, error)
}

type Handler struct {
	runner         Runner
	audit          AuditLister
	logger         *slog.Logger
	maxUploadBytes int64
}

type Option func(*Handler)

func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

func WithAuditLister(l AuditLister) Option {
	return func(h *Handler) {
		h.audit = l
	}
}

func WithMaxUploadBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxUploadBytes = n
		}
	}
}

func New(runner Runner, opts ...Option) (*Handler, error) {
	if runner == nil {
		return nil, errors.New("runner is required")
	}
	h := &Handler{
		runner:         runner,
		logger:         slog.Default(),
		maxUploadBytes: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Register mounts the registration routes.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/registrations/death", h.handleRegisterDeath)
	if h.audit != nil {
		r.Get("/v1/registrations/{caseID}/audit", h.handleListAudit)
	}
}

// handleRegisterDeath accepts either multipart/form-data with a "case" JSON
// part and ordered "documents" files, or a bare JSON case without documents.
// Rejected cases are a successful run and return 200.
func (h *Handler) handleRegisterDeath(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, docs, err := h.decode(w, r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid registration request",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	submission, err := req.ToSubmission(docs)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	initial, err := models.NewCaseRecord(uuid.New(), submission)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	final, err := h.runner.Run(ctx, initial)
	if err != nil {
		var se *pipeline.StageError
		stage := ""
		if errors.As(err, &se) {
			stage = se.Stage
		}
		h.logger.ErrorContext(ctx, "registration run failed",
			"request_id", requestID,
			"case_id", initial.CaseID.String(),
			"stage", stage,
			"error", err.Error(),
		)
		httputil.WriteError(w, pipeline.AsDomainError(err))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ToCaseResponse(final))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*RegisterDeathRequest, []models.UploadedDocument, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, nil, dErrors.New(dErrors.CodeBadRequest, "content type is required")
	}

	var (
		req  RegisterDeathRequest
		docs []models.UploadedDocument
	)
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, nil, dErrors.New(dErrors.CodeBadRequest, "invalid request body")
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			return nil, nil, dErrors.New(dErrors.CodeBadRequest, "invalid multipart body")
		}
		raw := r.FormValue("case")
		if raw == "" {
			return nil, nil, dErrors.New(dErrors.CodeValidation, "case part is required")
		}
		if err := json.Unmarshal([]byte(raw), &req); err != nil {
			return nil, nil, dErrors.New(dErrors.CodeBadRequest, "invalid case part")
		}
		docs, err = readDocuments(r)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, dErrors.New(dErrors.CodeBadRequest, "unsupported content type "+mediaType)
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}
	return &req, docs, nil
}

func readDocuments(r *http.Request) ([]models.UploadedDocument, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File["documents"]
	if len(headers) > maxDocumentsPer {
		return nil, dErrors.New(dErrors.CodeValidation, "too many documents")
	}
	docs := make([]models.UploadedDocument, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "unreadable document")
		}
		content, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "unreadable document")
		}
		docs = append(docs, models.UploadedDocument{Name: fh.Filename, Content: content})
	}
	return docs, nil
}

func (h *Handler) handleListAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID := chi.URLParam(r, "caseID")
	if _, err := uuid.Parse(caseID); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "case id must be a UUID"))
		return
	}
	events, err := h.audit.List(ctx, caseID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list audit events failed",
			"request_id", requestcontext.RequestID(ctx),
			"case_id", caseID,
			"error", err.Error(),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events"))
		return
	}
	if len(events) == 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("no audit events for case %s", caseID)))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"case_id": caseID,
		"events":  toAuditResponses(events),
	})
}
