package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"civreg/internal/registration/models"
	"civreg/pkg/platform/audit"
	"civreg/pkg/platform/sentinel"
	pstrings "civreg/pkg/platform/strings"
	"civreg/pkg/requestcontext"
)

// Mode says when a stage runs.
type Mode int

const (
	// Always stages run for every case.
	Always Mode = iota
	// WhenApproved stages run only after screening approved the case.
	WhenApproved
)

const (
	StageResolveIdentity  = "resolve_identity"
	StageVerifyDocuments  = "verify_documents"
	StageScreen           = "screen"
	StagePersistRecord    = "persist_record"
	StageIssueCertificate = "issue_certificate"
)

// Stage is one step of the run.
type Stage struct {
	Name string
	Mode Mode
	Run  func(ctx context.Context, rec models.CaseRecord) (models.CaseRecord, error)
}

func (s Stage) applies(rec models.CaseRecord) bool {
	return s.Mode == Always || rec.Status.IsApproved()
}

func (p *Pipeline) defaultStages() []Stage {
	return []Stage{
		{Name: StageResolveIdentity, Mode: Always, Run: p.resolveIdentity},
		{Name: StageVerifyDocuments, Mode: Always, Run: p.verifyDocuments},
		{Name: StageScreen, Mode: Always, Run: p.screen},
		{Name: StagePersistRecord, Mode: WhenApproved, Run: p.persistRecord},
		{Name: StageIssueCertificate, Mode: Always, Run: p.issueCertificate},
	}
}

func (p *Pipeline) resolveIdentity(ctx context.Context, rec models.CaseRecord) (models.CaseRecord, error) {
	citizenID, err := p.citizenID(ctx, rec)
	if err != nil {
		return rec, err
	}
	rec, err = rec.WithCitizenID(citizenID)
	if err != nil {
		return rec, err
	}

	informantID, err := p.storage.UpsertInformant(ctx, rec.Informant())
	if err != nil {
		return rec, fmt.Errorf("upsert informant: %w", err)
	}
	return rec.WithInformantID(informantID)
}

func (p *Pipeline) citizenID(ctx context.Context, rec models.CaseRecord) (models.CitizenID, error) {
	citizen, err := p.storage.FindCitizenByNationalID(ctx, rec.NationalID)
	if err == nil {
		return citizen.ID, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return 0, fmt.Errorf("find citizen: %w", err)
	}
	id, err := p.storage.UpsertCitizen(ctx, rec.Citizen())
	if err != nil {
		return 0, fmt.Errorf("upsert citizen: %w", err)
	}
	return id, nil
}

func (p *Pipeline) markers(rec models.CaseRecord) []string {
	return pstrings.DedupeAndTrim(append([]string{rec.NationalID}, p.extraMarkers...))
}

func (p *Pipeline) verifyDocuments(ctx context.Context, rec models.CaseRecord) (models.CaseRecord, error) {
	markers := p.markers(rec)
	docs := make([]models.VerifiedDocument, 0, len(rec.Uploads))
	for _, upload := range rec.Uploads {
		path, err := p.documents.Save(ctx, upload.Name, upload.Content)
		if err != nil {
			return rec, fmt.Errorf("store document %s: %w", upload.Name, err)
		}
		doc, err := p.verifier.VerifyDocument(ctx, upload.Name, path, markers, rec.Subject())
		if err != nil {
			return rec, fmt.Errorf("verify document %s: %w", upload.Name, err)
		}
		p.metrics.IncrementDocument(doc.Verified())
		docs = append(docs, doc)
	}
	rec = rec.WithDocuments(docs, len(markers))
	p.logAudit(ctx, audit.EventDocumentsVerified, rec, StageVerifyDocuments,
		strconv.FormatBool(rec.DocumentsVerified), fmt.Sprintf("%d documents", len(docs)))
	return rec, nil
}

func (p *Pipeline) screen(ctx context.Context, rec models.CaseRecord) (models.CaseRecord, error) {
	outcome, err := p.screener.Screen(ctx, rec.CitizenID, rec.DocumentsVerified)
	if err != nil {
		return rec, err
	}
	rec, err = rec.WithScreening(outcome)
	if err != nil {
		return rec, err
	}
	reason := "reasoner"
	if outcome.FellBack {
		reason = "fallback"
		p.metrics.IncrementFallback()
	}
	p.logAudit(ctx, audit.EventScreeningDecided, rec, StageScreen, rec.Status.String(), reason)
	return rec, nil
}

func (p *Pipeline) persistRecord(ctx context.Context, rec models.CaseRecord) (models.CaseRecord, error) {
	id, err := p.storage.InsertDeathRecord(ctx, rec.DeathRecord(requestcontext.Now(ctx)))
	if err != nil {
		return rec, fmt.Errorf("insert death record: %w", err)
	}
	rec, err = rec.WithRecordID(id)
	if err != nil {
		return rec, err
	}
	p.logAudit(ctx, audit.EventDeathRecordPersisted, rec, StagePersistRecord, rec.Status.String(), "")
	return rec, nil
}

func (p *Pipeline) issueCertificate(ctx context.Context, rec models.CaseRecord) (models.CaseRecord, error) {
	if !rec.Status.IsApproved() || !rec.HasRecord() {
		cert, placeholder := p.fallback.Apply(rec.RecordID)
		return rec.WithCertificate(cert, placeholder)
	}

	cert, err := p.issuer.Issue(ctx, rec.CertificateRequest())
	if err != nil {
		return rec, err
	}
	if err := p.storage.AttachCertificate(ctx, rec.RecordID, cert.Number); err != nil {
		return rec, fmt.Errorf("attach certificate: %w", err)
	}
	rec, err = rec.WithCertificate(cert, false)
	if err != nil {
		return rec, err
	}
	p.logAudit(ctx, audit.EventCertificateIssued, rec, StageIssueCertificate, cert.Number, "")
	return rec, nil
}
