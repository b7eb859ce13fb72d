package verifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"civreg/internal/registration/models"
	"civreg/internal/registration/ports/mocks"
)

type VerifierSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	extractor *mocks.MockTextExtractor
	retriever *mocks.MockRetriever
	reasoner  *mocks.MockReasoner
	verifier  *Verifier
	subject   models.Subject
}

func TestVerifierSuite(t *testing.T) {
	suite.Run(t, new(VerifierSuite))
}

func (s *VerifierSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.extractor = mocks.NewMockTextExtractor(s.ctrl)
	s.retriever = mocks.NewMockRetriever(s.ctrl)
	s.reasoner = mocks.NewMockReasoner(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var err error
	s.verifier, err = New(s.extractor, s.retriever, s.reasoner, WithLogger(logger))
	s.Require().NoError(err)
	s.subject = models.Subject{FullName: "John Doe", NationalID: "1234567890"}
}

func (s *VerifierSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *VerifierSuite) TestNew() {
	s.Run("nil extractor returns error", func() {
		_, err := New(nil, s.retriever, s.reasoner)
		s.ErrorContains(err, "text extractor is required")
	})
	s.Run("nil retriever returns error", func() {
		_, err := New(s.extractor, nil, s.reasoner)
		s.ErrorContains(err, "retriever is required")
	})
	s.Run("nil reasoner returns error", func() {
		_, err := New(s.extractor, s.retriever, nil)
		s.ErrorContains(err, "reasoner is required")
	})
	s.Run("options override defaults", func() {
		v, err := New(s.extractor, s.retriever, s.reasoner, WithLanguage("eng"), WithRetrieval("q", 5))
		s.Require().NoError(err)
		s.Equal("eng", v.language)
		s.Equal("q", v.query)
		s.Equal(5, v.topK)
	})
}

func (s *VerifierSuite) TestVerify() {
	ctx := context.Background()

	s.Run("all markers present", func() {
		s.extractor.EXPECT().ExtractText(ctx, "documents/id.pdf", DefaultLanguage).
			Return("NATIONAL ID 1234567890 JOHN DOE")
		s.True(s.verifier.Verify(ctx, "documents/id.pdf", []string{"1234567890", "JOHN"}))
	})

	s.Run("marker match is case sensitive", func() {
		s.extractor.EXPECT().ExtractText(ctx, "documents/id.pdf", DefaultLanguage).
			Return("national id abc123")
		s.False(s.verifier.Verify(ctx, "documents/id.pdf", []string{"ABC123"}))
	})

	s.Run("unreadable file fails a required marker", func() {
		s.extractor.EXPECT().ExtractText(ctx, "documents/missing.pdf", DefaultLanguage).Return("")
		s.False(s.verifier.Verify(ctx, "documents/missing.pdf", []string{"1234567890"}))
	})

	s.Run("no markers always verifies", func() {
		s.extractor.EXPECT().ExtractText(ctx, "documents/blank.pdf", DefaultLanguage).Return("")
		s.True(s.verifier.Verify(ctx, "documents/blank.pdf", nil))
	})
}

func (s *VerifierSuite) TestJudge() {
	ctx := context.Background()

	s.Run("accepted answer", func() {
		s.retriever.EXPECT().Query(ctx, DefaultQuery, DefaultTopK).Return([]string{"rules: medical certificate"}, nil)
		s.reasoner.EXPECT().Complete(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			s.Contains(prompt, "OCR verified: true.")
			s.Contains(prompt, "Uploaded file: medical_certificate.pdf.")
			s.Contains(prompt, "Citizen: John Doe (1234567890).")
			s.Contains(prompt, "rules: medical certificate")
			return " True\n", nil
		})
		ok, err := s.verifier.Judge(ctx, "medical_certificate.pdf", true, s.subject)
		s.Require().NoError(err)
		s.True(ok)
	})

	s.Run("free text is a negative judgment", func() {
		s.retriever.EXPECT().Query(ctx, DefaultQuery, DefaultTopK).Return(nil, nil)
		s.reasoner.EXPECT().Complete(ctx, gomock.Any()).Return("The document seems fine.", nil)
		ok, err := s.verifier.Judge(ctx, "id.pdf", true, s.subject)
		s.Require().NoError(err)
		s.False(ok)
	})

	s.Run("reasoner failure propagates", func() {
		s.retriever.EXPECT().Query(ctx, DefaultQuery, DefaultTopK).Return(nil, nil)
		s.reasoner.EXPECT().Complete(ctx, gomock.Any()).Return("", errors.New("connection refused"))
		_, err := s.verifier.Judge(ctx, "id.pdf", true, s.subject)
		s.ErrorContains(err, "connection refused")
	})

	s.Run("retriever failure propagates", func() {
		s.retriever.EXPECT().Query(ctx, DefaultQuery, DefaultTopK).Return(nil, errors.New("index missing"))
		_, err := s.verifier.Judge(ctx, "id.pdf", true, s.subject)
		s.ErrorContains(err, "index missing")
	})
}

func (s *VerifierSuite) TestVerifyDocument() {
	ctx := context.Background()

	s.Run("both checks must hold", func() {
		s.extractor.EXPECT().ExtractText(ctx, "documents/id.pdf", DefaultLanguage).Return("")
		s.retriever.EXPECT().Query(ctx, DefaultQuery, DefaultTopK).Return(nil, nil)
		s.reasoner.EXPECT().Complete(ctx, gomock.Any()).Return("yes", nil)

		doc, err := s.verifier.VerifyDocument(ctx, "id.pdf", "documents/id.pdf", []string{"1234567890"}, s.subject)
		s.Require().NoError(err)
		s.Equal("id.pdf", doc.Name)
		s.Equal("documents/id.pdf", doc.StoredPath)
		s.False(doc.OCRVerified)
		s.True(doc.ReasoningVerified)
		s.False(doc.Verified())
	})
}
