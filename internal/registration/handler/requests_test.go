package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"civreg/internal/registration/models"
	dErrors "civreg/pkg/domain-errors"
)

type RegisterDeathRequestSuite struct {
	suite.Suite
}

func TestRegisterDeathRequestSuite(t *testing.T) {
	suite.Run(t, new(RegisterDeathRequestSuite))
}

func (s *RegisterDeathRequestSuite) validRequest() *RegisterDeathRequest {
	return &RegisterDeathRequest{
		NationalID:    "1234567890",
		FullName:      "Abebe Kebede",
		DateOfBirth:   "1950-01-02",
		DateOfDeath:   "2025-03-14",
		InformantName: "Almaz Kebede",
	}
}

func (s *RegisterDeathRequestSuite) TestValidate() {
	s.Run("valid request passes", func() {
		s.NoError(s.validRequest().Validate())
	})

	s.Run("oversized field rejected", func() {
		req := s.validRequest()
		req.PlaceOfDeath = strings.Repeat("x", maxFieldLength+1)
		err := req.Validate()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("birth date optional", func() {
		req := s.validRequest()
		req.DateOfBirth = ""
		s.NoError(req.Validate())
	})

	s.Run("bad birth date rejected", func() {
		req := s.validRequest()
		req.DateOfBirth = "02-01-1950"
		s.Error(req.Validate())
	})

	s.Run("nil request rejected", func() {
		var req *RegisterDeathRequest
		s.Error(req.Validate())
	})
}

func (s *RegisterDeathRequestSuite) TestNormalize() {
	req := s.validRequest()
	req.FullName = "  Abebe Kebede\t"
	req.Normalize()
	s.Equal("Abebe Kebede", req.FullName)
}

func (s *RegisterDeathRequestSuite) TestToSubmission() {
	docs := []models.UploadedDocument{{Name: "id.png", Content: []byte("x")}}
	sub, err := s.validRequest().ToSubmission(docs)
	s.Require().NoError(err)
	s.Equal(2025, sub.DateOfDeath.Year())
	s.Equal(1950, sub.DateOfBirth.Year())
	s.Equal(docs, sub.Documents)

	_, err = s.validRequest().ToSubmission(make([]models.UploadedDocument, maxDocumentsPer+1))
	s.Error(err)
}
