package report_processor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cybersafe-backend/internal/models"
)

func validSubmission() *Submission {
	return &Submission{
		Type:         models.ReportTypeOnlineFraud,
		Description:  "Job offer asking for upfront payment via UPI",
		IncidentDate: time.Now().Add(-time.Hour),
	}
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, field, vErr.Field)
}

func TestValidateSubmission(t *testing.T) {
	assert.NoError(t, validateSubmission(validSubmission()))
}

func TestValidateSubmissionEmptyDescription(t *testing.T) {
	sub := validSubmission()
	sub.Description = "   \n\t"
	requireFieldError(t, validateSubmission(sub), "description")
}

func TestValidateSubmissionUnknownType(t *testing.T) {
	sub := validSubmission()
	sub.Type = "Time Travel Fraud"
	requireFieldError(t, validateSubmission(sub), "type")
}

func TestValidateSubmissionIncidentDate(t *testing.T) {
	sub := validSubmission()
	sub.IncidentDate = time.Time{}
	requireFieldError(t, validateSubmission(sub), "incident_date")

	sub = validSubmission()
	sub.IncidentDate = time.Now().Add(48 * time.Hour)
	requireFieldError(t, validateSubmission(sub), "incident_date")
}

func TestValidateSubmissionEvidenceFiles(t *testing.T) {
	sub := validSubmission()
	sub.EvidenceFiles = []models.EvidenceFile{{Name: "", Type: "image/png", Size: 10}}
	requireFieldError(t, validateSubmission(sub), "evidence_files")

	sub = validSubmission()
	sub.EvidenceFiles = []models.EvidenceFile{{Name: "proof.png", Type: "image/png", Size: -1}}
	requireFieldError(t, validateSubmission(sub), "evidence_files")

	sub = validSubmission()
	sub.EvidenceFiles = []models.EvidenceFile{{Name: "proof.png", Type: "image/png", Size: 2048}}
	assert.NoError(t, validateSubmission(sub))
}
