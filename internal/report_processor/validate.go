package report_processor

import (
	"fmt"
	"strings"
	"time"

	"cybersafe-backend/internal/models"
)

// Submission is the raw report payload accepted from the API layer.
type Submission struct {
	Type                   models.ReportType        `json:"type"`
	Description            string                   `json:"description"`
	OriginalLanguage       string                   `json:"original_language"`
	IncidentDate           time.Time                `json:"incident_date"`
	ReporterName           string                   `json:"reporter_name"`
	ReporterContact        string                   `json:"reporter_contact"`
	SuspectDetails         *models.SuspectDetails   `json:"suspect_details"`
	IncidentLocation       *models.IncidentLocation `json:"incident_location"`
	AdditionalEvidenceText string                   `json:"additional_evidence_text"`
	EvidenceFiles          []models.EvidenceFile    `json:"evidence_files"`
}

// ValidationError rejects a malformed submission before any report is
// created. It carries the offending field for the API layer.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %s: %s", e.Field, e.Message)
}

func validateSubmission(sub *Submission) error {
	if strings.TrimSpace(sub.Description) == "" {
		return &ValidationError{Field: "description", Message: "must not be empty"}
	}
	if !models.ValidReportType(sub.Type) {
		return &ValidationError{Field: "type", Message: fmt.Sprintf("unknown report type %q", sub.Type)}
	}
	if sub.IncidentDate.IsZero() {
		return &ValidationError{Field: "incident_date", Message: "must be provided"}
	}
	if sub.IncidentDate.After(time.Now().Add(24 * time.Hour)) {
		return &ValidationError{Field: "incident_date", Message: "must not be in the future"}
	}
	for _, f := range sub.EvidenceFiles {
		if f.Name == "" {
			return &ValidationError{Field: "evidence_files", Message: "file name must not be empty"}
		}
		if f.Size < 0 {
			return &ValidationError{Field: "evidence_files", Message: "file size must not be negative"}
		}
	}
	return nil
}
