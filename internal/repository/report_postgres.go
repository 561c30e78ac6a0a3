package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"cybersafe-backend/internal/models"
)

// postgresReportStore persists reports in the 'reports' table. Structured
// sub-objects (suspect details, stage results, evidence metadata) live in
// JSONB columns so the orchestration logic stays identical to the in-memory
// store.
type postgresReportStore struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewPostgresReportStore creates a ReportStore backed by PostgreSQL.
func NewPostgresReportStore(db *sqlx.DB, logger *zap.Logger) ReportStore {
	return &postgresReportStore{db: db, logger: logger}
}

type reportRow struct {
	ID                     string         `db:"id"`
	Type                   string         `db:"type"`
	Description            string         `db:"description"`
	OriginalLanguage       string         `db:"original_language"`
	TranslatedDescription  sql.NullString `db:"translated_description"`
	IncidentDate           time.Time      `db:"incident_date"`
	SubmissionDate         time.Time      `db:"submission_date"`
	ReporterName           sql.NullString `db:"reporter_name"`
	ReporterContact        sql.NullString `db:"reporter_contact"`
	SuspectDetails         []byte         `db:"suspect_details"`
	IncidentLocation       []byte         `db:"incident_location"`
	AdditionalEvidenceText sql.NullString `db:"additional_evidence_text"`
	EvidenceFiles          []byte         `db:"evidence_files"`
	Status                 string         `db:"status"`
	TriageResult           []byte         `db:"triage_result"`
	EscalationResult       []byte         `db:"escalation_result"`
	FraudPatternResult     []byte         `db:"fraud_pattern_result"`
	AssignedOfficer        sql.NullString `db:"assigned_officer"`
	ChatSessionID          sql.NullString `db:"chat_session_id"`
	TimelineNote           string         `db:"timeline_note"`
}

const reportColumns = `id, type, description, original_language, translated_description,
	incident_date, submission_date, reporter_name, reporter_contact, suspect_details,
	incident_location, additional_evidence_text, evidence_files, status, triage_result,
	escalation_result, fraud_pattern_result, assigned_officer, chat_session_id, timeline_note`

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func marshalOrNil(v interface{}) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func toRow(report *models.Report) (*reportRow, error) {
	row := &reportRow{
		ID:                     report.ID,
		Type:                   string(report.Type),
		Description:            report.Description,
		OriginalLanguage:       report.OriginalLanguage,
		TranslatedDescription:  nullable(report.TranslatedDescription),
		IncidentDate:           report.IncidentDate,
		SubmissionDate:         report.SubmissionDate,
		ReporterName:           nullable(report.ReporterName),
		ReporterContact:        nullable(report.ReporterContact),
		AdditionalEvidenceText: nullable(report.AdditionalEvidenceText),
		Status:                 string(report.Status),
		AssignedOfficer:        nullable(report.AssignedOfficer),
		ChatSessionID:          nullable(report.ChatSessionID),
		TimelineNote:           report.TimelineNote,
	}

	var err error
	if report.SuspectDetails != nil {
		if row.SuspectDetails, err = marshalOrNil(report.SuspectDetails); err != nil {
			return nil, fmt.Errorf("failed to marshal suspect details: %w", err)
		}
	}
	if report.IncidentLocation != nil {
		if row.IncidentLocation, err = marshalOrNil(report.IncidentLocation); err != nil {
			return nil, fmt.Errorf("failed to marshal incident location: %w", err)
		}
	}
	if len(report.EvidenceFiles) > 0 {
		if row.EvidenceFiles, err = marshalOrNil(report.EvidenceFiles); err != nil {
			return nil, fmt.Errorf("failed to marshal evidence files: %w", err)
		}
	}
	if report.TriageResult != nil {
		if row.TriageResult, err = marshalOrNil(report.TriageResult); err != nil {
			return nil, fmt.Errorf("failed to marshal triage result: %w", err)
		}
	}
	if report.EscalationResult != nil {
		if row.EscalationResult, err = marshalOrNil(report.EscalationResult); err != nil {
			return nil, fmt.Errorf("failed to marshal escalation result: %w", err)
		}
	}
	if report.FraudPatternResult != nil {
		if row.FraudPatternResult, err = marshalOrNil(report.FraudPatternResult); err != nil {
			return nil, fmt.Errorf("failed to marshal fraud pattern result: %w", err)
		}
	}
	return row, nil
}

func fromRow(row *reportRow) (*models.Report, error) {
	report := &models.Report{
		ID:                     row.ID,
		Type:                   models.ReportType(row.Type),
		Description:            row.Description,
		OriginalLanguage:       row.OriginalLanguage,
		TranslatedDescription:  row.TranslatedDescription.String,
		IncidentDate:           row.IncidentDate,
		SubmissionDate:         row.SubmissionDate,
		ReporterName:           row.ReporterName.String,
		ReporterContact:        row.ReporterContact.String,
		AdditionalEvidenceText: row.AdditionalEvidenceText.String,
		Status:                 models.ReportStatus(row.Status),
		AssignedOfficer:        row.AssignedOfficer.String,
		ChatSessionID:          row.ChatSessionID.String,
		TimelineNote:           row.TimelineNote,
	}

	if len(row.SuspectDetails) > 0 {
		report.SuspectDetails = &models.SuspectDetails{}
		if err := json.Unmarshal(row.SuspectDetails, report.SuspectDetails); err != nil {
			return nil, fmt.Errorf("failed to unmarshal suspect details: %w", err)
		}
	}
	if len(row.IncidentLocation) > 0 {
		report.IncidentLocation = &models.IncidentLocation{}
		if err := json.Unmarshal(row.IncidentLocation, report.IncidentLocation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal incident location: %w", err)
		}
	}
	if len(row.EvidenceFiles) > 0 {
		if err := json.Unmarshal(row.EvidenceFiles, &report.EvidenceFiles); err != nil {
			return nil, fmt.Errorf("failed to unmarshal evidence files: %w", err)
		}
	}
	if len(row.TriageResult) > 0 {
		report.TriageResult = &models.TriageResult{}
		if err := json.Unmarshal(row.TriageResult, report.TriageResult); err != nil {
			return nil, fmt.Errorf("failed to unmarshal triage result: %w", err)
		}
	}
	if len(row.EscalationResult) > 0 {
		report.EscalationResult = &models.EscalationResult{}
		if err := json.Unmarshal(row.EscalationResult, report.EscalationResult); err != nil {
			return nil, fmt.Errorf("failed to unmarshal escalation result: %w", err)
		}
	}
	if len(row.FraudPatternResult) > 0 {
		report.FraudPatternResult = &models.FraudPatternResult{}
		if err := json.Unmarshal(row.FraudPatternResult, report.FraudPatternResult); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fraud pattern result: %w", err)
		}
	}
	return report, nil
}

func (s *postgresReportStore) Create(report *models.Report) error {
	row, err := toRow(report)
	if err != nil {
		return err
	}

	query := `INSERT INTO reports (` + reportColumns + `)
	          VALUES (:id, :type, :description, :original_language, :translated_description,
	                  :incident_date, :submission_date, :reporter_name, :reporter_contact, :suspect_details,
	                  :incident_location, :additional_evidence_text, :evidence_files, :status, :triage_result,
	                  :escalation_result, :fraud_pattern_result, :assigned_officer, :chat_session_id, :timeline_note)`
	_, err = s.db.NamedExec(query, row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateID
		}
		return err
	}
	s.logger.Debug("Report created", zap.String("report_id", report.ID))
	return nil
}

func (s *postgresReportStore) Get(id string) (*models.Report, error) {
	var row reportRow
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id = $1`
	if err := s.db.Get(&row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fromRow(&row)
}

func (s *postgresReportStore) Update(report *models.Report) error {
	row, err := toRow(report)
	if err != nil {
		return err
	}

	query := `UPDATE reports SET
	            type = :type, description = :description, original_language = :original_language,
	            translated_description = :translated_description, incident_date = :incident_date,
	            submission_date = :submission_date, reporter_name = :reporter_name,
	            reporter_contact = :reporter_contact, suspect_details = :suspect_details,
	            incident_location = :incident_location, additional_evidence_text = :additional_evidence_text,
	            evidence_files = :evidence_files, status = :status, triage_result = :triage_result,
	            escalation_result = :escalation_result, fraud_pattern_result = :fraud_pattern_result,
	            assigned_officer = :assigned_officer, chat_session_id = :chat_session_id,
	            timeline_note = :timeline_note
	          WHERE id = :id`
	result, err := s.db.NamedExec(query, row)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *postgresReportStore) List() ([]*models.Report, error) {
	var rows []reportRow
	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY submission_date DESC`
	if err := s.db.Select(&rows, query); err != nil {
		return nil, err
	}

	reports := make([]*models.Report, 0, len(rows))
	for i := range rows {
		report, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
