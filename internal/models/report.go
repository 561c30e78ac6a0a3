package models

import "time"

// ReportType is the incident category selected by the reporter.
type ReportType string

const (
	ReportTypeHacking       ReportType = "Hacking"
	ReportTypeOnlineFraud   ReportType = "Online Fraud"
	ReportTypeIdentityTheft ReportType = "Identity Theft"
	ReportTypeCyberbullying ReportType = "Cyberbullying"
	ReportTypeSextortion    ReportType = "Sextortion"
	ReportTypePhishing      ReportType = "Phishing"
	ReportTypeOther         ReportType = "Other"
)

// ValidReportType reports whether t is a known incident category.
func ValidReportType(t ReportType) bool {
	switch t {
	case ReportTypeHacking, ReportTypeOnlineFraud, ReportTypeIdentityTheft,
		ReportTypeCyberbullying, ReportTypeSextortion, ReportTypePhishing, ReportTypeOther:
		return true
	}
	return false
}

// ReportStatus is the report's position in the processing state machine.
type ReportStatus string

const (
	StatusFiled                  ReportStatus = "Filed"
	StatusTranslationPending     ReportStatus = "Translation Pending"
	StatusTranslationCompleted   ReportStatus = "Translation Completed"
	StatusTriagePending          ReportStatus = "Triage Pending"
	StatusTriageCompleted        ReportStatus = "Triage Completed"
	StatusEscalationPending      ReportStatus = "Escalation Suggestion Pending"
	StatusEscalationCompleted    ReportStatus = "Escalation Suggestion Completed"
	StatusFraudAnalysisPending   ReportStatus = "Fraud Pattern Analysis Pending"
	StatusFraudAnalysisCompleted ReportStatus = "Fraud Pattern Analysis Completed"
	StatusOfficerAssigned        ReportStatus = "Investigating Officer Assigned"
	StatusCaseAccepted           ReportStatus = "Case Accepted"
	StatusNeedsManualReview      ReportStatus = "Needs Manual Review"
)

// statusRank orders the forward path of the state machine. OfficerAssigned and
// CaseAccepted share a rank: they are alternative terminals, never both reached.
var statusRank = map[ReportStatus]int{
	StatusFiled:                  0,
	StatusTranslationPending:     1,
	StatusTranslationCompleted:   2,
	StatusTriagePending:          3,
	StatusTriageCompleted:        4,
	StatusEscalationPending:      5,
	StatusEscalationCompleted:    6,
	StatusFraudAnalysisPending:   7,
	StatusFraudAnalysisCompleted: 8,
	StatusOfficerAssigned:        9,
	StatusCaseAccepted:           9,
}

// CanTransition reports whether a report may move from one status to another.
// The forward path only ever advances; the one exception is the error path,
// which may jump to NeedsManualReview from any non-terminal point.
func CanTransition(from, to ReportStatus) bool {
	if to == StatusNeedsManualReview {
		return from != StatusOfficerAssigned && from != StatusCaseAccepted && from != StatusNeedsManualReview
	}
	if from == StatusNeedsManualReview {
		return false
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// IsTerminal reports whether no further pipeline processing happens for status.
func (s ReportStatus) IsTerminal() bool {
	return s == StatusOfficerAssigned || s == StatusCaseAccepted || s == StatusNeedsManualReview
}

// TriageUrgency is the three-level urgency assigned by the triage stage.
type TriageUrgency string

const (
	UrgencyHigh   TriageUrgency = "High"
	UrgencyMedium TriageUrgency = "Medium"
	UrgencyLow    TriageUrgency = "Low"
)

// EscalationTarget is the authority a report should be routed to. Values
// originate from the escalation advisor and must be validated against this set
// before being stored.
type EscalationTarget string

const (
	TargetLocalDistrictCyberCell EscalationTarget = "Local District Cyber Cell"
	TargetStateCyberHQ           EscalationTarget = "State Cyber Cell HQ"
	TargetI4C                    EscalationTarget = "I4C (National Cyber Crime Coordination)"
	TargetCERTIn                 EscalationTarget = "CERT-In (Technical Emergency Response)"
	TargetInterpol               EscalationTarget = "Interpol (International Crime)"
	TargetNationalSecurity       EscalationTarget = "National Security Agency Alert"
	TargetInternalReview         EscalationTarget = "Internal Review / Further Information Needed"
)

// ValidEscalationTarget reports whether t is a member of the known target set.
func ValidEscalationTarget(t EscalationTarget) bool {
	switch t {
	case TargetLocalDistrictCyberCell, TargetStateCyberHQ, TargetI4C,
		TargetCERTIn, TargetInterpol, TargetNationalSecurity, TargetInternalReview:
		return true
	}
	return false
}

// TriageResult is the stored output of the triage stage.
type TriageResult struct {
	Category string        `json:"category"`
	Urgency  TriageUrgency `json:"urgency"`
	Summary  string        `json:"summary"`
}

// EscalationResult is the stored output of the escalation advisor stage.
type EscalationResult struct {
	Target    EscalationTarget `json:"target"`
	Reasoning string           `json:"reasoning"`
}

// FraudPatternResult is the stored output of fraud pattern analysis.
type FraudPatternResult struct {
	Detected   bool   `json:"detected"`
	Details    string `json:"details"`
	Confidence string `json:"confidence,omitempty"`
}

// SuspectDetails carries whatever identifiers the reporter had about the
// suspect. All fields optional.
type SuspectDetails struct {
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	IPAddress   string `json:"ip_address,omitempty"`
	Website     string `json:"website,omitempty"`
	BankAccount string `json:"bank_account,omitempty"`
	OtherInfo   string `json:"other_info,omitempty"`
}

// HasAny reports whether at least one suspect field is non-empty. Fraud
// pattern analysis only runs when it is.
func (s *SuspectDetails) HasAny() bool {
	if s == nil {
		return false
	}
	return s.Phone != "" || s.Email != "" || s.IPAddress != "" ||
		s.Website != "" || s.BankAccount != "" || s.OtherInfo != ""
}

// Incident location variants.
const (
	LocationNotProvided  = "not_provided"
	LocationAutoDetected = "auto_detected"
	LocationManual       = "manual"
)

// IncidentLocation is either auto-detected coordinates with a reverse-geocoded
// area, a manually entered city/state/country, or absent.
type IncidentLocation struct {
	Type      string  `json:"type"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
	Country   string  `json:"country,omitempty"`
	Details   string  `json:"details,omitempty"`
}

// EvidenceFile is metadata about an uploaded evidence file. Binary content is
// handled outside this service.
type EvidenceFile struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// Report is one submitted cybercrime incident and everything the processing
// pipeline has accumulated for it so far.
type Report struct {
	ID                     string              `json:"id"`
	Type                   ReportType          `json:"type"`
	Description            string              `json:"description"`
	OriginalLanguage       string              `json:"original_language"`
	TranslatedDescription  string              `json:"translated_description,omitempty"`
	IncidentDate           time.Time           `json:"incident_date"`
	SubmissionDate         time.Time           `json:"submission_date"`
	ReporterName           string              `json:"reporter_name,omitempty"`
	ReporterContact        string              `json:"reporter_contact,omitempty"`
	SuspectDetails         *SuspectDetails     `json:"suspect_details,omitempty"`
	IncidentLocation       *IncidentLocation   `json:"incident_location,omitempty"`
	AdditionalEvidenceText string              `json:"additional_evidence_text,omitempty"`
	EvidenceFiles          []EvidenceFile      `json:"evidence_files,omitempty"`
	Status                 ReportStatus        `json:"status"`
	TriageResult           *TriageResult       `json:"triage_result,omitempty"`
	EscalationResult       *EscalationResult   `json:"escalation_result,omitempty"`
	FraudPatternResult     *FraudPatternResult `json:"fraud_pattern_result,omitempty"`
	AssignedOfficer        string              `json:"assigned_officer,omitempty"`
	ChatSessionID          string              `json:"chat_session_id,omitempty"`
	TimelineNote           string              `json:"timeline_note"`
}

// Clone returns a deep copy so store snapshots are never aliased by callers.
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	cp := *r
	if r.SuspectDetails != nil {
		sd := *r.SuspectDetails
		cp.SuspectDetails = &sd
	}
	if r.IncidentLocation != nil {
		loc := *r.IncidentLocation
		cp.IncidentLocation = &loc
	}
	if r.TriageResult != nil {
		tr := *r.TriageResult
		cp.TriageResult = &tr
	}
	if r.EscalationResult != nil {
		er := *r.EscalationResult
		cp.EscalationResult = &er
	}
	if r.FraudPatternResult != nil {
		fr := *r.FraudPatternResult
		cp.FraudPatternResult = &fr
	}
	if r.EvidenceFiles != nil {
		cp.EvidenceFiles = append([]EvidenceFile(nil), r.EvidenceFiles...)
	}
	return &cp
}
