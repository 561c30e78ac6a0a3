package report_processor

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"cybersafe-backend/internal/models"
	"cybersafe-backend/internal/queue"
	"cybersafe-backend/internal/repository"
)

// CanonicalLanguage is the language every description is normalized to before
// the downstream analysis stages run.
const CanonicalLanguage = "English"

// SystemOfficerName is the officer identity assigned to escalated cases.
const SystemOfficerName = "Officer K (System Assigned)"

// Notifier alerts operations staff about escalated cases. Implementations
// must not block; failures are the notifier's problem, not the pipeline's.
type Notifier interface {
	NotifyOfficerAssigned(report *models.Report)
}

// Processor drives a submitted report through the analysis stages and the
// status state machine. Stages for a single report run strictly sequentially;
// different reports are processed independently, one goroutine each.
type Processor struct {
	reportStore     repository.ReportStore
	stages          *Stages
	publisher       queue.Publisher
	notifier        Notifier
	logger          *zap.Logger
	stageTimeout    time.Duration
	knownIndicators string
}

// NewProcessor creates a new report processor.
func NewProcessor(
	reportStore repository.ReportStore,
	stages *Stages,
	publisher queue.Publisher,
	notifier Notifier,
	knownIndicators string,
	stageTimeout time.Duration,
	logger *zap.Logger,
) *Processor {
	if knownIndicators == "" {
		knownIndicators = defaultKnownIndicators
	}
	return &Processor{
		reportStore:     reportStore,
		stages:          stages,
		publisher:       publisher,
		notifier:        notifier,
		logger:          logger,
		stageTimeout:    stageTimeout,
		knownIndicators: knownIndicators,
	}
}

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateReportID builds a structured display id: state and city
// abbreviations, year, and a random suffix. Uniqueness comes from the suffix;
// the structure is a display concern only.
func generateReportID(loc *models.IncidentLocation) string {
	stateAbbr, cityAbbr := "XX", "YYY"
	if loc != nil {
		if loc.State != "" {
			stateAbbr = strings.ToUpper(loc.State)
			if len(stateAbbr) > 2 {
				stateAbbr = stateAbbr[:2]
			}
		}
		if loc.City != "" {
			cityAbbr = strings.ToUpper(loc.City)
			if len(cityAbbr) > 3 {
				cityAbbr = cityAbbr[:3]
			}
		}
	}
	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return fmt.Sprintf("%s-%s-%d-%s", stateAbbr, cityAbbr, time.Now().Year(), suffix)
}

// Submit validates the payload and files a new report with status Filed. The
// caller decides when (and on which goroutine) to run Process; submitters get
// their report id back even before any analysis stage has run.
func (p *Processor) Submit(sub *Submission) (*models.Report, error) {
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	suspect := sub.SuspectDetails
	if !suspect.HasAny() {
		suspect = nil
	}
	location := sub.IncidentLocation
	if location != nil && location.Type == models.LocationNotProvided {
		location = nil
	}
	language := sub.OriginalLanguage
	if language == "" {
		language = CanonicalLanguage
	}

	report := &models.Report{
		ID:                     generateReportID(location),
		Type:                   sub.Type,
		Description:            sub.Description,
		OriginalLanguage:       language,
		IncidentDate:           sub.IncidentDate,
		SubmissionDate:         time.Now().UTC(),
		ReporterName:           sub.ReporterName,
		ReporterContact:        sub.ReporterContact,
		SuspectDetails:         suspect,
		IncidentLocation:       location,
		AdditionalEvidenceText: sub.AdditionalEvidenceText,
		EvidenceFiles:          sub.EvidenceFiles,
		Status:                 models.StatusFiled,
		TimelineNote:           "Report submitted. Server processing initiated.",
	}

	if err := p.reportStore.Create(report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	p.logger.Info("Report filed",
		zap.String("report_id", report.ID),
		zap.String("type", string(report.Type)))

	p.publishEvent(queue.EventReportFiled, report)
	return report, nil
}

// Process runs the analysis pipeline for a filed report. The context should
// be detached from the submitting request: a client disconnect must never
// strand a report mid-pipeline. Stage failures end the run in
// NeedsManualReview; fail-soft stages degrade instead per their contracts.
func (p *Processor) Process(ctx context.Context, reportID string) {
	report, err := p.reportStore.Get(reportID)
	if err != nil {
		p.logger.Error("Failed to load report for processing", zap.String("report_id", reportID), zap.Error(err))
		return
	}

	descriptionForAnalysis, ok := p.runTranslation(ctx, report)
	if !ok {
		return
	}
	if !p.runTriage(ctx, report, descriptionForAnalysis) {
		return
	}
	if !p.runEscalation(ctx, report, descriptionForAnalysis) {
		return
	}
	if !p.runFraudAnalysis(ctx, report) {
		return
	}
	p.finalize(report)
}

// runTranslation normalizes the description to the canonical language and
// returns the text downstream stages should analyze. Reports already in the
// canonical language skip the translation states entirely.
func (p *Processor) runTranslation(ctx context.Context, report *models.Report) (string, bool) {
	if !needsTranslation(report.OriginalLanguage) {
		report.TranslatedDescription = report.Description
		if err := p.transition(report, report.Status, "AI Triage in progress..."); err != nil {
			return "", false
		}
		return report.Description, true
	}

	if err := p.transition(report, models.StatusTranslationPending, "Translating description to English..."); err != nil {
		return "", false
	}

	stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	result, err := p.stages.Translator.Translate(stageCtx, report.Description, CanonicalLanguage, report.OriginalLanguage)
	cancel()
	if err != nil {
		p.failStage(report, "translation", err)
		return "", false
	}

	// Fail-soft: an empty translation falls back to the original text rather
	// than propagating an empty string downstream.
	translated := result.TranslatedText
	if strings.TrimSpace(translated) == "" {
		p.logger.Warn("Translator returned empty text, falling back to original",
			zap.String("report_id", report.ID))
		translated = report.Description
	}
	report.TranslatedDescription = translated

	if err := p.transition(report, models.StatusTranslationCompleted, "Description translated. Starting AI Triage..."); err != nil {
		return "", false
	}
	return translated, true
}

func (p *Processor) runTriage(ctx context.Context, report *models.Report, text string) bool {
	if err := p.transition(report, models.StatusTriagePending, "AI Triage in progress..."); err != nil {
		return false
	}

	stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	result, err := p.stages.Triage.Triage(stageCtx, text, report.Type)
	cancel()
	if err != nil {
		p.failStage(report, "triage", err)
		return false
	}

	// Stored verbatim; the contract only requires the call to succeed.
	report.TriageResult = result
	note := fmt.Sprintf("AI Triage complete. Category: %s. Urgency: %s. Preparing escalation suggestion...",
		result.Category, result.Urgency)
	return p.transition(report, models.StatusTriageCompleted, note) == nil
}

func (p *Processor) runEscalation(ctx context.Context, report *models.Report, text string) bool {
	if err := p.transition(report, models.StatusEscalationPending, "Determining escalation path..."); err != nil {
		return false
	}

	input := &EscalationInput{
		ReportText:             text,
		ReportType:             report.Type,
		SuspectInfo:            flattenSuspectInfo(report.SuspectDetails),
		LocationInfo:           flattenLocationInfo(report.IncidentLocation),
		AdditionalEvidenceText: report.AdditionalEvidenceText,
		TriageCategory:         report.TriageResult.Category,
		TriageUrgency:          report.TriageResult.Urgency,
	}
	if input.AdditionalEvidenceText == "" {
		input.AdditionalEvidenceText = "None"
	}

	stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	advice, err := p.stages.Escalation.SuggestEscalation(stageCtx, input)
	cancel()
	if err != nil {
		p.failStage(report, "escalation suggestion", err)
		return false
	}

	// The advisor's target is an unconstrained string from an external
	// service; it must never reach a routing decision unvalidated.
	target := models.EscalationTarget(advice.Target)
	reasoning := advice.Reasoning
	if !models.ValidEscalationTarget(target) {
		p.logger.Warn("Escalation advisor returned unknown target, substituting internal review",
			zap.String("report_id", report.ID),
			zap.String("target", advice.Target))
		target = models.TargetInternalReview
		if reasoning == "" {
			reasoning = "The advisor could not determine a valid escalation target."
		}
		reasoning = fmt.Sprintf("Fallback to internal review (advisor suggested unrecognized target %q). %s",
			advice.Target, reasoning)
	}
	report.EscalationResult = &models.EscalationResult{Target: target, Reasoning: reasoning}

	note := fmt.Sprintf("Escalation suggested: %s. Analyzing for fraud patterns...", target)
	return p.transition(report, models.StatusEscalationCompleted, note) == nil
}

// runFraudAnalysis never stops the pipeline: a stage failure degrades to a
// "not detected" result so fraud analysis can never block case disposition.
func (p *Processor) runFraudAnalysis(ctx context.Context, report *models.Report) bool {
	if !report.SuspectDetails.HasAny() {
		report.FraudPatternResult = &models.FraudPatternResult{
			Detected: false,
			Details:  "No suspect information provided for pattern analysis.",
		}
		return p.transition(report, models.StatusFraudAnalysisCompleted, report.TimelineNote) == nil
	}

	if err := p.transition(report, models.StatusFraudAnalysisPending, "Checking suspect details against known fraud indicators..."); err != nil {
		return false
	}

	stageCtx, cancel := context.WithTimeout(ctx, p.stageTimeout)
	result, err := p.stages.Fraud.DetectFraudPatterns(stageCtx, report.SuspectDetails, p.knownIndicators)
	cancel()
	if err != nil {
		p.logger.Warn("Fraud pattern analysis failed, continuing without it",
			zap.String("report_id", report.ID), zap.Error(err))
		result = &models.FraudPatternResult{
			Detected: false,
			Details:  fmt.Sprintf("Fraud pattern analysis unavailable: %v.", err),
		}
	}
	report.FraudPatternResult = result

	note := report.TimelineNote
	if result.Detected {
		note = fmt.Sprintf("Fraud pattern analysis: detected (%s).", result.Details)
	} else {
		note = note + " No specific fraud patterns detected."
	}
	return p.transition(report, models.StatusFraudAnalysisCompleted, note) == nil
}

// finalize decides disposition: High and Medium urgency cases get a system
// officer and a chat session; Low urgency cases are accepted for passive
// review.
func (p *Processor) finalize(report *models.Report) {
	fraudNote := ""
	if report.FraudPatternResult != nil && report.FraudPatternResult.Detected {
		fraudNote = "Fraud pattern detected. "
	}

	urgency := report.TriageResult.Urgency
	if urgency == models.UrgencyHigh || urgency == models.UrgencyMedium {
		report.AssignedOfficer = SystemOfficerName
		report.ChatSessionID = models.ChatSessionIDFor(report.ID)
		note := fmt.Sprintf("AI analysis complete. %s%s assigned. Investigation will commence shortly. "+
			"You can use the chat feature for updates. Suggested Escalation: %s.",
			fraudNote, report.AssignedOfficer, report.EscalationResult.Target)
		if err := p.transition(report, models.StatusOfficerAssigned, note); err != nil {
			return
		}
		p.logger.Info("Officer assigned",
			zap.String("report_id", report.ID),
			zap.String("urgency", string(urgency)),
			zap.String("chat_session_id", report.ChatSessionID))
		p.publishEvent(queue.EventOfficerAssigned, report)
		if p.notifier != nil {
			p.notifier.NotifyOfficerAssigned(report)
		}
		return
	}

	note := fmt.Sprintf("AI analysis complete. %sCase accepted for review. Suggested Escalation: %s.",
		fraudNote, report.EscalationResult.Target)
	if err := p.transition(report, models.StatusCaseAccepted, note); err != nil {
		return
	}
	p.logger.Info("Case accepted", zap.String("report_id", report.ID))
	p.publishEvent(queue.EventCaseAccepted, report)
}

// transition advances the report's status, rewrites the timeline note, and
// persists the full next state. Passing the current status updates the note
// only.
func (p *Processor) transition(report *models.Report, to models.ReportStatus, note string) error {
	if to != report.Status && !models.CanTransition(report.Status, to) {
		err := fmt.Errorf("illegal status transition %q -> %q", report.Status, to)
		p.logger.Error("Refusing status transition", zap.String("report_id", report.ID), zap.Error(err))
		return err
	}
	report.Status = to
	report.TimelineNote = note
	if err := p.reportStore.Update(report); err != nil {
		p.logger.Error("Failed to persist report state",
			zap.String("report_id", report.ID),
			zap.String("status", string(to)),
			zap.Error(err))
		return err
	}
	return nil
}

// failStage routes the report to the manual review terminal after an
// unrecoverable stage failure. No further stages run.
func (p *Processor) failStage(report *models.Report, stage string, cause error) {
	p.logger.Error("Analysis stage failed",
		zap.String("report_id", report.ID),
		zap.String("stage", stage),
		zap.Error(cause))

	note := fmt.Sprintf("Automated processing could not complete: the %s stage failed (%v). "+
		"The report has been queued for manual review.", stage, cause)
	if err := p.transition(report, models.StatusNeedsManualReview, note); err != nil {
		return
	}
	p.publishEvent(queue.EventNeedsManualReview, report)
}

func (p *Processor) publishEvent(event string, report *models.Report) {
	e := &queue.ReportEvent{
		Event:      event,
		ReportID:   report.ID,
		ReportType: string(report.Type),
		Status:     string(report.Status),
		OccurredAt: time.Now().UTC(),
	}
	if report.TriageResult != nil {
		e.Urgency = string(report.TriageResult.Urgency)
		e.Category = report.TriageResult.Category
	}
	if err := p.publisher.Publish(e); err != nil {
		p.logger.Warn("Failed to publish report event",
			zap.String("report_id", report.ID),
			zap.String("event", event),
			zap.Error(err))
	}
}

func needsTranslation(language string) bool {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "", "en", "english":
		return false
	}
	return true
}

func flattenSuspectInfo(suspect *models.SuspectDetails) string {
	if !suspect.HasAny() {
		return "No specific suspect details provided."
	}
	var parts []string
	add := func(label, value string) {
		if value != "" {
			parts = append(parts, label+": "+value)
		}
	}
	add("Phone", suspect.Phone)
	add("Email", suspect.Email)
	add("IP Address", suspect.IPAddress)
	add("Website", suspect.Website)
	add("Bank Account", suspect.BankAccount)
	add("Other Info", suspect.OtherInfo)
	return strings.Join(parts, ", ")
}

func flattenLocationInfo(loc *models.IncidentLocation) string {
	if loc == nil || loc.Type == models.LocationNotProvided {
		return "Location not specified or not relevant."
	}
	if loc.Details != "" {
		return fmt.Sprintf("Incident location: %s.", loc.Details)
	}
	var parts []string
	for _, v := range []string{loc.City, loc.State, loc.Country} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		return "Location not specified or not relevant."
	}
	return fmt.Sprintf("Incident location: %s.", strings.Join(parts, ", "))
}
