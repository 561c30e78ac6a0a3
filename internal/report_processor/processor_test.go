package report_processor

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cybersafe-backend/internal/models"
	"cybersafe-backend/internal/queue"
	"cybersafe-backend/internal/repository"
)

type translateFunc func(ctx context.Context, text, targetLanguage, sourceLanguage string) (*TranslationResult, error)

func (f translateFunc) Translate(ctx context.Context, text, targetLanguage, sourceLanguage string) (*TranslationResult, error) {
	return f(ctx, text, targetLanguage, sourceLanguage)
}

type triageFunc func(ctx context.Context, text string, reportType models.ReportType) (*models.TriageResult, error)

func (f triageFunc) Triage(ctx context.Context, text string, reportType models.ReportType) (*models.TriageResult, error) {
	return f(ctx, text, reportType)
}

type escalationFunc func(ctx context.Context, input *EscalationInput) (*EscalationAdvice, error)

func (f escalationFunc) SuggestEscalation(ctx context.Context, input *EscalationInput) (*EscalationAdvice, error) {
	return f(ctx, input)
}

type fraudFunc func(ctx context.Context, suspect *models.SuspectDetails, knownIndicators string) (*models.FraudPatternResult, error)

func (f fraudFunc) DetectFraudPatterns(ctx context.Context, suspect *models.SuspectDetails, knownIndicators string) (*models.FraudPatternResult, error) {
	return f(ctx, suspect, knownIndicators)
}

// historyStore records every persisted status so tests can assert the state
// machine never moves backwards.
type historyStore struct {
	repository.ReportStore

	mu       sync.Mutex
	statuses []models.ReportStatus
}

func newHistoryStore() *historyStore {
	return &historyStore{ReportStore: repository.NewMemoryReportStore(zap.NewNop())}
}

func (s *historyStore) Create(report *models.Report) error {
	s.mu.Lock()
	s.statuses = append(s.statuses, report.Status)
	s.mu.Unlock()
	return s.ReportStore.Create(report)
}

func (s *historyStore) Update(report *models.Report) error {
	s.mu.Lock()
	s.statuses = append(s.statuses, report.Status)
	s.mu.Unlock()
	return s.ReportStore.Update(report)
}

func (s *historyStore) history() []models.ReportStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ReportStatus(nil), s.statuses...)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*queue.ReportEvent
}

func (p *recordingPublisher) Publish(event *queue.ReportEvent) error {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) eventNames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.events))
	for i, e := range p.events {
		names[i] = e.Event
	}
	return names
}

type recordingNotifier struct {
	mu      sync.Mutex
	reports []*models.Report
}

func (n *recordingNotifier) NotifyOfficerAssigned(report *models.Report) {
	n.mu.Lock()
	n.reports = append(n.reports, report)
	n.mu.Unlock()
}

func passthroughStages(urgency models.TriageUrgency, target models.EscalationTarget) *Stages {
	return &Stages{
		Translator: translateFunc(func(_ context.Context, text, _, _ string) (*TranslationResult, error) {
			return &TranslationResult{TranslatedText: "[translated] " + text}, nil
		}),
		Triage: triageFunc(func(_ context.Context, _ string, _ models.ReportType) (*models.TriageResult, error) {
			return &models.TriageResult{Category: "Phishing", Urgency: urgency, Summary: "summary"}, nil
		}),
		Escalation: escalationFunc(func(_ context.Context, _ *EscalationInput) (*EscalationAdvice, error) {
			return &EscalationAdvice{Target: string(target), Reasoning: "routing rationale"}, nil
		}),
		Fraud: fraudFunc(func(_ context.Context, _ *models.SuspectDetails, _ string) (*models.FraudPatternResult, error) {
			return &models.FraudPatternResult{Detected: false, Details: "no match"}, nil
		}),
	}
}

func newTestProcessor(store repository.ReportStore, stages *Stages, publisher queue.Publisher, notifier Notifier) *Processor {
	if publisher == nil {
		publisher = queue.NewNoopPublisher()
	}
	return NewProcessor(store, stages, publisher, notifier, "", time.Second, zap.NewNop())
}

func englishSubmission() *Submission {
	return &Submission{
		Type:             models.ReportTypePhishing,
		Description:      "Received an SMS asking to click a link to update KYC",
		OriginalLanguage: "en",
		IncidentDate:     time.Now().Add(-24 * time.Hour),
	}
}

func TestSubmitFilesReport(t *testing.T) {
	store := newHistoryStore()
	publisher := &recordingPublisher{}
	p := newTestProcessor(store, passthroughStages(models.UrgencyLow, models.TargetLocalDistrictCyberCell), publisher, nil)

	report, err := p.Submit(englishSubmission())
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^[A-Z]{2}-[A-Z]{3}-\d{4}-[A-Z0-9]{5}$`), report.ID)
	assert.Equal(t, models.StatusFiled, report.Status)
	assert.Equal(t, "Report submitted. Server processing initiated.", report.TimelineNote)
	assert.Equal(t, []string{queue.EventReportFiled}, publisher.eventNames())

	stored, err := store.Get(report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFiled, stored.Status)
}

func TestSubmitDefaultsLanguage(t *testing.T) {
	store := newHistoryStore()
	p := newTestProcessor(store, passthroughStages(models.UrgencyLow, models.TargetLocalDistrictCyberCell), nil, nil)

	sub := englishSubmission()
	sub.OriginalLanguage = ""
	report, err := p.Submit(sub)
	require.NoError(t, err)
	assert.Equal(t, CanonicalLanguage, report.OriginalLanguage)
}

func TestProcessEnglishLowUrgency(t *testing.T) {
	store := newHistoryStore()
	publisher := &recordingPublisher{}
	translatorCalled := false
	stages := passthroughStages(models.UrgencyLow, models.TargetLocalDistrictCyberCell)
	stages.Translator = translateFunc(func(_ context.Context, _, _, _ string) (*TranslationResult, error) {
		translatorCalled = true
		return nil, errors.New("must not be called")
	})
	p := newTestProcessor(store, stages, publisher, nil)

	report, err := p.Submit(englishSubmission())
	require.NoError(t, err)
	p.Process(context.Background(), report.ID)

	final, err := store.Get(report.ID)
	require.NoError(t, err)
	assert.False(t, translatorCalled)
	assert.Equal(t, models.StatusCaseAccepted, final.Status)
	assert.Empty(t, final.AssignedOfficer)
	assert.Empty(t, final.ChatSessionID)
	assert.Equal(t, final.Description, final.TranslatedDescription)
	assert.NotContains(t, store.history(), models.StatusTranslationPending)
	assert.Contains(t, publisher.eventNames(), queue.EventCaseAccepted)
	assert.Contains(t, final.TimelineNote, "Case accepted for review")
}

func TestProcessTranslatedHighUrgency(t *testing.T) {
	store := newHistoryStore()
	publisher := &recordingPublisher{}
	notifier := &recordingNotifier{}
	p := newTestProcessor(store, passthroughStages(models.UrgencyHigh, models.TargetStateCyberHQ), publisher, notifier)

	sub := englishSubmission()
	sub.OriginalLanguage = "hi"
	sub.SuspectDetails = &models.SuspectDetails{Phone: "+911234500000"}
	report, err := p.Submit(sub)
	require.NoError(t, err)
	p.Process(context.Background(), report.ID)

	final, err := store.Get(report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOfficerAssigned, final.Status)
	assert.Equal(t, SystemOfficerName, final.AssignedOfficer)
	assert.Equal(t, models.ChatSessionIDFor(report.ID), final.ChatSessionID)
	assert.Equal(t, "[translated] "+sub.Description, final.TranslatedDescription)
	assert.Equal(t, models.TargetStateCyberHQ, final.EscalationResult.Target)
	assert.Contains(t, store.history(), models.StatusTranslationCompleted)
	assert.Contains(t, store.history(), models.StatusFraudAnalysisPending)
	assert.Contains(t, publisher.eventNames(), queue.EventOfficerAssigned)
	require.Len(t, notifier.reports, 1)
	assert.Equal(t, report.ID, notifier.reports[0].ID)
}

func TestProcessMediumUrgencyAssignsOfficer(t *testing.T) {
	store := newHistoryStore()
	p := newTestProcessor(store, passthroughStages(models.UrgencyMedium, models.TargetLocalDistrictCyberCell), nil, nil)

	report, err := p.Submit(englishSubmission())
	require.NoError(t, err)
	p.Process(context.Background(), report.ID)

	final, err := store.Get(report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOfficerAssigned, final.Status)
	assert.Equal(t, SystemOfficerName, final.AssignedOfficer)
}

func TestProcessStatusNeverMovesBackwards(t *testing.T) {
	store := newHistoryStore()
	p := newTestProcessor(store, passthroughStages(models.UrgencyHigh, models.TargetI4C), nil, nil)

	sub := englishSubmission()
	sub.OriginalLanguage = "hi"
	sub.SuspectDetails = &models.SuspectDetails{Email: "phisher@fakebank.org"}
	report, err := p.Submit(sub)
	require.NoError(t, err)
	p.Process(context.Background(), report.ID)

	history := store.history()
	require.NotEmpty(t, history)
	for i := 1; i < len(history); i++ {
		prev, cur := history[i-1], history[i]
		if prev == cur {
			continue
		}
		assert.True(t, models.CanTransition(prev, cur), "recorded %q -> %q", prev, cur)
	}
}

func TestProcessTriageFailureEndsInManualReview(t *testing.T) {
	store := newHistoryStore()
	publisher := &recordingPublisher{}
	escalationCalled := false
	fraudCalled := false
	stages := passthroughStages(models.UrgencyHigh, models.TargetStateCyberHQ)
	stages.Triage = triageFunc(func(_ context.Context, _ string, _ models.ReportType) (*models.TriageResult, error) {
		return nil, context.DeadlineExceeded
	})
	stages.Escalation = escalationFunc(func(_ context.Context, _ *EscalationInput) (*EscalationAdvice, error) {
		escalationCalled = true
		return nil, errors.New("must not be called")
	})
	stages.Fraud = fraudFunc(func(_ context.Context, _ *models.SuspectDetails, _ string) (*models.FraudPatternResult, error) {
		fraudCalled = true
		return nil, errors.New("must not be called")
	})
	p := newTestProcessor(store, stages, publisher, nil)

	report, err := p.Submit(englishSubmission())
	require.NoError(t, err)
	p.Process(context.Background(), report.ID)

	final, err := store.Get(report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNeedsManualReview, final.Status)
	assert.Contains(t, final.TimelineNote, "triage stage failed")
	assert.Contains(t, final.TimelineNote, "manual review")
	assert.False(t, escalationCalled)
	assert.False(t, fraudCalled)
	assert.Nil(t, final.TriageResult)
	assert.Contains(t, publisher.eventNames(), queue.EventNeedsManualReview)
}

func TestProcessTranslationFailureEndsInManualReview(t *testing.T) {
	store := newHistoryStore()
	stages := passthroughStages(models.UrgencyHigh, models.TargetStateCyberHQ)
	stages.Translator = translateFunc(func(_ context.Context, _, _, _ string) (*TranslationResult, error) {
		return nil, errors.New("translation backend down")
	})
	p := newTestProcessor(store, stages, nil, nil)

	sub := englishSubmission()
	sub.OriginalLanguage = "ta"
	report, err := p.Submit(sub)
	require.NoError(t, err)
	p.Process(context.Background(), report.ID)

	final, err := store.Get(report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNeedsManualReview, final.Status)
	assert.Contains(t, final.TimelineNote, "translation stage failed")
}

func TestProcessEmptyTranslationFallsBackToOriginal(t *testing.T) {
	store := newHistoryStore()
	stages := passthroughStages(models.UrgencyLow, models.TargetLocalDistrictCyberCell)
	stages.Translator = translateFunc(func(_ context.Context, _, _, _ string) (*TranslationResult, error) {
		return &TranslationResult{TranslatedText: "   "}, nil
	})
	p := newTestProcessor(store, stages, nil, nil)

	sub := englishSubmission()
	sub.OriginalLanguage = "hi"
	report, err := p.Submit(sub)
	require.NoError(t, err)
	p.Process(context.Background(), report.ID)

	final, err := store.Get(report.ID)
	require.NoError(t, err)
	assert.Equal(t, sub.Description, final.TranslatedDescription)
	assert.Equal(t, models.StatusCaseAccepted, final.Status)
}

func TestProcessUnknownEscalationTargetFallsBackToInternalReview(t *testing.T) {
	store := newHistoryStore()
	stages := passthroughStages(models.UrgencyLow, models.TargetLocalDistrictCyberCell)
	stages.Escalation = escalationFunc(func(_ context.Context, _ *EscalationInput) (*EscalationAdvice, error) {
		return &EscalationAdvice{Target: "Galactic Cyber Command", Reasoning: "made up"}, nil
	})
	p := newTestProcessor(store, stages, nil, nil)

	report, err := p.Submit(englishSubmission())
	require.NoError(t, err)
	p.Process(context.Background(), report.ID)

	final, err := store.Get(report.ID)
	require.NoError(t, err)
	require.NotNil(t, final.EscalationResult)
	assert.Equal(t, models.TargetInternalReview, final.EscalationResult.Target)
	assert.Contains(t, final.EscalationResult.Reasoning, "Galactic Cyber Command")
	assert.Equal(t, models.StatusCaseAccepted, final.Status)
}

func TestProcessFraudAnalysisSkippedWithoutSuspect(t *testing.T) {
	store := newHistoryStore()
	fraudCalled := false
	stages := passthroughStages(models.UrgencyLow, models.TargetLocalDistrictCyberCell)
	stages.Fraud = fraudFunc(func(_ context.Context, _ *models.SuspectDetails, _ string) (*models.FraudPatternResult, error) {
		fraudCalled = true
		return nil, errors.New("must not be called")
	})
	p := newTestProcessor(store, stages, nil, nil)

	report, err := p.Submit(englishSubmission())
	require.NoError(t, err)
	p.Process(context.Background(), report.ID)

	final, err := store.Get(report.ID)
	require.NoError(t, err)
	assert.False(t, fraudCalled)
	require.NotNil(t, final.FraudPatternResult)
	assert.False(t, final.FraudPatternResult.Detected)
	assert.Contains(t, final.FraudPatternResult.Details, "No suspect information")
	assert.NotContains(t, store.history(), models.StatusFraudAnalysisPending)
	assert.Contains(t, store.history(), models.StatusFraudAnalysisCompleted)
	assert.Equal(t, models.StatusCaseAccepted, final.Status)
}

func TestProcessFraudAnalysisFailureIsSoft(t *testing.T) {
	store := newHistoryStore()
	stages := passthroughStages(models.UrgencyHigh, models.TargetStateCyberHQ)
	stages.Fraud = fraudFunc(func(_ context.Context, _ *models.SuspectDetails, _ string) (*models.FraudPatternResult, error) {
		return nil, errors.New("pattern service unreachable")
	})
	p := newTestProcessor(store, stages, nil, nil)

	sub := englishSubmission()
	sub.SuspectDetails = &models.SuspectDetails{BankAccount: "12345678900"}
	report, err := p.Submit(sub)
	require.NoError(t, err)
	p.Process(context.Background(), report.ID)

	final, err := store.Get(report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOfficerAssigned, final.Status)
	require.NotNil(t, final.FraudPatternResult)
	assert.False(t, final.FraudPatternResult.Detected)
	assert.Contains(t, final.FraudPatternResult.Details, "unavailable")
}

func TestProcessFraudDetectedNotedInDisposition(t *testing.T) {
	store := newHistoryStore()
	stages := passthroughStages(models.UrgencyHigh, models.TargetStateCyberHQ)
	stages.Fraud = fraudFunc(func(_ context.Context, _ *models.SuspectDetails, _ string) (*models.FraudPatternResult, error) {
		return &models.FraudPatternResult{Detected: true, Details: "bank account matches flagged list", Confidence: "High"}, nil
	})
	p := newTestProcessor(store, stages, nil, nil)

	sub := englishSubmission()
	sub.SuspectDetails = &models.SuspectDetails{BankAccount: "12345678900"}
	report, err := p.Submit(sub)
	require.NoError(t, err)
	p.Process(context.Background(), report.ID)

	final, err := store.Get(report.ID)
	require.NoError(t, err)
	assert.True(t, final.FraudPatternResult.Detected)
	assert.Contains(t, final.TimelineNote, "Fraud pattern detected")
}

func TestProcessUnknownReport(t *testing.T) {
	store := newHistoryStore()
	p := newTestProcessor(store, passthroughStages(models.UrgencyLow, models.TargetLocalDistrictCyberCell), nil, nil)

	// Must not panic and must not record any state.
	p.Process(context.Background(), "no-such-id")
	assert.Empty(t, store.history())
}

func TestNeedsTranslation(t *testing.T) {
	assert.False(t, needsTranslation(""))
	assert.False(t, needsTranslation("en"))
	assert.False(t, needsTranslation("English"))
	assert.False(t, needsTranslation(" ENGLISH "))
	assert.True(t, needsTranslation("hi"))
	assert.True(t, needsTranslation("ta"))
}

func TestFlattenSuspectInfo(t *testing.T) {
	assert.Equal(t, "No specific suspect details provided.", flattenSuspectInfo(nil))
	got := flattenSuspectInfo(&models.SuspectDetails{Phone: "+911234500000", Email: "phisher@fakebank.org"})
	assert.Equal(t, "Phone: +911234500000, Email: phisher@fakebank.org", got)
}

func TestFlattenLocationInfo(t *testing.T) {
	assert.Equal(t, "Location not specified or not relevant.", flattenLocationInfo(nil))
	assert.Equal(t, "Location not specified or not relevant.",
		flattenLocationInfo(&models.IncidentLocation{Type: models.LocationNotProvided}))
	assert.Equal(t, "Incident location: Mumbai, Maharashtra, India.",
		flattenLocationInfo(&models.IncidentLocation{Type: models.LocationManual, City: "Mumbai", State: "Maharashtra", Country: "India"}))
	assert.Equal(t, "Incident location: Near Andheri station.",
		flattenLocationInfo(&models.IncidentLocation{Type: models.LocationAutoDetected, Details: "Near Andheri station"}))
}

func TestGenerateReportIDUsesLocation(t *testing.T) {
	id := generateReportID(&models.IncidentLocation{Type: models.LocationManual, State: "Maharashtra", City: "Mumbai"})
	assert.Regexp(t, regexp.MustCompile(`^MA-MUM-\d{4}-[A-Z0-9]{5}$`), id)

	id = generateReportID(nil)
	assert.Regexp(t, regexp.MustCompile(`^XX-YYY-\d{4}-[A-Z0-9]{5}$`), id)
}
