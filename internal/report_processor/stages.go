package report_processor

import (
	"context"

	"cybersafe-backend/internal/analysis_client"
	"cybersafe-backend/internal/models"
)

// TranslationResult is the output of the translation stage.
type TranslationResult struct {
	TranslatedText         string
	DetectedSourceLanguage string
}

// Translator converts a report description into the canonical processing
// language (English).
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage, sourceLanguage string) (*TranslationResult, error)
}

// TriageClassifier assigns a crime category, urgency level, and short summary
// to a report.
type TriageClassifier interface {
	Triage(ctx context.Context, text string, reportType models.ReportType) (*models.TriageResult, error)
}

// EscalationInput is everything the escalation advisor sees about a report.
type EscalationInput struct {
	ReportText             string
	ReportType             models.ReportType
	SuspectInfo            string
	LocationInfo           string
	AdditionalEvidenceText string
	TriageCategory         string
	TriageUrgency          models.TriageUrgency
}

// EscalationAdvice is the raw advisor output. Target is an unconstrained
// string here; the pipeline validates it against the known enum set before
// storing.
type EscalationAdvice struct {
	Target    string
	Reasoning string
}

// EscalationAdvisor suggests which authority a report should be routed to.
type EscalationAdvisor interface {
	SuggestEscalation(ctx context.Context, input *EscalationInput) (*EscalationAdvice, error)
}

// FraudMatcher compares a report's suspect identifiers against a reference
// corpus of known-bad indicators.
type FraudMatcher interface {
	DetectFraudPatterns(ctx context.Context, suspect *models.SuspectDetails, knownIndicators string) (*models.FraudPatternResult, error)
}

// Stages bundles the four analysis stage clients the pipeline drives.
type Stages struct {
	Translator Translator
	Triage     TriageClassifier
	Escalation EscalationAdvisor
	Fraud      FraudMatcher
}

// analysisStages adapts the Analysis Service HTTP client to the stage
// interfaces.
type analysisStages struct {
	client *analysis_client.Client
}

// NewAnalysisStages wires all four stages to the external analysis service.
func NewAnalysisStages(client *analysis_client.Client) *Stages {
	a := &analysisStages{client: client}
	return &Stages{Translator: a, Triage: a, Escalation: a, Fraud: a}
}

func (a *analysisStages) Translate(ctx context.Context, text, targetLanguage, sourceLanguage string) (*TranslationResult, error) {
	resp, err := a.client.Translate(ctx, &analysis_client.TranslateRequest{
		Text:           text,
		TargetLanguage: targetLanguage,
		SourceLanguage: sourceLanguage,
	})
	if err != nil {
		return nil, err
	}
	return &TranslationResult{
		TranslatedText:         resp.TranslatedText,
		DetectedSourceLanguage: resp.DetectedSourceLanguage,
	}, nil
}

func (a *analysisStages) Triage(ctx context.Context, text string, reportType models.ReportType) (*models.TriageResult, error) {
	resp, err := a.client.Triage(ctx, &analysis_client.TriageRequest{
		ReportText: text,
		ReportType: string(reportType),
	})
	if err != nil {
		return nil, err
	}
	return &models.TriageResult{
		Category: resp.Category,
		Urgency:  models.TriageUrgency(resp.Urgency),
		Summary:  resp.Summary,
	}, nil
}

func (a *analysisStages) SuggestEscalation(ctx context.Context, input *EscalationInput) (*EscalationAdvice, error) {
	resp, err := a.client.SuggestEscalation(ctx, &analysis_client.EscalationRequest{
		ReportText:             input.ReportText,
		ReportType:             string(input.ReportType),
		SuspectInfo:            input.SuspectInfo,
		LocationInfo:           input.LocationInfo,
		AdditionalEvidenceText: input.AdditionalEvidenceText,
		TriageCategory:         input.TriageCategory,
		TriageUrgency:          string(input.TriageUrgency),
	})
	if err != nil {
		return nil, err
	}
	return &EscalationAdvice{Target: resp.SuggestedTarget, Reasoning: resp.Reasoning}, nil
}

func (a *analysisStages) DetectFraudPatterns(ctx context.Context, suspect *models.SuspectDetails, knownIndicators string) (*models.FraudPatternResult, error) {
	resp, err := a.client.DetectFraudPatterns(ctx, &analysis_client.FraudPatternsRequest{
		SuspectInfo: analysis_client.SuspectFields{
			Phone:       suspect.Phone,
			Email:       suspect.Email,
			IPAddress:   suspect.IPAddress,
			Website:     suspect.Website,
			BankAccount: suspect.BankAccount,
			OtherInfo:   suspect.OtherInfo,
		},
		KnownIndicators: knownIndicators,
	})
	if err != nil {
		return nil, err
	}
	return &models.FraudPatternResult{
		Detected:   resp.Detected,
		Details:    resp.Details,
		Confidence: resp.Confidence,
	}, nil
}
