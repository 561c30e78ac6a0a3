package analysis_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a client for the Analysis Service API, which hosts the
// language/triage/escalation/fraud models behind a JSON interface.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// TranslateRequest represents a translation request.
type TranslateRequest struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"target_language"`
	SourceLanguage string `json:"source_language,omitempty"`
}

// TranslateResponse represents the translation result.
type TranslateResponse struct {
	TranslatedText         string `json:"translated_text"`
	DetectedSourceLanguage string `json:"detected_source_language,omitempty"`
}

// TriageRequest represents a triage classification request.
type TriageRequest struct {
	ReportText string `json:"report_text"`
	ReportType string `json:"report_type"`
}

// TriageResponse represents the triage classification result.
type TriageResponse struct {
	Category string `json:"category"`
	Urgency  string `json:"urgency"`
	Summary  string `json:"summary"`
}

// EscalationRequest represents an escalation suggestion request.
type EscalationRequest struct {
	ReportText             string `json:"report_text"`
	ReportType             string `json:"report_type"`
	SuspectInfo            string `json:"suspect_info"`
	LocationInfo           string `json:"location_info"`
	AdditionalEvidenceText string `json:"additional_evidence_text"`
	TriageCategory         string `json:"triage_category"`
	TriageUrgency          string `json:"triage_urgency"`
}

// EscalationResponse represents the escalation suggestion result.
type EscalationResponse struct {
	SuggestedTarget string `json:"suggested_target"`
	Reasoning       string `json:"reasoning"`
}

// SuspectFields mirrors the suspect identifiers passed to fraud analysis.
type SuspectFields struct {
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	IPAddress   string `json:"ip_address,omitempty"`
	Website     string `json:"website,omitempty"`
	BankAccount string `json:"bank_account,omitempty"`
	OtherInfo   string `json:"other_info,omitempty"`
}

// FraudPatternsRequest represents a fraud pattern detection request.
type FraudPatternsRequest struct {
	SuspectInfo     SuspectFields `json:"suspect_info"`
	KnownIndicators string        `json:"known_indicators"`
}

// FraudPatternsResponse represents the fraud pattern detection result.
type FraudPatternsResponse struct {
	Detected   bool   `json:"detected"`
	Details    string `json:"details"`
	Confidence string `json:"confidence,omitempty"`
}

// RiskScoreRequest represents a cyber risk self-assessment request.
type RiskScoreRequest struct {
	Answers map[string]string `json:"answers"`
}

// RiskScoreResponse represents the risk assessment result.
type RiskScoreResponse struct {
	Score           int      `json:"score"`
	RiskLevel       string   `json:"risk_level"`
	Recommendations []string `json:"recommendations"`
}

// HealthResponse represents health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewClient creates a new Analysis Service client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Translate translates text into the target language.
func (c *Client) Translate(ctx context.Context, req *TranslateRequest) (*TranslateResponse, error) {
	var result TranslateResponse
	if err := c.post(ctx, "/api/v1/translate", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Triage classifies a report into a category, urgency, and short summary.
func (c *Client) Triage(ctx context.Context, req *TriageRequest) (*TriageResponse, error) {
	var result TriageResponse
	if err := c.post(ctx, "/api/v1/triage", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SuggestEscalation returns the suggested routing target for a report.
func (c *Client) SuggestEscalation(ctx context.Context, req *EscalationRequest) (*EscalationResponse, error) {
	var result EscalationResponse
	if err := c.post(ctx, "/api/v1/escalation", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DetectFraudPatterns compares suspect identifiers against known indicators.
func (c *Client) DetectFraudPatterns(ctx context.Context, req *FraudPatternsRequest) (*FraudPatternsResponse, error) {
	var result FraudPatternsResponse
	if err := c.post(ctx, "/api/v1/fraud-patterns", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RiskScore scores a cyber risk self-assessment questionnaire.
func (c *Client) RiskScore(ctx context.Context, req *RiskScoreRequest) (*RiskScoreResponse, error) {
	var result RiskScoreResponse
	if err := c.post(ctx, "/api/v1/risk-score", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// HealthCheck checks if the analysis service is healthy.
func (c *Client) HealthCheck(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("analysis service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

func (c *Client) post(ctx context.Context, path string, reqBody, result interface{}) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("analysis service returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
