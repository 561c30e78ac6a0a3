package report_processor

import (
	"fmt"
	"os"
)

// defaultKnownIndicators is the reference corpus of known-bad identifiers used
// by fraud pattern analysis when no corpus file is configured. A real
// deployment feeds this from a threat intelligence pipeline.
const defaultKnownIndicators = `Known scammer emails: danger@scamdomain.com, phisher@fakebank.org, urgent@verify-account.net
Known scam phone numbers: +911234500000, +18005551001
Suspicious IP addresses: 10.0.0.1 (internal, likely a mistake if reported), 203.0.113.45
Flagged bank accounts: 12345678900 (Generic Bank), 98765432100 (Another Bank)
Website patterns: sites ending in .xyz, .top, .live that ask for credentials; sites impersonating official government portals with slight misspellings.
Other suspicious info: "Received SMS asking to click link to update KYC", "Job offer asking for upfront payment via UPI to unofficial ID"`

// LoadKnownIndicators returns the fraud indicator corpus, reading it from
// path when one is configured and falling back to the built-in corpus
// otherwise.
func LoadKnownIndicators(path string) (string, error) {
	if path == "" {
		return defaultKnownIndicators, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read fraud indicators file: %w", err)
	}
	return string(data), nil
}
