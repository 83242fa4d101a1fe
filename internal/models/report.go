package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func ParseSeverity(s string) (Severity, error) {
	switch sev := Severity(strings.ToLower(strings.TrimSpace(s))); sev {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return sev, nil
	default:
		return "", fmt.Errorf("invalid severity %q", s)
	}
}

// Label is the badge text shown on a report, e.g. "High Severity".
func (s Severity) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:]) + " Severity"
}

// Issue is one finding of an analysis. Probability is in [0,1].
type Issue struct {
	Type        string  `json:"type"`
	Probability float64 `json:"probability"`
	Description string  `json:"description"`
}

// Percent returns the probability as a rounded whole percentage.
func (i Issue) Percent() int {
	p := math.Max(0, math.Min(1, i.Probability))
	return int(math.Round(p * 100))
}

type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Report is a backend-owned record summarizing one skin-image analysis.
type Report struct {
	ID              string           `json:"id"`
	Date            time.Time        `json:"date"`
	SkinType        string           `json:"skinType"`
	ImageURL        string           `json:"imageUrl,omitempty"`
	Thumbnail       string           `json:"thumbnail,omitempty"`
	Issues          []Issue          `json:"issues"`
	Recommendations []Recommendation `json:"recommendations"`
	PatientID       string           `json:"patientId,omitempty"`
	PatientName     string           `json:"patientName,omitempty"`
	DoctorName      string           `json:"doctorName,omitempty"`
	Condition       string           `json:"condition,omitempty"`
	Diagnosis       string           `json:"diagnosis,omitempty"`
	Treatment       string           `json:"treatment,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	Severity        Severity         `json:"severity,omitempty"`
}

// ReportFilter narrows GET /reports. Zero fields are omitted from the query.
type ReportFilter struct {
	PatientID string
	Severity  Severity
	From      time.Time
	To        time.Time
}

// AnalysisResult is the body returned by POST /analyze.
type AnalysisResult struct {
	ID              string           `json:"id,omitempty"`
	SkinType        string           `json:"skinType"`
	Issues          []Issue          `json:"issues"`
	Recommendations []Recommendation `json:"recommendations"`
	ImageURL        string           `json:"imageUrl,omitempty"`
}
