package domain

import "time"

// Severity is the three-tier urgency of an anomaly.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// severityRank is the single ordering table for severities.
var severityRank = map[Severity]int{
	SeverityHigh:   3,
	SeverityMedium: 2,
	SeverityLow:    1,
}

// Rank returns the ordering weight of s. Unknown severities rank 0.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Valid reports whether s is one of the three severities.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// AnomalyType identifies the detector that produced an anomaly.
type AnomalyType string

const (
	AnomalyCrossingTime         AnomalyType = "crossing_time"
	AnomalyRiskConcentration    AnomalyType = "risk_concentration"
	AnomalyInspectorPerformance AnomalyType = "inspector_performance"
	AnomalyCustomsRisk          AnomalyType = "customs_risk"
)

// AnomalyTypes lists the detector outputs in the order they run.
var AnomalyTypes = []AnomalyType{
	AnomalyCrossingTime,
	AnomalyRiskConcentration,
	AnomalyInspectorPerformance,
	AnomalyCustomsRisk,
}

// Anomaly is a detected deviation from operational norms, surfaced for
// human review. Description and Recommendation embed the literal evidence.
type Anomaly struct {
	ID             string         `json:"id"`
	Type           AnomalyType    `json:"type"`
	Severity       Severity       `json:"severity"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Timestamp      time.Time      `json:"timestamp"`
	RelatedID      string         `json:"related_id,omitempty"`
	Recommendation string         `json:"recommendation"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// AnomalySummary counts anomalies for dashboard badges.
type AnomalySummary struct {
	Total      int                 `json:"total"`
	BySeverity map[Severity]int    `json:"by_severity"`
	ByType     map[AnomalyType]int `json:"by_type"`
	Records    int                 `json:"records_scanned"`
	DetectedAt time.Time           `json:"detected_at"`
}
