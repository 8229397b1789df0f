package domain

import (
	"fmt"
	"time"
)

// VehicleType classifies the vehicle recorded at a crossing.
type VehicleType string

const (
	VehicleLight     VehicleType = "light"
	VehicleCargo     VehicleType = "cargo"
	VehiclePassenger VehicleType = "passenger"
)

// Valid reports whether v is a known vehicle type.
func (v VehicleType) Valid() bool {
	switch v {
	case VehicleLight, VehicleCargo, VehiclePassenger:
		return true
	}
	return false
}

// ControlPoint is a named border crossing.
type ControlPoint string

const (
	ControlLosLibertadores ControlPoint = "Los Libertadores"
	ControlPehuenche       ControlPoint = "Pehuenche"
	ControlCardenalSamore  ControlPoint = "Cardenal Samoré"
	ControlJama            ControlPoint = "Jama"
	ControlChacalluta      ControlPoint = "Chacalluta"
	ControlColchane        ControlPoint = "Colchane"
)

// ControlPoints lists every known crossing.
var ControlPoints = []ControlPoint{
	ControlLosLibertadores,
	ControlPehuenche,
	ControlCardenalSamore,
	ControlJama,
	ControlChacalluta,
	ControlColchane,
}

// InspectionResult is the outcome of a crossing inspection.
type InspectionResult string

const (
	InspectionApproved InspectionResult = "approved"
	InspectionRejected InspectionResult = "rejected"
	InspectionObserved InspectionResult = "observed"
)

// Valid reports whether r is a known inspection result.
func (r InspectionResult) Valid() bool {
	switch r {
	case InspectionApproved, InspectionRejected, InspectionObserved:
		return true
	}
	return false
}

// RiskLevel is the three-tier risk classification.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Valid reports whether l is a known risk level.
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// CrossingRecord is one historical border-crossing event. Records are
// produced by the record store and never mutated by the engine.
type CrossingRecord struct {
	ID                      string           `json:"id"`
	Timestamp               time.Time        `json:"timestamp"`
	VehicleType             VehicleType      `json:"vehicle_type"`
	OriginCountry           string           `json:"origin_country"`
	ControlPoint            ControlPoint     `json:"control_point"`
	CrossingDurationMinutes int              `json:"crossing_duration_minutes"`
	InspectionResult        InspectionResult `json:"inspection_result"`
	RiskLevel               RiskLevel        `json:"risk_level"`
	InspectorName           string           `json:"inspector_name"`
}

// Validate checks a record before it is written to a store.
func (r CrossingRecord) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("%w: id is required", ErrInvalidRecord)
	case r.Timestamp.IsZero():
		return fmt.Errorf("%w: %s has no timestamp", ErrInvalidRecord, r.ID)
	case r.CrossingDurationMinutes < 0:
		return fmt.Errorf("%w: %s has negative duration", ErrInvalidRecord, r.ID)
	case !r.VehicleType.Valid():
		return fmt.Errorf("%w: %s has vehicle type %q", ErrInvalidRecord, r.ID, r.VehicleType)
	case !r.InspectionResult.Valid():
		return fmt.Errorf("%w: %s has inspection result %q", ErrInvalidRecord, r.ID, r.InspectionResult)
	case !r.RiskLevel.Valid():
		return fmt.Errorf("%w: %s has risk level %q", ErrInvalidRecord, r.ID, r.RiskLevel)
	}
	return nil
}

// RecordFilter bounds a record store query. Nil bounds are open.
type RecordFilter struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Contains reports whether ts falls inside the filter bounds (inclusive).
func (f RecordFilter) Contains(ts time.Time) bool {
	if f.From != nil && ts.Before(*f.From) {
		return false
	}
	if f.To != nil && ts.After(*f.To) {
		return false
	}
	return true
}

// Key returns a stable cache key for the filter's date range.
func (f RecordFilter) Key() string {
	from, to := "-", "-"
	if f.From != nil {
		from = f.From.UTC().Format(time.RFC3339Nano)
	}
	if f.To != nil {
		to = f.To.UTC().Format(time.RFC3339Nano)
	}
	return fmt.Sprintf("%s|%s", from, to)
}

// DocumentStatus is the validity state of a crossing document.
type DocumentStatus string

const (
	DocumentValid   DocumentStatus = "valid"
	DocumentExpired DocumentStatus = "expired"
	DocumentMissing DocumentStatus = "missing"
)

// Document is a document presented with a crossing request.
type Document struct {
	Type       string         `json:"type"`
	Status     DocumentStatus `json:"status"`
	ExpiryDate *time.Time     `json:"expiry_date,omitempty"`
}

// Vehicle describes the vehicle of a crossing request.
type Vehicle struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
	Year  int     `json:"year"`
}

// Cargo describes declared cargo, if any.
type Cargo struct {
	Value float64 `json:"value"`
}

// PreviousInspection is a past inspection outcome for the same vehicle.
type PreviousInspection struct {
	Result InspectionResult `json:"result"`
}

// RiskRequest carries the attributes of a single crossing attempt to score.
type RiskRequest struct {
	Documents           []Document           `json:"documents"`
	Vehicle             Vehicle              `json:"vehicle"`
	Cargo               *Cargo               `json:"cargo,omitempty"`
	Route               string               `json:"route"`
	Time                time.Time            `json:"time"`
	PreviousInspections []PreviousInspection `json:"previous_inspections,omitempty"`
}

// Validate checks the fields a caller must supply. Optional fields are
// never rejected; the scorer falls back to defaults for them.
func (r RiskRequest) Validate() error {
	if r.Time.IsZero() {
		return fmt.Errorf("%w: time is required", ErrInvalidRequest)
	}
	for i, d := range r.Documents {
		switch d.Status {
		case DocumentValid, DocumentExpired, DocumentMissing:
		default:
			return fmt.Errorf("%w: document %d has invalid status %q", ErrInvalidRequest, i, d.Status)
		}
	}
	for i, p := range r.PreviousInspections {
		if p.Result != InspectionApproved && p.Result != InspectionRejected {
			return fmt.Errorf("%w: previous inspection %d has invalid result %q", ErrInvalidRequest, i, p.Result)
		}
	}
	if r.Vehicle.Value < 0 || (r.Cargo != nil && r.Cargo.Value < 0) {
		return fmt.Errorf("%w: values must be non-negative", ErrInvalidRequest)
	}
	return nil
}

// RiskFactors are the five independent sub-scores, each in [0,1].
type RiskFactors struct {
	DocumentStatus    float64 `json:"document_status"`
	VehicleValue      float64 `json:"vehicle_value"`
	InspectionHistory float64 `json:"inspection_history"`
	RouteRisk         float64 `json:"route_risk"`
	TimeFactors       float64 `json:"time_factors"`
}

// RiskAssessment is the scored result for one crossing request.
type RiskAssessment struct {
	Level           RiskLevel   `json:"level"`
	Score           float64     `json:"score"`
	Factors         RiskFactors `json:"factors"`
	Details         []string    `json:"details"`
	Recommendations []string    `json:"recommendations"`
}
