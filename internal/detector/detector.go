// Package detector scans batches of crossing records for operational
// anomalies. Every detector is stateless: it reads the batch, never mutates
// it, and returns freshly built anomalies stamped with the evaluation time.
package detector

import (
	"sort"
	"time"

	"github.com/frontera-ops/crossing-risk/internal/domain"
	"github.com/frontera-ops/crossing-risk/internal/idgen"
)

// Detection thresholds.
const (
	MaxCrossingMinutes = 150

	ConcentrationWindow   = 60 * time.Minute
	MaxHighRiskInWindow   = 3
	CustomsRiskLookback   = 7 * 24 * time.Hour
	MinInspectorSample    = 10
	MaxInspectorRejection = 0.30
)

const idPrefix = "anm_"

// RequestBuilder derives a risk request from a stored crossing record.
type RequestBuilder func(domain.CrossingRecord) domain.RiskRequest

// Detector runs the anomaly rules against a record batch.
type Detector struct {
	now          func() time.Time
	buildRequest RequestBuilder
	loc          *time.Location
}

// Option configures a Detector.
type Option func(*Detector)

// WithClock overrides the evaluation clock.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) { d.now = now }
}

// WithRequestBuilder overrides how records are turned into risk requests
// for the customs-risk rule.
func WithRequestBuilder(b RequestBuilder) Option {
	return func(d *Detector) { d.buildRequest = b }
}

// WithLocation sets the time zone record timestamps are read in before
// scoring, so the hour and weekday factors follow local border time.
func WithLocation(loc *time.Location) Option {
	return func(d *Detector) {
		if loc != nil {
			d.loc = loc
		}
	}
}

// New creates a Detector using the wall clock, UTC and RequestFromRecord.
func New(opts ...Option) *Detector {
	d := &Detector{
		now:          time.Now,
		buildRequest: RequestFromRecord,
		loc:          time.UTC,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run applies every rule to the same batch, in the fixed order crossing
// time, risk concentration, inspector performance, customs risk, and
// returns the results ranked by severity. All rules share one evaluation
// instant.
func (d *Detector) Run(records []domain.CrossingRecord) []domain.Anomaly {
	now := d.now()
	var all []domain.Anomaly
	all = append(all, d.crossingTime(records, now)...)
	all = append(all, d.riskConcentration(records, now)...)
	all = append(all, d.inspectorPerformance(records, now)...)
	all = append(all, d.customsRisk(records, now)...)
	Rank(all)
	return all
}

// Rank sorts anomalies by severity, highest first. Equal severities keep
// their relative order.
func Rank(anomalies []domain.Anomaly) {
	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].Severity.Rank() > anomalies[j].Severity.Rank()
	})
}

func (d *Detector) newAnomaly(t domain.AnomalyType, sev domain.Severity, at time.Time) domain.Anomaly {
	return domain.Anomaly{
		ID:        idgen.WithPrefix(idPrefix),
		Type:      t,
		Severity:  sev,
		Timestamp: at,
	}
}
