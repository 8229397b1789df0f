package detector

import (
	"fmt"
	"time"

	"github.com/frontera-ops/crossing-risk/internal/domain"
	"github.com/frontera-ops/crossing-risk/internal/risk"
)

// CrossingTime emits one medium anomaly per record whose crossing took
// longer than MaxCrossingMinutes.
func (d *Detector) CrossingTime(records []domain.CrossingRecord) []domain.Anomaly {
	return d.crossingTime(records, d.now())
}

func (d *Detector) crossingTime(records []domain.CrossingRecord, now time.Time) []domain.Anomaly {
	var out []domain.Anomaly
	for _, r := range records {
		if r.CrossingDurationMinutes <= MaxCrossingMinutes {
			continue
		}
		a := d.newAnomaly(domain.AnomalyCrossingTime, domain.SeverityMedium, now)
		a.Title = "Excessive crossing time"
		a.Description = fmt.Sprintf("%s vehicle at %s took %d minutes to cross (limit %d minutes)",
			r.VehicleType, r.ControlPoint, r.CrossingDurationMinutes, MaxCrossingMinutes)
		a.RelatedID = r.ID
		a.Recommendation = fmt.Sprintf("Review crossing record %s for processing delays", r.ID)
		out = append(out, a)
	}
	return out
}

// RiskConcentration emits at most one high anomaly when more than
// MaxHighRiskInWindow high-risk crossings happened in the last hour.
func (d *Detector) RiskConcentration(records []domain.CrossingRecord) []domain.Anomaly {
	return d.riskConcentration(records, d.now())
}

func (d *Detector) riskConcentration(records []domain.CrossingRecord, now time.Time) []domain.Anomaly {
	cutoff := now.Add(-ConcentrationWindow)

	count := 0
	for _, r := range records {
		if r.RiskLevel == domain.RiskHigh && r.Timestamp.After(cutoff) && !r.Timestamp.After(now) {
			count++
		}
	}
	if count <= MaxHighRiskInWindow {
		return nil
	}

	a := d.newAnomaly(domain.AnomalyRiskConcentration, domain.SeverityHigh, now)
	a.Title = "High-risk crossing concentration"
	a.Description = fmt.Sprintf("%d high-risk crossings recorded in the last %d minutes (limit %d)",
		count, int(ConcentrationWindow.Minutes()), MaxHighRiskInWindow)
	a.Recommendation = "Increase inspection staffing at active control points"
	a.Metadata = map[string]any{"count": count}
	return []domain.Anomaly{a}
}

type inspectorStats struct {
	name     string
	total    int
	rejected int
}

// InspectorPerformance emits a low anomaly for every inspector with more
// than MinInspectorSample inspections and a rejection rate above
// MaxInspectorRejection. Inspectors are reported in first-seen order.
func (d *Detector) InspectorPerformance(records []domain.CrossingRecord) []domain.Anomaly {
	return d.inspectorPerformance(records, d.now())
}

func (d *Detector) inspectorPerformance(records []domain.CrossingRecord, now time.Time) []domain.Anomaly {

	index := make(map[string]int)
	var stats []*inspectorStats
	for _, r := range records {
		i, ok := index[r.InspectorName]
		if !ok {
			i = len(stats)
			index[r.InspectorName] = i
			stats = append(stats, &inspectorStats{name: r.InspectorName})
		}
		stats[i].total++
		if r.InspectionResult == domain.InspectionRejected {
			stats[i].rejected++
		}
	}

	var out []domain.Anomaly
	for _, s := range stats {
		if s.total <= MinInspectorSample {
			continue
		}
		rate := float64(s.rejected) / float64(s.total)
		if rate <= MaxInspectorRejection {
			continue
		}
		a := d.newAnomaly(domain.AnomalyInspectorPerformance, domain.SeverityLow, now)
		a.Title = "Inspector rejection rate outlier"
		a.Description = fmt.Sprintf("Inspector %s rejected %.1f%% of %d inspections",
			s.name, rate*100, s.total)
		a.RelatedID = s.name
		a.Recommendation = fmt.Sprintf("Schedule a procedure review with inspector %s", s.name)
		a.Metadata = map[string]any{"rejected": s.rejected, "total": s.total}
		out = append(out, a)
	}
	return out
}

// CustomsRisk scores every record in (now-CustomsRiskLookback, now] and
// emits a high anomaly for each one assessed as high risk. Timestamps are
// read in the detector's location before scoring.
func (d *Detector) CustomsRisk(records []domain.CrossingRecord) []domain.Anomaly {
	return d.customsRisk(records, d.now())
}

func (d *Detector) customsRisk(records []domain.CrossingRecord, now time.Time) []domain.Anomaly {
	cutoff := now.Add(-CustomsRiskLookback)

	var out []domain.Anomaly
	for _, r := range records {
		if !r.Timestamp.After(cutoff) || r.Timestamp.After(now) {
			continue
		}
		r.Timestamp = r.Timestamp.In(d.loc)
		assessment := risk.Assess(d.buildRequest(r))
		if assessment.Level != domain.RiskHigh {
			continue
		}
		a := d.newAnomaly(domain.AnomalyCustomsRisk, domain.SeverityHigh, now)
		a.Title = "High customs risk"
		a.Description = fmt.Sprintf("Crossing %s of %s vehicle at %s scored %.2f",
			r.ID, r.VehicleType, r.ControlPoint, assessment.Score)
		a.RelatedID = r.ID
		a.Recommendation = assessment.Recommendations[0]
		a.Metadata = map[string]any{
			"riskScore": assessment.Score,
			"factors":   assessment.Factors,
		}
		out = append(out, a)
	}
	return out
}

// RequestFromRecord builds the default risk request for a stored record:
// a single valid placeholder document, the record's vehicle type, the
// control point as route, the record timestamp, and no prior inspections.
func RequestFromRecord(r domain.CrossingRecord) domain.RiskRequest {
	return domain.RiskRequest{
		Documents: []domain.Document{{Type: "crossing_record", Status: domain.DocumentValid}},
		Vehicle:   domain.Vehicle{Type: string(r.VehicleType)},
		Route:     string(r.ControlPoint),
		Time:      r.Timestamp,
	}
}
