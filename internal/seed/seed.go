// Package seed builds a deterministic set of crossing records for local
// development and demos. The set is anchored to a reference time so the
// time-windowed detectors always have something to find.
package seed

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frontera-ops/crossing-risk/internal/domain"
	"github.com/frontera-ops/crossing-risk/internal/storage"
)

var (
	countries  = []string{"Argentina", "Bolivia", "Peru", "Brazil", "Paraguay"}
	inspectors = []string{
		"Ana Torres", "Pedro Soto", "Camila Reyes", "Luis Araya",
		"Valentina Muñoz", "Diego Castro", "Francisca Vera", "Tomás Herrera",
	}
	vehicleTypes = []domain.VehicleType{domain.VehicleLight, domain.VehicleCargo, domain.VehiclePassenger}
)

// OutlierInspector is the inspector whose rejection rate the fixture sets
// above the review threshold.
const OutlierInspector = "Jorge Fuentes"

// Records returns ~150 crossing records relative to now:
//   - 120 routine crossings spread over the last week
//   - 5 crossings that took longer than the processing limit
//   - 5 high-risk crossings inside the last hour
//   - 14 inspections by OutlierInspector, 6 of them rejected
//   - 10 crossings older than a week
func Records(now time.Time) []domain.CrossingRecord {
	now = now.UTC().Truncate(time.Second)
	var out []domain.CrossingRecord
	seq := 0
	add := func(r domain.CrossingRecord) {
		seq++
		r.ID = fmt.Sprintf("CR-%04d", seq)
		out = append(out, r)
	}

	// Routine crossings
	for i := 0; i < 120; i++ {
		r := domain.CrossingRecord{
			Timestamp:               now.Add(-2*time.Hour - time.Duration(i*83)*time.Minute),
			VehicleType:             vehicleTypes[i%len(vehicleTypes)],
			OriginCountry:           countries[i%len(countries)],
			ControlPoint:            domain.ControlPoints[i%len(domain.ControlPoints)],
			CrossingDurationMinutes: 20 + (i*37)%110,
			InspectionResult:        domain.InspectionApproved,
			RiskLevel:               domain.RiskLow,
			InspectorName:           inspectors[i%len(inspectors)],
		}
		switch {
		case i%13 == 0:
			r.InspectionResult = domain.InspectionRejected
		case i%9 == 0:
			r.InspectionResult = domain.InspectionObserved
		}
		switch {
		case i%17 == 0:
			r.RiskLevel = domain.RiskHigh
		case i%7 == 0:
			r.RiskLevel = domain.RiskMedium
		}
		add(r)
	}

	// Slow crossings
	for i, minutes := range []int{165, 190, 210, 240, 300} {
		add(domain.CrossingRecord{
			Timestamp:               now.Add(-time.Duration(6+i*11) * time.Hour),
			VehicleType:             domain.VehicleCargo,
			OriginCountry:           countries[i%len(countries)],
			ControlPoint:            domain.ControlLosLibertadores,
			CrossingDurationMinutes: minutes,
			InspectionResult:        domain.InspectionObserved,
			RiskLevel:               domain.RiskMedium,
			InspectorName:           inspectors[i%len(inspectors)],
		})
	}

	// High-risk burst in the last hour
	for i := 0; i < 5; i++ {
		cp := domain.ControlChacalluta
		if i%2 == 1 {
			cp = domain.ControlColchane
		}
		add(domain.CrossingRecord{
			Timestamp:               now.Add(-time.Duration(5+i*10) * time.Minute),
			VehicleType:             domain.VehicleCargo,
			OriginCountry:           "Bolivia",
			ControlPoint:            cp,
			CrossingDurationMinutes: 60 + i*7,
			InspectionResult:        domain.InspectionObserved,
			RiskLevel:               domain.RiskHigh,
			InspectorName:           inspectors[(i+3)%len(inspectors)],
		})
	}

	// Rejection-rate outlier
	for i := 0; i < 14; i++ {
		result := domain.InspectionApproved
		if i%7 < 3 {
			result = domain.InspectionRejected
		}
		add(domain.CrossingRecord{
			Timestamp:               now.Add(-time.Duration(30+i*7) * time.Hour),
			VehicleType:             vehicleTypes[i%len(vehicleTypes)],
			OriginCountry:           countries[(i+2)%len(countries)],
			ControlPoint:            domain.ControlJama,
			CrossingDurationMinutes: 35 + i*3,
			InspectionResult:        result,
			RiskLevel:               domain.RiskMedium,
			InspectorName:           OutlierInspector,
		})
	}

	// Historical crossings outside the customs lookback
	for i := 0; i < 10; i++ {
		add(domain.CrossingRecord{
			Timestamp:               now.AddDate(0, 0, -(10 + i)),
			VehicleType:             vehicleTypes[i%len(vehicleTypes)],
			OriginCountry:           countries[i%len(countries)],
			ControlPoint:            domain.ControlPoints[(i+1)%len(domain.ControlPoints)],
			CrossingDurationMinutes: 25 + i*4,
			InspectionResult:        domain.InspectionApproved,
			RiskLevel:               domain.RiskLow,
			InspectorName:           inspectors[(i+5)%len(inspectors)],
		})
	}

	return out
}

// Load writes Records(now) to repo. Records that already exist are skipped.
func Load(ctx context.Context, repo storage.Repository, now time.Time) (int, error) {
	records := Records(now)
	if err := repo.InsertCrossings(ctx, records); err != nil {
		return 0, fmt.Errorf("seed crossings: %w", err)
	}
	return len(records), nil
}

// GenerateSQL renders Records(now) as a single INSERT transaction.
func GenerateSQL(now time.Time) string {
	var b strings.Builder
	b.WriteString("BEGIN;\n")
	for _, r := range Records(now) {
		b.WriteString("INSERT INTO crossing_records (id, ts, vehicle_type, origin_country, control_point, duration_minutes, inspection_result, risk_level, inspector_name) VALUES (")
		b.WriteString(quote(r.ID) + ", ")
		b.WriteString(quote(r.Timestamp.Format(time.RFC3339)) + ", ")
		b.WriteString(quote(string(r.VehicleType)) + ", ")
		b.WriteString(quote(r.OriginCountry) + ", ")
		b.WriteString(quote(string(r.ControlPoint)) + ", ")
		b.WriteString(strconv.Itoa(r.CrossingDurationMinutes) + ", ")
		b.WriteString(quote(string(r.InspectionResult)) + ", ")
		b.WriteString(quote(string(r.RiskLevel)) + ", ")
		b.WriteString(quote(r.InspectorName))
		b.WriteString(") ON CONFLICT (id) DO NOTHING;\n")
	}
	b.WriteString("COMMIT;\n")
	return b.String()
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
