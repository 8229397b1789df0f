package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontera-ops/crossing-risk/internal/domain"
)

// Wednesday, 12:00 local to the fixture zone.
var weekdayNoon = time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)

func lowRiskRequest() domain.RiskRequest {
	expiry := weekdayNoon.AddDate(1, 0, 0)
	return domain.RiskRequest{
		Documents: []domain.Document{
			{Type: "passport", Status: domain.DocumentValid, ExpiryDate: &expiry},
			{Type: "vehicle_registration", Status: domain.DocumentValid},
		},
		Vehicle: domain.Vehicle{Type: "car", Value: 15000, Year: 2019},
		Route:   string(domain.ControlLosLibertadores),
		Time:    weekdayNoon,
	}
}

func TestAssess_LowRiskRoundTrip(t *testing.T) {
	a := Assess(lowRiskRequest())

	assert.Equal(t, domain.RiskLow, a.Level)
	assert.InDelta(t, 0.19, a.Score, 1e-9)
	assert.Empty(t, a.Details)
	require.Len(t, a.Recommendations, 1)
	assert.Equal(t, "Standard review", a.Recommendations[0])
}

func TestAssess_Deterministic(t *testing.T) {
	req := lowRiskRequest()
	req.PreviousInspections = []domain.PreviousInspection{
		{Result: domain.InspectionRejected},
		{Result: domain.InspectionApproved},
	}
	assert.Equal(t, Assess(req), Assess(req))
}

func TestAssess_HighRisk(t *testing.T) {
	night := time.Date(2026, 3, 11, 23, 0, 0, 0, time.UTC)
	req := domain.RiskRequest{
		Documents: []domain.Document{
			{Type: "passport", Status: domain.DocumentValid},
			{Type: "customs_declaration", Status: domain.DocumentMissing},
		},
		Vehicle: domain.Vehicle{Type: "Truck", Value: 60000, Year: 2012},
		Cargo:   &domain.Cargo{Value: 250000},
		Route:   "Ruta 11 - Chacalluta",
		Time:    night,
		PreviousInspections: []domain.PreviousInspection{
			{Result: domain.InspectionRejected},
			{Result: domain.InspectionRejected},
			{Result: domain.InspectionApproved},
		},
	}

	a := Assess(req)

	assert.Equal(t, 1.0, a.Factors.DocumentStatus)
	assert.Equal(t, 1.0, a.Factors.VehicleValue)
	assert.InDelta(t, 1.0, a.Factors.InspectionHistory, 1e-9)
	assert.Equal(t, 0.9, a.Factors.RouteRisk)
	assert.Equal(t, 0.2, a.Factors.TimeFactors)
	// 0.30 + 0.25 + 0.20 + 0.135 + 0.02
	assert.InDelta(t, 0.905, a.Score, 1e-9)
	assert.Equal(t, domain.RiskHigh, a.Level)

	assert.Equal(t, []string{
		"Documentation expired or missing",
		"High-value vehicle or cargo",
		"History of observations in previous inspections",
		"Route with a record of incidents",
	}, a.Details)
	require.NotEmpty(t, a.Recommendations)
	assert.Equal(t, "Mandatory physical inspection", a.Recommendations[0])
	assert.Equal(t, "Notify the shift supervisor", a.Recommendations[len(a.Recommendations)-1])
}

func TestAssess_MediumRisk(t *testing.T) {
	req := lowRiskRequest()
	req.Documents[1].Status = domain.DocumentExpired

	a := Assess(req)

	// 0.24 + 0.05 + 0.06 + 0.03 + 0.02
	assert.InDelta(t, 0.40, a.Score, 1e-9)
	assert.Equal(t, domain.RiskMedium, a.Level)
	assert.Equal(t, "Detailed document review recommended", a.Recommendations[0])
	assert.NotContains(t, a.Recommendations, "Notify the shift supervisor")
}

func TestLevelFor_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.RiskLevel
	}{
		{0.0, domain.RiskLow},
		{0.3, domain.RiskLow},
		{0.3001, domain.RiskMedium},
		{0.5, domain.RiskMedium},
		{0.7, domain.RiskMedium},
		{0.7001, domain.RiskHigh},
		{1.0, domain.RiskHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelFor(tt.score), "score %v", tt.score)
	}
}

// historyRequest is a missing-document truck on an ordinary route at weekday
// noon: 0.3 + 0.2 + 0.03 + 0.02 plus 0.2 * inspection history.
func historyRequest(rejected, total int) domain.RiskRequest {
	history := make([]domain.PreviousInspection, total)
	for i := range history {
		history[i].Result = domain.InspectionApproved
		if i < rejected {
			history[i].Result = domain.InspectionRejected
		}
	}
	return domain.RiskRequest{
		Documents:           []domain.Document{{Type: "passport", Status: domain.DocumentMissing}},
		Vehicle:             domain.Vehicle{Type: "truck"},
		Route:               string(domain.ControlLosLibertadores),
		Time:                weekdayNoon,
		PreviousInspections: history,
	}
}

func TestAssess_HairAboveHighThreshold(t *testing.T) {
	a := Assess(historyRequest(5001, 10000))

	assert.Greater(t, a.Score, HighThreshold)
	assert.InDelta(t, 0.70003, a.Score, 1e-9)
	assert.Equal(t, domain.RiskHigh, a.Level)
}

func TestAssess_ExactHighThresholdStaysMedium(t *testing.T) {
	a := Assess(historyRequest(1, 2))

	assert.Equal(t, HighThreshold, a.Score)
	assert.Equal(t, domain.RiskMedium, a.Level)
}

func TestDocumentStatusFactor(t *testing.T) {
	soon := weekdayNoon.AddDate(0, 0, 10)
	later := weekdayNoon.AddDate(0, 0, 31)

	tests := []struct {
		name string
		docs []domain.Document
		want float64
	}{
		{"no documents", nil, 0.1},
		{"all valid", []domain.Document{{Status: domain.DocumentValid, ExpiryDate: &later}}, 0.1},
		{"near expiry", []domain.Document{{Status: domain.DocumentValid, ExpiryDate: &soon}}, 0.5},
		{"expired wins over near expiry", []domain.Document{
			{Status: domain.DocumentValid, ExpiryDate: &soon},
			{Status: domain.DocumentExpired},
		}, 0.8},
		{"missing wins over expired", []domain.Document{
			{Status: domain.DocumentExpired},
			{Status: domain.DocumentMissing},
		}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, documentStatusFactor(tt.docs, weekdayNoon))
		})
	}
}

func TestVehicleValueFactor(t *testing.T) {
	tests := []struct {
		name    string
		vehicle domain.Vehicle
		cargo   *domain.Cargo
		want    float64
	}{
		{"truck", domain.Vehicle{Type: "truck"}, nil, 0.8},
		{"motorcycle", domain.Vehicle{Type: "motorcycle"}, nil, 0.1},
		{"unknown type", domain.Vehicle{Type: "cargo"}, nil, 0.5},
		{"van over 50k", domain.Vehicle{Type: "van", Value: 50001}, nil, 0.8},
		{"exactly 50k is not raised", domain.Vehicle{Type: "car", Value: 50000}, nil, 0.2},
		{"cargo value over 100k", domain.Vehicle{Type: "pickup", Value: 10000}, &domain.Cargo{Value: 100001}, 0.8},
		{"clamped", domain.Vehicle{Type: "truck", Value: 200000}, nil, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, vehicleValueFactor(tt.vehicle, tt.cargo), 1e-9)
		})
	}
}

func TestInspectionHistoryFactor(t *testing.T) {
	assert.Equal(t, 0.3, inspectionHistoryFactor(nil), "missing history is moderate, not zero")

	approved := []domain.PreviousInspection{{Result: domain.InspectionApproved}, {Result: domain.InspectionApproved}}
	assert.Equal(t, 0.0, inspectionHistoryFactor(approved))

	oneInFour := []domain.PreviousInspection{
		{Result: domain.InspectionRejected},
		{Result: domain.InspectionApproved},
		{Result: domain.InspectionApproved},
		{Result: domain.InspectionApproved},
	}
	assert.InDelta(t, 0.375, inspectionHistoryFactor(oneInFour), 1e-9)

	allRejected := []domain.PreviousInspection{{Result: domain.InspectionRejected}}
	assert.Equal(t, 1.0, inspectionHistoryFactor(allRejected))
}

func TestRouteRiskFactor(t *testing.T) {
	at := func(hour int) time.Time { return time.Date(2026, 3, 11, hour, 30, 0, 0, time.UTC) }

	assert.Equal(t, 0.2, routeRiskFactor("Pehuenche", at(23)))
	assert.Equal(t, 0.2, routeRiskFactor("", at(23)))
	assert.Equal(t, 0.7, routeRiskFactor("jama", at(12)))
	assert.Equal(t, 0.9, routeRiskFactor("Paso Jama", at(22)))
	assert.Equal(t, 0.9, routeRiskFactor("COLCHANE", at(6)))
	assert.Equal(t, 0.7, routeRiskFactor("Colchane", at(7)))
}

func TestTimeFactor(t *testing.T) {
	saturday := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 0.7, timeFactor(saturday))
	assert.Equal(t, 0.7, timeFactor(saturday.AddDate(0, 0, 1)))

	day := func(hour int) time.Time { return time.Date(2026, 3, 11, hour, 0, 0, 0, time.UTC) }
	assert.Equal(t, 0.6, timeFactor(day(7)))
	assert.Equal(t, 0.6, timeFactor(day(9)))
	assert.Equal(t, 0.2, timeFactor(day(10)))
	assert.Equal(t, 0.6, timeFactor(day(17)))
	assert.Equal(t, 0.6, timeFactor(day(20)))
	assert.Equal(t, 0.2, timeFactor(day(21)))
}

func TestAssess_MissingOptionalData(t *testing.T) {
	a := Assess(domain.RiskRequest{Time: weekdayNoon})

	assert.Equal(t, 0.1, a.Factors.DocumentStatus)
	assert.Equal(t, 0.5, a.Factors.VehicleValue)
	assert.Equal(t, 0.3, a.Factors.InspectionHistory)
	assert.Equal(t, domain.RiskLow, a.Level)
}

func TestAssess_NearExpiryDetail(t *testing.T) {
	req := lowRiskRequest()
	soon := weekdayNoon.AddDate(0, 0, 5)
	req.Documents[0].ExpiryDate = &soon

	a := Assess(req)

	assert.Contains(t, a.Details, "Documentation close to expiry (within 30 days)")
	assert.Contains(t, a.Recommendations, "Verify document validity dates")
}
