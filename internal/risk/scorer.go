package risk

import (
	"math"
	"strings"
	"time"

	"github.com/frontera-ops/crossing-risk/internal/domain"
)

// Assess scores a crossing request. It is a pure function of req: the
// request time is the reference for document expiry, route and schedule
// checks. Missing optional data falls back to documented defaults.
func Assess(req domain.RiskRequest) domain.RiskAssessment {
	factors := domain.RiskFactors{
		DocumentStatus:    documentStatusFactor(req.Documents, req.Time),
		VehicleValue:      vehicleValueFactor(req.Vehicle, req.Cargo),
		InspectionHistory: inspectionHistoryFactor(req.PreviousInspections),
		RouteRisk:         routeRiskFactor(req.Route, req.Time),
		TimeFactors:       timeFactor(req.Time),
	}

	score := factors.DocumentStatus*weightDocumentStatus +
		factors.VehicleValue*weightVehicleValue +
		factors.InspectionHistory*weightInspectionHistory +
		factors.RouteRisk*weightRouteRisk +
		factors.TimeFactors*weightTimeFactors

	// Strip float noise such as 0.30000000000000004 without moving real
	// sums across a threshold.
	score = math.Round(score*noiseScale) / noiseScale
	level := LevelFor(score)

	details, recommendations := explain(factors, level)

	return domain.RiskAssessment{
		Level:           level,
		Score:           score,
		Factors:         factors,
		Details:         details,
		Recommendations: recommendations,
	}
}

// LevelFor maps a score to its tier. A score exactly on a threshold
// belongs to the lower tier.
func LevelFor(score float64) domain.RiskLevel {
	switch {
	case score > HighThreshold:
		return domain.RiskHigh
	case score > MediumThreshold:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// documentStatusFactor: missing = 1.0, expired = 0.8, valid but expiring
// within 30 days of now = 0.5, otherwise 0.1.
func documentStatusFactor(docs []domain.Document, now time.Time) float64 {
	var expired, nearExpiry bool
	for _, d := range docs {
		switch d.Status {
		case domain.DocumentMissing:
			return 1.0
		case domain.DocumentExpired:
			expired = true
		case domain.DocumentValid:
			if d.ExpiryDate != nil && d.ExpiryDate.Sub(now) <= expiryWarningWindow {
				nearExpiry = true
			}
		}
	}
	switch {
	case expired:
		return 0.8
	case nearExpiry:
		return 0.5
	default:
		return 0.1
	}
}

// vehicleValueFactor: base risk by vehicle type, raised by the higher of
// the cargo and vehicle value.
func vehicleValueFactor(v domain.Vehicle, cargo *domain.Cargo) float64 {
	base, ok := baseVehicleRisk[strings.ToLower(strings.TrimSpace(v.Type))]
	if !ok {
		base = defaultVehicleRisk
	}

	value := v.Value
	if cargo != nil && cargo.Value > value {
		value = cargo.Value
	}

	switch {
	case value > highValueLimit:
		base += 0.4
	case value > mediumValueLimit:
		base += 0.2
	}
	return math.Min(base, 1.0)
}

// inspectionHistoryFactor: unknown history is moderate risk, not zero.
func inspectionHistoryFactor(history []domain.PreviousInspection) float64 {
	if len(history) == 0 {
		return unknownHistoryRisk
	}
	rejected := 0
	for _, p := range history {
		if p.Result == domain.InspectionRejected {
			rejected++
		}
	}
	rate := float64(rejected) / float64(len(history))
	return math.Min(1.0, rate*rejectionMultiplier)
}

// routeRiskFactor: 0.2 for ordinary routes; high-risk routes score 0.9 at
// night (22:00-06:59) and 0.7 otherwise.
func routeRiskFactor(route string, at time.Time) float64 {
	if !isHighRiskRoute(route) {
		return 0.2
	}
	hour := at.Hour()
	if hour >= 22 || hour <= 6 {
		return 0.9
	}
	return 0.7
}

func isHighRiskRoute(route string) bool {
	r := strings.ToLower(route)
	if r == "" {
		return false
	}
	for _, hr := range highRiskRoutes {
		if strings.Contains(r, strings.ToLower(hr)) {
			return true
		}
	}
	return false
}

// timeFactor: weekends 0.7, weekday peak hours 0.6, otherwise 0.2.
func timeFactor(at time.Time) float64 {
	switch at.Weekday() {
	case time.Saturday, time.Sunday:
		return 0.7
	}
	hour := at.Hour()
	if (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 20) {
		return 0.6
	}
	return 0.2
}

// explain turns factor values into ordered observations and actions. The
// level directive always leads the recommendations.
func explain(f domain.RiskFactors, level domain.RiskLevel) ([]string, []string) {
	details := []string{}
	recommendations := []string{levelDirective(level)}

	add := func(detail, recommendation string) {
		details = append(details, detail)
		recommendations = append(recommendations, recommendation)
	}

	switch {
	case f.DocumentStatus > 0.7:
		add("Documentation expired or missing", "Request updated documentation before clearance")
	case f.DocumentStatus > 0.4:
		add("Documentation close to expiry (within 30 days)", "Verify document validity dates")
	}
	if f.VehicleValue > 0.7 {
		add("High-value vehicle or cargo", "Verify declared value against commercial invoices")
	}
	if f.InspectionHistory > 0.6 {
		add("History of observations in previous inspections", "Review prior inspection reports for this vehicle")
	}
	if f.RouteRisk > 0.6 {
		add("Route with a record of incidents", "Apply reinforced controls for this route")
	}
	if f.TimeFactors > 0.5 {
		add("High-traffic crossing schedule", "Plan queue management for this time slot")
	}

	if level == domain.RiskHigh {
		recommendations = append(recommendations, "Notify the shift supervisor")
	}
	return details, recommendations
}

func levelDirective(level domain.RiskLevel) string {
	switch level {
	case domain.RiskHigh:
		return "Mandatory physical inspection"
	case domain.RiskMedium:
		return "Detailed document review recommended"
	default:
		return "Standard review"
	}
}
