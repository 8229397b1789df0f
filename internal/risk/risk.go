// Package risk scores a single border-crossing request.
//
// Every request is evaluated against 5 independent factors: document status,
// vehicle/cargo value, inspection history, route risk and time of crossing.
// Each factor is in [0, 1] and the weighted sum yields the overall score.
// The rule set is fixed so every result can be audited by hand.
package risk

import (
	"time"

	"github.com/frontera-ops/crossing-risk/internal/domain"
)

// Factor weights. They sum to 1.0.
const (
	weightDocumentStatus    = 0.30
	weightVehicleValue      = 0.25
	weightInspectionHistory = 0.20
	weightRouteRisk         = 0.15
	weightTimeFactors       = 0.10
)

// Level thresholds are exclusive lower bounds.
const (
	HighThreshold   = 0.7
	MediumThreshold = 0.3
)

const (
	expiryWarningWindow = 30 * 24 * time.Hour

	highValueLimit   = 100000.0
	mediumValueLimit = 50000.0

	unknownHistoryRisk  = 0.3
	rejectionMultiplier = 1.5

	noiseScale = 1e9
)

// baseVehicleRisk is keyed by lower-case vehicle type.
var baseVehicleRisk = map[string]float64{
	"truck":      0.8,
	"van":        0.6,
	"pickup":     0.4,
	"car":        0.2,
	"motorcycle": 0.1,
}

const defaultVehicleRisk = 0.5

// highRiskRoutes are routes with a record of incidents. A request route
// matches when it contains one of these names, ignoring case.
var highRiskRoutes = []string{
	string(domain.ControlChacalluta),
	string(domain.ControlColchane),
	string(domain.ControlJama),
}
