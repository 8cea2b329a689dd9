// Package registry holds the immutable calibration tables the risk engines
// are parameterised with: NGFS scenarios, sector parameters, the K-ETS
// regime, and the Korean physical hazard baselines. Everything here is
// initialised at package load and never mutated afterwards, so readers need
// no synchronisation.
package registry

import (
	"fmt"
	"sort"

	"github.com/kclimate/krisk/internal/domain"
)

// Financial baseline.
const (
	BaseYear            = 2024
	DefaultDiscountRate = 0.08 // base WACC

	AnalysisStartYear = 2025
	AnalysisEndYear   = 2050
)

// Pricing regimes.
const (
	RegimeGlobal = "global"
	RegimeKETS   = "kets"
)

// KETSKRWToUSD converts K-ETS allowance prices to the reporting currency.
// Approximate 1 USD ~ 1,330 KRW.
const KETSKRWToUSD = 0.00075

// Scenario is one of the four NGFS reference futures.
// Source: NGFS Phase IV Scenarios (2023); price paths from the NGFS
// Scenario Explorer (IIASA).
type Scenario struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	CarbonPrice2025 float64 `json:"carbon_price_2025"`
	CarbonPrice2030 float64 `json:"carbon_price_2030"`
	CarbonPrice2050 float64 `json:"carbon_price_2050"`
	ReductionTarget float64 `json:"emissions_reduction_target"`
	Color           string  `json:"color"`
}

// SCurveParams shape the logistic emission-reduction trajectory.
// Source: Bass (1969) diffusion model calibrated to NGFS pathways.
type SCurveParams struct {
	K    float64 // steepness
	T0   float64 // inflection year
	LMax float64 // maximum reduction achievable
}

var scenarios = map[string]Scenario{
	"net_zero_2050": {
		ID:              "net_zero_2050",
		Name:            "Net Zero 2050",
		Description:     "1.5°C 목표 달성을 위한 즉각적이고 원활한 전환",
		CarbonPrice2025: 75.0,
		CarbonPrice2030: 130.0,
		CarbonPrice2050: 250.0,
		ReductionTarget: 0.50,
		Color:           "#ef4444",
	},
	"below_2c": {
		ID:              "below_2c",
		Name:            "Below 2°C",
		Description:     "2°C 미만 목표를 위한 점진적 전환",
		CarbonPrice2025: 60.0,
		CarbonPrice2030: 100.0,
		CarbonPrice2050: 200.0,
		ReductionTarget: 0.40,
		Color:           "#f97316",
	},
	"delayed_transition": {
		ID:              "delayed_transition",
		Name:            "Delayed Transition",
		Description:     "2030년까지 정책 지연 후 급격한 전환",
		CarbonPrice2025: 50.0,
		CarbonPrice2030: 90.0,
		CarbonPrice2050: 180.0,
		ReductionTarget: 0.30,
		Color:           "#eab308",
	},
	"current_policies": {
		ID:              "current_policies",
		Name:            "Current Policies",
		Description:     "현재 정책 유지, 제한적 추가 조치",
		CarbonPrice2025: 25.0,
		CarbonPrice2030: 40.0,
		CarbonPrice2050: 80.0,
		ReductionTarget: 0.15,
		Color:           "#22c55e",
	},
}

// PricePoint is one calibration point of a carbon-price path.
type PricePoint struct {
	Year  int
	Price float64
}

// ====== NGFS CARBON PRICE MULTI-POINT PATHS ($/tCO2e) ======
// Source: NGFS Phase IV Scenarios (2023). Eight points per scenario in
// ascending year order spanning 2024-2050.
var globalPricePaths = map[string][]PricePoint{
	"net_zero_2050": {
		{2024, 65}, {2025, 75}, {2027, 100}, {2030, 130},
		{2035, 170}, {2040, 210}, {2045, 235}, {2050, 250},
	},
	"below_2c": {
		{2024, 50}, {2025, 60}, {2027, 78}, {2030, 100},
		{2035, 135}, {2040, 165}, {2045, 185}, {2050, 200},
	},
	"delayed_transition": {
		{2024, 40}, {2025, 50}, {2027, 60}, {2030, 90},
		{2035, 130}, {2040, 160}, {2045, 175}, {2050, 180},
	},
	"current_policies": {
		{2024, 20}, {2025, 25}, {2027, 30}, {2030, 40},
		{2035, 52}, {2040, 62}, {2045, 72}, {2050, 80},
	},
}

// ====== K-ETS PRICE PATHS (KRW/tCO2e) ======
// Source: KRX historical + Ministry of Environment 4th plan projections.
var ketsPricePaths = map[string][]PricePoint{
	"net_zero_2050": {
		{2024, 15000}, {2025, 22000}, {2027, 35000}, {2030, 55000},
		{2035, 80000}, {2040, 110000}, {2045, 130000}, {2050, 150000},
	},
	"below_2c": {
		{2024, 15000}, {2025, 20000}, {2027, 28000}, {2030, 42000},
		{2035, 60000}, {2040, 80000}, {2045, 95000}, {2050, 110000},
	},
	"delayed_transition": {
		{2024, 15000}, {2025, 18000}, {2027, 22000}, {2030, 35000},
		{2035, 55000}, {2040, 75000}, {2045, 85000}, {2050, 90000},
	},
	"current_policies": {
		{2024, 15000}, {2025, 16000}, {2027, 18000}, {2030, 22000},
		{2035, 28000}, {2040, 35000}, {2045, 40000}, {2050, 45000},
	},
}

// ====== S-CURVE PARAMETERS FOR EMISSION REDUCTION ======
var scurveParams = map[string]SCurveParams{
	"net_zero_2050":      {K: 0.25, T0: 2032, LMax: 0.95}, // orderly early start
	"below_2c":           {K: 0.22, T0: 2035, LMax: 0.85},
	"delayed_transition": {K: 0.40, T0: 2038, LMax: 0.80}, // sudden catch-up
	"current_policies":   {K: 0.12, T0: 2040, LMax: 0.40}, // gradual
}

// ====== SCENARIO WACC SPREADS ======
// Climate scenarios raise the cost of capital through physical risk premia
// and policy uncertainty premia. Directional ordering from Battiston et al.
// (2017); magnitude anchored near the ~60bp carbon premium of Bolton &
// Kacperczyk (2021). Exact values are model assumptions.
var waccSpreads = map[string]float64{
	"net_zero_2050":      0.005,  // +50bp, orderly transition
	"below_2c":           0.0075, // +75bp
	"delayed_transition": 0.015,  // +150bp, policy uncertainty premium
	"current_policies":   0.020,  // +200bp, highest physical risk premium
}

// ScenarioIDs returns the four scenario identifiers in stable order.
func ScenarioIDs() []string {
	ids := make([]string, 0, len(scenarios))
	for id := range scenarios {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// GetScenario looks up a scenario definition.
func GetScenario(id string) (Scenario, error) {
	s, ok := scenarios[id]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: unknown scenario: %s (valid: %v)",
			domain.ErrInvalidScenario, id, ScenarioIDs())
	}
	return s, nil
}

// ValidateScenario checks a scenario tag.
func ValidateScenario(id string) error {
	_, err := GetScenario(id)
	return err
}

// ValidateRegime checks a pricing regime tag.
func ValidateRegime(regime string) error {
	if regime != RegimeGlobal && regime != RegimeKETS {
		return fmt.Errorf("%w: unknown pricing_regime: %s (valid: [global kets])",
			domain.ErrInvalidRegime, regime)
	}
	return nil
}

// GlobalPricePath returns the USD calibration points for a scenario.
func GlobalPricePath(scenario string) []PricePoint {
	return globalPricePaths[scenario]
}

// KETSPricePath returns the KRW calibration points for a scenario.
func KETSPricePath(scenario string) []PricePoint {
	return ketsPricePaths[scenario]
}

// GetSCurve returns the logistic reduction parameters for a scenario.
func GetSCurve(scenario string) SCurveParams {
	if p, ok := scurveParams[scenario]; ok {
		return p
	}
	return scurveParams["current_policies"]
}

// WACCSpread returns the scenario credit spread added to base WACC.
func WACCSpread(scenario string) float64 {
	return waccSpreads[scenario]
}
