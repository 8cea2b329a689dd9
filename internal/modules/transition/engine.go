// Package transition implements the transition-risk engine: per-facility,
// per-year NPV composition of carbon cost, abatement spend, energy uplift,
// demand-side revenue impact, stranded-asset write-downs and scope 3
// pass-through under the four NGFS scenarios.
//
// References: NGFS Technical Documentation (2023); Bass (1969) for the
// S-curve; Carbon Tracker Initiative (2023) for stranding; Demailly &
// Quirion (2008) for pass-through; CDP Supply Chain Report (2023).
package transition

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/pricing"
	"github.com/kclimate/krisk/internal/registry"
	"github.com/kclimate/krisk/internal/riskmath"
)

// Cost model constants.
const (
	// Transition CAPEX/OPEX as annual fractions of asset value at full
	// decarbonisation pace; scaled by (1 + 10·r(t)).
	capexAlpha = 0.012
	opexAlpha  = 0.006

	// Green premium on the energy bill: 30% at the base year, declining
	// 2.5pp per year to a 5% floor (learning and scale effects).
	greenPremiumStart   = 0.30
	greenPremiumDecline = 0.025
	greenPremiumFloor   = 0.05

	// Unpassed carbon cost erodes margins at this rate.
	costBurdenFactor = 0.10

	// Revenue impact cap: the bankruptcy threshold.
	revenueImpactCap = 0.50
)

// structuralShiftRates is the annual market-share loss for fossil-dependent
// sectors under the two ambitious scenarios.
var structuralShiftRates = map[string]float64{
	"oil_gas":       0.02,
	"utilities":     0.015,
	"shipping":      0.01,
	"petrochemical": 0.008,
	"steel":         0.005,
}

// PathwayPoint is one year of a facility's emission trajectory.
type PathwayPoint struct {
	Year            int     `json:"year"`
	Scope1Emissions float64 `json:"scope1_emissions"`
	Scope2Emissions float64 `json:"scope2_emissions"`
	TotalEmissions  float64 `json:"total_emissions"`
	ReductionFactor float64 `json:"reduction_factor"`
}

// AnnualImpact is one year of a facility's financial deltas. The K-ETS
// fields are only present under the kets regime.
type AnnualImpact struct {
	Year                int      `json:"year"`
	CarbonCost          float64  `json:"carbon_cost"`
	TransitionCapex     float64  `json:"transition_capex"`
	TransitionOpex      float64  `json:"transition_opex"`
	EnergyCostIncrease  float64  `json:"energy_cost_increase"`
	RevenueImpact       float64  `json:"revenue_impact"`
	StrandedWritedown   float64  `json:"stranded_asset_writedown"`
	Scope3Impact        float64  `json:"scope3_impact"`
	DeltaEBITDA         float64  `json:"delta_ebitda"`
	TotalEmissions      float64  `json:"total_emissions"`
	KETSFreeAllocation  *float64 `json:"kets_free_allocation,omitempty"`
	KETSExcessEmissions *float64 `json:"kets_excess_emissions,omitempty"`
	KETSPriceKRW        *float64 `json:"kets_price_krw,omitempty"`
}

// FacilityResult is the full transition-risk outcome for one facility.
type FacilityResult struct {
	FacilityID      string         `json:"facility_id"`
	FacilityName    string         `json:"facility_name"`
	Sector          string         `json:"sector"`
	Scenario        string         `json:"scenario"`
	RiskLevel       string         `json:"risk_level"`
	EmissionPathway []PathwayPoint `json:"emission_pathway"`
	AnnualImpacts   []AnnualImpact `json:"annual_impacts"`
	DeltaNPV        float64        `json:"delta_npv"`
	NPVPctOfAssets  float64        `json:"npv_as_pct_of_assets"`
}

// Analysis is the portfolio-level result for one (scenario, regime).
type Analysis struct {
	Scenario               string           `json:"scenario"`
	ScenarioName           string           `json:"scenario_name"`
	PricingRegime          string           `json:"pricing_regime"`
	Facilities             []FacilityResult `json:"facilities"`
	TotalNPV               float64          `json:"total_npv"`
	TotalBaselineEmissions float64          `json:"total_baseline_emissions"`
	AvgRiskLevel           string           `json:"avg_risk_level"`
	Warnings               []string         `json:"warnings,omitempty"`
}

// Engine runs transition-risk analyses. Pure over its inputs plus the
// calibration registry; safe for concurrent use.
type Engine struct {
	baseWACC float64
	log      zerolog.Logger
}

// NewEngine creates a transition engine with the given base WACC.
func NewEngine(baseWACC float64, log zerolog.Logger) *Engine {
	if baseWACC <= 0 {
		baseWACC = registry.DefaultDiscountRate
	}
	return &Engine{
		baseWACC: baseWACC,
		log:      log.With().Str("engine", "transition").Logger(),
	}
}

// reductionFactor evaluates the logistic reduction curve for a scenario and
// sector at year t. The ceiling is calibrated so the pathway lands exactly
// on the scenario's reduction target at the analysis end year; the sector's
// relative pace shifts the inflection point by up to ~1.5 years.
func reductionFactor(scenario string, params registry.SectorParams, year int) float64 {
	sc, err := registry.GetScenario(scenario)
	if err != nil {
		return 0
	}
	curve := registry.GetSCurve(scenario)

	t0 := curve.T0 - (params.ReductionMultiplier-1.0)*5
	ceiling := sc.ReductionTarget * (1 + math.Exp(-curve.K*(float64(registry.AnalysisEndYear)-t0)))
	if ceiling > curve.LMax {
		ceiling = curve.LMax
	}
	if year <= registry.BaseYear {
		return 0
	}
	return riskmath.LogisticReduction(curve.K, t0, ceiling, float64(year))
}

// greenPremium is the clean-energy cost premium for a year.
func greenPremium(year int) float64 {
	elapsed := year - registry.BaseYear
	if elapsed < 0 {
		elapsed = 0
	}
	p := greenPremiumStart - greenPremiumDecline*float64(elapsed)
	if p < greenPremiumFloor {
		return greenPremiumFloor
	}
	return p
}

// energyCostIncrease models the net uplift of the energy bill: the share of
// revenue spent on energy, times the green premium, scaled by how far the
// facility has transitioned, net of cost pass-through.
// Reference: IEA Energy Efficiency Indicators (2023).
func energyCostIncrease(params registry.SectorParams, revenue, reduction float64, year int) float64 {
	gross := revenue * params.EnergyCostShare * greenPremium(year) * reduction
	return gross * (1 - params.CostPassthrough)
}

// revenueImpact combines the demand-elasticity response to passed-through
// carbon costs, margin erosion from the unpassed share, and structural
// demand loss for fossil-dependent sectors under ambitious scenarios.
// Capped at half of revenue.
func revenueImpact(params registry.SectorParams, scenario, sector string, revenue, carbonCost float64) float64 {
	if revenue <= 0 {
		return 0
	}
	priceEffect := carbonCost * params.CostPassthrough * params.DemandElasticity
	costBurden := carbonCost * (1 - params.CostPassthrough) * costBurdenFactor

	structural := 0.0
	if scenario == "net_zero_2050" || scenario == "below_2c" {
		structural = revenue * structuralShiftRates[sector]
	}

	total := priceEffect + costBurden + structural
	if cap := revenue * revenueImpactCap; total > cap {
		return cap
	}
	return total
}

// Analyse runs the full transition analysis over a facility set. Facilities
// appear in input order. Cancellation is checked between facilities.
func (e *Engine) Analyse(ctx context.Context, facilities []domain.Facility, scenario, regime string) (*Analysis, error) {
	sc, err := registry.GetScenario(scenario)
	if err != nil {
		return nil, err
	}
	if err := registry.ValidateRegime(regime); err != nil {
		return nil, err
	}

	// Price path memoised once per request.
	prices := make(map[int]float64, registry.AnalysisEndYear-registry.AnalysisStartYear+1)
	for y := registry.AnalysisStartYear; y <= registry.AnalysisEndYear; y++ {
		p, err := pricing.PriceAt(scenario, regime, y)
		if err != nil {
			return nil, err
		}
		prices[y] = p
	}

	discountRate := riskmath.ScenarioWACC(e.baseWACC, registry.WACCSpread(scenario))

	analysis := &Analysis{
		Scenario:      scenario,
		ScenarioName:  sc.Name,
		PricingRegime: regime,
		Facilities:    make([]FacilityResult, 0, len(facilities)),
	}

	sectors := make([]string, 0, len(facilities))
	for _, f := range facilities {
		sectors = append(sectors, f.Sector)
	}
	analysis.Warnings = registry.SectorWarnings(sectors)

	for i := range facilities {
		if err := ctx.Err(); err != nil {
			return nil, mapContextErr(err)
		}
		result := e.analyseFacility(&facilities[i], scenario, regime, prices, discountRate)
		analysis.TotalNPV += result.DeltaNPV
		analysis.TotalBaselineEmissions += facilities[i].TotalEmissions()
		analysis.Facilities = append(analysis.Facilities, result)
	}

	analysis.AvgRiskLevel = dominantRiskLevel(analysis.Facilities)

	e.log.Debug().
		Str("scenario", scenario).
		Str("regime", regime).
		Int("facilities", len(facilities)).
		Float64("total_npv", analysis.TotalNPV).
		Msg("transition analysis complete")

	return analysis, nil
}

func (e *Engine) analyseFacility(f *domain.Facility, scenario, regime string, prices map[int]float64, discountRate float64) FacilityResult {
	params, _ := registry.GetSector(f.Sector)
	baselineScope1 := f.Scope1
	baselineScope2 := f.Scope2

	years := registry.AnalysisEndYear - registry.AnalysisStartYear + 1
	pathway := make([]PathwayPoint, 0, years)
	impacts := make([]AnnualImpact, 0, years)
	flows := make([]float64, 0, years)

	for year := registry.AnalysisStartYear; year <= registry.AnalysisEndYear; year++ {
		rf := reductionFactor(scenario, params, year)
		scope1 := baselineScope1 * (1 - rf)
		scope2 := baselineScope2 * (1 - rf)
		totalEmissions := scope1 + scope2

		pathway = append(pathway, PathwayPoint{
			Year:            year,
			Scope1Emissions: scope1,
			Scope2Emissions: scope2,
			TotalEmissions:  totalEmissions,
			ReductionFactor: rf,
		})

		price := prices[year]
		impact := AnnualImpact{Year: year, TotalEmissions: totalEmissions}

		// Carbon cost applies to direct emissions only; under K-ETS only
		// the excess above the free allocation is charged.
		if regime == registry.RegimeKETS {
			alloc := pricing.AllocationFraction(f.Sector, year) * baselineScope1
			excess := scope1 - alloc
			if excess < 0 {
				excess = 0
			}
			impact.CarbonCost = excess * price
			krw := pricing.KETSPriceKRW(scenario, year)
			impact.KETSFreeAllocation = &alloc
			impact.KETSExcessEmissions = &excess
			impact.KETSPriceKRW = &krw
		} else {
			impact.CarbonCost = scope1 * price
		}

		scale := 1 + 10*rf
		impact.TransitionCapex = f.AssetValue * capexAlpha * scale
		impact.TransitionOpex = f.AssetValue * opexAlpha * scale
		impact.EnergyCostIncrease = energyCostIncrease(params, f.Revenue, rf, year)
		impact.RevenueImpact = revenueImpact(params, scenario, f.Sector, f.Revenue, impact.CarbonCost)
		impact.StrandedWritedown = f.AssetValue * params.StrandedRate
		impact.Scope3Impact = f.Scope3 * price * params.Scope3Exposure

		impact.DeltaEBITDA = -(impact.CarbonCost +
			impact.EnergyCostIncrease +
			impact.RevenueImpact +
			impact.TransitionCapex + impact.StrandedWritedown +
			impact.TransitionOpex +
			impact.Scope3Impact)

		impacts = append(impacts, impact)
		flows = append(flows, impact.DeltaEBITDA)
	}

	deltaNPV := riskmath.NPV(flows, discountRate)
	npvFrac := 0.0
	if f.AssetValue > 0 {
		npvFrac = deltaNPV / f.AssetValue
	}

	return FacilityResult{
		FacilityID:      f.FacilityID,
		FacilityName:    f.Name,
		Sector:          f.Sector,
		Scenario:        scenario,
		RiskLevel:       domain.TransitionRiskLevel(npvFrac),
		EmissionPathway: pathway,
		AnnualImpacts:   impacts,
		DeltaNPV:        deltaNPV,
		NPVPctOfAssets:  npvFrac * 100,
	}
}

// dominantRiskLevel is the portfolio's modal risk level, biased toward the
// severer level on ties.
func dominantRiskLevel(results []FacilityResult) string {
	high, medium, low := 0, 0, 0
	for _, r := range results {
		switch r.RiskLevel {
		case domain.RiskHigh:
			high++
		case domain.RiskMedium:
			medium++
		default:
			low++
		}
	}
	switch {
	case high > medium && high > low:
		return domain.RiskHigh
	case medium >= low:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func mapContextErr(err error) error {
	if err == context.DeadlineExceeded {
		return domain.ErrDeadlineExceeded
	}
	return domain.ErrCancelled
}
