// Package pricing produces carbon price paths for the supported regimes and
// the abatement-cost quantities built on top of them.
//
// References: NGFS Phase IV Scenarios (2023) for price paths; IEA ETP 2023
// and IRENA 2023 for technology costs and learning rates; Wright (1936) for
// the experience-curve form.
package pricing

import (
	"math"

	"github.com/kclimate/krisk/internal/registry"
	"github.com/kclimate/krisk/internal/riskmath"
)

// ketsGlobalCoupling is the weight of the converted global benchmark when
// blending the K-ETS price. The Korean allowance market is partially linked
// to international price expectations but clears on its own calibration.
const ketsGlobalCoupling = 0.5

// YearPrice is one year of a built price path.
type YearPrice struct {
	Year  int     `json:"year"`
	Price float64 `json:"price"`
}

func toCurve(points []registry.PricePoint) []riskmath.Point {
	curve := make([]riskmath.Point, len(points))
	for i, p := range points {
		curve[i] = riskmath.Point{X: float64(p.Year), Y: p.Price}
	}
	return curve
}

// GlobalPriceUSD interpolates the scenario's NGFS path at a year, clamping
// outside the 2024-2050 calibration range.
func GlobalPriceUSD(scenario string, year int) float64 {
	return riskmath.Interpolate(toCurve(registry.GlobalPricePath(scenario)), float64(year))
}

// KETSPriceKRW returns the blended Korean allowance price: the K-ETS
// calibration path mixed with the global benchmark converted at the fixed
// KRW rate.
func KETSPriceKRW(scenario string, year int) float64 {
	own := riskmath.Interpolate(toCurve(registry.KETSPricePath(scenario)), float64(year))
	converted := GlobalPriceUSD(scenario, year) / registry.KETSKRWToUSD
	return ketsGlobalCoupling*converted + (1-ketsGlobalCoupling)*own
}

// PriceAt returns the carbon price in the reporting currency (USD/tCO2e)
// for a scenario, regime and year. K-ETS prices are converted from KRW.
func PriceAt(scenario, regime string, year int) (float64, error) {
	if err := registry.ValidateScenario(scenario); err != nil {
		return 0, err
	}
	if err := registry.ValidateRegime(regime); err != nil {
		return 0, err
	}
	if regime == registry.RegimeKETS {
		return KETSPriceKRW(scenario, year) * registry.KETSKRWToUSD, nil
	}
	return GlobalPriceUSD(scenario, year), nil
}

// BuildPath returns the full interpolated price path over [yearStart, yearEnd].
func BuildPath(scenario, regime string, yearStart, yearEnd int) ([]YearPrice, error) {
	if err := registry.ValidateScenario(scenario); err != nil {
		return nil, err
	}
	if err := registry.ValidateRegime(regime); err != nil {
		return nil, err
	}
	path := make([]YearPrice, 0, yearEnd-yearStart+1)
	for y := yearStart; y <= yearEnd; y++ {
		p, err := PriceAt(scenario, regime, y)
		if err != nil {
			return nil, err
		}
		path = append(path, YearPrice{Year: y, Price: p})
	}
	return path, nil
}

// AllocationFraction is the K-ETS free-allocation fraction for a sector and
// year: max(0, base - tightening × (year - 2024)), capped to [0, 1].
// Reference: 환경부, K-ETS Phase 3/4 할당계획.
func AllocationFraction(sector string, year int) float64 {
	a := registry.GetKETSAllocation(sector)
	elapsed := year - registry.BaseYear
	if elapsed < 0 {
		elapsed = 0
	}
	ratio := a.BaseRatio - a.AnnualTightening*float64(elapsed)
	if ratio < 0 {
		return 0
	}
	if ratio > 1 {
		return 1
	}
	return ratio
}

// technologyCost projects a technology's MAC to a target year with annual
// experience-curve decay. The learning rate here is an annual cost
// reduction, a screening-model simplification of Wright's Law that assumes
// steady deployment growth (cf. IRENA 2023 Fig. 3.7; Way et al. 2022).
func technologyCost(tech registry.AbatementTech, targetYear int) float64 {
	if targetYear < tech.AvailableYear {
		return math.Inf(1)
	}
	const referenceYear = 2020
	years := targetYear - referenceYear
	if years <= 0 {
		return tech.MAC
	}
	return tech.MAC * math.Pow(1-tech.LearningRate, float64(years))
}

// MarginalAbatementCost walks the sector's technology stack, cheapest
// first at the target year's learning-adjusted costs, accumulating
// addressable reductions until the target fraction is covered, and returns
// the MAC of the marginal technology. Beyond the stack's capacity an
// exponential backstop penalty applies.
// Reference: McKinsey MAC curve methodology; IEA ETP 2023 sector roadmaps.
func MarginalAbatementCost(sector string, reductionPct float64, year int) float64 {
	if reductionPct <= 0 {
		return 0
	}

	params, _ := registry.GetSector(sector)
	stack := registry.AbatementStack(sector)
	if len(stack) == 0 {
		// Step-function fallback for sectors without a technology stack.
		switch {
		case reductionPct <= 0.2:
			return params.MACBaseCost
		case reductionPct <= 0.5:
			return params.MACBaseCost * 1.5
		case reductionPct <= 0.8:
			return params.MACBaseCost * 2.5
		default:
			return params.MACBaseCost * 4.0
		}
	}

	type costed struct {
		mac          float64
		maxReduction float64
	}
	available := make([]costed, 0, len(stack))
	for _, tech := range stack {
		if year >= tech.AvailableYear {
			available = append(available, costed{
				mac:          technologyCost(tech, year),
				maxReduction: tech.MaxReduction,
			})
		}
	}
	if len(available) == 0 {
		return params.MACBaseCost * 3.0
	}

	// Learning curves can reorder the stack, so sort on projected cost.
	for i := 1; i < len(available); i++ {
		for j := i; j > 0 && available[j].mac < available[j-1].mac; j-- {
			available[j], available[j-1] = available[j-1], available[j]
		}
	}

	cumulative := 0.0
	marginal := available[0].mac
	for _, tech := range available {
		if cumulative >= reductionPct {
			break
		}
		cumulative += tech.maxReduction
		marginal = tech.mac
	}

	if reductionPct > cumulative && cumulative > 0 {
		overshoot := (reductionPct - cumulative) / cumulative
		marginal *= 1.0 + 3.0*(math.Exp(overshoot)-1.0)
	}
	return marginal
}

// TransitionCosts splits the abatement bill for moving from current to
// target emissions into CAPEX and annualised OPEX at the sector's
// learning-adjusted marginal cost.
func TransitionCosts(currentEmissions, targetEmissions float64, sector string, timeframeYears, year int) (capex, opex, total float64) {
	reduction := currentEmissions - targetEmissions
	if reduction <= 0 {
		return 0, 0, 0
	}
	reductionPct := 0.0
	if currentEmissions > 0 {
		reductionPct = reduction / currentEmissions
	}
	mac := MarginalAbatementCost(sector, reductionPct, year)
	params, _ := registry.GetSector(sector)

	total = reduction * mac
	capex = total * params.CapexRatio
	if timeframeYears < 1 {
		timeframeYears = 1
	}
	opex = total * (1 - params.CapexRatio) / float64(timeframeYears)
	return capex, opex, total
}
