package physical

import (
	"math"

	"github.com/kclimate/krisk/internal/clients/openmeteo"
	"github.com/kclimate/krisk/internal/climate"
	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/registry"
	"github.com/kclimate/krisk/internal/riskmath"
)

// HazardTypes is the canonical evaluation order; output is deterministic.
var HazardTypes = []string{"flood", "typhoon", "heatwave", "drought", "sea_level_rise"}

var hazardDescriptions = map[string]string{
	"flood":          "집중호우 및 하천 범람으로 인한 침수 위험",
	"typhoon":        "태풍 및 강풍에 의한 시설물 피해 위험",
	"heatwave":       "폭염에 의한 설비 효율 저하 및 근로자 안전 위험",
	"drought":        "가뭄으로 인한 용수 부족 및 생산 차질 위험",
	"sea_level_rise": "해수면 상승에 따른 연안 시설 침수 위험",
}

// returnPeriods for the discrete EAL integration.
var returnPeriods = []float64{5, 10, 20, 50, 100, 200, 500}

// typhoonStructuralExposure is the wind-exposed share of asset value: only
// the building envelope and outdoor plant take wind damage, not the full
// book value (HAZUS-MH component split for industrial occupancy).
const typhoonStructuralExposure = 0.10

// slrAmortisationYears spreads a permanent inundation write-down over the
// remaining useful life of a coastal site.
const slrAmortisationYears = 30.0

// HazardRisk is the assessment of a single hazard at one facility.
type HazardRisk struct {
	HazardType               string  `json:"hazard_type"`
	RiskLevel                string  `json:"risk_level"`
	Probability              float64 `json:"probability"`
	PotentialLoss            float64 `json:"potential_loss"`
	Description              string  `json:"description"`
	ReturnPeriodYears        float64 `json:"return_period_years"`
	ClimateChangeMultiplier  float64 `json:"climate_change_multiplier"`
	BusinessInterruptionCost float64 `json:"business_interruption_cost"`
}

func dailyRevenue(f *domain.Facility) float64 {
	return f.Revenue / 365.0
}

func depthDamage(depthCM float64) float64 {
	curve := make([]riskmath.Point, len(registry.DepthDamageCurveIndustrial))
	for i, p := range registry.DepthDamageCurveIndustrial {
		curve[i] = riskmath.Point{X: p.DepthCM, Y: p.Damage}
	}
	d := riskmath.Interpolate(curve, depthCM)
	if d < 0 {
		return 0
	}
	if d > registry.FloodDamageCeiling {
		return registry.FloodDamageCeiling
	}
	return d
}

// floodRisk integrates Gumbel-quantile rainfall over discrete return-period
// bands: rainfall → runoff depth → depth-damage fraction of asset value,
// plus depth-dependent interruption days.
// Reference: Coles (2001); USACE depth-damage; Kim & Lee (2019).
func floodRisk(f *domain.Facility, region, scenario string, year int, baselines *openmeteo.Baselines) HazardRisk {
	gumbel := registry.FloodGumbel(region)
	mu, sigma := gumbel.Location, gumbel.Scale
	if baselines != nil {
		mu, sigma = baselines.GumbelLocation, baselines.GumbelScale
	}

	freqMult := climate.FrequencyMultiplier("flood", scenario, year)
	intensityMult := climate.IntensityMultiplier("flood", scenario, year)

	eal := 0.0
	biEAL := 0.0
	for i, period := range returnPeriods {
		next := period * 3
		if i+1 < len(returnPeriods) {
			next = returnPeriods[i+1]
		}

		rainfall := riskmath.GumbelQuantile(mu, sigma, period/freqMult) * intensityMult
		// mm of rain to cm of standing water after drainage.
		depthCM := rainfall * registry.RunoffCoefficientIndustrial * 0.1
		loss := f.AssetValue * depthDamage(depthCM)

		var biDays float64
		switch {
		case depthCM < 30:
			biDays = registry.FloodInterruptionDays.Minor
		case depthCM < 100:
			biDays = registry.FloodInterruptionDays.Moderate
		case depthCM < 200:
			biDays = registry.FloodInterruptionDays.Severe
		default:
			biDays = registry.FloodInterruptionDays.Catastrophic
		}
		biLoss := dailyRevenue(f) * biDays

		band := 1/period - 1/next
		eal += loss * band
		biEAL += biLoss * band
	}

	return HazardRisk{
		HazardType:               "flood",
		RiskLevel:                domain.PhysicalRiskLevel(eal+biEAL, f.AssetValue),
		Probability:              math.Min(1, riskmath.ExceedanceProbability(returnPeriods[0]/freqMult)),
		PotentialLoss:            eal + biEAL,
		Description:              hazardDescriptions["flood"],
		ReturnPeriodYears:        returnPeriods[2] / freqMult,
		ClimateChangeMultiplier:  freqMult * intensityMult,
		BusinessInterruptionCost: biEAL,
	}
}

// typhoonRisk models annual strikes as Poisson with a regional rate,
// shifting the landfall category mix toward cat 4-5 with warming and
// weighting the HAZUS damage rates over the mix. Interruption is a flat
// share of annual revenue per strike.
// Reference: KMA NTC 1951-2023; HAZUS-MH; IPCC AR6 WG1 Ch.11.
func typhoonRisk(f *domain.Facility, region, scenario string, year int, baselines *openmeteo.Baselines) HazardRisk {
	baseFreq := registry.TyphoonFrequency(region)
	if baselines != nil && baselines.WindAnnualMax != nil {
		// Correct the regional rate with the observed wind climate,
		// clamped to ±20%. Typical Korean annual maximum is ~25 m/s.
		ratio := *baselines.WindAnnualMax / 25.0
		baseFreq *= math.Max(0.8, math.Min(1.2, ratio))
	}

	freqMult := climate.FrequencyMultiplier("typhoon", scenario, year)
	lambda := baseFreq * freqMult
	deltaT := climate.WarmingDelta(scenario, year)

	// Shift landfall probability mass into cat 4-5 with warming.
	probs := make([]float64, len(registry.TyphoonCategories))
	lowTotal, highTotal := 0.0, 0.0
	for i, cat := range registry.TyphoonCategories {
		probs[i] = cat.Probability
		if i < 2 {
			lowTotal += cat.Probability
		} else {
			highTotal += cat.Probability
		}
	}
	shift := math.Min(climate.Cat45RatioPerDegree*deltaT*highTotal, lowTotal*0.3)
	probs[0] -= shift * 0.6
	probs[1] -= shift * 0.4
	probs[3] += shift * 0.6
	probs[4] += shift * 0.4

	expectedDamageRate := 0.0
	for i, cat := range registry.TyphoonCategories {
		expectedDamageRate += probs[i] * cat.DamageRate
	}

	directEAL := lambda * expectedDamageRate * typhoonStructuralExposure * f.AssetValue
	biEAL := lambda * registry.TyphoonInterruptionShare * f.Revenue
	totalEAL := directEAL + biEAL

	returnPeriod := 999.0
	if lambda > 0 {
		returnPeriod = 1 / lambda
	}

	return HazardRisk{
		HazardType:               "typhoon",
		RiskLevel:                domain.PhysicalRiskLevel(totalEAL, f.AssetValue),
		Probability:              riskmath.StrikeProbability(lambda),
		PotentialLoss:            totalEAL,
		Description:              hazardDescriptions["typhoon"],
		ReturnPeriodYears:        returnPeriod,
		ClimateChangeMultiplier:  freqMult,
		BusinessInterruptionCost: biEAL,
	}
}

// heatwaveRisk is chronic: heatwave days grow with warming, and each day
// costs a fraction of revenue proportional to the sector's outdoor-exposed
// workforce.
// Reference: ILO (2019), "Working on a Warmer Planet"; KMA (2020).
func heatwaveRisk(f *domain.Facility, region, scenario string, year int, baselines *openmeteo.Baselines) HazardRisk {
	baseDays := registry.HeatwaveBaseline(region)
	if baselines != nil && baselines.HeatwaveDays != nil {
		baseDays = *baselines.HeatwaveDays
	}
	deltaT := climate.WarmingDelta(scenario, year)
	days := baseDays + registry.HeatwaveDaysPerDegree*deltaT

	params, _ := registry.GetSector(f.Sector)
	loss := days * params.OutdoorExposure * f.Revenue * registry.HeatwaveProductivityFactor

	multiplier := 1.0
	if baseDays > 1 {
		multiplier = days / baseDays
	}

	return HazardRisk{
		HazardType:               "heatwave",
		RiskLevel:                domain.PhysicalRiskLevel(loss, f.AssetValue),
		Probability:              math.Min(1, days/365),
		PotentialLoss:            loss,
		Description:              hazardDescriptions["heatwave"],
		ReturnPeriodYears:        1, // chronic
		ClimateChangeMultiplier:  multiplier,
		BusinessInterruptionCost: loss,
	}
}

// droughtRisk converts regional water-stress days into a severe-drought
// return period and weights the severe-year asset loss by its annual
// exceedance probability.
// Reference: K-water National Water Resources Plan; IPCC AR6 WG2.
func droughtRisk(f *domain.Facility, region, scenario string, year int, baselines *openmeteo.Baselines) HazardRisk {
	baseDays := registry.DroughtBaseline(region)
	if baselines != nil && baselines.DroughtDays != nil {
		baseDays = *baselines.DroughtDays
	}
	freqMult := climate.FrequencyMultiplier("drought", scenario, year)
	days := baseDays * freqMult
	if days < 1 {
		days = 1
	}

	returnPeriod := 365 / days
	prob := riskmath.ExceedanceProbability(returnPeriod)
	eal := prob * f.AssetValue * registry.DroughtSevereLossFraction * freqMult

	return HazardRisk{
		HazardType:               "drought",
		RiskLevel:                domain.PhysicalRiskLevel(eal, f.AssetValue),
		Probability:              math.Min(1, prob),
		PotentialLoss:            eal,
		Description:              hazardDescriptions["drought"],
		ReturnPeriodYears:        returnPeriod,
		ClimateChangeMultiplier:  freqMult,
		BusinessInterruptionCost: 0,
	}
}

// seaLevelRiseRisk applies only to coastal districts: cumulative SLR maps
// through the depth-damage curve at a reduced rate (slow onset allows
// adaptation) and amortises over the site's remaining life.
// Reference: IPCC AR6 WG1 Ch.9.
func seaLevelRiseRisk(f *domain.Facility, region, scenario string, year int) HazardRisk {
	slrMM := climate.SeaLevelRiseMM(scenario, year)

	if !registry.IsCoastal(region) {
		return HazardRisk{
			HazardType:              "sea_level_rise",
			RiskLevel:               domain.RiskLow,
			Probability:             slrMM / 10000,
			Description:             hazardDescriptions["sea_level_rise"],
			ReturnPeriodYears:       999,
			ClimateChangeMultiplier: 1,
		}
	}

	slrCM := slrMM / 10
	damage := depthDamage(slrCM) * 0.3
	if damage > 0.5 {
		damage = 0.5
	}
	annualLoss := f.AssetValue * damage / slrAmortisationYears

	multiplier := 1.0
	if ref := climate.SeaLevelRiseMM("current_policies", year); ref > 0 {
		multiplier = slrMM / ref
	}

	return HazardRisk{
		HazardType:               "sea_level_rise",
		RiskLevel:                domain.PhysicalRiskLevel(annualLoss, f.AssetValue),
		Probability:              math.Min(1, slrCM/100),
		PotentialLoss:            annualLoss,
		Description:              hazardDescriptions["sea_level_rise"],
		ReturnPeriodYears:        1, // chronic
		ClimateChangeMultiplier:  multiplier,
		BusinessInterruptionCost: 0,
	}
}

// compoundAdjustedEAL adds pairwise correlation terms to the naive hazard
// sum: joint = Σ EAL_i + Σ rho_ij·sqrt(EAL_i·EAL_j), floored at zero.
// Reference: Zscheischler et al. (2018), Nature Climate Change.
func compoundAdjustedEAL(hazards []HazardRisk) float64 {
	total := 0.0
	for _, h := range hazards {
		total += h.PotentialLoss
	}
	for i := 0; i < len(hazards); i++ {
		for j := i + 1; j < len(hazards); j++ {
			a, b := hazards[i], hazards[j]
			rho, ok := registry.HazardCorrelations[[2]string{a.HazardType, b.HazardType}]
			if !ok {
				rho = registry.HazardCorrelations[[2]string{b.HazardType, a.HazardType}]
			}
			if rho != 0 && a.PotentialLoss > 0 && b.PotentialLoss > 0 {
				total += rho * math.Sqrt(a.PotentialLoss*b.PotentialLoss)
			}
		}
	}
	return math.Max(total, 0)
}
