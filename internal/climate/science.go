// Package climate maps (scenario, year) to physical climate state: warming
// above pre-industrial, hazard intensification multipliers, and cumulative
// sea-level rise.
//
// References: IPCC AR6 WG1 Table SPM.1 (warming projections); Chapter 11
// (extremes); Clausius-Clapeyron relation (~7% atmospheric moisture per °C);
// Fischer & Knutti (2015), Nature Climate Change.
package climate

import (
	"github.com/kclimate/krisk/internal/riskmath"
)

// BaselineWarming is the warming already realised at 2020 above the
// 1850-1900 baseline (IPCC AR6).
const BaselineWarming = 1.1

// scenarioToSSP maps NGFS-style scenario ids to IPCC SSP pathways.
var scenarioToSSP = map[string]string{
	"net_zero_2050":      "SSP1-1.9", // very low emissions
	"below_2c":           "SSP1-2.6", // low emissions
	"delayed_transition": "SSP2-4.5", // intermediate emissions
	"current_policies":   "SSP3-7.0", // high emissions
}

// Global mean surface temperature change relative to 1850-1900, best
// estimates from IPCC AR6 WG1 Table SPM.1.
var sspWarming = map[string][]riskmath.Point{
	"SSP1-1.9": {
		{X: 2020, Y: 1.1}, {X: 2025, Y: 1.2}, {X: 2030, Y: 1.4}, {X: 2035, Y: 1.5}, {X: 2040, Y: 1.5},
		{X: 2045, Y: 1.5}, {X: 2050, Y: 1.4}, {X: 2060, Y: 1.3}, {X: 2070, Y: 1.3}, {X: 2080, Y: 1.3}, {X: 2100, Y: 1.0},
	},
	"SSP1-2.6": {
		{X: 2020, Y: 1.1}, {X: 2025, Y: 1.2}, {X: 2030, Y: 1.4}, {X: 2035, Y: 1.6}, {X: 2040, Y: 1.7},
		{X: 2045, Y: 1.8}, {X: 2050, Y: 1.8}, {X: 2060, Y: 1.8}, {X: 2070, Y: 1.8}, {X: 2080, Y: 1.8}, {X: 2100, Y: 1.8},
	},
	"SSP2-4.5": {
		{X: 2020, Y: 1.1}, {X: 2025, Y: 1.3}, {X: 2030, Y: 1.5}, {X: 2035, Y: 1.7}, {X: 2040, Y: 1.9},
		{X: 2045, Y: 2.0}, {X: 2050, Y: 2.1}, {X: 2060, Y: 2.3}, {X: 2070, Y: 2.5}, {X: 2080, Y: 2.6}, {X: 2100, Y: 2.7},
	},
	"SSP3-7.0": {
		{X: 2020, Y: 1.1}, {X: 2025, Y: 1.3}, {X: 2030, Y: 1.5}, {X: 2035, Y: 1.8}, {X: 2040, Y: 2.1},
		{X: 2045, Y: 2.3}, {X: 2050, Y: 2.5}, {X: 2060, Y: 2.9}, {X: 2070, Y: 3.3}, {X: 2080, Y: 3.6}, {X: 2100, Y: 3.6},
	},
}

// intensification holds fractional hazard change per °C of warming above
// the 2020 baseline. Source: IPCC AR6 WG1 Ch.11 Table 11.1; Knutson et al.
// (2020) for typhoon winds.
type intensification struct {
	Frequency float64
	Intensity float64
}

var hazardIntensification = map[string]intensification{
	"flood":    {Frequency: 0.30, Intensity: 0.07}, // Clausius-Clapeyron + hydrological
	"typhoon":  {Frequency: 0.05, Intensity: 0.05},
	"heatwave": {Frequency: 1.30, Intensity: 1.0},
	"drought":  {Frequency: 0.15, Intensity: 0.10},
}

// Cat45RatioPerDegree is the added proportion of category 4-5 typhoons per
// °C of warming (IPCC AR6).
const Cat45RatioPerDegree = 0.13

// Sea-level rise rates, mm/yr. Base rate is the 2006-2018 observed mean;
// the warming-dependent term follows IPCC AR6 WG1 Ch.9 (simplified).
const (
	slrBaseRateMMPerYear = 3.7
	slrRatePerDegree     = 3.0
	slrBaseYear          = 2020
)

// WarmingAt returns projected warming (°C above pre-industrial) for a
// scenario and year. Unknown scenarios default to the intermediate pathway.
func WarmingAt(scenario string, year int) float64 {
	ssp, ok := scenarioToSSP[scenario]
	if !ok {
		ssp = "SSP2-4.5"
	}
	return riskmath.Interpolate(sspWarming[ssp], float64(year))
}

// WarmingDelta is the incremental warming above the 2020 baseline; this is
// what drives hazard intensification.
func WarmingDelta(scenario string, year int) float64 {
	d := WarmingAt(scenario, year) - BaselineWarming
	if d < 0 {
		return 0
	}
	return d
}

// FrequencyMultiplier scales a hazard's event frequency for climate change.
// 1.5 means 50% more frequent than baseline.
func FrequencyMultiplier(hazard, scenario string, year int) float64 {
	return 1.0 + hazardIntensification[hazard].Frequency*WarmingDelta(scenario, year)
}

// IntensityMultiplier scales a hazard's intensity for climate change.
func IntensityMultiplier(hazard, scenario string, year int) float64 {
	return 1.0 + hazardIntensification[hazard].Intensity*WarmingDelta(scenario, year)
}

// AdjustReturnPeriod shortens a return period when frequency rises: a
// 100-year event that becomes 1.5x more frequent recurs every ~67 years.
func AdjustReturnPeriod(baseReturnPeriod, freqMultiplier float64) float64 {
	if freqMultiplier <= 0 {
		return baseReturnPeriod
	}
	return baseReturnPeriod / freqMultiplier
}

// SeaLevelRiseMM is the cumulative sea-level rise in mm from 2020 to the
// target year, integrating the warming-dependent annual rate.
func SeaLevelRiseMM(scenario string, year int) float64 {
	if year <= slrBaseYear {
		return 0
	}
	total := 0.0
	for y := slrBaseYear + 1; y <= year; y++ {
		total += slrBaseRateMMPerYear + slrRatePerDegree*WarmingDelta(scenario, y)
	}
	return total
}
