package openmeteo

import (
	"fmt"

	"github.com/kclimate/krisk/internal/riskmath"
)

const (
	// minYears is the minimum number of usable years for any derivation.
	minYears = 5

	// heatwaveThresholdC follows the KMA heatwave warning criterion.
	heatwaveThresholdC = 33.0

	// dryDayThresholdMM: days below this precipitation count as dry.
	dryDayThresholdMM = 1.0

	daysPerYear = 365
)

// deriveBaselines turns 30 years of daily observations into the statistics
// the hazard models consume. The Gumbel fit is mandatory; the remaining
// derivations degrade to nil and the per-hazard regional defaults.
func deriveBaselines(tmax, precip, wind []*float64) (*Baselines, error) {
	mu, sigma, err := fitPrecipitationGumbel(precip)
	if err != nil {
		return nil, err
	}
	b := &Baselines{GumbelLocation: mu, GumbelScale: sigma}
	if hw, ok := heatwaveDaysPerYear(tmax); ok {
		b.HeatwaveDays = &hw
	}
	if dd, ok := droughtSpellDays(precip); ok {
		b.DroughtDays = &dd
	}
	if w, ok := annualMaxMean(wind); ok {
		b.WindAnnualMax = &w
	}
	return b, nil
}

// annualMaxima splits a daily series into 365-day blocks and takes each
// block's maximum, skipping nil and negative observations. A trailing
// partial year still contributes its maximum.
func annualMaxima(daily []*float64) []float64 {
	var maxima []float64
	best, seen := 0.0, false
	days := 0
	for _, v := range daily {
		if v != nil && *v >= 0 {
			if !seen || *v > best {
				best, seen = *v, true
			}
		}
		days++
		if days >= daysPerYear {
			if seen {
				maxima = append(maxima, best)
			}
			best, seen = 0, false
			days = 0
		}
	}
	if seen {
		maxima = append(maxima, best)
	}
	return maxima
}

// fitPrecipitationGumbel fits Gumbel Type I parameters to the annual
// precipitation maxima by the method of moments.
func fitPrecipitationGumbel(precip []*float64) (mu, sigma float64, err error) {
	maxima := annualMaxima(precip)
	if len(maxima) < minYears {
		return 0, 0, fmt.Errorf("gumbel fit needs %d years of precipitation, got %d", minYears, len(maxima))
	}
	mu, sigma = riskmath.FitGumbel(maxima)
	return mu, sigma, nil
}

// heatwaveDaysPerYear is the mean annual count of days whose maximum
// temperature exceeds the KMA heatwave threshold.
func heatwaveDaysPerYear(tmax []*float64) (float64, bool) {
	total, yearCount := 0, 0
	yearHits, days := 0, 0
	for _, v := range tmax {
		if v != nil && *v > heatwaveThresholdC {
			yearHits++
		}
		days++
		if days >= daysPerYear {
			total += yearHits
			yearCount++
			yearHits, days = 0, 0
		}
	}
	// A trailing majority of a year still counts.
	if days > daysPerYear/2 {
		total += yearHits
		yearCount++
	}
	if yearCount < minYears {
		return 0, false
	}
	return float64(total) / float64(yearCount), true
}

// droughtSpellDays is the mean annual longest run of consecutive dry days.
func droughtSpellDays(precip []*float64) (float64, bool) {
	var spells []int
	current, longest := 0, 0
	days := 0
	for _, v := range precip {
		if v != nil && *v < dryDayThresholdMM {
			current++
		} else {
			if current > longest {
				longest = current
			}
			current = 0
		}
		days++
		if days >= daysPerYear {
			if current > longest {
				longest = current
			}
			spells = append(spells, longest)
			current, longest = 0, 0
			days = 0
		}
	}
	if days > daysPerYear/2 {
		if current > longest {
			longest = current
		}
		spells = append(spells, longest)
	}
	if len(spells) < minYears {
		return 0, false
	}
	sum := 0
	for _, s := range spells {
		sum += s
	}
	return float64(sum) / float64(len(spells)), true
}

// annualMaxMean is the mean of the annual maximum wind speeds, used to
// modulate typhoon frequency.
func annualMaxMean(wind []*float64) (float64, bool) {
	maxima := annualMaxima(wind)
	if len(maxima) < minYears {
		return 0, false
	}
	sum := 0.0
	for _, m := range maxima {
		sum += m
	}
	return sum / float64(len(maxima)), true
}
