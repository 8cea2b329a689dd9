package transition

import (
	"context"
	"math"
	"sort"

	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/registry"
)

// TopRiskFacility is one row of the summary's worst-five list.
type TopRiskFacility struct {
	FacilityID string  `json:"facility_id"`
	Name       string  `json:"name"`
	Sector     string  `json:"sector"`
	DeltaNPV   float64 `json:"delta_npv"`
	RiskLevel  string  `json:"risk_level"`
}

// CostBreakdown aggregates the final-year cost components across the
// portfolio.
type CostBreakdown struct {
	CarbonCost         float64 `json:"carbon_cost"`
	EnergyCostIncrease float64 `json:"energy_cost_increase"`
	RevenueImpact      float64 `json:"revenue_impact"`
	TransitionOpex     float64 `json:"transition_opex"`
}

// Summary condenses an analysis into portfolio-level headline figures.
type Summary struct {
	Scenario               string            `json:"scenario"`
	ScenarioName           string            `json:"scenario_name"`
	TotalFacilities        int               `json:"total_facilities"`
	TotalBaselineEmissions float64           `json:"total_baseline_emissions"`
	TotalNPV               float64           `json:"total_npv"`
	HighRiskCount          int               `json:"high_risk_count"`
	MediumRiskCount        int               `json:"medium_risk_count"`
	LowRiskCount           int               `json:"low_risk_count"`
	TopRiskFacilities      []TopRiskFacility `json:"top_risk_facilities"`
	CostBreakdown          CostBreakdown     `json:"cost_breakdown"`
	Warnings               []string          `json:"warnings,omitempty"`
}

// NPVComparisonEntry is one scenario's headline in a comparison.
type NPVComparisonEntry struct {
	Scenario     string  `json:"scenario"`
	ScenarioName string  `json:"scenario_name"`
	TotalNPV     float64 `json:"total_npv"`
	AvgRiskLevel string  `json:"avg_risk_level"`
}

// YearEmissions is one year of an aggregated portfolio pathway.
type YearEmissions struct {
	Year           int     `json:"year"`
	TotalEmissions float64 `json:"total_emissions"`
}

// YearCost is one year of the aggregated cost trend.
type YearCost struct {
	Year      int     `json:"year"`
	TotalCost float64 `json:"total_cost"`
}

// RiskCounts is the portfolio risk-level distribution for one scenario.
type RiskCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Comparison lines up all four NGFS scenarios side by side.
type Comparison struct {
	Scenarios        []string                   `json:"scenarios"`
	NPVComparison    []NPVComparisonEntry       `json:"npv_comparison"`
	EmissionPathways map[string][]YearEmissions `json:"emission_pathways"`
	RiskDistribution map[string]RiskCounts      `json:"risk_distribution"`
	CostTrends       map[string][]YearCost      `json:"cost_trends"`
}

// Summarise runs an analysis and reduces it to the portfolio summary.
func (e *Engine) Summarise(ctx context.Context, facilities []domain.Facility, scenario, regime string) (*Summary, error) {
	analysis, err := e.Analyse(ctx, facilities, scenario, regime)
	if err != nil {
		return nil, err
	}

	s := &Summary{
		Scenario:               analysis.Scenario,
		ScenarioName:           analysis.ScenarioName,
		TotalFacilities:        len(analysis.Facilities),
		TotalBaselineEmissions: analysis.TotalBaselineEmissions,
		TotalNPV:               analysis.TotalNPV,
		Warnings:               analysis.Warnings,
	}

	for _, f := range analysis.Facilities {
		switch f.RiskLevel {
		case domain.RiskHigh:
			s.HighRiskCount++
		case domain.RiskMedium:
			s.MediumRiskCount++
		default:
			s.LowRiskCount++
		}
		if n := len(f.AnnualImpacts); n > 0 {
			last := f.AnnualImpacts[n-1]
			s.CostBreakdown.CarbonCost += last.CarbonCost
			s.CostBreakdown.EnergyCostIncrease += last.EnergyCostIncrease
			s.CostBreakdown.RevenueImpact += last.RevenueImpact
			s.CostBreakdown.TransitionOpex += last.TransitionOpex
		}
	}

	// Worst five by dNPV (most negative first).
	ranked := make([]FacilityResult, len(analysis.Facilities))
	copy(ranked, analysis.Facilities)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].DeltaNPV < ranked[j].DeltaNPV })
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	for _, f := range ranked {
		s.TopRiskFacilities = append(s.TopRiskFacilities, TopRiskFacility{
			FacilityID: f.FacilityID,
			Name:       f.FacilityName,
			Sector:     f.Sector,
			DeltaNPV:   f.DeltaNPV,
			RiskLevel:  f.RiskLevel,
		})
	}
	return s, nil
}

// CompareScenarios analyses the portfolio under all four scenarios.
func (e *Engine) CompareScenarios(ctx context.Context, facilities []domain.Facility, regime string) (*Comparison, error) {
	ids := registry.ScenarioIDs()
	cmp := &Comparison{
		Scenarios:        ids,
		EmissionPathways: make(map[string][]YearEmissions, len(ids)),
		RiskDistribution: make(map[string]RiskCounts, len(ids)),
		CostTrends:       make(map[string][]YearCost, len(ids)),
	}

	for _, id := range ids {
		analysis, err := e.Analyse(ctx, facilities, id, regime)
		if err != nil {
			return nil, err
		}

		cmp.NPVComparison = append(cmp.NPVComparison, NPVComparisonEntry{
			Scenario:     id,
			ScenarioName: analysis.ScenarioName,
			TotalNPV:     analysis.TotalNPV,
			AvgRiskLevel: analysis.AvgRiskLevel,
		})

		var counts RiskCounts
		emissionByYear := map[int]float64{}
		costByYear := map[int]float64{}
		for _, f := range analysis.Facilities {
			switch f.RiskLevel {
			case domain.RiskHigh:
				counts.High++
			case domain.RiskMedium:
				counts.Medium++
			default:
				counts.Low++
			}
			for _, pt := range f.EmissionPathway {
				emissionByYear[pt.Year] += pt.TotalEmissions
			}
			for _, ai := range f.AnnualImpacts {
				costByYear[ai.Year] += math.Abs(ai.DeltaEBITDA)
			}
		}
		cmp.RiskDistribution[id] = counts

		for year := registry.AnalysisStartYear; year <= registry.AnalysisEndYear; year++ {
			cmp.EmissionPathways[id] = append(cmp.EmissionPathways[id], YearEmissions{
				Year:           year,
				TotalEmissions: emissionByYear[year],
			})
			cmp.CostTrends[id] = append(cmp.CostTrends[id], YearCost{
				Year:      year,
				TotalCost: costByYear[year],
			})
		}
	}
	return cmp, nil
}
