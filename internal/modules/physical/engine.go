// Package physical implements the physical-risk engine: per-facility
// evaluation of acute and chronic climate hazards (flood, typhoon, heatwave,
// drought, sea-level rise) against coordinates, asset value and revenue,
// optionally grounded in 30-year weather observations.
package physical

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kclimate/krisk/internal/clients/openmeteo"
	"github.com/kclimate/krisk/internal/climate"
	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/registry"
)

// defaultWorkerLimit bounds the per-request facility fan-out.
const defaultWorkerLimit = 4

// modelStatus identifies the methodology generation in responses.
const modelStatus = "analytical_v1"

// WeatherSource is the slice of the weather client the engine needs.
type WeatherSource interface {
	FetchStats(ctx context.Context, lat, lon float64) (*openmeteo.Baselines, error)
}

// FacilityRisk is the full hazard profile of one facility.
type FacilityRisk struct {
	FacilityID              string       `json:"facility_id"`
	FacilityName            string       `json:"facility_name"`
	Location                string       `json:"location"`
	Latitude                float64      `json:"latitude"`
	Longitude               float64      `json:"longitude"`
	RegionType              string       `json:"region_type"`
	OverallRiskLevel        string       `json:"overall_risk_level"`
	Hazards                 []HazardRisk `json:"hazards"`
	TotalExpectedAnnualLoss float64      `json:"total_expected_annual_loss"`
	DataSource              string       `json:"data_source"`
}

// RiskCounts is the portfolio distribution of overall risk levels.
type RiskCounts struct {
	High   int `json:"High"`
	Medium int `json:"Medium"`
	Low    int `json:"Low"`
}

// Assessment is the portfolio-level physical risk result.
type Assessment struct {
	TotalFacilities           int            `json:"total_facilities"`
	OverallRiskSummary        RiskCounts     `json:"overall_risk_summary"`
	Facilities                []FacilityRisk `json:"facilities"`
	ModelStatus               string         `json:"model_status"`
	Scenario                  string         `json:"scenario"`
	AssessmentYear            int            `json:"assessment_year"`
	WarmingAbovePreindustrial float64        `json:"warming_above_preindustrial"`
	DataSource                string         `json:"data_source"`
	Warnings                  []string       `json:"warnings,omitempty"`
}

// Engine runs physical-risk assessments. Safe for concurrent use.
type Engine struct {
	weather     WeatherSource
	workerLimit int
	log         zerolog.Logger
}

// NewEngine creates a physical engine. weather may be nil, in which case
// live fetches are skipped and regional defaults are always used.
func NewEngine(weather WeatherSource, log zerolog.Logger) *Engine {
	return &Engine{
		weather:     weather,
		workerLimit: defaultWorkerLimit,
		log:         log.With().Str("engine", "physical").Logger(),
	}
}

// Assess evaluates every hazard for every facility. Facilities fan out over
// a bounded worker pool; results are collected in input order so the output
// is deterministic. With useLiveWeather, a failed or timed-out fetch only
// degrades the affected facility to regional defaults.
func (e *Engine) Assess(ctx context.Context, facilities []domain.Facility, scenario string, year int, useLiveWeather bool) (*Assessment, error) {
	if err := registry.ValidateScenario(scenario); err != nil {
		return nil, err
	}

	results := make([]FacilityRisk, len(facilities))
	fallbacks := make([]string, len(facilities))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerLimit)
	for i := range facilities {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			f := &facilities[i]

			var baselines *openmeteo.Baselines
			if useLiveWeather && e.weather != nil {
				var err error
				baselines, err = e.weather.FetchStats(gctx, f.Latitude, f.Longitude)
				if err != nil {
					if ctxErr := gctx.Err(); ctxErr != nil {
						return ctxErr
					}
					baselines = nil
					fallbacks[i] = fmt.Sprintf("(%.2f, %.2f)", f.Latitude, f.Longitude)
				}
			}
			results[i] = e.assessFacility(f, scenario, year, baselines)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, mapContextErr(err)
	}

	assessment := &Assessment{
		TotalFacilities:           len(results),
		Facilities:                results,
		ModelStatus:               modelStatus,
		Scenario:                  scenario,
		AssessmentYear:            year,
		WarmingAbovePreindustrial: climate.WarmingAt(scenario, year),
		DataSource:                openmeteo.DataSourceFallback,
	}
	if useLiveWeather {
		assessment.DataSource = openmeteo.DataSourceAPI
	}
	for _, r := range results {
		switch r.OverallRiskLevel {
		case domain.RiskHigh:
			assessment.OverallRiskSummary.High++
		case domain.RiskMedium:
			assessment.OverallRiskSummary.Medium++
		default:
			assessment.OverallRiskSummary.Low++
		}
	}
	for _, coord := range fallbacks {
		if coord != "" {
			assessment.Warnings = append(assessment.Warnings,
				fmt.Sprintf("weather fetch failed for %s: regional defaults used", coord))
		}
	}

	e.log.Debug().
		Str("scenario", scenario).
		Int("year", year).
		Int("facilities", len(results)).
		Bool("live_weather", useLiveWeather).
		Msg("physical assessment complete")

	return assessment, nil
}

func (e *Engine) assessFacility(f *domain.Facility, scenario string, year int, baselines *openmeteo.Baselines) FacilityRisk {
	region := RegionType(f.Latitude, f.Longitude)

	hazards := []HazardRisk{
		floodRisk(f, region, scenario, year, baselines),
		typhoonRisk(f, region, scenario, year, baselines),
		heatwaveRisk(f, region, scenario, year, baselines),
		droughtRisk(f, region, scenario, year, baselines),
		seaLevelRiseRisk(f, region, scenario, year),
	}

	totalEAL := compoundAdjustedEAL(hazards)

	overall := domain.RiskLow
	for _, h := range hazards {
		overall = domain.MaxRiskLevel(overall, h.RiskLevel)
	}

	source := openmeteo.DataSourceFallback
	if baselines != nil {
		source = openmeteo.DataSourceAPI
	}

	return FacilityRisk{
		FacilityID:              f.FacilityID,
		FacilityName:            f.Name,
		Location:                f.Location,
		Latitude:                f.Latitude,
		Longitude:               f.Longitude,
		RegionType:              region,
		OverallRiskLevel:        overall,
		Hazards:                 hazards,
		TotalExpectedAnnualLoss: totalEAL,
		DataSource:              source,
	}
}

func mapContextErr(err error) error {
	if err == context.DeadlineExceeded {
		return domain.ErrDeadlineExceeded
	}
	if err == context.Canceled {
		return domain.ErrCancelled
	}
	return err
}
