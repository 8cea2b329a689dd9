package physical

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kclimate/krisk/internal/clients/openmeteo"
	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/registry"
)

func coastalFacility() domain.Facility {
	return domain.Facility{
		FacilityID: "ULSAN-001",
		Name:       "Ulsan Petrochemical Complex",
		Company:    "KRX Chem",
		Sector:     "steel",
		Location:   "Ulsan",
		Latitude:   35.5,
		Longitude:  129.0,
		Scope1:     1_000_000,
		Scope2:     200_000,
		Revenue:    3e8,
		EBITDA:     6e7,
		AssetValue: 1e9,
	}
}

func newTestEngine(weather WeatherSource) *Engine {
	return NewEngine(weather, zerolog.Nop())
}

type stubWeather struct {
	baselines *openmeteo.Baselines
	err       error
	calls     int
}

func (s *stubWeather) FetchStats(ctx context.Context, lat, lon float64) (*openmeteo.Baselines, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.baselines, nil
}

func TestRegionType(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     string
	}{
		{"Busan", 35.1, 129.1, registry.RegionCoastalEast},
		{"Yeosu", 34.76, 127.66, registry.RegionCoastalSouth},
		{"Ulsan boundary", 35.5, 129.0, registry.RegionCoastalEast},
		{"Pohang", 36.02, 129.34, registry.RegionCoastalEast},
		{"Incheon", 37.45, 126.65, registry.RegionCoastalWest},
		{"Danyang", 36.98, 128.37, registry.RegionMountain},
		{"Gumi", 36.12, 128.33, registry.RegionInlandSouth},
		{"Hwaseong", 37.2, 127.0, registry.RegionInlandCentral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RegionType(tt.lat, tt.lon))
		})
	}
}

func TestCoastalFloodAndTyphoon(t *testing.T) {
	engine := newTestEngine(nil)

	a, err := engine.Assess(context.Background(), []domain.Facility{coastalFacility()}, "below_2c", 2040, false)
	require.NoError(t, err)
	require.Len(t, a.Facilities, 1)
	fac := a.Facilities[0]

	assert.Equal(t, registry.RegionCoastalEast, fac.RegionType)
	assert.Equal(t, openmeteo.DataSourceFallback, fac.DataSource)

	byType := map[string]HazardRisk{}
	for _, h := range fac.Hazards {
		byType[h.HazardType] = h
	}

	acute := byType["flood"].PotentialLoss + byType["typhoon"].PotentialLoss
	assert.GreaterOrEqual(t, acute, 2e7)
	assert.LessOrEqual(t, acute, 5e7)
	assert.Equal(t, domain.RiskHigh, byType["typhoon"].RiskLevel)
	assert.Equal(t, domain.RiskHigh, fac.OverallRiskLevel)

	// Heatwave: 10 baseline days + 4 per degree at +0.6C, steel 30% outdoor.
	wantHeatwave := (10 + 4*0.6) * 0.30 * 3e8 * 0.004
	assert.InDelta(t, wantHeatwave, byType["heatwave"].PotentialLoss, 1)

	// Coastal site carries a nonzero sea-level-rise loss.
	assert.Positive(t, byType["sea_level_rise"].PotentialLoss)

	assert.InDelta(t, 1.7, a.WarmingAbovePreindustrial, 1e-9)
	assert.Equal(t, "analytical_v1", a.ModelStatus)
}

func TestHazardOrderCanonical(t *testing.T) {
	engine := newTestEngine(nil)

	a, err := engine.Assess(context.Background(), []domain.Facility{coastalFacility()}, "below_2c", 2040, false)
	require.NoError(t, err)
	var got []string
	for _, h := range a.Facilities[0].Hazards {
		got = append(got, h.HazardType)
	}
	assert.Equal(t, HazardTypes, got)
}

func TestAssessDeterministic(t *testing.T) {
	engine := newTestEngine(nil)
	facilities := []domain.Facility{coastalFacility()}
	inland := coastalFacility()
	inland.FacilityID = "GUMI-001"
	inland.Latitude, inland.Longitude = 36.12, 128.33
	facilities = append(facilities, inland)

	first, err := engine.Assess(context.Background(), facilities, "current_policies", 2035, false)
	require.NoError(t, err)
	second, err := engine.Assess(context.Background(), facilities, "current_policies", 2035, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAssessPreservesInputOrder(t *testing.T) {
	engine := newTestEngine(nil)
	var facilities []domain.Facility
	ids := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	for i, id := range ids {
		f := coastalFacility()
		f.FacilityID = id
		f.Latitude = 35.0 + float64(i)*0.3
		facilities = append(facilities, f)
	}

	a, err := engine.Assess(context.Background(), facilities, "below_2c", 2040, false)
	require.NoError(t, err)
	require.Len(t, a.Facilities, len(ids))
	for i, id := range ids {
		assert.Equal(t, id, a.Facilities[i].FacilityID)
	}
}

func TestInlandSeaLevelRiseIsZero(t *testing.T) {
	engine := newTestEngine(nil)
	f := coastalFacility()
	f.Latitude, f.Longitude = 37.2, 127.0

	a, err := engine.Assess(context.Background(), []domain.Facility{f}, "current_policies", 2050, false)
	require.NoError(t, err)
	for _, h := range a.Facilities[0].Hazards {
		if h.HazardType == "sea_level_rise" {
			assert.Zero(t, h.PotentialLoss)
			assert.Equal(t, domain.RiskLow, h.RiskLevel)
		}
	}
}

func TestLiveWeatherOverridesBaselines(t *testing.T) {
	hw := 25.0
	weather := &stubWeather{baselines: &openmeteo.Baselines{
		GumbelLocation: 240,
		GumbelScale:    60,
		HeatwaveDays:   &hw,
	}}
	engine := newTestEngine(weather)

	a, err := engine.Assess(context.Background(), []domain.Facility{coastalFacility()}, "below_2c", 2040, true)
	require.NoError(t, err)
	fac := a.Facilities[0]

	assert.Equal(t, 1, weather.calls)
	assert.Equal(t, openmeteo.DataSourceAPI, fac.DataSource)
	assert.Equal(t, openmeteo.DataSourceAPI, a.DataSource)
	assert.Empty(t, a.Warnings)

	// Observed 25 heatwave days replace the regional 10.
	for _, h := range fac.Hazards {
		if h.HazardType == "heatwave" {
			want := (25 + 4*0.6) * 0.30 * 3e8 * 0.004
			assert.InDelta(t, want, h.PotentialLoss, 1)
		}
	}
}

func TestWeatherFailureDegradesToDefaults(t *testing.T) {
	weather := &stubWeather{err: errors.New("upstream 502")}
	engine := newTestEngine(weather)

	a, err := engine.Assess(context.Background(), []domain.Facility{coastalFacility()}, "below_2c", 2040, true)
	require.NoError(t, err)

	assert.Equal(t, openmeteo.DataSourceFallback, a.Facilities[0].DataSource)
	require.Len(t, a.Warnings, 1)
	assert.Contains(t, a.Warnings[0], "regional defaults")

	// The assessment itself matches an offline run.
	offline, err := engine.Assess(context.Background(), []domain.Facility{coastalFacility()}, "below_2c", 2040, false)
	require.NoError(t, err)
	assert.Equal(t, offline.Facilities[0].Hazards, a.Facilities[0].Hazards)
}

func TestAssessValidation(t *testing.T) {
	engine := newTestEngine(nil)
	_, err := engine.Assess(context.Background(), nil, "rcp26", 2040, false)
	assert.ErrorIs(t, err, domain.ErrInvalidScenario)
}

func TestAssessCancellation(t *testing.T) {
	engine := newTestEngine(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Assess(ctx, []domain.Facility{coastalFacility()}, "below_2c", 2040, false)
	assert.ErrorIs(t, err, domain.ErrCancelled)
}

func TestCompoundAdjustment(t *testing.T) {
	hazards := []HazardRisk{
		{HazardType: "flood", PotentialLoss: 1e7},
		{HazardType: "typhoon", PotentialLoss: 2e7},
	}
	// 3e7 plus 0.40 * sqrt(1e7 * 2e7).
	want := 3e7 + 0.40*1.4142135623730951e7
	assert.InDelta(t, want, compoundAdjustedEAL(hazards), 1)

	// Never negative.
	anti := []HazardRisk{
		{HazardType: "flood", PotentialLoss: 1},
		{HazardType: "drought", PotentialLoss: 1},
	}
	assert.GreaterOrEqual(t, compoundAdjustedEAL(anti), 0.0)
}
