package transition

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/registry"
)

func steelFacility() domain.Facility {
	return domain.Facility{
		FacilityID: "POSCO-001",
		Name:       "Pohang Steel Works",
		Company:    "POSCO",
		Sector:     "steel",
		Location:   "Pohang",
		Latitude:   36.0190,
		Longitude:  129.3435,
		Scope1:     5_000_000,
		Scope2:     1_000_000,
		Scope3:     0,
		Revenue:    1e10,
		EBITDA:     1.5e9,
		AssetValue: 1.2e10,
	}
}

func newTestEngine() *Engine {
	return NewEngine(registry.DefaultDiscountRate, zerolog.Nop())
}

func TestEmissionPathwayHitsTarget(t *testing.T) {
	engine := newTestEngine()
	f := steelFacility()

	for _, scenario := range registry.ScenarioIDs() {
		sc, err := registry.GetScenario(scenario)
		require.NoError(t, err)

		analysis, err := engine.Analyse(context.Background(), []domain.Facility{f}, scenario, registry.RegimeGlobal)
		require.NoError(t, err)
		require.Len(t, analysis.Facilities, 1)
		pathway := analysis.Facilities[0].EmissionPathway
		require.Len(t, pathway, 26)

		// Monotone non-increasing emissions.
		for i := 1; i < len(pathway); i++ {
			assert.LessOrEqual(t, pathway[i].TotalEmissions, pathway[i-1].TotalEmissions,
				"%s year %d", scenario, pathway[i].Year)
		}

		// Final year lands on the scenario target within 1%.
		want := (1 - sc.ReductionTarget) * f.TotalEmissions()
		got := pathway[len(pathway)-1].TotalEmissions
		assert.InEpsilon(t, want, got, 0.01, scenario)
	}
}

func TestDeltaNPVNonPositive(t *testing.T) {
	engine := newTestEngine()
	f := steelFacility()

	for _, scenario := range registry.ScenarioIDs() {
		for _, regime := range []string{registry.RegimeGlobal, registry.RegimeKETS} {
			analysis, err := engine.Analyse(context.Background(), []domain.Facility{f}, scenario, regime)
			require.NoError(t, err)
			assert.LessOrEqual(t, analysis.Facilities[0].DeltaNPV, 0.0, "%s/%s", scenario, regime)
		}
	}
}

func TestSteelUnderNetZeroGlobal(t *testing.T) {
	engine := newTestEngine()

	analysis, err := engine.Analyse(context.Background(), []domain.Facility{steelFacility()}, "net_zero_2050", registry.RegimeGlobal)
	require.NoError(t, err)
	require.Len(t, analysis.Facilities, 1)
	result := analysis.Facilities[0]

	assert.GreaterOrEqual(t, result.DeltaNPV, -2.5e10)
	assert.LessOrEqual(t, result.DeltaNPV, -1.5e10)
	assert.Equal(t, domain.RiskHigh, result.RiskLevel)
	assert.Empty(t, analysis.Warnings)
}

func TestCurrentPoliciesMateriallySmaller(t *testing.T) {
	engine := newTestEngine()
	f := []domain.Facility{steelFacility()}
	ctx := context.Background()

	netZero, err := engine.Analyse(ctx, f, "net_zero_2050", registry.RegimeGlobal)
	require.NoError(t, err)
	current, err := engine.Analyse(ctx, f, "current_policies", registry.RegimeGlobal)
	require.NoError(t, err)

	// At least 40% smaller in magnitude.
	assert.LessOrEqual(t, math.Abs(current.TotalNPV), 0.6*math.Abs(netZero.TotalNPV))

	// And the smallest of all four scenarios.
	for _, scenario := range registry.ScenarioIDs() {
		a, err := engine.Analyse(ctx, f, scenario, registry.RegimeGlobal)
		require.NoError(t, err)
		assert.LessOrEqual(t, math.Abs(current.TotalNPV), math.Abs(a.TotalNPV), scenario)
	}
}

func TestKETSFreeAllocationSoftensImpact(t *testing.T) {
	engine := newTestEngine()
	f := []domain.Facility{steelFacility()}
	ctx := context.Background()

	global, err := engine.Analyse(ctx, f, "net_zero_2050", registry.RegimeGlobal)
	require.NoError(t, err)
	kets, err := engine.Analyse(ctx, f, "net_zero_2050", registry.RegimeKETS)
	require.NoError(t, err)

	assert.Less(t, math.Abs(kets.TotalNPV), math.Abs(global.TotalNPV))

	impacts := kets.Facilities[0].AnnualImpacts
	var prevExcess float64
	for i, ai := range impacts {
		require.NotNil(t, ai.KETSFreeAllocation, "year %d", ai.Year)
		require.NotNil(t, ai.KETSExcessEmissions, "year %d", ai.Year)
		require.NotNil(t, ai.KETSPriceKRW, "year %d", ai.Year)
		assert.GreaterOrEqual(t, *ai.KETSExcessEmissions, 0.0)
		if i > 0 {
			assert.GreaterOrEqual(t, *ai.KETSExcessEmissions, prevExcess,
				"excess emissions must not shrink as allocation tightens")
		}
		prevExcess = *ai.KETSExcessEmissions
	}

	// The global regime never carries the K-ETS fields.
	for _, ai := range global.Facilities[0].AnnualImpacts {
		assert.Nil(t, ai.KETSFreeAllocation)
		assert.Nil(t, ai.KETSExcessEmissions)
		assert.Nil(t, ai.KETSPriceKRW)
	}
}

func TestScope3Impact(t *testing.T) {
	engine := newTestEngine()
	f := steelFacility()
	f.Scope3 = 2_000_000

	analysis, err := engine.Analyse(context.Background(), []domain.Facility{f}, "net_zero_2050", registry.RegimeGlobal)
	require.NoError(t, err)

	impacts := analysis.Facilities[0].AnnualImpacts
	// steel: 8% scope 3 exposure; 2030 price is 130.
	for _, ai := range impacts {
		if ai.Year == 2030 {
			assert.InDelta(t, 2_000_000*130*0.08, ai.Scope3Impact, 1e-6)
		}
	}
}

func TestUnknownSectorAnalysedWithWarning(t *testing.T) {
	engine := newTestEngine()
	f := steelFacility()
	f.Sector = "agriculture"

	analysis, err := engine.Analyse(context.Background(), []domain.Facility{f}, "below_2c", registry.RegimeGlobal)
	require.NoError(t, err)
	require.Len(t, analysis.Warnings, 1)
	assert.Contains(t, analysis.Warnings[0], "agriculture")
	assert.Len(t, analysis.Facilities, 1)
}

func TestAnalyseValidation(t *testing.T) {
	engine := newTestEngine()
	ctx := context.Background()

	_, err := engine.Analyse(ctx, nil, "rcp85", registry.RegimeGlobal)
	assert.ErrorIs(t, err, domain.ErrInvalidScenario)

	_, err = engine.Analyse(ctx, nil, "net_zero_2050", "eu_ets")
	assert.ErrorIs(t, err, domain.ErrInvalidRegime)
}

func TestAnalyseCancellation(t *testing.T) {
	engine := newTestEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Analyse(ctx, []domain.Facility{steelFacility()}, "net_zero_2050", registry.RegimeGlobal)
	assert.ErrorIs(t, err, domain.ErrCancelled)
}

func TestSummarise(t *testing.T) {
	engine := newTestEngine()
	low := steelFacility()
	low.FacilityID = "FIN-001"
	low.Name = "Seoul HQ"
	low.Sector = "financial"
	low.Scope1, low.Scope2 = 1_000, 2_000

	s, err := engine.Summarise(context.Background(),
		[]domain.Facility{steelFacility(), low}, "net_zero_2050", registry.RegimeGlobal)
	require.NoError(t, err)

	assert.Equal(t, 2, s.TotalFacilities)
	assert.Equal(t, s.TotalFacilities, s.HighRiskCount+s.MediumRiskCount+s.LowRiskCount)
	require.NotEmpty(t, s.TopRiskFacilities)
	// Worst facility first.
	assert.Equal(t, "POSCO-001", s.TopRiskFacilities[0].FacilityID)
	assert.Positive(t, s.CostBreakdown.CarbonCost)
	assert.Positive(t, s.CostBreakdown.TransitionOpex)
}

func TestCompareScenarios(t *testing.T) {
	engine := newTestEngine()

	cmp, err := engine.CompareScenarios(context.Background(),
		[]domain.Facility{steelFacility()}, registry.RegimeGlobal)
	require.NoError(t, err)

	assert.ElementsMatch(t, registry.ScenarioIDs(), cmp.Scenarios)
	assert.Len(t, cmp.NPVComparison, 4)
	for _, id := range cmp.Scenarios {
		assert.Len(t, cmp.EmissionPathways[id], 26)
		assert.Len(t, cmp.CostTrends[id], 26)
		counts := cmp.RiskDistribution[id]
		assert.Equal(t, 1, counts.High+counts.Medium+counts.Low)
	}
}
