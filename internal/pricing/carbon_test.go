package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/registry"
)

func TestGlobalPriceUSD(t *testing.T) {
	// Calibration points are returned exactly.
	assert.InDelta(t, 130.0, GlobalPriceUSD("net_zero_2050", 2030), 1e-9)
	assert.InDelta(t, 80.0, GlobalPriceUSD("current_policies", 2050), 1e-9)

	// Between points, linear: net zero 2026 is midway between 75 and 100.
	assert.InDelta(t, 87.5, GlobalPriceUSD("net_zero_2050", 2026), 1e-9)

	// Clamped outside the calibration range.
	assert.InDelta(t, 65.0, GlobalPriceUSD("net_zero_2050", 2010), 1e-9)
	assert.InDelta(t, 250.0, GlobalPriceUSD("net_zero_2050", 2080), 1e-9)
}

func TestKETSBlendedPrice(t *testing.T) {
	// 2030 net zero: own path 55,000 KRW, converted global 130/0.00075.
	converted := 130.0 / registry.KETSKRWToUSD
	want := 0.5*converted + 0.5*55000.0
	assert.InDelta(t, want, KETSPriceKRW("net_zero_2050", 2030), 1e-6)

	// The Korean allowance stays below the global benchmark in USD terms.
	for _, scenario := range registry.ScenarioIDs() {
		for year := 2025; year <= 2050; year += 5 {
			kets, err := PriceAt(scenario, registry.RegimeKETS, year)
			require.NoError(t, err)
			global, err := PriceAt(scenario, registry.RegimeGlobal, year)
			require.NoError(t, err)
			assert.Less(t, kets, global, "%s %d", scenario, year)
			assert.Positive(t, kets)
		}
	}
}

func TestPriceAtValidation(t *testing.T) {
	_, err := PriceAt("rcp85", registry.RegimeGlobal, 2030)
	assert.ErrorIs(t, err, domain.ErrInvalidScenario)

	_, err = PriceAt("net_zero_2050", "eu_ets", 2030)
	assert.ErrorIs(t, err, domain.ErrInvalidRegime)
}

func TestBuildPath(t *testing.T) {
	path, err := BuildPath("net_zero_2050", registry.RegimeGlobal, 2025, 2050)
	require.NoError(t, err)
	require.Len(t, path, 26)
	assert.Equal(t, 2025, path[0].Year)
	assert.Equal(t, 2050, path[25].Year)

	// Prices never fall along the path.
	for i := 1; i < len(path); i++ {
		assert.GreaterOrEqual(t, path[i].Price, path[i-1].Price)
	}

	_, err = BuildPath("net_zero_2050", "voluntary", 2025, 2050)
	assert.ErrorIs(t, err, domain.ErrInvalidRegime)
}

func TestAllocationFraction(t *testing.T) {
	// Steel starts at 97% free allocation and tightens 1pp a year.
	assert.InDelta(t, 0.97, AllocationFraction("steel", 2024), 1e-9)
	assert.InDelta(t, 0.91, AllocationFraction("steel", 2030), 1e-9)

	// Monotone non-increasing, bounded below by zero.
	prev := 1.1
	for year := 2024; year <= 2150; year++ {
		frac := AllocationFraction("steel", year)
		assert.LessOrEqual(t, frac, prev)
		assert.GreaterOrEqual(t, frac, 0.0)
		prev = frac
	}
	assert.Zero(t, AllocationFraction("steel", 2150))

	// Before the base year the schedule has not started tightening.
	assert.InDelta(t, 0.97, AllocationFraction("steel", 2020), 1e-9)

	// Unknown sectors use the default schedule.
	assert.InDelta(t, 0.85, AllocationFraction("agriculture", 2024), 1e-9)
}

func TestMarginalAbatementCostStackWalk(t *testing.T) {
	// Steel at 2025, 10% reduction: covered by energy efficiency alone at
	// its learning-adjusted cost, 15 x 0.98^5.
	assert.InDelta(t, 13.559, MarginalAbatementCost("steel", 0.10, 2025), 0.01)

	// Deeper reductions climb the stack.
	shallow := MarginalAbatementCost("steel", 0.10, 2030)
	mid := MarginalAbatementCost("steel", 0.50, 2030)
	deep := MarginalAbatementCost("steel", 0.90, 2030)
	assert.Less(t, shallow, mid)
	assert.Less(t, mid, deep)

	// Beyond stack capacity the backstop penalty kicks in.
	assert.Greater(t, MarginalAbatementCost("steel", 0.99, 2030), deep)

	// Learning makes the same reduction cheaper later.
	assert.Less(t,
		MarginalAbatementCost("utilities", 0.50, 2040),
		MarginalAbatementCost("utilities", 0.50, 2030))

	// No reduction, no cost.
	assert.Zero(t, MarginalAbatementCost("steel", 0, 2030))
}

func TestMarginalAbatementCostFallbacks(t *testing.T) {
	// Unknown sector: step function on the default backstop cost of 50.
	assert.InDelta(t, 50.0, MarginalAbatementCost("agriculture", 0.15, 2030), 1e-9)
	assert.InDelta(t, 75.0, MarginalAbatementCost("agriculture", 0.40, 2030), 1e-9)
	assert.InDelta(t, 125.0, MarginalAbatementCost("agriculture", 0.70, 2030), 1e-9)
	assert.InDelta(t, 200.0, MarginalAbatementCost("agriculture", 0.90, 2030), 1e-9)
}

func TestTransitionCosts(t *testing.T) {
	capex, opex, total := TransitionCosts(1_000_000, 800_000, "steel", 10, 2030)
	assert.Positive(t, capex)
	assert.Positive(t, opex)

	// CAPEX plus OPEX over the timeframe reconstructs the total bill.
	assert.InDelta(t, total, capex+opex*10, total*1e-9)

	// Steel abatement is three-quarters capital spend.
	assert.InDelta(t, 0.75, capex/total, 1e-9)

	// No cost when emissions are already at or below target.
	capex, opex, total = TransitionCosts(800_000, 800_000, "steel", 10, 2030)
	assert.Zero(t, capex)
	assert.Zero(t, opex)
	assert.Zero(t, total)
}
