package climate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarmingAt(t *testing.T) {
	// Table values at calibration years.
	assert.InDelta(t, 1.7, WarmingAt("below_2c", 2040), 1e-9)
	assert.InDelta(t, 2.5, WarmingAt("current_policies", 2050), 1e-9)

	// Interpolated between calibration years.
	assert.InDelta(t, 1.28, WarmingAt("net_zero_2050", 2027), 0.05)

	// Unknown scenario defaults to the intermediate pathway.
	assert.InDelta(t, WarmingAt("delayed_transition", 2040), WarmingAt("no_such", 2040), 1e-9)
}

func TestWarmingDeltaNonNegative(t *testing.T) {
	// SSP1-1.9 dips back toward 1.0 by 2100; delta must clamp at zero.
	assert.Zero(t, WarmingDelta("net_zero_2050", 2100))
	assert.Greater(t, WarmingDelta("current_policies", 2050), 1.0)
}

func TestScenarioOrderingAtMidCentury(t *testing.T) {
	// Hotter scenarios stay ordered at 2050.
	nz := WarmingAt("net_zero_2050", 2050)
	b2 := WarmingAt("below_2c", 2050)
	dt := WarmingAt("delayed_transition", 2050)
	cp := WarmingAt("current_policies", 2050)
	assert.Less(t, nz, b2)
	assert.Less(t, b2, dt)
	assert.Less(t, dt, cp)
}

func TestFrequencyMultiplier(t *testing.T) {
	// No extra warming at 2020 means no intensification.
	assert.InDelta(t, 1.0, FrequencyMultiplier("flood", "below_2c", 2020), 1e-9)

	// below_2c 2040: delta = 0.6, flood frequency +30%/degree.
	assert.InDelta(t, 1.18, FrequencyMultiplier("flood", "below_2c", 2040), 1e-9)
	assert.InDelta(t, 1.03, FrequencyMultiplier("typhoon", "below_2c", 2040), 1e-9)

	// Unknown hazards are unaffected.
	assert.InDelta(t, 1.0, FrequencyMultiplier("earthquake", "below_2c", 2040), 1e-9)
}

func TestAdjustReturnPeriod(t *testing.T) {
	assert.InDelta(t, 100.0/1.5, AdjustReturnPeriod(100, 1.5), 1e-9)
	assert.Equal(t, 100.0, AdjustReturnPeriod(100, 0))
}

func TestSeaLevelRise(t *testing.T) {
	assert.Zero(t, SeaLevelRiseMM("below_2c", 2020))

	// Monotone in year, and at least the base rate accumulates.
	slr2040 := SeaLevelRiseMM("below_2c", 2040)
	slr2050 := SeaLevelRiseMM("below_2c", 2050)
	assert.Greater(t, slr2050, slr2040)
	assert.GreaterOrEqual(t, slr2040, 3.7*20)

	// Hotter scenario rises faster.
	assert.Greater(t, SeaLevelRiseMM("current_policies", 2050), slr2050)
}
