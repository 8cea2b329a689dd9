package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kclimate/krisk/internal/domain"
)

func TestGetScenario(t *testing.T) {
	s, err := GetScenario("net_zero_2050")
	require.NoError(t, err)
	assert.Equal(t, "Net Zero 2050", s.Name)
	assert.Equal(t, 0.50, s.ReductionTarget)

	_, err = GetScenario("net_zero_2060")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidScenario)
}

func TestValidateRegime(t *testing.T) {
	assert.NoError(t, ValidateRegime(RegimeGlobal))
	assert.NoError(t, ValidateRegime(RegimeKETS))
	assert.ErrorIs(t, ValidateRegime("eu_ets"), domain.ErrInvalidRegime)
}

func TestScenarioIDs(t *testing.T) {
	ids := ScenarioIDs()
	assert.Equal(t, []string{"below_2c", "current_policies", "delayed_transition", "net_zero_2050"}, ids)
}

func TestPricePathsAscending(t *testing.T) {
	for _, id := range ScenarioIDs() {
		for _, path := range [][]PricePoint{GlobalPricePath(id), KETSPricePath(id)} {
			require.Len(t, path, 8, "scenario %s", id)
			for i := 1; i < len(path); i++ {
				assert.Greater(t, path[i].Year, path[i-1].Year, "scenario %s", id)
				assert.GreaterOrEqual(t, path[i].Price, path[i-1].Price, "scenario %s", id)
			}
		}
	}
}

func TestGetSectorFallback(t *testing.T) {
	steel, known := GetSector("steel")
	assert.True(t, known)
	assert.Equal(t, 0.25, steel.EnergyCostShare)

	def, known := GetSector("aerospace")
	assert.False(t, known)
	assert.Equal(t, "default", def.Tag)
}

func TestSectorWarnings(t *testing.T) {
	warnings := SectorWarnings([]string{"steel", "aerospace", "aerospace", "cement"})
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "aerospace")

	assert.Empty(t, SectorWarnings(KnownSectors()))
}

func TestKETSAllocationTable(t *testing.T) {
	a := GetKETSAllocation("steel")
	assert.Equal(t, 0.97, a.BaseRatio)
	assert.Equal(t, 0.010, a.AnnualTightening)

	// Unknown sectors use the default schedule.
	d := GetKETSAllocation("aerospace")
	assert.Equal(t, 0.85, d.BaseRatio)
}

func TestAbatementStackSortedByMAC(t *testing.T) {
	for _, tag := range KnownSectors() {
		stack := AbatementStack(tag)
		require.NotEmpty(t, stack, "sector %s", tag)
		for i := 1; i < len(stack); i++ {
			assert.LessOrEqual(t, stack[i-1].MAC, stack[i].MAC, "sector %s", tag)
		}
	}
}

func TestStrandedRatesCarbonIntensiveOnly(t *testing.T) {
	for _, tag := range []string{"utilities", "oil_gas", "steel", "cement", "petrochemical"} {
		p, _ := GetSector(tag)
		assert.Greater(t, p.StrandedRate, 0.0, "sector %s", tag)
	}
	for _, tag := range []string{"electronics", "financial", "automotive", "real_estate", "shipping"} {
		p, _ := GetSector(tag)
		assert.Zero(t, p.StrandedRate, "sector %s", tag)
	}
}
