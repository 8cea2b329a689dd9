package reports

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/modules/company"
	"github.com/kclimate/krisk/internal/modules/esg"
	"github.com/kclimate/krisk/internal/modules/physical"
	"github.com/kclimate/krisk/internal/modules/transition"
)

func newTestGenerator() *Generator {
	log := zerolog.Nop()
	trans := transition.NewEngine(0, log)
	phys := physical.NewEngine(nil, log)
	scorer := esg.NewEngine(trans, log)
	return NewGenerator(trans, phys, scorer, log)
}

func TestDisclosureWorkbookSheets(t *testing.T) {
	g := newTestGenerator()

	f, err := g.DisclosureWorkbook(context.Background(), company.All(), "kssb", "net_zero_2050", "global", 2030)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, SheetNames, f.GetSheetList())

	title, err := f.GetCellValue("overview", "A1")
	require.NoError(t, err)
	assert.Contains(t, title, "기후 공시 보고서")

	score, err := f.GetCellValue("overview", "B8")
	require.NoError(t, err)
	assert.NotEmpty(t, score)
}

func TestDisclosureWorkbookRawData(t *testing.T) {
	g := newTestGenerator()
	facilities := company.All()

	f, err := g.DisclosureWorkbook(context.Background(), facilities, "tcfd", "below_2c", "kets", 2035)
	require.NoError(t, err)
	defer f.Close()

	// Header row 3, one data row per facility.
	first, err := f.GetCellValue("raw_data", "A4")
	require.NoError(t, err)
	assert.Equal(t, facilities[0].FacilityID, first)

	last, err := f.GetCellValue("raw_data", cell(1, 3+len(facilities)))
	require.NoError(t, err)
	assert.Equal(t, facilities[len(facilities)-1].FacilityID, last)

	risk, err := f.GetCellValue("raw_data", cell(14, 4))
	require.NoError(t, err)
	assert.Contains(t, []string{domain.RiskLow, domain.RiskMedium, domain.RiskHigh}, risk)
}

func TestDisclosureWorkbookGapRows(t *testing.T) {
	g := newTestGenerator()

	f, err := g.DisclosureWorkbook(context.Background(), company.All(), "kssb", "net_zero_2050", "global", 2030)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("gap_analysis")
	require.NoError(t, err)
	// Title, header, at least one gap row.
	assert.GreaterOrEqual(t, len(rows), 3)

	schedule, err := f.GetRows("regulatory_schedule")
	require.NoError(t, err)
	// KSSB carries three deadlines after title and header.
	assert.Len(t, schedule, 2+3)
}

func TestDisclosureWorkbookValidation(t *testing.T) {
	g := newTestGenerator()

	_, err := g.DisclosureWorkbook(context.Background(), company.All(), "gri", "net_zero_2050", "global", 2030)
	assert.ErrorIs(t, err, domain.ErrInvalidFramework)

	_, err = g.DisclosureWorkbook(context.Background(), company.All(), "tcfd", "rcp85", "global", 2030)
	assert.ErrorIs(t, err, domain.ErrInvalidScenario)
}
