package esg

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/modules/transition"
)

type stubAnalyser struct {
	analysis *transition.Analysis
	err      error
	calls    int
}

func (s *stubAnalyser) Analyse(ctx context.Context, facilities []domain.Facility, scenario, regime string) (*transition.Analysis, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.analysis, nil
}

// scope12Portfolio reports full scope 1/2 but no scope 3 anywhere.
func scope12Portfolio() []domain.Facility {
	return []domain.Facility{
		{
			FacilityID: "POSCO-001", Name: "Pohang Steelworks", Sector: "steel",
			Latitude: 36.02, Longitude: 129.34,
			Scope1: 5e6, Scope2: 1e6, Scope3: 0,
			Revenue: 1e10, EBITDA: 1.5e9, AssetValue: 1.2e10,
		},
		{
			FacilityID: "SK-ULS-001", Name: "Ulsan CLX", Sector: "petrochemical",
			Latitude: 35.5, Longitude: 129.36,
			Scope1: 2e6, Scope2: 8e5, Scope3: 0,
			Revenue: 8e9, EBITDA: 1.1e9, AssetValue: 9e9,
		},
	}
}

func newTestEngine() *Engine {
	return NewEngine(&stubAnalyser{analysis: &transition.Analysis{
		Scenario:      "net_zero_2050",
		PricingRegime: "global",
		TotalNPV:      -2.1e10,
		AvgRiskLevel:  domain.RiskHigh,
	}}, zerolog.Nop())
}

func TestTCFDScopeOneTwoPortfolio(t *testing.T) {
	engine := newTestEngine()

	a, err := engine.Assess(context.Background(), scope12Portfolio(), "tcfd")
	require.NoError(t, err)

	assert.GreaterOrEqual(t, a.OverallScore, 70.0)
	assert.LessOrEqual(t, a.OverallScore, 90.0)
	assert.InDelta(t, 75.0, a.OverallScore, 0.1)
	assert.Equal(t, "양호", a.ComplianceLevel)
	assert.Equal(t, 4, a.MaturityLevel.Level)
	assert.Equal(t, "관리", a.MaturityLevel.Name)

	byCat := map[string]CategoryScore{}
	for _, c := range a.Categories {
		byCat[c.Category] = c
	}
	assert.InDelta(t, 66.7, byCat["거버넌스"].Score, 0.1)
	assert.InDelta(t, 87.5, byCat["전략"].Score, 0.1)
	assert.InDelta(t, 83.3, byCat["리스크 관리"].Score, 0.1)
	assert.InDelta(t, 62.5, byCat["지표 및 목표"].Score, 0.1)
}

func TestGapAnalysisPrioritisesScope3(t *testing.T) {
	engine := newTestEngine()

	a, err := engine.Assess(context.Background(), scope12Portfolio(), "tcfd")
	require.NoError(t, err)
	require.NotEmpty(t, a.GapAnalysis)

	top := a.GapAnalysis[0]
	assert.Equal(t, "지표 및 목표", top.Category)
	assert.Contains(t, []string{"medium", "high"}, top.Effort)
	require.NotEmpty(t, top.RecommendedActions)
	assert.Contains(t, top.RecommendedActions[0], "Scope 3")

	// Sorted by priority, descending.
	for i := 1; i < len(a.GapAnalysis); i++ {
		assert.GreaterOrEqual(t, a.GapAnalysis[i-1].PriorityScore, a.GapAnalysis[i].PriorityScore)
	}
}

func TestFrameworkWeightsDiffer(t *testing.T) {
	engine := newTestEngine()
	facilities := scope12Portfolio()

	tcfd, err := engine.Assess(context.Background(), facilities, "tcfd")
	require.NoError(t, err)
	issb, err := engine.Assess(context.Background(), facilities, "issb")
	require.NoError(t, err)
	kssb, err := engine.Assess(context.Background(), facilities, "kssb")
	require.NoError(t, err)

	// ISSB weights metrics heavier, so the missing scope 3 drags it below TCFD.
	assert.Less(t, issb.OverallScore, tcfd.OverallScore)
	assert.InDelta(t, 74.8, issb.OverallScore, 0.1)

	// KSSB adds the industry pillar at 10% weight.
	assert.Len(t, kssb.Categories, 5)
	assert.InDelta(t, 72.5, kssb.OverallScore, 0.1)
	byCat := map[string]CategoryScore{}
	for _, c := range kssb.Categories {
		byCat[c.Category] = c
	}
	assert.InDelta(t, 50.0, byCat["산업별 공시"].Score, 0.1)
}

func TestScope3ReportingLiftsMetrics(t *testing.T) {
	engine := newTestEngine()
	withScope3 := scope12Portfolio()
	for i := range withScope3 {
		withScope3[i].Scope3 = 1e6
	}

	base, err := engine.Assess(context.Background(), scope12Portfolio(), "tcfd")
	require.NoError(t, err)
	lifted, err := engine.Assess(context.Background(), withScope3, "tcfd")
	require.NoError(t, err)

	assert.Greater(t, lifted.OverallScore, base.OverallScore)
}

func TestNoAnalyserLowersScore(t *testing.T) {
	withAnalyser := newTestEngine()
	withoutAnalyser := NewEngine(nil, zerolog.Nop())

	full, err := withAnalyser.Assess(context.Background(), scope12Portfolio(), "tcfd")
	require.NoError(t, err)
	bare, err := withoutAnalyser.Assess(context.Background(), scope12Portfolio(), "tcfd")
	require.NoError(t, err)

	assert.Less(t, bare.OverallScore, full.OverallScore)
}

func TestRegulatoryDeadlines(t *testing.T) {
	engine := newTestEngine()

	tcfd, err := engine.Assess(context.Background(), scope12Portfolio(), "tcfd")
	require.NoError(t, err)
	require.Len(t, tcfd.RegulatoryDeadlines, 2)
	assert.Equal(t, "2024-01-01", tcfd.RegulatoryDeadlines[0].Date)
	assert.Equal(t, "2026-01-01", tcfd.RegulatoryDeadlines[1].Date)

	kssb, err := engine.Assess(context.Background(), scope12Portfolio(), "kssb")
	require.NoError(t, err)
	require.Len(t, kssb.RegulatoryDeadlines, 3)
	assert.Equal(t, "KSSB 의무 공시", kssb.RegulatoryDeadlines[0].Name)
	assert.Equal(t, "2025-01-01", kssb.RegulatoryDeadlines[0].Date)
	for _, dl := range kssb.RegulatoryDeadlines {
		assert.NotEmpty(t, dl.Source)
	}
}

func TestUnknownFramework(t *testing.T) {
	engine := newTestEngine()
	_, err := engine.Assess(context.Background(), scope12Portfolio(), "gri")
	assert.ErrorIs(t, err, domain.ErrInvalidFramework)
}

func TestAssessCancellation(t *testing.T) {
	engine := newTestEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Assess(ctx, scope12Portfolio(), "tcfd")
	assert.ErrorIs(t, err, domain.ErrCancelled)
}

func TestGenerateDisclosure(t *testing.T) {
	analyser := &stubAnalyser{analysis: &transition.Analysis{
		Scenario:      "net_zero_2050",
		PricingRegime: "global",
		TotalNPV:      -2.1e10,
		AvgRiskLevel:  domain.RiskHigh,
	}}
	engine := NewEngine(analyser, zerolog.Nop())

	d, err := engine.GenerateDisclosure(context.Background(), scope12Portfolio(), "kssb")
	require.NoError(t, err)

	assert.Equal(t, 7e6, d.Metrics.TotalScope1)
	assert.Equal(t, 1.8e6, d.Metrics.TotalScope2)
	assert.Zero(t, d.Metrics.TotalScope3)
	assert.Equal(t, 8.8e6, d.Metrics.TotalEmissions)
	// (7e6 + 1.8e6) / 1.8e10 revenue, per million.
	assert.InDelta(t, 488.9, d.Metrics.EmissionIntensity, 0.1)
	assert.Equal(t, 2, d.Metrics.FacilityCount)

	assert.Equal(t, 2030, d.Targets.TargetYear)
	assert.Equal(t, 40.0, d.Targets.ReductionPct)
	assert.True(t, d.Targets.ScienceBased)

	require.NotNil(t, d.FinancialImpact)
	assert.Equal(t, 1, analyser.calls)
	assert.Equal(t, -2.1e10, d.FinancialImpact.NetZeroNPV)

	require.Len(t, d.NarrativeSections, 5)
	assert.Contains(t, d.NarrativeSections["전략"], "NPV")
}

func TestGenerateDisclosureWithoutAnalyser(t *testing.T) {
	engine := NewEngine(nil, zerolog.Nop())

	d, err := engine.GenerateDisclosure(context.Background(), scope12Portfolio(), "tcfd")
	require.NoError(t, err)
	assert.Nil(t, d.FinancialImpact)
	assert.Len(t, d.NarrativeSections, 4)
}
