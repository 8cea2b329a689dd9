// Package reports renders the multi-sheet disclosure workbook: ESG scores,
// transition and physical results, gap analysis, regulatory schedule and the
// raw facility data, formatted for a reporting team to hand over.
package reports

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/modules/esg"
	"github.com/kclimate/krisk/internal/modules/physical"
	"github.com/kclimate/krisk/internal/modules/transition"
)

// Sheet names in workbook order.
var SheetNames = []string{
	"overview",
	"governance",
	"strategy",
	"risk_management",
	"metrics_and_targets",
	"gap_analysis",
	"regulatory_schedule",
	"raw_data",
}

// Colour palette (hex, no leading #).
const (
	colourHeaderBg   = "1E3A5F"
	colourHeaderFont = "FFFFFF"
	colourGreenBg    = "C6EFCE"
	colourGreenFont  = "006100"
	colourAmberBg    = "FFEB9C"
	colourAmberFont  = "9C5700"
	colourRedBg      = "FFC7CE"
	colourRedFont    = "9C0006"
	colourTitleBg    = "D6E4F0"
	colourTitleFont  = "1E3A5F"
)

var statusLabels = map[string]string{
	esg.StatusCompliant:    "준수",
	esg.StatusPartial:      "부분 준수",
	esg.StatusNonCompliant: "미준수",
}

var effortLabels = map[string]string{
	"low":    "낮음",
	"medium": "중간",
	"high":   "높음",
}

// Generator assembles disclosure workbooks from the three risk engines.
type Generator struct {
	transition *transition.Engine
	physical   *physical.Engine
	esg        *esg.Engine
	log        zerolog.Logger
}

// NewGenerator wires the report generator to the engines it reads from.
func NewGenerator(t *transition.Engine, p *physical.Engine, e *esg.Engine, log zerolog.Logger) *Generator {
	return &Generator{
		transition: t,
		physical:   p,
		esg:        e,
		log:        log.With().Str("module", "reports").Logger(),
	}
}

// styles carries the style ids registered on one workbook.
type styles struct {
	title    int
	subtitle int
	header   int
	bold     int
	wrap     int
	num      int
	money    int
	pct      int
	green    int
	amber    int
	red      int
}

// DisclosureWorkbook runs the engines over the portfolio and renders the
// eight-sheet workbook. The caller owns the returned file and should Close it.
func (g *Generator) DisclosureWorkbook(ctx context.Context, facilities []domain.Facility, framework, scenario, regime string, year int) (*excelize.File, error) {
	assessment, err := g.esg.Assess(ctx, facilities, framework)
	if err != nil {
		return nil, err
	}
	disclosure, err := g.esg.GenerateDisclosure(ctx, facilities, framework)
	if err != nil {
		return nil, err
	}
	trans, err := g.transition.Analyse(ctx, facilities, scenario, regime)
	if err != nil {
		return nil, err
	}
	phys, err := g.physical.Assess(ctx, facilities, scenario, year, false)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	st, err := registerStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	f.SetSheetName("Sheet1", SheetNames[0])
	for _, name := range SheetNames[1:] {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	g.writeOverview(f, st, assessment, trans, scenario, regime, year)
	g.writeGovernance(f, st, assessment, disclosure)
	g.writeStrategy(f, st, trans, disclosure)
	g.writeRiskManagement(f, st, phys, disclosure)
	g.writeMetrics(f, st, assessment, disclosure)
	g.writeGapAnalysis(f, st, assessment)
	g.writeRegulatorySchedule(f, st, assessment)
	g.writeRawData(f, st, facilities, trans, phys)

	if idx, err := f.GetSheetIndex(SheetNames[0]); err == nil {
		f.SetActiveSheet(idx)
	}

	g.log.Info().
		Str("framework", framework).
		Str("scenario", scenario).
		Int("facilities", len(facilities)).
		Msg("disclosure workbook generated")

	return f, nil
}

func registerStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	st.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14, Color: colourTitleFont},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colourTitleBg}},
	})
	if err != nil {
		return st, err
	}
	st.subtitle, _ = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 11}})
	st.header, _ = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: colourHeaderFont},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colourHeaderBg}},
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "center"},
	})
	st.bold, _ = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	st.wrap, _ = f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})

	numFmt := "#,##0"
	st.num, _ = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	moneyFmt := "#,##0.00"
	st.money, _ = f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	pctFmt := "0.0%"
	st.pct, _ = f.NewStyle(&excelize.Style{CustomNumFmt: &pctFmt})

	st.green, _ = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: colourGreenFont},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colourGreenBg}},
	})
	st.amber, _ = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: colourAmberFont},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colourAmberBg}},
	})
	st.red, _ = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: colourRedFont},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colourRedBg}},
	})
	return st, nil
}

func (st styles) status(s string) int {
	switch s {
	case esg.StatusCompliant:
		return st.green
	case esg.StatusPartial:
		return st.amber
	default:
		return st.red
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func setRow(f *excelize.File, sheet string, row int, style int, values ...interface{}) {
	for i, v := range values {
		c := cell(i+1, row)
		f.SetCellValue(sheet, c, v)
		if style != 0 {
			f.SetCellStyle(sheet, c, c, style)
		}
	}
}

func writeTitle(f *excelize.File, sheet string, st styles, span int, title string) {
	f.MergeCell(sheet, cell(1, 1), cell(span, 1))
	f.SetCellValue(sheet, cell(1, 1), title)
	f.SetCellStyle(sheet, cell(1, 1), cell(span, 1), st.title)
}

func keyValue(f *excelize.File, sheet string, st styles, row int, key string, value interface{}) {
	f.SetCellValue(sheet, cell(1, row), key)
	f.SetCellStyle(sheet, cell(1, row), cell(1, row), st.bold)
	f.SetCellValue(sheet, cell(2, row), value)
}

func (g *Generator) writeOverview(f *excelize.File, st styles, a *esg.Assessment, trans *transition.Analysis, scenario, regime string, year int) {
	const sheet = "overview"
	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "D", 24)

	writeTitle(f, sheet, st, 4, fmt.Sprintf("기후 공시 보고서 — %s", a.FrameworkName))
	keyValue(f, sheet, st, 3, "프레임워크", a.FrameworkName)
	keyValue(f, sheet, st, 4, "분석 시나리오", scenario)
	keyValue(f, sheet, st, 5, "탄소가격 체제", regime)
	keyValue(f, sheet, st, 6, "분석 연도", year)
	keyValue(f, sheet, st, 8, "종합 점수", a.OverallScore)
	keyValue(f, sheet, st, 9, "준수 수준", a.ComplianceLevel)
	keyValue(f, sheet, st, 10, "성숙도",
		fmt.Sprintf("Level %d — %s: %s", a.MaturityLevel.Level, a.MaturityLevel.Name, a.MaturityLevel.Description))
	highRisk := 0
	for _, fac := range trans.Facilities {
		if fac.RiskLevel == domain.RiskHigh {
			highRisk++
		}
	}
	keyValue(f, sheet, st, 11, "고위험 시설 수", highRisk)

	row := 13
	setRow(f, sheet, row, st.subtitle, "카테고리별 점수")
	row++
	setRow(f, sheet, row, st.header, "카테고리", "점수", "최대 점수", "상태")
	row++
	for _, cat := range a.Categories {
		setRow(f, sheet, row, 0, cat.Category, cat.Score, cat.MaxScore)
		c := cell(4, row)
		f.SetCellValue(sheet, c, statusLabels[cat.Status])
		f.SetCellStyle(sheet, c, c, st.status(cat.Status))
		row++
	}
}

func (g *Generator) writeGovernance(f *excelize.File, st styles, a *esg.Assessment, d *esg.DisclosureData) {
	const sheet = "governance"
	f.SetColWidth(sheet, "A", "A", 50)
	f.SetColWidth(sheet, "B", "B", 15)
	f.SetColWidth(sheet, "C", "C", 60)

	writeTitle(f, sheet, st, 3, "거버넌스 — Governance")
	f.SetCellValue(sheet, cell(1, 3), "서술")
	f.SetCellStyle(sheet, cell(1, 3), cell(1, 3), st.subtitle)
	f.MergeCell(sheet, cell(1, 4), cell(3, 4))
	f.SetCellValue(sheet, cell(1, 4), d.NarrativeSections["거버넌스"])
	f.SetCellStyle(sheet, cell(1, 4), cell(3, 4), st.wrap)

	row := 6
	setRow(f, sheet, row, st.subtitle, "공시 체크리스트")
	row++
	setRow(f, sheet, row, st.header, "항목", "상태", "권고사항")
	row++
	for _, item := range a.Checklist["거버넌스"] {
		f.SetCellValue(sheet, cell(1, row), item.Item)
		f.SetCellStyle(sheet, cell(1, row), cell(1, row), st.wrap)
		c := cell(2, row)
		f.SetCellValue(sheet, c, statusLabels[item.Status])
		f.SetCellStyle(sheet, c, c, st.status(item.Status))
		f.SetCellValue(sheet, cell(3, row), item.Recommendation)
		row++
	}
}

func (g *Generator) writeStrategy(f *excelize.File, st styles, trans *transition.Analysis, d *esg.DisclosureData) {
	const sheet = "strategy"
	f.SetColWidth(sheet, "A", "A", 25)
	f.SetColWidth(sheet, "B", "F", 20)

	writeTitle(f, sheet, st, 6, "전략 — Strategy")
	f.MergeCell(sheet, cell(1, 3), cell(6, 3))
	f.SetCellValue(sheet, cell(1, 3), d.NarrativeSections["전략"])
	f.SetCellStyle(sheet, cell(1, 3), cell(6, 3), st.wrap)

	keyValue(f, sheet, st, 5, "시나리오", trans.ScenarioName)
	keyValue(f, sheet, st, 6, "전환 리스크 NPV 합계", trans.TotalNPV)
	f.SetCellStyle(sheet, cell(2, 6), cell(2, 6), st.money)
	keyValue(f, sheet, st, 7, "평균 리스크 수준", trans.AvgRiskLevel)

	row := 9
	setRow(f, sheet, row, st.subtitle, "시설별 전환 리스크")
	row++
	setRow(f, sheet, row, st.header, "시설 ID", "시설명", "섹터", "리스크 수준", "NPV (USD)", "자산 대비 (%)")
	row++
	for _, fac := range trans.Facilities {
		setRow(f, sheet, row, 0, fac.FacilityID, fac.FacilityName, fac.Sector, fac.RiskLevel)
		f.SetCellValue(sheet, cell(5, row), fac.DeltaNPV)
		f.SetCellStyle(sheet, cell(5, row), cell(5, row), st.money)
		f.SetCellValue(sheet, cell(6, row), fac.NPVPctOfAssets/100)
		f.SetCellStyle(sheet, cell(6, row), cell(6, row), st.pct)
		row++
	}
}

func (g *Generator) writeRiskManagement(f *excelize.File, st styles, phys *physical.Assessment, d *esg.DisclosureData) {
	const sheet = "risk_management"
	f.SetColWidth(sheet, "A", "A", 25)
	f.SetColWidth(sheet, "B", "J", 18)

	writeTitle(f, sheet, st, 10, "리스크 관리 — Risk Management")
	f.MergeCell(sheet, cell(1, 3), cell(10, 3))
	f.SetCellValue(sheet, cell(1, 3), d.NarrativeSections["리스크 관리"])
	f.SetCellStyle(sheet, cell(1, 3), cell(10, 3), st.wrap)

	keyValue(f, sheet, st, 5, "분석 연도", phys.AssessmentYear)
	keyValue(f, sheet, st, 6, "모델 상태", phys.ModelStatus)
	keyValue(f, sheet, st, 7, "산업화 대비 온난화 (°C)", phys.WarmingAbovePreindustrial)

	row := 9
	setRow(f, sheet, row, st.subtitle, "시설별 물리적 리스크")
	row++
	setRow(f, sheet, row, st.header,
		"시설 ID", "시설명", "위치", "리스크 수준", "연간 예상 손실 (USD)",
		"홍수", "태풍", "폭염", "가뭄", "해수면 상승")
	row++
	for _, fac := range phys.Facilities {
		setRow(f, sheet, row, 0, fac.FacilityID, fac.FacilityName, fac.Location, fac.OverallRiskLevel)
		f.SetCellValue(sheet, cell(5, row), fac.TotalExpectedAnnualLoss)
		f.SetCellStyle(sheet, cell(5, row), cell(5, row), st.money)
		for i, h := range fac.Hazards {
			c := cell(6+i, row)
			f.SetCellValue(sheet, c, h.PotentialLoss)
			f.SetCellStyle(sheet, c, c, st.num)
		}
		row++
	}
}

func (g *Generator) writeMetrics(f *excelize.File, st styles, a *esg.Assessment, d *esg.DisclosureData) {
	const sheet = "metrics_and_targets"
	f.SetColWidth(sheet, "A", "A", 35)
	f.SetColWidth(sheet, "B", "B", 25)

	writeTitle(f, sheet, st, 2, "지표 및 목표 — Metrics & Targets")
	f.MergeCell(sheet, cell(1, 3), cell(2, 3))
	f.SetCellValue(sheet, cell(1, 3), d.NarrativeSections["지표 및 목표"])
	f.SetCellStyle(sheet, cell(1, 3), cell(2, 3), st.wrap)

	row := 5
	setRow(f, sheet, row, st.subtitle, "온실가스 배출량")
	row++
	for _, kv := range []struct {
		label string
		value float64
	}{
		{"Scope 1 (tCO2e)", d.Metrics.TotalScope1},
		{"Scope 2 (tCO2e)", d.Metrics.TotalScope2},
		{"Scope 3 (tCO2e)", d.Metrics.TotalScope3},
		{"총 배출량 (tCO2e)", d.Metrics.TotalEmissions},
		{"원단위 (tCO2e/매출 백만)", d.Metrics.EmissionIntensity},
	} {
		f.SetCellValue(sheet, cell(1, row), kv.label)
		f.SetCellValue(sheet, cell(2, row), kv.value)
		f.SetCellStyle(sheet, cell(2, row), cell(2, row), st.num)
		row++
	}

	row++
	setRow(f, sheet, row, st.subtitle, "감축 목표")
	row++
	scienceBased := "아니오"
	if d.Targets.ScienceBased {
		scienceBased = "예"
	}
	for _, kv := range []struct {
		label string
		value interface{}
	}{
		{"기준연도", d.Targets.BaseYear},
		{"목표연도", d.Targets.TargetYear},
		{"감축 목표 (%)", d.Targets.ReductionPct},
		{"과학기반 (SBTi)", scienceBased},
	} {
		f.SetCellValue(sheet, cell(1, row), kv.label)
		f.SetCellValue(sheet, cell(2, row), kv.value)
		row++
	}

	row++
	setRow(f, sheet, row, st.subtitle, "공시 체크리스트")
	row++
	setRow(f, sheet, row, st.header, "항목", "상태", "권고사항")
	row++
	for _, item := range a.Checklist["지표 및 목표"] {
		f.SetCellValue(sheet, cell(1, row), item.Item)
		c := cell(2, row)
		f.SetCellValue(sheet, c, statusLabels[item.Status])
		f.SetCellStyle(sheet, c, c, st.status(item.Status))
		f.SetCellValue(sheet, cell(3, row), item.Recommendation)
		row++
	}
}

func (g *Generator) writeGapAnalysis(f *excelize.File, st styles, a *esg.Assessment) {
	const sheet = "gap_analysis"
	f.SetColWidth(sheet, "A", "A", 20)
	f.SetColWidth(sheet, "B", "F", 14)
	f.SetColWidth(sheet, "G", "G", 50)

	writeTitle(f, sheet, st, 7, "갭 분석 — Gap Analysis")
	row := 3
	setRow(f, sheet, row, st.header, "카테고리", "현재 점수", "목표 점수", "갭", "노력", "우선순위", "권고 조치")
	row++
	for _, gap := range a.GapAnalysis {
		effort := effortLabels[gap.Effort]
		if effort == "" {
			effort = gap.Effort
		}
		actions := ""
		for i, action := range gap.RecommendedActions {
			if i > 0 {
				actions += ", "
			}
			actions += action
		}
		setRow(f, sheet, row, 0,
			gap.Category, gap.CurrentScore, gap.TargetScore, gap.Gap, effort, gap.PriorityScore)
		f.SetCellValue(sheet, cell(7, row), actions)
		f.SetCellStyle(sheet, cell(7, row), cell(7, row), st.wrap)
		row++
	}
}

func (g *Generator) writeRegulatorySchedule(f *excelize.File, st styles, a *esg.Assessment) {
	const sheet = "regulatory_schedule"
	f.SetColWidth(sheet, "A", "A", 30)
	f.SetColWidth(sheet, "B", "B", 15)
	f.SetColWidth(sheet, "C", "C", 50)
	f.SetColWidth(sheet, "D", "D", 40)

	writeTitle(f, sheet, st, 4, "규제 일정 — Regulatory Schedule")
	row := 3
	setRow(f, sheet, row, st.header, "규제명", "일자", "설명", "출처")
	row++
	for _, dl := range a.RegulatoryDeadlines {
		setRow(f, sheet, row, 0, dl.Name, dl.Date, dl.Description, dl.Source)
		row++
	}
}

func (g *Generator) writeRawData(f *excelize.File, st styles, facilities []domain.Facility, trans *transition.Analysis, phys *physical.Assessment) {
	const sheet = "raw_data"
	f.SetColWidth(sheet, "A", "A", 15)
	f.SetColWidth(sheet, "B", "N", 18)

	writeTitle(f, sheet, st, 14, "시설별 원시 데이터")

	trMap := make(map[string]transition.FacilityResult, len(trans.Facilities))
	for _, r := range trans.Facilities {
		trMap[r.FacilityID] = r
	}
	prMap := make(map[string]physical.FacilityRisk, len(phys.Facilities))
	for _, r := range phys.Facilities {
		prMap[r.FacilityID] = r
	}

	row := 3
	setRow(f, sheet, row, st.header,
		"시설 ID", "시설명", "섹터", "위치",
		"Scope 1", "Scope 2", "Scope 3",
		"매출 (USD)", "EBITDA", "자산가치",
		"전환 NPV", "자산 대비 (%)", "물리 EAL", "물리 리스크")
	row++
	for _, fac := range facilities {
		tr := trMap[fac.FacilityID]
		pr := prMap[fac.FacilityID]
		setRow(f, sheet, row, 0, fac.FacilityID, fac.Name, fac.Sector, fac.Location)
		for i, v := range []float64{fac.Scope1, fac.Scope2, fac.Scope3, fac.Revenue, fac.EBITDA, fac.AssetValue} {
			c := cell(5+i, row)
			f.SetCellValue(sheet, c, v)
			f.SetCellStyle(sheet, c, c, st.num)
		}
		f.SetCellValue(sheet, cell(11, row), tr.DeltaNPV)
		f.SetCellStyle(sheet, cell(11, row), cell(11, row), st.money)
		f.SetCellValue(sheet, cell(12, row), tr.NPVPctOfAssets/100)
		f.SetCellStyle(sheet, cell(12, row), cell(12, row), st.pct)
		f.SetCellValue(sheet, cell(13, row), pr.TotalExpectedAnnualLoss)
		f.SetCellStyle(sheet, cell(13, row), cell(13, row), st.money)
		f.SetCellValue(sheet, cell(14, row), pr.OverallRiskLevel)
		row++
	}
}
