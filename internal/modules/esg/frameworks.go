// Package esg implements the disclosure-framework scoring engine: weighted
// category maturity under TCFD, ISSB (IFRS S2) and KSSB, with checklist
// evaluation, gap prioritisation and regulatory deadline tracking.
//
// References: CDP Scoring Methodology (2023); TCFD Final Report (2017) and
// Status Report (2023); ISSB IFRS S2; KSSB Draft Standards (2024).
package esg

import (
	"fmt"

	"github.com/kclimate/krisk/internal/domain"
)

// Checklist item statuses and their score contributions.
const (
	StatusCompliant    = "compliant"     // 1.0
	StatusPartial      = "partial"       // 0.5
	StatusNonCompliant = "non_compliant" // 0.0
)

// Category names shared across frameworks (Korean disclosure practice).
const (
	catGovernance = "거버넌스"
	catStrategy   = "전략"
	catRisk       = "리스크 관리"
	catMetrics    = "지표 및 목표"
	catIndustry   = "산업별 공시"
)

// ChecklistItem is one evaluated disclosure requirement.
type ChecklistItem struct {
	Item           string `json:"item"`
	Status         string `json:"status"`
	Recommendation string `json:"recommendation,omitempty"`
}

// portfolioState captures what the facility data and the analytical models
// actually support; checklist statuses derive from it, never from
// hardcoded scores.
type portfolioState struct {
	HasScope1     bool
	HasScope2     bool
	HasScope3     bool
	HasRevenue    bool
	HasAssets     bool
	HasTransition bool
	HasPhysical   bool
	MultiScenario bool
	FacilityCount int
	SectorCount   int
}

func statePortfolio(facilities []domain.Facility, hasTransition, hasPhysical bool) portfolioState {
	s := portfolioState{
		HasScope1:     len(facilities) > 0,
		HasScope2:     len(facilities) > 0,
		HasScope3:     len(facilities) > 0,
		HasRevenue:    len(facilities) > 0,
		HasAssets:     len(facilities) > 0,
		HasTransition: hasTransition,
		HasPhysical:   hasPhysical,
		MultiScenario: hasTransition,
		FacilityCount: len(facilities),
	}
	sectors := map[string]bool{}
	for _, f := range facilities {
		if f.Scope1 <= 0 {
			s.HasScope1 = false
		}
		if f.Scope2 <= 0 {
			s.HasScope2 = false
		}
		if f.Scope3 <= 0 {
			s.HasScope3 = false
		}
		if f.Revenue <= 0 {
			s.HasRevenue = false
		}
		if f.AssetValue <= 0 {
			s.HasAssets = false
		}
		sectors[f.Sector] = true
	}
	s.SectorCount = len(sectors)
	return s
}

// frameworkCategory couples a weight with its checklist builder.
type frameworkCategory struct {
	Name      string
	Weight    float64
	Checklist func(portfolioState) []ChecklistItem
	Effort    string // remediation effort for gap prioritisation
}

// framework is one disclosure standard. Category weights sum to 1.
type framework struct {
	ID         string
	Name       string
	Categories []frameworkCategory
}

var frameworks = map[string]framework{
	"tcfd": {
		ID:   "tcfd",
		Name: "TCFD",
		Categories: []frameworkCategory{
			{catGovernance, 0.25, governanceChecklist, "medium"},
			{catStrategy, 0.25, strategyChecklist, "high"},
			{catRisk, 0.25, riskChecklist, "medium"},
			{catMetrics, 0.25, metricsChecklist, "medium"},
		},
	},
	"issb": {
		ID:   "issb",
		Name: "ISSB (IFRS S2)",
		Categories: []frameworkCategory{
			{catGovernance, 0.20, governanceChecklist, "medium"},
			{catStrategy, 0.25, strategyChecklist, "high"},
			{catRisk, 0.25, riskChecklist, "medium"},
			{catMetrics, 0.30, metricsChecklist, "medium"},
		},
	},
	"kssb": {
		ID:   "kssb",
		Name: "KSSB (한국 지속가능성 기준위원회)",
		Categories: []frameworkCategory{
			{catGovernance, 0.20, governanceChecklist, "medium"},
			{catStrategy, 0.25, strategyChecklist, "high"},
			{catRisk, 0.20, riskChecklist, "medium"},
			{catMetrics, 0.25, metricsChecklist, "medium"},
			{catIndustry, 0.10, industryChecklist, "high"},
		},
	},
}

// FrameworkIDs lists the supported framework tags in stable order.
func FrameworkIDs() []string {
	return []string{"issb", "kssb", "tcfd"}
}

func getFramework(id string) (framework, error) {
	fw, ok := frameworks[id]
	if !ok {
		return framework{}, fmt.Errorf("%w: unknown framework: %s (valid: %v)",
			domain.ErrInvalidFramework, id, FrameworkIDs())
	}
	return fw, nil
}

func status(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

func governanceChecklist(s portfolioState) []ChecklistItem {
	return []ChecklistItem{
		{
			Item:           "이사회의 기후 리스크 감독 체계",
			Status:         StatusPartial,
			Recommendation: "기후 전담 위원회 설치를 권고합니다",
		},
		{
			Item:           "경영진의 기후 리스크 평가/관리 역할",
			Status:         status(s.HasTransition, StatusCompliant, StatusPartial),
			Recommendation: statusRec(s.HasTransition, "경영진의 기후 리스크 관리 역할을 명확히 하세요"),
		},
		{
			Item:           "기후 리스크 정기 보고 체계",
			Status:         StatusPartial,
			Recommendation: "이사회 수준의 정기 기후 리스크 보고 체계를 공식화하세요",
		},
	}
}

func strategyChecklist(s portfolioState) []ChecklistItem {
	return []ChecklistItem{
		{
			Item:   "기후 리스크/기회 식별",
			Status: status(s.HasTransition || s.HasPhysical, StatusCompliant, StatusNonCompliant),
		},
		{
			Item:           "시나리오 분석(2°C 이하 포함)",
			Status:         status(s.MultiScenario, StatusCompliant, StatusNonCompliant),
			Recommendation: statusRec(s.MultiScenario, "2°C 이하 시나리오 분석이 필요합니다"),
		},
		{
			Item:           "기후 관련 재무 영향 정량화",
			Status:         status(s.HasTransition && s.HasPhysical, StatusCompliant, StatusPartial),
			Recommendation: statusRec(s.HasTransition && s.HasPhysical, "물리적 리스크와 전환 리스크의 재무 영향 정량화를 완성하세요"),
		},
		{
			Item:           "전환 계획 공시",
			Status:         StatusPartial,
			Recommendation: "Net Zero 전환 로드맵 수립이 필요합니다",
		},
	}
}

func riskChecklist(s portfolioState) []ChecklistItem {
	return []ChecklistItem{
		{
			Item:           "리스크 식별 및 평가 프로세스",
			Status:         status(s.HasPhysical, StatusCompliant, StatusPartial),
			Recommendation: statusRec(s.HasPhysical, "체계적 리스크 평가 프로세스를 구축하세요"),
		},
		{
			Item:           "전사 리스크 관리(ERM) 통합",
			Status:         StatusPartial,
			Recommendation: "전사 리스크 관리(ERM)에 기후 리스크를 통합하세요",
		},
		{
			Item:           "다중 시나리오 통합 리스크 관리",
			Status:         status(s.MultiScenario, StatusCompliant, StatusNonCompliant),
			Recommendation: statusRec(s.MultiScenario, "NGFS 시나리오 기반 분석이 필요합니다"),
		},
	}
}

func metricsChecklist(s portfolioState) []ChecklistItem {
	return []ChecklistItem{
		{
			Item:           "Scope 1/2 배출량 공시",
			Status:         status(s.HasScope1 && s.HasScope2, StatusCompliant, StatusNonCompliant),
			Recommendation: statusRec(s.HasScope1 && s.HasScope2, "Scope 1, 2 배출량 산정이 필요합니다"),
		},
		{
			Item:           "Scope 3 배출량 공시",
			Status:         status(s.HasScope3, StatusPartial, StatusNonCompliant),
			Recommendation: "주요 카테고리 Scope 3 배출량을 공시하세요",
		},
		{
			Item:           "내부 탄소가격 적용",
			Status:         status(s.HasTransition, StatusCompliant, StatusNonCompliant),
			Recommendation: statusRec(s.HasTransition, "의사결정에 내부 탄소가격($50-100/tCO2e)을 적용하세요"),
		},
		{
			Item:           "기후 관련 감축 목표 설정",
			Status:         StatusPartial,
			Recommendation: "SBTi 인증 목표 설정을 권고합니다",
		},
	}
}

func industryChecklist(s portfolioState) []ChecklistItem {
	return []ChecklistItem{
		{
			Item:           "K-ETS 배출권거래제 영향 분석",
			Status:         status(s.HasTransition, StatusCompliant, StatusNonCompliant),
			Recommendation: statusRec(s.HasTransition, "K-ETS 영향 분석이 필요합니다"),
		},
		{
			Item:           "산업별 추가 공시 항목",
			Status:         StatusNonCompliant,
			Recommendation: "해당 산업의 추가 공시 요구사항을 확인하세요",
		},
		{
			Item:           "2030 NDC 감축 목표 연계",
			Status:         StatusPartial,
			Recommendation: "2030 NDC 40% 감축 목표와의 정합성 분석이 필요합니다",
		},
	}
}

// statusRec suppresses the recommendation once the requirement is met.
func statusRec(ok bool, rec string) string {
	if ok {
		return ""
	}
	return rec
}

// statusValue maps a checklist status to its score contribution.
func statusValue(s string) float64 {
	switch s {
	case StatusCompliant:
		return 1.0
	case StatusPartial:
		return 0.5
	default:
		return 0.0
	}
}

// categoryScore is 100 × mean item value for a checklist.
func categoryScore(items []ChecklistItem) float64 {
	if len(items) == 0 {
		return 0
	}
	sum := 0.0
	for _, item := range items {
		sum += statusValue(item.Status)
	}
	return 100 * sum / float64(len(items))
}

// recommendedActions per category, tiered by how far along the category is.
var gapActions = map[string]struct{ low, high []string }{
	catGovernance: {
		low: []string{
			"이사회 내 기후 리스크 전담 위원회 설치",
			"최고지속가능경영책임자(CSO) 임명",
			"기후 리스크 정기 보고 체계 수립",
		},
		high: []string{"기후 리스크 감독 프로세스 고도화"},
	},
	catStrategy: {
		low: []string{
			"NGFS 4개 시나리오 기반 전략적 영향 분석",
			"기후 적응 전략 수립",
			"전환 계획(Transition Plan) 공식화",
		},
		high: []string{"시나리오별 재무 영향 정량화 고도화"},
	},
	catRisk: {
		low: []string{
			"물리적 리스크 평가 체계 구축",
			"전사 리스크 관리(ERM)에 기후 리스크 통합",
			"리스크 모니터링 대시보드 구축",
		},
		high: []string{"리스크 관리 프로세스 고도화"},
	},
	catMetrics: {
		low: []string{
			"Scope 3 배출량 산정 범위 확대",
			"SBTi 인증 감축 목표 설정",
			"탄소 원단위 지표 개발",
		},
		high: []string{"Scope 3 배출량 산정 범위 확대", "목표 달성 이행 모니터링 강화"},
	},
	catIndustry: {
		low: []string{
			"해당 산업 KSSB 추가 공시 요구사항 파악",
			"산업별 핵심 성과지표(KPI) 설정",
			"2030 NDC 정합성 분석",
		},
		high: []string{"산업별 공시 항목 완성도 제고"},
	},
}

func recommendedActions(category string, score float64) []string {
	actions, ok := gapActions[category]
	if !ok {
		return []string{"추가 분석 필요"}
	}
	if score >= 70 {
		return actions.high
	}
	return actions.low
}

// Deadline is one regulatory milestone.
type Deadline struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Source      string `json:"source"`
}

var regulatoryDeadlines = map[string]Deadline{
	"kssb_mandatory": {
		Name:        "KSSB 의무 공시",
		Date:        "2025-01-01",
		Description: "자산 2조원 이상 상장사 의무 공시",
		Source:      "금융위원회, 'ESG 공시 제도 도입 방안' (2023.02.16 보도자료)",
	},
	"issb_effective": {
		Name:        "ISSB (IFRS S1/S2) 발효",
		Date:        "2024-01-01",
		Description: "글로벌 지속가능성 공시 기준 발효 (IFRS S1/S2, 2024-01-01 이후 회계연도)",
		Source:      "ISSB, IFRS S1 para. C1; Korean mandatory adoption from 2025",
	},
	"kets_phase4": {
		Name:        "K-ETS 4기",
		Date:        "2026-01-01",
		Description: "배출권거래제 4기 시행 (강화된 할당)",
		Source:      "환경부, '배출권거래제 제4차 계획기간 기본계획' (2024)",
	},
	"eu_cbam_full": {
		Name:        "EU CBAM 본격 시행",
		Date:        "2026-01-01",
		Description: "EU 탄소국경조정제도 본격 시행",
		Source:      "EU Regulation 2023/956, Official Journal L 130/52",
	},
	"kssb_full_scope": {
		Name:        "KSSB 전면 적용",
		Date:        "2027-01-01",
		Description: "전 상장사 의무 공시 확대",
		Source:      "금융위원회, 'ESG 공시 제도 도입 방안' (2023.02.16)",
	},
}

var deadlineRelevance = map[string][]string{
	"issb": {"issb_effective", "eu_cbam_full"},
	"tcfd": {"issb_effective", "eu_cbam_full"},
	"kssb": {"kssb_mandatory", "kets_phase4", "kssb_full_scope"},
}

func relevantDeadlines(frameworkID string) []Deadline {
	keys := deadlineRelevance[frameworkID]
	deadlines := make([]Deadline, 0, len(keys))
	for _, key := range keys {
		if dl, ok := regulatoryDeadlines[key]; ok {
			deadlines = append(deadlines, dl)
		}
	}
	return deadlines
}
