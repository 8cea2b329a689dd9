package esg

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/modules/transition"
)

// Gap prioritisation constants. Impact scales the weighted score gap onto a
// 1-10 band; priority divides by remediation effort.
const (
	gapSkipThreshold = 10.0
	impactScale      = 0.4
	targetScore      = 100.0
)

var effortWeights = map[string]float64{
	"low":    1,
	"medium": 2,
	"high":   3,
}

// TransitionAnalyser is the slice of the transition engine the ESG module
// needs for financial-impact disclosure.
type TransitionAnalyser interface {
	Analyse(ctx context.Context, facilities []domain.Facility, scenario, regime string) (*transition.Analysis, error)
}

// CategoryScore is one weighted framework pillar.
type CategoryScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"max_score"`
	Weight   float64 `json:"weight"`
	Status   string  `json:"status"`
}

// MaturityLevel places the portfolio on the five-stage disclosure ladder.
type MaturityLevel struct {
	Level       int    `json:"level"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GapItem is one prioritised remediation target.
type GapItem struct {
	Category           string   `json:"category"`
	CurrentScore       float64  `json:"current_score"`
	TargetScore        float64  `json:"target_score"`
	Gap                float64  `json:"gap"`
	Impact             float64  `json:"impact"`
	Effort             string   `json:"effort"`
	PriorityScore      float64  `json:"priority_score"`
	RecommendedActions []string `json:"recommended_actions"`
}

// Assessment is the full framework evaluation for a portfolio.
type Assessment struct {
	Framework           string                     `json:"framework"`
	FrameworkName       string                     `json:"framework_name"`
	OverallScore        float64                    `json:"overall_score"`
	ComplianceLevel     string                     `json:"compliance_level"`
	Categories          []CategoryScore            `json:"categories"`
	Checklist           map[string][]ChecklistItem `json:"checklist"`
	Recommendations     []string                   `json:"recommendations"`
	MaturityLevel       MaturityLevel              `json:"maturity_level"`
	GapAnalysis         []GapItem                  `json:"gap_analysis"`
	RegulatoryDeadlines []Deadline                 `json:"regulatory_deadlines"`
}

// Engine scores disclosure readiness. Safe for concurrent use.
type Engine struct {
	transition TransitionAnalyser
	log        zerolog.Logger
}

// NewEngine creates an ESG engine. analyser may be nil; checklist items that
// depend on quantified transition analysis then score lower and disclosure
// data omits the financial-impact block.
func NewEngine(analyser TransitionAnalyser, log zerolog.Logger) *Engine {
	return &Engine{
		transition: analyser,
		log:        log.With().Str("engine", "esg").Logger(),
	}
}

// Assess evaluates the portfolio against one disclosure framework.
func (e *Engine) Assess(ctx context.Context, facilities []domain.Facility, frameworkID string) (*Assessment, error) {
	fw, err := getFramework(frameworkID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, mapContextErr(err)
	}

	state := statePortfolio(facilities, e.transition != nil, true)

	categories := make([]CategoryScore, 0, len(fw.Categories))
	checklist := make(map[string][]ChecklistItem, len(fw.Categories))
	var recommendations []string
	overall := 0.0

	for _, cat := range fw.Categories {
		items := cat.Checklist(state)
		score := categoryScore(items)
		checklist[cat.Name] = items
		categories = append(categories, CategoryScore{
			Category: cat.Name,
			Score:    round1(score),
			MaxScore: 100,
			Weight:   cat.Weight,
			Status:   categoryStatus(score),
		})
		overall += score * cat.Weight

		for _, item := range items {
			if item.Recommendation != "" && statusValue(item.Status) < 1 {
				recommendations = append(recommendations, item.Recommendation)
			}
		}
	}
	overall = round1(overall)

	a := &Assessment{
		Framework:           fw.ID,
		FrameworkName:       fw.Name,
		OverallScore:        overall,
		ComplianceLevel:     complianceLevel(overall),
		Categories:          categories,
		Checklist:           checklist,
		Recommendations:     recommendations,
		MaturityLevel:       maturityLevel(overall),
		GapAnalysis:         gapAnalysis(fw, categories),
		RegulatoryDeadlines: relevantDeadlines(fw.ID),
	}

	e.log.Debug().
		Str("framework", fw.ID).
		Float64("overall_score", overall).
		Int("facilities", len(facilities)).
		Msg("esg assessment complete")

	return a, nil
}

// gapAnalysis ranks categories by remediation priority. Categories within
// ten points of the target are considered closed.
func gapAnalysis(fw framework, categories []CategoryScore) []GapItem {
	efforts := make(map[string]string, len(fw.Categories))
	for _, cat := range fw.Categories {
		efforts[cat.Name] = cat.Effort
	}

	var items []GapItem
	for _, cat := range categories {
		gap := targetScore - cat.Score
		if gap <= gapSkipThreshold {
			continue
		}
		impact := clamp(cat.Weight*gap*impactScale, 1, 10)
		effort := efforts[cat.Category]
		items = append(items, GapItem{
			Category:           cat.Category,
			CurrentScore:       cat.Score,
			TargetScore:        targetScore,
			Gap:                round1(gap),
			Impact:             round1(impact),
			Effort:             effort,
			PriorityScore:      round2(impact / effortWeights[effort]),
			RecommendedActions: recommendedActions(cat.Category, cat.Score),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PriorityScore > items[j].PriorityScore
	})
	return items
}

// complianceLevel maps the weighted overall score to the Korean rating tiers.
func complianceLevel(score float64) string {
	switch {
	case score >= 90:
		return "선도"
	case score >= 80:
		return "우수"
	case score >= 65:
		return "양호"
	case score >= 50:
		return "보통"
	default:
		return "미흡"
	}
}

func categoryStatus(score float64) string {
	switch {
	case score >= 80:
		return StatusCompliant
	case score >= 50:
		return StatusPartial
	default:
		return StatusNonCompliant
	}
}

func maturityLevel(score float64) MaturityLevel {
	switch {
	case score >= 86:
		return MaturityLevel{5, "선도", "업계를 선도하는 기후 공시 체계 보유"}
	case score >= 71:
		return MaturityLevel{4, "관리", "체계적 관리 단계, 일부 고도화 필요"}
	case score >= 51:
		return MaturityLevel{3, "개발", "핵심 요소 구축 중, 정량화 확대 필요"}
	case score >= 31:
		return MaturityLevel{2, "기초", "기초 체계 수립 단계"}
	default:
		return MaturityLevel{1, "인식", "기후 공시 대응 착수 단계"}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
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
