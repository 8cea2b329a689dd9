package registry

import (
	"fmt"
	"sort"
)

// SectorParams collects the transition-risk calibration for one sector.
// Sources: IEA Energy Efficiency Indicators 2023 (energy share); Demailly &
// Quirion (2008) and Reinaud (2008) (pass-through, elasticities); CDP Supply
// Chain Report 2023 (scope 3 exposure); ILO "Working on a Warmer Planet"
// (2019) (outdoor exposure); K-water regional assessment (water intensity).
type SectorParams struct {
	Tag                 string
	EnergyCostShare     float64 // energy cost as fraction of revenue
	CostPassthrough     float64 // fraction of cost increase passed to customers
	DemandElasticity    float64 // demand response to carbon-induced price rises
	Scope3Exposure      float64 // fraction of scope 3 carbon cost borne
	ReductionMultiplier float64 // relative decarbonisation pace (1.0 = average)
	OutdoorExposure     float64 // workforce share exposed to heat
	WaterIntensity      float64 // revenue share dependent on process water
	StrandedRate        float64 // annual asset write-down rate; carbon-intensive sectors only
	MACBaseCost         float64 // backstop marginal abatement cost, $/tCO2e
	CapexRatio          float64 // share of abatement cost that is capital spend
}

var sectorParams = map[string]SectorParams{
	"steel":         {Tag: "steel", EnergyCostShare: 0.25, CostPassthrough: 0.40, DemandElasticity: 0.10, Scope3Exposure: 0.08, ReductionMultiplier: 0.9, OutdoorExposure: 0.30, WaterIntensity: 0.15, StrandedRate: 0.030, MACBaseCost: 80, CapexRatio: 0.75},
	"petrochemical": {Tag: "petrochemical", EnergyCostShare: 0.20, CostPassthrough: 0.45, DemandElasticity: 0.08, Scope3Exposure: 0.15, ReductionMultiplier: 0.9, OutdoorExposure: 0.25, WaterIntensity: 0.12, StrandedRate: 0.020, MACBaseCost: 55, CapexRatio: 0.65},
	"cement":        {Tag: "cement", EnergyCostShare: 0.30, CostPassthrough: 0.60, DemandElasticity: 0.12, Scope3Exposure: 0.06, ReductionMultiplier: 0.8, OutdoorExposure: 0.35, WaterIntensity: 0.05, StrandedRate: 0.020, MACBaseCost: 65, CapexRatio: 0.70},
	"utilities":     {Tag: "utilities", EnergyCostShare: 0.40, CostPassthrough: 0.80, DemandElasticity: 0.20, Scope3Exposure: 0.05, ReductionMultiplier: 1.1, OutdoorExposure: 0.40, WaterIntensity: 0.20, StrandedRate: 0.045, MACBaseCost: 35, CapexRatio: 0.80},
	"oil_gas":       {Tag: "oil_gas", EnergyCostShare: 0.15, CostPassthrough: 0.50, DemandElasticity: 0.15, Scope3Exposure: 0.25, ReductionMultiplier: 1.2, OutdoorExposure: 0.35, WaterIntensity: 0.10, StrandedRate: 0.035, MACBaseCost: 45, CapexRatio: 0.70},
	"shipping":      {Tag: "shipping", EnergyCostShare: 0.35, CostPassthrough: 0.35, DemandElasticity: 0.15, Scope3Exposure: 0.10, ReductionMultiplier: 0.8, OutdoorExposure: 0.50, WaterIntensity: 0.03, StrandedRate: 0, MACBaseCost: 90, CapexRatio: 0.65},
	"automotive":    {Tag: "automotive", EnergyCostShare: 0.08, CostPassthrough: 0.30, DemandElasticity: 0.30, Scope3Exposure: 0.20, ReductionMultiplier: 1.3, OutdoorExposure: 0.15, WaterIntensity: 0.06, StrandedRate: 0, MACBaseCost: 40, CapexRatio: 0.60},
	"electronics":   {Tag: "electronics", EnergyCostShare: 0.10, CostPassthrough: 0.25, DemandElasticity: 0.05, Scope3Exposure: 0.08, ReductionMultiplier: 1.1, OutdoorExposure: 0.05, WaterIntensity: 0.18, StrandedRate: 0, MACBaseCost: 30, CapexRatio: 0.55},
	"real_estate":   {Tag: "real_estate", EnergyCostShare: 0.12, CostPassthrough: 0.70, DemandElasticity: 0.05, Scope3Exposure: 0.04, ReductionMultiplier: 1.1, OutdoorExposure: 0.20, WaterIntensity: 0.03, StrandedRate: 0, MACBaseCost: 25, CapexRatio: 0.80},
	"financial":     {Tag: "financial", EnergyCostShare: 0.03, CostPassthrough: 0.60, DemandElasticity: 0.02, Scope3Exposure: 0.03, ReductionMultiplier: 1.0, OutdoorExposure: 0.02, WaterIntensity: 0.01, StrandedRate: 0, MACBaseCost: 10, CapexRatio: 0.90},
}

// defaultSector parameterises facilities whose sector tag is not one of the
// ten recognised sectors. Mid-range values; the analysis still runs but the
// caller gets a warning.
var defaultSector = SectorParams{
	Tag:                 "default",
	EnergyCostShare:     0.15,
	CostPassthrough:     0.50,
	DemandElasticity:    0.10,
	Scope3Exposure:      0.08,
	ReductionMultiplier: 1.0,
	OutdoorExposure:     0.15,
	WaterIntensity:      0.05,
	StrandedRate:        0,
	MACBaseCost:         50,
	CapexRatio:          0.70,
}

// KETSAllocation is the free-allocation schedule for a sector under the
// Korean emissions trading scheme.
// Source: 환경부, 제3차 배출권거래제 기본계획 (2020.12) and 제4차 계획기간
// 국가 배출권 할당계획 (2024). EITE sectors 97%, power sector 90%.
type KETSAllocation struct {
	BaseRatio        float64 // free allocation fraction at the base year
	AnnualTightening float64 // fraction points removed per year from Phase 4
}

var ketsAllocations = map[string]KETSAllocation{
	"steel":         {BaseRatio: 0.97, AnnualTightening: 0.010},
	"cement":        {BaseRatio: 0.97, AnnualTightening: 0.010},
	"petrochemical": {BaseRatio: 0.95, AnnualTightening: 0.012},
	"utilities":     {BaseRatio: 0.90, AnnualTightening: 0.015},
	"oil_gas":       {BaseRatio: 0.93, AnnualTightening: 0.013},
	"shipping":      {BaseRatio: 0.95, AnnualTightening: 0.010},
	"automotive":    {BaseRatio: 0.90, AnnualTightening: 0.015},
	"electronics":   {BaseRatio: 0.92, AnnualTightening: 0.012},
	"real_estate":   {BaseRatio: 0.85, AnnualTightening: 0.020},
	"financial":     {BaseRatio: 0.80, AnnualTightening: 0.020},
}

// defaultKETSAllocation covers unknown sectors: modest free allocation with
// standard tightening.
var defaultKETSAllocation = KETSAllocation{BaseRatio: 0.85, AnnualTightening: 0.015}

// AbatementTech is one rung of a sector's marginal abatement cost stack.
// Source: IEA ETP 2023, IRENA Power Sector 2023, GCCA Roadmap 2050,
// WorldSteel Association, IMO GHG Strategy 2023.
type AbatementTech struct {
	Tech          string
	MAC           float64 // $/tCO2e at the base year
	MaxReduction  float64 // fraction of baseline emissions addressable
	AvailableYear int
	LearningRate  float64 // annual cost decline
}

var abatementStacks = map[string][]AbatementTech{
	"steel": {
		{"energy_efficiency", 15, 0.10, 2020, 0.02},
		{"scrap_eaf", 35, 0.20, 2022, 0.03},
		{"dri_natural_gas", 55, 0.15, 2025, 0.04},
		{"dri_hydrogen", 100, 0.30, 2028, 0.08},
		{"ccus", 80, 0.20, 2027, 0.05},
	},
	"utilities": {
		{"efficiency_upgrade", 10, 0.08, 2020, 0.02},
		{"coal_to_gas", 25, 0.25, 2020, 0.01},
		{"solar_wind", 35, 0.30, 2020, 0.10},
		{"battery_storage", 60, 0.10, 2025, 0.15},
		{"ccs_power", 80, 0.20, 2028, 0.05},
	},
	"cement": {
		{"energy_efficiency", 12, 0.10, 2020, 0.02},
		{"alternative_fuels", 30, 0.15, 2020, 0.03},
		{"clinker_substitution", 25, 0.15, 2022, 0.02},
		{"novel_cement", 70, 0.15, 2030, 0.06},
		{"ccus_cement", 90, 0.30, 2028, 0.05},
	},
	"petrochemical": {
		{"energy_efficiency", 15, 0.08, 2020, 0.02},
		{"feedstock_optimization", 30, 0.12, 2020, 0.02},
		{"electrification", 50, 0.15, 2025, 0.06},
		{"bio_feedstock", 75, 0.15, 2027, 0.05},
		{"ccus_chemical", 85, 0.25, 2028, 0.05},
	},
	"oil_gas": {
		{"methane_abatement", 10, 0.10, 2020, 0.02},
		{"energy_efficiency", 20, 0.10, 2020, 0.02},
		{"electrification", 45, 0.15, 2025, 0.05},
		{"hydrogen_integration", 80, 0.15, 2030, 0.07},
		{"ccus_refinery", 70, 0.25, 2027, 0.05},
	},
	"automotive": {
		{"ice_efficiency", 15, 0.10, 2020, 0.02},
		{"hybrid_transition", 25, 0.15, 2020, 0.04},
		{"bev_production", 40, 0.35, 2022, 0.12},
		{"green_manufacturing", 55, 0.15, 2025, 0.06},
		{"circular_economy", 35, 0.10, 2025, 0.03},
	},
	"electronics": {
		{"energy_efficiency", 10, 0.15, 2020, 0.03},
		{"renewable_ppa", 20, 0.30, 2020, 0.08},
		{"process_gas_abatement", 45, 0.15, 2023, 0.04},
		{"green_hydrogen", 70, 0.10, 2028, 0.07},
	},
	"shipping": {
		{"speed_optimization", 8, 0.10, 2020, 0.01},
		{"energy_efficiency", 20, 0.10, 2020, 0.02},
		{"lng_dual_fuel", 45, 0.15, 2022, 0.03},
		{"methanol_ammonia", 90, 0.30, 2028, 0.06},
		{"wind_assist", 35, 0.10, 2025, 0.04},
	},
	"real_estate": {
		{"building_efficiency", 10, 0.20, 2020, 0.03},
		{"heat_pump", 25, 0.25, 2020, 0.08},
		{"onsite_solar", 30, 0.15, 2020, 0.10},
		{"smart_building", 40, 0.10, 2023, 0.05},
	},
	"financial": {
		{"operational_efficiency", 5, 0.20, 2020, 0.03},
		{"renewable_procurement", 15, 0.40, 2020, 0.08},
		{"green_data_centers", 30, 0.20, 2023, 0.06},
	},
}

// GetSector returns the parameter set for a sector tag, falling back to the
// default set for unknown tags. The second return reports whether the tag
// was recognised.
func GetSector(tag string) (SectorParams, bool) {
	if p, ok := sectorParams[tag]; ok {
		return p, true
	}
	return defaultSector, false
}

// KnownSectors lists the ten recognised sector tags, sorted.
func KnownSectors() []string {
	tags := make([]string, 0, len(sectorParams))
	for tag := range sectorParams {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// SectorWarnings returns one warning per unrecognised sector tag. Unknown
// sectors are still analysed, with default parameters.
func SectorWarnings(tags []string) []string {
	var warnings []string
	seen := map[string]bool{}
	for _, tag := range tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		if _, ok := sectorParams[tag]; !ok {
			warnings = append(warnings, fmt.Sprintf(
				"Unknown sector %q: analysed with default parameters", tag))
		}
	}
	return warnings
}

// GetKETSAllocation returns the free-allocation schedule for a sector.
func GetKETSAllocation(tag string) KETSAllocation {
	if a, ok := ketsAllocations[tag]; ok {
		return a
	}
	return defaultKETSAllocation
}

// AbatementStack returns the MAC technology stack for a sector, cheapest
// first. Unknown sectors get an empty stack; the pricing layer falls back
// to the sector's backstop MAC.
func AbatementStack(tag string) []AbatementTech {
	stack := abatementStacks[tag]
	out := make([]AbatementTech, len(stack))
	copy(out, stack)
	sort.Slice(out, func(i, j int) bool { return out[i].MAC < out[j].MAC })
	return out
}
