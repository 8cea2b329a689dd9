package registry

// Region types for the six KMA climate districts.
const (
	RegionCoastalSouth  = "coastal_south"
	RegionCoastalEast   = "coastal_east"
	RegionCoastalWest   = "coastal_west"
	RegionInlandCentral = "inland_central"
	RegionInlandSouth   = "inland_south"
	RegionMountain      = "mountain"
)

// GumbelParams are the Type I extreme value parameters for annual-maximum
// daily precipitation (mm).
// Source: KMA 30-year statistical analysis (1991-2020), fitted by region
// cluster.
type GumbelParams struct {
	Location float64 // mu
	Scale    float64 // sigma
}

var floodGumbelParams = map[string]GumbelParams{
	RegionCoastalSouth:  {Location: 220.0, Scale: 55.0}, // 부산, 여수, 광양
	RegionCoastalEast:   {Location: 200.0, Scale: 50.0}, // 포항, 울산
	RegionCoastalWest:   {Location: 180.0, Scale: 48.0}, // 인천, 당진, 태안
	RegionInlandCentral: {Location: 160.0, Scale: 42.0}, // 화성, 평택, 아산
	RegionInlandSouth:   {Location: 175.0, Scale: 45.0}, // 구미
	RegionMountain:      {Location: 150.0, Scale: 38.0}, // 단양, 영월
}

// Typhoon annual direct-strike frequency (events/year); direct strike means
// the typhoon centre passes within 200km.
// Source: KMA National Typhoon Center, 1951-2023 statistics.
var typhoonAnnualFrequency = map[string]float64{
	RegionCoastalSouth:  1.8,
	RegionCoastalEast:   1.2,
	RegionCoastalWest:   0.8,
	RegionInlandCentral: 0.3,
	RegionInlandSouth:   0.5,
	RegionMountain:      0.2,
}

// Annual days above 33°C, 1991-2020 average.
// Source: KMA Climate Change Scenario Report (2020).
var heatwaveBaselineDays = map[string]float64{
	RegionCoastalSouth:  12.0,
	RegionCoastalEast:   10.0,
	RegionCoastalWest:   14.0,
	RegionInlandCentral: 16.0, // urban heat island amplification
	RegionInlandSouth:   18.0, // Daegu basin effect
	RegionMountain:      6.0,
}

// HeatwaveDaysPerDegree is the added heatwave days per °C of warming.
// Source: IPCC AR6 WG1 Ch.11 §11.3.5; Kim et al. (2020), J. Climate 33(18).
const HeatwaveDaysPerDegree = 4.0

// Annual industrial water stress days by region.
// Source: K-water, National Water Resources Plan 2021-2030, Ch.4.
var droughtBaselineDays = map[string]float64{
	RegionCoastalSouth:  15.0,
	RegionCoastalEast:   20.0,
	RegionCoastalWest:   18.0,
	RegionInlandCentral: 22.0,
	RegionInlandSouth:   25.0,
	RegionMountain:      12.0,
}

// DepthDamagePoint maps inundation depth (cm) to a damage fraction of asset
// value for industrial structures.
// Source: USACE depth-damage functions adapted per Kim & Lee (2019),
// J. Korea Water Resources Association 52(S-1).
type DepthDamagePoint struct {
	DepthCM float64
	Damage  float64
}

// DepthDamageCurveIndustrial is monotone in depth with a flat ceiling of
// 0.6 applied by the flood model.
var DepthDamageCurveIndustrial = []DepthDamagePoint{
	{0, 0.00},
	{10, 0.03},  // minor water ingress
	{30, 0.08},  // equipment wetting, cleanup
	{50, 0.15},  // significant equipment damage
	{100, 0.30}, // major structural + equipment
	{150, 0.45},
	{200, 0.58},
	{300, 0.70},
}

// FloodDamageCeiling caps the damage fraction applied to asset value.
const FloodDamageCeiling = 0.6

// RunoffCoefficientIndustrial converts rainfall to flood depth for heavily
// impervious surface cover (>85%).
// Source: MOLIT, 하수도시설기준 (2019), Table 3.2.
const RunoffCoefficientIndustrial = 0.80

// TyphoonCategory couples a HAZUS-MH damage rate with landfall probability
// and typical downtime.
// Sources: HAZUS-MH (FEMA) adapted for Korean industrial facilities;
// KMA NTC landfall statistics conditional on direct strike (1951-2023);
// Munich Re NatCatSERVICE downtime ranges.
type TyphoonCategory struct {
	Name        string
	MinWindMS   float64
	DamageRate  float64 // damage fraction per strike
	Probability float64 // landfall category distribution
	DowntimeDay float64
}

// TyphoonCategories in ascending severity.
var TyphoonCategories = []TyphoonCategory{
	{Name: "category_1", MinWindMS: 33, DamageRate: 0.05, Probability: 0.45, DowntimeDay: 3},
	{Name: "category_2", MinWindMS: 43, DamageRate: 0.12, Probability: 0.30, DowntimeDay: 7},
	{Name: "category_3", MinWindMS: 50, DamageRate: 0.25, Probability: 0.18, DowntimeDay: 15},
	{Name: "category_4", MinWindMS: 58, DamageRate: 0.45, Probability: 0.06, DowntimeDay: 30},
	{Name: "category_5", MinWindMS: 70, DamageRate: 0.65, Probability: 0.01, DowntimeDay: 60},
}

// Business interruption day table for flood severity bands.
// Source: Munich Re NatCatSERVICE (2023), Table A3; Swiss Re sigma 1/2023.
var FloodInterruptionDays = struct {
	Minor        float64 // < 30cm
	Moderate     float64 // 30-100cm
	Severe       float64 // 100-200cm
	Catastrophic float64 // > 200cm
}{5, 15, 45, 90}

// TyphoonInterruptionShare is the business interruption per strike as a
// fraction of annual revenue.
const TyphoonInterruptionShare = 0.03

// HeatwaveProductivityFactor converts heatwave days into revenue loss:
// loss = days × outdoor_exposure × revenue × factor.
// Source: ILO (2019), "Working on a Warmer Planet" (mid-range estimate).
const HeatwaveProductivityFactor = 0.004

// DroughtSevereLossFraction is the asset share lost in a severe regional
// drought year, before the climate multiplier.
const DroughtSevereLossFraction = 0.016

// HazardCorrelations approximate joint occurrence for compound-event
// adjustment (copula approximation).
// Source: Zscheischler et al. (2018), Nature Climate Change.
var HazardCorrelations = map[[2]string]float64{
	{"flood", "typhoon"}:    0.40,  // rain-bearing typhoons
	{"flood", "heatwave"}:   -0.15, // dry/wet season inverse
	{"typhoon", "heatwave"}: 0.10,
	{"drought", "heatwave"}: 0.35, // co-occurrence
	{"flood", "drought"}:    -0.20,
}

// FloodGumbel returns the regional Gumbel parameters.
func FloodGumbel(region string) GumbelParams {
	if p, ok := floodGumbelParams[region]; ok {
		return p
	}
	return floodGumbelParams[RegionInlandCentral]
}

// TyphoonFrequency returns the regional annual direct-strike rate.
func TyphoonFrequency(region string) float64 {
	if f, ok := typhoonAnnualFrequency[region]; ok {
		return f
	}
	return 0.3
}

// HeatwaveBaseline returns the regional annual heatwave-day count.
func HeatwaveBaseline(region string) float64 {
	if d, ok := heatwaveBaselineDays[region]; ok {
		return d
	}
	return 12.0
}

// DroughtBaseline returns the regional annual water-stress-day count.
func DroughtBaseline(region string) float64 {
	if d, ok := droughtBaselineDays[region]; ok {
		return d
	}
	return 18.0
}

// IsCoastal reports whether a region type faces the open sea.
func IsCoastal(region string) bool {
	switch region {
	case RegionCoastalSouth, RegionCoastalEast, RegionCoastalWest:
		return true
	}
	return false
}
