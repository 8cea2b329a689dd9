// Package company serves the seed portfolio: stylized Korean industrial
// facilities modeled on major listed companies. Financial figures are
// illustrative sector-typical approximations, not reported values.
package company

import (
	"sort"

	"github.com/kclimate/krisk/internal/domain"
)

var seed = []domain.Facility{
	{
		FacilityID: "KR-STL-001", Name: "포항제철소", Company: "K-Steel Corp",
		Sector: "steel", Location: "경북 포항시",
		Latitude: 36.0190, Longitude: 129.3435,
		Scope1: 28_000_000, Scope2: 5_200_000, Scope3: 8_400_000,
		Revenue: 32_000_000_000, EBITDA: 4_800_000_000, AssetValue: 25_000_000_000,
	},
	{
		FacilityID: "KR-STL-002", Name: "광양제철소", Company: "K-Steel Corp",
		Sector: "steel", Location: "전남 광양시",
		Latitude: 34.9407, Longitude: 127.6959,
		Scope1: 24_000_000, Scope2: 4_600_000, Scope3: 7_200_000,
		Revenue: 28_000_000_000, EBITDA: 4_200_000_000, AssetValue: 22_000_000_000,
	},
	{
		FacilityID: "KR-PCH-001", Name: "울산석유화학단지", Company: "K-Petrochem Inc",
		Sector: "petrochemical", Location: "울산 남구",
		Latitude: 35.5384, Longitude: 129.3114,
		Scope1: 12_000_000, Scope2: 3_800_000, Scope3: 18_000_000,
		Revenue: 45_000_000_000, EBITDA: 5_400_000_000, AssetValue: 20_000_000_000,
	},
	{
		FacilityID: "KR-PCH-002", Name: "여수석유화학단지", Company: "K-Petrochem Inc",
		Sector: "petrochemical", Location: "전남 여수시",
		Latitude: 34.7604, Longitude: 127.6622,
		Scope1: 9_500_000, Scope2: 2_900_000, Scope3: 14_000_000,
		Revenue: 38_000_000_000, EBITDA: 4_560_000_000, AssetValue: 17_000_000_000,
	},
	{
		FacilityID: "KR-AUT-001", Name: "울산자동차공장", Company: "K-Motors Co",
		Sector: "automotive", Location: "울산 북구",
		Latitude: 35.5825, Longitude: 129.3612,
		Scope1: 1_800_000, Scope2: 2_200_000, Scope3: 15_000_000,
		Revenue: 55_000_000_000, EBITDA: 6_600_000_000, AssetValue: 18_000_000_000,
	},
	{
		FacilityID: "KR-AUT-002", Name: "아산자동차공장", Company: "K-Motors Co",
		Sector: "automotive", Location: "충남 아산시",
		Latitude: 36.7898, Longitude: 127.0018,
		Scope1: 950_000, Scope2: 1_100_000, Scope3: 8_500_000,
		Revenue: 28_000_000_000, EBITDA: 3_360_000_000, AssetValue: 10_000_000_000,
	},
	{
		FacilityID: "KR-ELC-001", Name: "화성반도체공장", Company: "K-Electronics Ltd",
		Sector: "electronics", Location: "경기 화성시",
		Latitude: 37.2064, Longitude: 127.0714,
		Scope1: 3_200_000, Scope2: 8_500_000, Scope3: 5_600_000,
		Revenue: 120_000_000_000, EBITDA: 36_000_000_000, AssetValue: 80_000_000_000,
	},
	{
		FacilityID: "KR-ELC-002", Name: "평택반도체공장", Company: "K-Electronics Ltd",
		Sector: "electronics", Location: "경기 평택시",
		Latitude: 36.9922, Longitude: 127.0892,
		Scope1: 2_800_000, Scope2: 7_200_000, Scope3: 4_800_000,
		Revenue: 95_000_000_000, EBITDA: 28_500_000_000, AssetValue: 65_000_000_000,
	},
	{
		FacilityID: "KR-ELC-003", Name: "구미디스플레이공장", Company: "K-Display Corp",
		Sector: "electronics", Location: "경북 구미시",
		Latitude: 36.1198, Longitude: 128.3444,
		Scope1: 1_500_000, Scope2: 4_200_000, Scope3: 3_100_000,
		Revenue: 42_000_000_000, EBITDA: 5_040_000_000, AssetValue: 28_000_000_000,
	},
	{
		FacilityID: "KR-UTL-001", Name: "당진화력발전소", Company: "K-Power Corp",
		Sector: "utilities", Location: "충남 당진시",
		Latitude: 36.8898, Longitude: 126.6294,
		Scope1: 18_000_000, Scope2: 500_000, Scope3: 2_200_000,
		Revenue: 8_000_000_000, EBITDA: 800_000_000, AssetValue: 12_000_000_000,
	},
	{
		FacilityID: "KR-UTL-002", Name: "태안화력발전소", Company: "K-Power Corp",
		Sector: "utilities", Location: "충남 태안군",
		Latitude: 36.7450, Longitude: 126.2969,
		Scope1: 15_000_000, Scope2: 400_000, Scope3: 1_800_000,
		Revenue: 6_500_000_000, EBITDA: 650_000_000, AssetValue: 9_500_000_000,
	},
	{
		FacilityID: "KR-UTL-003", Name: "영흥화력발전소", Company: "K-Power Corp",
		Sector: "utilities", Location: "인천 옹진군",
		Latitude: 37.2500, Longitude: 126.4833,
		Scope1: 12_000_000, Scope2: 350_000, Scope3: 1_500_000,
		Revenue: 5_200_000_000, EBITDA: 520_000_000, AssetValue: 8_000_000_000,
	},
	{
		FacilityID: "KR-CMT-001", Name: "단양시멘트공장", Company: "K-Cement Corp",
		Sector: "cement", Location: "충북 단양군",
		Latitude: 36.9847, Longitude: 128.3654,
		Scope1: 6_500_000, Scope2: 1_200_000, Scope3: 2_800_000,
		Revenue: 3_800_000_000, EBITDA: 760_000_000, AssetValue: 5_000_000_000,
	},
	{
		FacilityID: "KR-CMT-002", Name: "영월시멘트공장", Company: "K-Cement Corp",
		Sector: "cement", Location: "강원 영월군",
		Latitude: 37.1839, Longitude: 128.4617,
		Scope1: 5_200_000, Scope2: 980_000, Scope3: 2_200_000,
		Revenue: 3_000_000_000, EBITDA: 600_000_000, AssetValue: 4_000_000_000,
	},
	{
		FacilityID: "KR-SHP-001", Name: "부산항 해운기지", Company: "K-Shipping Lines",
		Sector: "shipping", Location: "부산 영도구",
		Latitude: 35.0756, Longitude: 129.0681,
		Scope1: 4_200_000, Scope2: 350_000, Scope3: 6_800_000,
		Revenue: 12_000_000_000, EBITDA: 1_440_000_000, AssetValue: 8_500_000_000,
	},
	{
		FacilityID: "KR-OG-001", Name: "울산정유공장", Company: "K-Refinery Corp",
		Sector: "oil_gas", Location: "울산 울주군",
		Latitude: 35.4929, Longitude: 129.2278,
		Scope1: 8_500_000, Scope2: 2_100_000, Scope3: 22_000_000,
		Revenue: 52_000_000_000, EBITDA: 3_640_000_000, AssetValue: 15_000_000_000,
	},
	{
		FacilityID: "KR-OG-002", Name: "대산정유공장", Company: "K-Refinery Corp",
		Sector: "oil_gas", Location: "충남 서산시",
		Latitude: 36.9167, Longitude: 126.3833,
		Scope1: 6_800_000, Scope2: 1_700_000, Scope3: 18_000_000,
		Revenue: 40_000_000_000, EBITDA: 2_800_000_000, AssetValue: 12_000_000_000,
	},
}

// All returns a copy of the full seed portfolio.
func All() []domain.Facility {
	out := make([]domain.Facility, len(seed))
	copy(out, seed)
	return out
}

// ByID looks up one facility.
func ByID(id string) (domain.Facility, bool) {
	for _, f := range seed {
		if f.FacilityID == id {
			return f, true
		}
	}
	return domain.Facility{}, false
}

// BySector filters the seed portfolio by sector tag.
func BySector(sector string) []domain.Facility {
	var out []domain.Facility
	for _, f := range seed {
		if f.Sector == sector {
			out = append(out, f)
		}
	}
	return out
}

// Sectors returns the distinct sector tags in the seed set, sorted.
func Sectors() []string {
	set := map[string]bool{}
	for _, f := range seed {
		set[f.Sector] = true
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Companies returns the distinct company names, sorted.
func Companies() []string {
	set := map[string]bool{}
	for _, f := range seed {
		set[f.Company] = true
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// ByCompany filters the seed portfolio by company name.
func ByCompany(name string) []domain.Facility {
	var out []domain.Facility
	for _, f := range seed {
		if f.Company == name {
			out = append(out, f)
		}
	}
	return out
}

// Summary aggregates company-level totals.
type Summary struct {
	Company       string   `json:"company"`
	FacilityCount int      `json:"facility_count"`
	Sectors       []string `json:"sectors"`
	PrimarySector string   `json:"primary_sector"`
	TotalScope1   float64  `json:"total_scope1"`
	TotalScope2   float64  `json:"total_scope2"`
	TotalScope3   float64  `json:"total_scope3"`
	TotalRevenue  float64  `json:"total_revenue"`
	TotalEBITDA   float64  `json:"total_ebitda"`
	TotalAssets   float64  `json:"total_assets"`
}

// CompanySummary aggregates the company's facilities. The second return is
// false for an unknown company.
func CompanySummary(name string) (Summary, bool) {
	facs := ByCompany(name)
	if len(facs) == 0 {
		return Summary{}, false
	}
	set := map[string]bool{}
	s := Summary{Company: name, FacilityCount: len(facs)}
	for _, f := range facs {
		set[f.Sector] = true
		s.TotalScope1 += f.Scope1
		s.TotalScope2 += f.Scope2
		s.TotalScope3 += f.Scope3
		s.TotalRevenue += f.Revenue
		s.TotalEBITDA += f.EBITDA
		s.TotalAssets += f.AssetValue
	}
	for sector := range set {
		s.Sectors = append(s.Sectors, sector)
	}
	sort.Strings(s.Sectors)
	s.PrimarySector = s.Sectors[0]
	return s, true
}
