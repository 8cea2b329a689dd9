// Package domain defines the core data model shared by all risk engines.
package domain

import "fmt"

// Risk levels derived from loss magnitudes.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Facility is a single industrial site with its emissions and financial state.
// All monetary values are in a single currency unit (USD for the seed set).
// Emissions are tCO2e per year.
type Facility struct {
	FacilityID string  `json:"facility_id"`
	Name       string  `json:"name"`
	Company    string  `json:"company"`
	Sector     string  `json:"sector"`
	Location   string  `json:"location"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Scope1     float64 `json:"current_emissions_scope1"`
	Scope2     float64 `json:"current_emissions_scope2"`
	Scope3     float64 `json:"current_emissions_scope3"`
	Revenue    float64 `json:"annual_revenue"`
	EBITDA     float64 `json:"ebitda"`
	AssetValue float64 `json:"assets_value"`
}

// TotalEmissions returns scope 1 + scope 2 baseline emissions.
func (f *Facility) TotalEmissions() float64 {
	return f.Scope1 + f.Scope2
}

// Validate checks the closed-record invariants for an uploaded facility.
// EBITDA may be negative; everything else monetary or emission must be
// positive (scope 3 may be zero).
func (f *Facility) Validate() error {
	if f.FacilityID == "" {
		return fmt.Errorf("%w: facility_id is required", ErrInvalidFacility)
	}
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidFacility)
	}
	if f.Sector == "" {
		return fmt.Errorf("%w: sector is required", ErrInvalidFacility)
	}
	if f.Latitude < -90 || f.Latitude > 90 {
		return fmt.Errorf("%w: latitude %.4f out of range", ErrInvalidFacility, f.Latitude)
	}
	if f.Longitude < -180 || f.Longitude > 180 {
		return fmt.Errorf("%w: longitude %.4f out of range", ErrInvalidFacility, f.Longitude)
	}
	if f.Scope1 <= 0 || f.Scope2 <= 0 {
		return fmt.Errorf("%w: scope 1 and scope 2 emissions must be positive", ErrInvalidFacility)
	}
	if f.Scope3 < 0 {
		return fmt.Errorf("%w: scope 3 emissions must be non-negative", ErrInvalidFacility)
	}
	if f.Revenue <= 0 {
		return fmt.Errorf("%w: annual_revenue must be positive", ErrInvalidFacility)
	}
	if f.AssetValue <= 0 {
		return fmt.Errorf("%w: assets_value must be positive", ErrInvalidFacility)
	}
	return nil
}

// TransitionRiskLevel buckets |dNPV| as a fraction of asset value.
// Equality falls into the stricter bucket.
func TransitionRiskLevel(npvPctOfAssets float64) string {
	mag := npvPctOfAssets
	if mag < 0 {
		mag = -mag
	}
	switch {
	case mag >= 0.10:
		return RiskHigh
	case mag >= 0.03:
		return RiskMedium
	default:
		return RiskLow
	}
}

// PhysicalRiskLevel buckets an expected annual loss against asset value.
func PhysicalRiskLevel(eal, assetValue float64) string {
	if assetValue <= 0 {
		return RiskLow
	}
	ratio := eal / assetValue
	switch {
	case ratio >= 0.01:
		return RiskHigh
	case ratio >= 0.001:
		return RiskMedium
	default:
		return RiskLow
	}
}

// MaxRiskLevel returns the severer of two risk levels.
func MaxRiskLevel(a, b string) string {
	rank := map[string]int{RiskLow: 0, RiskMedium: 1, RiskHigh: 2}
	if rank[b] > rank[a] {
		return b
	}
	return a
}
