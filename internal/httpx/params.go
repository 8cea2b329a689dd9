package httpx

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/registry"
)

// Query parameter defaults shared by the public and session-scoped routes.
const (
	DefaultScenario  = "net_zero_2050"
	DefaultRegime    = registry.RegimeGlobal
	DefaultFramework = "tcfd"
	DefaultYear      = 2030

	MinYear = 2025
	MaxYear = 2100
)

// Scenario reads the scenario query parameter with its default. Validation
// stays with the engines so the error message is consistent everywhere.
func Scenario(r *http.Request) string {
	if s := r.URL.Query().Get("scenario"); s != "" {
		return s
	}
	return DefaultScenario
}

// Regime reads the pricing_regime query parameter with its default.
func Regime(r *http.Request) string {
	if s := r.URL.Query().Get("pricing_regime"); s != "" {
		return s
	}
	return DefaultRegime
}

// Framework reads the framework query parameter with its default.
func Framework(r *http.Request) string {
	if s := r.URL.Query().Get("framework"); s != "" {
		return s
	}
	return DefaultFramework
}

// Year reads and bounds the year query parameter.
func Year(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return DefaultYear, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: year must be an integer, got %q", domain.ErrInvalidYear, raw)
	}
	if year < MinYear || year > MaxYear {
		return 0, fmt.Errorf("%w: year must be in [%d, %d], got %d", domain.ErrInvalidYear, MinYear, MaxYear, year)
	}
	return year, nil
}

// UseAPIData reads the use_api_data flag, defaulting to false.
func UseAPIData(r *http.Request) bool {
	return r.URL.Query().Get("use_api_data") == "true"
}
