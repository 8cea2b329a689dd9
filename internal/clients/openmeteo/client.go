// Package openmeteo provides client functionality for the Open-Meteo
// Historical Weather archive and derives the climate baselines the physical
// risk models consume (Gumbel flood parameters, heatwave days, drought
// spells, wind speed).
//
// API: https://archive-api.open-meteo.com/v1/archive
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Data source tags carried on physical-risk results.
const (
	DataSourceAPI      = "open_meteo_api"
	DataSourceFallback = "hardcoded_config"
)

const (
	// DefaultBaseURL is the production archive endpoint.
	DefaultBaseURL = "https://archive-api.open-meteo.com/v1/archive"

	startDate = "1994-01-01"
	endDate   = "2023-12-31"
	dailyVars = "temperature_2m_max,precipitation_sum,wind_speed_10m_max"
	timezone  = "Asia/Seoul"

	// gridStep groups nearby facilities onto one archive cell.
	gridStep = 0.25

	cacheTTL            = time.Hour
	defaultFetchTimeout = 10 * time.Second
)

// Baselines are the statistics derived from ~30 years of daily observations
// at one coordinate. The optional fields are nil when the archive did not
// yield enough usable years; callers fall back to the regional defaults for
// those hazards.
type Baselines struct {
	GumbelLocation float64  `json:"gumbel_location"`
	GumbelScale    float64  `json:"gumbel_scale"`
	HeatwaveDays   *float64 `json:"heatwave_days,omitempty"`
	DroughtDays    *float64 `json:"drought_days,omitempty"`
	WindAnnualMax  *float64 `json:"wind_speed_annual_max_ms,omitempty"`
}

// Config holds client construction parameters. Transport and Now exist for
// test injection and default to the real implementations.
type Config struct {
	BaseURL      string
	FetchTimeout time.Duration
	Transport    http.RoundTripper
	Now          func() time.Time
}

type cacheEntry struct {
	baselines *Baselines
	fetchedAt time.Time
}

// Client fetches and caches weather-derived baselines. Safe for concurrent
// use; concurrent fetches for the same grid cell are collapsed into a single
// HTTP request.
type Client struct {
	baseURL      string
	fetchTimeout time.Duration
	httpClient   *http.Client
	now          func() time.Time
	log          zerolog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
	group singleflight.Group
}

// NewClient creates a weather client.
func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Client{
		baseURL:      cfg.BaseURL,
		fetchTimeout: cfg.FetchTimeout,
		httpClient:   &http.Client{Transport: cfg.Transport},
		now:          cfg.Now,
		log:          log.With().Str("client", "openmeteo").Logger(),
		cache:        map[string]cacheEntry{},
	}
}

func snapToGrid(v float64) float64 {
	return math.Round(v/gridStep) * gridStep
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.2f,%.2f", snapToGrid(lat), snapToGrid(lon))
}

// FetchStats returns the derived baselines for a coordinate, serving from
// the one-hour cache when possible. On any failure the error is returned and
// the caller is expected to fall back to regional defaults under the
// DataSourceFallback tag. Cancelling ctx abandons the wait immediately; the
// underlying fetch is bounded by the configured per-fetch timeout either way.
func (c *Client) FetchStats(ctx context.Context, lat, lon float64) (*Baselines, error) {
	key := cacheKey(lat, lon)

	c.mu.Lock()
	entry, ok := c.cache[key]
	if ok && c.now().Sub(entry.fetchedAt) < cacheTTL {
		c.mu.Unlock()
		return entry.baselines, nil
	}
	delete(c.cache, key)
	c.mu.Unlock()

	ch := c.group.DoChan(key, func() (interface{}, error) {
		// Detached from the triggering request so that late joiners still
		// get a result after the first caller cancels.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.fetchTimeout)
		defer cancel()

		baselines, err := c.fetchAndDerive(fetchCtx, snapToGrid(lat), snapToGrid(lon))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cache[key] = cacheEntry{baselines: baselines, fetchedAt: c.now()}
		c.mu.Unlock()
		return baselines, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			c.log.Warn().Err(res.Err).Str("cell", key).Msg("weather fetch failed, caller falls back to regional defaults")
			return nil, res.Err
		}
		return res.Val.(*Baselines), nil
	}
}

// SweepExpired drops cache entries past their TTL. Called by the periodic
// maintenance job.
func (c *Client) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, entry := range c.cache {
		if c.now().Sub(entry.fetchedAt) >= cacheTTL {
			delete(c.cache, key)
			removed++
		}
	}
	return removed
}

// CacheSize reports the number of live cache entries, for metrics.
func (c *Client) CacheSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// archiveResponse mirrors the Open-Meteo daily payload. Missing observations
// come back as JSON nulls.
type archiveResponse struct {
	Daily struct {
		Time             []string   `json:"time"`
		TemperatureMax   []*float64 `json:"temperature_2m_max"`
		PrecipitationSum []*float64 `json:"precipitation_sum"`
		WindSpeedMax     []*float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

func (c *Client) fetchAndDerive(ctx context.Context, lat, lon float64) (*Baselines, error) {
	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%.2f", lat))
	params.Set("longitude", fmt.Sprintf("%.2f", lon))
	params.Set("start_date", startDate)
	params.Set("end_date", endDate)
	params.Set("daily", dailyVars)
	params.Set("timezone", timezone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build archive request: %w", err)
	}

	c.log.Debug().Float64("lat", lat).Float64("lon", lon).Msg("fetching historical weather")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("archive request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("archive returned status %d", resp.StatusCode)
	}

	var payload archiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode archive response: %w", err)
	}
	if len(payload.Daily.Time) == 0 {
		return nil, fmt.Errorf("archive returned no daily data for (%.2f, %.2f)", lat, lon)
	}

	baselines, err := deriveBaselines(payload.Daily.TemperatureMax, payload.Daily.PrecipitationSum, payload.Daily.WindSpeedMax)
	if err != nil {
		return nil, err
	}
	return baselines, nil
}
