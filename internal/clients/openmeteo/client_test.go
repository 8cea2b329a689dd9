package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingTransport serves a canned archive payload and counts requests.
type countingTransport struct {
	calls   atomic.Int64
	status  int
	payload []byte
	delay   time.Duration
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.calls.Add(1)
	if t.delay > 0 {
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(t.delay):
		}
	}
	status := t.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       http.NoBody,
		Request:    req,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

// bodyTransport is countingTransport with a real body per call.
type bodyTransport struct {
	countingTransport
}

func (t *bodyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.countingTransport.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	resp.Body = newStringBody(string(t.payload))
	return resp, nil
}

func newStringBody(s string) *stringBody { return &stringBody{r: strings.NewReader(s)} }

type stringBody struct{ r *strings.Reader }

func (b *stringBody) Read(p []byte) (int, error) { return b.r.Read(p) }
func (b *stringBody) Close() error               { return nil }

// syntheticArchive builds a 30-year daily payload with one precipitation
// spike, a handful of hot days, and a wind spike per year.
func syntheticArchive(t *testing.T) []byte {
	t.Helper()
	const years = 30
	var (
		times  []string
		tmax   []*float64
		precip []*float64
		wind   []*float64
	)
	f := func(v float64) *float64 { return &v }
	for y := 0; y < years; y++ {
		for d := 0; d < 365; d++ {
			times = append(times, fmt.Sprintf("%d-day-%d", 1994+y, d))
			switch {
			case d >= 200 && d < 210: // hot spell
				tmax = append(tmax, f(34.5))
			default:
				tmax = append(tmax, f(18.0))
			}
			switch {
			case d == 220: // monsoon peak
				precip = append(precip, f(80.0+float64(y%7)*5))
			case d%5 == 0:
				precip = append(precip, f(12.0))
			default:
				precip = append(precip, f(0.2))
			}
			if d == 250 {
				wind = append(wind, f(28.0))
			} else {
				wind = append(wind, f(6.0))
			}
		}
	}
	payload := map[string]any{"daily": map[string]any{
		"time":               times,
		"temperature_2m_max": tmax,
		"precipitation_sum":  precip,
		"wind_speed_10m_max": wind,
	}}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return raw
}

func newTestClient(transport http.RoundTripper, now func() time.Time) *Client {
	return NewClient(Config{
		BaseURL:   "http://archive.test/v1/archive",
		Transport: transport,
		Now:       now,
	}, zerolog.Nop())
}

func TestFetchStatsDerivesBaselines(t *testing.T) {
	tr := &bodyTransport{}
	tr.payload = syntheticArchive(t)
	client := newTestClient(tr, time.Now)

	b, err := client.FetchStats(context.Background(), 37.45, 126.70)
	require.NoError(t, err)

	assert.Positive(t, b.GumbelLocation)
	assert.Positive(t, b.GumbelScale)
	require.NotNil(t, b.HeatwaveDays)
	assert.InDelta(t, 10.0, *b.HeatwaveDays, 1e-9)
	require.NotNil(t, b.DroughtDays)
	assert.Positive(t, *b.DroughtDays)
	require.NotNil(t, b.WindAnnualMax)
	assert.InDelta(t, 28.0, *b.WindAnnualMax, 1e-9)
}

func TestFetchStatsCachesByGridCell(t *testing.T) {
	tr := &bodyTransport{}
	tr.payload = syntheticArchive(t)
	client := newTestClient(tr, time.Now)
	ctx := context.Background()

	_, err := client.FetchStats(ctx, 37.45, 126.70)
	require.NoError(t, err)

	// Nearby coordinates snap to the same 0.25 degree cell.
	_, err = client.FetchStats(ctx, 37.52, 126.78)
	require.NoError(t, err)
	assert.EqualValues(t, 1, tr.calls.Load())
	assert.Equal(t, 1, client.CacheSize())

	// A different cell triggers a new fetch.
	_, err = client.FetchStats(ctx, 35.10, 129.04)
	require.NoError(t, err)
	assert.EqualValues(t, 2, tr.calls.Load())
}

func TestFetchStatsCacheExpiry(t *testing.T) {
	tr := &bodyTransport{}
	tr.payload = syntheticArchive(t)

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time { mu.Lock(); defer mu.Unlock(); return now }
	client := newTestClient(tr, clock)
	ctx := context.Background()

	_, err := client.FetchStats(ctx, 37.45, 126.70)
	require.NoError(t, err)
	require.EqualValues(t, 1, tr.calls.Load())

	// Still inside the TTL: served from cache.
	mu.Lock()
	now = now.Add(59 * time.Minute)
	mu.Unlock()
	_, err = client.FetchStats(ctx, 37.45, 126.70)
	require.NoError(t, err)
	assert.EqualValues(t, 1, tr.calls.Load())

	// Past the TTL: refetched.
	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()
	_, err = client.FetchStats(ctx, 37.45, 126.70)
	require.NoError(t, err)
	assert.EqualValues(t, 2, tr.calls.Load())
}

func TestFetchStatsSingleFlight(t *testing.T) {
	tr := &bodyTransport{}
	tr.payload = syntheticArchive(t)
	tr.delay = 100 * time.Millisecond
	client := newTestClient(tr, time.Now)

	var wg sync.WaitGroup
	results := make([]*Baselines, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = client.FetchStats(context.Background(), 37.45, 126.70)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.EqualValues(t, 1, tr.calls.Load(), "concurrent same-cell fetches must collapse")
	assert.Same(t, results[0], results[1])
}

func TestFetchStatsUpstreamFailure(t *testing.T) {
	tr := &bodyTransport{}
	tr.status = http.StatusBadGateway
	tr.payload = []byte(`{}`)
	client := newTestClient(tr, time.Now)

	_, err := client.FetchStats(context.Background(), 37.45, 126.70)
	require.Error(t, err)

	// Failures are not cached.
	assert.Zero(t, client.CacheSize())
}

func TestFetchStatsCancellation(t *testing.T) {
	tr := &bodyTransport{}
	tr.payload = syntheticArchive(t)
	tr.delay = time.Second
	client := newTestClient(tr, time.Now)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.FetchStats(ctx, 37.45, 126.70)
		done <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("cancelled fetch did not return promptly")
	}
}

func TestSweepExpired(t *testing.T) {
	tr := &bodyTransport{}
	tr.payload = syntheticArchive(t)

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time { mu.Lock(); defer mu.Unlock(); return now }
	client := newTestClient(tr, clock)

	_, err := client.FetchStats(context.Background(), 37.45, 126.70)
	require.NoError(t, err)
	require.Equal(t, 1, client.CacheSize())

	mu.Lock()
	now = now.Add(2 * time.Hour)
	mu.Unlock()
	assert.Equal(t, 1, client.SweepExpired())
	assert.Zero(t, client.CacheSize())
}

func TestDeriveInsufficientYears(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	short := make([]*float64, 3*365)
	for i := range short {
		short[i] = f(1.0)
	}
	_, _, err := fitPrecipitationGumbel(short)
	assert.Error(t, err)

	_, ok := heatwaveDaysPerYear(short)
	assert.False(t, ok)
}

func TestAnnualMaximaSkipsNulls(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	daily := make([]*float64, 365)
	daily[10] = f(42.0)
	daily[300] = nil
	maxima := annualMaxima(daily)
	require.Len(t, maxima, 1)
	assert.Equal(t, 42.0, maxima[0])
}
