package scheduler

import (
	"github.com/kclimate/krisk/internal/clients/openmeteo"
	"github.com/kclimate/krisk/internal/modules/partner"
)

// SessionSweepJob reaps expired partner sessions.
type SessionSweepJob struct {
	Store *partner.Store
}

func (j *SessionSweepJob) Name() string { return "session_sweep" }

func (j *SessionSweepJob) Run() error {
	j.Store.Sweep()
	return nil
}

// WeatherCacheSweepJob drops expired weather-cache entries.
type WeatherCacheSweepJob struct {
	Client *openmeteo.Client
}

func (j *WeatherCacheSweepJob) Name() string { return "weather_cache_sweep" }

func (j *WeatherCacheSweepJob) Run() error {
	j.Client.SweepExpired()
	return nil
}
