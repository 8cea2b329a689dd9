package domain

import "errors"

// Sentinel errors for the analytics core. Handlers map these to HTTP codes;
// the calculators themselves never panic.
var (
	// ErrInvalidScenario is returned for a scenario tag outside the four
	// recognised NGFS scenarios.
	ErrInvalidScenario = errors.New("invalid scenario")

	// ErrInvalidRegime is returned for a pricing regime other than
	// "global" or "kets".
	ErrInvalidRegime = errors.New("invalid pricing regime")

	// ErrInvalidFramework is returned for a framework other than
	// tcfd, issb or kssb.
	ErrInvalidFramework = errors.New("invalid framework")

	// ErrInvalidYear is returned for an assessment year outside the
	// supported horizon.
	ErrInvalidYear = errors.New("invalid year")

	// ErrInvalidFacility is returned when an uploaded facility record
	// fails validation.
	ErrInvalidFacility = errors.New("invalid facility")

	// ErrDuplicateFacility is returned when an upload contains repeated
	// facility_id values.
	ErrDuplicateFacility = errors.New("duplicate facility_id values found")

	// ErrSessionNotFound covers both unknown and expired sessions.
	// The wording never reveals whether an id ever existed.
	ErrSessionNotFound = errors.New("partner session not found or expired")

	// ErrWeatherUnavailable signals a failed archive fetch. It is never
	// surfaced to callers; the physical engine falls back to regional
	// defaults and tags the facility's data_source instead.
	ErrWeatherUnavailable = errors.New("weather archive unavailable")

	// ErrCancelled is returned when the caller aborted the request.
	ErrCancelled = errors.New("request cancelled")

	// ErrDeadlineExceeded is returned when the request deadline elapsed.
	ErrDeadlineExceeded = errors.New("request deadline exceeded")
)
