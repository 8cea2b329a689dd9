// Package partner implements the ephemeral session store: partners upload
// their own facility portfolios and run the risk engines against them
// without touching the seed data. Sessions are in-memory only and expire
// after two hours of inactivity.
package partner

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kclimate/krisk/internal/domain"
	"github.com/kclimate/krisk/internal/registry"
)

// DefaultTTL is the sliding inactivity window.
const DefaultTTL = 2 * time.Hour

// Session is the externally visible session state. Facilities is always a
// private copy; mutating it never affects the store.
type Session struct {
	ID            string            `json:"partner_id"`
	CompanyName   string            `json:"company_name"`
	Facilities    []domain.Facility `json:"facilities"`
	FacilityCount int               `json:"facility_count"`
	CreatedAt     time.Time         `json:"created_at"`
	LastAccess    time.Time         `json:"last_access"`
	ExpiresAt     time.Time         `json:"expires_at"`
	Warnings      []string          `json:"warnings,omitempty"`
}

type entry struct {
	companyName string
	facilities  []domain.Facility
	warnings    []string
	createdAt   time.Time
	lastAccess  time.Time
}

// Store holds partner sessions. Safe for concurrent use; reads touch the
// sliding TTL, and expired entries are reaped lazily on access plus by the
// periodic Sweep.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewStore creates a session store. ttl <= 0 selects DefaultTTL; now may be
// nil for the wall clock.
func NewStore(ttl time.Duration, now func() time.Time, log zerolog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      now,
		log:      log.With().Str("store", "partner").Logger(),
	}
}

// Create validates and stores an uploaded portfolio, returning the new
// session. Unknown sectors are accepted with a warning; repeated
// facility_id values are rejected.
func (s *Store) Create(companyName string, facilities []domain.Facility) (Session, error) {
	if companyName == "" {
		return Session{}, fmt.Errorf("%w: company_name is required", domain.ErrInvalidFacility)
	}
	if len(facilities) == 0 {
		return Session{}, fmt.Errorf("%w: at least one facility is required", domain.ErrInvalidFacility)
	}

	seen := make(map[string]bool, len(facilities))
	sectors := make([]string, 0, len(facilities))
	for i := range facilities {
		f := &facilities[i]
		if err := f.Validate(); err != nil {
			return Session{}, err
		}
		if seen[f.FacilityID] {
			return Session{}, fmt.Errorf("%w: %s", domain.ErrDuplicateFacility, f.FacilityID)
		}
		seen[f.FacilityID] = true
		sectors = append(sectors, f.Sector)
	}
	warnings := registry.SectorWarnings(sectors)

	id := uuid.NewString()
	now := s.now()
	e := &entry{
		companyName: companyName,
		facilities:  cloneFacilities(facilities),
		warnings:    warnings,
		createdAt:   now,
		lastAccess:  now,
	}

	s.mu.Lock()
	s.reapLocked(now)
	s.sessions[id] = e
	s.mu.Unlock()

	s.log.Info().
		Str("partner_id", id).
		Int("facilities", len(facilities)).
		Int("warnings", len(warnings)).
		Msg("partner session created")

	return s.snapshot(id, e), nil
}

// Get returns the session and slides its TTL. Unknown and expired ids are
// indistinguishable.
func (s *Store) Get(id string) (Session, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return Session{}, domain.ErrSessionNotFound
	}
	if now.Sub(e.lastAccess) > s.ttl {
		delete(s.sessions, id)
		return Session{}, domain.ErrSessionNotFound
	}
	e.lastAccess = now
	return s.snapshot(id, e), nil
}

// Facilities returns a copy of the session's portfolio, sliding the TTL.
func (s *Store) Facilities(id string) ([]domain.Facility, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return session.Facilities, nil
}

// Delete removes a session. Deleting an unknown or expired id returns
// ErrSessionNotFound.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if s.now().Sub(e.lastAccess) > s.ttl {
		delete(s.sessions, id)
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Sweep reaps every expired session and returns how many were removed.
// Run periodically by the scheduler.
func (s *Store) Sweep() int {
	now := s.now()
	s.mu.Lock()
	before := len(s.sessions)
	s.reapLocked(now)
	removed := before - len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		s.log.Info().Int("removed", removed).Msg("expired partner sessions reaped")
	}
	return removed
}

// Len reports the live session count (expired entries not yet reaped count).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) reapLocked(now time.Time) {
	for id, e := range s.sessions {
		if now.Sub(e.lastAccess) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

// snapshot builds an immutable view; callers hold s.mu or exclusive access.
func (s *Store) snapshot(id string, e *entry) Session {
	return Session{
		ID:            id,
		CompanyName:   e.companyName,
		Facilities:    cloneFacilities(e.facilities),
		FacilityCount: len(e.facilities),
		CreatedAt:     e.createdAt,
		LastAccess:    e.lastAccess,
		ExpiresAt:     e.lastAccess.Add(s.ttl),
		Warnings:      append([]string(nil), e.warnings...),
	}
}

func cloneFacilities(in []domain.Facility) []domain.Facility {
	out := make([]domain.Facility, len(in))
	copy(out, in)
	return out
}
