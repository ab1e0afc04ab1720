package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"youthpolicy/internal/models"
)

var (
	ErrNotFound     = errors.New("session not found")
	ErrUnknownField = errors.New("unknown profile field")
	ErrInFlight     = errors.New("recommendation request already in flight")
)

// Session is one wizard session: the in-progress profile, the current step,
// and the last recommendation result. It is a pure container; validation and
// step-bound policy live with the callers.
type Session struct {
	ID      string
	Profile models.Profile
	Step    int

	// Results of the most recent completed recommendation run, nil before
	// the first run.
	Results *models.RecommendationView

	// Detail data carried from the last successful detail fetch per policy,
	// kept so a failed refetch can fall back to known state.
	details map[string]models.PolicyDetail

	// generation increments on every recommendation start; a completion
	// carrying a stale generation is discarded.
	generation uint64
	inFlight   bool

	touched time.Time
}

// Store owns all live sessions. It is an injectable object, not a package
// global, so tests and callers control its lifetime.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a session store whose sessions expire after ttl of
// inactivity (zero ttl disables expiry).
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Create starts a fresh session at the first wizard step.
func (s *Store) Create() *Session {
	sess := &Session{
		ID:      newID(),
		Step:    models.StepBasic,
		details: make(map[string]models.PolicyDetail),
		touched: s.now(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Snapshot is a read-only view of a session's externally visible state.
type Snapshot struct {
	ID      string                     `json:"session_id"`
	Step    int                        `json:"step"`
	Profile models.Profile             `json:"profile"`
	Results *models.RecommendationView `json:"results,omitempty"`
}

// Get returns a snapshot of the session, or ErrNotFound.
func (s *Store) Get(id string) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return Snapshot{ID: sess.ID, Step: sess.Step, Profile: sess.Profile, Results: sess.Results}, nil
}

// Profile returns the session's current profile.
func (s *Store) Profile(id string) (models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return models.Profile{}, ErrNotFound
	}
	return sess.Profile, nil
}

// SetField replaces exactly one profile field. No validation happens here.
func (s *Store) SetField(id, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	switch key {
	case "birth_year":
		sess.Profile.BirthYear = value
	case "region":
		sess.Profile.Region = value
	case "employment_status":
		sess.Profile.EmploymentStatus = value
	case "income":
		sess.Profile.Income = value
	case "interest":
		sess.Profile.Interest = value
	default:
		return ErrUnknownField
	}
	sess.touched = s.now()
	return nil
}

// Advance moves the wizard forward by exactly one step. The store does not
// gate this on validation; the caller checks the step validator first.
func (s *Store) Advance(id string) (int, error) {
	return s.shift(id, +1)
}

// Retreat moves the wizard back by exactly one step.
func (s *Store) Retreat(id string) (int, error) {
	return s.shift(id, -1)
}

func (s *Store) shift(id string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return 0, ErrNotFound
	}
	sess.Step += delta
	sess.touched = s.now()
	return sess.Step, nil
}

// Reset restores the profile and step to their initial values. Saved items
// live elsewhere and are untouched.
func (s *Store) Reset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.Profile = models.Profile{}
	sess.Step = models.StepBasic
	sess.Results = nil
	sess.generation++ // any in-flight result is now stale
	sess.inFlight = false
	sess.touched = s.now()
	return nil
}

// BeginRecommend marks the start of a recommendation run and returns the
// generation token the completion must present. A second start while one is
// pending returns ErrInFlight.
func (s *Store) BeginRecommend(id string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return 0, ErrNotFound
	}
	if sess.inFlight {
		return 0, ErrInFlight
	}
	sess.generation++
	sess.inFlight = true
	sess.touched = s.now()
	return sess.generation, nil
}

// CompleteRecommend applies the results of a finished run. Results carrying
// a stale generation (the user reset or navigated away meanwhile) are
// discarded and false is returned.
func (s *Store) CompleteRecommend(id string, gen uint64, view *models.RecommendationView) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	if sess.generation != gen {
		return false
	}
	sess.inFlight = false
	if view != nil {
		sess.Results = view
	}
	sess.touched = s.now()
	return true
}

// Results returns the last recommendation view, or nil if none.
func (s *Store) Results(id string) (*models.RecommendationView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess.Results, nil
}

// RememberDetail stores the last known detail for a policy within the session.
func (s *Store) RememberDetail(id string, d models.PolicyDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.details[d.ID] = d
	}
}

// KnownDetail returns previously fetched detail data, if any.
func (s *Store) KnownDetail(id, policyID string) (models.PolicyDetail, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return models.PolicyDetail{}, false
	}
	d, ok := sess.details[policyID]
	return d, ok
}

// Sweep removes sessions idle beyond the TTL. Called periodically from main.
func (s *Store) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.touched.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
