package mem

import (
	"sync"
	"time"
)

// Preferences are the defaults a session applies to itinerary requests that omit them.
type Preferences struct {
	Interests []string
	Pace      string
	Districts []string
	UpdatedAt time.Time
}

type PreferenceStore interface {
	Set(sessionID string, prefs Preferences, ttl time.Duration)

	// Get returns the preferences for sessionID unless missing or expired.
	Get(sessionID string) (Preferences, bool)

	Delete(sessionID string)
}

type entry struct {
	prefs     Preferences
	expiresAt time.Time
}

type SessionPreferences struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewSessionPreferences() *SessionPreferences {
	return &SessionPreferences{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *SessionPreferences) Set(sessionID string, prefs Preferences, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	prefs.Interests = append([]string(nil), prefs.Interests...)
	prefs.Districts = append([]string(nil), prefs.Districts...)
	prefs.UpdatedAt = now
	s.data[sessionID] = entry{prefs: prefs, expiresAt: now.Add(ttl)}

	// sweep on write so abandoned sessions do not pile up
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
		}
	}
}

func (s *SessionPreferences) Get(sessionID string) (Preferences, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[sessionID]
	if !ok || s.now().After(e.expiresAt) {
		return Preferences{}, false
	}
	p := e.prefs
	p.Interests = append([]string(nil), p.Interests...)
	p.Districts = append([]string(nil), p.Districts...)
	return p, true
}

func (s *SessionPreferences) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
}

func (s *SessionPreferences) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
