package services

import (
	"fmt"
	"strings"
	"time"

	"wayfarer/internal/models/request_models"
	"wayfarer/internal/models/response_models"
	"wayfarer/internal/planner"
	mem "wayfarer/pkg/memcache"
	"wayfarer/pkg/utils"
)

type PreferenceServiceInterface interface {
	GetPreferences(sessionID string) (*response_models.Preferences, error)
	SavePreferences(sessionID string, req request_models.PreferenceRequest) (*response_models.Preferences, error)
	ClearPreferences(sessionID string) error
	// Defaults returns the stored preferences for a session, if any.
	Defaults(sessionID string) (mem.Preferences, bool)
}

type PreferenceService struct {
	store mem.PreferenceStore
	ttl   time.Duration
}

func NewPreferenceService(store mem.PreferenceStore, ttl time.Duration) PreferenceServiceInterface {
	return &PreferenceService{store: store, ttl: ttl}
}

func (s *PreferenceService) GetPreferences(sessionID string) (*response_models.Preferences, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", utils.ErrInvalidInput)
	}
	prefs, ok := s.store.Get(sessionID)
	if !ok {
		return nil, utils.ErrPreferenceMissing
	}
	return toPreferenceResponse(sessionID, prefs), nil
}

func (s *PreferenceService) SavePreferences(sessionID string, req request_models.PreferenceRequest) (*response_models.Preferences, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", utils.ErrInvalidInput)
	}

	pace := strings.ToLower(strings.TrimSpace(req.Pace))
	if pace != "" && !planner.Pace(pace).Valid() {
		return nil, fmt.Errorf("%w: pace must be relaxed, moderate or fast", utils.ErrInvalidInput)
	}

	s.store.Set(sessionID, mem.Preferences{
		Interests: cleanList(req.Interests, true),
		Pace:      pace,
		Districts: cleanList(req.Districts, false),
	}, s.ttl)

	prefs, ok := s.store.Get(sessionID)
	if !ok {
		return nil, utils.ErrPreferenceMissing
	}
	return toPreferenceResponse(sessionID, prefs), nil
}

func (s *PreferenceService) ClearPreferences(sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return fmt.Errorf("%w: session id is required", utils.ErrInvalidInput)
	}
	s.store.Delete(sessionID)
	return nil
}

func (s *PreferenceService) Defaults(sessionID string) (mem.Preferences, bool) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return mem.Preferences{}, false
	}
	return s.store.Get(sessionID)
}

func toPreferenceResponse(sessionID string, prefs mem.Preferences) *response_models.Preferences {
	interests := prefs.Interests
	if interests == nil {
		interests = []string{}
	}
	districts := prefs.Districts
	if districts == nil {
		districts = []string{}
	}
	return &response_models.Preferences{
		SessionID: sessionID,
		Interests: interests,
		Pace:      prefs.Pace,
		Districts: districts,
		UpdatedAt: utils.FormatRFC3339(prefs.UpdatedAt),
	}
}
