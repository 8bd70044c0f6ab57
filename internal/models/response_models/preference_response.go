package response_models

type Preferences struct {
	SessionID string   `json:"session_id"`
	Interests []string `json:"interests"`
	Pace      string   `json:"pace"`
	Districts []string `json:"districts"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}
