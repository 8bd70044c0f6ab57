package request_models

type PreferenceRequest struct {
	Interests []string `json:"interests"`
	Pace      string   `json:"pace"`
	Districts []string `json:"districts"`
}
