package dto

// SlackEventEnvelope holds the outer Events API fields the typed slackevents parser drops.
type SlackEventEnvelope struct {
	Type               string `json:"type"`
	EventID            string `json:"event_id"`
	TeamID             string `json:"team_id"`
	IsExtSharedChannel bool   `json:"is_ext_shared_channel"`
}

type ChallengeResponse struct {
	Challenge string `json:"challenge"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type EscalationResponse struct {
	Status    string `json:"status"`
	Triggered bool   `json:"triggered"`
	Incident  string `json:"incident,omitempty"`
}

type PingResponse struct {
	Res     string  `json:"res"`
	Version string  `json:"version"`
	Time    float64 `json:"time"` // unix seconds
}
