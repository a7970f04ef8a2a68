package dto

// ChatRequest is one user utterance in a conversation. SessionID is
// optional; a blank value starts a new session.
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

// ChatAlternative is one selectable slot from a live offer.
type ChatAlternative struct {
	Label string `json:"label"`
	Time  string `json:"time"`
}

// ChatResponse is the bot's reply for a single turn.
type ChatResponse struct {
	SessionID    string            `json:"session_id"`
	Message      string            `json:"message"`
	Outcome      string            `json:"outcome,omitempty"`
	Date         string            `json:"date,omitempty"`
	Time         string            `json:"time,omitempty"`
	Alternatives []ChatAlternative `json:"alternatives,omitempty"`
	Ended        bool              `json:"ended,omitempty"`
}
