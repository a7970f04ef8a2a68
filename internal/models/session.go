package models

// SessionPhase names a negotiation state.
type SessionPhase string

const (
	PhaseIdle              SessionPhase = "idle"
	PhaseAwaitingSelection SessionPhase = "awaiting_selection"
)

// SessionState is the conversational context for one chat session. It is
// explicit state loaded before and stored after each turn; nothing about it
// is shared between sessions.
type SessionState struct {
	Phase             SessionPhase `json:"phase"`
	Offer             *SlotOffer   `json:"offer,omitempty"`
	LastRequestedDate string       `json:"last_requested_date,omitempty"`
}

// NewSessionState returns an idle state with no live offer.
func NewSessionState() *SessionState {
	return &SessionState{Phase: PhaseIdle}
}

// Clear drops the live offer and returns the session to idle.
func (s *SessionState) Clear() {
	s.Phase = PhaseIdle
	s.Offer = nil
	s.LastRequestedDate = ""
}

// HoldOffer records a live offer and moves to awaiting selection.
func (s *SessionState) HoldOffer(offer *SlotOffer, requestedDate string) {
	s.Phase = PhaseAwaitingSelection
	s.Offer = offer
	s.LastRequestedDate = requestedDate
}
