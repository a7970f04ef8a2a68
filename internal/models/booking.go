package models

// Intent classifies what the user wants from an utterance.
type Intent string

const (
	IntentBook    Intent = "book_appointment"
	IntentUnknown Intent = "unknown"
)

// ParsedRequest is the result of running an utterance through extraction and
// normalization. Empty Date or Time means the phrase could not be resolved;
// that is missing information, not an error.
type ParsedRequest struct {
	Intent Intent `json:"intent"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

// Complete reports whether both date and time were resolved.
func (r ParsedRequest) Complete() bool {
	return r.Date != "" && r.Time != ""
}

// SlotOption is a single labeled alternative time.
type SlotOption struct {
	Label string `json:"label"`
	Time  string `json:"time"`
}

// SlotOffer holds the alternative slots presented after a busy result.
// Options keep offer order; labels run 'a'..'f', at most six entries.
// Every option was verified free when the offer was built, but can go stale
// before the user picks one, so booking always re-verifies.
type SlotOffer struct {
	Date    string       `json:"date"`
	Options []SlotOption `json:"options"`
}

// TimeFor returns the time bound to a label, if present.
func (o *SlotOffer) TimeFor(label string) (string, bool) {
	for _, opt := range o.Options {
		if opt.Label == label {
			return opt.Time, true
		}
	}
	return "", false
}

// HasTime reports whether t is one of the offered times.
func (o *SlotOffer) HasTime(t string) bool {
	for _, opt := range o.Options {
		if opt.Time == t {
			return true
		}
	}
	return false
}

// Times returns the offered times in offer order.
func (o *SlotOffer) Times() []string {
	times := make([]string, 0, len(o.Options))
	for _, opt := range o.Options {
		times = append(times, opt.Time)
	}
	return times
}

// OutcomeKind enumerates the terminal results of a booking attempt.
type OutcomeKind string

const (
	OutcomeBooked               OutcomeKind = "BOOKED"
	OutcomeBusyWithAlternatives OutcomeKind = "BUSY_WITH_ALTERNATIVES"
	OutcomeBusyNoAlternatives   OutcomeKind = "BUSY_NO_ALTERNATIVES"
	OutcomeReserveFailed        OutcomeKind = "RESERVE_FAILED"
	OutcomeTransportError       OutcomeKind = "TRANSPORT_ERROR"
	OutcomeMalformedResponse    OutcomeKind = "MALFORMED_RESPONSE"
	OutcomeUnsupportedIntent    OutcomeKind = "UNSUPPORTED_INTENT"
)

// Outcome is the structured result of a booking attempt. Every outcome maps
// to exactly one user-facing message.
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Date    string      `json:"date,omitempty"`
	Time    string      `json:"time,omitempty"`
	Offer   *SlotOffer  `json:"offer,omitempty"`
	Reason  string      `json:"reason,omitempty"`
	Message string      `json:"message"`
}
