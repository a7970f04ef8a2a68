package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bookbot-ai/bookbot-api/internal/models"
	"github.com/bookbot-ai/bookbot-api/internal/nlp"
	"github.com/bookbot-ai/bookbot-api/internal/repository"
	appErrors "github.com/bookbot-ai/bookbot-api/pkg/errors"
)

type chatParser interface {
	Parse(ctx context.Context, utterance string) (models.ParsedRequest, error)
}

type chatBooker interface {
	Handle(ctx context.Context, req models.ParsedRequest) models.Outcome
}

type sessionCounter interface {
	SessionStarted()
}

// clarificationMessage is shown whenever an utterance cannot be resolved
// into a complete request or a selection.
const clarificationMessage = "I couldn't understand the date and time. Please try formats like:\n" +
	"  - 'tomorrow at 3 pm'\n" +
	"  - 'friday at 2:30 pm'\n" +
	"  - 'next monday at 10 am'\n" +
	"  - 'august 15 at 9:00 am'"

var exitPhrases = map[string]struct{}{
	"exit": {},
	"quit": {},
	"bye":  {},
}

// ChatResult is one turn's reply: a message, the structured outcome when a
// booking was attempted, and the offer still live after the turn.
type ChatResult struct {
	SessionID string
	Message   string
	Outcome   *models.Outcome
	Offer     *models.SlotOffer
	Ended     bool
}

// ChatService is the negotiation engine. It resolves each utterance against
// the session's conversational context: idle sessions expect a full request,
// sessions holding a live offer also accept a label or one of the offered
// times. Context transitions are deterministic; a turn always ends with the
// session either cleared or holding exactly one live offer.
type ChatService struct {
	parser   chatParser
	booker   chatBooker
	sessions repository.SessionRepository
	metrics  sessionCounter
	logger   *zap.Logger
}

// NewChatService constructs a ChatService. metrics may be nil.
func NewChatService(parser chatParser, booker chatBooker, sessions repository.SessionRepository, metrics sessionCounter, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{parser: parser, booker: booker, sessions: sessions, metrics: metrics, logger: logger}
}

// HandleMessage processes one utterance for the given session. A blank
// session id starts a fresh session.
func (s *ChatService) HandleMessage(ctx context.Context, sessionID, text string) (*ChatResult, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
		if s.metrics != nil {
			s.metrics.SessionStarted()
		}
	}

	trimmed := strings.ToLower(strings.TrimSpace(text))
	if _, ok := exitPhrases[trimmed]; ok {
		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("failed to delete session", zap.String("session_id", sessionID), zap.Error(err))
		}
		return &ChatResult{SessionID: sessionID, Message: "Goodbye!", Ended: true}, nil
	}

	state, err := s.loadState(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	parsed, err := s.parser.Parse(ctx, text)
	if err != nil {
		// Extractor boundary failure: report it without touching context so
		// the user can retry a live selection.
		outcome := boundaryFailureOutcome(err)
		return &ChatResult{
			SessionID: sessionID,
			Message:   outcome.Message,
			Outcome:   outcome,
			Offer:     state.Offer,
		}, nil
	}

	if parsed.Date == "" && parsed.Time == "" {
		resolved, ok := s.resolveSelection(state, text, trimmed)
		if !ok {
			return s.clarify(ctx, sessionID, state)
		}
		parsed = resolved
	} else if !parsed.Complete() {
		return s.clarify(ctx, sessionID, state)
	}

	outcome := s.booker.Handle(ctx, parsed)

	if outcome.Kind == models.OutcomeBusyWithAlternatives && outcome.Offer != nil {
		state.HoldOffer(outcome.Offer, parsed.Date)
	} else {
		state.Clear()
	}
	if err := s.sessions.Put(ctx, sessionID, state); err != nil {
		return nil, err
	}

	return &ChatResult{
		SessionID: sessionID,
		Message:   outcome.Message,
		Outcome:   &outcome,
		Offer:     state.Offer,
	}, nil
}

// resolveSelection tries to interpret the utterance as a pick from the live
// offer, either by label or by typing one of the offered times.
func (s *ChatService) resolveSelection(state *models.SessionState, raw, trimmed string) (models.ParsedRequest, bool) {
	if state.Phase != models.PhaseAwaitingSelection || state.Offer == nil {
		return models.ParsedRequest{}, false
	}

	if len(trimmed) == 1 {
		if selected, ok := state.Offer.TimeFor(trimmed); ok {
			return models.ParsedRequest{
				Intent: models.IntentBook,
				Date:   state.LastRequestedDate,
				Time:   selected,
			}, true
		}
		return models.ParsedRequest{}, false
	}

	if timeOnly, ok := nlp.NormalizeTime(raw); ok && state.LastRequestedDate != "" && state.Offer.HasTime(timeOnly) {
		return models.ParsedRequest{
			Intent: models.IntentBook,
			Date:   state.LastRequestedDate,
			Time:   timeOnly,
		}, true
	}

	return models.ParsedRequest{}, false
}

// clarify prompts for a supported format. The live offer, if any, stays
// intact so the user can still select from it.
func (s *ChatService) clarify(ctx context.Context, sessionID string, state *models.SessionState) (*ChatResult, error) {
	if err := s.sessions.Put(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return &ChatResult{
		SessionID: sessionID,
		Message:   clarificationMessage,
		Offer:     state.Offer,
	}, nil
}

func (s *ChatService) loadState(ctx context.Context, sessionID string) (*models.SessionState, error) {
	state, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, appErrors.ErrSessionNotFound) {
			return models.NewSessionState(), nil
		}
		return nil, err
	}
	return state, nil
}

func boundaryFailureOutcome(err error) *models.Outcome {
	appErr := appErrors.FromError(err)
	if appErr.Code == appErrors.ErrMalformedUpstream.Code {
		return &models.Outcome{
			Kind:    models.OutcomeMalformedResponse,
			Reason:  appErr.Message,
			Message: "Error: failed to parse the response from the language service.",
		}
	}
	return &models.Outcome{
		Kind:    models.OutcomeTransportError,
		Reason:  appErr.Message,
		Message: "Error: the language service is not available. Please try again.",
	}
}
