package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbot-ai/bookbot-api/internal/models"
	"github.com/bookbot-ai/bookbot-api/internal/repository"
	appErrors "github.com/bookbot-ai/bookbot-api/pkg/errors"
)

type parserStub struct {
	requests map[string]models.ParsedRequest
	err      error
}

func (s parserStub) Parse(_ context.Context, utterance string) (models.ParsedRequest, error) {
	if s.err != nil {
		return models.ParsedRequest{}, s.err
	}
	if req, ok := s.requests[utterance]; ok {
		return req, nil
	}
	return models.ParsedRequest{Intent: models.IntentBook}, nil
}

type bookerStub struct {
	outcomes []models.Outcome
	requests []models.ParsedRequest
}

func (s *bookerStub) Handle(_ context.Context, req models.ParsedRequest) models.Outcome {
	s.requests = append(s.requests, req)
	outcome := s.outcomes[0]
	if len(s.outcomes) > 1 {
		s.outcomes = s.outcomes[1:]
	}
	return outcome
}

func liveOffer() *models.SlotOffer {
	return &models.SlotOffer{
		Date: "2025-08-08",
		Options: []models.SlotOption{
			{Label: "a", Time: "13:00"},
			{Label: "b", Time: "14:00"},
		},
	}
}

func seededSessions(t *testing.T, sessionID string) repository.SessionRepository {
	t.Helper()
	sessions := repository.NewMemorySessionRepository()
	state := models.NewSessionState()
	state.HoldOffer(liveOffer(), "2025-08-08")
	require.NoError(t, sessions.Put(context.Background(), sessionID, state))
	return sessions
}

func TestHandleMessageBooksCompleteRequest(t *testing.T) {
	booker := &bookerStub{outcomes: []models.Outcome{{
		Kind:    models.OutcomeBooked,
		Date:    "2025-08-08",
		Time:    "15:00",
		Message: "Appointment on 2025-08-08 at 15:00 booked successfully.",
	}}}
	parser := parserStub{requests: map[string]models.ParsedRequest{
		"book friday at 3 pm": {Intent: models.IntentBook, Date: "2025-08-08", Time: "15:00"},
	}}
	svc := NewChatService(parser, booker, repository.NewMemorySessionRepository(), nil, nil)

	result, err := svc.HandleMessage(context.Background(), "", "book friday at 3 pm")
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
	require.NotNil(t, result.Outcome)
	assert.Equal(t, models.OutcomeBooked, result.Outcome.Kind)
	assert.Nil(t, result.Offer)
}

func TestHandleMessageHoldsOfferOnBusy(t *testing.T) {
	booker := &bookerStub{outcomes: []models.Outcome{{
		Kind:    models.OutcomeBusyWithAlternatives,
		Date:    "2025-08-08",
		Time:    "15:00",
		Offer:   liveOffer(),
		Message: "2025-08-08 at 15:00 is not available. Would you like to book one of these alternative times: 13:00, 14:00?",
	}}}
	parser := parserStub{requests: map[string]models.ParsedRequest{
		"book friday at 3 pm": {Intent: models.IntentBook, Date: "2025-08-08", Time: "15:00"},
	}}
	sessions := repository.NewMemorySessionRepository()
	svc := NewChatService(parser, booker, sessions, nil, nil)

	result, err := svc.HandleMessage(context.Background(), "s1", "book friday at 3 pm")
	require.NoError(t, err)
	require.NotNil(t, result.Offer)
	assert.Len(t, result.Offer.Options, 2)

	state, err := sessions.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseAwaitingSelection, state.Phase)
	assert.Equal(t, "2025-08-08", state.LastRequestedDate)
}

func TestHandleMessageSelectionByLetter(t *testing.T) {
	booker := &bookerStub{outcomes: []models.Outcome{{
		Kind:    models.OutcomeBooked,
		Date:    "2025-08-08",
		Time:    "14:00",
		Message: "Appointment on 2025-08-08 at 14:00 booked successfully.",
	}}}
	sessions := seededSessions(t, "s1")
	svc := NewChatService(parserStub{}, booker, sessions, nil, nil)

	result, err := svc.HandleMessage(context.Background(), "s1", "b")
	require.NoError(t, err)
	require.Len(t, booker.requests, 1)
	assert.Equal(t, "2025-08-08", booker.requests[0].Date)
	assert.Equal(t, "14:00", booker.requests[0].Time)
	require.NotNil(t, result.Outcome)
	assert.Equal(t, models.OutcomeBooked, result.Outcome.Kind)

	// Context clears after a terminal outcome.
	state, err := sessions.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseIdle, state.Phase)
	assert.Nil(t, state.Offer)
}

func TestHandleMessageSelectionByTime(t *testing.T) {
	booker := &bookerStub{outcomes: []models.Outcome{{
		Kind:    models.OutcomeBooked,
		Date:    "2025-08-08",
		Time:    "14:00",
		Message: "Appointment on 2025-08-08 at 14:00 booked successfully.",
	}}}
	sessions := seededSessions(t, "s1")
	svc := NewChatService(parserStub{}, booker, sessions, nil, nil)

	_, err := svc.HandleMessage(context.Background(), "s1", "14:00")
	require.NoError(t, err)
	require.Len(t, booker.requests, 1)
	assert.Equal(t, "14:00", booker.requests[0].Time)
}

func TestHandleMessageUnofferedTimeKeepsContext(t *testing.T) {
	booker := &bookerStub{outcomes: []models.Outcome{{Kind: models.OutcomeBooked}}}
	sessions := seededSessions(t, "s1")
	svc := NewChatService(parserStub{}, booker, sessions, nil, nil)

	result, err := svc.HandleMessage(context.Background(), "s1", "15:00")
	require.NoError(t, err)
	assert.Empty(t, booker.requests)
	assert.Nil(t, result.Outcome)
	assert.Contains(t, result.Message, "I couldn't understand the date and time")

	state, err := sessions.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseAwaitingSelection, state.Phase)
	require.NotNil(t, state.Offer)
}

func TestHandleMessageIncompleteRequestPrompts(t *testing.T) {
	parser := parserStub{requests: map[string]models.ParsedRequest{
		"book friday": {Intent: models.IntentBook, Date: "2025-08-08"},
	}}
	svc := NewChatService(parser, &bookerStub{outcomes: []models.Outcome{{}}}, repository.NewMemorySessionRepository(), nil, nil)

	result, err := svc.HandleMessage(context.Background(), "s1", "book friday")
	require.NoError(t, err)
	assert.Nil(t, result.Outcome)
	assert.Contains(t, result.Message, "Please try formats like")
}

func TestHandleMessageExitPhrases(t *testing.T) {
	sessions := seededSessions(t, "s1")
	svc := NewChatService(parserStub{}, &bookerStub{outcomes: []models.Outcome{{}}}, sessions, nil, nil)

	for _, phrase := range []string{"exit", "Quit", "BYE"} {
		result, err := svc.HandleMessage(context.Background(), "s1", phrase)
		require.NoError(t, err)
		assert.True(t, result.Ended)
		assert.Equal(t, "Goodbye!", result.Message)
	}

	_, err := sessions.Get(context.Background(), "s1")
	require.Error(t, err)
}

func TestHandleMessageExtractorFailureKeepsOffer(t *testing.T) {
	sessions := seededSessions(t, "s1")
	svc := NewChatService(parserStub{err: appErrors.ErrExtractorDown}, &bookerStub{outcomes: []models.Outcome{{}}}, sessions, nil, nil)

	result, err := svc.HandleMessage(context.Background(), "s1", "tomorrow at 3 pm")
	require.NoError(t, err)
	require.NotNil(t, result.Outcome)
	assert.Equal(t, models.OutcomeTransportError, result.Outcome.Kind)
	require.NotNil(t, result.Offer)

	state, err := sessions.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseAwaitingSelection, state.Phase)
}

func TestHandleMessageMalformedExtractorResponse(t *testing.T) {
	svc := NewChatService(parserStub{err: appErrors.ErrMalformedUpstream}, &bookerStub{outcomes: []models.Outcome{{}}}, repository.NewMemorySessionRepository(), nil, nil)

	result, err := svc.HandleMessage(context.Background(), "s1", "tomorrow at 3 pm")
	require.NoError(t, err)
	require.NotNil(t, result.Outcome)
	assert.Equal(t, models.OutcomeMalformedResponse, result.Outcome.Kind)
}
