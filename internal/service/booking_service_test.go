package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbot-ai/bookbot-api/internal/models"
)

type bookingOracleStub struct {
	free       bool
	checkErr   error
	reserved   bool
	reserveErr error
}

func (s *bookingOracleStub) IsSlotFree(_ context.Context, _, _ string) (bool, error) {
	return s.free, s.checkErr
}

func (s *bookingOracleStub) Reserve(_ context.Context, _, _ string) (bool, error) {
	return s.reserved, s.reserveErr
}

type finderStub struct {
	times []string
	err   error
}

func (s finderStub) FindAlternatives(_ context.Context, _, _ string) ([]string, error) {
	return s.times, s.err
}

func bookRequest(date, timeOfDay string) models.ParsedRequest {
	return models.ParsedRequest{Intent: models.IntentBook, Date: date, Time: timeOfDay}
}

func TestAttemptBookingSuccess(t *testing.T) {
	svc := NewBookingService(&bookingOracleStub{free: true, reserved: true}, finderStub{}, nil, nil)

	outcome := svc.Handle(context.Background(), bookRequest("2025-08-08", "15:00"))
	assert.Equal(t, models.OutcomeBooked, outcome.Kind)
	assert.Equal(t, "Appointment on 2025-08-08 at 15:00 booked successfully.", outcome.Message)
}

func TestAttemptBookingLostRace(t *testing.T) {
	// Free on check, but the reserve affects no rows: another writer claimed
	// the slot in between. That is a failure, not a success.
	svc := NewBookingService(&bookingOracleStub{free: true, reserved: false}, finderStub{}, nil, nil)

	outcome := svc.AttemptBooking(context.Background(), "2025-08-08", "15:00")
	assert.Equal(t, models.OutcomeReserveFailed, outcome.Kind)
	assert.Equal(t, "Time slot not available", outcome.Message)
}

func TestAttemptBookingBusyWithAlternatives(t *testing.T) {
	svc := NewBookingService(&bookingOracleStub{free: false}, finderStub{times: []string{"13:00", "14:00"}}, nil, nil)

	outcome := svc.AttemptBooking(context.Background(), "2025-08-08", "15:00")
	assert.Equal(t, models.OutcomeBusyWithAlternatives, outcome.Kind)
	assert.Equal(t, "2025-08-08 at 15:00 is not available. Would you like to book one of these alternative times: 13:00, 14:00?", outcome.Message)

	require.NotNil(t, outcome.Offer)
	assert.Equal(t, "2025-08-08", outcome.Offer.Date)
	require.Len(t, outcome.Offer.Options, 2)
	assert.Equal(t, models.SlotOption{Label: "a", Time: "13:00"}, outcome.Offer.Options[0])
	assert.Equal(t, models.SlotOption{Label: "b", Time: "14:00"}, outcome.Offer.Options[1])
}

func TestAttemptBookingBusyNoAlternatives(t *testing.T) {
	svc := NewBookingService(&bookingOracleStub{free: false}, finderStub{}, nil, nil)

	outcome := svc.AttemptBooking(context.Background(), "2025-08-08", "15:00")
	assert.Equal(t, models.OutcomeBusyNoAlternatives, outcome.Kind)
	assert.Equal(t, "2025-08-08 at 15:00 is not available, and there are no alternative times available.", outcome.Message)
}

func TestAttemptBookingTransportError(t *testing.T) {
	svc := NewBookingService(&bookingOracleStub{checkErr: errors.New("dial tcp: connection refused")}, finderStub{}, nil, nil)

	outcome := svc.AttemptBooking(context.Background(), "2025-08-08", "15:00")
	assert.Equal(t, models.OutcomeTransportError, outcome.Kind)
	assert.Contains(t, outcome.Message, "Failed to check availability")
}

func TestHandleUnsupportedIntent(t *testing.T) {
	svc := NewBookingService(&bookingOracleStub{}, finderStub{}, nil, nil)

	outcome := svc.Handle(context.Background(), models.ParsedRequest{Intent: models.IntentUnknown, Date: "2025-08-08", Time: "15:00"})
	assert.Equal(t, models.OutcomeUnsupportedIntent, outcome.Kind)
	assert.Equal(t, "I'm sorry, I don't know how to handle that request intent.", outcome.Message)
}

func TestAlternativeTimesMessageRoundTrip(t *testing.T) {
	svc := NewBookingService(&bookingOracleStub{free: false}, finderStub{times: []string{"13:00", "14:00"}}, nil, nil)

	outcome := svc.AttemptBooking(context.Background(), "2025-08-08", "15:00")
	assert.Equal(t, []string{"13:00", "14:00"}, AlternativeTimesFromMessage(outcome.Message))
}

func TestAlternativeTimesFromMessageNoMatch(t *testing.T) {
	assert.Nil(t, AlternativeTimesFromMessage("Appointment on 2025-08-08 at 15:00 booked successfully."))
}

func TestBuildOfferCapsAtSixOptions(t *testing.T) {
	offer := BuildOffer("2025-08-08", []string{"09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00"})
	require.Len(t, offer.Options, 6)
	assert.Equal(t, "f", offer.Options[5].Label)
}
