package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/bookbot-ai/bookbot-api/internal/models"
)

type bookingOracle interface {
	IsSlotFree(ctx context.Context, date, timeOfDay string) (bool, error)
	Reserve(ctx context.Context, date, timeOfDay string) (bool, error)
}

type alternativeFinder interface {
	FindAlternatives(ctx context.Context, date, requestedTime string) ([]string, error)
}

type outcomeRecorder interface {
	ObserveBookingOutcome(kind models.OutcomeKind)
	ObserveAlternativesOffered(count int)
}

// Labels assigned to offered alternatives, in offer order.
var offerLabels = []string{"a", "b", "c", "d", "e", "f"}

// alternativeTimesExpr re-extracts the literal times from a busy-with-
// alternatives message. The message shape is a contract: downstream parsers
// rely on the comma-separated list between "alternative times: " and "?".
var alternativeTimesExpr = regexp.MustCompile(`alternative times: ([^?]+)`)

// BookingService sequences availability check, reservation and alternative
// search into a single structured outcome. No error escapes it; every
// failure becomes an outcome with exactly one user-facing message.
type BookingService struct {
	oracle       bookingOracle
	alternatives alternativeFinder
	metrics      outcomeRecorder
	logger       *zap.Logger
}

// NewBookingService constructs a BookingService.
func NewBookingService(oracle bookingOracle, alternatives alternativeFinder, metrics outcomeRecorder, logger *zap.Logger) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{oracle: oracle, alternatives: alternatives, metrics: metrics, logger: logger}
}

// Handle routes a parsed request to a booking attempt, rejecting any intent
// other than booking with a fixed message.
func (s *BookingService) Handle(ctx context.Context, req models.ParsedRequest) models.Outcome {
	if req.Intent != models.IntentBook {
		return s.finish(models.Outcome{
			Kind:    models.OutcomeUnsupportedIntent,
			Message: "I'm sorry, I don't know how to handle that request intent.",
		})
	}
	return s.AttemptBooking(ctx, req.Date, req.Time)
}

// AttemptBooking checks the slot and either reserves it or offers
// alternatives. The check and the reserve are separate steps against shared
// state, so the reserve re-verifies on write and a lost race surfaces as
// RESERVE_FAILED, never as a silent success.
func (s *BookingService) AttemptBooking(ctx context.Context, date, timeOfDay string) models.Outcome {
	free, err := s.oracle.IsSlotFree(ctx, date, timeOfDay)
	if err != nil {
		s.logger.Error("availability check failed", zap.String("date", date), zap.String("time", timeOfDay), zap.Error(err))
		return s.finish(models.Outcome{
			Kind:    models.OutcomeTransportError,
			Date:    date,
			Time:    timeOfDay,
			Reason:  err.Error(),
			Message: fmt.Sprintf("Failed to check availability: %v", err),
		})
	}

	if free {
		reserved, err := s.oracle.Reserve(ctx, date, timeOfDay)
		if err != nil {
			s.logger.Error("reserve failed", zap.String("date", date), zap.String("time", timeOfDay), zap.Error(err))
			return s.finish(models.Outcome{
				Kind:    models.OutcomeTransportError,
				Date:    date,
				Time:    timeOfDay,
				Reason:  err.Error(),
				Message: fmt.Sprintf("Failed to book appointment: %v", err),
			})
		}
		if !reserved {
			// Lost the race between check and reserve.
			return s.finish(models.Outcome{
				Kind:    models.OutcomeReserveFailed,
				Date:    date,
				Time:    timeOfDay,
				Reason:  "time slot not available",
				Message: "Time slot not available",
			})
		}
		return s.finish(models.Outcome{
			Kind:    models.OutcomeBooked,
			Date:    date,
			Time:    timeOfDay,
			Message: fmt.Sprintf("Appointment on %s at %s booked successfully.", date, timeOfDay),
		})
	}

	times, err := s.alternatives.FindAlternatives(ctx, date, timeOfDay)
	if err != nil {
		s.logger.Error("alternative search failed", zap.String("date", date), zap.String("time", timeOfDay), zap.Error(err))
		return s.finish(models.Outcome{
			Kind:    models.OutcomeTransportError,
			Date:    date,
			Time:    timeOfDay,
			Reason:  err.Error(),
			Message: fmt.Sprintf("Failed to check availability: %v", err),
		})
	}

	if s.metrics != nil {
		s.metrics.ObserveAlternativesOffered(len(times))
	}

	if len(times) == 0 {
		return s.finish(models.Outcome{
			Kind:    models.OutcomeBusyNoAlternatives,
			Date:    date,
			Time:    timeOfDay,
			Message: fmt.Sprintf("%s at %s is not available, and there are no alternative times available.", date, timeOfDay),
		})
	}

	return s.finish(models.Outcome{
		Kind:  models.OutcomeBusyWithAlternatives,
		Date:  date,
		Time:  timeOfDay,
		Offer: BuildOffer(date, times),
		Message: fmt.Sprintf("%s at %s is not available. Would you like to book one of these alternative times: %s?",
			date, timeOfDay, strings.Join(times, ", ")),
	})
}

func (s *BookingService) finish(outcome models.Outcome) models.Outcome {
	if s.metrics != nil {
		s.metrics.ObserveBookingOutcome(outcome.Kind)
	}
	return outcome
}

// BuildOffer labels the given times 'a' onward, capping at six options.
func BuildOffer(date string, times []string) *models.SlotOffer {
	offer := &models.SlotOffer{Date: date}
	for i, t := range times {
		if i >= len(offerLabels) {
			break
		}
		offer.Options = append(offer.Options, models.SlotOption{Label: offerLabels[i], Time: t})
	}
	return offer
}

// AlternativeTimesFromMessage re-extracts the offered times from a
// busy-with-alternatives message, mirroring how a downstream consumer reads
// the contract back out of the rendered text.
func AlternativeTimesFromMessage(message string) []string {
	match := alternativeTimesExpr.FindStringSubmatch(message)
	if match == nil {
		return nil
	}
	parts := strings.Split(match[1], ", ")
	times := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			times = append(times, trimmed)
		}
	}
	return times
}
