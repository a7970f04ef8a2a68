package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bookbot-ai/bookbot-api/internal/models"
	"github.com/bookbot-ai/bookbot-api/internal/nlp"
)

// ParserService turns free-form utterances into ParsedRequests by running
// extraction and normalization. An injected clock keeps relative-date
// resolution deterministic under test.
type ParserService struct {
	extractor nlp.Extractor
	clock     func() time.Time
	logger    *zap.Logger
}

// NewParserService constructs a ParserService.
func NewParserService(extractor nlp.Extractor, clock func() time.Time, logger *zap.Logger) *ParserService {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ParserService{extractor: extractor, clock: clock, logger: logger}
}

// Parse extracts and normalizes date and time from the utterance. Phrases
// that fail to normalize leave the respective field empty; only extractor
// boundary failures return an error.
func (s *ParserService) Parse(ctx context.Context, utterance string) (models.ParsedRequest, error) {
	entities, err := s.extractor.Extract(ctx, utterance)
	if err != nil {
		return models.ParsedRequest{}, err
	}

	req := models.ParsedRequest{Intent: intentFromLabel(entities.Intent)}

	if entities.DatePhrase != "" {
		if date, ok := nlp.NormalizeDate(s.clock(), entities.DatePhrase); ok {
			req.Date = date
		}
	}
	if entities.TimePhrase != "" {
		if timeOfDay, ok := nlp.NormalizeTime(entities.TimePhrase); ok {
			req.Time = timeOfDay
		}
	}

	s.logger.Debug("parsed utterance",
		zap.String("intent", string(req.Intent)),
		zap.String("date", req.Date),
		zap.String("time", req.Time),
	)

	return req, nil
}

func intentFromLabel(label string) models.Intent {
	if label == string(models.IntentBook) {
		return models.IntentBook
	}
	return models.IntentUnknown
}
