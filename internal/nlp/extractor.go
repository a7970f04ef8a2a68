package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	appErrors "github.com/bookbot-ai/bookbot-api/pkg/errors"
)

// Entities are the raw spans an extractor pulls from an utterance. Empty
// strings mean the utterance carried no such span.
type Entities struct {
	Intent     string `json:"intent"`
	DatePhrase string `json:"date_phrase"`
	TimePhrase string `json:"time_phrase"`
}

// Extractor labels date and time spans in free text. Implementations are
// swappable; the booking core never depends on how the labeling is done.
type Extractor interface {
	Extract(ctx context.Context, utterance string) (Entities, error)
}

var (
	timeSpanExpr   = regexp.MustCompile(`\b\d{1,2}(:\d{2})?\s*(am|pm)\b|\bat\s+\d{1,2}:\d{2}\b`)
	rejectKeywords = []string{"cancel", "reschedule", "delete"}
)

// RuleExtractor labels spans with keyword and pattern rules. It is the
// in-process default and needs no sidecar.
type RuleExtractor struct{}

// NewRuleExtractor constructs the rule-based extractor.
func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

// Extract labels date and time phrases inside the utterance. A bare clock
// time with no "at" or meridiem marker is deliberately not labeled, mirroring
// how NER models skip free-standing numbers; the negotiation engine handles
// those as offer selections instead.
func (e *RuleExtractor) Extract(_ context.Context, utterance string) (Entities, error) {
	lowered := strings.ToLower(strings.TrimSpace(utterance))

	entities := Entities{Intent: "book_appointment"}
	for _, kw := range rejectKeywords {
		if strings.Contains(lowered, kw) {
			entities.Intent = kw + "_appointment"
			break
		}
	}

	if hasDateKeyword(lowered) {
		entities.DatePhrase = lowered
	}
	if timeSpanExpr.MatchString(lowered) {
		entities.TimePhrase = lowered
	}

	return entities, nil
}

func hasDateKeyword(lowered string) bool {
	if strings.Contains(lowered, "today") || strings.Contains(lowered, "tomorrow") {
		return true
	}
	for _, wd := range weekdayNames {
		if strings.Contains(lowered, wd.name) {
			return true
		}
	}
	for _, m := range monthNames {
		if strings.Contains(lowered, m.name) {
			return true
		}
	}
	return false
}

// HTTPExtractor delegates labeling to an NER sidecar over HTTP.
type HTTPExtractor struct {
	url    string
	client *http.Client
}

// NewHTTPExtractor builds an extractor client for the given endpoint.
func NewHTTPExtractor(url string, timeout time.Duration) *HTTPExtractor {
	return &HTTPExtractor{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type extractRequest struct {
	Utterance string `json:"utterance"`
}

// Extract posts the utterance to the sidecar. Transport failures and
// malformed payloads surface as distinct typed errors so the orchestrator
// can report them apart from business-busy results.
func (e *HTTPExtractor) Extract(ctx context.Context, utterance string) (Entities, error) {
	payload, err := json.Marshal(extractRequest{Utterance: utterance})
	if err != nil {
		return Entities{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode extract request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(payload))
	if err != nil {
		return Entities{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build extract request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return Entities{}, appErrors.Wrap(err, appErrors.ErrExtractorDown.Code, appErrors.ErrExtractorDown.Status, "entity extractor unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Entities{}, appErrors.Clone(appErrors.ErrExtractorDown, fmt.Sprintf("entity extractor returned status %d", resp.StatusCode))
	}

	var entities Entities
	if err := json.NewDecoder(resp.Body).Decode(&entities); err != nil {
		return Entities{}, appErrors.Wrap(err, appErrors.ErrMalformedUpstream.Code, appErrors.ErrMalformedUpstream.Status, "decode extractor response")
	}
	if entities.Intent == "" {
		entities.Intent = "book_appointment"
	}

	return entities, nil
}
