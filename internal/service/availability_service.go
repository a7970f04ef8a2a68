package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

type slotOracle interface {
	IsSlotFree(ctx context.Context, date, timeOfDay string) (bool, error)
}

const slotLayout = "2006-01-02 15:04"

// AvailabilityService proposes nearby open times when a requested slot is
// taken.
type AvailabilityService struct {
	oracle          slotOracle
	maxAlternatives int
	logger          *zap.Logger
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(oracle slotOracle, maxAlternatives int, logger *zap.Logger) *AvailabilityService {
	if maxAlternatives <= 0 {
		maxAlternatives = 2
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{oracle: oracle, maxAlternatives: maxAlternatives, logger: logger}
}

// FindAlternatives probes slots at growing hour offsets around the requested
// time, the later side first at each offset, keeping only free slots. The
// collected set is then sorted by time of day and truncated, so a
// chronologically earlier slot found late can displace an earlier discovery.
// Offsets use plain clock arithmetic with no day-rollover correction: a probe
// past midnight is checked against the same date.
func (s *AvailabilityService) FindAlternatives(ctx context.Context, date, requestedTime string) ([]string, error) {
	base, err := time.Parse(slotLayout, date+" "+requestedTime)
	if err != nil {
		return nil, fmt.Errorf("parse requested slot %q %q: %w", date, requestedTime, err)
	}

	var alternatives []string
	for i := 1; i <= s.maxAlternatives; i++ {
		offset := time.Duration(i) * time.Hour
		for _, candidate := range []string{
			base.Add(offset).Format("15:04"),
			base.Add(-offset).Format("15:04"),
		} {
			if containsTime(alternatives, candidate) {
				continue
			}
			free, err := s.oracle.IsSlotFree(ctx, date, candidate)
			if err != nil {
				return nil, err
			}
			if free {
				alternatives = append(alternatives, candidate)
			}
		}
	}

	// Lexicographic order over HH:MM equals chronological order within a day.
	sort.Strings(alternatives)
	if len(alternatives) > s.maxAlternatives {
		alternatives = alternatives[:s.maxAlternatives]
	}

	return alternatives, nil
}

func containsTime(times []string, t string) bool {
	for _, existing := range times {
		if existing == t {
			return true
		}
	}
	return false
}
