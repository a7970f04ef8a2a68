package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type oracleStub struct {
	busy map[string]bool
	err  error
	// probes records the order in which slots were checked.
	probes []string
}

func (s *oracleStub) IsSlotFree(_ context.Context, date, timeOfDay string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.probes = append(s.probes, timeOfDay)
	return !s.busy[date+" "+timeOfDay], nil
}

func (s *oracleStub) Reserve(_ context.Context, date, timeOfDay string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	key := date + " " + timeOfDay
	if s.busy[key] {
		return false, nil
	}
	if s.busy == nil {
		s.busy = map[string]bool{}
	}
	s.busy[key] = true
	return true, nil
}

func TestFindAlternativesAllFree(t *testing.T) {
	oracle := &oracleStub{}
	svc := NewAvailabilityService(oracle, 2, nil)

	got, err := svc.FindAlternatives(context.Background(), "2025-08-08", "15:00")
	require.NoError(t, err)

	// Discovery runs 16:00, 14:00, 17:00, 13:00; the final sort and truncate
	// keep the two earliest by time of day.
	assert.Equal(t, []string{"16:00", "14:00", "17:00", "13:00"}, oracle.probes)
	assert.Equal(t, []string{"13:00", "14:00"}, got)
}

func TestFindAlternativesSkipsBusySlots(t *testing.T) {
	oracle := &oracleStub{busy: map[string]bool{
		"2025-08-08 16:00": true,
		"2025-08-08 13:00": true,
	}}
	svc := NewAvailabilityService(oracle, 2, nil)

	got, err := svc.FindAlternatives(context.Background(), "2025-08-08", "15:00")
	require.NoError(t, err)
	assert.Equal(t, []string{"14:00", "17:00"}, got)
}

func TestFindAlternativesNoneFree(t *testing.T) {
	oracle := &oracleStub{busy: map[string]bool{
		"2025-08-08 13:00": true,
		"2025-08-08 14:00": true,
		"2025-08-08 16:00": true,
		"2025-08-08 17:00": true,
	}}
	svc := NewAvailabilityService(oracle, 2, nil)

	got, err := svc.FindAlternatives(context.Background(), "2025-08-08", "15:00")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindAlternativesWrapsClockWithoutDateRollover(t *testing.T) {
	oracle := &oracleStub{}
	svc := NewAvailabilityService(oracle, 2, nil)

	got, err := svc.FindAlternatives(context.Background(), "2025-08-08", "23:30")
	require.NoError(t, err)

	// Probes past midnight wrap on the clock but stay on the requested date.
	assert.Equal(t, []string{"00:30", "22:30", "01:30", "21:30"}, oracle.probes)
	assert.Equal(t, []string{"00:30", "01:30"}, got)
}

func TestFindAlternativesOracleFailure(t *testing.T) {
	oracle := &oracleStub{err: errors.New("connection refused")}
	svc := NewAvailabilityService(oracle, 2, nil)

	_, err := svc.FindAlternatives(context.Background(), "2025-08-08", "15:00")
	require.Error(t, err)
}

func TestFindAlternativesRejectsBadSlot(t *testing.T) {
	svc := NewAvailabilityService(&oracleStub{}, 2, nil)

	_, err := svc.FindAlternatives(context.Background(), "not-a-date", "15:00")
	require.Error(t, err)
}
