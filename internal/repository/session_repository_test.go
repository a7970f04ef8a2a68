package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbot-ai/bookbot-api/internal/models"
	appErrors "github.com/bookbot-ai/bookbot-api/pkg/errors"
)

func TestMemorySessionRepositoryRoundTrip(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, "s1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionNotFound.Code, appErrors.FromError(err).Code)

	state := models.NewSessionState()
	state.HoldOffer(&models.SlotOffer{
		Date: "2025-08-08",
		Options: []models.SlotOption{
			{Label: "a", Time: "13:00"},
			{Label: "b", Time: "14:00"},
		},
	}, "2025-08-08")
	require.NoError(t, repo.Put(ctx, "s1", state))

	loaded, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseAwaitingSelection, loaded.Phase)
	require.NotNil(t, loaded.Offer)
	assert.Equal(t, "2025-08-08", loaded.LastRequestedDate)

	// The stored copy must not alias the caller's state.
	state.Clear()
	loaded, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseAwaitingSelection, loaded.Phase)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	require.Error(t, err)
}
