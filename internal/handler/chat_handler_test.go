package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookbot-ai/bookbot-api/internal/dto"
	"github.com/bookbot-ai/bookbot-api/internal/models"
	"github.com/bookbot-ai/bookbot-api/internal/service"
	appErrors "github.com/bookbot-ai/bookbot-api/pkg/errors"
	"github.com/bookbot-ai/bookbot-api/pkg/response"
)

type chatServiceMock struct {
	result *service.ChatResult
	err    error
}

func (m *chatServiceMock) HandleMessage(_ context.Context, _, _ string) (*service.ChatResult, error) {
	return m.result, m.err
}

func postChat(t *testing.T, h *ChatHandler, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, _ := http.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	h.Chat(c)
	return w
}

func TestChatHandlerBookedReply(t *testing.T) {
	handler := NewChatHandler(&chatServiceMock{result: &service.ChatResult{
		SessionID: "s-1",
		Message:   "Appointment on 2025-08-08 at 15:00 booked successfully.",
		Outcome: &models.Outcome{
			Kind: models.OutcomeBooked,
			Date: "2025-08-08",
			Time: "15:00",
		},
	}})

	w := postChat(t, handler, dto.ChatRequest{SessionID: "s-1", Message: "friday at 3 pm"})
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, err := json.Marshal(envelope.Data)
	require.NoError(t, err)

	var resp dto.ChatResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, "s-1", resp.SessionID)
	assert.Equal(t, "BOOKED", resp.Outcome)
	assert.Equal(t, "2025-08-08", resp.Date)
	assert.Equal(t, "15:00", resp.Time)
	assert.Empty(t, resp.Alternatives)
}

func TestChatHandlerExposesAlternatives(t *testing.T) {
	handler := NewChatHandler(&chatServiceMock{result: &service.ChatResult{
		SessionID: "s-2",
		Message:   "2025-08-08 at 15:00 is not available. Would you like to book one of these alternative times: 13:00, 14:00?",
		Offer: &models.SlotOffer{
			Date: "2025-08-08",
			Options: []models.SlotOption{
				{Label: "a", Time: "13:00"},
				{Label: "b", Time: "14:00"},
			},
		},
	}})

	w := postChat(t, handler, dto.ChatRequest{Message: "friday at 3 pm"})
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, _ := json.Marshal(envelope.Data)
	var resp dto.ChatResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	require.Len(t, resp.Alternatives, 2)
	assert.Equal(t, dto.ChatAlternative{Label: "a", Time: "13:00"}, resp.Alternatives[0])
	assert.Equal(t, dto.ChatAlternative{Label: "b", Time: "14:00"}, resp.Alternatives[1])
}

func TestChatHandlerRejectsEmptyMessage(t *testing.T) {
	handler := NewChatHandler(&chatServiceMock{})

	w := postChat(t, handler, map[string]string{"session_id": "s-3"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatHandlerServiceError(t *testing.T) {
	handler := NewChatHandler(&chatServiceMock{err: appErrors.ErrInternal})

	w := postChat(t, handler, dto.ChatRequest{Message: "tomorrow at 3 pm"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
