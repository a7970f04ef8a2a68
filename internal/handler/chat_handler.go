package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bookbot-ai/bookbot-api/internal/dto"
	"github.com/bookbot-ai/bookbot-api/internal/service"
	appErrors "github.com/bookbot-ai/bookbot-api/pkg/errors"
	"github.com/bookbot-ai/bookbot-api/pkg/response"
)

type chatService interface {
	HandleMessage(ctx context.Context, sessionID, text string) (*service.ChatResult, error)
}

// ChatHandler exposes the conversational booking endpoint.
type ChatHandler struct {
	chat chatService
}

// NewChatHandler builds a new handler.
func NewChatHandler(chat chatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Chat godoc
// @Summary Send a chat message
// @Tags Chat
// @Accept json
// @Produce json
// @Param payload body dto.ChatRequest true "Chat payload"
// @Success 200 {object} response.Envelope
// @Router /chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid chat payload"))
		return
	}

	result, err := h.chat.HandleMessage(c.Request.Context(), req.SessionID, req.Message)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, chatResponseFrom(result), nil)
}

func chatResponseFrom(result *service.ChatResult) dto.ChatResponse {
	resp := dto.ChatResponse{
		SessionID: result.SessionID,
		Message:   result.Message,
		Ended:     result.Ended,
	}
	if result.Outcome != nil {
		resp.Outcome = string(result.Outcome.Kind)
		resp.Date = result.Outcome.Date
		resp.Time = result.Outcome.Time
	}
	if result.Offer != nil {
		for _, opt := range result.Offer.Options {
			resp.Alternatives = append(resp.Alternatives, dto.ChatAlternative{Label: opt.Label, Time: opt.Time})
		}
	}
	return resp
}
