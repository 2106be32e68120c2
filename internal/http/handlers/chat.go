package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sahayhealth/sahay-backend/internal/http/response"
	apperrors "github.com/sahayhealth/sahay-backend/internal/pkg/errors"
	"github.com/sahayhealth/sahay-backend/internal/pkg/logger"
	"github.com/sahayhealth/sahay-backend/internal/services"
)

// defaultConversationID is used when the client sends no userId.
const defaultConversationID = "defaultUser"

type ChatHandler struct {
	log      *logger.Logger
	composer services.Composer
}

func NewChatHandler(log *logger.Logger, composer services.Composer) *ChatHandler {
	return &ChatHandler{
		log:      log.With("handler", "ChatHandler"),
		composer: composer,
	}
}

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// POST /chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Message is required")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		response.RespondError(c, http.StatusBadRequest, "Message is required")
		return
	}

	conversationID := req.UserID
	if strings.TrimSpace(conversationID) == "" {
		conversationID = defaultConversationID
	}

	reply, err := h.composer.Answer(c.Request.Context(), conversationID, req.Message)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidArgument) {
			response.RespondError(c, http.StatusBadRequest, "Message is required")
			return
		}
		h.log.Error("Chat pipeline failed", "conversation_id", conversationID, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	response.RespondOK(c, chatResponse{Response: reply})
}
