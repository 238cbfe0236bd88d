package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
)

// GetChatMessages returns a chat's history, the last limit messages when
// limit is positive.
// GET /v1/chats/:chat_id/messages
func (h *Handler) GetChatMessages(c echo.Context) error {
	ctx := c.Request().Context()
	chatID := strings.TrimSpace(c.Param("chat_id"))
	if chatID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "chat_id is required"})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	var (
		messages []contractx.ConversationMessage
		err      error
	)
	if limit > 0 {
		messages, err = h.history.Recent(ctx, chatID, limit)
	} else {
		messages, err = h.history.Dump(ctx, chatID)
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "api.messages").Str("chat_id", chatID).Msg("failed to read history")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get messages"})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"chat_id":  chatID,
		"messages": messages,
	})
}
