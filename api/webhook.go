package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	statex "github.com/tanpawarit/Chative-Order-Router/agent/state"
	"github.com/tanpawarit/Chative-Order-Router/pkg/telegram"
)

// TelegramWebhook routes one Telegram update and replies in the same chat.
// Accepted updates always get 200 so Telegram does not redeliver them.
// POST / and POST /telegram/webhook
func (h *Handler) TelegramWebhook(c echo.Context) error {
	ctx := c.Request().Context()
	logger := log.Ctx(ctx).With().Str("component", "api.webhook").Logger()

	if h.secret != "" {
		got := c.Request().Header.Get(telegram.SecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			logger.Warn().Msg("rejected update with bad secret")
			return c.String(http.StatusUnauthorized, "unauthorized")
		}
	}

	var update telegram.Update
	if err := c.Bind(&update); err != nil {
		logger.Warn().Err(err).Msg("malformed update")
		return c.String(http.StatusBadRequest, "invalid update")
	}

	msg := update.Message
	if msg == nil || msg.Chat == nil || strings.TrimSpace(msg.Text) == "" {
		logger.Debug().Int64("update_id", update.UpdateID).Msg("ignoring update without text")
		return c.String(http.StatusOK, StatusProcessed)
	}

	chatID := statex.ChatKey(msg.Chat.ID)
	logger = logger.With().Str("chat_id", chatID).Logger()

	if h.policy != nil {
		allowed, err := h.policy.Allow(ctx, chatID, msg.Chat.Type)
		if err != nil {
			logger.Error().Err(err).Msg("policy evaluation failed")
			return c.String(http.StatusOK, StatusProcessed)
		}
		if !allowed {
			logger.Info().Str("chat_type", msg.Chat.Type).Msg("chat not allowed")
			return c.String(http.StatusOK, StatusProcessed)
		}
	}

	reply := ErrorReply
	result, err := h.router.RouteMessage(ctx, chatID, msg.Text)
	if err != nil {
		logger.Error().Err(err).Msg("routing failed")
	} else {
		reply = result.Response
		logger.Info().Str("category", result.Category.String()).Bool("failed", result.Failed).Msg("message routed")
	}

	if err := h.sender.SendMessage(ctx, msg.Chat.ID, reply); err != nil {
		logger.Error().Err(err).Msg("send reply failed")
	}

	return c.String(http.StatusOK, StatusProcessed)
}
