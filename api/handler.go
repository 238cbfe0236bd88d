// Package api serves the Telegram webhook and diagnostic endpoints.
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
	statex "github.com/tanpawarit/Chative-Order-Router/agent/state"
)

const (
	StatusRunning   = "Anna Bot is running"
	StatusProcessed = "Message processed"
	ErrorReply      = "I apologize, but I encountered an error while processing your message. Please try again."
)

// Router runs one inbound message through the head agent.
type Router interface {
	RouteMessage(ctx context.Context, chatID string, text string) (contractx.RouteResult, error)
}

type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type ChatPolicy interface {
	Allow(ctx context.Context, chatID string, chatType string) (bool, error)
}

type Config struct {
	// WebhookSecret must match the secret header on every update when set.
	WebhookSecret string
}

// Handler handles HTTP requests.
type Handler struct {
	router  Router
	history statex.Store
	sender  Sender
	policy  ChatPolicy
	secret  string
}

// NewHandler creates a new handler. policy may be nil to serve every chat.
func NewHandler(router Router, history statex.Store, sender Sender, policy ChatPolicy, cfg Config) *Handler {
	return &Handler{
		router:  router,
		history: history,
		sender:  sender,
		policy:  policy,
		secret:  cfg.WebhookSecret,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Health)
	e.POST("/", h.TelegramWebhook)
	e.POST("/telegram/webhook", h.TelegramWebhook)

	e.GET("/v1/chats/:chat_id/messages", h.GetChatMessages)
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, StatusRunning)
}
