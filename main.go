package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanpawarit/Chative-Order-Router/agent/agents/intent"
	"github.com/tanpawarit/Chative-Order-Router/agent/agents/orchestrator"
	"github.com/tanpawarit/Chative-Order-Router/agent/agents/specialist"
	"github.com/tanpawarit/Chative-Order-Router/agent/llm"
	statex "github.com/tanpawarit/Chative-Order-Router/agent/state"
	"github.com/tanpawarit/Chative-Order-Router/agent/tool"
	"github.com/tanpawarit/Chative-Order-Router/api"
	configx "github.com/tanpawarit/Chative-Order-Router/pkg/config"
	_ "github.com/tanpawarit/Chative-Order-Router/pkg/logger/autoload"
	"github.com/tanpawarit/Chative-Order-Router/pkg/policy"
	"github.com/tanpawarit/Chative-Order-Router/pkg/telegram"
	"github.com/tanpawarit/Chative-Order-Router/pkg/woocommerce"
)

type AppConfig struct {
	Port            int           `envconfig:"PORT" default:"3000"`
	WebhookURL      string        `envconfig:"WEBHOOK_URL"`
	RegisterWebhook bool          `envconfig:"REGISTER_WEBHOOK" default:"false"`
	HistoryBackend  string        `envconfig:"HISTORY_BACKEND" default:"memory"`
	HistoryWindow   int           `envconfig:"HISTORY_WINDOW" default:"10"`
	MessageSource   string        `envconfig:"MESSAGE_SOURCE" default:"telegram"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")

	backend := statex.BackendConfig{Backend: appCfg.HistoryBackend}
	switch strings.ToLower(strings.TrimSpace(appCfg.HistoryBackend)) {
	case statex.BackendUpstash:
		backend.Upstash = *configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
	case statex.BackendPostgres, statex.BackendSQLite:
		backend.Database = *configx.MustNew[statex.DatabaseConfig]("DATABASE")
	}
	history, closeHistory, err := statex.Open(ctx, backend)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open history store")
	}
	defer func() {
		if err := closeHistory(); err != nil {
			log.Error().Err(err).Msg("failed to close history store")
		}
	}()

	llmCfg := configx.MustNew[llm.Config]("LLM")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid llm config")
	}
	intents, err := intent.NewFromConfig(ctx, *llmCfg, history, intent.WithHistoryWindow(appCfg.HistoryWindow))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build intent components")
	}

	shop := woocommerce.MustNew(*configx.MustNew[woocommerce.Config]("WOOCOMMERCE"))
	orders, err := tool.NewOrderTool(shop)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build order tool")
	}
	handlers, err := specialist.NewRegistry(orders)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build handler registry")
	}

	router, err := orchestrator.New(history, intents, handlers, orchestrator.Config{Source: appCfg.MessageSource})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build orchestrator")
	}

	tgCfg := configx.MustNew[telegram.Config]("TELEGRAM")
	bot := telegram.MustNew(*tgCfg)
	if appCfg.RegisterWebhook {
		if err := bot.SetWebhook(ctx, appCfg.WebhookURL, tgCfg.WebhookSecret); err != nil {
			log.Fatal().Err(err).Msg("failed to register telegram webhook")
		}
		log.Info().Str("url", appCfg.WebhookURL).Msg("telegram webhook registered")
	}

	policyEngine, err := policy.NewFromConfig(ctx, *configx.MustNew[policy.Config]("POLICY"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize policy engine")
	}

	server := api.NewServer(api.NewHandler(router, history, bot, policyEngine, api.Config{
		WebhookSecret: tgCfg.WebhookSecret,
	}))

	go func() {
		addr := fmt.Sprintf(":%d", appCfg.Port)
		log.Info().Str("addr", addr).Str("history_backend", appCfg.HistoryBackend).Msg("server starting")
		if err := server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appCfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	log.Info().Msg("stopped")
}
