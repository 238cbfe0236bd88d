package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
	nodex "github.com/tanpawarit/Chative-Order-Router/agent/nodes/orchestrator"
	statex "github.com/tanpawarit/Chative-Order-Router/agent/state"
)

// DefaultApology is the reply when a message cannot be routed.
const DefaultApology = "I'm not sure how to handle that type of request. Please try rephrasing your question."

var (
	ErrInvalidMessage = nodex.ErrInvalidMessage
	ErrInvalidChat    = nodex.ErrInvalidChat
)

type Config struct {
	// Source is stored on every inbound user message when set.
	Source string
}

// Orchestrator is the head agent. It owns the conversation store and
// serializes work per chat.
type Orchestrator struct {
	store    statex.Store
	intents  contractx.Registry
	handlers contractx.HandlerRegistry
	locks    *statex.KeyedMutex

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	source string
	now    func() time.Time
}

func New(
	store statex.Store,
	intents contractx.Registry,
	handlers contractx.HandlerRegistry,
	cfg Config,
) (*Orchestrator, error) {
	if store == nil {
		return nil, errors.New("conversation store is required")
	}
	if intents == nil {
		return nil, errors.New("intent registry is required")
	}
	if handlers == nil {
		return nil, errors.New("handler registry is required")
	}

	o := &Orchestrator{
		store:    store,
		intents:  intents,
		handlers: handlers,
		locks:    statex.NewKeyedMutex(),
		source:   strings.TrimSpace(cfg.Source),
		now:      time.Now,
	}

	graphRunner, err := o.compileAnalyzeGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Analyze records the user message and decides how to answer it. A GENERAL
// decision is already answered and recorded. Callers driving Analyze and
// RecordResponse directly are responsible for per-chat ordering; RouteMessage
// does it for them.
func (o *Orchestrator) Analyze(ctx context.Context, chatID string, text string) (contractx.RouteDecision, error) {
	var metadata map[string]any
	if o.source != "" {
		metadata = map[string]any{"source": o.source}
	}

	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{
		ChatID:   chatID,
		Text:     text,
		Metadata: metadata,
	})
	if err != nil {
		return contractx.RouteDecision{}, err
	}
	return out.Decision, nil
}

// RecordResponse appends a handler's output as an assistant message.
func (o *Orchestrator) RecordResponse(
	ctx context.Context,
	chatID string,
	category contractx.Category,
	text string,
	metadata map[string]any,
) error {
	meta := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		meta[k] = v
	}
	if category != "" {
		meta["category"] = category.String()
	}

	if _, err := o.store.Append(ctx, chatID, contractx.RoleAssistant, text, meta); err != nil {
		return fmt.Errorf("record response: %w", err)
	}
	return nil
}

// RouteMessage runs one full analyze, dispatch and record cycle under the
// chat's lock.
func (o *Orchestrator) RouteMessage(ctx context.Context, chatID string, text string) (contractx.RouteResult, error) {
	key := strings.TrimSpace(chatID)
	if key == "" {
		return contractx.RouteResult{}, ErrInvalidChat
	}
	unlock := o.locks.Lock(key)
	defer unlock()

	logger := log.Ctx(ctx).With().Str("component", "router").Str("chat_id", key).Logger()

	decision, err := o.Analyze(ctx, key, text)
	if err != nil {
		if errors.Is(err, contractx.ErrRoutingFailed) {
			logger.Warn().Err(err).Msg("routing failed")
			return o.apologize(ctx, key, contractx.RouteDecision{})
		}
		return contractx.RouteResult{}, err
	}

	if decision.Category == contractx.CategoryGeneral {
		logger.Info().Msg("answered follow-up from history")
		return contractx.RouteResult{
			Category: contractx.CategoryGeneral,
			Response: decision.Response,
			Decision: decision,
		}, nil
	}

	handler, ok := o.handlers.Handler(decision.Category)
	if !ok {
		logger.Warn().Str("category", decision.Category.String()).Msg("no handler for category")
		return o.apologize(ctx, key, decision)
	}

	logger.Info().Str("category", decision.Category.String()).Msg("dispatching")
	reply := handler.Handle(ctx, text, decision.ParamFor())

	if err := o.RecordResponse(ctx, key, decision.Category, reply, decisionMetadata(decision)); err != nil {
		return contractx.RouteResult{}, err
	}

	return contractx.RouteResult{
		Category: decision.Category,
		Response: reply,
		Decision: decision,
	}, nil
}

func (o *Orchestrator) apologize(ctx context.Context, chatID string, decision contractx.RouteDecision) (contractx.RouteResult, error) {
	meta := decisionMetadata(decision)
	meta["error"] = true
	if err := o.RecordResponse(ctx, chatID, "", DefaultApology, meta); err != nil {
		return contractx.RouteResult{}, err
	}
	return contractx.RouteResult{
		Response: DefaultApology,
		Decision: decision,
		Failed:   true,
	}, nil
}

func decisionMetadata(d contractx.RouteDecision) map[string]any {
	meta := make(map[string]any, 2)
	if d.OrderNumber != nil {
		meta["order_number"] = *d.OrderNumber
	}
	if d.CustomerName != nil {
		meta["customer_name"] = *d.CustomerName
	}
	return meta
}
