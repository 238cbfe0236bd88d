package intent

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
	"github.com/tanpawarit/Chative-Order-Router/agent/llm"
	"github.com/tanpawarit/Chative-Order-Router/agent/prompt"
	"github.com/tanpawarit/Chative-Order-Router/agent/state"
)

const DefaultHistoryWindow = 10

// Completers assigns one completion client per decision kind. They may be
// the same instance.
type Completers struct {
	Classifier contractx.Completer
	Extractor  contractx.Completer
	Responder  contractx.Completer
}

type options struct {
	historyWindow int
	prompts       prompt.PromptSet
}

type Option func(*options)

// WithHistoryWindow sets how many prior messages the follow-up check and the
// general responder see.
func WithHistoryWindow(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.historyWindow = n
		}
	}
}

func WithPromptSet(p prompt.PromptSet) Option {
	return func(o *options) {
		o.prompts = p
	}
}

// Set is the prompt-driven half of the head agent.
type Set struct {
	classifier   *Classifier
	followUp     *FollowUpDetector
	orderNumber  *Extractor
	customerName *Extractor
	general      *GeneralResponder
}

var _ contractx.Registry = (*Set)(nil)

func New(completers Completers, history state.Store, opts ...Option) (*Set, error) {
	if completers.Classifier == nil || completers.Extractor == nil || completers.Responder == nil {
		return nil, fmt.Errorf("%w: classifier, extractor and responder completers are required", contractx.ErrValidation)
	}
	if history == nil {
		return nil, fmt.Errorf("%w: history store is required", contractx.ErrValidation)
	}

	o := options{
		historyWindow: DefaultHistoryWindow,
		prompts:       prompt.LoadPromptSet(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := o.prompts.Validate(); err != nil {
		return nil, err
	}

	return &Set{
		classifier:   NewClassifier(completers.Classifier, o.prompts.Classify),
		followUp:     NewFollowUpDetector(completers.Classifier, history, o.prompts.FollowUp, o.historyWindow),
		orderNumber:  NewExtractor("order_number", completers.Extractor, o.prompts.OrderNumber),
		customerName: NewExtractor("customer_name", completers.Extractor, o.prompts.CustomerName),
		general:      NewGeneralResponder(completers.Responder, history, o.prompts.GeneralQuery, o.historyWindow),
	}, nil
}

// NewFromConfig builds a completer per agent type from the LLM config.
func NewFromConfig(ctx context.Context, cfg llm.Config, history state.Store, opts ...Option) (*Set, error) {
	classifier, err := llm.NewCompleter(ctx, cfg, contractx.AgentTypeClassifier)
	if err != nil {
		return nil, fmt.Errorf("build classifier completer: %w", err)
	}
	extractor, err := llm.NewCompleter(ctx, cfg, contractx.AgentTypeExtractor)
	if err != nil {
		return nil, fmt.Errorf("build extractor completer: %w", err)
	}
	responder, err := llm.NewCompleter(ctx, cfg, contractx.AgentTypeResponder)
	if err != nil {
		return nil, fmt.Errorf("build responder completer: %w", err)
	}

	return New(Completers{
		Classifier: classifier,
		Extractor:  extractor,
		Responder:  responder,
	}, history, opts...)
}

func (s *Set) Classifier() contractx.IntentClassifier     { return s.classifier }
func (s *Set) FollowUp() contractx.FollowUpDetector       { return s.followUp }
func (s *Set) OrderNumber() contractx.ParameterExtractor  { return s.orderNumber }
func (s *Set) CustomerName() contractx.ParameterExtractor { return s.customerName }
func (s *Set) General() contractx.GeneralResponder        { return s.general }

// priorTurns returns up to window messages preceding the message being handled.
func priorTurns(ctx context.Context, history state.Store, chatID, text string, window int) ([]contractx.ConversationMessage, error) {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	recent, err := history.Recent(ctx, chatID, window+1)
	if err != nil {
		return nil, fmt.Errorf("read recent history: %w", err)
	}
	recent = withoutCurrent(recent, text)
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}
	return recent, nil
}
