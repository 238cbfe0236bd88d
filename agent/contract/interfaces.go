package contract

import "context"

// Completer sends a prompt to the text-completion service and returns the
// trimmed reply. On failure it returns a user-facing fallback text together
// with an error wrapping ErrModelInvoke.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type IntentClassifier interface {
	Classify(ctx context.Context, text string) (Category, error)
}

type FollowUpDetector interface {
	IsFollowUp(ctx context.Context, text string, chatID string) (bool, error)
}

// ParameterExtractor returns nil when the message carries no value.
type ParameterExtractor interface {
	Extract(ctx context.Context, text string) (*string, error)
}

type GeneralResponder interface {
	Answer(ctx context.Context, text string, chatID string) (string, error)
}

// Registry groups the prompt-driven components the head agent relies on.
type Registry interface {
	Classifier() IntentClassifier
	FollowUp() FollowUpDetector
	OrderNumber() ParameterExtractor
	CustomerName() ParameterExtractor
	General() GeneralResponder
}

// Handler is one category's agent. It never returns an error; failures are
// rendered into the reply text.
type Handler interface {
	Handle(ctx context.Context, text string, param *string) string
}

type HandlerRegistry interface {
	Handler(category Category) (Handler, bool)
}
