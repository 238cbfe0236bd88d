package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/Chative-Order-Router/agent/contract"
)

const (
	NodeAnswerGeneral  = "answer_general"
	NodeClassifyIntent = "classify_intent"
)

// DetectFollowUp treats a failed check as a new task.
func DetectFollowUp(ctx context.Context, in *GraphState, detector contractx.FollowUpDetector) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	followUp, err := detector.IsFollowUp(ctx, in.Text, in.ChatID)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("component", "router").Str("chat_id", in.ChatID).Msg("follow-up check failed, routing as new task")
		followUp = false
	}
	in.FollowUp = followUp
	return in, nil
}

// NextAfterFollowUp picks the branch taken after DetectFollowUp.
func NextAfterFollowUp(ctx context.Context, in *GraphState) (string, error) {
	if in == nil {
		return "", fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.FollowUp {
		return NodeAnswerGeneral, nil
	}
	return NodeClassifyIntent, nil
}
