package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/Chative-Order-Router/agent/nodes/orchestrator"
)

func (o *Orchestrator) compileAnalyzeGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("append_user_message",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.AppendUserMessage(ctx, in, o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node append_user_message: %w", err)
	}

	if err := graph.AddLambdaNode("detect_follow_up",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.DetectFollowUp(ctx, in, o.intents.FollowUp())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node detect_follow_up: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.NodeAnswerGeneral,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.AnswerGeneral(ctx, in, o.intents.General(), o.store)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node answer_general: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.NodeClassifyIntent,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ClassifyIntent(ctx, in, o.intents.Classifier())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_intent: %w", err)
	}

	if err := graph.AddLambdaNode("extract_params",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ExtractParams(ctx, in, o.intents.OrderNumber(), o.intents.CustomerName())
		}),
	); err != nil {
		return nil, fmt.Errorf("add node extract_params: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_decision",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeDecision(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_decision: %w", err)
	}

	branch := compose.NewGraphBranch(
		nodex.NextAfterFollowUp,
		map[string]bool{
			nodex.NodeAnswerGeneral:  true,
			nodex.NodeClassifyIntent: true,
		},
	)
	if err := graph.AddBranch("detect_follow_up", branch); err != nil {
		return nil, fmt.Errorf("add branch after detect_follow_up: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "append_user_message"},
		{"append_user_message", "detect_follow_up"},
		{nodex.NodeAnswerGeneral, compose.END},
		{nodex.NodeClassifyIntent, "extract_params"},
		{"extract_params", "finalize_decision"},
		{"finalize_decision", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.analyze"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
