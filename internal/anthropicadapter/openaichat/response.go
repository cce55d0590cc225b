package openaichat

import (
	"encoding/json"
	"fmt"

	"github.com/florianilch/odette-proxy/internal/anthropicadapter/types"
)

// toMessage converts a complete backend Chat Completions response into the
// Anthropic Messages response shape. Only the first choice is considered;
// the proxy never requests more than one.
func toMessage(backendResp *chatCompletionResponse, model string) (*types.Message, error) {
	if len(backendResp.Choices) == 0 {
		return nil, fmt.Errorf("backend response has no choices")
	}
	choice := backendResp.Choices[0]

	var content []types.ContentBlock
	if choice.Message.Content != nil && *choice.Message.Content != "" {
		content = append(content, types.NewTextBlock(*choice.Message.Content))
	}
	for _, toolCall := range choice.Message.ToolCalls {
		id := toolCall.ID
		if id == "" {
			id = newToolUseID()
		}
		content = append(content, types.NewToolUseBlock(
			id,
			toolCall.Function.Name,
			toolArgumentsJSON(toolCall.Function.Arguments),
		))
	}
	if content == nil {
		content = []types.ContentBlock{}
	}

	var finishReason string
	if choice.FinishReason != nil {
		finishReason = *choice.FinishReason
	}

	return &types.Message{
		ID:         messageIDFromBackend(backendResp.ID),
		Type:       "message",
		Role:       "assistant",
		Model:      model,
		Content:    content,
		StopReason: toStopReason(finishReason),
		Usage:      toUsage(backendResp.Usage),
	}, nil
}

// toStopReason maps OpenAI finish reasons to Anthropic stop reasons.
//
// The table is fixed: stop → end_turn, length → max_tokens,
// tool_calls → tool_use. The legacy function_call value maps like tool_calls.
// Anything unrecognized (including absent) maps to end_turn so the client
// always sees exactly one valid stop reason.
func toStopReason(finishReason string) types.StopReason {
	switch finishReason {
	case "stop":
		return types.StopReasonEndTurn
	case "length":
		return types.StopReasonMaxTokens
	case "tool_calls", "function_call":
		return types.StopReasonToolUse
	default:
		return types.StopReasonEndTurn
	}
}

// toolArgumentsJSON normalizes a backend tool-call argument string into the
// tool_use input object. Arguments are expected to be a complete JSON
// document at this point; anything else degrades to an empty object rather
// than failing the whole response.
func toolArgumentsJSON(arguments string) json.RawMessage {
	if arguments == "" || !json.Valid([]byte(arguments)) {
		return json.RawMessage("{}")
	}
	return json.RawMessage(arguments)
}
