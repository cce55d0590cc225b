package openaichat

import (
	"encoding/json"
	"fmt"

	"github.com/florianilch/odette-proxy/internal/anthropicadapter"
	"github.com/florianilch/odette-proxy/internal/anthropicadapter/types"
)

// buildChatCompletionRequest transforms a validated Anthropic request into the
// backend Chat Completions request body. The resolved model is supplied by
// the caller (see ModelRouter).
func buildChatCompletionRequest(
	clientReq anthropicadapter.CreateMessageRequest,
	model string,
) (*chatCompletionRequest, error) {
	backendReq := &chatCompletionRequest{
		Model:       model,
		MaxTokens:   *clientReq.MaxTokens,
		Temperature: clientReq.Temperature,
		TopP:        clientReq.TopP,
		Stop:        clientReq.StopSequences,
	}

	if system := clientReq.System.Text(); system != "" {
		backendReq.Messages = append(backendReq.Messages, chatMessage{
			Role:    "system",
			Content: system,
		})
	}

	for i, msg := range clientReq.Messages {
		converted, err := fromMessageParam(msg)
		if err != nil {
			return nil, newValidationError(fmt.Sprintf("messages.%d: %v", i, err))
		}
		backendReq.Messages = append(backendReq.Messages, converted...)
	}

	tools, err := fromToolParams(clientReq.Tools)
	if err != nil {
		return nil, err
	}
	backendReq.Tools = tools

	return backendReq, nil
}

// fromMessageParam converts one Anthropic conversation turn. A single turn
// can fan out into several backend messages: the turn's text and tool_use
// blocks collapse into one message, while each tool_result block becomes its
// own role-tool message carrying the originating tool_call_id.
func fromMessageParam(msg types.MessageParam) ([]chatMessage, error) {
	if text, ok := msg.Content.Text(); ok {
		return []chatMessage{{Role: msg.Role, Content: text}}, nil
	}

	var (
		text      string
		toolCalls []chatToolCall
		results   []chatMessage
	)

	for i, block := range msg.Content.Blocks() {
		switch block.Type {
		case types.BlockTypeText:
			if text != "" && block.Text != "" {
				text += " "
			}
			text += block.Text

		case types.BlockTypeToolUse:
			arguments := "{}"
			if len(block.Input) > 0 {
				data, err := json.Marshal(block.Input)
				if err != nil {
					return nil, fmt.Errorf("content.%d: encode tool input: %w", i, err)
				}
				arguments = string(data)
			}
			toolCalls = append(toolCalls, chatToolCall{
				ID:   block.ID,
				Type: "function",
				Function: chatToolFunction{
					Name:      block.Name,
					Arguments: arguments,
				},
			})

		case types.BlockTypeToolResult:
			results = append(results, chatMessage{
				Role:       "tool",
				Content:    block.ResultText(),
				ToolCallID: block.ToolUseID,
			})

		case types.BlockTypeThinking, types.BlockTypeRedactedThinking:
			// Thinking blocks in conversation history have no Chat Completions
			// representation; the backend regenerates its own reasoning.

		default:
			return nil, fmt.Errorf("content.%d: unsupported content block type %q", i, block.Type)
		}
	}

	messages := make([]chatMessage, 0, 1+len(results))
	if text != "" || len(toolCalls) > 0 {
		messages = append(messages, chatMessage{
			Role:      msg.Role,
			Content:   text,
			ToolCalls: toolCalls,
		})
	}
	return append(messages, results...), nil
}

// newValidationError wraps a request-shape problem as an Anthropic
// invalid_request_error.
func newValidationError(message string) *types.ErrorResponse {
	return types.NewErrorResponse(types.ErrorTypeInvalidRequest, message)
}
