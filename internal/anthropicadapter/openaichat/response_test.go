package openaichat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/florianilch/odette-proxy/internal/anthropicadapter/types"
)

func strPtr(s string) *string { return &s }

func TestToMessageText(t *testing.T) {
	backendResp := &chatCompletionResponse{
		ID: "chatcmpl-9xYzA",
		Choices: []chatChoice{{
			Message:      chatResponseMessage{Role: "assistant", Content: strPtr("Hello there")},
			FinishReason: strPtr("stop"),
		}},
		Usage: &chatUsage{PromptTokens: 12, CompletionTokens: 5, TotalTokens: 17},
	}

	msg, err := toMessage(backendResp, "gpt-test")
	require.NoError(t, err)

	require.Equal(t, "msg-9xYzA", msg.ID)
	require.Equal(t, "message", msg.Type)
	require.Equal(t, "assistant", msg.Role)
	require.Equal(t, "gpt-test", msg.Model)
	require.Equal(t, []types.ContentBlock{types.NewTextBlock("Hello there")}, msg.Content)
	require.Equal(t, types.StopReasonEndTurn, msg.StopReason)
	require.Equal(t, types.Usage{InputTokens: 12, OutputTokens: 5}, msg.Usage)
}

func TestToMessageToolCalls(t *testing.T) {
	backendResp := &chatCompletionResponse{
		ID: "chatcmpl-1",
		Choices: []chatChoice{{
			Message: chatResponseMessage{
				Role:    "assistant",
				Content: strPtr(""),
				ToolCalls: []chatToolCall{{
					ID:   "call_abc",
					Type: "function",
					Function: chatToolFunction{
						Name:      "get_weather",
						Arguments: `{"city":"Berlin"}`,
					},
				}},
			},
			FinishReason: strPtr("tool_calls"),
		}},
	}

	msg, err := toMessage(backendResp, "gpt-test")
	require.NoError(t, err)

	require.Equal(t, types.StopReasonToolUse, msg.StopReason)
	require.Len(t, msg.Content, 1)
	require.Equal(t, types.BlockTypeToolUse, msg.Content[0].Type)
	require.Equal(t, "call_abc", msg.Content[0].ID)
	require.Equal(t, "get_weather", msg.Content[0].Name)
	require.JSONEq(t, `{"city":"Berlin"}`, string(msg.Content[0].Input))
}

func TestToMessageToolCallWithoutID(t *testing.T) {
	backendResp := &chatCompletionResponse{
		Choices: []chatChoice{{
			Message: chatResponseMessage{
				ToolCalls: []chatToolCall{{Function: chatToolFunction{Name: "noop"}}},
			},
		}},
	}

	msg, err := toMessage(backendResp, "gpt-test")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(msg.Content[0].ID, "toolu_"))
}

func TestToMessageInvalidToolArguments(t *testing.T) {
	backendResp := &chatCompletionResponse{
		Choices: []chatChoice{{
			Message: chatResponseMessage{
				ToolCalls: []chatToolCall{{
					ID:       "call_1",
					Function: chatToolFunction{Name: "f", Arguments: `{"truncated":`},
				}},
			},
		}},
	}

	msg, err := toMessage(backendResp, "gpt-test")
	require.NoError(t, err)
	require.JSONEq(t, `{}`, string(msg.Content[0].Input))
}

func TestToMessageNoChoices(t *testing.T) {
	_, err := toMessage(&chatCompletionResponse{}, "gpt-test")
	require.Error(t, err)
}

func TestToMessageEmptyContent(t *testing.T) {
	msg, err := toMessage(&chatCompletionResponse{
		Choices: []chatChoice{{Message: chatResponseMessage{Content: strPtr("")}}},
	}, "gpt-test")
	require.NoError(t, err)
	require.NotNil(t, msg.Content)
	require.Empty(t, msg.Content)
	require.True(t, strings.HasPrefix(msg.ID, "msg_"))
}

func TestToStopReason(t *testing.T) {
	tests := []struct {
		finishReason string
		want         types.StopReason
	}{
		{"stop", types.StopReasonEndTurn},
		{"length", types.StopReasonMaxTokens},
		{"tool_calls", types.StopReasonToolUse},
		{"function_call", types.StopReasonToolUse},
		{"content_filter", types.StopReasonEndTurn},
		{"", types.StopReasonEndTurn},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, toStopReason(tt.finishReason), "finish_reason %q", tt.finishReason)
	}
}

func TestToUsage(t *testing.T) {
	require.Equal(t, types.Usage{}, toUsage(nil))
	require.Equal(t,
		types.Usage{InputTokens: 7, OutputTokens: 3},
		toUsage(&chatUsage{PromptTokens: 7, CompletionTokens: 3, TotalTokens: 10}),
	)
}

func TestMessageIDFromBackend(t *testing.T) {
	require.Equal(t, "msg-123", messageIDFromBackend("chatcmpl-123"))
	require.Equal(t, "resp-456", messageIDFromBackend("resp-456"))

	generated := messageIDFromBackend("")
	require.True(t, strings.HasPrefix(generated, "msg_"))
	require.Len(t, generated, len("msg_")+24)
	require.NotEqual(t, generated, messageIDFromBackend(""))
}
