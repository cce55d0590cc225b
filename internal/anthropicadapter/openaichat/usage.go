package openaichat

import "github.com/florianilch/odette-proxy/internal/anthropicadapter/types"

// toUsage converts backend usage metadata to Anthropic field names
// (prompt_tokens → input_tokens, completion_tokens → output_tokens).
// Absent usage yields zeros, not an error: not every OpenAI-compatible
// backend reports token accounting.
func toUsage(usage *chatUsage) types.Usage {
	if usage == nil {
		return types.Usage{}
	}
	return types.Usage{
		InputTokens:  usage.PromptTokens,
		OutputTokens: usage.CompletionTokens,
	}
}
