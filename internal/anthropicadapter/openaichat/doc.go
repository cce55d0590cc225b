// Package openaichat adapts Anthropic Messages requests to an OpenAI
// Chat Completions compatible backend, enabling Anthropic SDK clients to work
// with any such backend without code changes.
//
// The adapter handles:
//
//   - Model routing: a request-level thinking flag selects between a
//     reasoning-oriented and a standard backend model, with configured
//     fallback precedence (reasoning/completion → model → built-in default).
//
//   - Message transformation: the Anthropic system field becomes a leading
//     system message; tool_use blocks become assistant tool_calls entries with
//     JSON-string arguments; tool_result blocks become messages with role
//     tool carrying the originating tool_call_id.
//
//   - Tool schemas: input_schema passes through as the function parameters
//     object, after scrubbing "format": "uri" annotations that some backends
//     reject.
//
//   - Streaming: reconstructs Anthropic's block-oriented event protocol from
//     OpenAI's flat delta chunks with a per-stream state machine (open block
//     index and kind, first-seen index assignment, argument fragments
//     forwarded raw). A backend stream that drops without a terminal chunk is
//     recovered locally by synthesizing the closing event sequence.
//
// # Adapters
//
// CreateMessageAdapter: Anthropic CreateMessage → OpenAI Chat Completions
package openaichat
