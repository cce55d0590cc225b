package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Content block discriminators accepted on inbound requests.
const (
	BlockTypeText             = "text"
	BlockTypeToolUse          = "tool_use"
	BlockTypeToolResult       = "tool_result"
	BlockTypeThinking         = "thinking"
	BlockTypeRedactedThinking = "redacted_thinking"
)

// CreateMessageRequest is the inbound Anthropic Messages API request body.
// The model field is a routing input only; the proxy resolves the actual
// backend model from its routing configuration.
type CreateMessageRequest struct {
	Model         string          `json:"model"`
	MaxTokens     *int64          `json:"max_tokens" validate:"required,gt=0"`
	Messages      []MessageParam  `json:"messages" validate:"required,min=1,dive"`
	System        *SystemPrompt   `json:"system,omitempty"`
	Tools         []ToolParam     `json:"tools,omitempty" validate:"dive"`
	Thinking      *ThinkingConfig `json:"thinking,omitempty"`
	Temperature   *float64        `json:"temperature,omitempty"`
	TopP          *float64        `json:"top_p,omitempty"`
	StopSequences []string        `json:"stop_sequences,omitempty"`
	Stream        *bool           `json:"stream,omitempty"`
}

// IsStreaming reports whether the client requested an SSE response.
func (r *CreateMessageRequest) IsStreaming() bool {
	return r.Stream != nil && *r.Stream
}

// ThinkingEnabled reports whether the request asks for reasoning-oriented
// model routing.
func (r *CreateMessageRequest) ThinkingEnabled() bool {
	return r.Thinking.Enabled()
}

// MessageParam is a single conversation turn on the inbound request.
type MessageParam struct {
	Role    string         `json:"role" validate:"required,oneof=user assistant"`
	Content MessageContent `json:"content"`
}

// MessageContent is the polymorphic content field of a message: either a plain
// string or an ordered list of content blocks.
type MessageContent struct {
	text   string
	blocks []ContentBlockParam
	isText bool
}

// NewTextContent builds plain-string message content.
func NewTextContent(text string) MessageContent {
	return MessageContent{text: text, isText: true}
}

// NewBlocksContent builds block-structured message content.
func NewBlocksContent(blocks ...ContentBlockParam) MessageContent {
	return MessageContent{blocks: blocks}
}

// Text returns the plain-string form and whether content was a plain string.
func (c MessageContent) Text() (string, bool) {
	return c.text, c.isText
}

// Blocks returns the block form. Plain-string content is returned as a single
// text block so callers can iterate uniformly.
func (c MessageContent) Blocks() []ContentBlockParam {
	if c.isText {
		return []ContentBlockParam{{Type: BlockTypeText, Text: c.text}}
	}
	return c.blocks
}

// UnmarshalJSON accepts either a JSON string or an array of content blocks.
func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = MessageContent{text: text, isText: true}
		return nil
	}

	var blocks []ContentBlockParam
	if err := json.Unmarshal(data, &blocks); err != nil {
		return fmt.Errorf("content must be a string or an array of content blocks: %w", err)
	}
	*c = MessageContent{blocks: blocks}
	return nil
}

// MarshalJSON preserves the form the content was built with.
func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.isText {
		return json.Marshal(c.text)
	}
	if c.blocks == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.blocks)
}

// ContentBlockParam is a tagged content block variant on the inbound request.
// Type selects which of the remaining fields are meaningful.
type ContentBlockParam struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// tool_use
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   json.RawMessage `json:"content,omitempty"`

	// thinking
	Thinking  string `json:"thinking,omitempty"`
	Signature string `json:"signature,omitempty"`
}

// ResultText flattens a tool_result content payload to a plain string: a JSON
// string is returned verbatim, an array of blocks is joined on its text
// fields, anything else is passed through as raw JSON.
func (b ContentBlockParam) ResultText() string {
	if len(b.Content) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(b.Content, &text); err == nil {
		return text
	}

	var blocks []ContentBlockParam
	if err := json.Unmarshal(b.Content, &blocks); err == nil {
		parts := make([]string, 0, len(blocks))
		for _, block := range blocks {
			if block.Type == BlockTypeText {
				parts = append(parts, block.Text)
			}
		}
		return strings.Join(parts, " ")
	}

	return string(b.Content)
}

// SystemPrompt is the polymorphic system field: a plain string or an array of
// text blocks.
type SystemPrompt struct {
	text   string
	blocks []ContentBlockParam
	isText bool
}

// NewSystemPrompt builds a plain-string system prompt.
func NewSystemPrompt(text string) *SystemPrompt {
	return &SystemPrompt{text: text, isText: true}
}

// Text flattens the system prompt to a single string, joining text blocks on
// a space when the block form was used.
func (s *SystemPrompt) Text() string {
	if s == nil {
		return ""
	}
	if s.isText {
		return s.text
	}
	parts := make([]string, 0, len(s.blocks))
	for _, block := range s.blocks {
		if block.Type == BlockTypeText {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, " ")
}

// UnmarshalJSON accepts either a JSON string or an array of text blocks.
func (s *SystemPrompt) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = SystemPrompt{text: text, isText: true}
		return nil
	}

	var blocks []ContentBlockParam
	if err := json.Unmarshal(data, &blocks); err != nil {
		return fmt.Errorf("system must be a string or an array of text blocks: %w", err)
	}
	*s = SystemPrompt{blocks: blocks}
	return nil
}

// MarshalJSON preserves the form the prompt was built with.
func (s SystemPrompt) MarshalJSON() ([]byte, error) {
	if s.isText {
		return json.Marshal(s.text)
	}
	return json.Marshal(s.blocks)
}

// ToolParam is a client-declared tool schema.
type ToolParam struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema" validate:"required"`
}

// ThinkingConfig is the polymorphic thinking field. The Messages API specifies
// an object ({"type": "enabled", "budget_tokens": n}) but some clients send a
// bare boolean; both forms are accepted and reduced to an enabled flag.
type ThinkingConfig struct {
	Type         string `json:"type"`
	BudgetTokens int64  `json:"budget_tokens,omitempty"`

	enabled bool
}

// Enabled reports whether thinking was requested. Safe on a nil receiver so
// callers can pass the optional field through directly.
func (t *ThinkingConfig) Enabled() bool {
	return t != nil && t.enabled
}

// NewThinkingEnabled builds an enabled thinking configuration.
func NewThinkingEnabled(budgetTokens int64) *ThinkingConfig {
	return &ThinkingConfig{Type: "enabled", BudgetTokens: budgetTokens, enabled: true}
}

// UnmarshalJSON accepts either a boolean or the documented object form.
func (t *ThinkingConfig) UnmarshalJSON(data []byte) error {
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		*t = ThinkingConfig{enabled: flag}
		if flag {
			t.Type = "enabled"
		}
		return nil
	}

	type alias ThinkingConfig
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("thinking must be a boolean or a thinking configuration object: %w", err)
	}
	*t = ThinkingConfig(obj)
	t.enabled = t.Type == "enabled"
	return nil
}

// MarshalJSON emits the object form.
func (t ThinkingConfig) MarshalJSON() ([]byte, error) {
	type alias ThinkingConfig
	return json.Marshal(alias(t))
}
