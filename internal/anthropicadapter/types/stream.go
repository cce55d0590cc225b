package types

// StreamEvent is one event of the Anthropic Messages streaming protocol.
// EventType returns the SSE event name, which doubles as the discriminator
// carried in each payload's type field.
type StreamEvent interface {
	EventType() string
}

// Stream event names as defined by the Messages API.
const (
	EventTypeMessageStart      = "message_start"
	EventTypeContentBlockStart = "content_block_start"
	EventTypeContentBlockDelta = "content_block_delta"
	EventTypeContentBlockStop  = "content_block_stop"
	EventTypeMessageDelta      = "message_delta"
	EventTypeMessageStop       = "message_stop"
	EventTypePing              = "ping"
	EventTypeError             = "error"
)

// MessageStartEvent opens a streamed response. Usage carries placeholder
// zeros; the final counts arrive on the MessageDeltaEvent.
type MessageStartEvent struct {
	Type    string  `json:"type"`
	Message Message `json:"message"`
}

// NewMessageStartEvent builds the opening event for a streamed message.
func NewMessageStartEvent(id, model string) MessageStartEvent {
	return MessageStartEvent{
		Type: EventTypeMessageStart,
		Message: Message{
			ID:      id,
			Type:    "message",
			Role:    "assistant",
			Model:   model,
			Content: []ContentBlock{},
		},
	}
}

func (MessageStartEvent) EventType() string { return EventTypeMessageStart }

// ContentBlockStartEvent opens a content block at the given index.
type ContentBlockStartEvent struct {
	Type         string       `json:"type"`
	Index        int          `json:"index"`
	ContentBlock ContentBlock `json:"content_block"`
}

func (ContentBlockStartEvent) EventType() string { return EventTypeContentBlockStart }

// ContentBlockDeltaEvent carries an incremental piece of an open block.
type ContentBlockDeltaEvent struct {
	Type  string     `json:"type"`
	Index int        `json:"index"`
	Delta BlockDelta `json:"delta"`
}

func (ContentBlockDeltaEvent) EventType() string { return EventTypeContentBlockDelta }

// BlockDelta is the tagged delta payload: text_delta carries Text,
// input_json_delta carries PartialJSON (always present, possibly empty).
type BlockDelta struct {
	Type        string  `json:"type"`
	Text        string  `json:"text,omitempty"`
	PartialJSON *string `json:"partial_json,omitempty"`
}

// NewTextDelta builds a text_delta payload.
func NewTextDelta(text string) BlockDelta {
	return BlockDelta{Type: "text_delta", Text: text}
}

// NewInputJSONDelta builds an input_json_delta payload carrying a raw
// argument fragment. The fragment is forwarded as-is; it is only guaranteed
// to be valid JSON once the whole argument stream has been concatenated.
func NewInputJSONDelta(fragment string) BlockDelta {
	return BlockDelta{Type: "input_json_delta", PartialJSON: &fragment}
}

// ContentBlockStopEvent closes the content block at the given index.
type ContentBlockStopEvent struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
}

func (ContentBlockStopEvent) EventType() string { return EventTypeContentBlockStop }

// MessageDeltaEvent carries the final stop reason and usage of a stream.
type MessageDeltaEvent struct {
	Type  string            `json:"type"`
	Delta MessageDelta      `json:"delta"`
	Usage MessageDeltaUsage `json:"usage"`
}

func (MessageDeltaEvent) EventType() string { return EventTypeMessageDelta }

// MessageDelta is the terminal delta payload of a streamed message.
type MessageDelta struct {
	StopReason   StopReason `json:"stop_reason"`
	StopSequence *string    `json:"stop_sequence"`
}

// MessageDeltaUsage reports output token accounting on the terminal delta.
type MessageDeltaUsage struct {
	OutputTokens int64 `json:"output_tokens"`
}

// MessageStopEvent terminates a streamed response.
type MessageStopEvent struct {
	Type string `json:"type"`
}

func (MessageStopEvent) EventType() string { return EventTypeMessageStop }

// PingEvent is a keep-alive marker; clients ignore its payload.
type PingEvent struct {
	Type string `json:"type"`
}

func (PingEvent) EventType() string { return EventTypePing }
