package openaichat

import (
	"bufio"
	"context"
	"encoding/json"
	"iter"
	"log/slog"
	"net/http"
	"strings"

	"github.com/florianilch/odette-proxy/internal/anthropicadapter/types"
)

const (
	// doneSentinel terminates an OpenAI SSE stream.
	doneSentinel = "[DONE]"

	// maxScanTokenBytes bounds a single backend SSE line.
	maxScanTokenBytes = 1024 * 1024
)

// streamEvents translates the backend's SSE chunk stream into Anthropic
// stream events as a pull iterator. The iterator reads one backend line per
// consumed event batch, so a slow client suspends the backend read
// (backpressure) instead of buffering the stream. Cancelling ctx stops
// iteration; closing the response body aborts the backend request.
func streamEvents(ctx context.Context, resp *http.Response, model string) iter.Seq2[types.StreamEvent, error] {
	return func(yield func(types.StreamEvent, error) bool) {
		defer func() { _ = resp.Body.Close() }()

		state := newStreamState(model)
		emit := func(events []types.StreamEvent) bool {
			for _, event := range events {
				if !yield(event, nil) {
					return false
				}
			}
			return true
		}

		if !emit(state.start()) {
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), maxScanTokenBytes)

		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}

			data, ok := strings.CutPrefix(scanner.Text(), "data:")
			if !ok {
				continue
			}
			data = strings.TrimSpace(data)
			if data == "" {
				continue
			}
			if data == doneSentinel {
				break
			}

			var chunk chatCompletionChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				slog.DebugContext(ctx, "skipping unparseable backend chunk", "error", err)
				continue
			}

			if !emit(state.apply(&chunk)) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			if ctx.Err() != nil {
				return
			}
			// Backend dropped without a terminal chunk. Recover locally by
			// synthesizing the closing sequence so the client's event-nesting
			// invariant holds; the cause stays server-side.
			slog.WarnContext(ctx, "backend stream ended abnormally", "error", err)
		}

		emit(state.finish())
	}
}

type blockKind int

const (
	blockNone blockKind = iota
	blockText
	blockTool
)

// streamState reconstructs Anthropic's block-oriented event protocol from
// OpenAI's flat delta chunks. It tracks the currently open block, assigns
// block indices in first-seen order (never reused), and maps backend
// tool-call indices to assigned block indices. One instance serves exactly
// one response stream and is discarded at stream end.
type streamState struct {
	messageID string
	model     string

	started   bool
	done      bool
	nextIndex int
	openIndex int
	openKind  blockKind

	// toolBlocks maps a backend tool_calls index to its assigned content
	// block index; toolNames remembers each call's function name in case a
	// displaced call resumes and needs a fresh block.
	toolBlocks map[int]int
	toolNames  map[int]string

	finishReason string
	usage        *chatUsage
}

func newStreamState(model string) *streamState {
	return &streamState{
		messageID:  newMessageID(),
		model:      model,
		openIndex:  -1,
		toolBlocks: make(map[int]int),
		toolNames:  make(map[int]string),
	}
}

// start opens the event sequence with message_start (placeholder usage) and
// a ping, exactly once.
func (s *streamState) start() []types.StreamEvent {
	if s.started {
		return nil
	}
	s.started = true
	return []types.StreamEvent{
		types.NewMessageStartEvent(s.messageID, s.model),
		types.PingEvent{Type: types.EventTypePing},
	}
}

// apply translates one backend chunk into zero or more events, in arrival
// order. Tool argument fragments are forwarded raw and never parsed
// mid-stream.
func (s *streamState) apply(chunk *chatCompletionChunk) []types.StreamEvent {
	if s.done {
		return nil
	}

	var events []types.StreamEvent

	if chunk.Usage != nil {
		s.usage = chunk.Usage
	}
	if len(chunk.Choices) == 0 {
		return events
	}
	choice := chunk.Choices[0]

	if content := choice.Delta.Content; content != nil && *content != "" {
		if s.openKind != blockText {
			events = append(events, s.closeOpenBlock()...)
			events = append(events, types.ContentBlockStartEvent{
				Type:         types.EventTypeContentBlockStart,
				Index:        s.nextIndex,
				ContentBlock: types.NewTextBlock(""),
			})
			s.openKind = blockText
			s.openIndex = s.nextIndex
			s.nextIndex++
		}
		events = append(events, types.ContentBlockDeltaEvent{
			Type:  types.EventTypeContentBlockDelta,
			Index: s.openIndex,
			Delta: types.NewTextDelta(*content),
		})
	}

	for _, toolCall := range choice.Delta.ToolCalls {
		backendIndex := 0
		if toolCall.Index != nil {
			backendIndex = *toolCall.Index
		}

		blockIndex, known := s.toolBlocks[backendIndex]
		if !known || s.openKind != blockTool || s.openIndex != blockIndex {
			// First sight of this call, or it resumes after another block
			// displaced it. Either way a new block opens: indices are never
			// reused and a closed block never reopens.
			events = append(events, s.closeOpenBlock()...)

			id := toolCall.ID
			if id == "" {
				id = newToolUseID()
			}
			name := toolCall.Function.Name
			if name == "" {
				name = s.toolNames[backendIndex]
			}

			blockIndex = s.nextIndex
			s.nextIndex++
			s.toolBlocks[backendIndex] = blockIndex
			s.toolNames[backendIndex] = name
			s.openKind = blockTool
			s.openIndex = blockIndex

			events = append(events, types.ContentBlockStartEvent{
				Type:         types.EventTypeContentBlockStart,
				Index:        blockIndex,
				ContentBlock: types.NewToolUseBlock(id, name, nil),
			})
		}

		if fragment := toolCall.Function.Arguments; fragment != "" {
			events = append(events, types.ContentBlockDeltaEvent{
				Type:  types.EventTypeContentBlockDelta,
				Index: blockIndex,
				Delta: types.NewInputJSONDelta(fragment),
			})
		}
	}

	if choice.FinishReason != nil && *choice.FinishReason != "" {
		// Terminal emission waits for [DONE] or stream end: with
		// include_usage the final accounting arrives after the finish chunk.
		s.finishReason = *choice.FinishReason
	}

	return events
}

// closeOpenBlock emits content_block_stop for the open block, if any.
func (s *streamState) closeOpenBlock() []types.StreamEvent {
	if s.openKind == blockNone {
		return nil
	}
	event := types.ContentBlockStopEvent{
		Type:  types.EventTypeContentBlockStop,
		Index: s.openIndex,
	}
	s.openKind = blockNone
	s.openIndex = -1
	return []types.StreamEvent{event}
}

// finish terminates the event sequence: close any open block, then emit the
// message_delta/message_stop pair. Idempotent, and valid even when the
// backend produced no chunks at all (the opening events are synthesized
// first so the sequence stays well-formed).
func (s *streamState) finish() []types.StreamEvent {
	if s.done {
		return nil
	}
	s.done = true

	events := s.start()
	events = append(events, s.closeOpenBlock()...)

	var outputTokens int64
	if s.usage != nil {
		outputTokens = s.usage.CompletionTokens
	}
	events = append(events,
		types.MessageDeltaEvent{
			Type:  types.EventTypeMessageDelta,
			Delta: types.MessageDelta{StopReason: toStopReason(s.finishReason)},
			Usage: types.MessageDeltaUsage{OutputTokens: outputTokens},
		},
		types.MessageStopEvent{Type: types.EventTypeMessageStop},
	)
	return events
}
