package openaichat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/florianilch/odette-proxy/internal/anthropicadapter"
)

// CreateMessageAdapter translates Anthropic CreateMessage requests into calls
// against an OpenAI Chat Completions compatible backend. It is stateless
// across requests; per-stream translation state lives in streamState.
type CreateMessageAdapter struct {
	baseURL  string
	router   ModelRouter
	validate *validator.Validate
}

// Compile-time check that the adapter satisfies the operation contract.
var _ anthropicadapter.CreateMessageAdapter = (*CreateMessageAdapter)(nil)

// NewCreateMessageAdapter creates an adapter for the given backend base URL
// (the path prefix in front of /chat/completions) and routing table.
func NewCreateMessageAdapter(baseURL string, router ModelRouter) *CreateMessageAdapter {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// Report wire field names, not Go field names, in validation messages.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &CreateMessageAdapter{
		baseURL:  baseURL,
		router:   router,
		validate: validate,
	}
}

// ProcessRequest implements the non-streaming path: validate, route, translate,
// call the backend once, and translate the complete response.
func (a *CreateMessageAdapter) ProcessRequest(
	ctx context.Context,
	clientReq anthropicadapter.CreateMessageRequest,
	transport http.RoundTripper,
) (*anthropicadapter.MessageResponse, error) {
	model, backendReq, err := a.prepare(clientReq)
	if err != nil {
		return nil, err
	}

	resp, err := doChatCompletion(ctx, transport, a.baseURL, backendReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var backendResp chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&backendResp); err != nil {
		return nil, fmt.Errorf("decode backend response: %w", err)
	}

	return toMessage(&backendResp, model)
}

// ProcessStreamingRequest implements the streaming path: the returned iterator
// yields translated events as backend chunks arrive, without waiting for
// stream completion.
func (a *CreateMessageAdapter) ProcessStreamingRequest(
	ctx context.Context,
	clientReq anthropicadapter.CreateMessageRequest,
	transport http.RoundTripper,
) (iter.Seq2[anthropicadapter.MessageStreamEvent, error], error) {
	model, backendReq, err := a.prepare(clientReq)
	if err != nil {
		return nil, err
	}
	backendReq.Stream = true
	// Ask compatible backends for final token accounting on the stream;
	// absent usage degrades to zeros.
	backendReq.StreamOptions = &streamOptions{IncludeUsage: true}

	resp, err := doChatCompletion(ctx, transport, a.baseURL, backendReq)
	if err != nil {
		return nil, err
	}

	return streamEvents(ctx, resp, model), nil
}

// prepare runs the request-side pipeline shared by both paths: structural
// validation, model routing, then body translation. Everything here happens
// before any backend call, so validation and routing failures never leave a
// half-translated state.
func (a *CreateMessageAdapter) prepare(
	clientReq anthropicadapter.CreateMessageRequest,
) (string, *chatCompletionRequest, error) {
	if err := a.validate.Struct(&clientReq); err != nil {
		return "", nil, newValidationError(validationMessage(err))
	}

	model, err := a.router.Resolve(clientReq.ThinkingEnabled())
	if err != nil {
		return "", nil, err
	}

	backendReq, err := buildChatCompletionRequest(clientReq, model)
	if err != nil {
		return "", nil, err
	}
	return model, backendReq, nil
}

// validationMessage flattens validator errors into a single client-facing
// message listing the offending wire fields.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err.Error()
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		problems = append(problems, fmt.Sprintf("%s: failed %q constraint", fieldErr.Namespace(), fieldErr.Tag()))
	}
	return "invalid request: " + strings.Join(problems, "; ")
}
