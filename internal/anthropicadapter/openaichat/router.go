package openaichat

import "github.com/florianilch/odette-proxy/internal/anthropicadapter/types"

// DefaultModel is the built-in routing fallback used when no model is
// configured at any precedence level.
const DefaultModel = "my-model"

// ModelRouter resolves the backend model for a request. Fields map to the
// MODEL, REASONING_MODEL and COMPLETION_MODEL configuration inputs.
//
// Precedence: a thinking request takes ReasoningModel when set; a
// non-thinking request takes CompletionModel when set; either falls through
// to Model and then Default when its dedicated slot is empty. ReasoningModel
// being unset never diverts a thinking request to CompletionModel — the two
// dedicated slots are independent.
type ModelRouter struct {
	Model           string
	ReasoningModel  string
	CompletionModel string
	Default         string
}

// Resolve returns the backend model for a request. A RoutingError is only
// possible when every level including Default is empty, which does not occur
// when the router is built from configuration defaults.
func (r ModelRouter) Resolve(thinking bool) (string, error) {
	if thinking && r.ReasoningModel != "" {
		return r.ReasoningModel, nil
	}
	if !thinking && r.CompletionModel != "" {
		return r.CompletionModel, nil
	}
	if r.Model != "" {
		return r.Model, nil
	}
	if r.Default != "" {
		return r.Default, nil
	}
	return "", newRoutingError()
}

// newRoutingError reports an unresolvable model as a configuration fault.
func newRoutingError() *types.ErrorResponse {
	return types.NewErrorResponse(types.ErrorTypeAPI,
		"no backend model configured: set MODEL, REASONING_MODEL or COMPLETION_MODEL")
}
