package openaichat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/florianilch/odette-proxy/internal/anthropicadapter/types"
)

func TestModelRouterResolve(t *testing.T) {
	tests := []struct {
		name     string
		router   ModelRouter
		thinking bool
		want     string
	}{
		{
			name:     "thinking prefers reasoning model",
			router:   ModelRouter{Model: "base", ReasoningModel: "reasoner", CompletionModel: "completer", Default: DefaultModel},
			thinking: true,
			want:     "reasoner",
		},
		{
			name:     "thinking never uses completion model",
			router:   ModelRouter{CompletionModel: "completer", Default: DefaultModel},
			thinking: true,
			want:     DefaultModel,
		},
		{
			name:     "thinking falls back to base model",
			router:   ModelRouter{Model: "base", CompletionModel: "completer", Default: DefaultModel},
			thinking: true,
			want:     "base",
		},
		{
			name:     "non-thinking prefers completion model",
			router:   ModelRouter{Model: "base", ReasoningModel: "reasoner", CompletionModel: "completer", Default: DefaultModel},
			thinking: false,
			want:     "completer",
		},
		{
			name:     "non-thinking never uses reasoning model",
			router:   ModelRouter{ReasoningModel: "reasoner", Default: DefaultModel},
			thinking: false,
			want:     DefaultModel,
		},
		{
			name:     "non-thinking falls back to base model",
			router:   ModelRouter{Model: "base", ReasoningModel: "reasoner", Default: DefaultModel},
			thinking: false,
			want:     "base",
		},
		{
			name:     "base model only",
			router:   ModelRouter{Model: "base", Default: DefaultModel},
			thinking: true,
			want:     "base",
		},
		{
			name:     "default only",
			router:   ModelRouter{Default: DefaultModel},
			thinking: false,
			want:     DefaultModel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.router.Resolve(tt.thinking)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestModelRouterResolveEmpty(t *testing.T) {
	_, err := ModelRouter{}.Resolve(false)
	require.Error(t, err)

	var errResp *types.ErrorResponse
	require.ErrorAs(t, err, &errResp)
	require.Equal(t, types.ErrorTypeAPI, errResp.Err.Type)
}

// The client-supplied model name must never influence routing; it is not even
// an input to Resolve, so a full truth table over the three configured slots
// pins the precedence down.
func TestModelRouterPrecedenceTable(t *testing.T) {
	const (
		base      = "base"
		reasoner  = "reasoner"
		completer = "completer"
	)

	for _, hasModel := range []bool{false, true} {
		for _, hasReasoning := range []bool{false, true} {
			for _, hasCompletion := range []bool{false, true} {
				router := ModelRouter{Default: DefaultModel}
				if hasModel {
					router.Model = base
				}
				if hasReasoning {
					router.ReasoningModel = reasoner
				}
				if hasCompletion {
					router.CompletionModel = completer
				}

				wantThinking := DefaultModel
				if hasModel {
					wantThinking = base
				}
				if hasReasoning {
					wantThinking = reasoner
				}

				wantPlain := DefaultModel
				if hasModel {
					wantPlain = base
				}
				if hasCompletion {
					wantPlain = completer
				}

				got, err := router.Resolve(true)
				require.NoError(t, err)
				require.Equal(t, wantThinking, got)

				got, err = router.Resolve(false)
				require.NoError(t, err)
				require.Equal(t, wantPlain, got)
			}
		}
	}
}
