package proxy

import (
	"net/http"

	"github.com/florianilch/odette-proxy/internal/anthropicadapter/openaichat"
)

// modelList is the Anthropic-shaped models listing.
type modelList struct {
	Data    []modelInfo `json:"data"`
	HasMore bool        `json:"has_more"`
	FirstID *string     `json:"first_id"`
	LastID  *string     `json:"last_id"`
}

type modelInfo struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// modelsHandler lists the backend models the router can resolve to, in
// routing precedence order and without duplicates. Clients use this to
// discover what a request may be served by; the proxy has no model catalog of
// its own.
func modelsHandler(router openaichat.ModelRouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var models []modelInfo
		seen := make(map[string]bool)
		for _, id := range []string{router.ReasoningModel, router.CompletionModel, router.Model, router.Default} {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			models = append(models, modelInfo{Type: "model", ID: id, DisplayName: id})
		}

		list := modelList{Data: models, HasMore: false}
		if len(models) > 0 {
			list.FirstID = &models[0].ID
			list.LastID = &models[len(models)-1].ID
		}
		if list.Data == nil {
			list.Data = []modelInfo{}
		}

		writeJSON(w, http.StatusOK, list)
	}
}
