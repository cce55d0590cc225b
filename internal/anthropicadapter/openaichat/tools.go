package openaichat

import "github.com/florianilch/odette-proxy/internal/anthropicadapter/types"

// fromToolParams transforms the Anthropic tools array into OpenAI function
// tools. Schemas are assumed JSON-Schema compatible and pass through verbatim
// apart from the format scrub; only required-field presence is checked (by
// request validation).
func fromToolParams(tools []types.ToolParam) ([]chatTool, error) {
	if len(tools) == 0 {
		return nil, nil
	}

	backendTools := make([]chatTool, 0, len(tools))
	for _, tool := range tools {
		parameters, _ := removeURIFormat(tool.InputSchema).(map[string]any)
		backendTools = append(backendTools, chatTool{
			Type: "function",
			Function: chatFunction{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  parameters,
			},
		})
	}
	return backendTools, nil
}

// removeURIFormat recursively strips `"format": "uri"` from string-typed
// schema nodes. Several Chat Completions backends reject the uri format
// annotation even though it is valid JSON Schema; the constraint is advisory,
// so dropping it is lossless for tool dispatch.
func removeURIFormat(schema any) any {
	switch node := schema.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		isURIString := node["type"] == "string" && node["format"] == "uri"
		for key, value := range node {
			if isURIString && key == "format" {
				continue
			}
			out[key] = removeURIFormat(value)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, item := range node {
			out[i] = removeURIFormat(item)
		}
		return out
	default:
		return schema
	}
}
