// Package types provides Anthropic Messages API types for server-side
// request/response handling.
//
// The types are hand-maintained rather than borrowed from anthropic-sdk-go:
//
//  1. SERVER-SIDE vs CLIENT-SIDE: the SDK is designed for making outbound API
//     calls TO Anthropic. This proxy receives inbound requests FROM clients and
//     translates them to an OpenAI-compatible backend. The client-oriented
//     param.Opt field wrappers and RawJSON bookkeeping add complexity with no
//     benefit for server-side JSON decoding.
//
//  2. FIELD PATTERNS: standard Go pointers (*int64, *bool) distinguish absent
//     from zero and work naturally with json.NewDecoder(), which is exactly
//     what inbound validation needs.
//
//  3. UNION FIELDS: the Messages API allows a handful of polymorphic fields
//     (message content, system prompt, thinking). These are modeled as small
//     union types with custom UnmarshalJSON so the rest of the proxy can match
//     on a discriminator instead of re-inspecting raw JSON.
package types
