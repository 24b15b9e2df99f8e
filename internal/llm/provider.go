// Package llm talks to hosted language models. Every provider returns JSON
// that has already been fence-stripped, escape-repaired and checked against
// the request schema; decorators add retry, timeout, caching and event
// logging on top.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured response per call.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the resolved model identifier, aliases already expanded.
	ModelID() string
}

// Request is a single-turn generation request.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, turns on the provider's structured output mode and
	// is enforced again on the returned content. Nil means free text.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Only zero-temperature requests are cacheable.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema document.
type Schema struct {
	// Name is sent as the OpenAI schema name and keys the compiled
	// validator cache, e.g. "sat-item".
	Name        string
	Description string
	Definition  map[string]any
}

type Response struct {
	// Content is validated JSON when the request carried a Schema, and the
	// raw model text otherwise.
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is "end" or "max_tokens".
	StopReason string

	// Cached is set when the response came from the response cache.
	Cached bool
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
