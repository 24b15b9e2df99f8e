package llm

import (
	"context"
	"net/http"
	"testing"
)

func TestNewOpenRouterProvider(t *testing.T) {
	tests := []struct {
		name      string
		cfg       OpenRouterConfig
		wantErr   bool
		wantModel string
	}{
		{"vendor model", OpenRouterConfig{APIKey: "sk-or", Model: "google/gemini-2.0-flash"}, false, "google/gemini-2.0-flash"},
		{"passes IDs through", OpenRouterConfig{APIKey: "sk-or", Model: "claude-haiku"}, false, "claude-haiku"},
		{"custom base URL", OpenRouterConfig{APIKey: "sk-or", Model: "m", BaseURL: "https://proxy.example/v1"}, false, "m"},
		{"missing key", OpenRouterConfig{Model: "m"}, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOpenRouterProvider(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewOpenRouterProvider() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && p.ModelID() != tt.wantModel {
				t.Errorf("ModelID() = %q, want %q", p.ModelID(), tt.wantModel)
			}
		})
	}
}

func TestOpenRouterProvider_SendsAttribution(t *testing.T) {
	url, _, header := chatServer(t, http.StatusOK, chatCompletion("ok", "stop", nil))
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "google/gemini-2.0-flash", BaseURL: url})
	if err != nil {
		t.Fatalf("NewOpenRouterProvider: %v", err)
	}
	if _, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}, MaxTokens: 10}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := header.Get("X-Title"); got != "satmath" {
		t.Errorf("X-Title = %q, want satmath", got)
	}
	if got := header.Get("Authorization"); got != "Bearer sk-or" {
		t.Errorf("Authorization = %q", got)
	}
}
