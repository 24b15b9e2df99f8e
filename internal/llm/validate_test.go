package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-item",
		Description: "A test item",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"prompt_latex":  map[string]any{"type": "string"},
				"correct_index": map[string]any{"type": "integer", "minimum": 0},
				"format":        map[string]any{"type": "string", "enum": []any{"MC", "SPR"}},
			},
			"required": []any{"prompt_latex", "correct_index"},
		},
	}
}

func TestFinishContent(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"valid", `{"prompt_latex":"x=2","correct_index":1,"format":"MC"}`, `{"prompt_latex":"x=2","correct_index":1,"format":"MC"}`, false},
		{"optional omitted", `{"prompt_latex":"x","correct_index":0}`, `{"prompt_latex":"x","correct_index":0}`, false},
		{"fenced", "```json\n{\"prompt_latex\":\"x\",\"correct_index\":0}\n```", `{"prompt_latex":"x","correct_index":0}`, false},
		{"unescaped latex", `{"prompt_latex":"\frac{1}{2} + \sqrt{4}","correct_index":0}`, `{"prompt_latex":"\\frac{1}{2} + \\sqrt{4}","correct_index":0}`, false},
		{"missing required", `{"prompt_latex":"x"}`, "", true},
		{"wrong type", `{"prompt_latex":"x","correct_index":"one"}`, "", true},
		{"bad enum", `{"prompt_latex":"x","correct_index":0,"format":"essay"}`, "", true},
		{"malformed", `{not json}`, "", true},
		{"empty", ``, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := finishContent(testSchema(), []byte(tt.raw))
			if tt.wantErr {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("finishContent(%q) error = %v, want *ErrInvalidResponse", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("finishContent(%q): %v", tt.raw, err)
			}
			if string(got) != tt.want {
				t.Errorf("finishContent(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFinishContent_NilSchemaPassesThrough(t *testing.T) {
	got, err := finishContent(nil, []byte("plain text"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "plain text" {
		t.Errorf("got %q", got)
	}
}

func TestFinishContent_NestedArrays(t *testing.T) {
	schema := &Schema{
		Name: "test-nested",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"choices": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 4,
					"maxItems": 4,
				},
			},
			"required": []any{"choices"},
		},
	}
	if _, err := finishContent(schema, []byte(`{"choices":["1","2","3","4"]}`)); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	if _, err := finishContent(schema, []byte(`{"choices":["1","2","3"]}`)); err == nil {
		t.Fatal("expected error for three choices")
	}
}

func TestRepairEscapes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"p":"\frac{1}{2}"}`, `{"p":"\\frac{1}{2}"}`},
		{`{"p":"\sqrt{2}"}`, `{"p":"\\sqrt{2}"}`},
		{`{"p":"x \neq 2"}`, `{"p":"x \\neq 2"}`},
		{`{"p":"3 \times 4"}`, `{"p":"3 \\times 4"}`},
		{`{"p":"\left( x \right)"}`, `{"p":"\\left( x \\right)"}`},
		{`{"p":"a\nb"}`, `{"p":"a\nb"}`},
		{`{"p":"line\n2"}`, `{"p":"line\n2"}`},
		{`{"p":"\\frac{1}{2}"}`, `{"p":"\\frac{1}{2}"}`},
		{`{"p":"say \"hi\""}`, `{"p":"say \"hi\""}`},
		{`{"p":"café"}`, `{"p":"café"}`},
		{`{"p":"\underline{x}"}`, `{"p":"\\underline{x}"}`},
		{`{"p":"\(x\)"}`, `{"p":"\\(x\\)"}`},
		{`{"n": 1, "q": [true]}`, `{"n": 1, "q": [true]}`},
	}
	for _, tt := range tests {
		got := string(RepairEscapes([]byte(tt.in)))
		if got != tt.want {
			t.Errorf("RepairEscapes(%s) = %s, want %s", tt.in, got, tt.want)
		}
		var v any
		if err := json.Unmarshal([]byte(got), &v); err != nil {
			t.Errorf("RepairEscapes(%s) produced invalid JSON: %v", tt.in, err)
		}
	}
}
