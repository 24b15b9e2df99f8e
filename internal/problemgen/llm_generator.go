package problemgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/piepengu/satmath/internal/guardrail"
	"github.com/piepengu/satmath/internal/llm"
	"github.com/piepengu/satmath/internal/logger"
	"github.com/piepengu/satmath/internal/observability"
	"github.com/piepengu/satmath/internal/skills"
)

// Item sources.
const (
	SourceAI       = "ai"
	SourceTemplate = "template"
)

// MaxFallbackSeed bounds the random seed of template fallbacks.
const MaxFallbackSeed = 10_000_000

// GenerateInput describes the AI item to write.
type GenerateInput struct {
	Domain     skills.Domain
	Skill      skills.ID
	Difficulty string

	// PriorPrompts are earlier prompts the model should not repeat.
	PriorPrompts []string
}

// AIItem is a multiple-choice item served by the AI endpoint. When the
// model output is unusable it is a template item instead, with Source set
// to "template" and the rejection recorded in Reasons and Flags.
type AIItem struct {
	ID           string             `json:"id"`
	Source       string             `json:"source"`
	Domain       skills.Domain      `json:"domain"`
	Skill        skills.ID          `json:"skill"`
	Difficulty   string             `json:"difficulty"`
	Prompt       string             `json:"prompt_latex"`
	Choices      []string           `json:"choices"`
	CorrectIndex int                `json:"correct_index"`
	Steps        []string           `json:"explanation_steps"`
	Hints        []string           `json:"hints,omitempty"`
	Diagram      *Diagram           `json:"diagram,omitempty"`
	Explanation  skills.Explanation `json:"explanation"`
	Seed         int64              `json:"seed"`
	Reasons      []string           `json:"reasons,omitempty"`
	Flags        map[string]bool    `json:"flags,omitempty"`
}

// LLMGenerator writes MC items with a model and guards them before use.
type LLMGenerator struct {
	provider llm.Provider
	config   AIConfig
	log      *logger.Logger
	metrics  *observability.Metrics
	tracer   trace.Tracer

	// seed draws fallback seeds.
	seed func() int64
}

// NewLLMGenerator creates a generator. A nil provider always serves the
// template fallback; nil log and metrics use no-op and global instruments.
func NewLLMGenerator(p llm.Provider, cfg AIConfig, log *logger.Logger, m *observability.Metrics) *LLMGenerator {
	if log == nil {
		log = logger.Nop()
	}
	if m == nil {
		m = observability.Default()
	}
	return &LLMGenerator{
		provider: p,
		config:   cfg,
		log:      log.With("component", "item_generator"),
		metrics:  m,
		tracer:   otel.Tracer("github.com/piepengu/satmath/internal/problemgen"),
		seed:     func() int64 { return 1 + rand.Int64N(MaxFallbackSeed) },
	}
}

// Generate returns a validated AI item, or the template fallback when the
// provider fails, its output cannot be decoded, or the guardrail rejects
// it. An unknown domain and skill pair is served as linear_equation. The
// error is non-nil only when ctx is done.
func (g *LLMGenerator) Generate(ctx context.Context, in GenerateInput) (*AIItem, error) {
	sk := resolveSkill(in.Domain, in.Skill)
	ctx, span := g.tracer.Start(ctx, "problemgen.generate_ai", trace.WithAttributes(
		attribute.String("domain", string(sk.Domain)),
		attribute.String("skill", string(sk.ID)),
	))
	defer span.End()

	if g.provider == nil {
		return g.fallback(ctx, sk, in.Difficulty, "ai_unavailable", nil)
	}

	req := llm.Request{
		System:      itemSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(in, sk, g.config)}},
		Schema:      ItemSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	resp, err := g.provider.Generate(llm.WithPurpose(ctx, llm.PurposeItemGen), req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		g.log.Warn("provider_fallback", "domain", sk.Domain, "skill", sk.ID, "cause", llm.Kind(err), "error", err)
		return g.fallback(ctx, sk, in.Difficulty, "provider_"+llm.Kind(err), nil)
	}

	payload, err := decodePayload(resp.Content)
	if err != nil {
		g.log.Warn("json_parse_fallback", "domain", sk.Domain, "skill", sk.ID, "error", err)
		return g.fallback(ctx, sk, in.Difficulty, "decode", nil)
	}

	out := guardrail.Check(string(sk.Domain), string(sk.ID), payload, g.config.Validators)
	g.metrics.Guardrail(ctx, "item", out.Valid, out.Reasons)
	span.SetAttributes(attribute.Bool("guardrail.valid", out.Valid))
	if !out.Valid {
		g.log.Warn("validation_fallback", "domain", sk.Domain, "skill", sk.ID, "reasons", out.Reasons, "flags", out.Flags)
		return g.fallback(ctx, sk, in.Difficulty, "validation", &out)
	}

	return &AIItem{
		ID:           uuid.NewString(),
		Source:       SourceAI,
		Domain:       sk.Domain,
		Skill:        sk.ID,
		Difficulty:   difficultyOrDefault(in.Difficulty),
		Prompt:       out.Item.Prompt,
		Choices:      out.Item.Choices,
		CorrectIndex: out.Item.CorrectIndex,
		Steps:        out.Item.Steps,
		Hints:        out.Item.Hints,
		Diagram:      DiagramFromMap(out.Item.Diagram),
		Explanation:  sk.Explanation,
		Seed:         -1,
		Flags:        out.Flags,
	}, nil
}

// decodePayload parses the model's JSON object, repairing raw LaTeX
// backslashes once if the first parse fails.
func decodePayload(raw []byte) (map[string]any, error) {
	payload, err := decodeObject(raw)
	if err == nil {
		return payload, nil
	}
	if fixed, ferr := decodeObject(llm.RepairEscapes(raw)); ferr == nil {
		return fixed, nil
	}
	return nil, err
}

func decodeObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, fmt.Errorf("payload is not a JSON object")
	}
	return payload, nil
}

// fallback serves the template MC variant of the skill with a fresh seed.
// rejected carries the guardrail verdict when validation caused it.
func (g *LLMGenerator) fallback(ctx context.Context, sk skills.Skill, difficulty, cause string, rejected *guardrail.Outcome) (*AIItem, error) {
	g.metrics.Fallback(ctx, "item", cause)

	seed := g.seed()
	mcID := sk.ID + skills.MCSuffix
	it, err := Generate(mcID, seed)
	if err != nil {
		return nil, fmt.Errorf("template fallback for %s: %w", mcID, err)
	}
	mc := it.(*MCItem)

	item := &AIItem{
		ID:           uuid.NewString(),
		Source:       SourceTemplate,
		Domain:       sk.Domain,
		Skill:        sk.ID,
		Difficulty:   difficultyOrDefault(difficulty),
		Prompt:       mc.Prompt,
		Choices:      mc.Choices,
		CorrectIndex: mc.CorrectIndex,
		Steps:        mc.Steps,
		Hints:        Hints(mc),
		Diagram:      mc.Diagram,
		Explanation:  sk.Explanation,
		Seed:         seed,
	}
	if rejected != nil {
		item.Reasons = rejected.Reasons
		item.Flags = rejected.Flags
	}
	return item, nil
}

// resolveSkill maps the request onto a base catalog skill. MC IDs are
// accepted; anything unknown becomes linear_equation.
func resolveSkill(domain skills.Domain, id skills.ID) skills.Skill {
	if sk, ok := skills.Lookup(domain, skills.BaseOf(id)); ok {
		return sk
	}
	sk, _ := skills.Get(skills.LinearEquation)
	return sk
}

// DiagramFromMap converts a guardrail-cleaned diagram map into a Diagram.
// It returns nil for nil input.
func DiagramFromMap(m map[string]any) *Diagram {
	if m == nil {
		return nil
	}
	d := &Diagram{}
	d.Type, _ = m["type"].(string)
	d.A, _ = m["a"].(int)
	d.B, _ = m["b"].(int)
	d.C, _ = m["c"].(int)
	d.W, _ = m["w"].(int)
	d.H, _ = m["h"].(int)
	if a, ok := m["angles"].(map[string]int); ok {
		d.Angles = &Angles{A: a["A"], B: a["B"], C: a["C"]}
	}
	if l, ok := m["labels"].(map[string]string); ok {
		d.Labels = l
	}
	return d
}
