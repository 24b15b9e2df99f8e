// Package elaboration writes tutoring explanations for practice items and
// falls back to the skill's stock explanation when the model output is
// missing or rejected.
package elaboration

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/piepengu/satmath/internal/guardrail"
	"github.com/piepengu/satmath/internal/llm"
	"github.com/piepengu/satmath/internal/logger"
	"github.com/piepengu/satmath/internal/observability"
	"github.com/piepengu/satmath/internal/skills"
)

// Sources of an elaboration.
const (
	SourceAI       = "ai"
	SourceTemplate = "template"
)

// Input identifies the item to explain.
type Input struct {
	Domain     skills.Domain
	Skill      skills.ID
	Prompt     string
	Answer     string
	UserAnswer string
	Steps      []string
}

// Result is an elaboration and where it came from. Reasons and Flags are
// set when model output was rejected.
type Result struct {
	Source      string                `json:"source"`
	Elaboration guardrail.Elaboration `json:"elaboration"`
	Reasons     []string              `json:"reasons,omitempty"`
	Flags       map[string]bool       `json:"flags,omitempty"`
}

// Service generates elaborations. Elaborate is synchronous; Request and
// Consume run one generation in the background for interactive callers.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *logger.Logger
	metrics  *observability.Metrics

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	pending *Result
	ready   bool
}

// NewService creates a service. A nil provider always serves the stock
// explanation.
func NewService(p llm.Provider, cfg Config, log *logger.Logger, m *observability.Metrics) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if m == nil {
		m = observability.Default()
	}
	return &Service{provider: p, cfg: cfg, log: log.With("component", "elaboration"), metrics: m}
}

// Elaborate explains the item. It never fails: provider errors, unreadable
// output and guardrail rejections all yield the stock explanation.
func (s *Service) Elaborate(ctx context.Context, in Input) *Result {
	sk, err := skills.Get(skills.BaseOf(in.Skill))
	if err != nil {
		sk, _ = skills.Get(skills.LinearEquation)
	}
	if s.provider == nil {
		return s.fallback(ctx, sk, in, "ai_unavailable", nil)
	}

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, llm.PurposeElaboration), llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(in, sk)}},
		Schema:      Schema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		s.log.Warn("elaboration_provider_fallback", "skill", sk.ID, "cause", llm.Kind(err), "error", err)
		return s.fallback(ctx, sk, in, "provider_"+llm.Kind(err), nil)
	}

	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(resp.Content))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil || payload == nil {
		s.log.Warn("elaboration_json_fallback", "skill", sk.ID, "error", err)
		return s.fallback(ctx, sk, in, "decode", nil)
	}

	out := guardrail.ValidateElaboration(payload)
	s.metrics.Guardrail(ctx, "elaboration", out.Valid, out.Reasons)
	if !out.Valid {
		s.log.Warn("elaboration_validation_fallback", "skill", sk.ID, "reasons", out.Reasons, "flags", out.Flags)
		return s.fallback(ctx, sk, in, "validation", &out)
	}

	// Blank fields keep the stock text.
	e := out.Elaboration
	stock := stockElaboration(sk, in.Steps)
	if e.Concept == "" {
		e.Concept = stock.Concept
	}
	if e.Plan == "" {
		e.Plan = stock.Plan
	}
	if e.QuickCheck == "" {
		e.QuickCheck = stock.QuickCheck
	}
	if e.CommonMistake == "" {
		e.CommonMistake = stock.CommonMistake
	}
	if len(e.Walkthrough) == 0 {
		e.Walkthrough = stock.Walkthrough
	}
	return &Result{Source: SourceAI, Elaboration: e, Flags: out.Flags}
}

// Request starts Elaborate in the background. It supersedes any earlier
// request: an unconsumed result is discarded and a running one is
// cancelled and never delivered.
func (s *Service) Request(ctx context.Context, in Input) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	g := s.supersede()
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer cancel()
		res := s.Elaborate(ctx, in)
		s.mu.Lock()
		defer s.mu.Unlock()
		if g != s.gen {
			return
		}
		s.pending = res
		s.ready = true
	}()
}

// Cancel drops the outstanding request, if any.
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.supersede()
	s.cancel = nil
}

// supersede invalidates the current generation. Callers hold mu.
func (s *Service) supersede() uint64 {
	s.gen++
	if s.cancel != nil {
		s.cancel()
	}
	s.pending = nil
	s.ready = false
	return s.gen
}

// Consume returns the background result once it is ready and clears it.
func (s *Service) Consume() (*Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, false
	}
	res := s.pending
	s.pending = nil
	s.ready = false
	return res, true
}

func (s *Service) fallback(ctx context.Context, sk skills.Skill, in Input, cause string, rejected *guardrail.ElaborationOutcome) *Result {
	s.metrics.Fallback(ctx, "elaboration", cause)
	res := &Result{Source: SourceTemplate, Elaboration: stockElaboration(sk, in.Steps)}
	if rejected != nil {
		res.Reasons = rejected.Reasons
		res.Flags = rejected.Flags
	}
	return res
}

// stockElaboration is the skill's explanation card with the item's own
// worked steps as the walkthrough.
func stockElaboration(sk skills.Skill, steps []string) guardrail.Elaboration {
	walk := make([]string, 0, min(len(steps), guardrail.MaxWalkthroughSteps))
	for _, st := range steps {
		if len(walk) == guardrail.MaxWalkthroughSteps {
			break
		}
		walk = append(walk, st)
	}
	return guardrail.Elaboration{
		Concept:       sk.Explanation.Concept,
		Plan:          sk.Explanation.Plan,
		Walkthrough:   walk,
		QuickCheck:    sk.Explanation.QuickCheck,
		CommonMistake: sk.Explanation.CommonMistake,
	}
}
