package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/piepengu/satmath/internal/elaboration"
	"github.com/piepengu/satmath/internal/problemgen"
	"github.com/piepengu/satmath/internal/skills"
	"github.com/piepengu/satmath/internal/store"
)

// whyCorrect is attached to every graded template response.
const whyCorrect = "It satisfies the equation."

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	respondOK(c, gin.H{"ok": true})
}

type skillOut struct {
	ID          skills.ID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Domain      skills.Domain `json:"domain"`
	DomainName  string        `json:"domain_name"`
	Format      string        `json:"format"`
	Shape       string        `json:"shape"`
}

// Skills lists every servable skill in catalog order.
func (h *Handler) Skills(c *gin.Context) {
	entries := problemgen.Entries()
	out := make([]skillOut, 0, len(entries))
	for _, e := range entries {
		format := problemgen.FormatSPR
		if e.Skill.MC {
			format = problemgen.FormatMC
		}
		out = append(out, skillOut{
			ID:          e.Skill.ID,
			Name:        e.Skill.Name,
			Description: e.Skill.Description,
			Domain:      e.Skill.Domain,
			DomainName:  skills.DomainDisplayName(e.Skill.Domain),
			Format:      string(format),
			Shape:       e.Skill.Shape.String(),
		})
	}
	respondOK(c, out)
}

type generateRequest struct {
	Domain skills.Domain `json:"domain"`
	Skill  skills.ID     `json:"skill"`
	Seed   *int64        `json:"seed"`
}

type generateResponse struct {
	Domain      skills.Domain       `json:"domain"`
	Skill       skills.ID           `json:"skill"`
	Format      problemgen.Format   `json:"format"`
	Seed        int64               `json:"seed"`
	Prompt      string              `json:"prompt_latex"`
	Choices     []string            `json:"choices,omitempty"`
	Diagram     *problemgen.Diagram `json:"diagram,omitempty"`
	Hints       []string            `json:"hints,omitempty"`
	Explanation skills.Explanation  `json:"explanation"`
}

// Generate serves a template item without its answer.
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}
	seed := h.seed()
	if req.Seed != nil {
		seed = *req.Seed
	}

	e := resolveEntry(req.Domain, req.Skill)
	it := e.Generate(seed)
	p := it.Common()

	resp := generateResponse{
		Domain:      p.Domain,
		Skill:       p.Skill,
		Format:      p.Format,
		Seed:        p.Seed,
		Prompt:      p.Prompt,
		Diagram:     p.Diagram,
		Hints:       problemgen.Hints(it),
		Explanation: e.Skill.Explanation,
	}
	if mc, ok := it.(*problemgen.MCItem); ok {
		resp.Choices = mc.Choices
	}
	respondOK(c, resp)
}

type gradeRequest struct {
	Domain              skills.Domain `json:"domain"`
	Skill               skills.ID     `json:"skill"`
	Seed                *int64        `json:"seed" binding:"required"`
	UserAnswer          string        `json:"user_answer"`
	SelectedChoiceIndex *int          `json:"selected_choice_index"`
	UserID              string        `json:"user_id"`
	TimeMs              *int64        `json:"time_ms"`
	Difficulty          string        `json:"difficulty"`
}

type gradeResponse struct {
	Correct              bool               `json:"correct"`
	CorrectAnswer        string             `json:"correct_answer"`
	Steps                []string           `json:"explanation_steps"`
	WhyCorrect           string             `json:"why_correct"`
	WhyIncorrectSelected string             `json:"why_incorrect_selected,omitempty"`
	Explanation          skills.Explanation `json:"explanation"`
}

// Grade grades a template item and records the attempt.
func (h *Handler) Grade(c *gin.Context) {
	var req gradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}

	e := resolveEntry(req.Domain, req.Skill)
	r := problemgen.Response{Text: req.UserAnswer, Choice: -1}
	if req.SelectedChoiceIndex != nil {
		r.Choice = *req.SelectedChoiceIndex
	}
	res := e.Grade(*req.Seed, r)
	h.metrics.Grade(c.Request.Context(), string(e.Skill.ID), store.SourceTemplate, res.Correct)

	_, err := h.attempts.Record(c.Request.Context(), store.Attempt{
		UserID:        req.UserID,
		Domain:        string(e.Skill.Domain),
		Skill:         string(e.Skill.ID),
		Seed:          *req.Seed,
		Correct:       res.Correct,
		CorrectAnswer: res.Answer,
		Source:        store.SourceTemplate,
		TimeMs:        req.TimeMs,
		Difficulty:    req.Difficulty,
	})
	if err != nil {
		h.internal(c, "record attempt", err)
		return
	}

	resp := gradeResponse{
		Correct:       res.Correct,
		CorrectAnswer: res.Answer,
		Steps:         res.Steps,
		WhyCorrect:    whyCorrect,
		Explanation:   e.Skill.Explanation,
	}
	if !res.Correct && e.Skill.MC {
		resp.WhyIncorrectSelected = res.WhySelected
	}
	respondOK(c, resp)
}

type elaborateRequest struct {
	Domain     skills.Domain `json:"domain"`
	Skill      skills.ID     `json:"skill"`
	Seed       *int64        `json:"seed" binding:"required"`
	UserAnswer string        `json:"user_answer"`
}

// Elaborate explains a template item.
func (h *Handler) Elaborate(c *gin.Context) {
	var req elaborateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}

	e := resolveEntry(req.Domain, req.Skill)
	p := e.Generate(*req.Seed).Common()
	res := h.elab.Elaborate(c.Request.Context(), elaboration.Input{
		Domain:     p.Domain,
		Skill:      p.Skill,
		Prompt:     p.Prompt,
		Answer:     p.Answer,
		UserAnswer: req.UserAnswer,
		Steps:      p.Steps,
	})
	respondOK(c, res)
}

type generateAIRequest struct {
	Domain     skills.Domain `json:"domain"`
	Skill      skills.ID     `json:"skill"`
	Difficulty string        `json:"difficulty"`
	UserID     string        `json:"user_id"`
}

// GenerateAI serves a guarded AI item or its template fallback. Prompts
// the learner saw recently are passed on so the model avoids repeats.
func (h *Handler) GenerateAI(c *gin.Context) {
	var req generateAIRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}
	if req.Domain == "" {
		req.Domain = skills.DomainAlgebra
	}
	if req.Skill == "" {
		req.Skill = skills.LinearEquation + skills.MCSuffix
	}

	in := problemgen.GenerateInput{Domain: req.Domain, Skill: req.Skill, Difficulty: req.Difficulty}
	if req.UserID != "" {
		in.PriorPrompts = h.priorPrompts(c, req.UserID, req.Domain, req.Skill)
	}

	item, err := h.gen.Generate(c.Request.Context(), in)
	if err != nil {
		h.internal(c, "generate ai item", err)
		return
	}
	respondOK(c, item)
}

// priorPrompts regenerates the prompts of the learner's recent template
// attempts on the skill. Lookup failures only lose the hint.
func (h *Handler) priorPrompts(c *gin.Context, userID string, domain skills.Domain, skill skills.ID) []string {
	recent, err := h.attempts.Recent(c.Request.Context(), userID, string(domain), "", problemgen.DefaultAIConfig().MaxPriorPrompts)
	if err != nil {
		h.log.Warn("prior_prompts_failed", "user_id", userID, "error", err)
		return nil
	}
	base := skills.BaseOf(skill)
	var out []string
	for _, a := range recent {
		if a.Source != store.SourceTemplate || skills.BaseOf(skills.ID(a.Skill)) != base {
			continue
		}
		if it, err := problemgen.Generate(skills.ID(a.Skill), a.Seed); err == nil {
			out = append(out, it.Common().Prompt)
		}
	}
	return out
}

// resolveEntry maps a (domain, skill) pair onto the registry. Missing
// values default to Algebra and linear_equation, and unknown pairs are
// served as linear_equation.
func resolveEntry(domain skills.Domain, id skills.ID) problemgen.Entry {
	if domain == "" {
		domain = skills.DomainAlgebra
	}
	if id == "" {
		id = skills.LinearEquation
	}
	if e, ok := problemgen.Lookup(domain, id); ok {
		return e
	}
	e, _ := problemgen.Get(skills.LinearEquation)
	return e
}

// bindOptionalJSON accepts an empty body as the zero request.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(dst)
}

func (h *Handler) internal(c *gin.Context, op string, err error) {
	_ = c.Error(err)
	h.log.Error("request_failed", "op", op, "request_id", c.GetString(ctxRequestID), "error", err)
	respondError(c, http.StatusInternalServerError, CodeInternal, fmt.Errorf("%s failed", op))
}
