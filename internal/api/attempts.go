package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/piepengu/satmath/internal/adaptive"
	"github.com/piepengu/satmath/internal/store"
)

var errUserRequired = errors.New("user_id is required")

// Attempts lists a learner's newest attempts.
func (h *Handler) Attempts(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, errUserRequired)
		return
	}
	list, err := h.attempts.List(c.Request.Context(), store.ListFilter{
		UserID: userID,
		Domain: c.Query("domain"),
		Skill:  c.Query("skill"),
		Limit:  store.DefaultListLimit,
	})
	if err != nil {
		h.internal(c, "list attempts", err)
		return
	}
	if list == nil {
		list = []store.Attempt{}
	}
	respondOK(c, list)
}

// Stats returns per-skill aggregates keyed by skill, plus the breakdowns
// under "__by_difficulty" and "__by_source".
func (h *Handler) Stats(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, errUserRequired)
		return
	}
	st, err := h.attempts.Stats(c.Request.Context(), userID)
	if err != nil {
		h.internal(c, "stats", err)
		return
	}

	out := make(map[string]any, len(st.BySkill)+2)
	for skill, s := range st.BySkill {
		out[skill] = s
	}
	out["__by_difficulty"] = st.ByDifficulty
	out["__by_source"] = st.BySource
	respondOK(c, out)
}

type resetRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Domain string `json:"domain"`
	Skill  string `json:"skill"`
}

// ResetStats deletes a learner's attempts, optionally scoped.
func (h *Handler) ResetStats(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}
	n, err := h.attempts.Reset(c.Request.Context(), store.ResetFilter{UserID: req.UserID, Domain: req.Domain, Skill: req.Skill})
	if err != nil {
		h.internal(c, "reset stats", err)
		return
	}
	h.log.Info("stats_reset", "user_id", req.UserID, "domain", req.Domain, "skill", req.Skill, "deleted", n)
	respondOK(c, gin.H{"ok": true, "deleted": n})
}

type nextRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Domain string `json:"domain"`
	Skill  string `json:"skill"`
}

type nextResponse struct {
	Domain     *string             `json:"domain"`
	Skill      *string             `json:"skill"`
	Difficulty adaptive.Difficulty `json:"difficulty"`
}

// Next picks the difficulty of the learner's next item from their most
// recent attempts.
func (h *Handler) Next(c *gin.Context) {
	var req nextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}
	recent, err := h.attempts.Recent(c.Request.Context(), req.UserID, req.Domain, req.Skill, adaptive.RecentWindow)
	if err != nil {
		h.internal(c, "recent attempts", err)
		return
	}
	respondOK(c, nextResponse{
		Domain:     nullable(req.Domain),
		Skill:      nullable(req.Skill),
		Difficulty: adaptive.NextDifficulty(recent),
	})
}

type estimateRequest struct {
	Correct *int `json:"correct" binding:"required,gte=0"`
	Total   *int `json:"total" binding:"required,gt=0"`
}

// Estimate converts a practice tally into a score estimate.
func (h *Handler) Estimate(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}
	est, err := adaptive.EstimateScore(*req.Correct, *req.Total)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}
	respondOK(c, est)
}

type attemptAIRequest struct {
	UserID              string `json:"user_id"`
	Domain              string `json:"domain" binding:"required"`
	Skill               string `json:"skill" binding:"required"`
	SelectedChoiceIndex *int   `json:"selected_choice_index" binding:"required"`
	CorrectIndex        *int   `json:"correct_index" binding:"required"`
	CorrectAnswer       string `json:"correct_answer"`
	Seed                *int64 `json:"seed"`
	TimeMs              *int64 `json:"time_ms"`
	Difficulty          string `json:"difficulty"`
}

// AttemptAI records an answer to an AI item. The client supplies the key,
// so correctness is only as trustworthy as the client.
func (h *Handler) AttemptAI(c *gin.Context) {
	var req attemptAIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}
	correct := *req.SelectedChoiceIndex == *req.CorrectIndex
	seed := int64(-1)
	if req.Seed != nil {
		seed = *req.Seed
	}
	h.metrics.Grade(c.Request.Context(), req.Skill, store.SourceAI, correct)

	_, err := h.attempts.Record(c.Request.Context(), store.Attempt{
		UserID:        req.UserID,
		Domain:        req.Domain,
		Skill:         req.Skill,
		Seed:          seed,
		Correct:       correct,
		CorrectAnswer: req.CorrectAnswer,
		Source:        store.SourceAI,
		TimeMs:        req.TimeMs,
		Difficulty:    req.Difficulty,
	})
	if err != nil {
		h.internal(c, "record attempt", err)
		return
	}
	respondOK(c, gin.H{"ok": true, "correct": correct})
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
