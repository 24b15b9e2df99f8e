package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piepengu/satmath/internal/llm"
	"github.com/piepengu/satmath/internal/logger"
	"github.com/piepengu/satmath/internal/problemgen"
	"github.com/piepengu/satmath/internal/skills"
	"github.com/piepengu/satmath/internal/store"
)

const testOrigin = "http://localhost:5173"

type testServer struct {
	router *gin.Engine
	store  *store.Store
}

func newTestServer(t *testing.T, p llm.Provider) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(store.DriverSQLite, fmt.Sprintf("file:api_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	var gen *problemgen.LLMGenerator
	if p != nil {
		gen = problemgen.NewLLMGenerator(p, problemgen.DefaultAIConfig(), nil, nil)
	}
	r := NewRouter(RouterConfig{
		Attempts:  st.AttemptRepo(),
		Generator: gen,
		Origins:   []string{testOrigin},
	})
	return &testServer{router: r, store: st}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func canonical(t *testing.T, id skills.ID, seed int64) problemgen.Item {
	t.Helper()
	it, err := problemgen.Generate(id, seed)
	require.NoError(t, err)
	return it
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestSkills(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodGet, "/skills", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode[[]skillOut](t, rec)
	assert.Len(t, out, len(problemgen.Entries()))
	var sawMC bool
	for _, sk := range out {
		if sk.ID == skills.LinearEquation+skills.MCSuffix {
			sawMC = true
			assert.Equal(t, "MC", sk.Format)
		}
	}
	assert.True(t, sawMC, "MC variant listed")
}

func TestGenerate(t *testing.T) {
	s := newTestServer(t, nil)
	body := map[string]any{"domain": "Advanced", "skill": "quadratic_roots", "seed": 42}

	first := s.do(t, http.MethodPost, "/generate", body)
	require.Equal(t, http.StatusOK, first.Code)
	second := s.do(t, http.MethodPost, "/generate", body)
	assert.Equal(t, first.Body.String(), second.Body.String(), "same seed, same item")

	raw := decode[map[string]any](t, first)
	assert.NotContains(t, raw, "solution", "answer must not leak")
	assert.Equal(t, "quadratic_roots", raw["skill"])
	assert.Equal(t, canonical(t, skills.QuadraticRoots, 42).Common().Prompt, raw["prompt_latex"])
	assert.NotEmpty(t, raw["hints"])
}

func TestGenerate_Defaults(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/generate", map[string]any{"domain": "Geometry", "skill": "nope", "seed": 7})
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[generateResponse](t, rec)
	assert.Equal(t, skills.LinearEquation, out.Skill)
	assert.EqualValues(t, 7, out.Seed)

	req := httptest.NewRequest(http.MethodPost, "/generate", nil)
	empty := httptest.NewRecorder()
	s.router.ServeHTTP(empty, req)
	require.Equal(t, http.StatusOK, empty.Code)
	out = decode[generateResponse](t, empty)
	assert.Equal(t, skills.DomainAlgebra, out.Domain)
	assert.GreaterOrEqual(t, out.Seed, int64(1))
	assert.LessOrEqual(t, out.Seed, int64(problemgen.MaxFallbackSeed))
}

func TestGenerate_MCHasChoices(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodPost, "/generate", map[string]any{"domain": "Algebra", "skill": "linear_equation_mc", "seed": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[map[string]any](t, rec)
	assert.Len(t, out["choices"], 4)
	assert.NotContains(t, out, "correct_index")
}

func TestGradeAndHistory(t *testing.T) {
	s := newTestServer(t, nil)
	answer := canonical(t, skills.LinearSystem2x2, 12345).Common().Answer

	rec := s.do(t, http.MethodPost, "/grade", map[string]any{
		"domain": "Algebra", "skill": "linear_system_2x2", "seed": 12345,
		"user_answer": "(" + answer + ")", "user_id": "u1", "time_ms": 4000, "difficulty": "medium",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[gradeResponse](t, rec)
	assert.True(t, res.Correct)
	assert.Equal(t, answer, res.CorrectAnswer)
	assert.Equal(t, whyCorrect, res.WhyCorrect)
	assert.NotEmpty(t, res.Steps)

	rec = s.do(t, http.MethodPost, "/grade", map[string]any{
		"domain": "Algebra", "skill": "linear_system_2x2", "seed": 12345, "user_answer": "abc", "user_id": "u1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[gradeResponse](t, rec).Correct)

	rec = s.do(t, http.MethodGet, "/attempts?user_id=u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]store.Attempt](t, rec)
	require.Len(t, list, 2)
	assert.False(t, list[0].Correct, "newest first")
	assert.Equal(t, store.SourceTemplate, list[1].Source)

	rec = s.do(t, http.MethodGet, "/stats?user_id=u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]json.RawMessage](t, rec)
	require.Contains(t, stats, "linear_system_2x2")
	require.Contains(t, stats, "__by_difficulty")
	require.Contains(t, stats, "__by_source")

	var sk store.SkillStats
	require.NoError(t, json.Unmarshal(stats["linear_system_2x2"], &sk))
	assert.Equal(t, 2, sk.Attempts)
	assert.Equal(t, 1, sk.Correct)

	var byDiff map[string]map[string]store.SkillStats
	require.NoError(t, json.Unmarshal(stats["__by_difficulty"], &byDiff))
	assert.Equal(t, 1, byDiff["linear_system_2x2"]["medium"].Attempts)
	assert.Equal(t, 1, byDiff["linear_system_2x2"]["unknown"].Attempts)
}

func TestGrade_MCWrongChoiceExplains(t *testing.T) {
	s := newTestServer(t, nil)
	mc := canonical(t, skills.LinearEquation+skills.MCSuffix, 99).(*problemgen.MCItem)
	wrong := (mc.CorrectIndex + 1) % 4

	rec := s.do(t, http.MethodPost, "/grade", map[string]any{
		"domain": "Algebra", "skill": "linear_equation_mc", "seed": 99, "user_answer": "", "selected_choice_index": wrong,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[gradeResponse](t, rec)
	assert.False(t, res.Correct)
	assert.Equal(t, mc.WhyIncorrect[wrong], res.WhyIncorrectSelected)

	rec = s.do(t, http.MethodPost, "/grade", map[string]any{
		"domain": "Algebra", "skill": "linear_equation_mc", "seed": 99, "user_answer": "",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[gradeResponse](t, rec).Correct, "no selection is wrong")
}

func TestBadRequests(t *testing.T) {
	s := newTestServer(t, nil)
	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"grade without seed", http.MethodPost, "/grade", map[string]any{"domain": "Algebra", "skill": "linear_equation"}},
		{"attempts without user", http.MethodGet, "/attempts", nil},
		{"stats without user", http.MethodGet, "/stats", nil},
		{"reset without user", http.MethodPost, "/reset_stats", map[string]any{}},
		{"next without user", http.MethodPost, "/next", map[string]any{}},
		{"estimate zero total", http.MethodPost, "/estimate", map[string]any{"correct": 0, "total": 0}},
		{"estimate negative correct", http.MethodPost, "/estimate", map[string]any{"correct": -1, "total": 3}},
		{"attempt_ai without index", http.MethodPost, "/attempt_ai", map[string]any{"domain": "Algebra", "skill": "x", "correct_index": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			env := decode[ErrorEnvelope](t, rec)
			assert.Equal(t, CodeInvalidRequest, env.Error.Code)
			assert.NotEmpty(t, env.Error.Message)
		})
	}
}

func TestEstimate(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodPost, "/estimate", map[string]any{"correct": 5, "total": 10})
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode[map[string]any](t, rec)
	assert.EqualValues(t, 500, out["score"])
	assert.Len(t, out["ci68"], 2)
	assert.InDelta(t, 0.5, out["p_mean"], 1e-9)
}

func TestNext(t *testing.T) {
	s := newTestServer(t, nil)
	ctx := context.Background()
	repo := s.store.AttemptRepo()
	fast := int64(3000)

	rec := s.do(t, http.MethodPost, "/next", map[string]any{"user_id": "u2"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"domain":null,"skill":null,"difficulty":"medium"}`, rec.Body.String())

	for range 2 {
		_, err := repo.Record(ctx, store.Attempt{UserID: "u2", Domain: "Algebra", Skill: "linear_equation", Correct: true, TimeMs: &fast})
		require.NoError(t, err)
	}
	rec = s.do(t, http.MethodPost, "/next", map[string]any{"user_id": "u2", "skill": "linear_equation"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"domain":null,"skill":"linear_equation","difficulty":"hard"}`, rec.Body.String())

	_, err := repo.Record(ctx, store.Attempt{UserID: "u2", Domain: "Algebra", Skill: "linear_equation", Correct: false})
	require.NoError(t, err)
	rec = s.do(t, http.MethodPost, "/next", map[string]any{"user_id": "u2"})
	assert.Contains(t, rec.Body.String(), `"easy"`)
}

func TestAttemptAIAndReset(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodPost, "/attempt_ai", map[string]any{
		"user_id": "u3", "domain": "Algebra", "skill": "linear_equation_mc",
		"selected_choice_index": 2, "correct_index": 2, "correct_answer": "3",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"correct":true}`, rec.Body.String())

	list, err := s.store.AttemptRepo().List(context.Background(), store.ListFilter{UserID: "u3"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, -1, list[0].Seed)
	assert.Equal(t, store.SourceAI, list[0].Source)

	rec = s.do(t, http.MethodPost, "/reset_stats", map[string]any{"user_id": "u3", "skill": "other"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"deleted":0}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/reset_stats", map[string]any{"user_id": "u3"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"deleted":1}`, rec.Body.String())
}

func TestGenerateAI(t *testing.T) {
	payload := map[string]any{
		"prompt_latex":      "If $2x - 5 = 7$, what is $x$?",
		"choices":           []string{"6", "1", "-6", "12"},
		"correct_index":     0,
		"explanation_steps": []string{"Add 5: $2x = 12$.", "Divide by 2."},
	}
	s := newTestServer(t, llm.NewMockProvider(llm.MockJSON(payload)))

	rec := s.do(t, http.MethodPost, "/generate_ai", map[string]any{"domain": "Algebra", "skill": "linear_equation_mc", "difficulty": "easy"})
	require.Equal(t, http.StatusOK, rec.Code)
	item := decode[problemgen.AIItem](t, rec)
	assert.Equal(t, problemgen.SourceAI, item.Source)
	assert.Equal(t, "6", item.Choices[item.CorrectIndex])
	assert.EqualValues(t, -1, item.Seed)

	// The script is exhausted, so the next call falls back.
	rec = s.do(t, http.MethodPost, "/generate_ai", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	item = decode[problemgen.AIItem](t, rec)
	assert.Equal(t, problemgen.SourceTemplate, item.Source)
	assert.Len(t, item.Choices, 4)
}

func TestGenerateAI_PriorPrompts(t *testing.T) {
	mock := llm.NewMockProvider()
	s := newTestServer(t, mock)
	_, err := s.store.AttemptRepo().Record(context.Background(), store.Attempt{
		UserID: "u4", Domain: "Algebra", Skill: "linear_equation", Seed: 11, Source: store.SourceTemplate,
	})
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/generate_ai", map[string]any{"domain": "Algebra", "skill": "linear_equation", "user_id": "u4"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, mock.CallCount())

	prompt := canonical(t, skills.LinearEquation, 11).Common().Prompt
	assert.Contains(t, mock.LastCall().Messages[0].Content, prompt)
}

func TestElaborate(t *testing.T) {
	s := newTestServer(t, nil)
	rec := s.do(t, http.MethodPost, "/elaborate", map[string]any{"domain": "Geometry", "skill": "pythagorean_leg", "seed": 5})
	require.Equal(t, http.StatusOK, rec.Code)

	out := decode[map[string]any](t, rec)
	assert.Equal(t, "template", out["source"])
	elab, ok := out["elaboration"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, skills.ExplanationFor(skills.PythagoreanLeg).Concept, elab["concept"])
	assert.NotEmpty(t, elab["walkthrough"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/grade", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, testOrigin, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/grade", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(logger.Nop()))
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, CodeInternal, decode[ErrorEnvelope](t, rec).Error.Code)
}
