// Package api serves the practice engine over HTTP.
package api

import (
	"math/rand/v2"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/piepengu/satmath/internal/elaboration"
	"github.com/piepengu/satmath/internal/logger"
	"github.com/piepengu/satmath/internal/observability"
	"github.com/piepengu/satmath/internal/problemgen"
	"github.com/piepengu/satmath/internal/store"
)

// RouterConfig holds the router's collaborators. Generator and Elaborator
// may wrap a nil provider, in which case AI routes serve templates.
type RouterConfig struct {
	Attempts   store.AttemptRepo
	Generator  *problemgen.LLMGenerator
	Elaborator *elaboration.Service
	Log        *logger.Logger
	Metrics    *observability.Metrics
	Origins    []string

	// ServiceName names the server in traces.
	ServiceName string
}

// Handler implements the routes.
type Handler struct {
	attempts store.AttemptRepo
	gen      *problemgen.LLMGenerator
	elab     *elaboration.Service
	log      *logger.Logger
	metrics  *observability.Metrics

	// seed draws a seed when a request names none.
	seed func() int64
}

// NewHandler fills in defaults for missing collaborators except Attempts.
func NewHandler(cfg RouterConfig) *Handler {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	m := cfg.Metrics
	if m == nil {
		m = observability.Default()
	}
	gen := cfg.Generator
	if gen == nil {
		gen = problemgen.NewLLMGenerator(nil, problemgen.DefaultAIConfig(), log, m)
	}
	elab := cfg.Elaborator
	if elab == nil {
		elab = elaboration.NewService(nil, elaboration.DefaultConfig(), log, m)
	}
	return &Handler{
		attempts: cfg.Attempts,
		gen:      gen,
		elab:     elab,
		log:      log.With("component", "api"),
		metrics:  m,
		seed:     func() int64 { return 1 + rand.Int64N(problemgen.MaxFallbackSeed) },
	}
}

// NewRouter builds the gin engine with tracing, access logs, recovery and
// CORS in front of every route.
func NewRouter(cfg RouterConfig) *gin.Engine {
	h := NewHandler(cfg)
	name := cfg.ServiceName
	if name == "" {
		name = "satmath"
	}

	r := gin.New()
	r.Use(otelgin.Middleware(name))
	r.Use(AccessLog(h.log))
	r.Use(Recovery(h.log))
	r.Use(CORS(cfg.Origins))

	r.GET("/health", h.Health)
	r.GET("/skills", h.Skills)

	// Template items
	r.POST("/generate", h.Generate)
	r.POST("/grade", h.Grade)
	r.POST("/elaborate", h.Elaborate)

	// AI items
	r.POST("/generate_ai", h.GenerateAI)
	r.POST("/attempt_ai", h.AttemptAI)

	// History and adaptivity
	r.GET("/attempts", h.Attempts)
	r.GET("/stats", h.Stats)
	r.POST("/reset_stats", h.ResetStats)
	r.POST("/next", h.Next)
	r.POST("/estimate", h.Estimate)

	return r
}
