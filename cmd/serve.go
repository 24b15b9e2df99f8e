package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/piepengu/satmath/internal/api"
	"github.com/piepengu/satmath/internal/config"
	"github.com/piepengu/satmath/internal/elaboration"
	"github.com/piepengu/satmath/internal/observability"
	"github.com/piepengu/satmath/internal/problemgen"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String(config.KeyAddr, ":8000", "Listen address")
	f.String(config.KeyEnv, "dev", "Deployment environment name")
	f.String(config.KeyFrontendOrigin, "", "Comma-separated CORS origins")
	f.Duration(config.KeyShutdownTimeout, 10*time.Second, "Graceful shutdown timeout")
	f.Bool(config.KeyTracing, false, "Export OpenTelemetry traces")
	f.String(config.KeyOTLPEndpoint, "", "OTLP/HTTP endpoint; stdout when empty")
	f.String(config.KeyOTLPHeaders, "", "OTLP headers as k=v,k=v")
	f.Float64(config.KeyTraceRatio, 1.0, "Trace sample ratio")
	bindFlags(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Tracing.Version = resolvedVersion()
	shutdownTracing := observability.InitTracing(ctx, log, cfg.Tracing)

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	provider, err := newProvider(ctx, cfg, st.EventRepo(), log)
	if err != nil {
		return err
	}
	if provider == nil {
		log.Warn("no LLM provider configured; AI routes serve template items")
	}

	metrics := observability.Default()
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.RouterConfig{
		Attempts:   st.AttemptRepo(),
		Generator:  problemgen.NewLLMGenerator(provider, problemgen.DefaultAIConfig(), log, metrics),
		Elaborator: elaboration.NewService(provider, elaboration.DefaultConfig(), log, metrics),
		Log:        log,
		Metrics:    metrics,
		Origins:    cfg.FrontendOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server_listening", "addr", cfg.Addr, "env", cfg.Env, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		log.Info("server_shutting_down")
		var errs []error
		if err := srv.Shutdown(sctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown server: %w", err))
		}
		if err := shutdownTracing(sctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
		}
		return errors.Join(errs...)
	})
	return g.Wait()
}
