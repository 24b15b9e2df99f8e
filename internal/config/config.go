// Package config loads service settings from flags, SATMATH_* environment
// variables, an optional satmath.yaml and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/piepengu/satmath/internal/llm"
	"github.com/piepengu/satmath/internal/observability"
	"github.com/piepengu/satmath/internal/store"
)

// Keys shared by flags, environment variables and the config file.
const (
	KeyAddr            = "addr"
	KeyEnv             = "env"
	KeyDBDriver        = "db-driver"
	KeyDB              = "db"
	KeyLogMode         = "log-mode"
	KeyLogLevel        = "log-level"
	KeyFrontendOrigin  = "frontend-origin"
	KeyShutdownTimeout = "shutdown-timeout"
	KeyTracing         = "tracing"
	KeyOTLPEndpoint    = "otlp-endpoint"
	KeyOTLPHeaders     = "otlp-headers"
	KeyTraceRatio      = "trace-ratio"
)

// DefaultOrigins are the dev frontends allowed by CORS when nothing else
// is configured.
var DefaultOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}

// Config is the resolved service configuration.
type Config struct {
	Addr            string
	Env             string
	DBDriver        string
	DBDSN           string
	LogMode         string
	LogLevel        string
	FrontendOrigins []string
	ShutdownTimeout time.Duration
	Tracing         observability.TracingConfig

	// LLM is nil when no provider is configured; AI routes then serve
	// template items.
	LLM *llm.Config
}

// NewViper returns a viper instance reading SATMATH_* variables and an
// optional satmath.yaml. A .env file in the working directory is loaded
// into the process environment first; real variables win.
func NewViper() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SATMATH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyAddr, ":8000")
	v.SetDefault(KeyEnv, "dev")
	v.SetDefault(KeyDBDriver, store.DriverSQLite)
	v.SetDefault(KeyLogMode, "dev")
	v.SetDefault(KeyShutdownTimeout, 10*time.Second)
	v.SetDefault(KeyTraceRatio, 1.0)

	v.SetConfigName("satmath")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/satmath")
	return v
}

// Load resolves the configuration. A missing config file is not an error.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Addr:            v.GetString(KeyAddr),
		Env:             v.GetString(KeyEnv),
		DBDriver:        v.GetString(KeyDBDriver),
		DBDSN:           v.GetString(KeyDB),
		LogMode:         v.GetString(KeyLogMode),
		LogLevel:        v.GetString(KeyLogLevel),
		FrontendOrigins: Origins(v.GetString(KeyFrontendOrigin)),
		ShutdownTimeout: v.GetDuration(KeyShutdownTimeout),
		Tracing: observability.TracingConfig{
			Enabled:     v.GetBool(KeyTracing),
			ServiceName: "satmath",
			Environment: v.GetString(KeyEnv),
			Endpoint:    v.GetString(KeyOTLPEndpoint),
			Headers:     observability.ParseHeaders(v.GetString(KeyOTLPHeaders)),
			SampleRatio: v.GetFloat64(KeyTraceRatio),
		},
	}

	// The frontend's deploy scripts set the unprefixed name.
	if o := os.Getenv("FRONTEND_ORIGIN"); o != "" && !v.IsSet(KeyFrontendOrigin) {
		cfg.FrontendOrigins = Origins(o)
	}

	if cfg.DBDSN == "" && cfg.DBDriver == store.DriverSQLite {
		p, err := store.DefaultDBPath()
		if err != nil {
			return Config{}, fmt.Errorf("resolve database path: %w", err)
		}
		cfg.DBDSN = p
	}

	if lc, ok := llm.ResolveConfig(); ok {
		cfg.LLM = &lc
	}

	return cfg, cfg.Validate()
}

// Validate checks the settings that would otherwise fail late.
func (c Config) Validate() error {
	switch c.DBDriver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		return fmt.Errorf("unknown database driver %q", c.DBDriver)
	}
	if c.DBDriver == store.DriverPostgres && c.DBDSN == "" {
		return fmt.Errorf("SATMATH_DB is required for the postgres driver")
	}
	if c.Addr == "" {
		return fmt.Errorf("listen address is empty")
	}
	if c.LLM != nil {
		if err := c.LLM.Validate(); err != nil {
			return fmt.Errorf("llm: %w", err)
		}
	}
	return nil
}

// Origins splits a comma-separated origin list. An empty list yields
// DefaultOrigins.
func Origins(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, strings.TrimRight(o, "/"))
		}
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultOrigins...)
	}
	return out
}
