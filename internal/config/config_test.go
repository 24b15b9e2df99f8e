package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/piepengu/satmath/internal/store"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"FRONTEND_ORIGIN", "SATMATH_FRONTEND_ORIGIN", "SATMATH_ADDR", "SATMATH_DB", "SATMATH_DB_DRIVER",
		"SATMATH_LLM_PROVIDER", "GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Chdir(t.TempDir())
}

func TestOrigins(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", DefaultOrigins},
		{" , ", DefaultOrigins},
		{"https://sat.example.com", []string{"https://sat.example.com"}},
		{"https://a.example.com/, http://localhost:3000", []string{"https://a.example.com", "http://localhost:3000"}},
	}
	for _, tt := range tests {
		if got := Origins(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Origins(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SATMATH_DB", filepath.Join(t.TempDir(), "t.db"))

	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":8000" || cfg.DBDriver != store.DriverSQLite {
		t.Errorf("Addr = %q DBDriver = %q", cfg.Addr, cfg.DBDriver)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
	if !reflect.DeepEqual(cfg.FrontendOrigins, DefaultOrigins) {
		t.Errorf("FrontendOrigins = %v", cfg.FrontendOrigins)
	}
	if cfg.LLM != nil {
		t.Errorf("LLM = %+v, want nil with no keys", cfg.LLM)
	}
}

func TestLoad_Env(t *testing.T) {
	clearEnv(t)
	t.Setenv("SATMATH_ADDR", ":9999")
	t.Setenv("SATMATH_DB", filepath.Join(t.TempDir(), "t.db"))
	t.Setenv("FRONTEND_ORIGIN", "https://sat.example.com")
	t.Setenv("SATMATH_LLM_PROVIDER", "mock")

	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if want := []string{"https://sat.example.com"}; !reflect.DeepEqual(cfg.FrontendOrigins, want) {
		t.Errorf("FrontendOrigins = %v, want %v", cfg.FrontendOrigins, want)
	}
	if cfg.LLM == nil || cfg.LLM.Provider != "mock" {
		t.Errorf("LLM = %+v, want mock", cfg.LLM)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	yaml := "addr: \":7000\"\ndb: " + filepath.Join(t.TempDir(), "f.db") + "\nlog-mode: prod\n"
	if err := os.WriteFile("satmath.yaml", []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(NewViper())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Addr != ":7000" || cfg.LogMode != "prod" {
		t.Errorf("Addr = %q LogMode = %q", cfg.Addr, cfg.LogMode)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite", Config{Addr: ":1", DBDriver: store.DriverSQLite, DBDSN: "x.db"}, false},
		{"postgres without dsn", Config{Addr: ":1", DBDriver: store.DriverPostgres}, true},
		{"unknown driver", Config{Addr: ":1", DBDriver: "mysql"}, true},
		{"no addr", Config{DBDriver: store.DriverSQLite}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
