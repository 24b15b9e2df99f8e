package logger

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &Logger{SugaredLogger: zap.New(core).Sugar(), salt: "s"}, logs
}

func TestRedactsSecrets(t *testing.T) {
	l, logs := observed()
	l.Info("configured", "api_key", "sk-123", "provider", "gemini")

	entry := logs.All()[0]
	fields := entry.ContextMap()
	if fields["api_key"] != "[REDACTED]" {
		t.Errorf("api_key = %v, want redacted", fields["api_key"])
	}
	if fields["provider"] != "gemini" {
		t.Errorf("provider = %v, want gemini", fields["provider"])
	}
}

func TestHashesUserID(t *testing.T) {
	l, logs := observed()
	l.Info("attempt", "user_id", "alice")
	l.Info("attempt", "user_id", "alice")
	l.Info("attempt", "user_id", "anonymous")

	all := logs.All()
	a, b := all[0].ContextMap()["user_id"], all[1].ContextMap()["user_id"]
	s, _ := a.(string)
	if !strings.HasPrefix(s, "hash:") || a != b {
		t.Errorf("user_id hashed to %v and %v, want equal hash: values", a, b)
	}
	if got := all[2].ContextMap()["user_id"]; got != "anonymous" {
		t.Errorf("anonymous user_id = %v, want unchanged", got)
	}
}

func TestWithKeepsRedaction(t *testing.T) {
	l, logs := observed()
	l.With("token", "abc").Warn("child")
	if got := logs.All()[0].ContextMap()["token"]; got != "[REDACTED]" {
		t.Errorf("token = %v, want redacted", got)
	}
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"dev", "prod"} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		l.Debug("hello")
	}
	if _, err := New("dev", Options{Level: "loud"}); err == nil {
		t.Error("expected error for unknown level")
	}
	Nop().Info("discarded", "k", "v")
}
