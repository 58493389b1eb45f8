package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(LoggerOpts{Production: true, Output: &buf})
	t.Cleanup(func() { Init() })

	Debug().Msg("hidden")
	logger := Component("catalog")
	logger.Info().Str("product_id", "p1").Msg("product added")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (debug suppressed): %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["component"] != "catalog" || entry["product_id"] != "p1" || entry["level"] != "info" {
		t.Fatalf("entry = %v", entry)
	}
}

func TestDevelopmentIncludesDebug(t *testing.T) {
	var buf bytes.Buffer
	Init(LoggerOpts{Output: &buf})
	t.Cleanup(func() { Init() })

	Debug().Msg("tick")
	if !strings.Contains(buf.String(), "tick") {
		t.Fatalf("debug line missing: %q", buf.String())
	}
}
