package log

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: ComponentGateway, Output: &buf})

	l.Info("Saved collection", FieldKey, "expenses")
	out := buf.String()
	if !strings.Contains(out, "component=gateway") || !strings.Contains(out, "key=expenses") {
		t.Fatalf("unexpected output: %s", out)
	}

	buf.Reset()
	l.WithComponent(ComponentManager).Warn("Save failed")
	if !strings.Contains(buf.String(), "component=manager") {
		t.Fatalf("expected manager component, got: %s", buf.String())
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Output: &buf})

	fields := NewFields().
		WithOperation(OpSave).
		WithCollection("budgets", 3).
		WithError(errors.New("disk full"))
	l.WithFields(fields).Error("Persist failed")

	out := buf.String()
	for _, want := range []string{"operation=save", "collection=budgets", "count=3", `error="disk full"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
