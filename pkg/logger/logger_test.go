package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"", zapcore.InfoLevel},
		{"chatty", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	l := Nop()
	if OrNop(l) != l {
		t.Error("OrNop should return a non-nil logger unchanged")
	}
	// Child loggers keep the wrapper type.
	OrNop(nil).Named("store").With().WithRequest("cid", "user").Info("discarded")
}

func TestSetGlobal(t *testing.T) {
	prev := Global()
	defer SetGlobal(prev)

	SetGlobal(nil)
	if Global() == nil {
		t.Error("SetGlobal(nil) left a nil global logger")
	}

	l, err := New("debug")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	SetGlobal(l)
	if Global() != l {
		t.Error("Global did not return the logger passed to SetGlobal")
	}
}
