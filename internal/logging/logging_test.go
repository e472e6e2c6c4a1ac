package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Parallel()

	prod, err := New(false)
	if err != nil {
		t.Fatalf("production logger: %v", err)
	}
	if prod.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("production logger must not log debug")
	}

	dev, err := New(true)
	if err != nil {
		t.Fatalf("development logger: %v", err)
	}
	if !dev.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("development logger must log debug")
	}
}

func TestOrNop(t *testing.T) {
	t.Parallel()

	if OrNop(nil) == nil {
		t.Fatalf("want nop logger")
	}
	l, _ := New(false)
	if OrNop(l) != l {
		t.Fatalf("non-nil logger must pass through")
	}
}
