package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWithLogger_FromContext(t *testing.T) {
	l := Discard()
	ctx := WithLogger(context.Background(), l)

	if got := FromContext(ctx); got != l {
		t.Error("FromContext() should return the stored logger")
	}
}

func TestFromContext_Default(t *testing.T) {
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Error("FromContext() should fall back to slog.Default()")
	}
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "01J0000000000000000000000")
	if got := RequestIDFromContext(ctx); got != "01J0000000000000000000000" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext() on empty ctx = %q, want empty", got)
	}
}

func TestL_WithRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), l)
	ctx = WithRequestID(ctx, "req-1")

	L(ctx).Info("handled")

	if !strings.Contains(buf.String(), "request_id=req-1") {
		t.Errorf("output %q should carry request_id", buf.String())
	}
}

func TestL_NoRequestID(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, nil))

	L(WithLogger(context.Background(), l)).Info("handled")

	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("output %q should not carry request_id", buf.String())
	}
}
