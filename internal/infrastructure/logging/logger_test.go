package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bananas": slog.LevelInfo,
	}

	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestContextFieldsPropagate(t *testing.T) {
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-42")
	ctx = context.WithValue(ctx, UserIDKey, "user-9")

	out := loggedOutput(t, func() {
		New(slog.LevelInfo, "json").InfoCtx(ctx, "dashboard refreshed")
	})

	for _, want := range []string{`"request_id":"req-42"`, `"user_id":"user-9"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %s: %q", want, out)
		}
	}
}

func TestNewAcceptsAnyFormat(t *testing.T) {
	for _, format := range []string{"json", "text", ""} {
		t.Run("format="+format, func(t *testing.T) {
			out := loggedOutput(t, func() {
				New(slog.LevelInfo, format).Info("expense created")
			})
			if out == "" {
				t.Fatal("no log output produced")
			}
		})
	}
}

// loggedOutput runs fn and returns everything it wrote to stdout.
func loggedOutput(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()
	_ = w.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("reading captured stdout: %v", err)
	}
	return buf.String()
}
