package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode entry %q: %v", buf.String(), err)
	}
	delete(entry, "time")
	return entry
}

func TestLogger_InfoWithFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	log.WithFields(map[string]any{"kind": "navbar"}).With("field", "brand").Info("field updated")

	want := map[string]any{"level": "info", "kind": "navbar", "field": "brand", "message": "field updated"}
	if diff := cmp.Diff(want, decode(t, buf)); diff != "" {
		t.Fatalf("entry mismatch (-want +got):\n%s", diff)
	}
}

func TestLogger_RespectsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "warn", Writer: buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	log.Info("hidden")
	log.Debug("hidden")
	if strings.TrimSpace(buf.String()) != "" {
		t.Fatalf("unexpected output %q", buf.String())
	}

	log.Error(errors.New("boom"), "render failed")
	entry := decode(t, buf)
	if entry["error"] != "boom" || entry["level"] != "error" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestLogger_InvalidLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected invalid level error")
	}
}

func TestLogger_NilSafe(t *testing.T) {
	var log *Logger
	log.Info("ignored")
	log.Error(nil, "ignored")
	if log.With("a", 1) != nil {
		t.Fatalf("nil logger should derive nil")
	}
	Nop().Warn("discarded")
}
