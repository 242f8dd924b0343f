package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			t.Fatalf("decode: %v\n%s", err, buf.String())
		}
		out = append(out, m)
	}
	return out
}

func TestPrettyJSONHandler_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.With("battle", "b1").Debug("round", "round", 3, "err", errors.New("boom"))

	recs := decodeRecords(t, &buf)
	if len(recs) != 1 {
		t.Fatalf("records=%d", len(recs))
	}
	r := recs[0]
	if r["msg"] != "round" || r["level"] != "DEBUG" || r["battle"] != "b1" {
		t.Fatalf("unexpected record: %v", r)
	}
	if r["round"].(float64) != 3 || r["err"] != "boom" {
		t.Fatalf("unexpected attrs: %v", r)
	}
}

func TestPrettyJSONHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyJSONHandler(&buf, nil))

	log.WithGroup("tank").Info("moved", "id", 2, slog.Group("pos", "x", 1, "y", 4))

	r := decodeRecords(t, &buf)[0]
	tank, ok := r["tank"].(map[string]any)
	if !ok {
		t.Fatalf("missing group: %v", r)
	}
	pos, ok := tank["pos"].(map[string]any)
	if !ok || pos["x"].(float64) != 1 || pos["y"].(float64) != 4 {
		t.Fatalf("bad nested group: %v", tank)
	}
}

func TestPrettyJSONHandler_BoundAttrsJoinGroup(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyJSONHandler(&buf, nil)).With("battle", "b1").WithGroup("tank").With("id", 3)

	log.Info("killed", "round", 7, "after", 1500*time.Millisecond)

	r := decodeRecords(t, &buf)[0]
	if r["battle"] != "b1" {
		t.Fatalf("top level attr moved: %v", r)
	}
	tank, ok := r["tank"].(map[string]any)
	if !ok || tank["id"].(float64) != 3 || tank["round"].(float64) != 7 || tank["after"] != "1.5s" {
		t.Fatalf("group not merged: %v", r)
	}
}

func TestPrettyJSONHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	log.Info("hidden")
	log.Warn("shown")
	recs := decodeRecords(t, &buf)
	if len(recs) != 1 || recs[0]["msg"] != "shown" {
		t.Fatalf("records=%v", recs)
	}
}

func TestNew_Formats(t *testing.T) {
	for _, format := range []string{"pretty", "json", "text"} {
		var buf bytes.Buffer
		log, err := New(&buf, format, slog.LevelInfo)
		if err != nil {
			t.Fatalf("New(%q): %v", format, err)
		}
		log.Info("hello")
		if !strings.Contains(buf.String(), "hello") {
			t.Fatalf("format %q wrote %q", format, buf.String())
		}
	}
	if _, err := New(&bytes.Buffer{}, "xml", slog.LevelInfo); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("DEBUG")
	if err != nil || l != slog.LevelDebug {
		t.Fatalf("ParseLevel=%v,%v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error")
	}
}
