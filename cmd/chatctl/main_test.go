package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func TestSeedRoomsExportReset(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "state.json")
	base := []string{"--backend", "file", "--file", file}

	out, err := runCmd(t, append(base, "rooms")...)
	if err != nil {
		t.Fatalf("rooms: %v", err)
	}
	if !strings.Contains(out, "no saved chatrooms") {
		t.Errorf("rooms on empty store: %q", out)
	}

	if _, err := runCmd(t, append(base, "seed")...); err != nil {
		t.Fatalf("seed: %v", err)
	}

	out, err = runCmd(t, append(base, "rooms")...)
	if err != nil {
		t.Fatalf("rooms: %v", err)
	}
	for _, title := range []string{"AI Assistant Help", "Technology Guide"} {
		if !strings.Contains(out, title) {
			t.Errorf("rooms output missing %q:\n%s", title, out)
		}
	}

	exported := filepath.Join(dir, "export.json")
	if _, err := runCmd(t, append(base, "--output", exported, "export")...); err != nil {
		t.Fatalf("export: %v", err)
	}
	raw, err := os.ReadFile(exported)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var doc struct {
		Version   int               `json:"version"`
		Chatrooms []json.RawMessage `json:"chatrooms"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if doc.Version != 2 || len(doc.Chatrooms) != 2 {
		t.Errorf("export version=%d rooms=%d", doc.Version, len(doc.Chatrooms))
	}

	if _, err := runCmd(t, append(base, "reset")...); err == nil {
		t.Error("reset without --yes succeeded")
	}
	if _, err := runCmd(t, append(base, "--yes", "reset")...); err != nil {
		t.Fatalf("reset: %v", err)
	}
	out, _ = runCmd(t, append(base, "rooms")...)
	if strings.Contains(out, "Technology Guide") {
		t.Errorf("rooms still listed after reset:\n%s", out)
	}
}

func TestUnknownCommand(t *testing.T) {
	if _, err := runCmd(t, "--backend", "memory", "frobnicate"); err == nil {
		t.Error("unknown command accepted")
	}
	if _, err := runCmd(t, "--backend", "memory"); err == nil {
		t.Error("missing command accepted")
	}
}
