package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedDefaults(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := c.Render("turn.white", nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "White to move" {
		t.Fatalf("turn.white = %q", got)
	}

	got, err = c.Render("click.rejected", map[string]string{"Source": "e2", "Target": "e5"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, "e2") || !strings.Contains(got, "e5") {
		t.Fatalf("click.rejected = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("no.such.key", nil); err == nil {
		t.Fatal("expected an error for a missing key")
	}
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	override := "turn:\n  white: \"Vit att dra\"\n"
	if err := os.WriteFile(filepath.Join(dir, "sv.yaml"), []byte(override), 0o644); err != nil {
		t.Fatalf("write override: %v", err)
	}

	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("turn.white", nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Vit att dra" {
		t.Fatalf("override not applied, got %q", got)
	}

	// Keys the override does not touch keep the embedded default.
	got, err = c.Render("turn.black", nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Black to move" {
		t.Fatalf("turn.black = %q", got)
	}
}
