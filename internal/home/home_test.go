package home

import (
	"path/filepath"
	"testing"
)

func TestNew_ExplicitPath(t *testing.T) {
	dir := t.TempDir()

	h, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if h.Path() != dir {
		t.Errorf("Path: got %q, want %q", h.Path(), dir)
	}
	if want := filepath.Join(dir, ConfigFileName); h.ConfigPath() != want {
		t.Errorf("ConfigPath: got %q, want %q", h.ConfigPath(), want)
	}
}

func TestNew_DefaultPath(t *testing.T) {
	h, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if filepath.Base(h.Path()) != DefaultDirName {
		t.Errorf("default path should end in %q, got %q", DefaultDirName, h.Path())
	}
}

func TestEnsureExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dockit-home")

	h, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if h.Exists() {
		t.Fatal("directory should not exist yet")
	}
	if err := h.EnsureExists(); err != nil {
		t.Fatalf("EnsureExists failed: %v", err)
	}
	if !h.Exists() {
		t.Error("directory should exist after EnsureExists")
	}
	if h.ConfigExists() {
		t.Error("config file should not exist in a fresh home")
	}
}
