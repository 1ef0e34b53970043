package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writePluginDir creates <root>/<dirName> with a manifest and, if withExec, its executable.
func writePluginDir(t *testing.T, root, dirName string, manifest Manifest, withExec bool) string {
	t.Helper()

	dir := filepath.Join(root, dirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	data, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "plugin.json"), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	if withExec {
		if err := os.WriteFile(filepath.Join(dir, manifest.Executable), []byte("#!/bin/sh\n"), 0755); err != nil {
			t.Fatalf("failed to write executable: %v", err)
		}
	}
	return dir
}

func TestManager_Discover(t *testing.T) {
	root := t.TempDir()

	keyboardDir := writePluginDir(t, root, "keyboard", Manifest{
		Name:        "keyboard",
		Version:     "1.0.0",
		Description: "Sends key combinations",
		Executable:  "keyboard",
		Actions:     []string{"key-combo"},
	}, true)
	writePluginDir(t, root, "system-control", Manifest{
		Name:       "system-control",
		Executable: "system-control",
		Actions:    []string{"media-key"},
	}, true)
	writePluginDir(t, root, "no-binary", Manifest{
		Name:       "no-binary",
		Executable: "missing",
	}, false)

	if err := os.MkdirAll(filepath.Join(root, "invalid"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "invalid", "plugin.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	manager := NewManager(root)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(plugins))
	}
	if plugins[0].Manifest.Name != "keyboard" || plugins[1].Manifest.Name != "system-control" {
		t.Errorf("expected plugins sorted by name, got %s, %s", plugins[0].Manifest.Name, plugins[1].Manifest.Name)
	}

	kb, err := manager.Get("keyboard")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if kb.Path != keyboardDir {
		t.Errorf("expected path %q, got %q", keyboardDir, kb.Path)
	}
	if kb.Executable != filepath.Join(keyboardDir, "keyboard") {
		t.Errorf("unexpected executable path %q", kb.Executable)
	}
}

func TestManager_Get_NotFound(t *testing.T) {
	manager := NewManager(t.TempDir())
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	if _, err := manager.Get("nope"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("expected ErrPluginNotFound, got %v", err)
	}
}

func TestManager_Discover_NonExistentDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "missing"))

	if err := manager.Discover(); err != nil {
		t.Errorf("expected nil error for missing directory, got %v", err)
	}
	if len(manager.List()) != 0 {
		t.Error("expected no plugins")
	}
}
