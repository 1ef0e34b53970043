package inject

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/plugin"
)

// installPlugin writes a plugin that stores each request in last.json and
// answers with response.
func installPlugin(t *testing.T, root, name, response string, actions ...string) string {
	t.Helper()

	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}

	manifest, _ := json.Marshal(plugin.Manifest{Name: name, Executable: "run.sh", Actions: actions})
	if err := os.WriteFile(filepath.Join(dir, "plugin.json"), manifest, 0644); err != nil {
		t.Fatal(err)
	}

	script := "#!/bin/sh\ncat > last.json\necho '" + response + "'\n"
	if err := os.WriteFile(filepath.Join(dir, "run.sh"), []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func newPluginInjector(t *testing.T, root string, routes Routes) *Plugin {
	t.Helper()

	mgr := plugin.NewManager(root)
	if err := mgr.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	return NewPlugin(mgr, plugin.NewExecutor(5*time.Second), routes)
}

func TestPlugin_ForwardsRequests(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	root := t.TempDir()
	keysDir := installPlugin(t, root, "keyboard", `{"success":true}`, ActionKeyCombo)
	mediaDir := installPlugin(t, root, "system-control", `{"success":true}`, ActionMediaKey)

	inj := newPluginInjector(t, root, Routes{Keys: "keyboard", Media: "system-control"})

	if err := inj.KeyCombo("ctrl", "tab"); err != nil {
		t.Fatalf("KeyCombo() failed: %v", err)
	}
	if err := inj.MediaKey(VolumeUp); err != nil {
		t.Fatalf("MediaKey() failed: %v", err)
	}

	var keysReq struct {
		Action string `json:"action"`
		Params struct {
			Keys []string `json:"keys"`
		} `json:"params"`
	}
	readJSON(t, filepath.Join(keysDir, "last.json"), &keysReq)
	if keysReq.Action != ActionKeyCombo || strings.Join(keysReq.Params.Keys, "+") != "ctrl+tab" {
		t.Errorf("unexpected key-combo request %+v", keysReq)
	}

	var mediaReq struct {
		Action string `json:"action"`
		Params struct {
			Key string `json:"key"`
		} `json:"params"`
	}
	readJSON(t, filepath.Join(mediaDir, "last.json"), &mediaReq)
	if mediaReq.Action != ActionMediaKey || mediaReq.Params.Key != "volume-up" {
		t.Errorf("unexpected media-key request %+v", mediaReq)
	}
}

func TestPlugin_Unsupported(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	root := t.TempDir()
	installPlugin(t, root, "keyboard", `{"success":true}`, ActionKeyCombo)

	inj := newPluginInjector(t, root, Routes{Keys: "keyboard", Media: "keyboard"})

	t.Run("no route", func(t *testing.T) {
		if err := inj.MoveTo(1, 2); !errors.Is(err, ErrUnsupported) {
			t.Errorf("expected ErrUnsupported, got %v", err)
		}
	})

	t.Run("plugin lacks action", func(t *testing.T) {
		if err := inj.MediaKey(PlayPause); !errors.Is(err, ErrUnsupported) {
			t.Errorf("expected ErrUnsupported, got %v", err)
		}
	})

	t.Run("missing plugin", func(t *testing.T) {
		missing := newPluginInjector(t, root, Routes{Pointer: "mouse"})
		if err := missing.Click(ButtonLeft); !errors.Is(err, plugin.ErrPluginNotFound) {
			t.Errorf("expected ErrPluginNotFound, got %v", err)
		}
	})
}

func TestPlugin_FailureResponse(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	root := t.TempDir()
	installPlugin(t, root, "mouse", `{"success":false,"error":"denied"}`, ActionMove, ActionClick, ActionScroll)

	inj := newPluginInjector(t, root, Routes{Pointer: "mouse"})

	err := inj.Scroll(300)
	if err == nil || !strings.Contains(err.Error(), "denied") {
		t.Errorf("expected plugin error to surface, got %v", err)
	}
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
}
