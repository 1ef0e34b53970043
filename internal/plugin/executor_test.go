package plugin

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeScriptPlugin creates a shell-script plugin in a temp directory.
func writeScriptPlugin(t *testing.T, name, script string) *Plugin {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	dir := t.TempDir()
	scriptPath := filepath.Join(dir, name+".sh")
	if err := os.WriteFile(scriptPath, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{
		Manifest: Manifest{
			Name:       name,
			Version:    "1.0.0",
			Executable: name + ".sh",
			Actions:    []string{"key-combo"},
		},
		Path:       dir,
		Executable: scriptPath,
	}
}

func TestExecutor_Execute(t *testing.T) {
	plugin := writeScriptPlugin(t, "echo-plugin", `INPUT=$(cat)
echo "{\"success\":true,\"data\":{\"received\":$INPUT}}"
`)

	request := &Request{
		Action:  "key-combo",
		Gesture: "swipe_left",
		Params:  json.RawMessage(`{"keys":["ctrl","tab"]}`),
	}

	response, err := NewExecutor(5*time.Second).Execute(context.Background(), plugin, request)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !response.Success {
		t.Errorf("expected success=true, got false")
	}

	var data struct {
		Received struct {
			Action  string `json:"action"`
			Gesture string `json:"gesture"`
			Params  struct {
				Keys []string `json:"keys"`
			} `json:"params"`
		} `json:"received"`
	}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}

	if data.Received.Action != "key-combo" {
		t.Errorf("expected action 'key-combo', got %q", data.Received.Action)
	}
	if data.Received.Gesture != "swipe_left" {
		t.Errorf("expected gesture 'swipe_left', got %q", data.Received.Gesture)
	}
	if strings.Join(data.Received.Params.Keys, "+") != "ctrl+tab" {
		t.Errorf("expected keys ctrl+tab, got %v", data.Received.Params.Keys)
	}
}

func TestExecutor_Timeout(t *testing.T) {
	plugin := writeScriptPlugin(t, "slow-plugin", `sleep 10
echo '{"success":true}'
`)

	start := time.Now()
	_, err := NewExecutor(100*time.Millisecond).Execute(context.Background(), plugin, &Request{Action: "slow"})

	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error, got: %v", err)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("executor did not stop the plugin at the timeout")
	}
}

func TestExecutor_Execute_ErrorResponse(t *testing.T) {
	plugin := writeScriptPlugin(t, "error-plugin", `cat > /dev/null
echo '{"success":false,"error":"accessibility permission denied"}'
`)

	response, err := NewExecutor(time.Second).Execute(context.Background(), plugin, &Request{Action: "media-key"})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if response.Success {
		t.Error("expected success=false")
	}
	if response.Error != "accessibility permission denied" {
		t.Errorf("unexpected error message %q", response.Error)
	}
}

func TestExecutor_Execute_InvalidJSON(t *testing.T) {
	plugin := writeScriptPlugin(t, "bad-plugin", `echo 'not json'
`)

	_, err := NewExecutor(time.Second).Execute(context.Background(), plugin, &Request{Action: "x"})
	if err == nil {
		t.Fatal("expected error for invalid JSON output")
	}
	if !strings.Contains(err.Error(), "parse plugin response") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExecutor_Execute_NonZeroExit(t *testing.T) {
	plugin := writeScriptPlugin(t, "exit-plugin", `echo "boom" >&2
exit 3
`)

	_, err := NewExecutor(time.Second).Execute(context.Background(), plugin, &Request{Action: "x"})
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected stderr in error, got: %v", err)
	}
}

func TestNewExecutor(t *testing.T) {
	if got := NewExecutor(0).Timeout(); got != DefaultTimeout {
		t.Errorf("expected default timeout %s, got %s", DefaultTimeout, got)
	}
	if got := NewExecutor(3 * time.Second).Timeout(); got != 3*time.Second {
		t.Errorf("expected 3s, got %s", got)
	}
}

func TestManifest_Supports(t *testing.T) {
	m := Manifest{Actions: []string{"key-combo", "media-key"}}

	if !m.Supports("media-key") {
		t.Error("expected media-key to be supported")
	}
	if m.Supports("move") {
		t.Error("expected move to be unsupported")
	}
}
