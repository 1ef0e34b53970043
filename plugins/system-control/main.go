// Package main provides a system control plugin for macOS.
// It handles volume and media playback keys via AppleScript.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/ayusman/mudra/internal/plugin"
)

// MediaKeyParams names the media key to tap.
type MediaKeyParams struct {
	Key string `json:"key"`
}

// mediaScripts maps media key names to AppleScript.
var mediaScripts = map[string]string{
	"volume-up":   `set volume output volume ((output volume of (get volume settings)) + 10)`,
	"volume-down": `set volume output volume ((output volume of (get volume settings)) - 10)`,
	"volume-mute": `set volume output muted (not (output muted of (get volume settings)))`,
	"play-pause": `tell application "System Events"
	key code 100
end tell`,
	"next": `tell application "System Events"
	key code 101
end tell`,
	"previous": `tell application "System Events"
	key code 98
end tell`,
}

// runScript is replaced in tests.
var runScript = runAppleScript

func main() {
	resp := handle(os.Stdin)
	json.NewEncoder(os.Stdout).Encode(resp)
}

func handle(r io.Reader) plugin.Response {
	var req plugin.Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return failure(fmt.Sprintf("failed to decode request: %v", err))
	}

	if req.Action != "media-key" {
		return failure(fmt.Sprintf("unknown action: %s", req.Action))
	}

	var p MediaKeyParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return failure(fmt.Sprintf("failed to parse params: %v", err))
	}

	script, ok := mediaScripts[p.Key]
	if !ok {
		return failure(fmt.Sprintf("unknown media key: %s", p.Key))
	}

	if err := runScript(script); err != nil {
		return failure(fmt.Sprintf("media key %s failed: %v", p.Key, err))
	}

	return plugin.Response{Success: true}
}

func failure(msg string) plugin.Response {
	return plugin.Response{Success: false, Error: msg}
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
