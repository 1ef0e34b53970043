// Package main provides a keyboard plugin for macOS.
// It sends key combinations via AppleScript.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/ayusman/mudra/internal/plugin"
)

// KeyComboParams lists keys pressed together. The last key is the main key;
// the others are modifiers.
type KeyComboParams struct {
	Keys []string `json:"keys"`
}

// modifierMap maps user-friendly modifier names to AppleScript equivalents.
var modifierMap = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

// keyCodes maps non-printing key names to macOS virtual key codes.
var keyCodes = map[string]int{
	"tab":    48,
	"enter":  36,
	"return": 36,
	"space":  49,
	"escape": 53,
	"esc":    53,
	"left":   123,
	"right":  124,
	"down":   125,
	"up":     126,
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

	switch req.Action {
	case "key-combo":
		if err := handleKeyCombo(req.Params); err != nil {
			return failure(fmt.Sprintf("action %s failed: %v", req.Action, err))
		}
	default:
		return failure(fmt.Sprintf("unknown action: %s", req.Action))
	}

	return plugin.Response{Success: true}
}

func handleKeyCombo(params json.RawMessage) error {
	var p KeyComboParams
	if err := json.Unmarshal(params, &p); err != nil {
		return fmt.Errorf("failed to parse params: %w", err)
	}

	script, err := buildKeyComboScript(p.Keys)
	if err != nil {
		return err
	}
	return runScript(script)
}

// buildKeyComboScript generates an AppleScript pressing keys together.
func buildKeyComboScript(keys []string) (string, error) {
	if len(keys) == 0 {
		return "", errors.New("keys are required")
	}

	key := strings.ToLower(keys[len(keys)-1])

	var press string
	if code, ok := keyCodes[key]; ok {
		press = fmt.Sprintf("key code %d", code)
	} else if len([]rune(key)) == 1 {
		press = fmt.Sprintf("keystroke %q", key)
	} else {
		return "", fmt.Errorf("unknown key %q", key)
	}

	var appleModifiers []string
	for _, mod := range keys[:len(keys)-1] {
		appleMod, ok := modifierMap[strings.ToLower(mod)]
		if !ok {
			return "", fmt.Errorf("unknown modifier %q", mod)
		}
		appleModifiers = append(appleModifiers, appleMod)
	}

	script := `tell application "System Events" to ` + press
	if len(appleModifiers) > 0 {
		script += " using {" + strings.Join(appleModifiers, ", ") + "}"
	}
	return script, nil
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
