// Package main provides a pointer plugin: pointer moves, clicks and scrolling
// through robotgo.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ayusman/mudra/internal/plugin"
	"github.com/go-vgo/robotgo"
)

// MoveParams is the absolute screen position for a move.
type MoveParams struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ClickParams names the button: left, right or double.
type ClickParams struct {
	Button string `json:"button"`
}

// ScrollParams is the vertical scroll distance; positive scrolls up.
type ScrollParams struct {
	Amount int `json:"amount"`
}

// mouse is the pointer device driven by the plugin.
type mouse interface {
	Move(x, y int)
	Click(button string, double bool)
	Scroll(x, y int)
}

type robotgoMouse struct{}

func (robotgoMouse) Move(x, y int)                    { robotgo.Move(x, y) }
func (robotgoMouse) Click(button string, double bool) { robotgo.Click(button, double) }
func (robotgoMouse) Scroll(x, y int)                  { robotgo.Scroll(x, y) }

// device is replaced in tests.
var device mouse = robotgoMouse{}

func main() {
	resp := handle(os.Stdin)
	json.NewEncoder(os.Stdout).Encode(resp)
}

func handle(r io.Reader) plugin.Response {
	var req plugin.Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return failure(fmt.Sprintf("failed to decode request: %v", err))
	}

	var err error
	switch req.Action {
	case "move":
		err = handleMove(req.Params)
	case "click":
		err = handleClick(req.Params)
	case "scroll":
		err = handleScroll(req.Params)
	default:
		return failure(fmt.Sprintf("unknown action: %s", req.Action))
	}
	if err != nil {
		return failure(fmt.Sprintf("action %s failed: %v", req.Action, err))
	}

	return plugin.Response{Success: true}
}

func handleMove(params json.RawMessage) error {
	var p MoveParams
	if err := json.Unmarshal(params, &p); err != nil {
		return fmt.Errorf("failed to parse params: %w", err)
	}
	if p.X < 0 || p.Y < 0 {
		return fmt.Errorf("position %d,%d is off screen", p.X, p.Y)
	}
	device.Move(p.X, p.Y)
	return nil
}

func handleClick(params json.RawMessage) error {
	var p ClickParams
	if err := json.Unmarshal(params, &p); err != nil {
		return fmt.Errorf("failed to parse params: %w", err)
	}

	switch p.Button {
	case "left", "right":
		device.Click(p.Button, false)
	case "double":
		device.Click("left", true)
	default:
		return fmt.Errorf("unknown button %q", p.Button)
	}
	return nil
}

func handleScroll(params json.RawMessage) error {
	var p ScrollParams
	if err := json.Unmarshal(params, &p); err != nil {
		return fmt.Errorf("failed to parse params: %w", err)
	}
	if p.Amount == 0 {
		return nil
	}
	device.Scroll(0, p.Amount)
	return nil
}

func failure(msg string) plugin.Response {
	return plugin.Response{Success: false, Error: msg}
}
