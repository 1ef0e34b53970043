package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mudra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1280, cfg.Camera.Width)
	assert.Equal(t, 720, cfg.Camera.Height)
	assert.True(t, cfg.Camera.Flip)
	assert.True(t, cfg.Fingers.Mirrored)
	assert.Equal(t, 0.7, cfg.Detector.MinDetectionConfidence)
	assert.Equal(t, 0.7, cfg.Detector.MinTrackingConfidence)
	assert.Equal(t, 0.05, cfg.Gesture.PinchThreshold)
	assert.Equal(t, 0.15, cfg.Gesture.SwipeThreshold)
	assert.Equal(t, 0.3, cfg.Cursor.Alpha)
	assert.Equal(t, 700*time.Millisecond, cfg.Dispatch.Cooldown)
	assert.Equal(t, 300, cfg.Dispatch.ScrollAmount)
	assert.Equal(t, BackendRobotgo, cfg.Injector.Backend)
	assert.Equal(t, "pointer", cfg.Injector.Routes.Pointer)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
camera:
  device: 2
  flip: false
cursor:
  alpha: 0.5
dispatch:
  cooldown: 1s
  switch_tab_keys: [cmd, tab]
  bindings:
    fist: play_pause
    open_palm: none
injector:
  backend: plugin
  timeout: 3s
  routes:
    pointer: mouse
server:
  addr: ""
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Camera.Device)
	assert.False(t, cfg.Camera.Flip)
	assert.Equal(t, 1280, cfg.Camera.Width, "unset fields keep defaults")
	assert.Equal(t, 0.5, cfg.Cursor.Alpha)
	assert.Equal(t, time.Second, cfg.Dispatch.Cooldown)
	assert.Equal(t, 3*time.Second, cfg.Injector.Timeout)
	assert.Equal(t, "mouse", cfg.Injector.Routes.Pointer)
	assert.Equal(t, "keyboard", cfg.Injector.Routes.Keys)
	assert.Empty(t, cfg.Server.Addr)

	dispatch, err := cfg.DispatchSettings()
	require.NoError(t, err)
	assert.Equal(t, []string{"cmd", "tab"}, dispatch.SwitchTabKeys)
	assert.Equal(t, action.PlayPause, dispatch.Bindings[gesture.Fist])
	assert.NotContains(t, dispatch.Bindings, gesture.OpenPalm)
	assert.Equal(t, action.MovePointer, dispatch.Bindings[gesture.Pointing])
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "camera: [1, 2"))
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load(writeConfig(t, "cursor:\n  alpha: 1.5\n"))
		assert.ErrorContains(t, err, "cursor.alpha")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero alpha", func(c *Config) { c.Cursor.Alpha = 0 }, "cursor.alpha"},
		{"alpha of one is allowed", func(c *Config) { c.Cursor.Alpha = 1 }, ""},
		{"negative pinch", func(c *Config) { c.Gesture.PinchThreshold = -0.1 }, "pinch_threshold"},
		{"zero swipe", func(c *Config) { c.Gesture.SwipeThreshold = 0 }, "swipe_threshold"},
		{"zero cooldown", func(c *Config) { c.Dispatch.Cooldown = 0 }, "dispatch.cooldown"},
		{"no hands", func(c *Config) { c.Detector.MaxHands = 0 }, "max_hands"},
		{"unknown gesture", func(c *Config) { c.Dispatch.Bindings = map[string]string{"wave": "left_click"} }, "unknown gesture"},
		{"unknown action", func(c *Config) { c.Dispatch.Bindings = map[string]string{"fist": "launch"} }, "unknown action"},
		{"unknown backend", func(c *Config) { c.Injector.Backend = "xdotool" }, "unknown injector backend"},
		{"plugin backend without dir", func(c *Config) {
			c.Injector.Backend = BackendPlugin
			c.Injector.PluginDir = ""
		}, "plugin_dir"},
		{"dry run", func(c *Config) { c.Injector.Backend = BackendDryRun }, ""},
		{"plugin backend with defaults", func(c *Config) { c.Injector.Backend = BackendPlugin }, ""},
		{"plugin backend without pointer route", func(c *Config) {
			c.Injector.Backend = BackendPlugin
			c.Injector.Routes.Pointer = ""
		}, "routes.pointer"},
		{"pointer route unused by robotgo", func(c *Config) { c.Injector.Routes.Pointer = "" }, ""},
		{"negative scroll", func(c *Config) { c.Dispatch.ScrollAmount = -5 }, "scroll_amount"},
		{"zero scroll", func(c *Config) { c.Dispatch.ScrollAmount = 0 }, "scroll_amount"},
		{"unknown log level", func(c *Config) { c.Log.Level = "chatty" }, "log.level"},
		{"debug log level", func(c *Config) { c.Log.Level = "debug" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSettings(t *testing.T) {
	cfg := Default()
	cfg.Camera.Device = 1

	cam := cfg.CameraSettings()
	assert.Equal(t, 1, cam.DeviceID)
	assert.True(t, cam.Flip)

	det := cfg.DetectorSettings()
	assert.Equal(t, 1, det.MaxHands)
	assert.Equal(t, 0.7, det.MinConfidence)

	c := cfg.Classifier()
	assert.Equal(t, 0.05, c.PinchThreshold)
}
