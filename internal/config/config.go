// Package config loads the YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/inject"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Injector backends.
const (
	BackendRobotgo = "robotgo"
	BackendPlugin  = "plugin"
	BackendDryRun  = "dry-run"
)

// Config is the complete application configuration.
type Config struct {
	Camera   CameraConfig   `yaml:"camera"`
	Detector DetectorConfig `yaml:"detector"`
	Fingers  FingersConfig  `yaml:"fingers"`
	Gesture  GestureConfig  `yaml:"gesture"`
	Cursor   CursorConfig   `yaml:"cursor"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Injector InjectorConfig `yaml:"injector"`
	Store    StoreConfig    `yaml:"store"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Tray     TrayConfig     `yaml:"tray"`
}

// CameraConfig selects and sizes the capture device.
type CameraConfig struct {
	Device int  `yaml:"device"`
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	FPS    int  `yaml:"fps"`
	Flip   bool `yaml:"flip"`
}

// DetectorConfig holds hand tracking settings.
type DetectorConfig struct {
	MaxHands               int     `yaml:"max_hands"`
	MinDetectionConfidence float64 `yaml:"min_detection_confidence"`
	MinTrackingConfidence  float64 `yaml:"min_tracking_confidence"`
	Overlay                bool    `yaml:"overlay"`
}

// FingersConfig holds finger-state settings.
type FingersConfig struct {
	// Mirrored selects the thumb rule for a horizontally flipped frame.
	Mirrored bool `yaml:"mirrored"`
}

// GestureConfig holds classifier thresholds in normalized frame units.
type GestureConfig struct {
	PinchThreshold float64 `yaml:"pinch_threshold"`
	SwipeThreshold float64 `yaml:"swipe_threshold"`
}

// CursorConfig holds pointer smoothing settings.
type CursorConfig struct {
	Alpha float64 `yaml:"alpha"`
	// Mirror moves the pointer opposite to frame X.
	Mirror bool `yaml:"mirror"`
}

// DispatchConfig holds action dispatch settings. Bindings map gesture names to
// action names on top of the defaults.
type DispatchConfig struct {
	Cooldown      time.Duration     `yaml:"cooldown"`
	ScrollAmount  int               `yaml:"scroll_amount"`
	SwitchTabKeys []string          `yaml:"switch_tab_keys"`
	Bindings      map[string]string `yaml:"bindings"`
}

// InjectorConfig selects how input is injected.
type InjectorConfig struct {
	Backend   string        `yaml:"backend"`
	PluginDir string        `yaml:"plugin_dir"`
	Timeout   time.Duration `yaml:"timeout"`
	Routes    inject.Routes `yaml:"routes"`
}

// StoreConfig locates the event journal. An empty path disables it.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig holds the status server address. An empty address disables it.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// TrayConfig controls the system tray menu.
type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".mudra")
	dispatch := action.DefaultConfig()

	return &Config{
		Camera: CameraConfig{
			Device: 0,
			Width:  capture.DefaultWidth,
			Height: capture.DefaultHeight,
			FPS:    capture.DefaultFPS,
			Flip:   true,
		},
		Detector: DetectorConfig{
			MaxHands:               1,
			MinDetectionConfidence: 0.7,
			MinTrackingConfidence:  0.7,
		},
		Fingers: FingersConfig{Mirrored: true},
		Gesture: GestureConfig{
			PinchThreshold: gesture.DefaultPinchThreshold,
			SwipeThreshold: gesture.DefaultSwipeThreshold,
		},
		Cursor: CursorConfig{
			Alpha:  cursor.DefaultAlpha,
			Mirror: true,
		},
		Dispatch: DispatchConfig{
			Cooldown:      dispatch.Cooldown,
			ScrollAmount:  dispatch.ScrollAmount,
			SwitchTabKeys: append([]string(nil), dispatch.SwitchTabKeys...),
		},
		Injector: InjectorConfig{
			Backend:   BackendRobotgo,
			PluginDir: filepath.Join(dataDir, "plugins"),
			Timeout:   plugin.DefaultTimeout,
			Routes: inject.Routes{
				Pointer: "pointer",
				Keys:    "keyboard",
				Media:   "system-control",
			},
		},
		Store:  StoreConfig{Path: filepath.Join(dataDir, "mudra.db")},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		Log:    LogConfig{Level: "info"},
		Tray:   TrayConfig{Enabled: true},
	}
}

// Load reads the YAML file at path over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Cursor.Alpha <= 0 || c.Cursor.Alpha > 1 {
		errs = append(errs, fmt.Errorf("cursor.alpha must be in (0, 1], got %g", c.Cursor.Alpha))
	}
	if c.Gesture.PinchThreshold <= 0 {
		errs = append(errs, fmt.Errorf("gesture.pinch_threshold must be positive, got %g", c.Gesture.PinchThreshold))
	}
	if c.Gesture.SwipeThreshold <= 0 {
		errs = append(errs, fmt.Errorf("gesture.swipe_threshold must be positive, got %g", c.Gesture.SwipeThreshold))
	}
	if c.Dispatch.Cooldown <= 0 {
		errs = append(errs, fmt.Errorf("dispatch.cooldown must be positive, got %s", c.Dispatch.Cooldown))
	}
	if c.Detector.MaxHands < 1 {
		errs = append(errs, fmt.Errorf("detector.max_hands must be at least 1, got %d", c.Detector.MaxHands))
	}
	if c.Dispatch.ScrollAmount <= 0 {
		errs = append(errs, fmt.Errorf("dispatch.scroll_amount must be positive, got %d", c.Dispatch.ScrollAmount))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := action.ParseBindings(c.Dispatch.Bindings); err != nil {
		errs = append(errs, fmt.Errorf("dispatch.bindings: %w", err))
	}

	switch c.Injector.Backend {
	case BackendRobotgo, BackendDryRun:
	case BackendPlugin:
		if c.Injector.PluginDir == "" {
			errs = append(errs, errors.New("injector.plugin_dir is required for the plugin backend"))
		}
		if c.Injector.Routes.Pointer == "" {
			errs = append(errs, errors.New("injector.routes.pointer is required for the plugin backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown injector backend %q", c.Injector.Backend))
	}

	return errors.Join(errs...)
}

// CameraSettings converts the camera section for capture.NewCamera.
func (c *Config) CameraSettings() capture.Config {
	return capture.Config{
		DeviceID: c.Camera.Device,
		Width:    c.Camera.Width,
		Height:   c.Camera.Height,
		FPS:      c.Camera.FPS,
		Flip:     c.Camera.Flip,
	}
}

// DetectorSettings converts the detector section for the hand detector.
func (c *Config) DetectorSettings() detector.Config {
	return detector.Config{
		MaxHands:        c.Detector.MaxHands,
		MinConfidence:   c.Detector.MinDetectionConfidence,
		MinTrackingConf: c.Detector.MinTrackingConfidence,
	}
}

// DispatchSettings converts the dispatch section for action.NewDispatcher.
func (c *Config) DispatchSettings() (action.Config, error) {
	bindings, err := action.ParseBindings(c.Dispatch.Bindings)
	if err != nil {
		return action.Config{}, err
	}
	return action.Config{
		Bindings:      bindings,
		Cooldown:      c.Dispatch.Cooldown,
		ScrollAmount:  c.Dispatch.ScrollAmount,
		SwitchTabKeys: c.Dispatch.SwitchTabKeys,
	}, nil
}

// Classifier builds the gesture classifier from the gesture section.
func (c *Config) Classifier() *gesture.Classifier {
	return &gesture.Classifier{
		PinchThreshold: c.Gesture.PinchThreshold,
		SwipeThreshold: c.Gesture.SwipeThreshold,
	}
}
