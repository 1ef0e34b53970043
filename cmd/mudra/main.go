package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"sync"
	"syscall"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/cursor"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/inject"
	"github.com/ayusman/mudra/internal/logging"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
	"github.com/sirupsen/logrus"
)

// Screen size assumed when the injector cannot report one.
const (
	fallbackWidth  = 1920
	fallbackHeight = 1080
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn, error); overrides the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
			os.Exit(2)
		}
	}

	logger, logFile, err := logging.New(cfg.Log.Level, cfg.Log.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		os.Exit(1)
	}

	err = run(cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Mudra failed")
	}
	logFile.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		st   *store.Store
		sink action.EventSink
		err  error
	)
	if cfg.Store.Path != "" {
		st, err = store.New(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		sink = st.Events()
		version, _, err := st.SchemaVersion()
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}
		log.WithFields(logrus.Fields{"path": st.Path(), "schema": version}).Info("Event journal opened")
	}

	injector, err := newInjector(cfg, log)
	if err != nil {
		return err
	}
	width, height := screenSize(injector, log)

	dispatchCfg, err := cfg.DispatchSettings()
	if err != nil {
		return err
	}
	filter := cursor.NewFilter(width, height, cfg.Cursor.Alpha, cfg.Cursor.Mirror)
	dispatcher := action.NewDispatcher(dispatchCfg, injector, filter, sink, log)
	session := app.NewSession(gesture.NewFingerClassifier(cfg.Fingers.Mirrored), cfg.Classifier(), dispatcher, log)

	extractor := detector.NewExtractor(newDetector(cfg, log), cfg.Detector.Overlay)
	a := app.New(capture.NewCamera(cfg.CameraSettings()), extractor, session, log)

	if st != nil {
		settings := st.Settings()
		a.SetEnabled(settings.Bool(store.SettingEnabled, true))
		a.OnToggle(func(enabled bool) {
			if err := settings.SetBool(store.SettingEnabled, enabled); err != nil {
				log.WithError(err).Warn("Failed to save enabled state")
			}
		})
	}

	if err := a.Start(ctx); err != nil {
		return fmt.Errorf("start recognition: %w", err)
	}
	defer a.Stop()

	var wg sync.WaitGroup
	if cfg.Server.Addr != "" {
		state := server.NewStateHandler(log)
		a.AddObserver(state.Publish)
		stream := server.NewStreamHandler(log)
		a.AddFrameObserver(stream.Publish)

		srvCfg := server.Config{Status: a, State: state, Stream: stream, Log: log}
		if st != nil {
			srvCfg.Events = st.Events()
		}
		srv := server.New(srvCfg)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
				log.WithError(err).Error("Status server failed")
			}
		}()
	}

	if cfg.Tray.Enabled {
		runTray(ctx, stop, a, cfg.Server.Addr, log)
	} else {
		<-ctx.Done()
	}

	log.Info("Shutting down")
	stop()
	wg.Wait()
	return nil
}

// runTray blocks on the tray event loop until Quit is chosen or ctx ends.
func runTray(ctx context.Context, stop context.CancelFunc, a *app.App, addr string, log logrus.FieldLogger) {
	t := tray.New(a.IsEnabled())
	t.OnToggle(a.SetEnabled)
	t.OnQuit(stop)
	if addr != "" {
		t.OnStatus(func() {
			if err := openBrowser(statusURL(addr)); err != nil {
				log.WithError(err).Warn("Failed to open browser")
			}
		})
	}
	a.OnToggle(t.SetEnabled)
	a.AddObserver(t.Observe)

	go func() {
		<-ctx.Done()
		t.Quit()
	}()

	t.Run()
}

func newInjector(cfg *config.Config, log logrus.FieldLogger) (inject.Injector, error) {
	switch cfg.Injector.Backend {
	case config.BackendPlugin:
		mgr := plugin.NewManager(cfg.Injector.PluginDir)
		if err := mgr.Discover(); err != nil {
			return nil, fmt.Errorf("discover plugins: %w", err)
		}
		names := make([]string, 0)
		for _, p := range mgr.List() {
			names = append(names, p.Manifest.Name)
		}
		log.WithFields(logrus.Fields{
			"dir":     mgr.PluginDir(),
			"plugins": strings.Join(names, ","),
		}).Info("Plugins discovered")
		return inject.NewPlugin(mgr, plugin.NewExecutor(cfg.Injector.Timeout), cfg.Injector.Routes), nil

	case config.BackendDryRun:
		log.Info("Dry run: input events are logged, not injected")
		return inject.NewDryRun(log, fallbackWidth, fallbackHeight), nil

	default:
		return inject.NewRobotgo(), nil
	}
}

func screenSize(injector inject.Injector, log logrus.FieldLogger) (int, int) {
	if s, ok := injector.(inject.ScreenSizer); ok {
		if w, h := s.ScreenSize(); w > 0 && h > 0 {
			log.WithFields(logrus.Fields{"width": w, "height": h}).Info("Screen size detected")
			return w, h
		}
	}
	log.WithFields(logrus.Fields{"width": fallbackWidth, "height": fallbackHeight}).Warn("Screen size unknown, using fallback")
	return fallbackWidth, fallbackHeight
}

// newDetector prefers MediaPipe and falls back to a detector that never sees
// a hand, so the rest of the pipeline still runs.
func newDetector(cfg *config.Config, log logrus.FieldLogger) detector.Detector {
	mp, err := detector.NewMediaPipeDetector(cfg.DetectorSettings())
	if err != nil {
		log.WithError(err).Warn("MediaPipe not available, no hands will be detected")
		return detector.NewMockDetector()
	}
	log.Info("Using MediaPipe hand detection")
	return mp
}

func statusURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "127.0.0.1" + addr
	}
	return "http://" + addr + "/api/status"
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
