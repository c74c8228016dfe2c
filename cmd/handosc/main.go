package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"go.uber.org/zap"

	"github.com/ayusman/handosc/internal/app"
	"github.com/ayusman/handosc/internal/audio"
	"github.com/ayusman/handosc/internal/capture"
	"github.com/ayusman/handosc/internal/config"
	"github.com/ayusman/handosc/internal/detector"
	"github.com/ayusman/handosc/internal/pipeline"
	"github.com/ayusman/handosc/internal/server"
	"github.com/ayusman/handosc/internal/store"
	"github.com/ayusman/handosc/internal/transport"
	"github.com/ayusman/handosc/internal/tray"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "handosc: %v\n", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.DebugMode)
	if err != nil {
		panic(err)
	}
	log := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	log.Infow("Starting handosc",
		"oscTarget", fmt.Sprintf("%s:%d", cfg.OSCHost, cfg.OSCPort),
		"camera", cfg.CameraID,
		"debugMode", cfg.DebugMode,
	)

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalw("Failed to create data directory", "dir", cfg.DataDir, "error", err)
	}
	st, err := store.New(cfg.DatabasePath())
	if err != nil {
		log.Fatalw("Failed to initialize store", "error", err)
	}
	defer st.Close()

	client, err := transport.NewClient(cfg.OSCHost, cfg.OSCPort, log)
	if err != nil {
		log.Fatalw("Failed to create OSC client", "error", err)
	}

	var cues pipeline.Cues
	if player, err := audio.LoadPlayer(cfg.AppearSound, cfg.DisappearSound, log); err != nil {
		log.Warnw("Audio cues disabled", "error", err)
	} else {
		cues = player
	}

	var det detector.Detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig(), log); err == nil {
		det = mp
		log.Infow("Using MediaPipe hand detection")
	} else {
		log.Warnw("MediaPipe not available, using mock detector", "error", err)
		det = detector.NewMockDetector()
	}

	camera := capture.NewCamera(capture.Options{
		DeviceID: cfg.CameraID,
		Width:    cfg.CaptureWidth,
		Height:   cfg.CaptureHeight,
		FPS:      cfg.CaptureFPS,
	})

	points := server.NewPointsHandler(log)
	stream := server.NewStreamHandler(log)

	pipe := pipeline.New(pipeline.Options{
		Projector: pipeline.NewAspectFill(cfg.CaptureWidth, cfg.CaptureHeight, cfg.ViewWidth, cfg.ViewHeight, cfg.Mirror),
		Transport: client,
		Overlay:   points,
		Cues:      cues,
		Logger:    log,
	})

	application := app.New(app.Options{
		Camera:    camera,
		Detector:  det,
		Pipeline:  pipe,
		Store:     st,
		FrameTap:  stream,
		OSCTarget: client.Target(),
		Logger:    log,
	})
	defer func() {
		if err := application.Close(); err != nil {
			log.Warnw("Error closing detector", "error", err)
		}
		sent, failed := client.Stats()
		log.Infow("Stopped", "oscSent", sent, "oscFailed", failed)
	}()

	webDir := findWebDir(cfg.StaticDir, cfg.DataDir)
	if webDir != "" {
		log.Infow("Serving static files", "dir", webDir)
	}

	srv := server.New(server.Config{
		StaticDir:  webDir,
		Store:      st,
		Controller: application,
		Stream:     stream,
		Points:     points,
		Logger:     log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
			log.Errorw("Server failed", "error", err)
			stop()
		}
	}()

	if cfg.Tray {
		runTray(ctx, stop, application, cfg.HTTPAddr, log)
		return
	}

	application.OnFatal(func(err error) {
		log.Errorw("Capture stopped, restart it with POST /api/session/start", "error", err)
	})
	if err := application.Start(); err != nil {
		log.Errorw("Capture not started", "error", err)
	}

	<-ctx.Done()
}

// runTray blocks in the tray loop until Quit is chosen or ctx is done.
func runTray(ctx context.Context, stop context.CancelFunc, application *app.App, httpAddr string, log *zap.SugaredLogger) {
	t := tray.New()

	t.OnToggle(func(start bool) error {
		if !start {
			application.Stop()
			return nil
		}
		err := application.Start()
		t.SetError(err)
		return err
	})
	t.OnPreview(func() {
		if err := openBrowser("http://" + httpAddr); err != nil {
			log.Warnw("Failed to open browser", "error", err)
		}
	})
	t.OnQuit(stop)

	application.OnPresence(t.SetHandVisible)
	application.OnFatal(func(err error) {
		t.SetError(err)
		t.SetRunning(false)
	})

	go func() {
		<-ctx.Done()
		t.Quit()
	}()

	t.Run()
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// findWebDir returns the first existing directory among the configured
// one, the usual relative locations and the data directory.
func findWebDir(configured, dataDir string) string {
	candidates := []string{configured, "web", "../web", "../../web", filepath.Join(dataDir, "web")}
	for _, p := range candidates {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}
	return ""
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
