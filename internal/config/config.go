// Package config loads handosc settings from defaults, a .env file, the
// environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DebugMode bool `env:"DEBUG_MODE"` // development logger and debug output

	// OSC receiver
	OSCHost string `env:"OSC_HOST"`
	OSCPort int    `env:"OSC_PORT"`

	// Capture device
	CameraID      int `env:"CAMERA_ID"`
	CaptureWidth  int `env:"CAPTURE_WIDTH"`
	CaptureHeight int `env:"CAPTURE_HEIGHT"`
	CaptureFPS    int `env:"CAPTURE_FPS"`

	// Preview surface the points are projected onto
	ViewWidth  int  `env:"VIEW_WIDTH"`
	ViewHeight int  `env:"VIEW_HEIGHT"`
	Mirror     bool `env:"MIRROR"` // front-facing camera preview

	AppearSound    string `env:"APPEAR_SOUND"`    // wav or mp3 played when a hand appears
	DisappearSound string `env:"DISAPPEAR_SOUND"` // optional; empty stops the appear cue instead

	HTTPAddr  string `env:"HTTP_ADDR"`
	DataDir   string `env:"DATA_DIR"`
	StaticDir string `env:"STATIC_DIR"`
	Tray      bool   `env:"TRAY"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		OSCHost:       "192.168.1.100",
		OSCPort:       8000,
		CameraID:      0,
		CaptureWidth:  1280,
		CaptureHeight: 720,
		CaptureFPS:    30,
		ViewWidth:     1280,
		ViewHeight:    720,
		Mirror:        true,
		AppearSound:   "sound/appear.wav",
		HTTPAddr:      "127.0.0.1:8080",
		DataDir:       filepath.Join(home, ".handosc"),
		StaticDir:     "web",
		Tray:          false,
	}
}

// Load builds the configuration for a run with the given command-line
// arguments (without the program name). A missing .env file is not an error.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	fs := flag.NewFlagSet("handosc", flag.ContinueOnError)
	fs.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "enable development logging")
	fs.StringVar(&cfg.OSCHost, "osc-host", cfg.OSCHost, "host of the OSC receiver")
	fs.IntVar(&cfg.OSCPort, "osc-port", cfg.OSCPort, "UDP port of the OSC receiver")
	fs.IntVar(&cfg.CameraID, "camera-id", cfg.CameraID, "video capture device id")
	fs.IntVar(&cfg.CaptureWidth, "capture-width", cfg.CaptureWidth, "capture frame width in pixels")
	fs.IntVar(&cfg.CaptureHeight, "capture-height", cfg.CaptureHeight, "capture frame height in pixels")
	fs.IntVar(&cfg.CaptureFPS, "capture-fps", cfg.CaptureFPS, "capture frame rate")
	fs.IntVar(&cfg.ViewWidth, "view-width", cfg.ViewWidth, "preview width the points are projected onto")
	fs.IntVar(&cfg.ViewHeight, "view-height", cfg.ViewHeight, "preview height the points are projected onto")
	fs.BoolVar(&cfg.Mirror, "mirror", cfg.Mirror, "mirror the preview horizontally")
	fs.StringVar(&cfg.AppearSound, "appear-sound", cfg.AppearSound, "sound played when a hand appears (wav or mp3)")
	fs.StringVar(&cfg.DisappearSound, "disappear-sound", cfg.DisappearSound, "sound played when the hand is lost (optional)")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "address of the control server")
	fs.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for the session journal")
	fs.StringVar(&cfg.StaticDir, "static-dir", cfg.StaticDir, "directory of the web preview")
	fs.BoolVar(&cfg.Tray, "tray", cfg.Tray, "run with a system tray icon")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration can drive a capture session.
func (c *Config) Validate() error {
	if c.OSCHost == "" {
		return errors.New("config: osc host is required")
	}
	if c.OSCPort <= 0 || c.OSCPort > 65535 {
		return fmt.Errorf("config: invalid osc port %d", c.OSCPort)
	}
	if c.CameraID < 0 {
		return fmt.Errorf("config: invalid camera id %d", c.CameraID)
	}
	if c.CaptureWidth <= 0 || c.CaptureHeight <= 0 {
		return fmt.Errorf("config: invalid capture size %dx%d", c.CaptureWidth, c.CaptureHeight)
	}
	if c.CaptureFPS <= 0 {
		return fmt.Errorf("config: invalid capture fps %d", c.CaptureFPS)
	}
	if c.ViewWidth <= 0 || c.ViewHeight <= 0 {
		return fmt.Errorf("config: invalid view size %dx%d", c.ViewWidth, c.ViewHeight)
	}
	if c.DataDir == "" {
		return errors.New("config: data dir is required")
	}
	return nil
}

// DatabasePath returns the path of the session journal.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "handosc.db")
}
