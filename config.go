package greenmoon

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"go.uber.org/multierr"
)

// Default window and loop settings.
const (
	DefaultWidth     = 640
	DefaultHeight    = 480
	DefaultFrameRate = 60
	DefaultTitle     = "greenmoon"
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds window and loop settings.
type Config struct {
	Title      string
	Width      int
	Height     int
	FrameRate  int
	Debug      bool
	LogLevel   string
	ClearColor Color
	// ConsoleAddr is the listen address of the remote console, empty to
	// disable it.
	ConsoleAddr string
}

// DefaultConfig returns a 640×480 window at 60 frames per second.
func DefaultConfig() Config {
	return Config{
		Title:      DefaultTitle,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		FrameRate:  DefaultFrameRate,
		LogLevel:   "info",
		ClearColor: Color{0, 0, 0, 1},
	}
}

// LoadConfig reads a JSON config. Missing fields keep their defaults:
//
//	{
//	  "title": "demo",
//	  "width": 800, "height": 600,
//	  "frame_rate": 30,
//	  "debug": true,
//	  "log_level": "debug",
//	  "clear_color": [0.1, 0.1, 0.15, 1],
//	  "console_addr": "127.0.0.1:7777"
//	}
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if !gjson.ValidBytes(data) {
		return cfg, fmt.Errorf("%w: malformed JSON", ErrInvalidConfig)
	}
	root := gjson.ParseBytes(data)

	if r := root.Get("title"); r.Exists() {
		cfg.Title = r.String()
	}
	if r := root.Get("width"); r.Exists() {
		cfg.Width = int(r.Int())
	}
	if r := root.Get("height"); r.Exists() {
		cfg.Height = int(r.Int())
	}
	if r := root.Get("frame_rate"); r.Exists() {
		cfg.FrameRate = int(r.Int())
	}
	if r := root.Get("debug"); r.Exists() {
		cfg.Debug = r.Bool()
	}
	if r := root.Get("log_level"); r.Exists() {
		cfg.LogLevel = r.String()
	}
	if r := root.Get("console_addr"); r.Exists() {
		cfg.ConsoleAddr = r.String()
	}
	if r := root.Get("clear_color"); r.Exists() {
		c := r.Array()
		if !r.IsArray() || len(c) != 4 {
			return cfg, fmt.Errorf("%w: clear_color wants 4 numbers", ErrInvalidConfig)
		}
		cfg.ClearColor = Color{c[0].Float(), c[1].Float(), c[2].Float(), c[3].Float()}
	}
	return cfg, cfg.Validate()
}

// LoadConfigFile reads a JSON config from path.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("load config: %w", err)
	}
	cfg, err := LoadConfig(data)
	if err != nil {
		return cfg, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every out-of-range field.
func (c Config) Validate() error {
	var errs error
	if c.Width <= 0 || c.Height <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height))
	}
	if c.FrameRate <= 0 || c.FrameRate > 1000 {
		errs = multierr.Append(errs, fmt.Errorf("%w: frame_rate %d outside 1..1000", ErrInvalidConfig, c.FrameRate))
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = multierr.Append(errs, fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel))
	}
	for _, v := range []float64{c.ClearColor.R, c.ClearColor.G, c.ClearColor.B, c.ClearColor.A} {
		if v < 0 || v > 1 {
			errs = multierr.Append(errs, fmt.Errorf("%w: clear_color component %v outside [0, 1]", ErrInvalidConfig, v))
			break
		}
	}
	return errs
}
