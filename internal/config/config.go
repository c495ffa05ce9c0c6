// Package config loads environment configuration for UnoDoom.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultListenAddr      = "0.0.0.0:8787"
	defaultDataDir         = "./data"
	defaultFFmpegPath      = "ffmpeg"
	defaultFPS             = 35 // engine tic rate
	defaultBitrateKbps     = 4000
	defaultMJPEGEnabled    = true
	defaultMJPEGIntervalMs = 120
	defaultMJPEGQuality    = 60
	defaultOverlayDeadzone = 0.25
	defaultGamepadPollMs   = 16
)

// Config holds runtime configuration values.
type Config struct {
	ListenAddr      string
	UIPassword      string
	DataDir         string
	LayoutPath      string
	BindingsPath    string
	FFmpegPath      string
	FPS             int
	BitrateKbps     int
	MJPEGEnabled    bool
	MJPEGIntervalMs int
	MJPEGQuality    int
	OverlayDeadzone float64
	GamepadPollMs   int
	GamepadEnabled  bool
}

// Load reads configuration from ./data/.env and environment variables.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:      defaultListenAddr,
		DataDir:         defaultDataDir,
		LayoutPath:      filepath.Join(defaultDataDir, "layout.json"),
		BindingsPath:    filepath.Join(defaultDataDir, "bindings.yaml"),
		FFmpegPath:      defaultFFmpegPath,
		FPS:             defaultFPS,
		BitrateKbps:     defaultBitrateKbps,
		MJPEGEnabled:    defaultMJPEGEnabled,
		MJPEGIntervalMs: defaultMJPEGIntervalMs,
		MJPEGQuality:    defaultMJPEGQuality,
		OverlayDeadzone: defaultOverlayDeadzone,
		GamepadPollMs:   defaultGamepadPollMs,
		GamepadEnabled:  true,
	}

	if err := loadEnvFile(filepath.Join(cfg.DataDir, ".env")); err != nil {
		return Config{}, err
	}

	cfg.ListenAddr = envString("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DataDir = envString("DATA_DIR", cfg.DataDir)
	cfg.LayoutPath = envString("LAYOUT_PATH", filepath.Join(cfg.DataDir, "layout.json"))
	cfg.BindingsPath = envString("BINDINGS_PATH", filepath.Join(cfg.DataDir, "bindings.yaml"))
	cfg.FFmpegPath = envString("FFMPEG_PATH", cfg.FFmpegPath)
	cfg.UIPassword = strings.TrimSpace(os.Getenv("UI_PASSWORD"))

	fps, err := envInt("FPS", cfg.FPS)
	if err != nil {
		return Config{}, err
	}
	if fps <= 0 {
		return Config{}, fmt.Errorf("FPS must be > 0")
	}
	cfg.FPS = fps

	bitrate, err := envInt("BITRATE_KBPS", cfg.BitrateKbps)
	if err != nil {
		return Config{}, err
	}
	cfg.BitrateKbps = bitrate

	cfg.MJPEGEnabled = envBool("MJPEG_ENABLED", cfg.MJPEGEnabled)
	cfg.GamepadEnabled = envBool("GAMEPAD_ENABLED", cfg.GamepadEnabled)

	mjpegInterval, err := envInt("MJPEG_INTERVAL_MS", cfg.MJPEGIntervalMs)
	if err != nil {
		return Config{}, err
	}
	cfg.MJPEGIntervalMs = mjpegInterval

	mjpegQuality, err := envInt("MJPEG_QUALITY", cfg.MJPEGQuality)
	if err != nil {
		return Config{}, err
	}
	if mjpegQuality <= 0 || mjpegQuality > 100 {
		return Config{}, fmt.Errorf("MJPEG_QUALITY must be 1-100")
	}
	cfg.MJPEGQuality = mjpegQuality

	deadzone, err := envFloat("OVERLAY_DEADZONE", cfg.OverlayDeadzone)
	if err != nil {
		return Config{}, err
	}
	if deadzone < 0 || deadzone >= 1 {
		return Config{}, fmt.Errorf("OVERLAY_DEADZONE must be in [0, 1)")
	}
	cfg.OverlayDeadzone = deadzone

	pollMs, err := envInt("GAMEPAD_POLL_MS", cfg.GamepadPollMs)
	if err != nil {
		return Config{}, err
	}
	if pollMs <= 0 {
		return Config{}, fmt.Errorf("GAMEPAD_POLL_MS must be > 0")
	}
	cfg.GamepadPollMs = pollMs

	if cfg.UIPassword == "" {
		return Config{}, errors.New("UI_PASSWORD is required")
	}

	return cfg, nil
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// envFloat returns a float env override when present, otherwise a default.
func envFloat(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", key, err)
	}
	return value, nil
}

// envBool returns a bool env override when present, otherwise a default.
func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// loadEnvFile loads KEY=VALUE pairs from a .env file.
func loadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// parseEnvLine parses a single .env line into key/value.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	if strings.HasPrefix(line, "export ") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	}
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", false
	}
	value = strings.Trim(value, `"'`)
	return key, value, true
}
