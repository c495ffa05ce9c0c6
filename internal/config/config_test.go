package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MartinZikmund/UnoDoom/internal/doom"
	"github.com/MartinZikmund/UnoDoom/internal/gamepad"
)

// TestLoad_Defaults verifies defaults apply when only the password is set.
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("UI_PASSWORD", "secret")
	t.Setenv("DATA_DIR", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.FPS != 35 {
		t.Fatalf("expected tic-rate default 35, got %d", cfg.FPS)
	}
	if cfg.OverlayDeadzone != 0.25 {
		t.Fatalf("expected deadzone 0.25, got %v", cfg.OverlayDeadzone)
	}
	if cfg.GamepadPollMs != 16 {
		t.Fatalf("expected poll interval 16ms, got %d", cfg.GamepadPollMs)
	}
}

// TestLoad_RequiresPassword verifies the password is mandatory.
func TestLoad_RequiresPassword(t *testing.T) {
	t.Setenv("UI_PASSWORD", "")
	t.Setenv("DATA_DIR", t.TempDir())

	if _, err := Load(); err == nil {
		t.Fatal("expected error without UI_PASSWORD")
	}
}

// TestLoad_RejectsBadDeadzone verifies the overlay deadzone range check.
func TestLoad_RejectsBadDeadzone(t *testing.T) {
	t.Setenv("UI_PASSWORD", "secret")
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("OVERLAY_DEADZONE", "1.5")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for deadzone outside [0, 1)")
	}
}

// TestLoad_RejectsBadQuality verifies the MJPEG quality range check.
func TestLoad_RejectsBadQuality(t *testing.T) {
	t.Setenv("UI_PASSWORD", "secret")
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("MJPEG_QUALITY", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for quality outside 1-100")
	}
}

// TestLoadBindings_MissingFileUsesDefaults verifies absence is not an error.
func TestLoadBindings_MissingFileUsesDefaults(t *testing.T) {
	b, err := LoadBindings(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadBindings: %v", err)
	}
	if b.Buttons[gamepad.BtnB] != doom.KeyUse {
		t.Fatalf("expected stock B binding, got %v", b.Buttons[gamepad.BtnB])
	}
	if b.StickDeadzone != gamepad.DefaultStickDeadzone {
		t.Fatalf("expected default stick deadzone, got %v", b.StickDeadzone)
	}
}

// TestLoadBindings_MergesOverrides verifies YAML values override the defaults.
func TestLoadBindings_MergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindings.yaml")
	data := []byte(`gamepad:
  buttons:
    x: use
    rb: run
  move_forward: up
  stick_deadzone: 0.3
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	b, err := LoadBindings(path)
	if err != nil {
		t.Fatalf("LoadBindings: %v", err)
	}
	if b.Buttons[gamepad.BtnX] != doom.KeyUse {
		t.Fatalf("expected X bound to use, got %v", b.Buttons[gamepad.BtnX])
	}
	if b.Buttons[gamepad.BtnRB] != doom.KeyRun {
		t.Fatalf("expected RB rebound to run, got %v", b.Buttons[gamepad.BtnRB])
	}
	// Unmentioned defaults survive the merge.
	if b.Buttons[gamepad.BtnStart] != doom.KeyEscape {
		t.Fatalf("expected stock start binding, got %v", b.Buttons[gamepad.BtnStart])
	}
	if b.StickDeadzone != 0.3 {
		t.Fatalf("expected stick deadzone 0.3, got %v", b.StickDeadzone)
	}
}

// TestLoadBindings_UnknownNamesFail verifies bad names are loud, not silent.
func TestLoadBindings_UnknownNamesFail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bindings.yaml")
	data := []byte(`gamepad:
  buttons:
    zz: fire
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadBindings(path); err == nil {
		t.Fatal("expected error for unknown button name")
	}
}
