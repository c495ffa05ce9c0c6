package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MartinZikmund/UnoDoom/internal/doom"
	"github.com/MartinZikmund/UnoDoom/internal/gamepad"
)

// bindingsFile is the on-disk YAML shape for controller bindings.
type bindingsFile struct {
	Gamepad struct {
		Buttons         map[string]string `yaml:"buttons"`
		MoveForward     string            `yaml:"move_forward"`
		MoveBackward    string            `yaml:"move_backward"`
		StrafeLeft      string            `yaml:"strafe_left"`
		StrafeRight     string            `yaml:"strafe_right"`
		StickDeadzone   float64           `yaml:"stick_deadzone"`
		TriggerDeadzone float64           `yaml:"trigger_deadzone"`
	} `yaml:"gamepad"`
}

// LoadBindings reads a YAML bindings file and merges it over the stock
// controller mapping. A missing file yields the defaults.
func LoadBindings(path string) (gamepad.Bindings, error) {
	b := gamepad.DefaultBindings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return b, nil
		}
		return gamepad.Bindings{}, fmt.Errorf("read bindings: %w", err)
	}

	var file bindingsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return gamepad.Bindings{}, fmt.Errorf("parse bindings: %w", err)
	}

	g := file.Gamepad
	for btnName, keyName := range g.Buttons {
		btn, ok := gamepad.ButtonByName(btnName)
		if !ok {
			return gamepad.Bindings{}, fmt.Errorf("unknown button %q", btnName)
		}
		key, ok := doom.KeyByName(keyName)
		if !ok {
			return gamepad.Bindings{}, fmt.Errorf("unknown key %q for button %q", keyName, btnName)
		}
		b.Buttons[btn] = key
	}

	if g.MoveForward != "" {
		if b.MoveForward, err = resolveKey(g.MoveForward); err != nil {
			return gamepad.Bindings{}, err
		}
	}
	if g.MoveBackward != "" {
		if b.MoveBackward, err = resolveKey(g.MoveBackward); err != nil {
			return gamepad.Bindings{}, err
		}
	}
	if g.StrafeLeft != "" {
		if b.StrafeLeft, err = resolveKey(g.StrafeLeft); err != nil {
			return gamepad.Bindings{}, err
		}
	}
	if g.StrafeRight != "" {
		if b.StrafeRight, err = resolveKey(g.StrafeRight); err != nil {
			return gamepad.Bindings{}, err
		}
	}
	if g.StickDeadzone != 0 {
		b.StickDeadzone = g.StickDeadzone
	}
	if g.TriggerDeadzone != 0 {
		b.TriggerDeadzone = g.TriggerDeadzone
	}
	return b, nil
}

// resolveKey maps a bindings-file key name to a key code.
func resolveKey(name string) (doom.Key, error) {
	key, ok := doom.KeyByName(name)
	if !ok {
		return 0, fmt.Errorf("unknown key %q", name)
	}
	return key, nil
}
