package gamepad

import "github.com/MartinZikmund/UnoDoom/internal/doom"

// Default deadzones as fractions of full axis/trigger range.
const (
	DefaultStickDeadzone   = 0.2
	DefaultTriggerDeadzone = 0.1
)

// Bindings is the button-to-key table plus axis tuning. The accept button
// and the D-pad are deliberately not part of the static table: their mapping
// is context-sensitive and handled by an explicit branch in the mapper.
type Bindings struct {
	Buttons map[Button]doom.Key

	// Gameplay keys for D-pad and left-stick movement. Menu navigation keys
	// are fixed and not rebindable.
	MoveForward  doom.Key
	MoveBackward doom.Key
	StrafeLeft   doom.Key
	StrafeRight  doom.Key

	StickDeadzone   float64
	TriggerDeadzone float64
}

// DefaultBindings returns the stock controller mapping.
func DefaultBindings() Bindings {
	return Bindings{
		Buttons: map[Button]doom.Key{
			BtnB:     doom.KeyUse,
			BtnStart: doom.KeyEscape,
			BtnBack:  doom.KeyTab,
			BtnLB:    doom.KeyStrafeL,
			BtnRB:    doom.KeyStrafeR,
		},
		MoveForward:     doom.KeyUpArrow,
		MoveBackward:    doom.KeyDownArrow,
		StrafeLeft:      doom.KeyStrafeL,
		StrafeRight:     doom.KeyStrafeR,
		StickDeadzone:   DefaultStickDeadzone,
		TriggerDeadzone: DefaultTriggerDeadzone,
	}
}

// normalized returns a copy with out-of-range tuning replaced by defaults.
func (b Bindings) normalized() Bindings {
	if b.Buttons == nil {
		b.Buttons = DefaultBindings().Buttons
	}
	if b.StickDeadzone <= 0 || b.StickDeadzone >= 1 {
		b.StickDeadzone = DefaultStickDeadzone
	}
	if b.TriggerDeadzone <= 0 || b.TriggerDeadzone >= 1 {
		b.TriggerDeadzone = DefaultTriggerDeadzone
	}
	if b.MoveForward == 0 {
		b.MoveForward = doom.KeyUpArrow
	}
	if b.MoveBackward == 0 {
		b.MoveBackward = doom.KeyDownArrow
	}
	if b.StrafeLeft == 0 {
		b.StrafeLeft = doom.KeyStrafeL
	}
	if b.StrafeRight == 0 {
		b.StrafeRight = doom.KeyStrafeR
	}
	return b
}

// ButtonByName resolves a bindings-file button name.
func ButtonByName(name string) (Button, bool) {
	switch name {
	case "a":
		return BtnA, true
	case "b":
		return BtnB, true
	case "x":
		return BtnX, true
	case "y":
		return BtnY, true
	case "lb":
		return BtnLB, true
	case "rb":
		return BtnRB, true
	case "back", "select":
		return BtnBack, true
	case "start":
		return BtnStart, true
	case "l3":
		return BtnL3, true
	case "r3":
		return BtnR3, true
	case "guide", "home":
		return BtnGuide, true
	}
	return 0, false
}
