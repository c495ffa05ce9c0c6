// Package gamepad translates polled controller state into key events for the
// game core.
package gamepad

// Button is a digital control bit in the raw device bitmask.
type Button uint32

// Digital buttons reported by a controller backend.
const (
	BtnA Button = 1 << iota
	BtnB
	BtnX
	BtnY
	BtnLB
	BtnRB
	BtnBack
	BtnStart
	BtnL3
	BtnR3
	BtnGuide
	BtnDpadUp
	BtnDpadDown
	BtnDpadLeft
	BtnDpadRight
)

// Sample is one raw device reading: the full button bitmask, both analog
// sticks in [-1,1] per axis, and both triggers in [0,1].
type Sample struct {
	Buttons Button
	LX, LY  float64
	RX, RY  float64
	LT, RT  float64
}

// Sampler reads the current raw state of the active controller. The second
// return is false while no controller is connected, in which case the polling
// cycle is skipped entirely.
type Sampler interface {
	Sample() (Sample, bool)
}

// SamplerFunc adapts a plain function to the Sampler interface.
type SamplerFunc func() (Sample, bool)

// Sample reads the current raw state.
func (f SamplerFunc) Sample() (Sample, bool) { return f() }
