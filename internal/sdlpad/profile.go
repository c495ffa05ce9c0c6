package sdlpad

import (
	"math"

	"github.com/MartinZikmund/UnoDoom/internal/gamepad"
)

// profile describes how one device family lays out its raw axes and buttons.
type profile struct {
	name    string
	buttons map[int32]gamepad.Button
	lx, ly  int32
	rx, ry  int32
	lt, rt  int32 // -1 when the device has no analog triggers
	// Trigger rest value. Xbox-style pads report -32768 at rest,
	// others report 0.
	triggerMin int16
	hasHat     bool
}

var xboxProfile = &profile{
	name: "xbox",
	buttons: map[int32]gamepad.Button{
		0:  gamepad.BtnA,
		1:  gamepad.BtnB,
		2:  gamepad.BtnX,
		3:  gamepad.BtnY,
		4:  gamepad.BtnLB,
		5:  gamepad.BtnRB,
		6:  gamepad.BtnBack,
		7:  gamepad.BtnStart,
		8:  gamepad.BtnL3,
		9:  gamepad.BtnR3,
		10: gamepad.BtnGuide,
	},
	lx: 0, ly: 1, rx: 2, ry: 3, lt: 4, rt: 5,
	triggerMin: math.MinInt16,
	hasHat:     true,
}

var playstationProfile = &profile{
	name: "playstation",
	buttons: map[int32]gamepad.Button{
		0:  gamepad.BtnA, // Cross
		1:  gamepad.BtnB, // Circle
		2:  gamepad.BtnX, // Square
		3:  gamepad.BtnY, // Triangle
		4:  gamepad.BtnBack,
		5:  gamepad.BtnGuide,
		6:  gamepad.BtnStart,
		7:  gamepad.BtnL3,
		8:  gamepad.BtnR3,
		9:  gamepad.BtnLB,
		10: gamepad.BtnRB,
	},
	lx: 0, ly: 1, rx: 2, ry: 3, lt: 4, rt: 5,
	triggerMin: math.MinInt16,
	hasHat:     true,
}

var switchProProfile = &profile{
	name: "switch_pro",
	buttons: map[int32]gamepad.Button{
		0:  gamepad.BtnA,
		1:  gamepad.BtnB,
		2:  gamepad.BtnX,
		3:  gamepad.BtnY,
		4:  gamepad.BtnLB,
		5:  gamepad.BtnRB,
		6:  gamepad.BtnBack,
		7:  gamepad.BtnStart,
		8:  gamepad.BtnL3,
		9:  gamepad.BtnR3,
		10: gamepad.BtnGuide,
	},
	lx: 0, ly: 1, rx: 2, ry: 3, lt: -1, rt: -1,
	hasHat: true,
}

var genericProfile = &profile{
	name: "generic",
	buttons: map[int32]gamepad.Button{
		0:  gamepad.BtnA,
		1:  gamepad.BtnB,
		2:  gamepad.BtnX,
		3:  gamepad.BtnY,
		4:  gamepad.BtnLB,
		5:  gamepad.BtnRB,
		6:  gamepad.BtnBack,
		7:  gamepad.BtnStart,
		8:  gamepad.BtnL3,
		9:  gamepad.BtnR3,
		10: gamepad.BtnGuide,
	},
	lx: 0, ly: 1, rx: 2, ry: 3, lt: 4, rt: 5,
	triggerMin: math.MinInt16,
	hasHat:     true,
}

type deviceKey struct {
	vendor  uint16
	product uint16
}

var knownDevices = map[deviceKey]*profile{
	{0x045E, 0x028E}: xboxProfile,        // Xbox 360
	{0x045E, 0x02FF}: xboxProfile,        // Xbox One
	{0x045E, 0x0B12}: xboxProfile,        // Xbox Series X|S
	{0x045E, 0x0B13}: xboxProfile,        // Xbox Series X|S (wireless)
	{0x054C, 0x0CE6}: playstationProfile, // DualSense
	{0x054C, 0x09CC}: playstationProfile, // DualShock 4 v2
	{0x054C, 0x05C4}: playstationProfile, // DualShock 4 v1
	{0x057E, 0x2009}: switchProProfile,
}

// profileFor picks a device profile by vendor/product ID, falling back to generic.
func profileFor(vendor, product uint16) *profile {
	if p, ok := knownDevices[deviceKey{vendor, product}]; ok {
		return p
	}
	return genericProfile
}

// normalizeAxis converts a raw axis value (-32768..32767) to -1.0..1.0.
func normalizeAxis(raw int16) float64 {
	v := float64(raw) / math.MaxInt16
	if v < -1.0 {
		v = -1.0
	}
	return v
}

// normalizeTrigger converts a raw trigger value to 0.0..1.0 given its rest level.
func normalizeTrigger(raw int16, rawMin int16) float64 {
	span := float64(math.MaxInt16) - float64(rawMin)
	if span <= 0 {
		return 0
	}
	v := (float64(raw) - float64(rawMin)) / span
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return v
}
