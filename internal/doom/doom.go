package doom

import "log"

// TicRate is the simulation rate of the core in tics per second.
const TicRate = 35

// EventKind distinguishes press and release key events.
type EventKind int

const (
	// KeyDown is a key press event.
	KeyDown EventKind = iota
	// KeyUp is a key release event.
	KeyUp
)

// String returns a short label for logging.
func (k EventKind) String() string {
	if k == KeyDown {
		return "down"
	}
	return "up"
}

// KeySink receives key transition events from the input mappers. Calls are
// fire-and-forget and arrive exactly once per logical transition.
type KeySink interface {
	SetKeyStatus(kind EventKind, key Key, tic uint32)
}

// Ticker reports the core's current game tic, used to timestamp key events.
type Ticker interface {
	Tic() uint32
}

// TickerFunc adapts a plain function to the Ticker interface.
type TickerFunc func() uint32

// Tic returns the current game tic.
func (f TickerFunc) Tic() uint32 { return f() }

// MenuProber reports whether the core's menu is currently active. The gamepad
// mapper polls it at event-emission time.
type MenuProber interface {
	MenuActive() bool
}

// MenuProberFunc adapts a plain function to the MenuProber interface.
type MenuProberFunc func() bool

// MenuActive reports whether a menu is active.
func (f MenuProberFunc) MenuActive() bool { return f() }

// NeverInMenu is a MenuProber for standalone use without an attached core.
var NeverInMenu MenuProber = MenuProberFunc(func() bool { return false })

// LogSink logs key transitions instead of delivering them to a core.
type LogSink struct{}

// SetKeyStatus prints the transition.
func (LogSink) SetKeyStatus(kind EventKind, key Key, tic uint32) {
	log.Printf("key: %s 0x%02x tic=%d", kind, int(key), tic)
}
