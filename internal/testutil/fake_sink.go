// Package testutil provides recording fakes for the input mapper tests.
package testutil

import (
	"github.com/MartinZikmund/UnoDoom/internal/doom"
)

// KeyEvent records a single key transition delivered to the fake sink.
type KeyEvent struct {
	Kind doom.EventKind
	Key  doom.Key
	Tic  uint32
}

// FakeKeySink implements doom.KeySink and records every transition.
type FakeKeySink struct {
	Events []KeyEvent
}

// Ensure FakeKeySink implements the interface.
var _ doom.KeySink = (*FakeKeySink)(nil)

// SetKeyStatus records the transition.
func (f *FakeKeySink) SetKeyStatus(kind doom.EventKind, key doom.Key, tic uint32) {
	f.Events = append(f.Events, KeyEvent{Kind: kind, Key: key, Tic: tic})
}

// CountFor returns how many events were recorded for a key and kind.
func (f *FakeKeySink) CountFor(kind doom.EventKind, key doom.Key) int {
	n := 0
	for _, e := range f.Events {
		if e.Kind == kind && e.Key == key {
			n++
		}
	}
	return n
}

// Reset clears the recorded events.
func (f *FakeKeySink) Reset() {
	f.Events = nil
}

// FixedTicker is a doom.Ticker returning a settable tic.
type FixedTicker struct {
	Current uint32
}

// Tic returns the current tic.
func (t *FixedTicker) Tic() uint32 { return t.Current }

// FakeCapturer records pointer capture acquire/release calls.
type FakeCapturer struct {
	Captured []int
	Released []int
}

// Capture records an acquire.
func (f *FakeCapturer) Capture(pointerID int) {
	f.Captured = append(f.Captured, pointerID)
}

// Release records a release.
func (f *FakeCapturer) Release(pointerID int) {
	f.Released = append(f.Released, pointerID)
}
