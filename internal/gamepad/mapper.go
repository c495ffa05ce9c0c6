package gamepad

import (
	"github.com/MartinZikmund/UnoDoom/internal/doom"
)

// buttonOrder lists the bitmask bits in emission order so a single sample
// changing several buttons produces a stable event sequence.
var buttonOrder = [...]Button{
	BtnA, BtnB, BtnX, BtnY, BtnLB, BtnRB, BtnBack, BtnStart,
	BtnL3, BtnR3, BtnGuide, BtnDpadUp, BtnDpadDown, BtnDpadLeft, BtnDpadRight,
}

// axisSignals tracks the boolean edge state derived from the analog axes on
// the previous polling cycle.
type axisSignals struct {
	forward, backward bool
	strafeL, strafeR  bool
	turnL, turnR      bool
	runTrig, fireTrig bool
}

// Mapper converts raw controller samples into edge-triggered key events.
// All state is confined to the polling goroutine.
type Mapper struct {
	sampler Sampler
	sink    doom.KeySink
	tics    doom.Ticker
	menu    doom.MenuProber
	b       Bindings

	prev Sample
	axis axisSignals
}

// NewMapper returns a mapper reading from the given sampler.
func NewMapper(sampler Sampler, sink doom.KeySink, tics doom.Ticker, menu doom.MenuProber, b Bindings) *Mapper {
	if menu == nil {
		menu = doom.NeverInMenu
	}
	return &Mapper{
		sampler: sampler,
		sink:    sink,
		tics:    tics,
		menu:    menu,
		b:       b.normalized(),
	}
}

// Poll reads one sample and emits events for every observed transition. With
// no controller connected the cycle is skipped: no emission, no state change.
func (m *Mapper) Poll() {
	s, ok := m.sampler.Sample()
	if !ok {
		return
	}
	m.pollButtons(s)
	m.pollSticks(s)
	m.pollTriggers(s)
	m.prev = s
}

// pollButtons edge-detects digital buttons against the previous bitmask.
func (m *Mapper) pollButtons(s Sample) {
	changed := s.Buttons ^ m.prev.Buttons
	if changed == 0 {
		return
	}
	for _, btn := range buttonOrder {
		if changed&btn == 0 {
			continue
		}
		key, ok := m.keyFor(btn)
		if !ok {
			continue
		}
		if s.Buttons&btn != 0 {
			m.emit(doom.KeyDown, key)
		} else {
			m.emit(doom.KeyUp, key)
		}
	}
}

// keyFor resolves a button to a key. The accept button and the D-pad are
// context-sensitive and resolved per event against the core's menu flag.
func (m *Mapper) keyFor(btn Button) (doom.Key, bool) {
	switch btn {
	case BtnA:
		// Accept confirms menu entries while a menu is active and fires
		// otherwise. The gameplay half honors a bindings override.
		if m.menu.MenuActive() {
			return doom.KeyEnter, true
		}
		if key, ok := m.b.Buttons[BtnA]; ok {
			return key, true
		}
		return doom.KeyFire, true
	case BtnDpadUp:
		if m.menu.MenuActive() {
			return doom.KeyUpArrow, true
		}
		return m.b.MoveForward, true
	case BtnDpadDown:
		if m.menu.MenuActive() {
			return doom.KeyDownArrow, true
		}
		return m.b.MoveBackward, true
	case BtnDpadLeft:
		// Intentional asymmetry: unlike up/down, left/right always
		// turn, menu or not.
		return doom.KeyLeftArrow, true
	case BtnDpadRight:
		return doom.KeyRightArrow, true
	}
	key, ok := m.b.Buttons[btn]
	return key, ok
}

// pollSticks derives boolean direction signals from the deadzone-gated axes
// and emits on change. The right stick's vertical axis is read but discarded:
// the core has no vertical look.
func (m *Mapper) pollSticks(s Sample) {
	dz := m.b.StickDeadzone
	m.signal(&m.axis.forward, s.LY < -dz, m.b.MoveForward)
	m.signal(&m.axis.backward, s.LY > dz, m.b.MoveBackward)
	m.signal(&m.axis.strafeL, s.LX < -dz, m.b.StrafeLeft)
	m.signal(&m.axis.strafeR, s.LX > dz, m.b.StrafeRight)
	m.signal(&m.axis.turnL, s.RX < -dz, doom.KeyLeftArrow)
	m.signal(&m.axis.turnR, s.RX > dz, doom.KeyRightArrow)
	_ = s.RY
}

// pollTriggers treats each trigger crossing its threshold as a button edge:
// left trigger runs, right trigger fires.
func (m *Mapper) pollTriggers(s Sample) {
	dz := m.b.TriggerDeadzone
	m.signal(&m.axis.runTrig, s.LT > dz, doom.KeyRun)
	m.signal(&m.axis.fireTrig, s.RT > dz, doom.KeyFire)
}

// signal emits a key edge when the derived boolean state changes.
func (m *Mapper) signal(state *bool, now bool, key doom.Key) {
	if now == *state {
		return
	}
	*state = now
	if now {
		m.emit(doom.KeyDown, key)
	} else {
		m.emit(doom.KeyUp, key)
	}
}

// emit forwards one key transition to the sink.
func (m *Mapper) emit(kind doom.EventKind, key doom.Key) {
	if m.sink == nil {
		return
	}
	var tic uint32
	if m.tics != nil {
		tic = m.tics.Tic()
	}
	m.sink.SetKeyStatus(kind, key, tic)
}
