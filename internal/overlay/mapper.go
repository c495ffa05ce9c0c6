// Package overlay converts touch contacts on the virtual control surface into
// key events and per-tick analog commands for the game core.
package overlay

import (
	"math"
	"sync"

	"github.com/MartinZikmund/UnoDoom/internal/doom"
	"github.com/MartinZikmund/UnoDoom/internal/geom"
	"github.com/MartinZikmund/UnoDoom/internal/layout"
)

// DefaultDeadzone is the joystick deadzone as a fraction of the stick radius.
const DefaultDeadzone = 0.25

// weaponSlots is the closed range of cyclable weapon slots.
const weaponSlots = 7

// Capturer acquires and releases platform pointer capture for a contact, so
// move/up events keep routing to the overlay after the contact leaves a
// control's bounds. Both calls are best-effort.
type Capturer interface {
	Capture(pointerID int)
	Release(pointerID int)
}

// NoopCapturer is used when the platform tracks contacts itself.
type NoopCapturer struct{}

// Capture does nothing.
func (NoopCapturer) Capture(int) {}

// Release does nothing.
func (NoopCapturer) Release(int) {}

// stick tracks one virtual joystick and the pointer that owns it.
type stick struct {
	owner   int
	held    bool
	center  geom.Point
	current geom.Point
}

// offset returns the current displacement from center. Zero while unheld.
func (s *stick) offset() geom.Point {
	if !s.held {
		return geom.Point{}
	}
	return s.current.Sub(s.center)
}

// Mapper owns pointer-to-control assignment for the touch overlay. All state
// is guarded by one mutex; contact callbacks and the per-tick command builder
// may arrive from different goroutines.
type Mapper struct {
	mu       sync.Mutex
	layout   *layout.Layout
	sink     doom.KeySink
	tics     doom.Ticker
	capture  Capturer
	deadzone float64

	move stick
	look stick

	owners      map[int]layout.Control
	buttonOwner map[layout.Control]int

	runOn         bool
	weapon        int
	pendingWeapon int
	onHide        func()
	onWeapon      func(int)
	onRun         func(bool)
}

// NewMapper returns a mapper bound to the given layout and key sink.
func NewMapper(lay *layout.Layout, sink doom.KeySink, tics doom.Ticker) *Mapper {
	return &Mapper{
		layout:      lay,
		sink:        sink,
		tics:        tics,
		capture:     NoopCapturer{},
		deadzone:    DefaultDeadzone,
		owners:      make(map[int]layout.Control),
		buttonOwner: make(map[layout.Control]int),
		weapon:      1,
	}
}

// SetCapturer installs the platform pointer-capture hook.
func (m *Mapper) SetCapturer(c Capturer) {
	if c == nil {
		c = NoopCapturer{}
	}
	m.mu.Lock()
	m.capture = c
	m.mu.Unlock()
}

// SetDeadzone overrides the joystick deadzone fraction.
func (m *Mapper) SetDeadzone(f float64) {
	if f < 0 || f >= 1 {
		return
	}
	m.mu.Lock()
	m.deadzone = f
	m.mu.Unlock()
}

// OnHide registers the hide-overlay notification callback, fired once per
// explicit user request.
func (m *Mapper) OnHide(fn func()) {
	m.mu.Lock()
	m.onHide = fn
	m.mu.Unlock()
}

// OnWeapon registers a callback fired with the new slot on every weapon
// selection.
func (m *Mapper) OnWeapon(fn func(slot int)) {
	m.mu.Lock()
	m.onWeapon = fn
	m.mu.Unlock()
}

// OnRunToggle registers a callback fired on every run toggle flip.
func (m *Mapper) OnRunToggle(fn func(on bool)) {
	m.mu.Lock()
	m.onRun = fn
	m.mu.Unlock()
}

// PointerDown tests a new contact against the controls in claim priority
// order. The first free matching control claims the pointer; contacts
// matching nothing are ignored.
func (m *Mapper) PointerDown(pointerID int, p geom.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.owners[pointerID]; taken {
		return
	}

	for _, c := range layout.ClaimOrder {
		bounds, ok := m.layout.BoundsOf(c)
		if !ok || !geom.Contains(bounds, p) {
			continue
		}
		if !m.claimLocked(c, pointerID, bounds, p) {
			continue
		}
		m.owners[pointerID] = c
		m.capture.Capture(pointerID)
		return
	}
}

// claimLocked attempts to bind a pointer to one control and runs its press
// action. Returns false when the control is already owned.
func (m *Mapper) claimLocked(c layout.Control, pointerID int, bounds geom.Rect, p geom.Point) bool {
	switch c {
	case layout.ControlMove, layout.ControlLook:
		st := m.stickFor(c)
		if st.held {
			return false
		}
		st.owner = pointerID
		st.held = true
		st.center = geom.Center(bounds)
		// The stick engages from wherever it was first touched; the first
		// sample's magnitude reflects the initial offset from true center.
		st.current = geom.ClampToRadius(st.center, p, m.layout.StickRadius())
		return true
	default:
		if _, owned := m.buttonOwner[c]; owned {
			return false
		}
		m.buttonOwner[c] = pointerID
		m.pressLocked(c)
		return true
	}
}

// PointerMove updates the stick owned by the pointer, clamping the offset to
// the stick radius. Button regions ignore motion.
func (m *Mapper) PointerMove(pointerID int, p geom.Point) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.owners[pointerID]
	if !ok {
		return
	}
	switch c {
	case layout.ControlMove, layout.ControlLook:
		st := m.stickFor(c)
		if st.held && st.owner == pointerID {
			st.current = geom.ClampToRadius(st.center, p, m.layout.StickRadius())
		}
	}
}

// PointerUp releases whichever control the pointer owns. Cancel and capture
// loss are delivered here too; releasing an unowned pointer is a no-op.
func (m *Mapper) PointerUp(pointerID int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.owners[pointerID]
	if !ok {
		return
	}
	delete(m.owners, pointerID)
	// Capture release must be reached on every termination path.
	defer m.capture.Release(pointerID)

	switch c {
	case layout.ControlMove, layout.ControlLook:
		st := m.stickFor(c)
		if st.held && st.owner == pointerID {
			st.held = false
			st.current = st.center
		}
	default:
		delete(m.buttonOwner, c)
		m.releaseLocked(c)
	}
}

// PointerCancel is equivalent to PointerUp: the slot must never stay occupied
// after a forced termination.
func (m *Mapper) PointerCancel(pointerID int) {
	m.PointerUp(pointerID)
}

// ReleaseAll releases every owned pointer. Used when the control channel
// drops so no stick stays deflected and no button stays down.
func (m *Mapper) ReleaseAll() {
	m.mu.Lock()
	ids := make([]int, 0, len(m.owners))
	for id := range m.owners {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	for _, id := range ids {
		m.PointerUp(id)
	}
}

// stickFor returns the stick state backing a stick control.
func (m *Mapper) stickFor(c layout.Control) *stick {
	if c == layout.ControlMove {
		return &m.move
	}
	return &m.look
}

// pressLocked runs a button control's press action and emits its key edge.
func (m *Mapper) pressLocked(c layout.Control) {
	switch c {
	case layout.ControlFire:
		m.emitLocked(doom.KeyDown, doom.KeyFire)
	case layout.ControlUse:
		m.emitLocked(doom.KeyDown, doom.KeyUse)
	case layout.ControlMenu:
		m.emitLocked(doom.KeyDown, doom.KeyEscape)
	case layout.ControlMap:
		m.emitLocked(doom.KeyDown, doom.KeyTab)
	case layout.ControlRun:
		// Run is a toggle: each tap flips persistent state and mirrors it as
		// the run key being held or released.
		m.runOn = !m.runOn
		if m.runOn {
			m.emitLocked(doom.KeyDown, doom.KeyRun)
		} else {
			m.emitLocked(doom.KeyUp, doom.KeyRun)
		}
		if m.onRun != nil {
			m.onRun(m.runOn)
		}
	case layout.ControlHide:
		if m.onHide != nil {
			m.onHide()
		}
	case layout.ControlWeaponPrev:
		m.cycleWeaponLocked(-1)
	case layout.ControlWeaponNext:
		m.cycleWeaponLocked(1)
	}
}

// releaseLocked emits the release edge for momentary button controls.
func (m *Mapper) releaseLocked(c layout.Control) {
	switch c {
	case layout.ControlFire:
		m.emitLocked(doom.KeyUp, doom.KeyFire)
	case layout.ControlUse:
		m.emitLocked(doom.KeyUp, doom.KeyUse)
	case layout.ControlMenu:
		m.emitLocked(doom.KeyUp, doom.KeyEscape)
	case layout.ControlMap:
		m.emitLocked(doom.KeyUp, doom.KeyTab)
	}
}

// cycleWeaponLocked advances the weapon slot, wrapping over [1,7]. The slot is
// delivered twice: tapped as the number key for a sink driving a native
// window, and staged for hosts that build tic commands in-process.
func (m *Mapper) cycleWeaponLocked(delta int) {
	slot := m.weapon + delta
	if slot < 1 {
		slot = weaponSlots
	}
	if slot > weaponSlots {
		slot = 1
	}
	m.weapon = slot
	m.pendingWeapon = slot
	if key, ok := doom.WeaponKey(slot); ok {
		m.emitLocked(doom.KeyDown, key)
		m.emitLocked(doom.KeyUp, key)
	}
	if m.onWeapon != nil {
		m.onWeapon(slot)
	}
}

// emitLocked forwards one key transition to the sink.
func (m *Mapper) emitLocked(kind doom.EventKind, key doom.Key) {
	if m.sink == nil {
		return
	}
	var tic uint32
	if m.tics != nil {
		tic = m.tics.Tic()
	}
	m.sink.SetKeyStatus(kind, key, tic)
}

// SampleMovement returns the current analog movement as forward, strafe, and
// turn components, each in [-1, 1].
func (m *Mapper) SampleMovement() (forward, strafe, turn float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	radius := m.layout.StickRadius()
	if radius <= 0 {
		return 0, 0, 0
	}

	if d := m.move.offset(); d.X != 0 || d.Y != 0 {
		if mag := m.rescaleLocked(d.Length() / radius); mag > 0 {
			angle := math.Atan2(d.Y, d.X)
			// Screen Y grows downward, so pushing up yields positive forward.
			forward = -math.Sin(angle) * mag
			strafe = math.Cos(angle) * mag
		}
	}

	// Only horizontal look offset matters; there is no vertical look.
	if d := m.look.offset(); d.X != 0 {
		if mag := m.rescaleLocked(math.Abs(d.X) / radius); mag > 0 {
			turn = math.Copysign(mag, d.X)
		}
	}
	return forward, strafe, turn
}

// rescaleLocked applies the deadzone: zero inside it, rescaled to reach 1 at
// the full radius outside it.
func (m *Mapper) rescaleLocked(norm float64) float64 {
	if norm > 1 {
		norm = 1
	}
	if norm <= m.deadzone {
		return 0
	}
	return (norm - m.deadzone) / (1 - m.deadzone)
}

// FirePressed reports whether the fire region is currently held.
func (m *Mapper) FirePressed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.buttonOwner[layout.ControlFire]
	return ok
}

// UsePressed reports whether the use region is currently held.
func (m *Mapper) UsePressed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.buttonOwner[layout.ControlUse]
	return ok
}

// RunToggled reports the persistent run toggle state.
func (m *Mapper) RunToggled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runOn
}

// Weapon reports the current weapon slot.
func (m *Mapper) Weapon() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.weapon
}

// ConsumeWeaponSelection returns the pending weapon slot exactly once.
// Subsequent calls report none until the next cycle action.
func (m *Mapper) ConsumeWeaponSelection() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.consumeWeaponLocked()
}

// consumeWeaponLocked takes and clears the pending weapon selection.
func (m *Mapper) consumeWeaponLocked() (int, bool) {
	slot := m.pendingWeapon
	m.pendingWeapon = 0
	return slot, slot != 0
}

// ApplyToCommand adds the overlay's contribution to the shared per-tick
// command buffer. Additions accumulate so other input sources writing to the
// same tic are preserved.
func (m *Mapper) ApplyToCommand(cmd *doom.TicCmd, speedTier int) {
	forward, strafe, turn := m.SampleMovement()

	if speedTier < 0 {
		speedTier = 0
	}
	if speedTier > 1 {
		speedTier = 1
	}

	cmd.ForwardMove += int8(forward * float64(doom.ForwardSpeed[speedTier]))
	cmd.SideMove += int8(strafe * float64(doom.SideSpeed[speedTier]))
	cmd.AngleTurn -= int16(turn * float64(doom.TurnSpeed[speedTier]))

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buttonOwner[layout.ControlFire]; ok {
		cmd.Buttons |= doom.BtnAttack
	}
	if _, ok := m.buttonOwner[layout.ControlUse]; ok {
		cmd.Buttons |= doom.BtnUse
	}
	if slot, ok := m.consumeWeaponLocked(); ok {
		cmd.Buttons |= doom.BtnChange | uint8(slot-1)<<doom.WeaponShift
	}
}
