// Package layout tracks where each overlay control sits on the touch surface.
package layout

import (
	"sync"

	"github.com/MartinZikmund/UnoDoom/internal/geom"
)

// Control identifies one logical overlay control.
type Control int

// Overlay controls in hit-test priority order.
const (
	ControlMove Control = iota
	ControlLook
	ControlFire
	ControlUse
	ControlMenu
	ControlHide
	ControlRun
	ControlMap
	ControlWeaponPrev
	ControlWeaponNext
	controlCount
)

// controlNames maps controls to their stable layout-file names.
var controlNames = [controlCount]string{
	"move", "look", "fire", "use", "menu", "hide", "run", "map",
	"weapon_prev", "weapon_next",
}

// String returns the control's layout-file name.
func (c Control) String() string {
	if c < 0 || c >= controlCount {
		return "unknown"
	}
	return controlNames[c]
}

// ControlByName resolves a layout-file name back to its control.
func ControlByName(name string) (Control, bool) {
	for c, n := range controlNames {
		if n == name {
			return Control(c), true
		}
	}
	return 0, false
}

// ClaimOrder is the fixed priority in which a new contact is tested against
// the controls.
var ClaimOrder = [...]Control{
	ControlMove, ControlLook, ControlFire, ControlUse, ControlMenu,
	ControlHide, ControlRun, ControlMap, ControlWeaponPrev, ControlWeaponNext,
}

// Params tunes the computed default layout.
type Params struct {
	StickRadius float64
	ButtonSize  float64
	Margin      float64
}

// DefaultParams returns the stock overlay sizing.
func DefaultParams() Params {
	return Params{StickRadius: 90, ButtonSize: 72, Margin: 24}
}

// Layout computes per-control rectangles from the current surface size.
// Bounds are recomputed on every query rather than cached so a surface
// resize (orientation change) takes effect immediately.
type Layout struct {
	mu        sync.RWMutex
	params    Params
	w, h      float64
	overrides map[Control]NormRect
}

// New returns a layout with the given sizing parameters and no surface yet.
func New(params Params) *Layout {
	if params.StickRadius <= 0 {
		params.StickRadius = DefaultParams().StickRadius
	}
	if params.ButtonSize <= 0 {
		params.ButtonSize = DefaultParams().ButtonSize
	}
	if params.Margin < 0 {
		params.Margin = DefaultParams().Margin
	}
	return &Layout{params: params, overrides: make(map[Control]NormRect)}
}

// SetSurface records the current touch surface size in surface pixels.
func (l *Layout) SetSurface(w, h float64) {
	l.mu.Lock()
	l.w, l.h = w, h
	l.mu.Unlock()
}

// Surface returns the current surface size.
func (l *Layout) Surface() (w, h float64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.w, l.h
}

// StickRadius returns the joystick radius in surface pixels.
func (l *Layout) StickRadius() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.params.StickRadius
}

// SetOverride pins a control to a normalized rectangle, replacing its
// computed default.
func (l *Layout) SetOverride(c Control, r NormRect) {
	l.mu.Lock()
	l.overrides[c] = r
	l.mu.Unlock()
}

// Overrides returns a copy of the current override table.
func (l *Layout) Overrides() map[Control]NormRect {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[Control]NormRect, len(l.overrides))
	for c, r := range l.overrides {
		out[c] = r
	}
	return out
}

// BoundsOf resolves a control's current on-screen rectangle. It reports
// ok=false while the surface has not been measured; callers treat that as a
// hit-test miss.
func (l *Layout) BoundsOf(c Control) (geom.Rect, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.w <= 0 || l.h <= 0 || c < 0 || c >= controlCount {
		return geom.Rect{}, false
	}
	if o, ok := l.overrides[c]; ok {
		return geom.Rect{X: o.X * l.w, Y: o.Y * l.h, W: o.W * l.w, H: o.H * l.h}, true
	}
	return l.defaultBounds(c), true
}

// defaultBounds computes the stock rectangle for a control. Caller holds the
// read lock.
func (l *Layout) defaultBounds(c Control) geom.Rect {
	var (
		m = l.params.Margin
		b = l.params.ButtonSize
		s = l.params.StickRadius * 2
	)
	switch c {
	case ControlMove:
		return geom.Rect{X: m, Y: l.h - m - s, W: s, H: s}
	case ControlLook:
		return geom.Rect{X: l.w - m - s, Y: l.h - m - s, W: s, H: s}
	case ControlFire:
		return geom.Rect{X: l.w - m - b, Y: l.h - m - s - m - b, W: b, H: b}
	case ControlUse:
		return geom.Rect{X: l.w - m - b - m - b, Y: l.h - m - s - m - b, W: b, H: b}
	case ControlMenu:
		return geom.Rect{X: l.w/2 - b/2, Y: m, W: b, H: b}
	case ControlHide:
		return geom.Rect{X: l.w - m - b, Y: m, W: b, H: b}
	case ControlRun:
		return geom.Rect{X: m, Y: l.h - m - s - m - b, W: b, H: b}
	case ControlMap:
		return geom.Rect{X: m, Y: m, W: b, H: b}
	case ControlWeaponPrev:
		return geom.Rect{X: l.w/2 - m/2 - b, Y: l.h - m - b, W: b, H: b}
	case ControlWeaponNext:
		return geom.Rect{X: l.w/2 + m/2, Y: l.h - m - b, W: b, H: b}
	}
	return geom.Rect{}
}
