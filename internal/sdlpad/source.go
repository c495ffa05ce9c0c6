// Package sdlpad reads physical controllers through the SDL3 joystick API
// and exposes them as a snapshot source for the gamepad mapper.
package sdlpad

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/jupiterrider/purego-sdl3/sdl"

	"github.com/MartinZikmund/UnoDoom/internal/gamepad"
)

const (
	pumpDelayNS = 8_000_000 // pump/refresh cadence, faster than the mapper poll

	hatUp    uint8 = 0x01
	hatRight uint8 = 0x02
	hatDown  uint8 = 0x04
	hatLeft  uint8 = 0x08
)

// device is one opened joystick.
type device struct {
	joystick *sdl.Joystick
	prof     *profile
	name     string
	id       sdl.JoystickID
}

// Source owns the SDL joystick subsystem and keeps the latest reading of the
// active controller. Run must own its thread; Sample may be called from any
// goroutine.
type Source struct {
	mu        sync.RWMutex
	sample    gamepad.Sample
	connected bool

	devices   map[sdl.JoystickID]*device
	activeID  sdl.JoystickID
	hasActive bool
}

// NewSource returns an empty Source; call Run to start reading.
func NewSource() *Source {
	return &Source{devices: make(map[sdl.JoystickID]*device)}
}

// Sample returns the most recent controller reading and whether one is attached.
func (s *Source) Sample() (gamepad.Sample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sample, s.connected
}

var _ gamepad.Sampler = (*Source)(nil)

// Run initializes SDL and pumps events and state on the calling goroutine
// until the context is done. The SDL loop must stay on one OS thread.
func (s *Source) Run(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !sdl.Init(sdl.InitJoystick) {
		return fmt.Errorf("sdl init: %s", sdl.GetError())
	}
	defer sdl.Quit()

	for _, id := range sdl.GetJoysticks() {
		s.open(id)
	}

	for {
		select {
		case <-ctx.Done():
			s.closeAll()
			return ctx.Err()
		default:
		}

		s.pumpEvents()
		s.refresh()
		sdl.DelayNS(pumpDelayNS)
	}
}

// pumpEvents drains the SDL event queue, tracking hotplug.
func (s *Source) pumpEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			s.open(event.JDevice().Which)
		case sdl.EventJoystickRemoved:
			s.remove(event.JDevice().Which)
		}
	}
}

// open registers a newly attached joystick and promotes it if none is active.
func (s *Source) open(instanceID sdl.JoystickID) {
	if _, exists := s.devices[instanceID]; exists {
		return
	}

	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		log.Printf("sdlpad: open joystick %d: %s", instanceID, sdl.GetError())
		return
	}

	id := sdl.GetJoystickID(js)
	name := sdl.GetJoystickName(js)
	prof := profileFor(sdl.GetJoystickVendor(js), sdl.GetJoystickProduct(js))
	s.devices[id] = &device{joystick: js, prof: prof, name: name, id: id}

	log.Printf("sdlpad: controller attached: %s profile=%s axes=%d buttons=%d hats=%d",
		name, prof.name, sdl.GetNumJoystickAxes(js), sdl.GetNumJoystickButtons(js), sdl.GetNumJoystickHats(js))

	if !s.hasActive {
		s.activeID = id
		s.hasActive = true
		s.setConnected(true)
	}
}

// remove closes a detached joystick and promotes the next one if it was active.
func (s *Source) remove(instanceID sdl.JoystickID) {
	dev, exists := s.devices[instanceID]
	if !exists {
		return
	}

	log.Printf("sdlpad: controller detached: %s", dev.name)
	sdl.CloseJoystick(dev.joystick)
	delete(s.devices, instanceID)

	if !s.hasActive || s.activeID != instanceID {
		return
	}
	s.hasActive = false
	for id, d := range s.devices {
		if sdl.JoystickConnected(d.joystick) {
			s.activeID = id
			s.hasActive = true
			log.Printf("sdlpad: active controller now %s", d.name)
			s.setConnected(true)
			return
		}
	}
	s.setConnected(false)
}

// closeAll releases every opened joystick.
func (s *Source) closeAll() {
	for id, dev := range s.devices {
		sdl.CloseJoystick(dev.joystick)
		delete(s.devices, id)
	}
	s.hasActive = false
	s.setConnected(false)
}

// refresh reads the active joystick into the shared snapshot.
func (s *Source) refresh() {
	if !s.hasActive {
		return
	}
	dev, exists := s.devices[s.activeID]
	if !exists || !sdl.JoystickConnected(dev.joystick) {
		return
	}

	js := dev.joystick
	p := dev.prof
	var out gamepad.Sample

	out.LX = normalizeAxis(sdl.GetJoystickAxis(js, p.lx))
	out.LY = normalizeAxis(sdl.GetJoystickAxis(js, p.ly))
	out.RX = normalizeAxis(sdl.GetJoystickAxis(js, p.rx))
	out.RY = normalizeAxis(sdl.GetJoystickAxis(js, p.ry))
	if p.lt >= 0 {
		out.LT = normalizeTrigger(sdl.GetJoystickAxis(js, p.lt), p.triggerMin)
	}
	if p.rt >= 0 {
		out.RT = normalizeTrigger(sdl.GetJoystickAxis(js, p.rt), p.triggerMin)
	}

	numButtons := sdl.GetNumJoystickButtons(js)
	for index, bit := range p.buttons {
		if index >= numButtons {
			continue
		}
		if sdl.GetJoystickButton(js, index) {
			out.Buttons |= bit
		}
	}

	if p.hasHat && sdl.GetNumJoystickHats(js) > 0 {
		hat := sdl.GetJoystickHat(js, 0)
		if hat&hatUp != 0 {
			out.Buttons |= gamepad.BtnDpadUp
		}
		if hat&hatRight != 0 {
			out.Buttons |= gamepad.BtnDpadRight
		}
		if hat&hatDown != 0 {
			out.Buttons |= gamepad.BtnDpadDown
		}
		if hat&hatLeft != 0 {
			out.Buttons |= gamepad.BtnDpadLeft
		}
	}

	s.mu.Lock()
	s.sample = out
	s.connected = true
	s.mu.Unlock()
}

// setConnected flips the attachment flag, zeroing the snapshot on detach.
func (s *Source) setConnected(v bool) {
	s.mu.Lock()
	if !v {
		s.sample = gamepad.Sample{}
	}
	s.connected = v
	s.mu.Unlock()
}
