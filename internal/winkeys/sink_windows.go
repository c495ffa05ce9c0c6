//go:build windows

package winkeys

import (
	"fmt"
	"log"

	"github.com/lxn/win"

	"github.com/MartinZikmund/UnoDoom/internal/doom"
)

// Sink delivers key transitions to the focused window using SendInput.
type Sink struct{}

// New returns a Windows key sink.
func New() (*Sink, error) {
	return &Sink{}, nil
}

var _ doom.KeySink = (*Sink)(nil)

// SetKeyStatus injects one key transition. Unmappable keys are dropped.
func (s *Sink) SetKeyStatus(kind doom.EventKind, key doom.Key, tic uint32) {
	vk, extended, ok := virtualKeyFor(key)
	if !ok {
		return
	}
	var flags uint32
	if extended {
		flags |= win.KEYEVENTF_EXTENDEDKEY
	}
	if kind == doom.KeyUp {
		flags |= win.KEYEVENTF_KEYUP
	}
	if err := sendKeyboardInput(win.KEYBDINPUT{WVk: vk, DwFlags: flags}); err != nil {
		log.Printf("winkeys: inject %s 0x%02x at tic %d: %v", kind, int(key), tic, err)
	}
}

// virtualKeyFor maps a game key to its Windows virtual-key code. Extended
// marks keys on the extended scan-code page (arrows, right-side modifiers).
func virtualKeyFor(key doom.Key) (vk uint16, extended bool, ok bool) {
	switch key {
	case doom.KeyTab:
		return win.VK_TAB, false, true
	case doom.KeyEnter:
		return win.VK_RETURN, false, true
	case doom.KeyEscape:
		return win.VK_ESCAPE, false, true
	case doom.KeyUse:
		return win.VK_SPACE, false, true
	case doom.KeyStrafeL:
		return win.VK_OEM_COMMA, false, true
	case doom.KeyStrafeR:
		return win.VK_OEM_PERIOD, false, true
	case doom.KeyLeftArrow:
		return win.VK_LEFT, true, true
	case doom.KeyUpArrow:
		return win.VK_UP, true, true
	case doom.KeyRightArrow:
		return win.VK_RIGHT, true, true
	case doom.KeyDownArrow:
		return win.VK_DOWN, true, true
	case doom.KeyFire:
		return win.VK_RCONTROL, true, true
	case doom.KeyRun:
		return win.VK_RSHIFT, false, true
	}
	if key >= doom.KeyWeapon1 && key <= doom.KeyWeapon7 {
		return uint16(key), false, true
	}
	return 0, false, false
}

// sendKeyboardInput dispatches a single keyboard input event.
func sendKeyboardInput(key win.KEYBDINPUT) error {
	input := win.INPUT{
		Type: win.INPUT_KEYBOARD,
		Ki:   key,
	}
	if win.SendInput(1, &input, int32(win.SizeofINPUT)) != 1 {
		return fmt.Errorf("SendInput error code %d", win.GetLastError())
	}
	return nil
}
