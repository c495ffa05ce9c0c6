// Package doom defines the narrow contract between the input mappers and the
// game core: key events, the per-tick command buffer, and the read-only state
// the mappers probe at emission time.
package doom

// Key is a logical key code as understood by the game core. Values follow the
// original engine's key numbering so a port can pass them straight through to
// its responder chain.
type Key int

// Key codes for the inputs the mappers emit.
const (
	KeyTab        Key = 9
	KeyEnter      Key = 13
	KeyEscape     Key = 27
	KeyUse        Key = ' '
	KeyStrafeL    Key = ','
	KeyStrafeR    Key = '.'
	KeyLeftArrow  Key = 0xac
	KeyUpArrow    Key = 0xad
	KeyRightArrow Key = 0xae
	KeyDownArrow  Key = 0xaf
	KeyFire       Key = 0x9d // right ctrl
	KeyRun        Key = 0xb6 // right shift
)

// Weapon number keys occupy '1'..'7'.
const (
	KeyWeapon1 Key = '1'
	KeyWeapon2 Key = '2'
	KeyWeapon7 Key = '7'
)

// WeaponKey returns the number key selecting the given weapon slot.
func WeaponKey(slot int) (Key, bool) {
	if slot < 1 || slot > 7 {
		return 0, false
	}
	return KeyWeapon1 + Key(slot-1), true
}

// KeyByName resolves a bindings-file key name to a key code.
func KeyByName(name string) (Key, bool) {
	switch name {
	case "up":
		return KeyUpArrow, true
	case "down":
		return KeyDownArrow, true
	case "left":
		return KeyLeftArrow, true
	case "right":
		return KeyRightArrow, true
	case "fire":
		return KeyFire, true
	case "use":
		return KeyUse, true
	case "run":
		return KeyRun, true
	case "strafe_left":
		return KeyStrafeL, true
	case "strafe_right":
		return KeyStrafeR, true
	case "escape":
		return KeyEscape, true
	case "enter":
		return KeyEnter, true
	case "tab":
		return KeyTab, true
	}
	if len(name) == 1 && name[0] >= '1' && name[0] <= '7' {
		return Key(name[0]), true
	}
	return 0, false
}
