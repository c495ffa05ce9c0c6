package doom

// TicCmd button bits, matching the core's command buffer layout.
const (
	// BtnAttack requests the attack action for this tic.
	BtnAttack uint8 = 1 << 0
	// BtnUse requests the use action for this tic.
	BtnUse uint8 = 1 << 1
	// BtnChange signals a weapon change encoded in the weapon bits.
	BtnChange uint8 = 1 << 2
	// WeaponShift positions the weapon index inside the button byte.
	WeaponShift = 3
)

// TicCmd is the per-tick command buffer shared by all input sources. Input
// mappers add into its fields so keyboard, touch, and gamepad contributions
// accumulate within the same tic.
type TicCmd struct {
	ForwardMove int8
	SideMove    int8
	AngleTurn   int16
	Buttons     uint8
}

// Movement-speed tables indexed by speed tier (0 = walk, 1 = run). Values
// match the core's player behavior tables.
var (
	// ForwardSpeed is the forward/backward move unit per tier.
	ForwardSpeed = [2]int8{25, 50}
	// SideSpeed is the strafe move unit per tier.
	SideSpeed = [2]int8{24, 40}
	// TurnSpeed is the angular turn unit per tier.
	TurnSpeed = [2]int16{640, 1280}
)
