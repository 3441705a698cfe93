package component

type Stance uint8

const (
	StanceStanding Stance = iota
	StanceCrouching
	StanceSliding
	StanceProne
)

func (s Stance) String() string {
	switch s {
	case StanceStanding:
		return "standing"
	case StanceCrouching:
		return "crouching"
	case StanceSliding:
		return "sliding"
	case StanceProne:
		return "prone"
	default:
		return "unknown"
	}
}

// Height is the collider height for the stance.
func (s Stance) Height() float64 {
	switch s {
	case StanceCrouching:
		return 1.2
	case StanceSliding:
		return 1.0
	case StanceProne:
		return 0.6
	default:
		return 1.8
	}
}

// EyeHeight is the camera offset above the feet for the stance.
func (s Stance) EyeHeight() float64 {
	switch s {
	case StanceCrouching:
		return 1.05
	case StanceSliding:
		return 0.85
	case StanceProne:
		return 0.45
	default:
		return 1.62
	}
}
