package model

// State is the tag a layer is in. Every layer holds exactly one State.
type State uint8

const (
	StateIdle State = iota
	StateWalk
	StateSprint
	StateOnClimbable
	StateOnClimbableUp
	StateOnClimbableDown
	StateSwim
	StateRide
	StateOnHorse
	StateSleep
	StateElytraFly
	StateDie
	StateCrawl
	StateLieDown
	StateSwingRight
	StateSwingLeft
	StateItemRight
	StateItemLeft
	StateSneak
	// StateCustom marks a layer driven by an externally triggered clip.
	StateCustom
)

// ClipName returns the clip file stem for s. Item and custom states are
// named per use and return "".
func (s State) ClipName() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWalk:
		return "walk"
	case StateSprint:
		return "sprint"
	case StateOnClimbable:
		return "onClimbable"
	case StateOnClimbableUp:
		return "onClimbableUp"
	case StateOnClimbableDown:
		return "onClimbableDown"
	case StateSwim:
		return "swim"
	case StateRide:
		return "ride"
	case StateOnHorse:
		return "onHorse"
	case StateSleep:
		return "sleep"
	case StateElytraFly:
		return "elytraFly"
	case StateDie:
		return "die"
	case StateCrawl:
		return "crawl"
	case StateLieDown:
		return "lieDown"
	case StateSwingRight:
		return "swingRight"
	case StateSwingLeft:
		return "swingLeft"
	case StateSneak:
		return "sneak"
	}
	return ""
}

func (s State) String() string {
	switch s {
	case StateItemRight:
		return "itemRight"
	case StateItemLeft:
		return "itemLeft"
	case StateCustom:
		return "custom"
	}
	if n := s.ClipName(); n != "" {
		return n
	}
	return "unknown"
}

// LayerState is the current tag of one layer plus the clip that realizes
// it. Clip is empty when the layer has been reset.
type LayerState struct {
	State State
	Clip  string
}

// Layer indices.
const (
	LayerLocomotion = 0
	LayerHand       = 1
	LayerStance     = 2
)

// Default and maximum layer counts accepted by NewInstance.
const (
	DefaultLayerCount = 3
	MaxLayerCount     = 4
)
