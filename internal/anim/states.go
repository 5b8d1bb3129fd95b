package anim

import (
	"strings"

	"modelrt/internal/model"
	"modelrt/pkg/types"
)

// Locomotion picks the layer-0 state for s. Conditions overlap, so the
// order below is the tie-break: the first match wins.
func Locomotion(s types.EntitySnapshot) model.State {
	switch {
	case s.Dead():
		return model.StateDie
	case s.Gliding:
		return model.StateElytraFly
	case s.Sleeping:
		return model.StateSleep
	case s.Riding():
		if s.Mount.Tamed && s.Mount.Moving {
			return model.StateOnHorse
		}
		return model.StateRide
	case s.Swimming:
		return model.StateSwim
	case s.OnClimbable:
		switch {
		case s.Velocity.Y > 0:
			return model.StateOnClimbableUp
		case s.Velocity.Y < 0:
			return model.StateOnClimbableDown
		}
		return model.StateOnClimbable
	case s.Sprinting && !s.Crouching:
		return model.StateSprint
	case s.VisuallyCrawling:
		if s.HorizontallyMoving() {
			return model.StateCrawl
		}
		return model.StateLieDown
	case s.HorizontallyMoving():
		return model.StateWalk
	}
	return model.StateIdle
}

// ExitsCustom reports whether any condition that ends a custom animation
// holds for s.
func ExitsCustom(s types.EntitySnapshot) bool {
	return s.Dead() ||
		s.Gliding ||
		s.Sleeping ||
		s.Swimming ||
		s.OnClimbable ||
		s.Sprinting ||
		s.VisuallyCrawling ||
		s.Riding() ||
		s.HorizontallyMoving()
}

// Hand names used in item clip names.
const (
	HandRight = "Right"
	HandLeft  = "Left"
)

// ItemID turns "namespace:path" into the clip-name form "namespace.path".
// An empty hand is "minecraft.air".
func ItemID(item string) string {
	if item == "" {
		return "minecraft.air"
	}
	return strings.ReplaceAll(item, ":", ".")
}

// ItemClipName is the per-item clip convention
// itemActive_{itemId}_{Right|Left}_{using|swinging}.
func ItemClipName(item, hand string, using bool) string {
	action := "swinging"
	if using {
		action = "using"
	}
	return "itemActive_" + ItemID(item) + "_" + hand + "_" + action
}
