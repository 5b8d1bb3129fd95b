package sim

import "modelrt/pkg/types"

// EntityStep is an EntitySnapshot with scenario conveniences. Positions are
// tracked by the runner; Move is added to the last position on every tick.
type EntityStep struct {
	types.EntitySnapshot `yaml:",inline"`
	Move                 types.Vec3 `yaml:"move"`
	// Killed keeps health at zero; otherwise a missing health means 20.
	Killed bool `yaml:"dead"`
}

// snapshot returns the next tick's snapshot, continuing from pos.
func (e EntityStep) snapshot(pos types.Vec3) types.EntitySnapshot {
	s := e.EntitySnapshot
	if s.Health == 0 && !e.Killed {
		s.Health = 20
	}
	s.PrevPos = pos
	s.Pos = types.Vec3{X: pos.X + e.Move.X, Y: pos.Y + e.Move.Y, Z: pos.Z + e.Move.Z}
	return s
}
