package manager

import (
	"modelrt/internal/model"
)

// disposeEntry releases everything an instance owns in a fixed order:
// layers are detached, then animation handles, hand matrices and finally
// the model handle itself are deleted. It is safe to call more than once.
func (m *Manager) disposeEntry(key Key, inst *model.Instance) error {
	if inst == nil || !inst.MarkReleased() {
		return nil
	}
	m.ctrl.Detach(inst)
	clips := m.clips.Release(inst)
	if inst.RightHandMat.Valid() {
		m.engine.DeleteMat(inst.RightHandMat)
	}
	if inst.LeftHandMat.Valid() {
		m.engine.DeleteMat(inst.LeftHandMat)
	}
	m.engine.DeleteModel(inst.Handle)
	m.disposals.Add(1)
	m.log.Debug().Str("key", key.String()).Int("clips", clips).Msg("model disposed")
	m.publish(Event{Name: "model_dispose", Key: key.String(), Fields: map[string]any{"clips": clips}})
	return nil
}

// Switch records that the user changed the model for modelName and arms
// the idle sweep.
func (m *Manager) Switch(modelName string) {
	m.cache.OnSwitch()
	m.log.Info().Str("model", modelName).Msg("model switched; idle sweep armed")
	m.publish(Event{Name: "switch", Key: modelName})
}

// Tick runs the idle sweep when one is pending and its window has passed.
// Intended to be called once per client tick.
func (m *Manager) Tick() { m.cache.Tick(m.disposeEntry) }

// Invalidate disposes the instance for (modelName, entityID) if cached.
func (m *Manager) Invalidate(modelName, entityID string) bool {
	key := Key{Model: modelName, Entity: entityID}
	inst, ok := m.cache.Remove(key)
	if !ok {
		return false
	}
	_ = m.disposeEntry(key, inst)
	return true
}

// InvalidateModel disposes every instance of modelName, e.g. after its
// files changed on disk. Returns how many were disposed.
func (m *Manager) InvalidateModel(modelName string) int {
	n := 0
	for _, it := range m.cache.Snapshot() {
		if it.Key.Model != modelName {
			continue
		}
		if m.Invalidate(it.Key.Model, it.Key.Entity) {
			n++
		}
	}
	return n
}

// Close disposes every cached instance. The manager stays usable; new
// Acquire calls rebuild on demand.
func (m *Manager) Close() {
	m.cache.Clear(m.disposeEntry)
	m.log.Info().Uint64("disposals", m.disposals.Load()).Msg("manager closed")
}
