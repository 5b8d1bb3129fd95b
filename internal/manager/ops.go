package manager

import (
	"modelrt/internal/model"
	"modelrt/pkg/types"
)

// Update evaluates the animation layers for s and advances the engine.
// A nil or released instance is ignored.
func (m *Manager) Update(s types.EntitySnapshot, inst *model.Instance, dt float32) {
	if inst == nil || inst.Released() {
		return
	}
	m.ctrl.UpdateAnimationState(s, inst)
	m.engine.UpdateModel(inst.Handle, dt)
}

// PlayCustom starts an externally requested clip on the entity's instance,
// building the instance if needed.
func (m *Manager) PlayCustom(modelName, entityID, clip string) error {
	inst, err := m.Acquire(modelName, entityID)
	if err != nil {
		return err
	}
	if !m.ctrl.PlayCustom(inst, clip) {
		return ErrClipNotFound(clip)
	}
	key := Key{Model: modelName, Entity: entityID}
	m.publish(Event{Name: "custom_play", Key: key.String(), Fields: map[string]any{"clip": clip}})
	return nil
}

// StopCustom ends the entity's custom clip. Reports false when no instance
// is cached for it.
func (m *Manager) StopCustom(modelName, entityID string) bool {
	key := Key{Model: modelName, Entity: entityID}
	inst, ok := m.cache.Peek(key)
	if !ok {
		return false
	}
	m.ctrl.StopCustom(inst)
	m.publish(Event{Name: "custom_stop", Key: key.String()})
	return true
}

// HandTransforms samples both hand bone transforms of the entity's cached
// instance, for placing held items. The read counts as an access.
func (m *Manager) HandTransforms(modelName, entityID string) (types.HandsResponse, error) {
	key := Key{Model: modelName, Entity: entityID}
	inst, ok := m.cache.Get(key)
	if !ok || inst.Released() {
		return types.HandsResponse{}, ErrInstanceNotFound(key.String())
	}
	return types.HandsResponse{
		Key:   key.String(),
		Right: inst.HandTransform(m.engine, true),
		Left:  inst.HandTransform(m.engine, false),
	}, nil
}
