package manager

import (
	"modelrt/internal/model"
	"modelrt/pkg/types"
)

// Acquire returns the instance bound to (modelName, entityID), constructing
// it through the backend registry on a cache miss. Before a new instance is
// inserted the cache is trimmed so its size stays within MaxModels.
func (m *Manager) Acquire(modelName, entityID string) (*model.Instance, error) {
	key := Key{Model: modelName, Entity: entityID}
	if inst, ok := m.cache.Get(key); ok {
		return inst, nil
	}
	src, ok := m.getModelByName(modelName)
	if !ok {
		return nil, ErrModelNotFound(modelName)
	}

	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	// Another caller may have built it while we waited.
	if _, ok := m.cache.Peek(key); ok {
		inst, _ := m.cache.Get(key)
		return inst, nil
	}

	format, err := sourceFormat(src)
	if err != nil {
		return nil, err
	}
	m.cache.CheckAndClean(m.disposeEntry, m.maxModels)
	inst, err := m.backends.SelectAndCreate(src.File, src.Dir, format, m.layerCount)
	if err != nil {
		m.log.Warn().Err(err).Str("key", key.String()).Msg("model construction failed")
		m.publish(Event{Name: "model_load_failed", Key: key.String(), Fields: map[string]any{"error": err.Error()}})
		return nil, err
	}
	m.cache.Put(key, inst)
	m.loads.Add(1)
	m.log.Info().Str("key", key.String()).Str("backend", inst.Backend).Str("format", format.String()).Msg("model loaded")
	m.publish(Event{Name: "model_load", Key: key.String(), Fields: map[string]any{"backend": inst.Backend}})
	return inst, nil
}

// Render is the per-frame entry point: acquire the entity's instance, then
// advance its animation state and the engine by dt seconds.
func (m *Manager) Render(modelName string, s types.EntitySnapshot, dt float32) (*model.Instance, error) {
	inst, err := m.Acquire(modelName, s.ID)
	if err != nil {
		return nil, err
	}
	m.Update(s, inst, dt)
	return inst, nil
}

func sourceFormat(src types.ModelSource) (model.Format, error) {
	if src.Format != "" {
		return model.ParseFormat(src.Format)
	}
	return model.FormatOf(src.File)
}
