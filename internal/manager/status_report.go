package manager

import (
	"time"

	"modelrt/pkg/types"
)

// Status builds a point-in-time report of cached instances (least recently
// used first) and registered backends.
func (m *Manager) Status() types.StatusResponse {
	items := m.cache.Snapshot()
	out := types.StatusResponse{
		Instances:      make([]types.InstanceStatus, 0, len(items)),
		MaxModels:      m.maxModels,
		CleanupPending: m.cache.CleanupPending(),
		EngineVersion:  m.engineVersion,
		UptimeSeconds:  int64(time.Since(m.startTime).Seconds()),
		LoadsTotal:     m.loads.Load(),
		DisposalsTotal: m.disposals.Load(),
	}
	for _, it := range items {
		inst, ok := m.cache.Peek(it.Key)
		if !ok {
			continue
		}
		st := types.InstanceStatus{
			Key:              it.Key.String(),
			Model:            it.Key.Model,
			Entity:           it.Key.Entity,
			Backend:          inst.Backend,
			LastAccessMillis: it.LastAccess.UnixMilli(),
			Custom:           inst.Custom(),
			Clips:            m.clips.Loaded(inst),
		}
		for i, ls := range inst.Layers() {
			st.Layers = append(st.Layers, types.LayerStatus{Layer: i, State: ls.State.String(), Clip: ls.Clip})
		}
		out.Instances = append(out.Instances, st)
	}
	for _, d := range m.backends.List() {
		out.Backends = append(out.Backends, types.BackendStatus{
			Name:      d.Name,
			Priority:  d.Priority,
			Available: d.Available,
			Enabled:   d.Enabled,
		})
	}
	return out
}
