package manager

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"modelrt/internal/anim"
	"modelrt/internal/backend"
	"modelrt/internal/cache"
	"modelrt/internal/clip"
	"modelrt/internal/model"
	"modelrt/internal/native"
	"modelrt/pkg/types"
)

type Manager struct {
	engine native.Engine
	log    zerolog.Logger

	mu        sync.RWMutex
	publisher EventPublisher
	registry  []types.ModelSource
	byName    map[string]types.ModelSource

	// loadMu serializes the miss path so one key is never built twice.
	loadMu sync.Mutex

	cache      *cache.Cache[Key, *model.Instance]
	backends   *backend.Registry
	hostCompat *backend.HostCompat
	clips      *clip.Resolver
	ctrl       *anim.Controller

	maxModels     int
	layerCount    int
	startTime     time.Time
	engineVersion string

	requiredVersion string

	loads     atomic.Uint64
	disposals atomic.Uint64
}

// Ready reports whether at least one model can be served.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.registry) > 0
}

func (m *Manager) ListModels() []types.ModelSource {
	m.mu.RLock()
	defer m.mu.RUnlock()
	// return a shallow copy to avoid external mutation
	out := make([]types.ModelSource, len(m.registry))
	copy(out, m.registry)
	return out
}

// SetRegistry replaces the discovered models. Cached instances of models
// that disappeared stay until evicted or invalidated.
func (m *Manager) SetRegistry(reg []types.ModelSource) { m.setRegistry(reg) }

func (m *Manager) setRegistry(reg []types.ModelSource) {
	byName := make(map[string]types.ModelSource, len(reg))
	for _, s := range reg {
		byName[s.Name] = s
	}
	m.mu.Lock()
	m.registry = append([]types.ModelSource(nil), reg...)
	m.byName = byName
	m.mu.Unlock()
}

func (m *Manager) getModelByName(name string) (types.ModelSource, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byName[name]
	return s, ok
}

// Backends exposes the registry so hosts can add their own strategies.
func (m *Manager) Backends() *backend.Registry { return m.backends }

// Clips exposes the resolver for pose lookups and probing.
func (m *Manager) Clips() *clip.Resolver { return m.clips }

// Engine returns the native engine the manager was built on.
func (m *Manager) Engine() native.Engine { return m.engine }

// NegotiateHost is the registration hook a host calls once at startup when
// it supports shader-pack interop.
func (m *Manager) NegotiateHost(caps backend.HostCapabilities) {
	m.hostCompat.Negotiate(caps)
	m.log.Info().Bool("shader_pack", caps != nil && caps.ShaderPackActive()).Msg("host capabilities negotiated")
}
