// Package backend ranks model construction strategies and picks one per
// load. Callers never learn which concrete strategy built an instance
// beyond the name recorded on it.
package backend

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"modelrt/internal/metrics"
	"modelrt/internal/model"
)

// Request describes one model to construct.
type Request struct {
	File       string
	Dir        string
	Format     model.Format
	LayerCount int
}

// Backend is a model construction strategy.
type Backend interface {
	Name() string
	// Priority ranks backends; higher wins.
	Priority() int
	// Available probes hardware or host capability.
	Available() bool
	// Enabled is the user/config toggle.
	Enabled() bool
	// Supports reports whether the backend can load the format at all.
	Supports(model.Format) bool
	Create(Request) (*model.Instance, error)
}

// Descriptor is a point-in-time view of a registered backend.
type Descriptor struct {
	Name      string
	Priority  int
	Available bool
	Enabled   bool
}

// Registry keeps backends in registration order; selection walks them in
// priority order. Safe for concurrent use.
type Registry struct {
	log zerolog.Logger

	mu       sync.RWMutex
	backends []Backend
}

func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{log: log.With().Str("component", "backend").Logger()}
}

// Register adds b. A second backend with an existing name is rejected with
// a warning and Register reports false.
func (r *Registry) Register(b Backend) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, have := range r.backends {
		if have.Name() == b.Name() {
			r.log.Warn().Str("backend", b.Name()).Msg("backend already registered")
			return false
		}
	}
	r.backends = append(r.backends, b)
	r.log.Debug().Str("backend", b.Name()).Int("priority", b.Priority()).Msg("backend registered")
	return true
}

// Unregister removes the backend called name and reports whether it existed.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.backends {
		if b.Name() == name {
			r.backends = append(r.backends[:i:i], r.backends[i+1:]...)
			return true
		}
	}
	return false
}

// Lookup returns the backend called name.
func (r *Registry) Lookup(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.backends {
		if b.Name() == name {
			return b, true
		}
	}
	return nil, false
}

// List describes every backend in registration order.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.backends))
	for _, b := range r.backends {
		out = append(out, Descriptor{Name: b.Name(), Priority: b.Priority(), Available: b.Available(), Enabled: b.Enabled()})
	}
	return out
}

// ranked returns a priority-descending copy; ties keep registration order.
func (r *Registry) ranked() []Backend {
	r.mu.RLock()
	out := make([]Backend, len(r.backends))
	copy(out, r.backends)
	r.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority() > out[j].Priority() })
	return out
}

// SelectAndCreate builds the model with the highest-priority backend that is
// available, enabled and supports the format, moving on to the next one
// whenever construction fails. If every eligible backend fails, available
// backends that are disabled are tried too before giving up.
func (r *Registry) SelectAndCreate(file, dir string, format model.Format, layerCount int) (*model.Instance, error) {
	req := Request{File: file, Dir: dir, Format: format, LayerCount: layerCount}
	order := r.ranked()
	tried := make(map[string]bool, len(order))
	for _, b := range order {
		if !b.Available() || !b.Enabled() || !b.Supports(format) {
			continue
		}
		tried[b.Name()] = true
		if inst, ok := r.try(b, req); ok {
			return inst, nil
		}
	}
	for _, b := range order {
		if tried[b.Name()] || !b.Available() || !b.Supports(format) {
			continue
		}
		r.log.Info().Str("backend", b.Name()).Str("file", file).Msg("trying disabled backend as fallback")
		if inst, ok := r.try(b, req); ok {
			return inst, nil
		}
	}
	return nil, ErrNoBackend(fmt.Sprintf("%s (%s)", file, format))
}

func (r *Registry) try(b Backend, req Request) (inst *model.Instance, ok bool) {
	start := time.Now()
	defer func() {
		metrics.BackendCreateDuration.WithLabelValues(b.Name()).Observe(time.Since(start).Seconds())
		if p := recover(); p != nil {
			r.log.Error().Str("backend", b.Name()).Str("file", req.File).Interface("panic", p).Msg("backend panicked")
			metrics.BackendCreates.WithLabelValues(b.Name(), "panic").Inc()
			inst, ok = nil, false
		}
	}()
	inst, err := b.Create(req)
	if err != nil || inst == nil {
		if err == nil {
			err = ErrLoadFailed(req.File)
		}
		r.log.Warn().Err(err).Str("backend", b.Name()).Str("file", req.File).Msg("backend failed to create model")
		metrics.BackendCreates.WithLabelValues(b.Name(), "error").Inc()
		return nil, false
	}
	inst.Backend = b.Name()
	metrics.BackendCreates.WithLabelValues(b.Name(), "ok").Inc()
	r.log.Debug().Str("backend", b.Name()).Str("file", req.File).Dur("dur", time.Since(start)).Msg("model created")
	return inst, true
}
