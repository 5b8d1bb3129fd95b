// Package model holds the per-entity model instance owned by the cache and
// the animation layer state attached to it.
package model

import (
	"path/filepath"
	"sync"
	"sync/atomic"

	"modelrt/internal/native"
)

// Source is anything loaded from a model folder.
type Source interface {
	ModelDir() string
}

// DisplayName derives the human-facing model name from its folder.
func DisplayName(s Source) string {
	return filepath.Base(filepath.Clean(s.ModelDir()))
}

// Instance is one constructed native model bound to one entity. It is owned
// exactly by its cache entry; only the owner may release it.
type Instance struct {
	Handle  native.Handle
	Dir     string
	File    string
	Format  Format
	Backend string

	// Scratch transform buffers for hand-held item placement.
	RightHandMat native.Handle
	LeftHandMat  native.Handle

	mu       sync.RWMutex
	layers   []LayerState
	custom   atomic.Bool
	released atomic.Bool
}

// NewInstance wraps a freshly loaded handle. layerCount is clamped to
// [DefaultLayerCount, MaxLayerCount]; every layer starts idle.
func NewInstance(h native.Handle, dir, file string, format Format, layerCount int) *Instance {
	if layerCount < DefaultLayerCount {
		layerCount = DefaultLayerCount
	}
	if layerCount > MaxLayerCount {
		layerCount = MaxLayerCount
	}
	return &Instance{
		Handle: h,
		Dir:    dir,
		File:   file,
		Format: format,
		layers: make([]LayerState, layerCount),
	}
}

func (i *Instance) ModelDir() string { return i.Dir }

// Path is the model file path.
func (i *Instance) Path() string { return filepath.Join(i.Dir, i.File) }

func (i *Instance) LayerCount() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.layers)
}

// Layer returns layer n, or the zero (idle) state when out of range.
func (i *Instance) Layer(n int) LayerState {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if n < 0 || n >= len(i.layers) {
		return LayerState{}
	}
	return i.layers[n]
}

func (i *Instance) SetLayer(n int, ls LayerState) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if n >= 0 && n < len(i.layers) {
		i.layers[n] = ls
	}
}

// Layers returns a copy of all layer states.
func (i *Instance) Layers() []LayerState {
	i.mu.RLock()
	defer i.mu.RUnlock()
	out := make([]LayerState, len(i.layers))
	copy(out, i.layers)
	return out
}

// Custom reports whether an external clip override is active.
func (i *Instance) Custom() bool { return i.custom.Load() }

func (i *Instance) SetCustom(v bool) { i.custom.Store(v) }

// MarkReleased flips the instance to released and reports whether this call
// did it. Native release must only follow a true result.
func (i *Instance) MarkReleased() bool { return i.released.CompareAndSwap(false, true) }

func (i *Instance) Released() bool { return i.released.Load() }

// HandTransform samples the current hand bone transform into the matching
// scratch buffer and returns it.
func (i *Instance) HandTransform(e native.Engine, right bool) [16]float32 {
	mat := i.LeftHandMat
	if right {
		mat = i.RightHandMat
	}
	if !mat.Valid() || i.Released() {
		return [16]float32{0: 1, 5: 1, 10: 1, 15: 1}
	}
	e.SampleHandMat(i.Handle, mat, right)
	return e.ReadMat(mat)
}
