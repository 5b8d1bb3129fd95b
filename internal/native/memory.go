package native

import (
	"os"
	"slices"
	"sync"
)

// MemoryEngine is an in-process Engine that keeps bookkeeping instead of
// geometry. Model and animation loads succeed when the file exists on disk.
// It backs the CLI simulator and the package tests.
type MemoryEngine struct {
	mu   sync.Mutex
	next Handle
	caps Capabilities
	ver  string

	models  map[Handle]*memModel
	anims   map[Handle]string
	mats    map[Handle][16]float32
	loads   map[string]int
	deleted map[Handle]bool
	// dangling counts animations deleted while still bound to a layer.
	dangling int

	// FailModelPaths makes LoadModel* return 0 for these paths.
	FailModelPaths map[string]bool
}

type memModel struct {
	path    string
	layers  int
	elapsed float32
	history []Transition
	bound   []Handle
}

// Transition records one layer change observed by the engine.
type Transition struct {
	Layer int
	Anim  Handle
	Path  string
	Blend float32
}

// NewMemoryEngine returns an engine reporting the given version and caps.
func NewMemoryEngine(version string, caps Capabilities) *MemoryEngine {
	return &MemoryEngine{
		ver:            version,
		caps:           caps,
		models:         make(map[Handle]*memModel),
		anims:          make(map[Handle]string),
		mats:           make(map[Handle][16]float32),
		loads:          make(map[string]int),
		deleted:        make(map[Handle]bool),
		FailModelPaths: make(map[string]bool),
	}
}

func (e *MemoryEngine) Version() string { return e.ver }

func (e *MemoryEngine) Capabilities() Capabilities {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.caps
}

// SetCapabilities replaces the reported capabilities.
func (e *MemoryEngine) SetCapabilities(c Capabilities) {
	e.mu.Lock()
	e.caps = c
	e.mu.Unlock()
}

func (e *MemoryEngine) alloc() Handle {
	e.next++
	return e.next
}

func (e *MemoryEngine) loadModel(path string, layers int) Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loads[path]++
	if e.FailModelPaths[path] || !fileExists(path) {
		return 0
	}
	h := e.alloc()
	e.models[h] = &memModel{path: path, layers: layers, bound: make([]Handle, layers)}
	return h
}

func (e *MemoryEngine) LoadModelPMX(path, dir string, layerCount int) Handle {
	return e.loadModel(path, layerCount)
}

func (e *MemoryEngine) LoadModelPMD(path, dir string, layerCount int) Handle {
	return e.loadModel(path, layerCount)
}

func (e *MemoryEngine) DeleteModel(model Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.models[model]; ok {
		delete(e.models, model)
		e.deleted[model] = true
	}
}

func (e *MemoryEngine) UpdateModel(model Handle, deltaSeconds float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if m := e.models[model]; m != nil {
		m.elapsed += deltaSeconds
	}
}

func (e *MemoryEngine) ResetPhysics(model Handle) {}

func (e *MemoryEngine) LoadAnimation(model Handle, path string) Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loads[path]++
	if _, ok := e.models[model]; !ok || !fileExists(path) {
		return 0
	}
	h := e.alloc()
	e.anims[h] = path
	return h
}

func (e *MemoryEngine) DeleteAnimation(anim Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.anims[anim]; ok {
		for _, m := range e.models {
			if slices.Contains(m.bound, anim) {
				e.dangling++
			}
		}
		delete(e.anims, anim)
		e.deleted[anim] = true
	}
}

func (e *MemoryEngine) record(model Handle, layer int, anim Handle, blend float32) {
	m := e.models[model]
	if m == nil || layer < 0 || layer >= m.layers {
		return
	}
	m.history = append(m.history, Transition{Layer: layer, Anim: anim, Path: e.anims[anim], Blend: blend})
	m.bound[layer] = anim
}

func (e *MemoryEngine) ChangeAnim(model Handle, anim Handle, layer int) {
	e.mu.Lock()
	e.record(model, layer, anim, 0)
	e.mu.Unlock()
}

func (e *MemoryEngine) TransitionLayerTo(model Handle, layer int, anim Handle, blendSeconds float32) {
	e.mu.Lock()
	e.record(model, layer, anim, blendSeconds)
	e.mu.Unlock()
}

func (e *MemoryEngine) CreateMat() Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	h := e.alloc()
	e.mats[h] = identity
	return h
}

func (e *MemoryEngine) DeleteMat(mat Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.mats[mat]; ok {
		delete(e.mats, mat)
		e.deleted[mat] = true
	}
}

var identity = [16]float32{0: 1, 5: 1, 10: 1, 15: 1}

// Fixed hand bone offsets reported by SampleHandMat.
const (
	HandOffsetX = 0.35
	HandHeight  = 1.2
)

// SampleHandMat writes a translation placing the hand HandOffsetX to the
// right (or left) of the model origin at HandHeight.
func (e *MemoryEngine) SampleHandMat(model Handle, mat Handle, right bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.models[model]; !ok {
		return
	}
	if _, ok := e.mats[mat]; !ok {
		return
	}
	m := identity
	m[12] = -HandOffsetX
	if right {
		m[12] = HandOffsetX
	}
	m[13] = HandHeight
	e.mats[mat] = m
}

// ReadMat returns the contents of mat, or the identity for an unknown
// handle.
func (e *MemoryEngine) ReadMat(mat Handle) [16]float32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if m, ok := e.mats[mat]; ok {
		return m
	}
	return identity
}

// Dangling returns how many animations were deleted while a layer of a
// live model still referenced them.
func (e *MemoryEngine) Dangling() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dangling
}

// Transitions returns the layer changes applied to model, oldest first.
func (e *MemoryEngine) Transitions(model Handle) []Transition {
	e.mu.Lock()
	defer e.mu.Unlock()
	m := e.models[model]
	if m == nil {
		return nil
	}
	out := make([]Transition, len(m.history))
	copy(out, m.history)
	return out
}

// Loads returns how many times path was passed to a Load* call.
func (e *MemoryEngine) Loads(path string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loads[path]
}

// Deleted reports whether h was released through its Delete* call.
func (e *MemoryEngine) Deleted(h Handle) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deleted[h]
}

// Live returns the number of model, animation and matrix handles still held.
func (e *MemoryEngine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.models) + len(e.anims) + len(e.mats)
}

func fileExists(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}
