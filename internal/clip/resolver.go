// Package clip resolves animation clips and pose presets for a model
// instance through a three-tier search: the model's own folder, then the
// shared custom folder, then the shared default folder. Resolved handles are
// memoized per model until the model is released.
package clip

import (
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"modelrt/internal/common/fsutil"
	"modelrt/internal/metrics"
	"modelrt/internal/model"
	"modelrt/internal/native"
)

// Defaults applied when corresponding Config fields are unset.
const (
	DefaultCustomDir  = "CustomAnim"
	DefaultDefaultDir = "DefaultAnim"
	DefaultClipExt    = ".vmd"
	DefaultPoseExt    = ".vpd"
)

// Config locates the shared clip folders.
type Config struct {
	// Root is the asset root holding the shared folders.
	Root       string
	CustomDir  string
	DefaultDir string
	ClipExt    string
	PoseExt    string
	Logger     zerolog.Logger
}

// Resolver is safe for concurrent use.
type Resolver struct {
	engine native.Engine
	cfg    Config
	log    zerolog.Logger

	mu     sync.RWMutex
	models map[native.Handle]*modelClips

	warnMu sync.Mutex
	warned map[string]struct{}
}

// modelClips is the per-model clip map. mu serializes loads so two racing
// misses for the same model never load the same file twice.
type modelClips struct {
	mu       sync.Mutex
	handles  map[string]native.Handle
	missing  map[string]struct{}
	released bool
}

// New returns a Resolver loading through engine.
func New(engine native.Engine, cfg Config) *Resolver {
	if cfg.CustomDir == "" {
		cfg.CustomDir = DefaultCustomDir
	}
	if cfg.DefaultDir == "" {
		cfg.DefaultDir = DefaultDefaultDir
	}
	if cfg.ClipExt == "" {
		cfg.ClipExt = DefaultClipExt
	}
	if cfg.PoseExt == "" {
		cfg.PoseExt = DefaultPoseExt
	}
	return &Resolver{
		engine: engine,
		cfg:    cfg,
		log:    cfg.Logger.With().Str("component", "clip").Logger(),
		models: make(map[native.Handle]*modelClips),
		warned: make(map[string]struct{}),
	}
}

// Roots returns the search folders for a model folder, highest priority
// first.
func (r *Resolver) Roots(modelDir string) []string {
	return []string{
		modelDir,
		filepath.Join(r.cfg.Root, r.cfg.CustomDir),
		filepath.Join(r.cfg.Root, r.cfg.DefaultDir),
	}
}

// Locate returns the first existing clip file for name without loading it.
func (r *Resolver) Locate(modelDir, name string) (string, bool) {
	return r.locate(modelDir, name+r.cfg.ClipExt)
}

func (r *Resolver) locate(modelDir, file string) (string, bool) {
	for _, root := range r.Roots(modelDir) {
		p := filepath.Join(root, file)
		if fsutil.FileExists(p) {
			return p, true
		}
	}
	return "", false
}

// Resolve returns the clip handle for name on inst, or 0 when no search
// root holds a loadable "{name}{ClipExt}".
func (r *Resolver) Resolve(inst *model.Instance, name string) native.Handle {
	return r.resolve(inst, name+r.cfg.ClipExt)
}

// ResolvePose is Resolve for pose/expression presets ("{name}{PoseExt}").
func (r *Resolver) ResolvePose(inst *model.Instance, name string) native.Handle {
	return r.resolve(inst, name+r.cfg.PoseExt)
}

func (r *Resolver) clipsFor(h native.Handle) *modelClips {
	r.mu.RLock()
	mc := r.models[h]
	r.mu.RUnlock()
	if mc != nil {
		return mc
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if mc = r.models[h]; mc == nil {
		mc = &modelClips{handles: make(map[string]native.Handle), missing: make(map[string]struct{})}
		r.models[h] = mc
	}
	return mc
}

func (r *Resolver) resolve(inst *model.Instance, file string) native.Handle {
	if inst == nil || !inst.Handle.Valid() {
		return 0
	}
	mc := r.clipsFor(inst.Handle)
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.released {
		return 0
	}
	// Checked under mc.mu so a concurrent Release either sees the handles
	// loaded here or leaves a fresh entry that is dropped now.
	if inst.Released() {
		r.drop(inst.Handle, mc)
		return 0
	}
	if h, ok := mc.handles[file]; ok {
		metrics.ClipResolves.WithLabelValues("cached").Inc()
		return h
	}
	if _, ok := mc.missing[file]; ok {
		metrics.ClipResolves.WithLabelValues("missing").Inc()
		return 0
	}
	for _, root := range r.Roots(inst.Dir) {
		p := filepath.Join(root, file)
		if !fsutil.FileExists(p) {
			continue
		}
		h := r.engine.LoadAnimation(inst.Handle, p)
		if h.Valid() {
			mc.handles[file] = h
			metrics.ClipResolves.WithLabelValues("loaded").Inc()
			r.log.Debug().Str("clip", file).Str("path", p).Str("model", model.DisplayName(inst)).Msg("clip loaded")
			return h
		}
		r.log.Warn().Str("clip", file).Str("path", p).Msg("native engine rejected clip")
	}
	mc.missing[file] = struct{}{}
	metrics.ClipResolves.WithLabelValues("missing").Inc()
	r.warnOnce(file, inst)
	return 0
}

func (r *Resolver) warnOnce(file string, inst *model.Instance) {
	r.warnMu.Lock()
	_, seen := r.warned[file]
	if !seen {
		r.warned[file] = struct{}{}
	}
	r.warnMu.Unlock()
	if !seen {
		r.log.Warn().Str("clip", file).Str("model", model.DisplayName(inst)).Msg("clip not found in any search root")
	}
}

// drop removes mc from the model map if it is still the entry for h.
func (r *Resolver) drop(h native.Handle, mc *modelClips) {
	r.mu.Lock()
	if r.models[h] == mc {
		delete(r.models, h)
	}
	r.mu.Unlock()
	mc.released = true
}

// Loaded returns how many clip handles inst currently holds.
func (r *Resolver) Loaded(inst *model.Instance) int {
	r.mu.RLock()
	mc := r.models[inst.Handle]
	r.mu.RUnlock()
	if mc == nil {
		return 0
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return len(mc.handles)
}

// Release deletes every clip handle held for inst. It must run before the
// model handle itself is deleted.
func (r *Resolver) Release(inst *model.Instance) int {
	r.mu.Lock()
	mc := r.models[inst.Handle]
	delete(r.models, inst.Handle)
	r.mu.Unlock()
	if mc == nil {
		return 0
	}
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.released = true
	n := 0
	for _, h := range mc.handles {
		r.engine.DeleteAnimation(h)
		n++
	}
	mc.handles = nil
	mc.missing = nil
	return n
}
