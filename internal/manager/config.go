package manager

import (
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

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultMaxModels = 100
)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	// Engine is required.
	Engine native.Engine
	// RequiredEngineVersion, when set, is checked by SanityCheck.
	RequiredEngineVersion string
	Registry              []types.ModelSource

	// Clip search layout.
	AssetRoot  string
	CustomDir  string
	DefaultDir string
	ClipExt    string
	PoseExt    string

	// Cache policy.
	MaxModels      int
	IdleWindow     time.Duration
	TriggerPercent int
	TargetPercent  int

	// Animation.
	BlendSeconds float32
	LayerCount   int

	// DisabledBackends lists built-in backend names to register disabled.
	DisabledBackends []string

	Logger zerolog.Logger
	// Now overrides the cache clock; tests only.
	Now func() time.Time
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) (*Manager, error) {
	if cfg.Engine == nil {
		return nil, ErrDependencyUnavailable("native engine not available")
	}
	if cfg.MaxModels <= 0 {
		cfg.MaxModels = defaultMaxModels
	}
	if cfg.LayerCount <= 0 {
		cfg.LayerCount = model.DefaultLayerCount
	}
	log := cfg.Logger.With().Str("component", "manager").Logger()
	m := &Manager{
		engine:        cfg.Engine,
		log:           log,
		publisher:     noopPublisher{},
		maxModels:     cfg.MaxModels,
		layerCount:    cfg.LayerCount,
		startTime:     time.Now(),
		engineVersion: cfg.Engine.Version(),

		requiredVersion: cfg.RequiredEngineVersion,
	}
	m.setRegistry(cfg.Registry)

	m.clips = clip.New(cfg.Engine, clip.Config{
		Root:       cfg.AssetRoot,
		CustomDir:  cfg.CustomDir,
		DefaultDir: cfg.DefaultDir,
		ClipExt:    cfg.ClipExt,
		PoseExt:    cfg.PoseExt,
		Logger:     cfg.Logger,
	})

	disabled := make(map[string]bool, len(cfg.DisabledBackends))
	for _, n := range cfg.DisabledBackends {
		disabled[n] = true
	}
	m.backends = backend.NewRegistry(cfg.Logger)
	m.hostCompat = backend.NewHostCompat(cfg.Engine, !disabled[backend.NameHostCompat])
	m.backends.Register(backend.NewCPU(cfg.Engine, !disabled[backend.NameCPU]))
	m.backends.Register(backend.NewGPU(cfg.Engine, !disabled[backend.NameGPU]))
	m.backends.Register(m.hostCompat)

	m.cache = cache.New[Key, *model.Instance](cache.Config{
		Name:           "models",
		IdleWindow:     cfg.IdleWindow,
		TriggerPercent: cfg.TriggerPercent,
		TargetPercent:  cfg.TargetPercent,
		Logger:         cfg.Logger,
		Now:            cfg.Now,
	})

	m.ctrl = anim.New(cfg.Engine, m.clips, anim.Config{
		BlendSeconds: cfg.BlendSeconds,
		Logger:       cfg.Logger,
	})
	return m, nil
}
