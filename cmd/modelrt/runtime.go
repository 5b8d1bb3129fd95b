package main

import (
	"time"

	"modelrt/internal/clip"
	"modelrt/internal/common/fsutil"
	"modelrt/internal/config"
	"modelrt/internal/manager"
	"modelrt/internal/native"
	"modelrt/internal/registry"
)

// buildManager discovers models under the asset root and composes a
// Manager over the in-process engine. now overrides the cache clock.
func buildManager(o *options, now func() time.Time) (*manager.Manager, *native.MemoryEngine, error) {
	cfg := o.cfg
	root, err := fsutil.ExpandHome(cfg.AssetRoot)
	if err != nil {
		return nil, nil, err
	}
	customDir, defaultDir := clipDirs(cfg)
	reg, err := registry.LoadDir(root, customDir, defaultDir)
	if err != nil {
		return nil, nil, err
	}
	idle, err := cfg.IdleDuration()
	if err != nil {
		return nil, nil, err
	}
	engine := native.NewMemoryEngine(cfg.EngineVersion, native.Capabilities{GPUSkinning: cfg.GPUSkinning})
	m, err := manager.NewWithConfig(manager.ManagerConfig{
		Engine:                engine,
		RequiredEngineVersion: defaultEngineVersion,
		Registry:              reg,
		AssetRoot:             root,
		CustomDir:             customDir,
		DefaultDir:            defaultDir,
		ClipExt:               cfg.ClipExt,
		PoseExt:               cfg.PoseExt,
		MaxModels:             cfg.MaxModels,
		IdleWindow:            idle,
		TriggerPercent:        cfg.TriggerPercent,
		TargetPercent:         cfg.TargetPercent,
		BlendSeconds:          cfg.BlendSeconds,
		LayerCount:            cfg.LayerCount,
		DisabledBackends:      cfg.Disabled(),
		Logger:                o.log,
		Now:                   now,
	})
	if err != nil {
		return nil, nil, err
	}
	o.log.Info().Str("root", root).Int("models", len(reg)).Msg("models discovered")
	return m, engine, nil
}

func clipDirs(cfg config.Config) (custom, def string) {
	custom, def = cfg.CustomDir, cfg.DefaultDir
	if custom == "" {
		custom = clip.DefaultCustomDir
	}
	if def == "" {
		def = clip.DefaultDefaultDir
	}
	return custom, def
}
