package cache

import (
	"time"

	"github.com/rs/zerolog"
)

// Defaults applied when corresponding Config fields are unset.
const (
	DefaultIdleWindow     = 60 * time.Second
	DefaultTriggerPercent = 100
	DefaultTargetPercent  = 70
)

// Config holds the eviction tunables of a Cache.
type Config struct {
	// Name labels metrics and log lines.
	Name string
	// IdleWindow is both the delay after OnSwitch before an idle sweep may
	// run and the idle age an entry must exceed to be swept.
	IdleWindow time.Duration
	// CheckAndClean fires when an insert would take size past
	// TriggerPercent of maxSize and evicts oldest entries so that size
	// after the insert is TargetPercent of maxSize.
	TriggerPercent int
	TargetPercent  int
	Logger         zerolog.Logger
	// Now overrides the clock; tests only.
	Now func() time.Time
}

func (cfg *Config) applyDefaults() {
	if cfg.Name == "" {
		cfg.Name = "default"
	}
	if cfg.IdleWindow <= 0 {
		cfg.IdleWindow = DefaultIdleWindow
	}
	if cfg.TriggerPercent <= 0 || cfg.TriggerPercent > 100 {
		cfg.TriggerPercent = DefaultTriggerPercent
	}
	if cfg.TargetPercent <= 0 || cfg.TargetPercent > cfg.TriggerPercent {
		cfg.TargetPercent = min(DefaultTargetPercent, cfg.TriggerPercent)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
}
