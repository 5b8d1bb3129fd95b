package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces every environment override.
const EnvPrefix = "MODELRT_"

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr       string `json:"addr" yaml:"addr" toml:"addr" env:"ADDR"`
	AssetRoot  string `json:"asset_root" yaml:"asset_root" toml:"asset_root" env:"ASSET_ROOT"`
	CustomDir  string `json:"custom_clip_dir" yaml:"custom_clip_dir" toml:"custom_clip_dir" env:"CUSTOM_CLIP_DIR"`
	DefaultDir string `json:"default_clip_dir" yaml:"default_clip_dir" toml:"default_clip_dir" env:"DEFAULT_CLIP_DIR"`
	ClipExt    string `json:"clip_ext" yaml:"clip_ext" toml:"clip_ext" env:"CLIP_EXT"`
	PoseExt    string `json:"pose_ext" yaml:"pose_ext" toml:"pose_ext" env:"POSE_EXT"`

	MaxModels      int    `json:"max_models" yaml:"max_models" toml:"max_models" env:"MAX_MODELS"`
	IdleWindow     string `json:"idle_window" yaml:"idle_window" toml:"idle_window" env:"IDLE_WINDOW"`
	TriggerPercent int    `json:"trigger_percent" yaml:"trigger_percent" toml:"trigger_percent" env:"TRIGGER_PERCENT"`
	TargetPercent  int    `json:"target_percent" yaml:"target_percent" toml:"target_percent" env:"TARGET_PERCENT"`

	BlendSeconds float32 `json:"blend_seconds" yaml:"blend_seconds" toml:"blend_seconds" env:"BLEND_SECONDS"`
	LayerCount   int     `json:"layer_count" yaml:"layer_count" toml:"layer_count" env:"LAYER_COUNT"`

	EngineVersion string `json:"engine_version" yaml:"engine_version" toml:"engine_version" env:"ENGINE_VERSION"`
	GPUSkinning   bool   `json:"gpu_skinning" yaml:"gpu_skinning" toml:"gpu_skinning" env:"GPU_SKINNING"`

	LogLevel  string `json:"log_level" yaml:"log_level" toml:"log_level" env:"LOG_LEVEL"`
	LogFormat string `json:"log_format" yaml:"log_format" toml:"log_format" env:"LOG_FORMAT"`

	// Backends toggles built-in backends by name: backends.<name>.enabled.
	Backends map[string]BackendConfig `json:"backends" yaml:"backends" toml:"backends"`
	// DisabledBackends is the env-friendly form of Backends.
	DisabledBackends []string `json:"disabled_backends" yaml:"disabled_backends" toml:"disabled_backends" env:"DISABLED_BACKENDS" envSeparator:","`

	CORSAllowedOrigins []string `json:"cors_allowed_origins" yaml:"cors_allowed_origins" toml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// BackendConfig is the per-backend section.
type BackendConfig struct {
	Enabled *bool `json:"enabled" yaml:"enabled" toml:"enabled"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// ApplyEnv overlays MODELRT_* environment variables onto cfg. Unset
// variables leave the corresponding field untouched.
func ApplyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// IdleDuration parses IdleWindow; empty means zero (use the default).
func (c Config) IdleDuration() (time.Duration, error) {
	if strings.TrimSpace(c.IdleWindow) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.IdleWindow)
	if err != nil {
		return 0, fmt.Errorf("idle_window: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("idle_window must not be negative: %s", c.IdleWindow)
	}
	return d, nil
}

// Disabled returns the sorted, de-duplicated names of backends turned off
// through either the backends map or DisabledBackends.
func (c Config) Disabled() []string {
	set := make(map[string]struct{})
	for _, n := range c.DisabledBackends {
		if n = strings.TrimSpace(n); n != "" {
			set[n] = struct{}{}
		}
	}
	for n, b := range c.Backends {
		if b.Enabled != nil && !*b.Enabled {
			set[n] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Validate rejects values the runtime cannot honour.
func (c Config) Validate() error {
	if c.MaxModels < 0 {
		return fmt.Errorf("max_models must not be negative: %d", c.MaxModels)
	}
	if c.TriggerPercent < 0 || c.TriggerPercent > 100 {
		return fmt.Errorf("trigger_percent out of range: %d", c.TriggerPercent)
	}
	if c.TargetPercent < 0 || c.TargetPercent > 100 {
		return fmt.Errorf("target_percent out of range: %d", c.TargetPercent)
	}
	if c.TriggerPercent > 0 && c.TargetPercent > c.TriggerPercent {
		return fmt.Errorf("target_percent %d exceeds trigger_percent %d", c.TargetPercent, c.TriggerPercent)
	}
	if c.BlendSeconds < 0 {
		return fmt.Errorf("blend_seconds must not be negative")
	}
	if c.LayerCount != 0 && (c.LayerCount < 3 || c.LayerCount > 4) {
		return fmt.Errorf("layer_count must be 3 or 4: %d", c.LayerCount)
	}
	if _, err := c.IdleDuration(); err != nil {
		return err
	}
	return nil
}
