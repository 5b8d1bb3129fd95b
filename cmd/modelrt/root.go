package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"modelrt/internal/config"
)

// options carries the resolved configuration into every subcommand.
type options struct {
	configPath string
	cfg        config.Config
	log        zerolog.Logger
	stderr     io.Writer
}

// defaults applied after file and env values.
const (
	defaultAddr          = ":8089"
	defaultAssetRoot     = "~/.modelrt"
	defaultEngineVersion = "1.0.0"
	defaultLogLevel      = "info"
	defaultLogFormat     = "console"
)

// buildRootCmd is a convenience for main.
func buildRootCmd() *cobra.Command { return buildRootCmdWith(&options{stderr: os.Stderr}) }

// buildRootCmdWith constructs the command tree. Config precedence is file,
// then MODELRT_* env, then explicit flags.
func buildRootCmdWith(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "modelrt",
		Short:         "Model lifecycle and layered animation runtime",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&o.configPath, "config", "c", "", "Config file (.yaml, .json, .toml)")
	pf.String("asset-root", "", "Folder holding model folders and shared clip folders (default "+defaultAssetRoot+")")
	pf.String("log-level", "", "Log level: debug|info|warn|error")
	pf.String("log-format", "", "Log format: console|json")
	pf.String("disable-backends", "", "Comma-separated backend names to register disabled")
	pf.Bool("gpu-skinning", false, "Report GPU skinning support from the in-process engine")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := o.resolve(cmd); err != nil {
			return err
		}
		o.log = newLogger(o.stderr, o.cfg.LogLevel, o.cfg.LogFormat)
		return nil
	}

	root.AddCommand(
		newServeCmd(o),
		newSimulateCmd(o),
		newProbeCmd(o),
		newVersionCmd(o),
	)
	return root
}

// resolve loads the config file, overlays env and flags, then applies
// defaults and validates.
func (o *options) resolve(cmd *cobra.Command) error {
	var cfg config.Config
	if o.configPath != "" {
		c, err := config.Load(o.configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	if err := config.ApplyEnv(&cfg); err != nil {
		return err
	}
	flags := cmd.Flags()
	if f := flags.Lookup("asset-root"); f != nil && f.Changed {
		cfg.AssetRoot = f.Value.String()
	}
	if f := flags.Lookup("log-level"); f != nil && f.Changed {
		cfg.LogLevel = f.Value.String()
	}
	if f := flags.Lookup("log-format"); f != nil && f.Changed {
		cfg.LogFormat = f.Value.String()
	}
	if f := flags.Lookup("disable-backends"); f != nil && f.Changed {
		cfg.DisabledBackends = append(cfg.DisabledBackends, splitCSV(f.Value.String())...)
	}
	if f := flags.Lookup("gpu-skinning"); f != nil && f.Changed {
		cfg.GPUSkinning = f.Value.String() == "true"
	}
	if f := flags.Lookup("addr"); f != nil && f.Changed {
		cfg.Addr = f.Value.String()
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	o.cfg = cfg
	return nil
}

func applyDefaults(cfg *config.Config) {
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.AssetRoot == "" {
		cfg.AssetRoot = defaultAssetRoot
	}
	if cfg.EngineVersion == "" {
		cfg.EngineVersion = defaultEngineVersion
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = defaultLogFormat
	}
}

func newLogger(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// splitCSV splits a comma-separated list, trimming blanks.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
