package manager

import (
	"modelrt/internal/common/fsutil"
	"modelrt/internal/native"
)

// SanityReport describes startup checks against the engine and asset tree.
type SanityReport struct {
	EngineVersion   string   `json:"engine_version"`
	RequiredVersion string   `json:"required_version,omitempty"`
	VersionOK       bool     `json:"version_ok"`
	GPUSkinning     bool     `json:"gpu_skinning"`
	Models          int      `json:"models"`
	MissingDirs     []string `json:"missing_dirs,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// SanityCheck validates the engine version and that the shared clip folders
// exist. Missing folders are reported, not fatal: resolution just skips
// them. It does not mutate state and is safe to call at any time.
func (m *Manager) SanityCheck() SanityReport {
	r := SanityReport{
		EngineVersion:   m.engineVersion,
		RequiredVersion: m.requiredVersion,
		VersionOK:       true,
		GPUSkinning:     m.engine.Capabilities().GPUSkinning,
		Models:          len(m.ListModels()),
	}
	if m.requiredVersion != "" {
		if err := native.CheckVersion(m.engine, m.requiredVersion); err != nil {
			r.VersionOK = false
			r.Error = err.Error()
		}
	}
	// Roots("") yields only the shared folders after the empty model slot.
	for _, dir := range m.clips.Roots("")[1:] {
		if !fsutil.DirExists(dir) {
			r.MissingDirs = append(r.MissingDirs, dir)
		}
	}
	return r
}
