package backend

import (
	"path/filepath"
	"sync/atomic"

	"modelrt/internal/model"
	"modelrt/internal/native"
)

// Names and default priorities of the built-in backends.
const (
	NameCPU        = "cpu"
	NameGPU        = "gpu"
	NameHostCompat = "host-compat"

	PriorityCPU        = 0
	PriorityHostCompat = 10
	PriorityGPU        = 20
)

// engineBackend is the shared native construction path. The concrete
// backends differ only in availability, format support and ranking.
type engineBackend struct {
	name     string
	priority int
	engine   native.Engine
	enabled  atomic.Bool
}

func (b *engineBackend) init(name string, priority int, e native.Engine, enabled bool) {
	b.name, b.priority, b.engine = name, priority, e
	b.enabled.Store(enabled)
}

func (b *engineBackend) Name() string      { return b.name }
func (b *engineBackend) Priority() int     { return b.priority }
func (b *engineBackend) Enabled() bool     { return b.enabled.Load() }
func (b *engineBackend) SetEnabled(v bool) { b.enabled.Store(v) }

func (b *engineBackend) Create(req Request) (*model.Instance, error) {
	path := filepath.Join(req.Dir, req.File)
	var h native.Handle
	if req.Format == model.FormatPMD {
		h = b.engine.LoadModelPMD(path, req.Dir, req.LayerCount)
	} else {
		h = b.engine.LoadModelPMX(path, req.Dir, req.LayerCount)
	}
	if !h.Valid() {
		return nil, ErrLoadFailed(path)
	}
	inst := model.NewInstance(h, req.Dir, req.File, req.Format, req.LayerCount)
	inst.Backend = b.name
	inst.RightHandMat = b.engine.CreateMat()
	inst.LeftHandMat = b.engine.CreateMat()
	b.engine.ResetPhysics(h)
	return inst, nil
}

// CPU skins on the CPU. Always available; loads every format.
type CPU struct{ engineBackend }

func NewCPU(e native.Engine, enabled bool) *CPU {
	b := &CPU{}
	b.init(NameCPU, PriorityCPU, e, enabled)
	return b
}

func (b *CPU) Available() bool              { return true }
func (b *CPU) Supports(f model.Format) bool { return true }

// GPU skins in a compute pass. Needs engine GPU skinning support and cannot
// load PMD files.
type GPU struct{ engineBackend }

func NewGPU(e native.Engine, enabled bool) *GPU {
	b := &GPU{}
	b.init(NameGPU, PriorityGPU, e, enabled)
	return b
}

func (b *GPU) Available() bool              { return b.engine.Capabilities().GPUSkinning }
func (b *GPU) Supports(f model.Format) bool { return f != model.FormatPMD }

// HostCapabilities is implemented by a host that can report shader-pack
// state. The host hands it over once at startup through Negotiate.
type HostCapabilities interface {
	ShaderPackActive() bool
}

// HostCompat renders through the host's own render API so third-party
// shader packs see the geometry. Unavailable until the host negotiates.
type HostCompat struct {
	engineBackend
	caps atomic.Pointer[HostCapabilities]
}

func NewHostCompat(e native.Engine, enabled bool) *HostCompat {
	b := &HostCompat{}
	b.init(NameHostCompat, PriorityHostCompat, e, enabled)
	return b
}

// Negotiate is the registration hook the host calls when it supports
// shader-pack interop. A nil caps withdraws it.
func (b *HostCompat) Negotiate(caps HostCapabilities) {
	if caps == nil {
		b.caps.Store(nil)
		return
	}
	b.caps.Store(&caps)
}

func (b *HostCompat) Available() bool {
	c := b.caps.Load()
	return c != nil && (*c).ShaderPackActive()
}

func (b *HostCompat) Supports(f model.Format) bool { return true }
