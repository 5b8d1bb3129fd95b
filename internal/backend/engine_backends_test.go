package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"modelrt/internal/model"
	"modelrt/internal/native"
)

type shaderPack struct{ active bool }

func (s shaderPack) ShaderPackActive() bool { return s.active }

func writeModel(t *testing.T, name string) (dir string) {
	t.Helper()
	dir = t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return dir
}

func TestBuiltinBackends_Availability(t *testing.T) {
	e := native.NewMemoryEngine("1", native.Capabilities{})
	gpu := NewGPU(e, true)
	compat := NewHostCompat(e, true)
	cpu := NewCPU(e, true)

	if !cpu.Available() || gpu.Available() || compat.Available() {
		t.Fatalf("without capabilities only cpu is available")
	}

	e.SetCapabilities(native.Capabilities{GPUSkinning: true})
	if !gpu.Available() {
		t.Fatalf("gpu should be available with skinning")
	}
	if gpu.Supports(model.FormatPMD) || !gpu.Supports(model.FormatPMX) {
		t.Fatalf("gpu supports pmx only")
	}

	compat.Negotiate(shaderPack{active: true})
	if !compat.Available() {
		t.Fatalf("compat should be available with an active shader pack")
	}
	compat.Negotiate(nil)
	if compat.Available() {
		t.Fatalf("compat should drop out when the host withdraws")
	}
}

func TestBuiltinBackends_PMDFallsThroughToCPU(t *testing.T) {
	e := native.NewMemoryEngine("1", native.Capabilities{GPUSkinning: true})
	r := NewRegistry(zerolog.Nop())
	r.Register(NewCPU(e, true))
	r.Register(NewGPU(e, true))

	dir := writeModel(t, "model.pmd")
	inst, err := r.SelectAndCreate("model.pmd", dir, model.FormatPMD, 4)
	if err != nil {
		t.Fatalf("SelectAndCreate pmd: %v", err)
	}
	if inst.Backend != NameCPU || inst.LayerCount() != 4 {
		t.Fatalf("unexpected instance: backend=%s layers=%d", inst.Backend, inst.LayerCount())
	}
	if !inst.RightHandMat.Valid() || !inst.LeftHandMat.Valid() {
		t.Fatalf("hand matrices not allocated")
	}

	dir = writeModel(t, "model.pmx")
	inst, err = r.SelectAndCreate("model.pmx", dir, model.FormatPMX, 3)
	if err != nil {
		t.Fatalf("SelectAndCreate pmx: %v", err)
	}
	if inst.Backend != NameGPU {
		t.Fatalf("expected gpu for pmx, got %s", inst.Backend)
	}
}

func TestBuiltinBackends_MissingFile(t *testing.T) {
	e := native.NewMemoryEngine("1", native.Capabilities{})
	cpu := NewCPU(e, true)
	if _, err := cpu.Create(Request{File: "model.pmx", Dir: t.TempDir(), LayerCount: 3}); !IsLoadFailed(err) {
		t.Fatalf("expected load failure, got %v", err)
	}

	r := NewRegistry(zerolog.Nop())
	r.Register(cpu)
	if _, err := r.SelectAndCreate("model.pmx", t.TempDir(), model.FormatPMX, 3); !IsNoBackend(err) {
		t.Fatalf("expected no backend, got %v", err)
	}
}
