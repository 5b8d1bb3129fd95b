package manager

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"modelrt/internal/backend"
	"modelrt/internal/model"
	"modelrt/internal/native"
	"modelrt/pkg/types"
)

func TestNewWithConfigRequiresEngine(t *testing.T) {
	_, err := NewWithConfig(ManagerConfig{})
	if !IsDependencyUnavailable(err) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
}

func TestNewWithConfigDefaults(t *testing.T) {
	f := newFixture(t, nil)
	if f.m.maxModels != defaultMaxModels {
		t.Fatalf("expected default maxModels=%d got %d", defaultMaxModels, f.m.maxModels)
	}
	if f.m.layerCount != model.DefaultLayerCount {
		t.Fatalf("expected default layerCount=%d got %d", model.DefaultLayerCount, f.m.layerCount)
	}
	if got := len(f.m.Backends().List()); got != 3 {
		t.Fatalf("expected 3 built-in backends, got %d", got)
	}
}

func TestListModelsReturnsCopy(t *testing.T) {
	f := newFixture(t, nil)
	out := f.m.ListModels()
	if len(out) != 2 {
		t.Fatalf("expected 2 got %d", len(out))
	}
	out[0].Name = "z"
	if f.m.ListModels()[0].Name != "Alicia" {
		t.Fatalf("registry mutated through ListModels result")
	}
	if !f.m.Ready() {
		t.Fatalf("expected ready with a non-empty registry")
	}
	f.m.SetRegistry(nil)
	if f.m.Ready() {
		t.Fatalf("expected not ready with an empty registry")
	}
}

func TestAcquireUnknownModel(t *testing.T) {
	f := newFixture(t, nil)
	if _, err := f.m.Acquire("nope", "e1"); !IsModelNotFound(err) {
		t.Fatalf("expected model not found, got %v", err)
	}
}

func TestAcquireCachesPerEntity(t *testing.T) {
	f := newFixture(t, nil)
	a, err := f.m.Acquire("Alicia", "e1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	b, err := f.m.Acquire("Alicia", "e1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if a != b {
		t.Fatalf("expected the cached instance on second acquire")
	}
	c, err := f.m.Acquire("Alicia", "e2")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if c == a {
		t.Fatalf("expected a distinct instance per entity")
	}
	path := filepath.Join(f.root, "Alicia", "model.pmx")
	if n := f.engine.Loads(path); n != 2 {
		t.Fatalf("expected 2 engine loads, got %d", n)
	}
	if f.pub.Count("model_load") != 2 {
		t.Fatalf("expected 2 model_load events, got %d", f.pub.Count("model_load"))
	}
}

func TestAcquireBackendSelection(t *testing.T) {
	f := newFixture(t, nil)
	f.engine.SetCapabilities(native.Capabilities{GPUSkinning: true})

	pmx, err := f.m.Acquire("Alicia", "e1")
	if err != nil {
		t.Fatalf("Acquire pmx: %v", err)
	}
	if pmx.Backend != backend.NameGPU {
		t.Fatalf("expected gpu for pmx, got %q", pmx.Backend)
	}
	pmd, err := f.m.Acquire("Miku", "e1")
	if err != nil {
		t.Fatalf("Acquire pmd: %v", err)
	}
	if pmd.Backend != backend.NameCPU {
		t.Fatalf("expected cpu for pmd, got %q", pmd.Backend)
	}
	if pmd.Format != model.FormatPMD {
		t.Fatalf("expected format inferred from file name, got %v", pmd.Format)
	}
}

type shaderPack struct{ active bool }

func (s shaderPack) ShaderPackActive() bool { return s.active }

func TestNegotiateHostEnablesHostCompat(t *testing.T) {
	f := newFixture(t, nil)
	f.m.NegotiateHost(shaderPack{active: true})
	inst, err := f.m.Acquire("Alicia", "e1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if inst.Backend != backend.NameHostCompat {
		t.Fatalf("expected host-compat, got %q", inst.Backend)
	}
	f.m.NegotiateHost(nil)
	inst, err = f.m.Acquire("Alicia", "e2")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if inst.Backend != backend.NameCPU {
		t.Fatalf("expected cpu after withdrawal, got %q", inst.Backend)
	}
}

func TestDisabledBackendUsedAsFallback(t *testing.T) {
	f := newFixture(t, func(c *ManagerConfig) { c.DisabledBackends = []string{backend.NameCPU} })
	inst, err := f.m.Acquire("Alicia", "e1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if inst.Backend != backend.NameCPU {
		t.Fatalf("expected disabled cpu backend as last resort, got %q", inst.Backend)
	}
}

func TestAcquireLoadFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.engine.FailModelPaths[filepath.Join(f.root, "Alicia", "model.pmx")] = true
	_, err := f.m.Acquire("Alicia", "e1")
	if !backend.IsNoBackend(err) {
		t.Fatalf("expected no backend error, got %v", err)
	}
	if f.pub.Count("model_load_failed") != 1 {
		t.Fatalf("expected a model_load_failed event")
	}
	if got := len(f.m.Status().Instances); got != 0 {
		t.Fatalf("expected nothing cached after failure, got %d", got)
	}
}

func TestAcquireRespectsMaxModels(t *testing.T) {
	f := newFixture(t, func(c *ManagerConfig) { c.MaxModels = 10 })
	for i := 0; i < 25; i++ {
		f.clock.Advance(1)
		if _, err := f.m.Acquire("Alicia", fmt.Sprintf("e%02d", i)); err != nil {
			t.Fatalf("Acquire %d: %v", i, err)
		}
		if n := len(f.m.Status().Instances); n > 10 {
			t.Fatalf("cache grew to %d past max 10", n)
		}
	}
	st := f.m.Status()
	if st.LoadsTotal != 25 {
		t.Fatalf("expected 25 loads, got %d", st.LoadsTotal)
	}
	if st.DisposalsTotal != uint64(25-len(st.Instances)) {
		t.Fatalf("loads and disposals out of balance: %+v", st)
	}
	// the most recent entity must survive
	if _, ok := f.m.cache.Peek(Key{Model: "Alicia", Entity: "e24"}); !ok {
		t.Fatalf("expected most recent entity to stay cached")
	}
}

func TestAcquireTrimsToTargetWhenCapExceeded(t *testing.T) {
	f := newFixture(t, nil)
	for i := 0; i < 101; i++ {
		f.clock.Advance(1)
		if _, err := f.m.Acquire("Alicia", fmt.Sprintf("e%03d", i)); err != nil {
			t.Fatalf("Acquire %d: %v", i, err)
		}
		if i == 99 && f.pub.Count("model_dispose") != 0 {
			t.Fatalf("evicted before the cap was exceeded")
		}
	}
	st := f.m.Status()
	if len(st.Instances) != 70 || st.DisposalsTotal != 31 {
		t.Fatalf("expected 70 cached and 31 disposed, got %d and %d", len(st.Instances), st.DisposalsTotal)
	}
	for i := 0; i < 31; i++ {
		if _, ok := f.m.cache.Peek(Key{Model: "Alicia", Entity: fmt.Sprintf("e%03d", i)}); ok {
			t.Fatalf("oldest entity e%03d should have been evicted", i)
		}
	}
}

func TestConcurrentAcquireBuildsOnce(t *testing.T) {
	f := newFixture(t, nil)
	var wg sync.WaitGroup
	got := make([]*model.Instance, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inst, err := f.m.Acquire("Alicia", "e1")
			if err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			got[i] = inst
		}(i)
	}
	wg.Wait()
	for _, inst := range got[1:] {
		if inst != got[0] {
			t.Fatalf("expected every caller to share one instance")
		}
	}
	if n := f.engine.Loads(filepath.Join(f.root, "Alicia", "model.pmx")); n != 1 {
		t.Fatalf("expected a single engine load, got %d", n)
	}
}

func TestRenderPlaysIdle(t *testing.T) {
	f := newFixture(t, nil)
	inst, err := f.m.Render("Alicia", standing("e1"), 0.05)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if ls := inst.Layer(model.LayerLocomotion); ls.State != model.StateIdle || ls.Clip != "idle" {
		t.Fatalf("expected idle on layer 0, got %+v", ls)
	}
	tr := f.engine.Transitions(inst.Handle)
	if len(tr) != 1 || tr[0].Path != filepath.Join(f.root, "DefaultAnim", "idle.vmd") {
		t.Fatalf("unexpected transitions: %+v", tr)
	}
}

func TestRenderPrefersModelFolderClip(t *testing.T) {
	f := newFixture(t, nil)
	s := standing("e1")
	s.Pos = types.Vec3{X: 1}
	inst, err := f.m.Render("Alicia", s, 0.05)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	tr := f.engine.Transitions(inst.Handle)
	if len(tr) == 0 || tr[len(tr)-1].Path != filepath.Join(f.root, "Alicia", "walk.vmd") {
		t.Fatalf("expected walk from the model folder, got %+v", tr)
	}
}

func TestUpdateIgnoresReleasedInstance(t *testing.T) {
	f := newFixture(t, nil)
	inst, err := f.m.Acquire("Alicia", "e1")
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	f.m.Invalidate("Alicia", "e1")
	f.m.Update(standing("e1"), inst, 0.05)
	f.m.Update(standing("e1"), nil, 0.05)
	if ls := inst.Layer(model.LayerLocomotion); ls.Clip != "" {
		t.Fatalf("released instance was animated: %+v", ls)
	}
}
