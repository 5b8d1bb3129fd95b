package native

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryEngine_LoadRequiresFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "model.pmx")
	e := NewMemoryEngine("1", Capabilities{})
	if h := e.LoadModelPMX(p, dir, 3); h != 0 {
		t.Fatalf("expected 0 for missing file, got %d", h)
	}
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	h := e.LoadModelPMX(p, dir, 3)
	if !h.Valid() {
		t.Fatalf("expected valid handle")
	}
	if e.Loads(p) != 2 {
		t.Fatalf("expected 2 load attempts, got %d", e.Loads(p))
	}
	e.DeleteModel(h)
	if !e.Deleted(h) || e.Live() != 0 {
		t.Fatalf("expected model released, live=%d", e.Live())
	}
}

func TestMemoryEngine_RecordsTransitions(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "model.pmd")
	clip := filepath.Join(dir, "walk.vmd")
	for _, f := range []string{p, clip} {
		if err := os.WriteFile(f, nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	e := NewMemoryEngine("1", Capabilities{})
	m := e.LoadModelPMD(p, dir, 3)
	a := e.LoadAnimation(m, clip)
	e.TransitionLayerTo(m, 0, a, 0.25)
	e.ChangeAnim(m, 0, 1)
	e.ChangeAnim(m, a, 7) // out of range, ignored
	got := e.Transitions(m)
	if len(got) != 2 {
		t.Fatalf("expected 2 transitions, got %+v", got)
	}
	if got[0].Path != clip || got[0].Blend != 0.25 || got[1].Layer != 1 || got[1].Anim != 0 {
		t.Fatalf("unexpected transitions: %+v", got)
	}
}

func TestMemoryEngine_HandMatsAndDangling(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "model.pmx")
	clip := filepath.Join(dir, "idle.vmd")
	for _, f := range []string{p, clip} {
		if err := os.WriteFile(f, nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	e := NewMemoryEngine("1", Capabilities{})
	m := e.LoadModelPMX(p, dir, 3)
	right, left := e.CreateMat(), e.CreateMat()
	if got := e.ReadMat(right); got[0] != 1 || got[12] != 0 {
		t.Fatalf("new matrix should be identity: %v", got)
	}
	e.SampleHandMat(m, right, true)
	e.SampleHandMat(m, left, false)
	if e.ReadMat(right)[12] != HandOffsetX || e.ReadMat(left)[12] != -HandOffsetX {
		t.Fatalf("unexpected hand offsets: %v %v", e.ReadMat(right), e.ReadMat(left))
	}

	a := e.LoadAnimation(m, clip)
	e.TransitionLayerTo(m, 0, a, 0.25)
	e.ChangeAnim(m, 0, 0)
	b := e.LoadAnimation(m, clip)
	e.TransitionLayerTo(m, 1, b, 0.25)
	e.DeleteAnimation(a)
	if e.Dangling() != 0 {
		t.Fatalf("detached clip counted as dangling")
	}
	e.DeleteAnimation(b)
	if e.Dangling() != 1 {
		t.Fatalf("expected bound clip to count as dangling, got %d", e.Dangling())
	}
}
