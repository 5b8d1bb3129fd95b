package manager

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"modelrt/internal/native"
	"modelrt/pkg/types"
)

// writeFile creates p (and its parents) with placeholder content.
func writeFile(t *testing.T, p string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// clock is a settable time source for the cache.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock { return &clock{now: time.Unix(1_700_000_000, 0)} }

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	root   string
	engine *native.MemoryEngine
	clock  *clock
	m      *Manager
	pub    *MemoryPublisher
}

// newFixture lays out an asset root with two models (one pmx, one pmd) and
// shared clips, then builds a Manager over a MemoryEngine.
func newFixture(t *testing.T, mutate func(*ManagerConfig)) *fixture {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Alicia", "model.pmx"))
	writeFile(t, filepath.Join(root, "Alicia", "walk.vmd"))
	writeFile(t, filepath.Join(root, "Miku", "model.pmd"))
	writeFile(t, filepath.Join(root, "DefaultAnim", "idle.vmd"))
	writeFile(t, filepath.Join(root, "DefaultAnim", "walk.vmd"))
	writeFile(t, filepath.Join(root, "CustomAnim", "wave.vmd"))

	f := &fixture{
		root:   root,
		engine: native.NewMemoryEngine("v1.2.0", native.Capabilities{}),
		clock:  newClock(),
		pub:    NewMemoryPublisher(),
	}
	cfg := ManagerConfig{
		Engine: f.engine,
		Registry: []types.ModelSource{
			{Name: "Alicia", Dir: filepath.Join(root, "Alicia"), File: "model.pmx", Format: "pmx"},
			{Name: "Miku", Dir: filepath.Join(root, "Miku"), File: "model.pmd"},
		},
		AssetRoot: root,
		Logger:    zerolog.Nop(),
		Now:       f.clock.Now,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	m, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	m.SetEventPublisher(f.pub)
	f.m = m
	return f
}

func standing(id string) types.EntitySnapshot {
	return types.EntitySnapshot{ID: id, Health: 20}
}
