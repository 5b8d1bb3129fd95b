package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"modelrt/internal/httpapi"
	"modelrt/internal/manager"
	"modelrt/internal/native"
	"modelrt/internal/registry"
	"modelrt/internal/sim"
)

// createAssetRoot lays out model folders with a model.pmx each plus the
// shared default clip folder, and returns the root.
func createAssetRoot(t *testing.T, models ...string) string {
	t.Helper()
	root := t.TempDir()
	files := []string{filepath.Join("DefaultAnim", "idle.vmd"), filepath.Join("DefaultAnim", "walk.vmd")}
	for _, m := range models {
		files = append(files, filepath.Join(m, "model.pmx"))
	}
	for _, f := range files {
		p := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	return root
}

type stack struct {
	srv    *httptest.Server
	mgr    *manager.Manager
	engine *native.MemoryEngine
	clock  *sim.Clock
}

func newServerForRoot(t *testing.T, root string, cfg manager.ManagerConfig) *stack {
	t.Helper()
	reg, err := registry.LoadDir(root, "DefaultAnim", "CustomAnim")
	if err != nil {
		t.Fatalf("scan models: %v", err)
	}
	s := &stack{
		engine: native.NewMemoryEngine("1.0.0", native.Capabilities{}),
		clock:  sim.NewClock(time.Unix(1_700_000_000, 0)),
	}
	cfg.Engine = s.engine
	cfg.Registry = reg
	cfg.AssetRoot = root
	cfg.Logger = zerolog.Nop()
	cfg.Now = s.clock.Now
	s.mgr, err = manager.NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	s.srv = httptest.NewServer(httpapi.NewMux(s.mgr))
	t.Cleanup(s.srv.Close)
	return s
}

func httpDo(t *testing.T, method, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func decode(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode %q: %v", body, err)
	}
}
