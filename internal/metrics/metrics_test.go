package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorsRegistered(t *testing.T) {
	// touch one series per vec so every family is gathered
	CacheLookups.WithLabelValues("t", "hit")
	CacheEvictions.WithLabelValues("t", "lru")
	CacheDisposeFailures.WithLabelValues("t")
	CacheSize.WithLabelValues("t")
	ClipResolves.WithLabelValues("loaded")
	BackendCreates.WithLabelValues("cpu", "ok")
	BackendCreateDuration.WithLabelValues("cpu")
	LayerTransitions.WithLabelValues("0", "idle")
	HTTPRequests.WithLabelValues("/t", "GET", "200")
	HTTPRequestDuration.WithLabelValues("/t", "GET", "200")

	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	seen := map[string]bool{}
	for _, mf := range mfs {
		if strings.HasPrefix(mf.GetName(), "modelrt_") {
			seen[mf.GetName()] = true
		}
	}
	for _, name := range []string{
		"modelrt_cache_lookups_total",
		"modelrt_cache_evictions_total",
		"modelrt_cache_dispose_failures_total",
		"modelrt_cache_entries",
		"modelrt_clip_resolves_total",
		"modelrt_backend_creates_total",
		"modelrt_backend_create_duration_seconds",
		"modelrt_anim_layer_transitions_total",
		"modelrt_http_requests_total",
		"modelrt_http_request_duration_seconds",
	} {
		if !seen[name] {
			t.Errorf("collector %s not registered", name)
		}
	}
}

func TestCounterIncrements(t *testing.T) {
	c := ClipResolves.WithLabelValues("missing")
	before := testutil.ToFloat64(c)
	c.Inc()
	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Fatalf("expected +1, got %v", got)
	}
}
