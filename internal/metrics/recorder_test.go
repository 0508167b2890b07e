package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_Counters(t *testing.T) {
	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.IncGeneration("action.yml")
	rec.IncGeneration("action.yml")
	rec.IncMigration("auto-doc")
	rec.IncSkipped("action.yml")
	rec.IncError("manifest")
	rec.ObserveRunDuration(125 * time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(rec.generations.WithLabelValues("action.yml")))
	require.Equal(t, 1.0, testutil.ToFloat64(rec.migrations.WithLabelValues("auto-doc")))
	require.Equal(t, 1.0, testutil.ToFloat64(rec.skipped.WithLabelValues("action.yml")))
	require.Equal(t, 1.0, testutil.ToFloat64(rec.errors.WithLabelValues("manifest")))
}

func TestPush_DeliversToGateway(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	reg := prom.NewRegistry()
	rec := NewPrometheusRecorder(reg)
	rec.IncMigration("auto-doc")

	require.NoError(t, Push(server.URL, reg))
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/metrics/job/actiondocs", gotPath)
}

func TestNoopRecorder_SatisfiesInterface(t *testing.T) {
	var rec Recorder = NoopRecorder{}
	rec.IncGeneration("x")
	rec.ObserveRunDuration(time.Second)
}
