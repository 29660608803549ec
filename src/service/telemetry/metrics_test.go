package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.FilesAnalyzed.Add(3)
	m.FileErrors.WithLabelValues(ReasonParse).Inc()
	m.Anomalies.WithLabelValues("orphan_parameter").Add(2)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.FilesAnalyzed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FileErrors.WithLabelValues(ReasonParse)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Anomalies.WithLabelValues("orphan_parameter")))
}

func TestMetrics_PrivateRegistries(t *testing.T) {
	a, b := New(), New()
	a.Methods.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Methods))
}

func TestMetrics_WriteFile(t *testing.T) {
	m := New()
	m.FileErrors.WithLabelValues(ReasonRead).Inc()

	path := filepath.Join(t.TempDir(), "run.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `codeanalyzer_file_errors_total{reason="read"} 1`)
}
