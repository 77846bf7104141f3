package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordFile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordFile("CSV->BNCSV", true, 100, 40, 10*time.Millisecond)
	m.RecordFile("CSV->BNCSV", true, 50, 20, time.Millisecond)
	m.RecordFile("CSV->BNCSV", false, 10, 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.filesTotal.WithLabelValues("CSV->BNCSV", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.filesTotal.WithLabelValues("CSV->BNCSV", "error")))
	assert.Equal(t, 160.0, testutil.ToFloat64(m.bytesTotal.WithLabelValues("CSV->BNCSV", "in")))
	assert.Equal(t, 60.0, testutil.ToFloat64(m.bytesTotal.WithLabelValues("CSV->BNCSV", "out")))
}

func TestMetrics_Batch(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SetWorkers(3)
	m.RecordBatch("BNCSV->CSV", false)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.workers))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.batchesTotal.WithLabelValues("BNCSV->CSV", "error")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordFile("CSV->BNCSV", true, 1, 1, time.Second)
		m.RecordBatch("CSV->BNCSV", true)
		m.SetWorkers(1)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.RecordFile("CSV->BNCSV", true, 7, 3, time.Millisecond)

	path := filepath.Join(t.TempDir(), "bncsv.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `bncsv_files_total{direction="CSV->BNCSV",status="success"} 1`), text)
	assert.Contains(t, text, "bncsv_file_duration_seconds_bucket")
}
