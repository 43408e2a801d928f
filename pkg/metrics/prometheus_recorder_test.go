package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncOperation(OpPublish, ResultSuccess)
	pr.IncOperation(OpPublish, ResultSuccess)
	pr.IncOperation(OpDelete, ResultFailed)
	pr.ObserveOperationDuration(OpPublish, 150*time.Millisecond)
	pr.AddBytesWritten(42)
	pr.IncRenderFailure(404)
	pr.IncDirectoryPruned()

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.operations.WithLabelValues("publish", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.operations.WithLabelValues("delete", "failed")))
	assert.Equal(t, 42.0, testutil.ToFloat64(pr.bytesWritten))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.renderFailures.WithLabelValues("404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.dirsPruned))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncOperation(OpPublish, ResultSuccess)
		pr.ObserveOperationDuration(OpDelete, time.Second)
		pr.AddBytesWritten(1)
		pr.IncRenderFailure(500)
		pr.IncDirectoryPruned()
	})
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncOperation(OpPublish, ResultSuccess)

	path := filepath.Join(t.TempDir(), "staticgen.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `staticgen_operations_total{operation="publish",result="success"} 1`))
}

func TestResultOf(t *testing.T) {
	assert.Equal(t, ResultSuccess, ResultOf(nil))
	assert.Equal(t, ResultFailed, ResultOf(os.ErrNotExist))
}
