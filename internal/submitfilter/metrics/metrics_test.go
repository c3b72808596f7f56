package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-Research/submitfilter/internal/submitfilter/partition"
)

func TestRecordDecision(t *testing.T) {
	m := NewMetrics()
	m.RecordDecision("work", CategoryCPU, OutcomeDefaulted)
	m.RecordDecision("work", CategoryCPU, OutcomeDefaulted)
	m.RecordDecision("gpu", CategoryAccelerator, OutcomeRejected)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.decisionsCounter.WithLabelValues("work", "cpu", "defaulted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisionsCounter.WithLabelValues("gpu", "accelerator", "rejected")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.decisionsCounter))
}

func TestRecordRejection(t *testing.T) {
	m := NewMetrics()
	m.RecordRejection("policy")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejectionsCounter.WithLabelValues("policy")))
}

func TestInstrumentSource(t *testing.T) {
	m := NewMetrics()
	src := m.InstrumentSource(partition.NewStaticSource("PartitionName=work Default=YES"))

	text, ok := src.Query(context.Background(), "work")
	require.True(t, ok)
	assert.Equal(t, "PartitionName=work Default=YES", text)

	_, ok = src.Query(context.Background(), "missing")
	assert.False(t, ok)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.queryFailedCounter))
	assert.Equal(t, 1, testutil.CollectAndCount(m.queryDurationHist))
}

func TestRecordPartitionQuery(t *testing.T) {
	m := NewMetrics()
	m.RecordPartitionQuery(50*time.Millisecond, true)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.queryFailedCounter))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RecordDecision("work", CategoryCPU, OutcomePassthrough)
	path := filepath.Join(t.TempDir(), "submitfilter.prom")

	require.NoError(t, m.WriteTextfile(path))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `submitfilter_decisions_total{category="cpu",outcome="passthrough",partition="work"} 1`)
}

func TestWriteTextfile_BadPath(t *testing.T) {
	m := NewMetrics()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "submitfilter.prom"))
	assert.Error(t, err)
}
