package submitfilter

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-Research/submitfilter/internal/submitfilter/diag"
	"github.com/G-Research/submitfilter/internal/submitfilter/metrics"
	"github.com/G-Research/submitfilter/internal/submitfilter/options"
	"github.com/G-Research/submitfilter/internal/submitfilter/partition"
	"github.com/G-Research/submitfilter/internal/submitfilter/policy"
	"github.com/G-Research/submitfilter/internal/submitfilter/testfixtures"
)

func testFilter(src partition.Source) (*Filter, *diag.Recorder, *metrics.Metrics) {
	rec := diag.NewRecorder()
	m := metrics.NewMetrics()
	engine := policy.New(testfixtures.DefaultPolicyConfig(), src, rec)
	return NewFilter(engine, rec, m, 1), rec, m
}

func TestSetupDefaults(t *testing.T) {
	tests := map[string]struct {
		opts     options.Wire
		expected options.Wire
	}{
		"empty": {
			opts:     options.Wire{},
			expected: options.Wire{"threads-per-core": "1"},
		},
		"overrides existing value": {
			opts:     options.Wire{"threads-per-core": "2", "partition": "gpu"},
			expected: options.Wire{"threads-per-core": "1", "partition": "gpu"},
		},
		"overrides unset value": {
			opts:     options.Wire{"threads-per-core": "-2"},
			expected: options.Wire{"threads-per-core": "1"},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f, _, _ := testFilter(testfixtures.Partitions())
			o := options.FromWire(tc.opts)
			assert.Equal(t, StatusSuccess, f.SetupDefaults(o, false))
			assert.Equal(t, tc.expected, o.ToWire())
		})
	}
}

func TestSetupDefaults_ConfiguredThreadsPerCore(t *testing.T) {
	rec := diag.NewRecorder()
	f := NewFilter(policy.New(testfixtures.DefaultPolicyConfig(), testfixtures.Partitions(), rec), rec, nil, 2)
	o := options.FromWire(options.Wire{})
	f.SetupDefaults(o, true)
	assert.Equal(t, options.Wire{"threads-per-core": "2"}, o.ToWire())
}

func TestPreSubmit_Success(t *testing.T) {
	f, rec, m := testFilter(testfixtures.Partitions())
	o := options.FromWire(options.Wire{"partition": "work"})
	f.SetupDefaults(o, false)

	status, err := f.PreSubmit(context.Background(), o, 0)

	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, status)
	assert.Equal(t, options.Wire{"partition": "work", "threads-per-core": "1", "mem-per-cpu": "1840"}, o.ToWire())
	assert.Empty(t, rec.Errors())

	expected := `
# HELP submitfilter_decisions_total Number of pre-submit decisions grouped by partition, partition category and outcome
# TYPE submitfilter_decisions_total counter
submitfilter_decisions_total{category="cpu",outcome="defaulted",partition="work"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "submitfilter_decisions_total"))
}

func TestPreSubmit_Rejected(t *testing.T) {
	tests := map[string]struct {
		opts   options.Wire
		source partition.Source
		kind   string
		msg    string
	}{
		"no default partition": {
			opts:   options.Wire{"threads-per-core": "1"},
			source: testfixtures.PartitionsWithoutDefault(),
			kind:   "resolution",
			msg:    "submitfilter: unable to resolve partition",
		},
		"missing partition": {
			opts: options.Wire{"partition": "nope"},
			kind: "retrieval",
			msg:  `submitfilter: unable to retrieve partition information for "nope"`,
		},
		"gpu partition without gpus": {
			opts: options.Wire{"partition": "gpu", "threads-per-core": "1"},
			kind: "policy",
			msg:  "submitfilter: jobs on partition gpu must request gpus",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			src := tc.source
			if src == nil {
				src = testfixtures.Partitions()
			}
			f, rec, m := testFilter(src)
			o := options.FromWire(tc.opts)

			status, err := f.PreSubmit(context.Background(), o, 0)

			assert.Equal(t, StatusError, status)
			require.Error(t, err)
			require.Len(t, rec.Errors(), 1)
			assert.True(t, strings.HasPrefix(rec.Errors()[0], tc.msg), rec.Errors()[0])
			assert.Equal(t, tc.opts, o.ToWire())

			expected := `
# HELP submitfilter_rejections_total Number of rejected submissions grouped by reason
# TYPE submitfilter_rejections_total counter
submitfilter_rejections_total{kind="` + tc.kind + `"} 1
`
			assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "submitfilter_rejections_total"))
		})
	}
}

func TestPreSubmit_Twice(t *testing.T) {
	f, rec, _ := testFilter(testfixtures.Partitions())
	o := options.FromWire(options.Wire{"partition": "work", "exclusive": "exclusive"})
	f.SetupDefaults(o, false)

	status, err := f.PreSubmit(context.Background(), o, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, status)
	first := o.ToWire()

	status, err = f.PreSubmit(context.Background(), o, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, status)
	assert.Equal(t, first, o.ToWire())
	assert.Empty(t, rec.Errors())
}

func TestPreSubmit_WithoutMetrics(t *testing.T) {
	rec := diag.NewRecorder()
	f := NewFilter(policy.New(testfixtures.DefaultPolicyConfig(), testfixtures.Partitions(), rec), rec, nil, 1)
	status, err := f.PreSubmit(context.Background(), options.FromWire(options.Wire{"partition": "gpu", "gpus": "1"}), 0)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, status)
}

func TestPostSubmit(t *testing.T) {
	f, rec, _ := testFilter(testfixtures.Partitions())
	assert.Equal(t, StatusSuccess, f.PostSubmit(0, 1234, 0))
	assert.Empty(t, rec.Errors())
}
