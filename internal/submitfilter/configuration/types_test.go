package configuration

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := map[string]struct {
		mutate     func(c *SubmitFilterConfig)
		wantErrors int
	}{
		"default is valid": {
			mutate:     func(c *SubmitFilterConfig) {},
			wantErrors: 0,
		},
		"missing binary": {
			mutate:     func(c *SubmitFilterConfig) { c.Scontrol.Binary = "" },
			wantErrors: 1,
		},
		"bad log level": {
			mutate:     func(c *SubmitFilterConfig) { c.LogLevel = "chatty" },
			wantErrors: 1,
		},
		"unknown log format": {
			mutate:     func(c *SubmitFilterConfig) { c.LogFormat = "json" },
			wantErrors: 1,
		},
		"no gpus per node": {
			mutate:     func(c *SubmitFilterConfig) { c.Policy.GpusPerNode = 0 },
			wantErrors: 1,
		},
		"unknown accelerator option": {
			mutate:     func(c *SubmitFilterConfig) { c.Policy.AcceleratorOption = "mem" },
			wantErrors: 1,
		},
		"duplicate partition and empty partition": {
			mutate: func(c *SubmitFilterConfig) {
				c.Policy.AcceleratorPartitions = []string{"gpu", "gpu", ""}
			},
			wantErrors: 2,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := Default()
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErrors == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			merr, ok := err.(*multierror.Error)
			require.True(t, ok)
			assert.Len(t, merr.Errors, tc.wantErrors)
		})
	}
}

func TestAcceleratorPartitionSet(t *testing.T) {
	set := DefaultPolicyConfig().AcceleratorPartitionSet()
	assert.Equal(t, map[string]bool{"gpu": true, "gpu-dev": true, "gpu-highmem": true}, set)
	assert.False(t, set["gpu-"])
}

func TestWithDefaults(t *testing.T) {
	c := SubmitFilterConfig{Policy: PolicyConfig{AcceleratorPartitions: []string{"a100"}, GpusPerNode: 4}}.WithDefaults()
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, LogFormatCLI, c.LogFormat)
	assert.Equal(t, "scontrol", c.Scontrol.Binary)
	assert.Equal(t, []string{"a100"}, c.Policy.AcceleratorPartitions)
	assert.Equal(t, 4, c.Policy.GpusPerNode)
	assert.Equal(t, "gpus-per-node", c.Policy.AcceleratorOption)
	assert.Equal(t, 1, c.Policy.DefaultThreadsPerCore)
	assert.NoError(t, c.Validate())
}
