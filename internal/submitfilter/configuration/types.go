package configuration

import (
	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/G-Research/submitfilter/internal/submitfilter/options"
)

const (
	LogFormatCLI  = "cli"
	LogFormatText = "text"
)

type SubmitFilterConfig struct {
	// Log level, e.g. info, debug.
	LogLevel string `validate:"required,oneof=trace debug info warn warning error"`
	// Log format: cli prints bare messages, text adds timestamps and fields.
	LogFormat string `validate:"required,oneof=cli text"`
	Scontrol  ScontrolConfig
	Policy    PolicyConfig
	Metrics   MetricsConfig
}

type ScontrolConfig struct {
	// Command used to describe partitions. Looked up on PATH unless absolute.
	Binary string `validate:"required"`
}

type PolicyConfig struct {
	// Partitions whose nodes carry accelerators. Matched by exact name.
	AcceleratorPartitions []string `validate:"required,dive,required"`
	// Number of accelerators requested for whole-node jobs on accelerator partitions.
	GpusPerNode int `validate:"gt=0"`
	// Option that receives GpusPerNode for whole-node jobs.
	AcceleratorOption string `validate:"required"`
	// Value setup-defaults writes to threads-per-core.
	DefaultThreadsPerCore int `validate:"gt=0"`
}

type MetricsConfig struct {
	// If set, metrics are written to this file in the Prometheus text format on exit,
	// e.g. for the node exporter textfile collector.
	Textfile string
}

// AcceleratorPartitionSet returns the accelerator partitions as a set.
func (c PolicyConfig) AcceleratorPartitionSet() map[string]bool {
	set := make(map[string]bool, len(c.AcceleratorPartitions))
	for _, p := range c.AcceleratorPartitions {
		set[p] = true
	}
	return set
}

// Default returns the configuration used when no config file overrides it.
func Default() SubmitFilterConfig {
	return SubmitFilterConfig{
		LogLevel:  "info",
		LogFormat: LogFormatCLI,
		Scontrol:  ScontrolConfig{Binary: "scontrol"},
		Policy:    DefaultPolicyConfig(),
	}
}

// WithDefaults returns c with every zero-valued field replaced by its default.
func (c SubmitFilterConfig) WithDefaults() SubmitFilterConfig {
	d := Default()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
	if c.Scontrol.Binary == "" {
		c.Scontrol.Binary = d.Scontrol.Binary
	}
	if len(c.Policy.AcceleratorPartitions) == 0 {
		c.Policy.AcceleratorPartitions = d.Policy.AcceleratorPartitions
	}
	if c.Policy.GpusPerNode == 0 {
		c.Policy.GpusPerNode = d.Policy.GpusPerNode
	}
	if c.Policy.AcceleratorOption == "" {
		c.Policy.AcceleratorOption = d.Policy.AcceleratorOption
	}
	if c.Policy.DefaultThreadsPerCore == 0 {
		c.Policy.DefaultThreadsPerCore = d.Policy.DefaultThreadsPerCore
	}
	return c
}

func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		AcceleratorPartitions: []string{"gpu", "gpu-dev", "gpu-highmem"},
		GpusPerNode:           8,
		AcceleratorOption:     options.KeyGPUsPerNode,
		DefaultThreadsPerCore: 1,
	}
}

var acceleratorOptions = []string{
	options.KeyGres,
	options.KeyGPUs,
	options.KeyGPUsPerNode,
	options.KeyGPUsPerTask,
}

// Validate checks struct constraints and returns every problem found, not just the first.
// Struct constraint failures are returned as validator.ValidationErrors inside the multierror.
func (c SubmitFilterConfig) Validate() error {
	var result *multierror.Error
	if err := validator.New().Struct(c); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Policy.AcceleratorOption != "" && !slices.Contains(acceleratorOptions, c.Policy.AcceleratorOption) {
		result = multierror.Append(result, errors.Errorf(
			"policy.acceleratorOption %q must be one of %v", c.Policy.AcceleratorOption, acceleratorOptions))
	}
	seen := map[string]bool{}
	for _, p := range c.Policy.AcceleratorPartitions {
		if seen[p] {
			result = multierror.Append(result, errors.Errorf("policy.acceleratorPartitions lists %q twice", p))
		}
		seen[p] = true
	}
	return result.ErrorOrNil()
}
