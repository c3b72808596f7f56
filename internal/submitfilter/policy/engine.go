// Package policy decides, for a single submission, whether to leave the job options alone,
// fill in defaults derived from the partition, or reject the job.
package policy

import (
	"context"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/G-Research/submitfilter/internal/common/filtererrors"
	"github.com/G-Research/submitfilter/internal/submitfilter/classify"
	"github.com/G-Research/submitfilter/internal/submitfilter/configuration"
	"github.com/G-Research/submitfilter/internal/submitfilter/diag"
	"github.com/G-Research/submitfilter/internal/submitfilter/options"
	"github.com/G-Research/submitfilter/internal/submitfilter/partition"
)

type Decision int

const (
	// The options were left untouched.
	Passthrough Decision = iota
	// Defaults derived from the partition were written to the options.
	Defaulted
)

func (d Decision) String() string {
	if d == Defaulted {
		return "defaulted"
	}
	return "passthrough"
}

// Result describes what Evaluate did to the options.
type Result struct {
	Decision    Decision
	Partition   string
	Accelerator bool
	// Options written, keyed by option name.
	Changes options.Wire
}

type change struct {
	key   string
	value options.Value
}

type Engine struct {
	source            partition.Source
	log               diag.Logger
	accelerators      map[string]bool
	gpusPerNode       int
	acceleratorOption string
	acceleratorRules  Validator[acceleratorRequest]
}

func New(config configuration.PolicyConfig, source partition.Source, logger diag.Logger) *Engine {
	acceleratorOption := config.AcceleratorOption
	if acceleratorOption == "" {
		acceleratorOption = options.KeyGPUsPerNode
	}
	return &Engine{
		source:            source,
		log:               logger,
		accelerators:      config.AcceleratorPartitionSet(),
		gpusPerNode:       config.GpusPerNode,
		acceleratorOption: acceleratorOption,
		acceleratorRules: NewCompoundValidator[acceleratorRequest](
			explicitCPUValidator{},
			explicitMemoryValidator{},
			gpuOrExclusiveValidator{},
		),
	}
}

// IsAccelerator reports whether name is one of the configured accelerator partitions.
func (e *Engine) IsAccelerator(name string) bool {
	return e.accelerators[name]
}

// AcceleratorPartitions returns the configured accelerator partitions, sorted.
func (e *Engine) AcceleratorPartitions() []string {
	names := maps.Keys(e.accelerators)
	slices.Sort(names)
	return names
}

// Evaluate applies the partition policy to o. On error o is left untouched and the Result
// only names the partition, if one was resolved. On success the Result lists every option that
// was written.
func (e *Engine) Evaluate(ctx context.Context, o *options.JobOptions) (Result, error) {
	c, err := classify.Classify(ctx, o, e.source)
	if err != nil {
		return Result{}, err
	}
	diag.Debugf(e.log, "partition %s: cpu=%t gpu=%t mem=%t all-mem=%t exclusive=%t",
		c.Partition, c.CPURequested, c.GPURequested, c.MemRequested, c.AllMemoryRequested, c.Exclusive)

	result := Result{Partition: c.Partition, Accelerator: e.IsAccelerator(c.Partition)}
	record := partition.GetPartitionInfo(ctx, e.source, c.Partition)
	if record == nil {
		return result, &filtererrors.ErrPartitionInfo{Partition: c.Partition}
	}

	var changes []change
	if result.Accelerator {
		changes, err = e.acceleratorPolicy(c, record)
	} else {
		changes, err = e.cpuPolicy(c, record, o)
	}
	if err != nil {
		return result, err
	}

	result.Changes = options.Wire{}
	for _, ch := range changes {
		o.SetOption(ch.key, ch.value)
		result.Changes[ch.key] = ch.value.String()
		diag.Debugf(e.log, "setting %s=%s", ch.key, ch.value.String())
	}
	if len(changes) > 0 {
		result.Decision = Defaulted
	}
	return result, nil
}
