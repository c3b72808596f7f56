package classify

import (
	"context"

	"github.com/G-Research/submitfilter/internal/common/filtererrors"
	"github.com/G-Research/submitfilter/internal/submitfilter/options"
	"github.com/G-Research/submitfilter/internal/submitfilter/partition"
)

// Classification says what the submitter asked for explicitly.
type Classification struct {
	CPURequested bool
	GPURequested bool
	MemRequested bool
	// mem was set to the scheduler's "all memory on the node" value.
	AllMemoryRequested bool
	// Only exclusive=exclusive counts; per-user and per-mcs exclusivity share nodes.
	Exclusive bool
	Partition string
}

// CPURequested is true when the submitter asked for more than one cpu per task, for cpus per
// gpu, or for a socket layout.
func CPURequested(o *options.JobOptions) bool {
	if n, ok := o.CPUsPerTask.Number(); ok && n > 1 {
		return true
	}
	if n, ok := o.CPUsPerGPU.Number(); ok && n > 0 {
		return true
	}
	return o.CoresPerSocket.IsSet()
}

// GPURequested is true when any form of accelerator request is set.
func GPURequested(o *options.JobOptions) bool {
	return o.Gres.IsSet() || o.GPUs.IsSet() || o.GPUsPerNode.IsSet() || o.GPUsPerTask.IsSet()
}

func AllMemoryRequested(o *options.JobOptions) bool {
	return o.Mem.Equals(options.AllMemory)
}

// MemRequested is true for any memory request other than "all memory on the node".
func MemRequested(o *options.JobOptions) bool {
	return o.MemPerCPU.IsSet() || o.MemPerGPU.IsSet() || (o.Mem.IsSet() && !AllMemoryRequested(o))
}

func Exclusive(o *options.JobOptions) bool {
	return o.Exclusive.Equals(options.ExclusiveNode)
}

// ResolvePartition returns the partition named in the options, or else the cluster's default
// partition.
func ResolvePartition(ctx context.Context, o *options.JobOptions, src partition.Source) (string, error) {
	if name, ok := o.Partition.Get(); ok && name != "" {
		return name, nil
	}
	name, ok := partition.FindDefaultPartition(ctx, src)
	if !ok {
		return "", &filtererrors.ErrResolution{Message: "no partition requested and no default partition found"}
	}
	return name, nil
}

// Classify computes the Classification of o. The only I/O is the default partition lookup
// when o doesn't name a partition.
func Classify(ctx context.Context, o *options.JobOptions, src partition.Source) (Classification, error) {
	name, err := ResolvePartition(ctx, o, src)
	if err != nil {
		return Classification{}, err
	}
	return Classification{
		CPURequested:       CPURequested(o),
		GPURequested:       GPURequested(o),
		MemRequested:       MemRequested(o),
		AllMemoryRequested: AllMemoryRequested(o),
		Exclusive:          Exclusive(o),
		Partition:          name,
	}, nil
}
