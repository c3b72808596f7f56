package policy

import (
	"math"

	"github.com/G-Research/submitfilter/internal/common/filtererrors"
	"github.com/G-Research/submitfilter/internal/submitfilter/classify"
	"github.com/G-Research/submitfilter/internal/submitfilter/diag"
	"github.com/G-Research/submitfilter/internal/submitfilter/options"
	"github.com/G-Research/submitfilter/internal/submitfilter/partition"
)

// cpuPolicy fills in memory for jobs on partitions without accelerators.
//
// DefMemPerCPU is memory per hardware thread. With one thread per core every cpu the job
// gets is a whole core, so it gets the memory of both of the core's threads.
func (e *Engine) cpuPolicy(c classify.Classification, record *partition.Record, o *options.JobOptions) ([]change, error) {
	if c.MemRequested {
		diag.Debugf(e.log, "memory requested explicitly, leaving options untouched")
		return nil, nil
	}

	defMemPerCPU, ok := record.Number(partition.FieldDefMemPerCPU)
	if !ok || defMemPerCPU < 0 {
		return nil, &filtererrors.ErrPartitionInfo{Partition: c.Partition, Field: partition.FieldDefMemPerCPU}
	}
	totalCPUs, ok := record.Number(partition.FieldTotalCPUs)
	if !ok || totalCPUs < 0 {
		return nil, &filtererrors.ErrPartitionInfo{Partition: c.Partition, Field: partition.FieldTotalCPUs}
	}
	totalNodes, ok := record.Number(partition.FieldTotalNodes)
	if !ok || totalNodes <= 0 {
		return nil, &filtererrors.ErrPartitionInfo{Partition: c.Partition, Field: partition.FieldTotalNodes}
	}

	memPerThread := math.Floor(defMemPerCPU)

	if c.Exclusive || c.AllMemoryRequested {
		threadsPerNode := math.Floor(totalCPUs / totalNodes)
		mem := int64(math.Floor(memPerThread * threadsPerNode))
		return []change{{key: options.KeyMem, value: options.Int(mem)}}, nil
	}

	scale := 1.0
	if tpc, ok := o.ThreadsPerCore.Number(); ok && tpc == 1 {
		scale = 2
	}
	return []change{{key: options.KeyMemPerCPU, value: options.Int(int64(memPerThread * scale))}}, nil
}
