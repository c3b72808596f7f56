package policy

import (
	"fmt"
	"math"

	"github.com/G-Research/submitfilter/internal/common/filtererrors"
	"github.com/G-Research/submitfilter/internal/submitfilter/classify"
	"github.com/G-Research/submitfilter/internal/submitfilter/options"
	"github.com/G-Research/submitfilter/internal/submitfilter/partition"
)

// acceleratorRequest is what the accelerator rules look at.
type acceleratorRequest struct {
	classify.Classification
	CPUsPerGPU   int64
	DefMemPerGPU string
}

// acceleratorPolicy binds cpus to gpus for jobs on accelerator partitions. Memory is left to
// the partition's JobDefaults and is never written here.
func (e *Engine) acceleratorPolicy(c classify.Classification, record *partition.Record) ([]change, error) {
	cpus, ok := record.TRES.Number(partition.TRESCPU)
	if !ok || cpus <= 0 {
		return nil, &filtererrors.ErrRatio{Partition: c.Partition}
	}
	gpus, ok := record.TRES.Number(partition.TRESGPU)
	if !ok || gpus <= 0 {
		return nil, &filtererrors.ErrRatio{Partition: c.Partition}
	}
	req := acceleratorRequest{
		Classification: c,
		CPUsPerGPU:     int64(math.Floor(cpus / gpus)),
	}
	req.DefMemPerGPU, _ = record.JobDefaults.Get(partition.JobDefMemPerGPU)

	if err := e.acceleratorRules.Validate(req); err != nil {
		return nil, err
	}

	changes := []change{{key: options.KeyCPUsPerGPU, value: options.Int(req.CPUsPerGPU)}}
	if c.Exclusive {
		changes = append(changes, change{key: e.acceleratorOption, value: e.fullNodeRequest()})
	}
	return changes, nil
}

func (e *Engine) fullNodeRequest() options.Value {
	if e.acceleratorOption == options.KeyGres {
		return options.Some(fmt.Sprintf("gpu:%d", e.gpusPerNode))
	}
	return options.Int(int64(e.gpusPerNode))
}

type explicitCPUValidator struct{}

func (explicitCPUValidator) Validate(r acceleratorRequest) error {
	if !r.CPURequested {
		return nil
	}
	return &filtererrors.ErrPolicyViolation{
		Partition: r.Partition,
		Rule:      "explicit-cpu",
		Message: fmt.Sprintf(
			"cpu resources can't be requested explicitly on partition %s: each gpu comes with %d cpu cores. "+
				"Request gpus instead and remove --cpus-per-task, --cpus-per-gpu and --cores-per-socket",
			r.Partition, r.CPUsPerGPU),
	}
}

type explicitMemoryValidator struct{}

func (explicitMemoryValidator) Validate(r acceleratorRequest) error {
	if !r.MemRequested {
		return nil
	}
	amount := "some"
	if r.DefMemPerGPU != "" {
		amount = r.DefMemPerGPU + "M of"
	}
	return &filtererrors.ErrPolicyViolation{
		Partition: r.Partition,
		Rule:      "explicit-memory",
		Message: fmt.Sprintf(
			"memory can't be requested explicitly on partition %s: each gpu comes with %s memory. "+
				"Remove --mem, --mem-per-cpu and --mem-per-gpu",
			r.Partition, amount),
	}
}

type gpuOrExclusiveValidator struct{}

func (gpuOrExclusiveValidator) Validate(r acceleratorRequest) error {
	if r.Exclusive || r.GPURequested {
		return nil
	}
	return &filtererrors.ErrPolicyViolation{
		Partition: r.Partition,
		Rule:      "gpu-or-exclusive",
		Message: fmt.Sprintf(
			"jobs on partition %s must request gpus (--gpus, --gpus-per-node, --gpus-per-task or --gres) "+
				"or whole nodes (--exclusive)",
			r.Partition),
	}
}
