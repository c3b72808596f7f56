package submitfilter

import (
	"context"

	"github.com/G-Research/submitfilter/internal/common/filtererrors"
	"github.com/G-Research/submitfilter/internal/submitfilter/diag"
	"github.com/G-Research/submitfilter/internal/submitfilter/metrics"
	"github.com/G-Research/submitfilter/internal/submitfilter/options"
	"github.com/G-Research/submitfilter/internal/submitfilter/policy"
)

// Status is what the scheduler sees: success accepts the submission, error rejects it.
type Status int

const (
	StatusSuccess Status = 0
	StatusError   Status = -1
)

func (s Status) String() string {
	if s == StatusSuccess {
		return "success"
	}
	return "error"
}

// Filter holds the three hooks the scheduler calls for every submission.
type Filter struct {
	engine         *policy.Engine
	log            diag.Logger
	metrics        *metrics.Metrics
	threadsPerCore int64
}

// NewFilter returns a Filter. metrics may be nil.
func NewFilter(engine *policy.Engine, logger diag.Logger, m *metrics.Metrics, threadsPerCore int) *Filter {
	if threadsPerCore <= 0 {
		threadsPerCore = 1
	}
	return &Filter{
		engine:         engine,
		log:            logger,
		metrics:        m,
		threadsPerCore: int64(threadsPerCore),
	}
}

// SetupDefaults runs before the submitter's options are read, so anything set here can be
// overridden by the submitter.
func (f *Filter) SetupDefaults(opts *options.JobOptions, early bool) Status {
	opts.SetOption(options.KeyThreadsPerCore, options.Int(f.threadsPerCore))
	diag.Debugf(f.log, "setup defaults (early=%t): threads-per-core=%d", early, f.threadsPerCore)
	return StatusSuccess
}

// PreSubmit applies the partition policy to opts. When the job is rejected exactly one
// error diagnostic has been emitted and opts is unchanged.
func (f *Filter) PreSubmit(ctx context.Context, opts *options.JobOptions, offset int) (Status, error) {
	diag.Debugf(f.log, "pre-submit for component %d", offset)
	result, err := f.engine.Evaluate(ctx, opts)
	f.record(result, err)
	if err != nil {
		f.log.Error(err.Error())
		return StatusError, err
	}
	diag.Debugf(f.log, "partition %s: %s", result.Partition, result.Decision)
	return StatusSuccess, nil
}

func (f *Filter) PostSubmit(offset int, jobID, stepID uint32) Status {
	diag.Debugf(f.log, "post-submit for job %d step %d component %d", jobID, stepID, offset)
	return StatusSuccess
}

func (f *Filter) record(result policy.Result, err error) {
	if f.metrics == nil {
		return
	}
	category := metrics.CategoryUnknown
	if result.Partition != "" {
		category = metrics.CategoryCPU
		if result.Accelerator {
			category = metrics.CategoryAccelerator
		}
	}
	outcome := metrics.OutcomePassthrough
	switch {
	case err != nil:
		outcome = metrics.OutcomeRejected
		f.metrics.RecordRejection(filtererrors.KindFromError(err).String())
	case result.Decision == policy.Defaulted:
		outcome = metrics.OutcomeDefaulted
	}
	f.metrics.RecordDecision(result.Partition, category, outcome)
}
