// Package filtererrors contains the errors returned when a submission is rejected.
// Callers that need to distinguish between the reasons for a rejection, e.g. to pick an
// exit status, should look for the error types defined in this file with errors.As rather
// than inspecting messages.
package filtererrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind groups rejection reasons.
type Kind int

const (
	KindUnknown Kind = iota
	// No partition could be determined for the job.
	KindResolution
	// The partition query failed or returned unusable fields.
	KindRetrieval
	// The request conflicts with partition policy.
	KindPolicy
)

func (k Kind) String() string {
	switch k {
	case KindResolution:
		return "resolution"
	case KindRetrieval:
		return "retrieval"
	case KindPolicy:
		return "policy"
	default:
		return "unknown"
	}
}

// ErrResolution is returned when neither the job options nor the scheduler name a partition.
type ErrResolution struct {
	Message string
}

func (err *ErrResolution) Error() string {
	s := "unable to resolve partition"
	if err.Message != "" {
		s = s + fmt.Sprintf("; %s", err.Message)
	}
	return s
}

// ErrPartitionInfo is returned when information about a partition could not be retrieved,
// either because the query failed or because a field the policy needs is missing or not numeric.
// Field is optional and is omitted from the error message if not provided.
type ErrPartitionInfo struct {
	Partition string
	Field     string
}

func (err *ErrPartitionInfo) Error() string {
	if err.Field != "" {
		return fmt.Sprintf("unable to retrieve partition information for %q: field %s is missing or invalid", err.Partition, err.Field)
	}
	return fmt.Sprintf("unable to retrieve partition information for %q", err.Partition)
}

// ErrRatio is returned when the cpu to gpu ratio of an accelerator partition can't be derived
// from its TRES.
type ErrRatio struct {
	Partition string
}

func (err *ErrRatio) Error() string {
	return fmt.Sprintf("unable to determine cpu to gpu ratio for partition %q", err.Partition)
}

// ErrPolicyViolation is returned when the request conflicts with the rules of the partition.
// Message is expected to say what was wrong and what would have been allocated instead.
type ErrPolicyViolation struct {
	Partition string // Partition whose policy was violated, e.g., "gpu"
	Rule      string // Short name of the rule, e.g., "explicit-cpu"
	Message   string
}

func (err *ErrPolicyViolation) Error() string {
	return err.Message
}

// KindFromError maps error types to rejection kinds.
// Uses errors.As to look through the chain of errors, as opposed to just considering the topmost error in the chain.
func KindFromError(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	{
		var e *ErrResolution
		if errors.As(err, &e) {
			return KindResolution
		}
	}
	{
		var e *ErrPartitionInfo
		if errors.As(err, &e) {
			return KindRetrieval
		}
	}
	{
		var e *ErrRatio
		if errors.As(err, &e) {
			return KindRetrieval
		}
	}
	{
		var e *ErrPolicyViolation
		if errors.As(err, &e) {
			return KindPolicy
		}
	}
	return KindUnknown
}

// ExitCodeFromError returns the process exit status a command line front end should use for err.
func ExitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	switch KindFromError(err) {
	case KindResolution:
		return 2
	case KindRetrieval:
		return 3
	case KindPolicy:
		return 4
	default:
		return 1
	}
}
