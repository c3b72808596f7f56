package filtererrors

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindFromError(t *testing.T) {
	tests := map[string]struct {
		err  error
		want Kind
	}{
		"ErrResolution":                   {&ErrResolution{}, KindResolution},
		"ErrPartitionInfo":                {&ErrPartitionInfo{}, KindRetrieval},
		"ErrRatio":                        {&ErrRatio{}, KindRetrieval},
		"ErrPolicyViolation":              {&ErrPolicyViolation{}, KindPolicy},
		"pkg.Error => ErrResolution":      {errors.WithMessage(&ErrResolution{}, "foo"), KindResolution},
		"pkg.Error => ErrPartitionInfo":   {errors.Wrap(&ErrPartitionInfo{}, "foo"), KindRetrieval},
		"pkg.Error => ErrPolicyViolation": {errors.WithStack(&ErrPolicyViolation{}), KindPolicy},
		"pkg.Error":                       {errors.New("foo"), KindUnknown},
		"nil":                             {nil, KindUnknown},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, KindFromError(tc.err))
		})
	}
}

func TestExitCodeFromError(t *testing.T) {
	assert.Equal(t, 0, ExitCodeFromError(nil))
	assert.Equal(t, 1, ExitCodeFromError(errors.New("foo")))
	assert.Equal(t, 2, ExitCodeFromError(&ErrResolution{}))
	assert.Equal(t, 3, ExitCodeFromError(&ErrRatio{Partition: "gpu"}))
	assert.Equal(t, 4, ExitCodeFromError(&ErrPolicyViolation{}))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "unable to resolve partition", (&ErrResolution{}).Error())
	assert.Equal(t, "unable to resolve partition; no default partition", (&ErrResolution{Message: "no default partition"}).Error())
	assert.Equal(t, `unable to retrieve partition information for "work"`, (&ErrPartitionInfo{Partition: "work"}).Error())
	assert.Equal(t,
		`unable to retrieve partition information for "work": field DefMemPerCPU is missing or invalid`,
		(&ErrPartitionInfo{Partition: "work", Field: "DefMemPerCPU"}).Error())
	assert.Equal(t, `unable to determine cpu to gpu ratio for partition "gpu"`, (&ErrRatio{Partition: "gpu"}).Error())
	assert.Equal(t, "nope", (&ErrPolicyViolation{Message: "nope"}).Error())
	assert.Equal(t, "policy", KindPolicy.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
