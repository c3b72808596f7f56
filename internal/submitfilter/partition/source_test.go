package partition_test

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G-Research/submitfilter/internal/submitfilter/partition"
	"github.com/G-Research/submitfilter/internal/submitfilter/testfixtures"
)

type fakeRunner struct {
	out   string
	err   error
	calls [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return []byte(f.out), f.err
}

func TestCommandSource_Query(t *testing.T) {
	runner := &fakeRunner{out: testfixtures.WorkPartition + "\n"}
	src := partition.NewCommandSource("/usr/bin/scontrol", runner)

	text, ok := src.Query(context.Background(), "work")
	assert.True(t, ok)
	assert.Equal(t, testfixtures.WorkPartition+"\n", text)

	_, ok = src.Query(context.Background(), "")
	assert.True(t, ok)

	assert.Equal(t, [][]string{
		{"/usr/bin/scontrol", "-o", "show", "partition", "work"},
		{"/usr/bin/scontrol", "-o", "show", "partition"},
	}, runner.calls)
}

func TestCommandSource_QueryFailure(t *testing.T) {
	runner := &fakeRunner{out: "partition nope not found", err: errors.New("exit status 1")}
	src := partition.NewCommandSource("", runner)

	text, ok := src.Query(context.Background(), "nope")
	assert.False(t, ok)
	assert.Equal(t, "", text)
	assert.Equal(t, partition.DefaultBinary, runner.calls[0][0])
}

func TestStaticSource_Query(t *testing.T) {
	src := testfixtures.Partitions()

	text, ok := src.Query(context.Background(), "gpu")
	assert.True(t, ok)
	assert.Equal(t, testfixtures.GpuPartition, text)

	_, ok = src.Query(context.Background(), "nope")
	assert.False(t, ok)

	all, ok := src.Query(context.Background(), "")
	assert.True(t, ok)
	assert.Len(t, strings.Split(all, "\n"), 4)
}

func TestStaticSourceFromText(t *testing.T) {
	src := partition.StaticSourceFromText(testfixtures.WorkPartition + "\n\n" + testfixtures.GpuPartition + "\n")
	all, ok := src.Query(context.Background(), "")
	assert.True(t, ok)
	assert.Equal(t, testfixtures.WorkPartition+"\n"+testfixtures.GpuPartition, all)
	assert.Equal(t, []string{testfixtures.WorkPartition, testfixtures.GpuPartition}, src.Lines())
}

func TestFindDefaultPartition(t *testing.T) {
	name, ok := partition.FindDefaultPartition(context.Background(), testfixtures.Partitions())
	assert.True(t, ok)
	assert.Equal(t, "work", name)

	name, ok = partition.FindDefaultPartition(context.Background(), testfixtures.PartitionsWithoutDefault())
	assert.False(t, ok)
	assert.Equal(t, "", name)
}

func TestFindDefaultPartition_QueryFailure(t *testing.T) {
	src := partition.NewCommandSource("scontrol", &fakeRunner{err: errors.New("not found")})
	name, ok := partition.FindDefaultPartition(context.Background(), src)
	assert.False(t, ok)
	assert.Equal(t, "", name)
}

func TestGetPartitionInfo(t *testing.T) {
	src := testfixtures.Partitions()

	r := partition.GetPartitionInfo(context.Background(), src, "work")
	require.NotNil(t, r)
	assert.Equal(t, "work", r.Name())

	assert.Nil(t, partition.GetPartitionInfo(context.Background(), src, ""))
	assert.Nil(t, partition.GetPartitionInfo(context.Background(), src, "nope"))
}

func TestGetPartitionInfo_EmptyOutput(t *testing.T) {
	src := partition.NewCommandSource("scontrol", &fakeRunner{out: "\n"})
	assert.Nil(t, partition.GetPartitionInfo(context.Background(), src, "work"))
}
