// Package options holds the job option record the scheduler hands to the filter.
//
// The scheduler's record is a loosely typed map of option name to value where a missing
// key, "-2" and "unset" all mean the submitter didn't ask for that option. JobOptions gives
// every option the filter cares about its own tri-state Value; FromWire and ToWire are the
// only places that know about the map representation.
package options

import (
	"sort"

	"golang.org/x/exp/maps"
)

// Option names as used by the scheduler.
const (
	KeyPartition      = "partition"
	KeyMem            = "mem"
	KeyMemPerCPU      = "mem-per-cpu"
	KeyMemPerGPU      = "mem-per-gpu"
	KeyCPUsPerTask    = "cpus-per-task"
	KeyCPUsPerGPU     = "cpus-per-gpu"
	KeyCoresPerSocket = "cores-per-socket"
	KeyGres           = "gres"
	KeyGPUs           = "gpus"
	KeyGPUsPerNode    = "gpus-per-node"
	KeyGPUsPerTask    = "gpus-per-task"
	KeyNTasks         = "ntasks"
	KeyNTasksPerNode  = "ntasks-per-node"
	KeyExclusive      = "exclusive"
	KeyThreadsPerCore = "threads-per-core"
)

// AllMemory is the scheduler's encoding of a request for all memory on the node.
const AllMemory = "0?"

// ExclusiveNode is the only value of the exclusive option that requests whole nodes.
const ExclusiveNode = "exclusive"

// Wire is the option record as exchanged with the scheduler.
type Wire map[string]string

// JobOptions is the typed view of a job option record.
type JobOptions struct {
	Partition      Value
	Mem            Value
	MemPerCPU      Value
	MemPerGPU      Value
	CPUsPerTask    Value
	CPUsPerGPU     Value
	CoresPerSocket Value
	Gres           Value
	GPUs           Value
	GPUsPerNode    Value
	GPUsPerTask    Value
	NTasks         Value
	NTasksPerNode  Value
	Exclusive      Value
	ThreadsPerCore Value
	// Options the filter doesn't look at, passed through untouched.
	Extra map[string]string
}

func (o *JobOptions) fields() map[string]*Value {
	return map[string]*Value{
		KeyPartition:      &o.Partition,
		KeyMem:            &o.Mem,
		KeyMemPerCPU:      &o.MemPerCPU,
		KeyMemPerGPU:      &o.MemPerGPU,
		KeyCPUsPerTask:    &o.CPUsPerTask,
		KeyCPUsPerGPU:     &o.CPUsPerGPU,
		KeyCoresPerSocket: &o.CoresPerSocket,
		KeyGres:           &o.Gres,
		KeyGPUs:           &o.GPUs,
		KeyGPUsPerNode:    &o.GPUsPerNode,
		KeyGPUsPerTask:    &o.GPUsPerTask,
		KeyNTasks:         &o.NTasks,
		KeyNTasksPerNode:  &o.NTasksPerNode,
		KeyExclusive:      &o.Exclusive,
		KeyThreadsPerCore: &o.ThreadsPerCore,
	}
}

// KnownKeys returns the option names JobOptions has a field for, sorted.
func KnownKeys() []string {
	keys := maps.Keys((&JobOptions{}).fields())
	sort.Strings(keys)
	return keys
}

// FromWire builds the typed record from the scheduler's map.
func FromWire(w Wire) *JobOptions {
	o := &JobOptions{}
	fields := o.fields()
	for k, raw := range w {
		if v, ok := fields[k]; ok {
			*v = Parse(raw)
			continue
		}
		if o.Extra == nil {
			o.Extra = map[string]string{}
		}
		o.Extra[k] = raw
	}
	return o
}

// ToWire converts back to the scheduler's map. Absent options are left out.
func (o *JobOptions) ToWire() Wire {
	w := Wire{}
	for k, raw := range o.Extra {
		w[k] = raw
	}
	for k, v := range o.fields() {
		if raw, ok := v.wire(); ok {
			w[k] = raw
		}
	}
	return w
}

// Lookup returns the option with the given name, if JobOptions knows it.
func (o *JobOptions) Lookup(key string) (Value, bool) {
	v, ok := o.fields()[key]
	if !ok {
		return Value{}, false
	}
	return *v, true
}

// SetOption sets a known option by name. It returns false for names JobOptions has no field for.
func (o *JobOptions) SetOption(key string, v Value) bool {
	field, ok := o.fields()[key]
	if !ok {
		return false
	}
	*field = v
	return true
}

// DeepCopy returns a copy that shares no state with o.
func (o *JobOptions) DeepCopy() *JobOptions {
	c := *o
	if o.Extra != nil {
		c.Extra = maps.Clone(o.Extra)
	}
	return &c
}
