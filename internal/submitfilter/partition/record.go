package partition

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/G-Research/submitfilter/internal/common/util"
)

// Field names used by the policy.
const (
	FieldPartitionName      = "PartitionName"
	FieldDefault            = "Default"
	FieldDefMemPerCPU       = "DefMemPerCPU"
	FieldTotalCPUs          = "TotalCPUs"
	FieldTotalNodes         = "TotalNodes"
	FieldTRES               = "TRES"
	FieldTRESBillingWeights = "TRESBillingWeights"
	FieldJobDefaults        = "JobDefaults"
)

// Sub-keys of the nested fields.
const (
	TRESCPU          = "cpu"
	TRESGPU          = "gres/gpu"
	JobDefMemPerGPU  = "DefMemPerGPU"
	nullNestedValue  = "(null)"
	defaultMarkerYes = "YES"
)

// Nested is the value of a comma separated field such as TRES.
// Sub-fields of the form key=value are pairs; sub-fields without "=" are kept as members.
// The zero Nested is valid and empty.
type Nested struct {
	pairs   map[string]string
	members []string
}

// Get returns the value of a key=value sub-field.
func (n Nested) Get(key string) (string, bool) {
	v, ok := n.pairs[key]
	return v, ok
}

// Number parses the value of a key=value sub-field.
func (n Nested) Number(key string) (float64, bool) {
	v, ok := n.pairs[key]
	if !ok {
		return 0, false
	}
	return parseNumber(v)
}

// HasMember reports whether a sub-field without "=" was present.
func (n Nested) HasMember(m string) bool {
	return slices.Contains(n.members, m)
}

// Pairs returns a copy of the key=value sub-fields. It never returns nil.
func (n Nested) Pairs() map[string]string {
	if n.pairs == nil {
		return map[string]string{}
	}
	return maps.Clone(n.pairs)
}

// Members returns the sub-fields that had no "=", in order.
func (n Nested) Members() []string {
	return append([]string{}, n.members...)
}

func (n Nested) Len() int {
	return len(n.pairs) + len(n.members)
}

func (n Nested) String() string {
	keys := maps.Keys(n.pairs)
	slices.Sort(keys)
	parts := make([]string, 0, n.Len())
	for _, k := range keys {
		parts = append(parts, k+"="+n.pairs[k])
	}
	parts = append(parts, n.members...)
	return strings.Join(parts, ",")
}

// Record is the parsed description of a single partition. It is never modified after parsing.
type Record struct {
	fields             map[string]string
	TRES               Nested
	TRESBillingWeights Nested
	JobDefaults        Nested
}

// Get returns a scalar field as text.
func (r *Record) Get(key string) (string, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Name returns the PartitionName field.
func (r *Record) Name() string {
	return r.fields[FieldPartitionName]
}

// IsDefault reports whether the partition is marked Default=YES.
func (r *Record) IsDefault() bool {
	return r.fields[FieldDefault] == defaultMarkerYes
}

// Number parses a scalar field. It fails when the field is missing or isn't a finite
// number, e.g. DefMemPerCPU=UNLIMITED.
func (r *Record) Number(key string) (float64, bool) {
	v, ok := r.fields[key]
	if !ok {
		return 0, false
	}
	return parseNumber(v)
}

// parseNumber accepts finite numbers only. ParseFloat also takes "inf" and "NaN".
func parseNumber(v string) (float64, bool) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Fields returns a copy of the scalar fields.
func (r *Record) Fields() map[string]string {
	if r.fields == nil {
		return map[string]string{}
	}
	return maps.Clone(r.fields)
}

func isNested(key string) bool {
	return key == FieldTRES || key == FieldTRESBillingWeights || key == FieldJobDefaults
}

// Parse builds a Record from one line of `scontrol -o show partition` output.
// A nil line gives a nil Record. Fields without "=" are skipped; whether the fields a caller
// needs are present is for the caller to check.
func Parse(line *string) *Record {
	if line == nil {
		return nil
	}
	r := &Record{fields: map[string]string{}}
	for _, field := range util.MustTokenize(*line, util.WhitespacePattern, 0) {
		kv := util.MustTokenize(field, "=", 2)
		if len(kv) != 2 {
			continue
		}
		key, value := kv[0], kv[1]
		if !isNested(key) {
			r.fields[key] = value
			continue
		}
		nested := parseNested(value)
		switch key {
		case FieldTRES:
			r.TRES = nested
		case FieldTRESBillingWeights:
			r.TRESBillingWeights = nested
		case FieldJobDefaults:
			r.JobDefaults = nested
		}
	}
	return r
}

// ParseString is Parse for callers holding a plain string.
func ParseString(line string) *Record {
	return Parse(&line)
}

func parseNested(value string) Nested {
	n := Nested{pairs: map[string]string{}}
	if value == nullNestedValue {
		return n
	}
	for _, sub := range util.MustTokenize(value, ",", 0) {
		kv := util.MustTokenize(sub, "=", 2)
		if len(kv) == 2 {
			n.pairs[kv[0]] = kv[1]
		} else if len(kv) == 1 {
			n.members = append(n.members, kv[0])
		}
	}
	return n
}
