package options

import (
	"strconv"
	"strings"
)

// State says whether an option was given by the submitter.
type State int

const (
	// Absent options don't appear in the option record at all.
	Absent State = iota
	// Unset options appear with one of the scheduler's "not set" sentinels.
	Unset
	// Set options carry a real value.
	Set
)

func (s State) String() string {
	switch s {
	case Unset:
		return "unset"
	case Set:
		return "set"
	default:
		return "absent"
	}
}

// Sentinels the scheduler uses for options it has not been given.
const (
	UnsetNumber = "-2"
	UnsetString = "unset"
)

// Value is a single job option.
// The zero Value is Absent.
type Value struct {
	state State
	raw   string
}

// Some returns a Set value.
func Some(v string) Value {
	return Value{state: Set, raw: v}
}

// Int returns a Set value holding n.
func Int(n int64) Value {
	return Some(strconv.FormatInt(n, 10))
}

// NotSet returns an Unset value that is written back as sentinel.
func NotSet(sentinel string) Value {
	return Value{state: Unset, raw: sentinel}
}

// Parse classifies a raw wire value. Both sentinels decode to Unset.
func Parse(raw string) Value {
	if raw == UnsetNumber || raw == UnsetString {
		return NotSet(raw)
	}
	return Some(raw)
}

func (v Value) State() State {
	return v.state
}

// IsSet is true only for values given by the submitter.
func (v Value) IsSet() bool {
	return v.state == Set
}

// IsUnset is true for both Absent and Unset values.
func (v Value) IsUnset() bool {
	return v.state != Set
}

// String returns the raw value, or "" when the value isn't Set.
func (v Value) String() string {
	if v.state != Set {
		return ""
	}
	return v.raw
}

// Get returns the raw value and whether it is Set.
func (v Value) Get() (string, bool) {
	return v.String(), v.IsSet()
}

// Number interprets a Set value as a number. Unset values and values that are not numeric
// return false.
func (v Value) Number() (float64, bool) {
	if v.state != Set {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.raw), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Equals reports whether the value is Set and exactly equal to s.
func (v Value) Equals(s string) bool {
	return v.state == Set && v.raw == s
}

func (v Value) wire() (string, bool) {
	if v.state == Absent {
		return "", false
	}
	return v.raw, true
}
