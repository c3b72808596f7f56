package partition

import (
	"bufio"
	"context"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// DefaultBinary is the command used to describe partitions.
const DefaultBinary = "scontrol"

// Source returns the raw description of partitions, one per line.
// An empty name asks for all partitions. ok is false when the query couldn't be run or failed.
type Source interface {
	Query(ctx context.Context, name string) (text string, ok bool)
}

// CommandRunner runs an external command and returns its standard output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// CommandSource queries partitions with `scontrol -o show partition [name]`.
// No timeout is applied beyond the caller's context.
type CommandSource struct {
	binary string
	runner CommandRunner
}

func NewCommandSource(binary string, runner CommandRunner) *CommandSource {
	if binary == "" {
		binary = DefaultBinary
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &CommandSource{binary: binary, runner: runner}
}

func (s *CommandSource) Query(ctx context.Context, name string) (string, bool) {
	args := []string{"-o", "show", "partition"}
	if name != "" {
		args = append(args, name)
	}
	out, err := s.runner.Run(ctx, s.binary, args...)
	if err != nil {
		log.WithError(err).Debugf("%s %s failed", s.binary, strings.Join(args, " "))
		return "", false
	}
	return string(out), true
}

// StaticSource answers queries from fixed partition descriptions, e.g. a file captured with
// `scontrol -o show partition`.
type StaticSource struct {
	lines []string
}

// NewStaticSource takes one description per element; blank elements are ignored.
func NewStaticSource(lines ...string) *StaticSource {
	s := &StaticSource{}
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			s.lines = append(s.lines, l)
		}
	}
	return s
}

// StaticSourceFromText splits captured command output into lines.
func StaticSourceFromText(text string) *StaticSource {
	var lines []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return NewStaticSource(lines...)
}

// Lines returns the non-blank descriptions held by the source.
func (s *StaticSource) Lines() []string {
	return append([]string{}, s.lines...)
}

func (s *StaticSource) Query(_ context.Context, name string) (string, bool) {
	if name == "" {
		return strings.Join(s.lines, "\n"), true
	}
	for _, l := range s.lines {
		if ParseString(l).Name() == name {
			return l, true
		}
	}
	return "", false
}

// FindDefaultPartition returns the name of the partition marked Default=YES.
// ok is false when there is no such partition or the query failed.
func FindDefaultPartition(ctx context.Context, src Source) (string, bool) {
	text, ok := src.Query(ctx, "")
	if !ok {
		return "", false
	}
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "Default=YES") {
			continue
		}
		name := ParseString(line).Name()
		if name == "" {
			continue
		}
		return name, true
	}
	return "", false
}

// GetPartitionInfo returns the parsed description of the named partition, or nil if the name
// is empty or the partition couldn't be queried.
func GetPartitionInfo(ctx context.Context, src Source, name string) *Record {
	if name == "" {
		return nil
	}
	text, ok := src.Query(ctx, name)
	if !ok {
		return nil
	}
	line := firstNonEmptyLine(text)
	if line == "" {
		return nil
	}
	return ParseString(line)
}

func firstNonEmptyLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			return line
		}
	}
	return ""
}
