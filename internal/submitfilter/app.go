package submitfilter

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v2"

	"github.com/G-Research/submitfilter/internal/common"
	commonconfig "github.com/G-Research/submitfilter/internal/common/config"
	"github.com/G-Research/submitfilter/internal/common/filtererrors"
	"github.com/G-Research/submitfilter/internal/common/logging"
	"github.com/G-Research/submitfilter/internal/common/util"
	"github.com/G-Research/submitfilter/internal/submitfilter/build"
	"github.com/G-Research/submitfilter/internal/submitfilter/configuration"
	"github.com/G-Research/submitfilter/internal/submitfilter/diag"
	"github.com/G-Research/submitfilter/internal/submitfilter/metrics"
	"github.com/G-Research/submitfilter/internal/submitfilter/options"
	"github.com/G-Research/submitfilter/internal/submitfilter/partition"
	"github.com/G-Research/submitfilter/internal/submitfilter/policy"
)

// DefaultConfigPath is the directory searched for config.yaml.
const DefaultConfigPath = "./config/submitfilter"

type App struct {
	// Parameters passed to the CLI by the user.
	Params *Params
	// Out is used to write the output. Defaults to standard out,
	// but can be overridden in tests to make assertions on the applications's output.
	Out io.Writer
	// In is where job options are read from unless Params.OptionsFile is set.
	In io.Reader
	// Source of partition descriptions. If nil, Params.PartitionsFile is read if set,
	// otherwise scontrol is run.
	Source partition.Source
	// Logger receiving diagnostics. If nil, the standard logrus logger is used.
	Logger *log.Logger
}

// Params struct holds all user-customizable parameters.
type Params struct {
	// Extra config files merged over the default config, in order.
	ConfigFiles []string
	// Emit debug diagnostics regardless of the configured log level.
	Debug bool
	// File holding job options as a JSON object. Standard input is used if empty.
	OptionsFile string
	// File holding captured `scontrol -o show partition` output, used instead of running scontrol.
	PartitionsFile string
	Config         configuration.SubmitFilterConfig
}

// New instantiates an App with default parameters, reading from standard in and writing to
// standard out.
func New() *App {
	return &App{
		Params: &Params{Config: configuration.Default()},
		Out:    os.Stdout,
		In:     os.Stdin,
	}
}

// LoadConfig reads the config files named in Params into Params.Config and applies the
// configured log format and level.
func (a *App) LoadConfig() error {
	var config configuration.SubmitFilterConfig
	if _, err := common.LoadConfig(&config, DefaultConfigPath, a.Params.ConfigFiles...); err != nil {
		return err
	}
	a.Params.Config = config.WithDefaults()
	return a.validateParams()
}

func (a *App) validateParams() error {
	if err := a.Params.Config.Validate(); err != nil {
		commonconfig.LogValidationErrors(err)
		return errors.WithMessage(err, "invalid configuration")
	}
	if a.Params.Config.LogFormat == configuration.LogFormatText {
		common.ConfigureLogging(a.logger())
	}
	level := a.Params.Config.LogLevel
	if a.Params.Debug {
		level = log.DebugLevel.String()
	}
	return common.SetLogLevel(a.logger(), level)
}

// Version prints build information (e.g., current git commit) to the app output.
func (a *App) Version() error {
	w := tabwriter.NewWriter(a.Out, 1, 1, 1, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "Version:\t%s\n", build.ReleaseVersion)
	fmt.Fprintf(w, "Commit:\t%s\n", build.GitCommit)
	fmt.Fprintf(w, "Go version:\t%s\n", build.GoVersion)
	fmt.Fprintf(w, "Built:\t%s\n", build.BuildTime)
	return nil
}

// SetupDefaults reads job options, applies the setup-defaults hook and prints the result.
func (a *App) SetupDefaults(early bool) error {
	o, err := a.readOptions()
	if err != nil {
		return err
	}
	f, _ := a.filter()
	if status := f.SetupDefaults(o, early); status != StatusSuccess {
		return errors.Errorf("setup defaults returned %s", status)
	}
	return options.EncodeWire(a.Out, o.ToWire())
}

// PreSubmit reads job options, applies the partition policy and prints the resulting options.
// A rejected job has its reason logged once and is returned as the error.
func (a *App) PreSubmit(ctx context.Context) error {
	o, err := a.readOptions()
	if err != nil {
		return err
	}
	f, m := a.filter()
	_, err = f.PreSubmit(ctx, o, 0)
	a.writeMetrics(m)
	if err != nil {
		return err
	}
	return options.EncodeWire(a.Out, o.ToWire())
}

// PostSubmit runs the post-submit hook, which never fails.
func (a *App) PostSubmit(jobID, stepID uint32) error {
	f, _ := a.filter()
	if status := f.PostSubmit(0, jobID, stepID); status != StatusSuccess {
		return errors.Errorf("post submit returned %s", status)
	}
	return nil
}

type partitionView struct {
	Name               string            `yaml:"name"`
	Default            bool              `yaml:"default"`
	Accelerator        bool              `yaml:"accelerator"`
	Fields             map[string]string `yaml:"fields"`
	TRES               map[string]string `yaml:"tres,omitempty"`
	TRESBillingWeights map[string]string `yaml:"tresBillingWeights,omitempty"`
	JobDefaults        map[string]string `yaml:"jobDefaults,omitempty"`
}

// ShowPartition prints the parsed description of a partition as YAML.
// An empty name shows the default partition.
func (a *App) ShowPartition(ctx context.Context, name string) error {
	src := a.source()
	if name == "" {
		defaultName, ok := partition.FindDefaultPartition(ctx, src)
		if !ok {
			return &filtererrors.ErrResolution{Message: "no default partition found"}
		}
		name = defaultName
	}
	record := partition.GetPartitionInfo(ctx, src, name)
	if record == nil {
		return &filtererrors.ErrPartitionInfo{Partition: name}
	}
	view := partitionView{
		Name:               record.Name(),
		Default:            record.IsDefault(),
		Accelerator:        slices.Contains(a.Params.Config.Policy.AcceleratorPartitions, record.Name()),
		Fields:             record.Fields(),
		TRES:               record.TRES.Pairs(),
		TRESBillingWeights: record.TRESBillingWeights.Pairs(),
		JobDefaults:        record.JobDefaults.Pairs(),
	}
	out, err := yaml.Marshal(view)
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = a.Out.Write(out)
	return err
}

// DefaultPartition prints the name of the default partition.
func (a *App) DefaultPartition(ctx context.Context) error {
	name, ok := partition.FindDefaultPartition(ctx, a.source())
	if !ok {
		return &filtererrors.ErrResolution{Message: "no default partition found"}
	}
	_, err := fmt.Fprintln(a.Out, name)
	return err
}

// ListPartitions prints a table of all partitions and the values the policy reads from them.
func (a *App) ListPartitions(ctx context.Context) error {
	text, ok := a.source().Query(ctx, "")
	if !ok {
		return &filtererrors.ErrPartitionInfo{Partition: "ALL"}
	}
	accelerators := a.Params.Config.Policy.AcceleratorPartitionSet()
	w := tabwriter.NewWriter(a.Out, 1, 1, 2, ' ', 0)
	defer w.Flush()
	fmt.Fprintf(w, "NAME\tDEFAULT\tACCELERATOR\tCPUS\tNODES\tGPUS\tDEF_MEM_PER_CPU\n")
	for _, line := range partition.StaticSourceFromText(text).Lines() {
		r := partition.ParseString(line)
		gpus, _ := r.TRES.Get(partition.TRESGPU)
		fmt.Fprintf(w, "%s\t%t\t%t\t%s\t%s\t%s\t%s\n",
			r.Name(), r.IsDefault(), accelerators[r.Name()],
			orDash(r, partition.FieldTotalCPUs), orDash(r, partition.FieldTotalNodes),
			dash(gpus), orDash(r, partition.FieldDefMemPerCPU))
	}
	return nil
}

func orDash(r *partition.Record, field string) string {
	v, _ := r.Get(field)
	return dash(v)
}

func dash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func (a *App) logger() *log.Logger {
	if a.Logger == nil {
		return log.StandardLogger()
	}
	return a.Logger
}

// filter wires the policy engine for one invocation. Every diagnostic carries the
// invocation's id.
func (a *App) filter() (*Filter, *metrics.Metrics) {
	entry := a.logger().WithField("invocation", util.NewULID())
	logger := diag.NewLogrus(entry, nil)
	m := metrics.NewMetrics()
	if a.Params.Config.Metrics.Textfile != "" {
		if err := logging.AddPrometheusHook(a.logger()); err != nil {
			entry.WithError(err).Debug("log messages won't be counted")
		}
	}
	engine := policy.New(a.Params.Config.Policy, m.InstrumentSource(a.source()), logger)
	return NewFilter(engine, logger, m, a.Params.Config.Policy.DefaultThreadsPerCore), m
}

func (a *App) writeMetrics(m *metrics.Metrics) {
	path := a.Params.Config.Metrics.Textfile
	if path == "" {
		return
	}
	if err := m.WriteTextfile(path, logging.LogMessagesGatherer); err != nil {
		a.logger().WithError(err).Warn("unable to write metrics")
	}
}

func (a *App) source() partition.Source {
	if a.Source != nil {
		return a.Source
	}
	if a.Params.PartitionsFile != "" {
		return &fileSource{path: a.Params.PartitionsFile}
	}
	return partition.NewCommandSource(a.Params.Config.Scontrol.Binary, nil)
}

// fileSource reads captured scontrol output on every query, so a missing file fails the
// query the way a failing scontrol would.
type fileSource struct {
	path string
}

func (s *fileSource) Query(ctx context.Context, name string) (string, bool) {
	path, err := homedir.Expand(s.path)
	if err != nil {
		return "", false
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		log.WithError(err).Debugf("reading partitions from %s failed", path)
		return "", false
	}
	return partition.StaticSourceFromText(string(contents)).Query(ctx, name)
}

func (a *App) readOptions() (*options.JobOptions, error) {
	in := a.In
	if a.Params.OptionsFile != "" {
		path, err := homedir.Expand(a.Params.OptionsFile)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		defer f.Close()
		in = f
	}
	w, err := options.DecodeWire(in)
	if err != nil {
		return nil, err
	}
	return options.FromWire(w), nil
}
