package common

import (
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	commonconfig "github.com/G-Research/submitfilter/internal/common/config"
	"github.com/G-Research/submitfilter/internal/common/logging"
)

// EnvPrefix is the prefix of environment variables overriding config values, e.g.
// SUBMITFILTER_POLICY_GPUSPERNODE.
const EnvPrefix = "SUBMITFILTER"

// LoadConfig reads config.yaml from defaultPath, then merges each of userConfigs over it in
// order, then applies environment overrides, and decodes the result into config.
// A missing default config is not an error; a missing user config is.
func LoadConfig(config interface{}, defaultPath string, userConfigs ...string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(defaultPath)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrapf(err, "reading config from %s", defaultPath)
		}
		log.Debugf("no config found in %s, using defaults", defaultPath)
	}

	for _, userConfig := range userConfigs {
		path, err := homedir.Expand(userConfig)
		if err != nil {
			return nil, errors.Wrapf(err, "expanding %s", userConfig)
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config from %s", path)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.Unmarshal(config, commonconfig.CustomHooks...); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	return v, nil
}

// ConfigureLogging switches logger to timestamped text lines on stderr, for sites that
// collect the filter's diagnostics into a log file.
func ConfigureLogging(logger *log.Logger) {
	logger.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})
	logger.SetOutput(os.Stderr)
}

// ConfigureCommandLineLogging prints bare messages to stderr, leaving stdout for command output.
func ConfigureCommandLineLogging() {
	log.SetFormatter(&logging.CommandLineFormatter{})
	log.SetOutput(os.Stderr)
}

// SetLogLevel parses level, e.g. "debug", and applies it to logger. An empty level leaves
// the logger as it is.
func SetLogLevel(logger *log.Logger, level string) error {
	if level == "" {
		return nil
	}
	l, err := log.ParseLevel(level)
	if err != nil {
		return errors.WithStack(err)
	}
	logger.SetLevel(l)
	return nil
}
