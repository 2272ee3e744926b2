// Package config loads the run configuration from defaults, an optional
// config file, environment variables, and command-line flags, in that order
// of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mirrorverify/internal/index"
	"mirrorverify/internal/mirror"
)

// configName is the config file name without extension.
const configName = ".mirrorverify"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for settings.
const envPrefix = "MIRRORVERIFY"

// File names created under the log directory.
const (
	hashLogName    = "hash_verification_log.txt"
	mirrorLogName  = "mirror_log.txt"
	checkpointName = "verified_checkpoint.txt"
)

type Mirror struct {
	Tool             string `mapstructure:"tool"`
	Retries          int    `mapstructure:"retries"`
	RetryWaitSec     int    `mapstructure:"retry_wait"`
	InterPacketGapMs int    `mapstructure:"inter_packet_gap"`
	SuccessThreshold int    `mapstructure:"success_threshold"`
}

type Config struct {
	Source     string `mapstructure:"source"`
	Dest       string `mapstructure:"dest"`
	LogDir     string `mapstructure:"log_dir"`
	Algorithm  string `mapstructure:"algorithm"`
	Workers    int    `mapstructure:"workers"`
	MaxLogSize string `mapstructure:"max_log_size"`
	Mirror     Mirror `mapstructure:"mirror"`
}

// Load builds the configuration. If configPath is non-empty it is used as
// the explicit config file path; otherwise the file is searched in CWD and
// $HOME and may be absent. flags, when non-nil, take highest precedence.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if flags != nil {
		bindFlags(v, flags)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// flagKeys maps command-line flag names to config keys. Flags not listed
// here are not part of the configuration surface.
var flagKeys = map[string]string{
	"source":                   "source",
	"dest":                     "dest",
	"log-dir":                  "log_dir",
	"algorithm":                "algorithm",
	"workers":                  "workers",
	"max-log-size":             "max_log_size",
	"mirror-tool":              "mirror.tool",
	"mirror-retries":           "mirror.retries",
	"mirror-retry-wait":        "mirror.retry_wait",
	"mirror-ipg":               "mirror.inter_packet_gap",
	"mirror-success-threshold": "mirror.success_threshold",
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = v.BindPFlag(key, f)
		}
	})
}

func applyDefaults(v *viper.Viper) {
	// Empty defaults keep env-only keys visible to Unmarshal.
	v.SetDefault("source", "")
	v.SetDefault("dest", "")
	v.SetDefault("log_dir", "")
	v.SetDefault("algorithm", index.DefaultAlgorithm)
	v.SetDefault("workers", 2)
	v.SetDefault("max_log_size", "50 MB")
	v.SetDefault("mirror.tool", "robocopy")
	v.SetDefault("mirror.retries", 5)
	v.SetDefault("mirror.retry_wait", 5)
	v.SetDefault("mirror.inter_packet_gap", 0)
	v.SetDefault("mirror.success_threshold", mirror.DefaultSuccessThreshold)
}

// Validate checks the fields every phase needs. Deeper path validation is
// left to the filesystem operations themselves.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source is required")
	}
	if c.Dest == "" {
		return fmt.Errorf("dest is required")
	}
	if c.LogDir == "" {
		return fmt.Errorf("log_dir is required")
	}
	if _, err := c.MaxLogSizeBytes(); err != nil {
		return err
	}
	return nil
}

// MaxLogSizeBytes parses the human-readable log size threshold.
func (c *Config) MaxLogSizeBytes() (int64, error) {
	n, err := humanize.ParseBytes(c.MaxLogSize)
	if err != nil {
		return 0, fmt.Errorf("max_log_size %q: %w", c.MaxLogSize, err)
	}
	return int64(n), nil
}

func (c *Config) HashLogPath() string    { return filepath.Join(c.LogDir, hashLogName) }
func (c *Config) MirrorLogPath() string  { return filepath.Join(c.LogDir, mirrorLogName) }
func (c *Config) CheckpointPath() string { return filepath.Join(c.LogDir, checkpointName) }
