package config

import (
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/mutker/powerplanctl/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix = "POWERPLANCTL"
	DefaultLogLevel  = "info"
	DefaultJournalDB = "/var/lib/powerplanctl/journal.db"

	configName = "powerplanctl"
	configType = "toml"
)

type Config struct {
	Settings  `mapstructure:",squash"`
	Simulate  bool   `mapstructure:"simulate"`
	DryRun    bool   `mapstructure:"dry_run"`
	LogLevel  string `mapstructure:"log_level"`
	LogFile   string `mapstructure:"log_file"`
	Journal   bool   `mapstructure:"journal"`
	JournalDB string `mapstructure:"journal_db"`
	PIDFile   string `mapstructure:"pid_file"`
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"high":          "high_threshold",
	"low":           "low_threshold",
	"interval":      "interval",
	"high-plan":     "high_performance_plan",
	"balanced-plan": "balanced_plan",
	"simulate":      "simulate",
	"dry-run":       "dry_run",
	"log-level":     "log_level",
	"log-file":      "log_file",
	"journal":       "journal",
	"journal-db":    "journal_db",
	"pid-file":      "pid_file",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Path to a TOML config file")
	fs.Int("high", DefaultHighThreshold, "CPU usage (%) above which the high performance plan is activated")
	fs.Int("low", DefaultLowThreshold, "CPU usage (%) below which the balanced plan is activated")
	fs.Int("interval", DefaultInterval, "Seconds between CPU samples")
	fs.String("high-plan", DefaultHighPerformancePlan, "GUID of the high performance power plan")
	fs.String("balanced-plan", DefaultBalancedPlan, "GUID of the balanced power plan")
	fs.Bool("simulate", false, "Use simulated CPU readings instead of the host sensor")
	fs.Bool("dry-run", false, "Only monitor and log decisions, never switch plans")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.String("log-file", "", "Append application logs to this file")
	fs.Bool("journal", false, "Record events in the SQLite journal")
	fs.String("journal-db", DefaultJournalDB, "Path to the SQLite journal")
	fs.String("pid-file", "", "Path to the PID file")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("high_threshold", DefaultHighThreshold)
	v.SetDefault("low_threshold", DefaultLowThreshold)
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("high_performance_plan", DefaultHighPerformancePlan)
	v.SetDefault("balanced_plan", DefaultBalancedPlan)
	v.SetDefault("simulate", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("journal", false)
	v.SetDefault("journal_db", DefaultJournalDB)
	v.SetDefault("pid_file", "")
}

func defaultSearchPaths() []string {
	paths := []string{"/etc"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, configName))
	}

	return paths
}

// Load reads configuration from defaults, the config file, the environment
// and flags (in increasing precedence) and validates the result. flags may
// be nil.
func Load(flags *pflag.FlagSet, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{
		envPrefix:   DefaultEnvPrefix,
		searchPaths: defaultSearchPaths(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	configPath := o.configPath
	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Changed {
			configPath = f.Value.String()
		}
	}
	if configPath == "" {
		configPath = os.Getenv(o.envPrefix + "_CONFIG")
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType(configType)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		for _, p := range o.searchPaths {
			v.AddConfigPath(p)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errFactory.Wrap(errors.ErrBindFlags, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the monitoring settings and the ambient options.
func (c *Config) Validate() error {
	if err := c.Settings.Validate(); err != nil {
		return err
	}

	if !LogLevel(strings.ToLower(c.LogLevel)).IsValid() {
		return errors.New().WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.Journal && c.JournalDB == "" {
		return errors.New().Wrap(errors.ErrInvalidConfig,
			&fieldError{"journal_db", c.JournalDB, "required when the journal is enabled"})
	}

	return nil
}
