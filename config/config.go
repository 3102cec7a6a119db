// Package config loads the parameters of pulsesim runs from a YAML file, a
// .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of all environment variables read by ApplyEnv.
const EnvPrefix = "PULSESIM_"

// Monitor configures the monitoring server.
type Monitor struct {
	Enabled     bool `yaml:"enabled"`
	Port        int  `yaml:"port"`
	OpenBrowser bool `yaml:"open_browser"`
}

// Config holds the parameters of one run.
type Config struct {
	Presses     uint64  `yaml:"presses"`
	SafetyBound uint64  `yaml:"safety_bound"`
	Occurrences int     `yaml:"occurrences"`
	Sink        string  `yaml:"sink"`
	Parallelism int     `yaml:"parallelism"`
	Monitor     Monitor `yaml:"monitor"`
	RecordPath  string  `yaml:"record_path"`
	LogPulses   bool    `yaml:"log_pulses"`
	Stats       bool    `yaml:"stats"`
}

// Default returns the configuration used when nothing is given.
func Default() Config {
	return Config{
		Presses:     1000,
		SafetyBound: 1 << 20,
		Occurrences: 2,
		Sink:        "rx",
		Parallelism: 0,
	}
}

// Load reads a YAML file over the default configuration. Fields missing from
// the file keep their default values. An empty path returns the default.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return c, nil
}

// ApplyEnv loads the given .env files, or .env in the working directory when
// none is given, and overrides fields with PULSESIM_* variables. Missing .env
// files are ignored. Variables already in the environment win over the files.
func (c *Config) ApplyEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			files = []string{".env"}
		}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	return c.applyVars(lookupEnv)
}

func lookupEnv(key string) (string, bool) {
	return os.LookupEnv(EnvPrefix + key)
}

func (c *Config) applyVars(lookup func(string) (string, bool)) error {
	var errs []error

	uintVar := func(key string, dst *uint64) {
		if v, ok := lookup(key); ok {
			n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}

			*dst = n
		}
	}

	intVar := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}

			*dst = n
		}
	}

	boolVar := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}

			*dst = b
		}
	}

	stringVar := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	uintVar("PRESSES", &c.Presses)
	uintVar("SAFETY_BOUND", &c.SafetyBound)
	intVar("OCCURRENCES", &c.Occurrences)
	stringVar("SINK", &c.Sink)
	intVar("PARALLELISM", &c.Parallelism)
	boolVar("MONITOR", &c.Monitor.Enabled)
	intVar("MONITOR_PORT", &c.Monitor.Port)
	boolVar("OPEN_BROWSER", &c.Monitor.OpenBrowser)
	stringVar("RECORD_PATH", &c.RecordPath)
	boolVar("LOG_PULSES", &c.LogPulses)
	boolVar("STATS", &c.Stats)

	return errors.Join(errs...)
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	var errs []error

	if c.Presses == 0 {
		errs = append(errs, errors.New("presses must be positive"))
	}

	if c.SafetyBound == 0 {
		errs = append(errs, errors.New("safety_bound must be positive"))
	}

	if c.Occurrences < 1 {
		errs = append(errs, errors.New("occurrences must be at least 1"))
	}

	if c.Parallelism < 0 {
		errs = append(errs, errors.New("parallelism must not be negative"))
	}

	if c.Sink == "" {
		errs = append(errs, errors.New("sink must not be empty"))
	}

	return errors.Join(errs...)
}
