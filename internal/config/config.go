// SPDX-License-Identifier: Apache-2.0

// Package config resolves the settings of a metrics run. Values are layered:
// built-in defaults, then an optional YAML file, then METRICS_* environment
// variables, then command-line flags that were set explicitly.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/pflag"

	"github.com/Felpnoo/projeto-pesquisa-tcrr/internal/evaluate"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "METRICS_"

type Config struct {
	Root           string `yaml:"root" env:"ROOT, overwrite"`
	Gold           string `yaml:"gold" env:"GOLD, overwrite"`
	Outputs        string `yaml:"outputs" env:"OUTPUTS, overwrite"`
	Baseline       string `yaml:"baseline" env:"BASELINE, overwrite"`
	Weights        string `yaml:"pesos" env:"PESOS, overwrite"`
	OutDir         string `yaml:"outdir" env:"OUTDIR, overwrite"`
	Prom           bool   `yaml:"prom" env:"PROM, overwrite"`
	DefaultWeights bool   `yaml:"default_weights" env:"DEFAULT_WEIGHTS, overwrite"`
	TopErrors      int    `yaml:"top_errors" env:"TOP_ERRORS, overwrite"`
	LogLevel       string `yaml:"log_level" env:"LOG_LEVEL, overwrite"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Root:      ".",
		Gold:      "rotulos_ouro.csv",
		Outputs:   "outputs",
		Baseline:  "baseline.csv",
		Weights:   "pesos.json",
		OutDir:    "metrics_out",
		TopErrors: 15,
		LogLevel:  "info",
	}
}

// Load layers defaults, the optional config file, the environment and the
// changed flags, then validates the result. file and flags may be empty.
func Load(ctx context.Context, file string, flags *pflag.FlagSet) (Config, error) {
	c := Default()
	if file != "" {
		if err := c.LoadFile(file); err != nil {
			return Config{}, err
		}
	}
	if err := c.ApplyEnv(ctx, envconfig.OsLookuper()); err != nil {
		return Config{}, err
	}
	if flags != nil {
		if err := c.ApplyFlags(flags); err != nil {
			return Config{}, err
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadFile overlays the keys present in a YAML file. Unknown keys are an
// error.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.UnmarshalWithOptions(data, c, yaml.DisallowUnknownField()); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays the METRICS_* variables found by l. Unset variables keep
// the current value.
func (c *Config) ApplyEnv(ctx context.Context, l envconfig.Lookuper) error {
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   c,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, l),
	}); err != nil {
		return fmt.Errorf("processing environment: %w", err)
	}
	return nil
}

// RegisterFlags declares the run flags with their default values.
func RegisterFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.String("root", d.Root, "project root directory")
	flags.String("gold", d.Gold, "gold label CSV, relative to --root")
	flags.String("outputs", d.Outputs, "directory with model results, relative to --root")
	flags.String("baseline", d.Baseline, "baseline CSV, relative to --root")
	flags.String("pesos", d.Weights, "criterion weights file (JSON or YAML), relative to --root")
	flags.String("outdir", d.OutDir, "directory for tables and charts, relative to --root")
	flags.Bool("prom", d.Prom, "also write a Prometheus textfile")
	flags.Bool("default-weights", d.DefaultWeights, "use the built-in weights when the weights file yields none")
	flags.Int("top-errors", d.TopErrors, "documents drawn in the error chart")
	flags.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
}

// ApplyFlags overlays the flags that were set on the command line.
func (c *Config) ApplyFlags(flags *pflag.FlagSet) error {
	var errs []error
	flags.Visit(func(f *pflag.Flag) {
		var err error
		switch f.Name {
		case "root":
			c.Root, err = flags.GetString(f.Name)
		case "gold":
			c.Gold, err = flags.GetString(f.Name)
		case "outputs":
			c.Outputs, err = flags.GetString(f.Name)
		case "baseline":
			c.Baseline, err = flags.GetString(f.Name)
		case "pesos":
			c.Weights, err = flags.GetString(f.Name)
		case "outdir":
			c.OutDir, err = flags.GetString(f.Name)
		case "prom":
			c.Prom, err = flags.GetBool(f.Name)
		case "default-weights":
			c.DefaultWeights, err = flags.GetBool(f.Name)
		case "top-errors":
			c.TopErrors, err = flags.GetInt(f.Name)
		case "log-level":
			c.LogLevel, err = flags.GetString(f.Name)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("flag --%s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	required := []struct{ name, value string }{
		{"root", c.Root},
		{"gold", c.Gold},
		{"outputs", c.Outputs},
		{"outdir", c.OutDir},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", r.name))
		}
	}
	if c.TopErrors <= 0 {
		errs = append(errs, fmt.Errorf("top_errors must be positive, got %d", c.TopErrors))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return lvl, nil
}

// Options resolves the configured paths against Root.
func (c Config) Options() evaluate.Options {
	return evaluate.Options{
		GoldPath:       c.path(c.Gold),
		OutputsDir:     c.path(c.Outputs),
		BaselinePath:   c.path(c.Baseline),
		WeightsPath:    c.path(c.Weights),
		OutDir:         c.path(c.OutDir),
		DefaultWeights: c.DefaultWeights,
		Prom:           c.Prom,
		TopErrors:      c.TopErrors,
	}
}

// ValidateOptions resolves the paths used by the data-quality pass.
func (c Config) ValidateOptions() evaluate.ValidateOptions {
	return evaluate.ValidateOptions{
		OutputsDir: c.path(c.Outputs),
		OutDir:     c.path(c.OutDir),
	}
}

func (c Config) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// LoadDotEnv exports the variables of a .env file that are not already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}
