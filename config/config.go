// Package config loads run settings from a .env file, the environment and
// an optional YAML file. Command-line flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/mappingpoet/mappings"
)

const envPrefix = "MAPPINGPOET_"

type Config struct {
	Mappings  string   `yaml:"mappings"`
	Archive   string   `yaml:"archive"`
	Output    string   `yaml:"output"`
	Table     string   `yaml:"table"`
	Namespace string   `yaml:"namespace"`
	Workers   int      `yaml:"workers"`
	Include   []string `yaml:"include"`
	Exclude   []string `yaml:"exclude"`
	Clean     bool     `yaml:"-"`
	Verbosity int      `yaml:"verbosity"`
}

// fileConfig mirrors Config with Clean as a pointer so a file can turn it
// off explicitly.
type fileConfig struct {
	Config `yaml:",inline"`
	Clean  *bool `yaml:"clean"`
}

func Default() *Config {
	return &Config{
		Namespace: mappings.DefaultNamespace,
		Workers:   runtime.GOMAXPROCS(0),
		Clean:     true,
	}
}

// Load builds a Config from defaults, .env, the environment and, when path
// is not empty, a YAML file, each overriding the one before.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := env("NAMESPACE"); v != "" {
		c.Namespace = v
	}
	if v := env("WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", envPrefix, err)
		}
		c.Workers = n
	}
	if v := env("VERBOSITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sVERBOSITY: %w", envPrefix, err)
		}
		c.Verbosity = n
	}
	if v := env("INCLUDE"); v != "" {
		c.Include = splitList(v)
	}
	if v := env("EXCLUDE"); v != "" {
		c.Exclude = splitList(v)
	}
	if v := env("CLEAN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sCLEAN: %w", envPrefix, err)
		}
		c.Clean = b
	}
	return nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	f := fc.Config
	c.Mappings = firstNonEmpty(f.Mappings, c.Mappings)
	c.Archive = firstNonEmpty(f.Archive, c.Archive)
	c.Output = firstNonEmpty(f.Output, c.Output)
	c.Table = firstNonEmpty(f.Table, c.Table)
	c.Namespace = firstNonEmpty(f.Namespace, c.Namespace)
	if f.Workers != 0 {
		c.Workers = f.Workers
	}
	if f.Verbosity != 0 {
		c.Verbosity = f.Verbosity
	}
	if len(f.Include) > 0 {
		c.Include = f.Include
	}
	if len(f.Exclude) > 0 {
		c.Exclude = f.Exclude
	}
	if fc.Clean != nil {
		c.Clean = *fc.Clean
	}
	return nil
}

// Validate checks the settings a generate run needs. The table is optional;
// without one archive names are taken as they are.
func (c *Config) Validate() error {
	var errs []error
	if c.Mappings == "" {
		errs = append(errs, errors.New("mappings path is required"))
	}
	if c.Archive == "" {
		errs = append(errs, errors.New("archive path is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Namespace == "" {
		errs = append(errs, errors.New("namespace must not be empty"))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	for _, p := range append(append([]string(nil), c.Include...), c.Exclude...) {
		if _, err := glob.Compile(p, '/'); err != nil {
			errs = append(errs, fmt.Errorf("pattern %q: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
