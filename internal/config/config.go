package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	lerrors "github.com/vango-dev/lumen/internal/errors"
	"github.com/vango-dev/lumen/pkg/lumen"
	"github.com/vango-dev/lumen/pkg/pool"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "lumen.yaml"

	// DefaultAddr is the default server listen address.
	DefaultAddr = ":8080"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultRegion is the default export region.
	DefaultRegion = "us-east-1"
)

// Config represents lumen.yaml.
type Config struct {
	// Pools holds per-pool policies keyed by pool name.
	Pools map[string]pool.Config `yaml:"pools,omitempty"`

	// Scheduler configures effect flushing.
	Scheduler SchedulerConfig `yaml:"scheduler,omitempty"`

	// Server configures lumen serve.
	Server ServerConfig `yaml:"server,omitempty"`

	// Log configures logging.
	Log LogConfig `yaml:"log,omitempty"`

	// Export configures lumen export.
	Export ExportConfig `yaml:"export,omitempty"`

	// path stores where the config was loaded from.
	path string
}

// SchedulerConfig configures effect flushing.
type SchedulerConfig struct {
	// MaxFlushIterations caps the passes of one flush.
	MaxFlushIterations int `yaml:"maxFlushIterations,omitempty"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `yaml:"level,omitempty"`

	// File, when set, receives JSON logs in addition to stderr.
	File string `yaml:"file,omitempty"`
}

// ExportConfig configures the S3 exporter.
type ExportConfig struct {
	Bucket   string `yaml:"bucket,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
	Region   string `yaml:"region,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// New returns a configuration with every default filled in.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads lumen.yaml from dir. A missing file yields the defaults.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from path. A missing file yields the
// defaults; unknown keys and invalid values are errors.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := New()
			cfg.path = path
			return cfg, nil
		}
		return nil, lerrors.New("L004").WithDetail(path).Wrap(err)
	}
	return Parse(path, data)
}

// Parse decodes configuration data read from path.
func Parse(path string, data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, lerrors.New("L003").WithDetailf("failed to parse %s", filepath.Base(path)).Wrap(err)
	}
	cfg.path = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Save writes the configuration back to its path.
func (c *Config) Save() error {
	if c.path == "" {
		return lerrors.New("L003").WithDetail("no config path set")
	}
	return c.SaveTo(c.path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	c.path = path
	return nil
}

func (c *Config) applyDefaults() {
	def := pool.DefaultConfig()
	for name, pc := range c.Pools {
		c.Pools[name] = pc.Merge(def)
	}
	if c.Scheduler.MaxFlushIterations == 0 {
		c.Scheduler.MaxFlushIterations = lumen.DefaultMaxFlushIterations
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Export.Region == "" {
		c.Export.Region = DefaultRegion
	}
}

// Validate checks every section and reports the first problem found.
func (c *Config) Validate() error {
	names := make([]string, 0, len(c.Pools))
	for name := range c.Pools {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := c.Pools[name].Validate(); err != nil {
			return fmt.Errorf("pools.%s: %w", name, err)
		}
	}
	if c.Scheduler.MaxFlushIterations < 1 {
		return lerrors.New("L003").WithDetailf("scheduler.maxFlushIterations must be >= 1, got %d", c.Scheduler.MaxFlushIterations)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, lerrors.New("L003").WithDetailf("log.level %q", c.Log.Level)
	}
	return l, nil
}

// Apply pushes the pool policies and the scheduler cap into the runtime.
// Pools can only be configured before their first Acquire.
func (c *Config) Apply() error {
	if len(c.Pools) > 0 {
		if err := pool.Configure(c.Pools); err != nil {
			return err
		}
	}
	return lumen.SetMaxFlushIterations(c.Scheduler.MaxFlushIterations)
}

// Exists reports whether dir contains lumen.yaml.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
