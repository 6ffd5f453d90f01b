// Package config loads footprint's YAML configuration.
//
// The global file lives at ~/.footprint/config.yaml (FOOTPRINT_HOME overrides
// the directory). A project-local .footprint/config.yaml, when present, is
// shallow-merged over it: each top-level section in the overlay replaces the
// whole section. Environment variables override both, and CLI flags override
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	dirName        = ".footprint"
	configFileName = "config.yaml"
	logFileName    = "footprint.log"

	defaultPrecision = 2
	defaultMemoSize  = 256
)

// Environment variables read by ApplyEnvOverrides.
const (
	EnvHome          = "FOOTPRINT_HOME"
	EnvLogLevel      = "FOOTPRINT_LOG_LEVEL"
	EnvLogFormat     = "FOOTPRINT_LOG_FORMAT"
	EnvOutputFormat  = "FOOTPRINT_OUTPUT_FORMAT"
	EnvMissingChoice = "FOOTPRINT_MISSING_CHOICE"
	EnvProjectDir    = "FOOTPRINT_PROJECT_DIR"
)

// Config is the application configuration.
type Config struct {
	Output        OutputConfig        `yaml:"output"`
	Logging       LoggingConfig       `yaml:"logging"`
	Engine        EngineConfig        `yaml:"engine"`
	Questionnaire QuestionnaireConfig `yaml:"questionnaire"`

	configPath string
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Precision     int    `yaml:"precision"`
	// Equivalencies appends greenops equivalencies to table output.
	Equivalencies bool `yaml:"equivalencies"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// EngineConfig tunes the estimation engine.
type EngineConfig struct {
	// MissingChoice is "strict" or "lenient".
	MissingChoice string `yaml:"missing_choice"`
	// Memoize caches results per answer set within one process.
	Memoize  bool `yaml:"memoize"`
	MemoSize int  `yaml:"memo_size"`
}

// QuestionnaireConfig holds default definition paths used when the CLI flags
// are not given.
type QuestionnaireConfig struct {
	Questions string `yaml:"questions"`
	Constants string `yaml:"constants"`
}

var validOutputFormats = []string{"table", "json", "ndjson"} //nolint:gochecknoglobals // lookup table

// New returns a Config with defaults, overlaid by the global config file when
// it exists. Read or parse failures leave the defaults in place.
func New() *Config {
	cfg := Default()
	cfg.configPath = filepath.Join(Dir(), configFileName)
	_ = cfg.Load()
	return cfg
}

// Default returns the built-in defaults without touching the filesystem.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			DefaultFormat: "table",
			Precision:     defaultPrecision,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Engine: EngineConfig{
			MissingChoice: "strict",
			Memoize:       true,
			MemoSize:      defaultMemoSize,
		},
	}
}

// Dir returns the global configuration directory.
func Dir() string {
	if home := os.Getenv(EnvHome); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return dirName
	}
	return filepath.Join(userHome, dirName)
}

// ConfigPath returns the file Load and Save use.
func (c *Config) ConfigPath() string { return c.configPath }

// SetConfigPath changes the file Load and Save use.
func (c *Config) SetConfigPath(path string) { c.configPath = path }

// Load reads the config file over the current values.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", c.configPath, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", c.configPath, err)
	}
	return nil
}

// Save writes the config file, creating its directory.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

// ApplyEnvOverrides applies FOOTPRINT_* variables read through lookupEnv.
func (c *Config) ApplyEnvOverrides(lookupEnv func(string) (string, bool)) {
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookupEnv(EnvOutputFormat); ok && v != "" {
		c.Output.DefaultFormat = v
	}
	if v, ok := lookupEnv(EnvMissingChoice); ok && v != "" {
		c.Engine.MissingChoice = v
	}
}

// Validate checks enumerated and numeric fields.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(validOutputFormats, c.Output.DefaultFormat) {
		errs = append(errs, fmt.Errorf("output.default_format %q must be one of %s",
			c.Output.DefaultFormat, strings.Join(validOutputFormats, ", ")))
	}
	if c.Output.Precision < 0 {
		errs = append(errs, fmt.Errorf("output.precision must be >= 0, got %d", c.Output.Precision))
	}
	switch c.Engine.MissingChoice {
	case "", "strict", "lenient":
	default:
		errs = append(errs, fmt.Errorf("engine.missing_choice %q must be strict or lenient", c.Engine.MissingChoice))
	}
	if c.Engine.MemoSize < 0 {
		errs = append(errs, fmt.Errorf("engine.memo_size must be >= 0, got %d", c.Engine.MemoSize))
	}
	return errors.Join(errs...)
}

// EffectiveMemoSize is MemoSize when memoization is on, else 0.
func (c *Config) EffectiveMemoSize() int {
	if !c.Engine.Memoize {
		return 0
	}
	return c.Engine.MemoSize
}

// EnsureLogDir creates the directory holding the configured log file.
func EnsureLogDir() error {
	path := GetGlobalConfig().Logging.File
	if path == "" {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o750)
}

// DefaultLogPath is the log file suggested by `config init`.
func DefaultLogPath() string {
	return filepath.Join(Dir(), "logs", logFileName)
}

var (
	globalConfig   *Config    //nolint:gochecknoglobals // set once per CLI invocation
	globalConfigMu sync.Mutex //nolint:gochecknoglobals // guards globalConfig
)

// GetGlobalConfig returns the process-wide config, loading it on first use.
func GetGlobalConfig() *Config {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if globalConfig == nil {
		globalConfig = New()
		globalConfig.ApplyEnvOverrides(os.LookupEnv)
	}
	return globalConfig
}

// SetGlobalConfig replaces the process-wide config.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// GetDefaultOutputFormat returns the configured output format.
func GetDefaultOutputFormat() string {
	return GetGlobalConfig().Output.DefaultFormat
}

// ResetGlobalConfigForTest clears the process-wide config so the next
// GetGlobalConfig reloads it.
func ResetGlobalConfigForTest() {
	SetGlobalConfig(nil)
}
