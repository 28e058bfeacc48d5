// Package config loads the beandoc YAML configuration.
package config

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/beandoc/internal/graphdb"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "beandoc.yaml"

// Config is the complete beandoc configuration.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Registry RegistryConfig `yaml:"registry"`
	Database DatabaseConfig `yaml:"database"`
	Docs     DocsConfig     `yaml:"docs"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// OutputConfig controls where and how documents are written.
type OutputConfig struct {
	Directory string       `yaml:"directory"`
	Format    OutputFormat `yaml:"format"`
	// Clean removes documents from an earlier run before writing.
	Clean bool `yaml:"clean"`
	// Manifest writes manifest.json next to the documents. Defaults to true.
	Manifest    *bool `yaml:"manifest,omitempty"`
	HTMLPreview bool  `yaml:"html_preview"`
}

// ManifestEnabled reports whether a run manifest is written.
func (o OutputConfig) ManifestEnabled() bool {
	return o.Manifest == nil || *o.Manifest
}

// RegistryConfig selects the registry entries to document.
type RegistryConfig struct {
	Queries  []string `yaml:"queries"`
	Excludes []string `yaml:"excludes"`
}

// DatabaseConfig configures the embedded database started for the run.
type DatabaseConfig struct {
	StoreDir string `yaml:"store_dir"`
	// Settings are merged over the documentation defaults.
	Settings map[string]string `yaml:"settings,omitempty"`
}

// DocsConfig controls links and titles in the generated documents.
type DocsConfig struct {
	JavadocURL        string `yaml:"javadoc_url"`
	ListID            string `yaml:"list_id"`
	ListTitle         string `yaml:"list_title"`
	Namespace         string `yaml:"namespace"`
	InternalNamespace string `yaml:"internal_namespace"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	// Textfile is a path for Prometheus text exposition output. Empty disables it.
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration at path. A missing file yields the defaults;
// environment files are loaded first so ${VAR} references can use them.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		slog.Debug("No configuration file, using defaults", slog.String("path", path))
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes, defaults, normalizes and validates configuration YAML.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := normalize(&cfg); err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "target/docs/ops"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatAsciiDoc
	}
	if cfg.Registry.Queries == nil {
		cfg.Registry.Queries = []string{graphdb.Domain + ":*"}
	}
	if cfg.Registry.Excludes == nil {
		cfg.Registry.Excludes = []string{"JMX Server"}
	}
	if cfg.Database.StoreDir == "" {
		cfg.Database.StoreDir = "target/tmp"
	}
	settings := graphdb.DocumentationConfig()
	maps.Copy(settings, cfg.Database.Settings)
	cfg.Database.Settings = settings

	if cfg.Docs.JavadocURL == "" {
		cfg.Docs.JavadocURL = "javadocs/"
	}
	if cfg.Docs.ListID == "" {
		cfg.Docs.ListID = "jmx-list"
	}
	if cfg.Docs.ListTitle == "" {
		cfg.Docs.ListTitle = "MBeans exposed by Neo4j"
	}
	if cfg.Docs.Namespace == "" {
		cfg.Docs.Namespace = graphdb.Domain
	}
	if cfg.Docs.InternalNamespace == "" {
		cfg.Docs.InternalNamespace = cfg.Docs.Namespace + ".kernel"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
}

func normalize(cfg *Config) error {
	var err error
	if cfg.Output.Format, err = formatNormalizer.NormalizeWithError(string(cfg.Output.Format)); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if cfg.Logging.Level, err = logLevelNormalizer.NormalizeWithError(string(cfg.Logging.Level)); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if cfg.Logging.Format, err = logFormatNormalizer.NormalizeWithError(string(cfg.Logging.Format)); err != nil {
		return fmt.Errorf("logging.format: %w", err)
	}
	return nil
}

// Hash returns a stable digest of the effective configuration.
func (c *Config) Hash() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal config for hash: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}
