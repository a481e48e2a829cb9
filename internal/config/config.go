package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"pkgsrc/internal/paths"
)

// CurrentVersion is the only supported config schema version.
const CurrentVersion = 1

// Parser names accepted by extract.parser.
const (
	ParserRegex = "regex"
	ParserAST   = "ast"
)

// Config represents the complete pkgsrc configuration.
type Config struct {
	Version int `json:"version" yaml:"version" toml:"version" mapstructure:"version"`

	Registry RegistryConfig `json:"registry" yaml:"registry" toml:"registry" mapstructure:"registry"`
	Manifest ManifestConfig `json:"manifest" yaml:"manifest" toml:"manifest" mapstructure:"manifest"`
	Extract  ExtractConfig  `json:"extract" yaml:"extract" toml:"extract" mapstructure:"extract"`
	Stdlib   StdlibConfig   `json:"stdlib" yaml:"stdlib" toml:"stdlib" mapstructure:"stdlib"`
	History  HistoryConfig  `json:"history" yaml:"history" toml:"history" mapstructure:"history"`
	Browser  BrowserConfig  `json:"browser" yaml:"browser" toml:"browser" mapstructure:"browser"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging" toml:"logging" mapstructure:"logging"`
}

// RegistryConfig controls the package registry client.
type RegistryConfig struct {
	URL       string `json:"url" yaml:"url" toml:"url" mapstructure:"url"`
	TimeoutMs int    `json:"timeoutMs" yaml:"timeoutMs" toml:"timeoutMs" mapstructure:"timeoutMs"`
	UserAgent string `json:"userAgent" yaml:"userAgent" toml:"userAgent" mapstructure:"userAgent"`
}

// ManifestConfig locates the project dependency manifest.
type ManifestConfig struct {
	Path string `json:"path" yaml:"path" toml:"path" mapstructure:"path"`
}

// ExtractConfig selects how module references are found in source text.
type ExtractConfig struct {
	Parser string `json:"parser" yaml:"parser" toml:"parser" mapstructure:"parser"`
}

// StdlibConfig controls documentation links for built-in modules.
type StdlibConfig struct {
	DocsBaseURL string `json:"docsBaseUrl" yaml:"docsBaseUrl" toml:"docsBaseUrl" mapstructure:"docsBaseUrl"`
}

// HistoryConfig controls the opened-URL history database.
type HistoryConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" toml:"enabled" mapstructure:"enabled"`
}

// BrowserConfig controls launching the system browser.
type BrowserConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled" toml:"enabled" mapstructure:"enabled"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Format string `json:"format" yaml:"format" toml:"format" mapstructure:"format"`
	Level  string `json:"level" yaml:"level" toml:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Registry: RegistryConfig{
			URL:       "http://registry.npmjs.org",
			TimeoutMs: 10000,
		},
		Manifest: ManifestConfig{
			Path: paths.DefaultManifest,
		},
		Extract: ExtractConfig{
			Parser: ParserRegex,
		},
		Stdlib: StdlibConfig{
			DocsBaseURL: "https://nodejs.org/api",
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Browser: BrowserConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "warn",
		},
	}
}

// setDefaults seeds viper with every default so a partial file only
// overrides the keys it names.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("registry.url", d.Registry.URL)
	v.SetDefault("registry.timeoutMs", d.Registry.TimeoutMs)
	v.SetDefault("registry.userAgent", d.Registry.UserAgent)
	v.SetDefault("manifest.path", d.Manifest.Path)
	v.SetDefault("extract.parser", d.Extract.Parser)
	v.SetDefault("stdlib.docsBaseUrl", d.Stdlib.DocsBaseURL)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("browser.enabled", d.Browser.Enabled)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
}

// LoadResult describes where the effective configuration came from.
type LoadResult struct {
	Config       *Config
	ConfigPath   string // empty when defaults were used
	EnvOverrides []EnvOverride
}

// LoadConfig loads configuration from <root>/.pkgsrc/config.json and applies
// PKGSRC_* environment overrides.
func LoadConfig(root string) (*Config, error) {
	res, err := LoadConfigWithDetails(root)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadConfigWithDetails is LoadConfig that also reports the file used and the
// environment overrides applied. PKGSRC_CONFIG_PATH replaces the file location.
func LoadConfigWithDetails(root string) (*LoadResult, error) {
	configPath := paths.ConfigPath(root)
	if p := os.Getenv("PKGSRC_CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, used, err := loadConfigFromPath(configPath)
	if err != nil {
		return nil, err
	}

	res := &LoadResult{Config: cfg}
	if used {
		res.ConfigPath = configPath
	}
	res.EnvOverrides = ApplyEnvOverrides(cfg)
	return res, nil
}

// loadConfigFromPath reads a single config file. A missing file yields the
// defaults and used=false.
func loadConfigFromPath(configPath string) (*Config, bool, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	configType := strings.TrimPrefix(filepath.Ext(configPath), ".")
	if configType == "" {
		configType = "json"
	}
	v.SetConfigType(configType)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), false, nil
		}
		return nil, false, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, false, fmt.Errorf("failed to decode config %s: %w", configPath, err)
	}

	return &cfg, true, nil
}

// Save writes the configuration to <root>/.pkgsrc/config.json.
func (c *Config) Save(root string) error {
	if _, err := paths.EnsureStateDir(root); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(paths.ConfigPath(root), data, 0644)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: fmt.Sprintf("unsupported config version %d", c.Version)}
	}

	u, err := url.Parse(c.Registry.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ConfigError{Field: "registry.url", Message: fmt.Sprintf("invalid registry url %q", c.Registry.URL)}
	}

	if c.Registry.TimeoutMs <= 0 {
		return &ConfigError{Field: "registry.timeoutMs", Message: "must be positive"}
	}

	switch c.Extract.Parser {
	case ParserRegex, ParserAST:
	default:
		return &ConfigError{Field: "extract.parser", Message: fmt.Sprintf("unknown parser %q (want %s or %s)", c.Extract.Parser, ParserRegex, ParserAST)}
	}

	if c.Stdlib.DocsBaseURL == "" {
		return &ConfigError{Field: "stdlib.docsBaseUrl", Message: "must not be empty"}
	}

	return nil
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

// EnvOverride records one environment variable applied on top of the file.
type EnvOverride struct {
	EnvVar string `json:"envVar" yaml:"envVar" toml:"envVar"`
	Path   string `json:"path" yaml:"path" toml:"path"`
	Value  string `json:"value" yaml:"value" toml:"value"`
}

type envBinding struct {
	envVar string
	path   string
}

var envBindings = []envBinding{
	{"PKGSRC_REGISTRY_URL", "registry.url"},
	{"PKGSRC_REGISTRY_TIMEOUT_MS", "registry.timeoutMs"},
	{"PKGSRC_REGISTRY_USER_AGENT", "registry.userAgent"},
	{"PKGSRC_MANIFEST_PATH", "manifest.path"},
	{"PKGSRC_EXTRACT_PARSER", "extract.parser"},
	{"PKGSRC_STDLIB_DOCS_BASE_URL", "stdlib.docsBaseUrl"},
	{"PKGSRC_HISTORY_ENABLED", "history.enabled"},
	{"PKGSRC_BROWSER_ENABLED", "browser.enabled"},
	{"PKGSRC_LOG_LEVEL", "logging.level"},
	{"PKGSRC_LOG_FORMAT", "logging.format"},
}

// GetSupportedEnvVars lists every environment variable ApplyEnvOverrides reads.
func GetSupportedEnvVars() []string {
	out := make([]string, len(envBindings))
	for i, b := range envBindings {
		out[i] = b.envVar
	}
	return out
}

// ApplyEnvOverrides applies set PKGSRC_* variables to cfg. Values that fail
// to parse for their field type are skipped.
func ApplyEnvOverrides(cfg *Config) []EnvOverride {
	var applied []EnvOverride
	for _, b := range envBindings {
		val, ok := os.LookupEnv(b.envVar)
		if !ok || val == "" {
			continue
		}
		if applyOverride(cfg, b.path, val) {
			applied = append(applied, EnvOverride{EnvVar: b.envVar, Path: b.path, Value: val})
		}
	}
	return applied
}

func applyOverride(cfg *Config, path, val string) bool {
	switch path {
	case "registry.url":
		cfg.Registry.URL = val
	case "registry.timeoutMs":
		n, err := strconv.Atoi(val)
		if err != nil {
			return false
		}
		cfg.Registry.TimeoutMs = n
	case "registry.userAgent":
		cfg.Registry.UserAgent = val
	case "manifest.path":
		cfg.Manifest.Path = val
	case "extract.parser":
		cfg.Extract.Parser = val
	case "stdlib.docsBaseUrl":
		cfg.Stdlib.DocsBaseURL = val
	case "history.enabled":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return false
		}
		cfg.History.Enabled = b
	case "browser.enabled":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return false
		}
		cfg.Browser.Enabled = b
	case "logging.level":
		cfg.Logging.Level = val
	case "logging.format":
		cfg.Logging.Format = val
	default:
		return false
	}
	return true
}
