package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != CurrentVersion {
		t.Errorf("Version = %d, want %d", cfg.Version, CurrentVersion)
	}
	if cfg.Registry.URL != "http://registry.npmjs.org" {
		t.Errorf("Registry.URL = %q", cfg.Registry.URL)
	}
	if cfg.Registry.TimeoutMs <= 0 {
		t.Error("Registry.TimeoutMs should be positive")
	}
	if cfg.Manifest.Path != "package.json" {
		t.Errorf("Manifest.Path = %q, want package.json", cfg.Manifest.Path)
	}
	if cfg.Extract.Parser != ParserRegex {
		t.Errorf("Extract.Parser = %q, want %q", cfg.Extract.Parser, ParserRegex)
	}
	if cfg.Stdlib.DocsBaseURL != "https://nodejs.org/api" {
		t.Errorf("Stdlib.DocsBaseURL = %q", cfg.Stdlib.DocsBaseURL)
	}
	if !cfg.History.Enabled || !cfg.Browser.Enabled {
		t.Error("history and browser should be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		field   string
		wantErr bool
	}{
		{"defaults", func(*Config) {}, "", false},
		{"ast parser", func(c *Config) { c.Extract.Parser = ParserAST }, "", false},
		{"unsupported version", func(c *Config) { c.Version = 7 }, "version", true},
		{"registry without scheme", func(c *Config) { c.Registry.URL = "registry.npmjs.org" }, "registry.url", true},
		{"zero timeout", func(c *Config) { c.Registry.TimeoutMs = 0 }, "registry.timeoutMs", true},
		{"unknown parser", func(c *Config) { c.Extract.Parser = "lsp" }, "extract.parser", true},
		{"empty docs url", func(c *Config) { c.Stdlib.DocsBaseURL = "" }, "stdlib.docsBaseUrl", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			cfgErr, ok := err.(*ConfigError)
			if !ok {
				t.Fatalf("Validate() error type = %T, want *ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{Field: "version", Message: "unsupported config version 99"}

	want := "config error in field 'version': unsupported config version 99"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestLoadConfig_Default(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Registry.URL != DefaultConfig().Registry.URL {
		t.Errorf("Registry.URL = %q, want default", cfg.Registry.URL)
	}
}

func writeConfig(t *testing.T, root, content string) {
	t.Helper()
	dir := filepath.Join(root, ".pkgsrc")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create .pkgsrc dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{
		"version": 1,
		"registry": {"url": "https://registry.example.com", "timeoutMs": 2500},
		"extract": {"parser": "ast"},
		"history": {"enabled": false}
	}`)

	res, err := LoadConfigWithDetails(root)
	if err != nil {
		t.Fatalf("LoadConfigWithDetails() error = %v", err)
	}
	cfg := res.Config

	if res.ConfigPath != filepath.Join(root, ".pkgsrc", "config.json") {
		t.Errorf("ConfigPath = %q", res.ConfigPath)
	}
	if cfg.Registry.URL != "https://registry.example.com" {
		t.Errorf("Registry.URL = %q", cfg.Registry.URL)
	}
	if cfg.Registry.TimeoutMs != 2500 {
		t.Errorf("Registry.TimeoutMs = %d, want 2500", cfg.Registry.TimeoutMs)
	}
	if cfg.Extract.Parser != ParserAST {
		t.Errorf("Extract.Parser = %q, want ast", cfg.Extract.Parser)
	}
	if cfg.History.Enabled {
		t.Error("History should be disabled per config")
	}
	// Keys absent from the file keep their defaults.
	if !cfg.Browser.Enabled {
		t.Error("Browser.Enabled should keep its default")
	}
	if cfg.Stdlib.DocsBaseURL != "https://nodejs.org/api" {
		t.Errorf("Stdlib.DocsBaseURL = %q, want default", cfg.Stdlib.DocsBaseURL)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `{"version": 1,,}`)

	if _, err := LoadConfig(root); err == nil {
		t.Error("LoadConfig() should fail on malformed JSON")
	}
}

func TestLoadConfigWithDetails_EnvConfigPath(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "alt.json")
	if err := os.WriteFile(p, []byte(`{"version": 1, "manifest": {"path": "web/package.json"}}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PKGSRC_CONFIG_PATH", p)

	res, err := LoadConfigWithDetails(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfigWithDetails() error = %v", err)
	}
	if res.ConfigPath != p {
		t.Errorf("ConfigPath = %q, want %q", res.ConfigPath, p)
	}
	if res.Config.Manifest.Path != "web/package.json" {
		t.Errorf("Manifest.Path = %q", res.Config.Manifest.Path)
	}
}

func TestConfig_Save(t *testing.T) {
	root := t.TempDir()

	cfg := DefaultConfig()
	cfg.Registry.TimeoutMs = 4200
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.Registry.TimeoutMs != 4200 {
		t.Errorf("Registry.TimeoutMs = %d, want 4200", loaded.Registry.TimeoutMs)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config, overrides []EnvOverride)
	}{
		{
			name:    "logging level override",
			envVars: map[string]string{"PKGSRC_LOG_LEVEL": "debug"},
			validate: func(t *testing.T, cfg *Config, overrides []EnvOverride) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
				}
				if len(overrides) != 1 {
					t.Errorf("len(overrides) = %d, want 1", len(overrides))
				}
			},
		},
		{
			name:    "int override",
			envVars: map[string]string{"PKGSRC_REGISTRY_TIMEOUT_MS": "1500"},
			validate: func(t *testing.T, cfg *Config, _ []EnvOverride) {
				if cfg.Registry.TimeoutMs != 1500 {
					t.Errorf("Registry.TimeoutMs = %d, want 1500", cfg.Registry.TimeoutMs)
				}
			},
		},
		{
			name:    "bool override",
			envVars: map[string]string{"PKGSRC_BROWSER_ENABLED": "false"},
			validate: func(t *testing.T, cfg *Config, _ []EnvOverride) {
				if cfg.Browser.Enabled {
					t.Error("Browser.Enabled should be false")
				}
			},
		},
		{
			name: "invalid values ignored",
			envVars: map[string]string{
				"PKGSRC_REGISTRY_TIMEOUT_MS": "soon",
				"PKGSRC_HISTORY_ENABLED":     "maybe",
			},
			validate: func(t *testing.T, cfg *Config, overrides []EnvOverride) {
				if cfg.Registry.TimeoutMs != DefaultConfig().Registry.TimeoutMs {
					t.Errorf("Registry.TimeoutMs = %d, want default", cfg.Registry.TimeoutMs)
				}
				if !cfg.History.Enabled {
					t.Error("History.Enabled should keep default")
				}
				if len(overrides) != 0 {
					t.Errorf("len(overrides) = %d, want 0", len(overrides))
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			cfg := DefaultConfig()
			overrides := ApplyEnvOverrides(cfg)
			tt.validate(t, cfg, overrides)
		})
	}
}

func TestGetSupportedEnvVars(t *testing.T) {
	vars := GetSupportedEnvVars()
	want := map[string]bool{"PKGSRC_REGISTRY_URL": false, "PKGSRC_LOG_LEVEL": false, "PKGSRC_EXTRACT_PARSER": false}
	for _, v := range vars {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for k, seen := range want {
		if !seen {
			t.Errorf("GetSupportedEnvVars() missing %s", k)
		}
	}
}
