package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"pkgsrc/internal/config"
	"pkgsrc/internal/history"
	"pkgsrc/internal/lookup"
	"pkgsrc/internal/resolver"
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatHuman OutputFormat = "human"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
	FormatTOML  OutputFormat = "toml"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	urlStyle   = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("45"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// ExtractResponse is the output of the extract command.
type ExtractResponse struct {
	Kind       lookup.Kind `json:"kind" yaml:"kind" toml:"kind"`
	Candidates []string    `json:"candidates" yaml:"candidates" toml:"candidates"`
}

// HistoryResponse is the output of the history command.
type HistoryResponse struct {
	Entries []history.Entry `json:"entries" yaml:"entries" toml:"entries"`
	Cleared int64           `json:"cleared,omitempty" yaml:"cleared,omitempty" toml:"cleared,omitempty"`
}

// ConfigShowResponse is the output of config show.
type ConfigShowResponse struct {
	ConfigPath   string               `json:"configPath,omitempty" yaml:"configPath,omitempty" toml:"configPath,omitempty"`
	UsedDefaults bool                 `json:"usedDefaults" yaml:"usedDefaults" toml:"usedDefaults"`
	EnvOverrides []config.EnvOverride `json:"envOverrides,omitempty" yaml:"envOverrides,omitempty" toml:"envOverrides,omitempty"`
	Config       *config.Config       `json:"config" yaml:"config" toml:"config"`
}

// VersionResponse is the output of the version command.
type VersionResponse struct {
	Version   string `json:"version" yaml:"version" toml:"version"`
	Commit    string `json:"commit" yaml:"commit" toml:"commit"`
	BuildDate string `json:"buildDate" yaml:"buildDate" toml:"buildDate"`
}

// ParseFormat validates a --format value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatHuman, FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (want human, json, yaml or toml)", s)
	}
}

// FormatResponse formats a response according to the specified format.
func FormatResponse(resp interface{}, format OutputFormat) (string, error) {
	switch format {
	case FormatJSON:
		return formatJSON(resp)
	case FormatYAML:
		return formatYAML(resp)
	case FormatTOML:
		return formatTOML(resp)
	case FormatHuman:
		return formatHuman(resp)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func formatJSON(resp interface{}) (string, error) {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

func formatYAML(resp interface{}) (string, error) {
	data, err := yaml.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func formatTOML(resp interface{}) (string, error) {
	data, err := toml.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to marshal TOML: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}

func formatHuman(resp interface{}) (string, error) {
	switch v := resp.(type) {
	case *lookup.Outcome:
		return formatOutcomeHuman(v), nil
	case *resolver.Resolution:
		return formatResolutionHuman(v), nil
	case *ExtractResponse:
		return formatExtractHuman(v), nil
	case *HistoryResponse:
		return formatHistoryHuman(v), nil
	case *ConfigShowResponse:
		return formatConfigHuman(v), nil
	case *VersionResponse:
		return fmt.Sprintf("pkgsrc version %s\nCommit: %s\nBuilt: %s", v.Version, v.Commit, v.BuildDate), nil
	default:
		return formatJSON(resp)
	}
}

func formatResolutionHuman(r *resolver.Resolution) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(r.Name))
	if r.Candidate != "" && r.Candidate != r.Name {
		b.WriteString(mutedStyle.Render(" (via " + r.Candidate + ")"))
	}
	b.WriteString("\n")
	b.WriteString("  " + labelStyle.Render("url:") + "    " + urlStyle.Render(r.URL) + "\n")
	b.WriteString("  " + labelStyle.Render("source:") + " " + string(r.Source))
	return b.String()
}

func formatOutcomeHuman(o *lookup.Outcome) string {
	if o.Cancelled {
		return mutedStyle.Render("Cancelled")
	}
	if o.Resolution == nil {
		return mutedStyle.Render("Nothing opened")
	}
	s := formatResolutionHuman(o.Resolution)
	if !o.Opened {
		s += "\n" + mutedStyle.Render("  (browser not opened)")
	}
	return s
}

func formatExtractHuman(r *ExtractResponse) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d module(s) found", len(r.Candidates))))
	b.WriteString(mutedStyle.Render(" in " + string(r.Kind)))
	for _, c := range r.Candidates {
		b.WriteString("\n  " + c)
	}
	return b.String()
}

func formatHistoryHuman(r *HistoryResponse) string {
	if r.Cleared > 0 {
		return fmt.Sprintf("Cleared %d history entries", r.Cleared)
	}
	if len(r.Entries) == 0 {
		return mutedStyle.Render("No history")
	}

	var b strings.Builder
	for i, e := range r.Entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(mutedStyle.Render(e.OpenedAt.Local().Format("2006-01-02 15:04")) + "  ")
		b.WriteString(labelStyle.Render(e.Name) + "  " + urlStyle.Render(e.URL))
		b.WriteString(mutedStyle.Render(" [" + e.Source + "]"))
	}
	return b.String()
}

func formatConfigHuman(r *ConfigShowResponse) string {
	var b strings.Builder
	if r.UsedDefaults {
		b.WriteString(mutedStyle.Render("Using defaults (no config file)") + "\n")
	} else {
		b.WriteString(mutedStyle.Render("Config: "+r.ConfigPath) + "\n")
	}

	c := r.Config
	rows := [][2]string{
		{"registry.url", c.Registry.URL},
		{"registry.timeoutMs", fmt.Sprintf("%d", c.Registry.TimeoutMs)},
		{"registry.userAgent", c.Registry.UserAgent},
		{"manifest.path", c.Manifest.Path},
		{"extract.parser", c.Extract.Parser},
		{"stdlib.docsBaseUrl", c.Stdlib.DocsBaseURL},
		{"history.enabled", fmt.Sprintf("%t", c.History.Enabled)},
		{"browser.enabled", fmt.Sprintf("%t", c.Browser.Enabled)},
		{"logging.level", c.Logging.Level},
		{"logging.format", c.Logging.Format},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("  %s %s\n", labelStyle.Render(fmt.Sprintf("%-20s", row[0])), row[1]))
	}

	if len(r.EnvOverrides) > 0 {
		b.WriteString("\n" + titleStyle.Render("Environment overrides") + "\n")
		for _, o := range r.EnvOverrides {
			b.WriteString(fmt.Sprintf("  %s -> %s = %s\n", o.EnvVar, o.Path, o.Value))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
