package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	// API settings
	APIToken    string `yaml:"api_token"`
	ProjectCode string `yaml:"project_code"`
	BaseURL     string `yaml:"base_url"`
	PageLimit   int    `yaml:"page_limit"`

	// Field migration
	SourceField        string `yaml:"source_field"`
	DestinationField   string `yaml:"destination_field"`
	DestinationFieldID int64  `yaml:"-"`

	// CSV update
	CSVFieldName string `yaml:"csv_field_name"`
	CSVFieldID   int64  `yaml:"-"`
	CSVColumn    string `yaml:"csv_column_name"`

	// JIRA linking
	JiraRefsField   string      `yaml:"jira_refs_field"`
	JiraRefsFieldID int64       `yaml:"-"`
	Tests           TestsConfig `yaml:"tests"`

	// Repair settings
	Extension string `yaml:"extension"`

	// Bulk deletion
	Workers int `yaml:"workers"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// TestsConfig groups test case related settings
type TestsConfig struct {
	ExternalIssues ExternalIssuesConfig `yaml:"external_issues"`
}

// ExternalIssuesConfig configures JIRA linking
type ExternalIssuesConfig struct {
	Type      string `yaml:"type"`
	BatchSize int    `yaml:"batch_size"`
}

// Flags holds global command-line flags
type Flags struct {
	ConfigPath string
	Token      string
	Project    string
	BaseURL    string
	DryRun     bool
	Verbose    bool
	LogFile    string
	ReportPath string

	Filter  string
	CSVPath string
	Size    int64
	Yes     bool
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		BaseURL:   DefaultBaseURL,
		PageLimit: DefaultPageLimit,
		Extension: DefaultExtension,
		Workers:   DefaultWorkers,

		CSVFieldName: DefaultCSVFieldName,
		Tests: TestsConfig{
			ExternalIssues: ExternalIssuesConfig{
				Type:      DefaultExternalIssueType,
				BatchSize: DefaultBatchSize,
			},
		},
	}
}

// Load builds the config from .env, the config file, the environment and
// flags, in increasing priority. A missing default config file is tolerated;
// a missing file named by --config is not.
func Load(flags Flags) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := New()
	path := flags.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}
	if err := cfg.LoadFile(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) || flags.ConfigPath != "" {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.applyFlags(flags)
	cfg.fillDefaults()
	return cfg, nil
}

// LoadFile merges a YAML or JSON config file into c
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	var ids fileIDs
	if err := yaml.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	ids.apply(c)
	return nil
}

// fileIDs holds the id keys, which older config files may quote, and the
// csv_update_* names that predate csv_field_*
type fileIDs struct {
	DestinationFieldID FieldID `yaml:"destination_field_id"`
	JiraRefsFieldID    FieldID `yaml:"jira_refs_field_id"`
	CSVFieldName       string  `yaml:"csv_field_name"`
	CSVFieldID         FieldID `yaml:"csv_field_id"`
	CSVUpdateField     string  `yaml:"csv_update_field"`
	CSVUpdateFieldID   FieldID `yaml:"csv_update_field_id"`
}

func (ids fileIDs) apply(c *Config) {
	if ids.DestinationFieldID != 0 {
		c.DestinationFieldID = int64(ids.DestinationFieldID)
	}
	if ids.JiraRefsFieldID != 0 {
		c.JiraRefsFieldID = int64(ids.JiraRefsFieldID)
	}
	if ids.CSVFieldName == "" && ids.CSVUpdateField != "" {
		c.CSVFieldName = ids.CSVUpdateField
	}
	switch {
	case ids.CSVFieldID != 0:
		c.CSVFieldID = int64(ids.CSVFieldID)
	case ids.CSVUpdateFieldID != 0:
		c.CSVFieldID = int64(ids.CSVUpdateFieldID)
	}
}

// FieldID is a field id read from a config file. It accepts a number, a
// numeric string, or a blank or null value meaning unset.
type FieldID int64

// UnmarshalYAML implements yaml.Unmarshaler
func (id *FieldID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: field id must be a number", node.Line)
	}
	v := strings.TrimSpace(node.Value)
	if v == "" || node.ShortTag() == "!!null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("line %d: field id must be a number, got %q", node.Line, node.Value)
	}
	*id = FieldID(n)
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIToken); v != "" {
		c.APIToken = v
	}
	if v := os.Getenv(EnvProjectCode); v != "" {
		c.ProjectCode = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
}

func (c *Config) applyFlags(flags Flags) {
	c.Flags = flags
	if flags.Token != "" {
		c.APIToken = flags.Token
	}
	if flags.Project != "" {
		c.ProjectCode = flags.Project
	}
	if flags.BaseURL != "" {
		c.BaseURL = flags.BaseURL
	}
}

// fillDefaults restores defaults the config file zeroed out
func (c *Config) fillDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.PageLimit <= 0 {
		c.PageLimit = DefaultPageLimit
	}
	if c.Extension == "" {
		c.Extension = DefaultExtension
	}
	c.Extension = strings.TrimPrefix(c.Extension, ".")
	if c.CSVFieldName == "" {
		c.CSVFieldName = DefaultCSVFieldName
	}
	if c.CSVColumn == "" {
		c.CSVColumn = c.CSVFieldName
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Tests.ExternalIssues.Type == "" {
		c.Tests.ExternalIssues.Type = DefaultExternalIssueType
	}
	if c.Tests.ExternalIssues.BatchSize <= 0 {
		c.Tests.ExternalIssues.BatchSize = DefaultBatchSize
	}
}

// Validate checks the settings every command needs. Project-scoped commands
// pass requireProject.
func (c *Config) Validate(requireProject bool) error {
	if strings.TrimSpace(c.APIToken) == "" {
		return fmt.Errorf("api_token is not set (config file, %s or --token)", EnvAPIToken)
	}
	if requireProject && strings.TrimSpace(c.ProjectCode) == "" {
		return fmt.Errorf("project_code is not set (config file, %s or --project)", EnvProjectCode)
	}
	if !slices.Contains(ExternalIssueTypes, c.Tests.ExternalIssues.Type) {
		return fmt.Errorf("tests.external_issues.type must be one of %s, got %q",
			strings.Join(ExternalIssueTypes, ", "), c.Tests.ExternalIssues.Type)
	}
	return nil
}

// IsDryRun reports whether mutations must be skipped
func (c *Config) IsDryRun() bool {
	return c.Flags.DryRun
}
