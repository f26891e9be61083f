package cli

import (
	"strings"

	"qcr/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	// Global
	ConfigPath string
	Token      string
	Project    string
	BaseURL    string
	DryRun     bool
	Verbose    bool
	LogFile    string
	ReportPath string

	// Repair
	Filter    string
	Extension string

	// migrate-field
	SourceField        string
	DestinationField   string
	DestinationFieldID int64

	// update-from-csv
	CSVPath    string
	CSVField   string
	CSVFieldID int64
	CSVColumn  string

	// link-jira
	IssueType   string
	BatchSize   int
	RefsField   string
	RefsFieldID int64

	// Deletion
	Size    int64
	Workers int
	Yes     bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		ConfigPath: f.ConfigPath,
		Token:      f.Token,
		Project:    f.Project,
		BaseURL:    f.BaseURL,
		DryRun:     f.DryRun,
		Verbose:    f.Verbose,
		LogFile:    f.LogFile,
		ReportPath: f.ReportPath,
		Filter:     f.Filter,
		CSVPath:    f.CSVPath,
		Size:       f.Size,
		Yes:        f.Yes,
	}
}

// Apply overrides config values with the command flags that were set
func (f *Flags) Apply(cfg *config.Config) {
	setString(&cfg.Extension, strings.TrimPrefix(f.Extension, "."))
	setString(&cfg.SourceField, f.SourceField)
	setString(&cfg.DestinationField, f.DestinationField)
	setInt64(&cfg.DestinationFieldID, f.DestinationFieldID)
	if f.CSVField != "" {
		// a new field name also moves the default column unless one is given
		if cfg.CSVColumn == cfg.CSVFieldName {
			cfg.CSVColumn = f.CSVField
		}
		cfg.CSVFieldName = f.CSVField
	}
	setInt64(&cfg.CSVFieldID, f.CSVFieldID)
	setString(&cfg.CSVColumn, f.CSVColumn)
	setString(&cfg.Tests.ExternalIssues.Type, f.IssueType)
	if f.BatchSize > 0 {
		cfg.Tests.ExternalIssues.BatchSize = f.BatchSize
	}
	setString(&cfg.JiraRefsField, f.RefsField)
	setInt64(&cfg.JiraRefsFieldID, f.RefsFieldID)
	if f.Workers > 0 {
		cfg.Workers = f.Workers
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt64(dst *int64, v int64) {
	if v != 0 {
		*dst = v
	}
}
