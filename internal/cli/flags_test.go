package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"qcr/internal/config"
)

func TestFlags_ToConfigFlags(t *testing.T) {
	f := Flags{ConfigPath: "c.yaml", Token: "tok", Project: "DEMO", DryRun: true, ReportPath: "r.json", Filter: "*login*"}

	assert.Equal(t, config.Flags{
		ConfigPath: "c.yaml",
		Token:      "tok",
		Project:    "DEMO",
		DryRun:     true,
		ReportPath: "r.json",
		Filter:     "*login*",
	}, f.ToConfigFlags())
}

func TestFlags_Apply(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name:  "unset flags keep config values",
			flags: Flags{},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.DefaultExtension, cfg.Extension)
				assert.Equal(t, config.DefaultWorkers, cfg.Workers)
				assert.Equal(t, config.DefaultBatchSize, cfg.Tests.ExternalIssues.BatchSize)
			},
		},
		{
			name:  "migration flags",
			flags: Flags{SourceField: "Preconditions", DestinationField: "Legacy", DestinationFieldID: 7},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "Preconditions", cfg.SourceField)
				assert.Equal(t, "Legacy", cfg.DestinationField)
				assert.Equal(t, int64(7), cfg.DestinationFieldID)
			},
		},
		{
			name:  "csv field moves the default column",
			flags: Flags{CSVField: "Expected"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "Expected", cfg.CSVFieldName)
				assert.Equal(t, "Expected", cfg.CSVColumn)
			},
		},
		{
			name:  "explicit csv column wins",
			flags: Flags{CSVField: "Expected", CSVColumn: "Value", CSVFieldID: 3},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "Value", cfg.CSVColumn)
				assert.Equal(t, int64(3), cfg.CSVFieldID)
			},
		},
		{
			name:  "linking and deletion",
			flags: Flags{IssueType: "jira-server", BatchSize: 5, RefsFieldID: 11, Workers: 2, Extension: ".xlsx"},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "jira-server", cfg.Tests.ExternalIssues.Type)
				assert.Equal(t, 5, cfg.Tests.ExternalIssues.BatchSize)
				assert.Equal(t, int64(11), cfg.JiraRefsFieldID)
				assert.Equal(t, 2, cfg.Workers)
				assert.Equal(t, "xlsx", cfg.Extension)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.CSVColumn = cfg.CSVFieldName
			tt.flags.Apply(cfg)
			tt.check(t, cfg)
		})
	}
}
