package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAPIToken, EnvProjectCode, EnvBaseURL} {
		t.Setenv(key, "")
	}
}

func TestNew(t *testing.T) {
	cfg := New()

	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultPageLimit, cfg.PageLimit)
	assert.Equal(t, DefaultExtension, cfg.Extension)
	assert.Equal(t, DefaultExternalIssueType, cfg.Tests.ExternalIssues.Type)
	assert.Equal(t, DefaultBatchSize, cfg.Tests.ExternalIssues.BatchSize)
	assert.Equal(t, DefaultCSVFieldName, cfg.CSVFieldName)
}

func TestLoad_CSVColumnDefaultsToFieldName(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.json", `{"api_token": "tok", "csv_field_name": "Expected", "csv_field_id": 9}`)

	cfg, err := Load(Flags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "Expected", cfg.CSVFieldName)
	assert.Equal(t, int64(9), cfg.CSVFieldID)
	assert.Equal(t, "Expected", cfg.CSVColumn)

	path = writeFile(t, "config.yaml", "api_token: tok\ncsv_column_name: Value\n")
	cfg, err = Load(Flags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, DefaultCSVFieldName, cfg.CSVFieldName)
	assert.Equal(t, "Value", cfg.CSVColumn)
}

func TestLoad_JSONConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.json", `{
  "api_token": "tok",
  "project_code": "DEMO",
  "source_field": "Preconditions",
  "destination_field": "Legacy Preconditions",
  "destination_field_id": 12,
  "jira_refs_field_id": 4,
  "tests": {"external_issues": {"type": "jira-server", "batch_size": 20}}
}`)

	cfg, err := Load(Flags{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "tok", cfg.APIToken)
	assert.Equal(t, "DEMO", cfg.ProjectCode)
	assert.Equal(t, "Preconditions", cfg.SourceField)
	assert.Equal(t, "Legacy Preconditions", cfg.DestinationField)
	assert.Equal(t, int64(12), cfg.DestinationFieldID)
	assert.Equal(t, int64(4), cfg.JiraRefsFieldID)
	assert.Equal(t, "jira-server", cfg.Tests.ExternalIssues.Type)
	assert.Equal(t, 20, cfg.Tests.ExternalIssues.BatchSize)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.NoError(t, cfg.Validate(true))
}

func TestLoad_YAMLConfigFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "qcr.yaml", "api_token: tok\nproject_code: DEMO\nextension: .xlsx\nworkers: 3\n")

	cfg, err := Load(Flags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "xlsx", cfg.Extension)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, "config.json", `{"api_token": "file", "project_code": "FILE"}`)

	tests := []struct {
		name        string
		env         map[string]string
		flags       Flags
		wantToken   string
		wantProject string
	}{
		{
			name:        "file only",
			wantToken:   "file",
			wantProject: "FILE",
		},
		{
			name:        "env overrides file",
			env:         map[string]string{EnvAPIToken: "env", EnvProjectCode: "ENV"},
			wantToken:   "env",
			wantProject: "ENV",
		},
		{
			name:        "flags override env",
			env:         map[string]string{EnvAPIToken: "env"},
			flags:       Flags{Token: "flag", Project: "FLAG"},
			wantToken:   "flag",
			wantProject: "FLAG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			flags := tt.flags
			flags.ConfigPath = path

			cfg, err := Load(flags)
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, cfg.APIToken)
			assert.Equal(t, tt.wantProject, cfg.ProjectCode)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "nope.json")

	_, err := Load(Flags{ConfigPath: missing})
	assert.Error(t, err, "an explicit config path must exist")

	chdir(t, t.TempDir())
	cfg, err := Load(Flags{Token: "tok"})
	require.NoError(t, err, "the default config file is optional")
	assert.Equal(t, "tok", cfg.APIToken)
}

func TestLoad_QuotedIDsAndLegacyKeys(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		wantDest     int64
		wantRefs     int64
		wantCSVName  string
		wantCSVID    int64
		wantCSVColum string
	}{
		{
			name:         "quoted ids",
			content:      `{"api_token": "t", "destination_field_id": "12", "jira_refs_field_id": " 4 ", "csv_field_id": "9"}`,
			wantDest:     12,
			wantRefs:     4,
			wantCSVName:  DefaultCSVFieldName,
			wantCSVID:    9,
			wantCSVColum: DefaultCSVFieldName,
		},
		{
			name:         "blank and null ids are unset",
			content:      `{"api_token": "t", "destination_field_id": "", "csv_field_id": null}`,
			wantCSVName:  DefaultCSVFieldName,
			wantCSVColum: DefaultCSVFieldName,
		},
		{
			name:         "csv_update aliases",
			content:      `{"api_token": "t", "csv_update_field": "Notes", "csv_update_field_id": "31"}`,
			wantCSVName:  "Notes",
			wantCSVID:    31,
			wantCSVColum: "Notes",
		},
		{
			name:         "main keys win over aliases",
			content:      `{"api_token": "t", "csv_field_name": "Main", "csv_update_field": "Notes", "csv_field_id": 5, "csv_update_field_id": 31}`,
			wantCSVName:  "Main",
			wantCSVID:    5,
			wantCSVColum: "Main",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := writeFile(t, "config.json", tt.content)

			cfg, err := Load(Flags{ConfigPath: path})
			require.NoError(t, err)
			assert.Equal(t, tt.wantDest, cfg.DestinationFieldID)
			assert.Equal(t, tt.wantRefs, cfg.JiraRefsFieldID)
			assert.Equal(t, tt.wantCSVName, cfg.CSVFieldName)
			assert.Equal(t, tt.wantCSVID, cfg.CSVFieldID)
			assert.Equal(t, tt.wantCSVColum, cfg.CSVColumn)
		})
	}
}

func TestLoad_NonNumericID(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.json", `{"api_token": "t", "destination_field_id": "twelve"}`)

	_, err := Load(Flags{ConfigPath: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field id must be a number")
}

func TestLoad_InvalidFile(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.json", `{"workers": "many"`)

	_, err := Load(Flags{ConfigPath: path})
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(c *Config)
		requireProject bool
		wantErr        string
	}{
		{
			name:   "valid without project",
			mutate: func(c *Config) { c.APIToken = "tok" },
		},
		{
			name:    "missing token",
			mutate:  func(c *Config) {},
			wantErr: "api_token",
		},
		{
			name:           "missing project",
			mutate:         func(c *Config) { c.APIToken = "tok" },
			requireProject: true,
			wantErr:        "project_code",
		},
		{
			name: "unknown issue type",
			mutate: func(c *Config) {
				c.APIToken = "tok"
				c.Tests.ExternalIssues.Type = "jira"
			},
			wantErr: "tests.external_issues.type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate(tt.requireProject)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
