package config

const (
	// DefaultConfigPath is the config file read when --config is not given
	DefaultConfigPath = "config.json"
	// DefaultBaseURL is the Qase API root
	DefaultBaseURL = "https://api.qase.io/v1"
	// DefaultWorkers is the number of parallel deletion workers
	DefaultWorkers = 10
	// DefaultBatchSize is the number of cases per external issue request
	DefaultBatchSize = 50
	// DefaultPageLimit is the page size for listing endpoints
	DefaultPageLimit = 100
	// DefaultExtension is the file extension fixed by fix-refs
	DefaultExtension = "csv"
	// DefaultCSVFieldName is the custom field written by update-from-csv
	DefaultCSVFieldName = "Postconditions"
	// DefaultExternalIssueType is the JIRA flavour used for linking
	DefaultExternalIssueType = "jira-cloud"
)

// Environment variables read after the config file
const (
	EnvAPIToken    = "QASE_API_TOKEN"
	EnvProjectCode = "QASE_PROJECT_CODE"
	EnvBaseURL     = "QASE_BASE_URL"
)

// ExternalIssueTypes are the accepted values for tests.external_issues.type
var ExternalIssueTypes = []string{
	"jira-cloud",
	"jira-server",
}
