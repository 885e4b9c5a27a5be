package alumnietl

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/xerrors"
)

// Environment variable names. The first five are required; a run refuses
// to start without them.
const (
	EnvSourceBaseID    = "SOURCE_BASE_ID"
	EnvSourceTableName = "SOURCE_TABLE_NAME"
	EnvSourceAPIKey    = "SOURCE_API_KEY"
	EnvProjectID       = "WAREHOUSE_PROJECT_ID"
	EnvDatasetID       = "WAREHOUSE_DATASET_ID"

	EnvArchiveBucket = "ARCHIVE_BUCKET"
	EnvSlackToken    = "SLACK_TOKEN"
	EnvSlackChannel  = "SLACK_CHANNEL"
	EnvLogLevel      = "LOG_LEVEL"
	EnvLogFormat     = "LOG_FORMAT"
)

var requiredEnv = []string{
	EnvSourceBaseID,
	EnvSourceTableName,
	EnvSourceAPIKey,
	EnvProjectID,
	EnvDatasetID,
}

// Config carries everything one pipeline run needs. Warehouse credentials
// are not part of it: the BigQuery client reads
// GOOGLE_APPLICATION_CREDENTIALS on its own.
type Config struct {
	SourceBaseID    string
	SourceTableName string
	SourceAPIKey    string

	WarehouseProjectID string
	WarehouseDatasetID string

	// ArchiveBucket enables the per-run audit archive when non-empty.
	ArchiveBucket string

	// SlackToken and SlackChannel enable completion notifications when
	// both are set.
	SlackToken   string
	SlackChannel string

	LogLevel  string
	LogFormat string
}

// LoadConfig reads configuration from the environment, loading a .env
// file first when one exists. It fails before any external service is
// contacted if a required value is missing, and the diagnostic names
// every required variable.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	var missing []string
	for _, name := range requiredEnv {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &Error{
			Kind: KindConfiguration,
			err: xerrors.Errorf("missing environment values %s (all of %s are required)",
				strings.Join(missing, ", "), strings.Join(requiredEnv, ", ")),
		}
	}

	return &Config{
		SourceBaseID:       os.Getenv(EnvSourceBaseID),
		SourceTableName:    os.Getenv(EnvSourceTableName),
		SourceAPIKey:       os.Getenv(EnvSourceAPIKey),
		WarehouseProjectID: os.Getenv(EnvProjectID),
		WarehouseDatasetID: os.Getenv(EnvDatasetID),
		ArchiveBucket:      os.Getenv(EnvArchiveBucket),
		SlackToken:         os.Getenv(EnvSlackToken),
		SlackChannel:       os.Getenv(EnvSlackChannel),
		LogLevel:           getEnv(EnvLogLevel, "info"),
		LogFormat:          getEnv(EnvLogFormat, "json"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
