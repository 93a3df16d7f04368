/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

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
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("EVENTMANAGER_CONFIG", "")
	cfg, err := Load(writeFile(t, "empty.yaml", ""), noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "eventmanager.yaml", `
storage:
  driver: SQLite
log:
  level: debug
  development: true
metrics:
  enabled: true
`)
	cfg, err := Load(path, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "eventmanager.db", cfg.Storage.DSN)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeFile(t, "eventmanager.yaml", `
storage:
  driver: sqlite
  dsn: file.db
`)
	envFile := writeFile(t, ".env", "AWS_DDB_TABLE=from-dotenv\nAWS_REGION=eu-central-1\nEVENTMANAGER_STORAGE_DSN=dotenv.db\n")

	for _, k := range []string{"AWS_REGION", "AWS_DDB_TABLE", "EVENTMANAGER_AWS_REGION", "EVENTMANAGER_STORAGE_TABLE"} {
		t.Setenv(k, "")
	}
	t.Setenv("EVENTMANAGER_STORAGE_DRIVER", "dynamodb")
	t.Setenv("EVENTMANAGER_STORAGE_DSN", "process.db")
	t.Setenv("EVENTMANAGER_METRICS_ENABLED", "true")

	cfg, err := Load(path, envFile)
	require.NoError(t, err)
	assert.Equal(t, DriverDynamoDB, cfg.Storage.Driver)
	assert.Equal(t, "process.db", cfg.Storage.DSN)
	assert.Equal(t, "from-dotenv", cfg.Storage.Table)
	assert.Equal(t, "eu-central-1", cfg.AWS.Region)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), noEnvFile(t))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", "storage: [\n"), noEnvFile(t))
		assert.Error(t, err)
	})

	t.Run("bad boolean", func(t *testing.T) {
		t.Setenv("EVENTMANAGER_METRICS_ENABLED", "perhaps")
		_, err := Load(writeFile(t, "ok.yaml", ""), noEnvFile(t))
		assert.ErrorContains(t, err, "EVENTMANAGER_METRICS_ENABLED")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Storage: StorageConfig{Driver: DriverMemory}}, false},
		{"postgres without dsn", Config{Storage: StorageConfig{Driver: DriverPostgres}}, true},
		{"postgres", Config{Storage: StorageConfig{Driver: DriverPostgres, DSN: "postgres://localhost/events"}}, false},
		{"dynamodb without table", Config{Storage: StorageConfig{Driver: DriverDynamoDB}, AWS: AWSConfig{Region: "eu-west-1"}}, true},
		{"dynamodb without region", Config{Storage: StorageConfig{Driver: DriverDynamoDB, Table: "events"}}, true},
		{"dynamodb", Config{Storage: StorageConfig{Driver: DriverDynamoDB, Table: "events"}, AWS: AWSConfig{Region: "eu-west-1"}}, false},
		{"unknown", Config{Storage: StorageConfig{Driver: "redis"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
