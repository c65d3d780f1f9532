// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
database:
  postgres:
    host: localhost
    database: vehicles
oracle:
  base_url: http://oracle.local
`

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfigFile(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "vehicle-recommender", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "postgres", cfg.Database.InventorySource)
	assert.Equal(t, "vehicles", cfg.Database.Elasticsearch.Index)
	assert.Equal(t, 50, cfg.Pipeline.RetrievalLimit)
	assert.Equal(t, 20, cfg.Pipeline.RerankTopK)
	assert.Equal(t, 5, cfg.Pipeline.BatchSize)
	assert.Equal(t, 15, cfg.Pipeline.OutputSize)
	assert.Equal(t, 2, cfg.Oracle.MaxRetries)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_ExplicitValuesWin(t *testing.T) {
	cfg, err := LoadFromFile(writeConfigFile(t, `
database:
  inventory_source: elasticsearch
  postgres:
    host: db.internal
    database: vehicles
oracle:
  base_url: http://oracle.local
  max_retries: 5
pipeline:
  batch_size: 8
  output_size: 10
`))
	require.NoError(t, err)

	assert.Equal(t, "elasticsearch", cfg.Database.InventorySource)
	assert.Equal(t, 5, cfg.Oracle.MaxRetries)
	assert.Equal(t, 8, cfg.Pipeline.BatchSize)
	assert.Equal(t, 10, cfg.Pipeline.OutputSize)
}

func TestLoadFromFile_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing postgres host",
			content: `
oracle:
  base_url: http://oracle.local
`,
			wantErr: "database.postgres.host",
		},
		{
			name: "missing oracle base url",
			content: `
database:
  postgres:
    host: localhost
    database: vehicles
`,
			wantErr: "oracle.base_url",
		},
		{
			name: "bad inventory source",
			content: `
database:
  inventory_source: mongodb
  postgres:
    host: localhost
    database: vehicles
oracle:
  base_url: http://oracle.local
`,
			wantErr: "inventory_source",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfigFile(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host: "db.internal", Port: 5432, Database: "vehicles",
		User: "app", Password: "secret", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=db.internal port=5432 user=app password=secret dbname=vehicles sslmode=disable",
		cfg.GetDSN())
}
