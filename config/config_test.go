package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:5001", cfg.LNbits.BaseURL)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"food", "medicine"}, cfg.Policy.AllowedCategories)
	assert.Equal(t, int64(10000), cfg.Policy.DefaultDailyLimit)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Empty(t, cfg.AES.Key)
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
storage:
  driver: postgres
policy:
  allowed_categories: ["food"]
  default_daily_limit: 5000
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, []string{"food"}, cfg.Policy.AllowedCategories)
	assert.Equal(t, int64(5000), cfg.Policy.DefaultDailyLimit)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SUBSIDY_LNBITS_ADMIN_KEY", "env-admin-key")
	t.Setenv("SUBSIDY_SERVER_PORT", "9999")

	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, "env-admin-key", cfg.LNbits.AdminKey)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoad_RejectsUnknownStorageDriver(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: cassandra
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p",
		DBName: "subsidy_ledger", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://u:p@db:5432/subsidy_ledger?sslmode=disable", d.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6379}
	assert.Equal(t, "cache:6379", r.Addr())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
