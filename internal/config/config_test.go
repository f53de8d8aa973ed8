package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "smarthealth", cfg.Database.Database)
	assert.Equal(t, EventsNone, cfg.Events.Backend)
	assert.Equal(t, "smarthealth:userdata:events", cfg.Events.Stream)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("STORE_KEY_PREFIX", "tenant-a:")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("EVENTS_BACKEND", "mqtt")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "tenant-a:", cfg.Store.KeyPrefix)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, EventsMQTT, cfg.Events.Backend)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_YAMLFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  backend: sqlite
  key_prefix: "yaml:"
sqlite:
  path: /tmp/health.db
log:
  level: warn
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "yaml:", cfg.Store.KeyPrefix)
	assert.Equal(t, "/tmp/health.db", cfg.SQLite.Path)
	assert.Equal(t, "error", cfg.Log.Level)
	// YAML 未覆盖的字段保持默认值
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("SQLITE_PATH=/data/from-dotenv.db\n"), 0o600))
	t.Setenv("ENV_FILE", envPath)
	t.Cleanup(func() { os.Unsetenv("SQLITE_PATH") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/from-dotenv.db", cfg.SQLite.Path)
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("STORE_BACKEND", "localstorage")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_BACKEND")
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable", c.GetDSN())
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")
	assert.Equal(t, "test-value", getEnv("TEST_VAR", "default"))
	assert.Equal(t, "default-value", getEnv("NON_EXISTENT_VAR", "default-value"))
}
