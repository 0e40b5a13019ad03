package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Driver)
	assert.Equal(t, 3306, cfg.Port)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLife)
	assert.Equal(t, 64, cfg.AsyncWorkers)
	assert.False(t, cfg.Debug)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, "sqlquery.yaml", `
driver: pgx
host: db.internal
port: 5433
database: shop
username: app
conn_max_life: 90s
naming: snake
async_workers: 8
`)

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "pgx", cfg.Driver)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 5433, cfg.Port)
	assert.Equal(t, 90*time.Second, cfg.ConnMaxLife)
	assert.Equal(t, "snake", cfg.Naming)
	assert.Equal(t, 8, cfg.AsyncWorkers)
	assert.Equal(t, "utf8mb4", cfg.Charset)
	assert.Equal(t, "postgres://app:@db.internal:5433/shop?sslmode=disable", cfg.DSN())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "sqlquery.json", `{"driver": "sqlite3", "database": "app.db", "port": 1}`)
	t.Setenv("SQLQUERY_PORT", "6000")
	t.Setenv("SQLQUERY_DEBUG", "true")
	t.Setenv("SQLQUERY_MAX_OPEN_CONNS", "3")

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Driver)
	assert.Equal(t, 6000, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 3, cfg.MaxOpenConns)
}

func TestLoad_CustomPrefix(t *testing.T) {
	t.Setenv("BILLING_DIALECT", "sqlserver")
	t.Setenv("SQLQUERY_DIALECT", "postgres")

	cfg, err := Load("", "billing_")
	require.NoError(t, err)
	assert.Equal(t, "sqlserver", cfg.Dialect)
	assert.Equal(t, "sqlserver", cfg.DialectName())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	l := NewLogger(&buf, "warn", "json")
	l.Info("hidden")
	l.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	NewLogger(&buf, "DEBUG", "text").Debug("details")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "msg=details")
}
