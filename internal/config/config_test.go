package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	// when
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	// then
	require.NoError(t, err)
	assert.Equal(t, ":8181", cfg.Server.Addr)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "editor", cfg.Access.DefaultRole)
	assert.True(t, cfg.Demo.Enabled)
	assert.Equal(t, 2*time.Hour, cfg.Forms.SessionTTL)
}

func TestLoad_FileAndEnvironmentOverrideDefaults(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "application.yaml")
	yaml := []byte("db:\n  host: db.internal\n  port: 6543\naccess:\n  defaultrole: viewer\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o600))
	t.Setenv("WORKSLEDGER_DB_NAME", "ledger_test")

	// when
	cfg, err := Load(path)

	// then
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "ledger_test", cfg.Database.Name)
	assert.Equal(t, "viewer", cfg.Access.DefaultRole)
}

func TestLoad_InvalidYaml(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: [unterminated"), 0o600))

	// when
	_, err := Load(path)

	// then
	assert.Error(t, err)
}
