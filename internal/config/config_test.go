package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestLoadConfig_FileAndDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
server:
  address: ":9090"
jwt:
  secret: "file-secret"
  expiration: "30m"
catalog:
  page_size: 25
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, 25, cfg.Catalog.PageSize)
	assert.Equal(t, "https://wger.de/api/v2", cfg.Catalog.BaseURL)
	assert.Equal(t, 7, cfg.Catalog.Language)
	assert.Equal(t, time.Hour, cfg.Catalog.CategoryTTL)
	assert.Equal(t, "exercises", cfg.S3.BucketName)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "jwt:\n  secret: from-file\n")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("CATALOG_LANGUAGE", "2")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 2, cfg.Catalog.Language)
}

func TestLoadConfig_DotEnvWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "JWT_SECRET=dotenv-secret\nMONGO_NAME=dotenv_db\n")
	// godotenv sets process env; restore it when the test ends
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))
	t.Setenv("MONGO_NAME", "")
	require.NoError(t, os.Unsetenv("MONGO_NAME"))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-secret", cfg.JWT.Secret)
	assert.Equal(t, "dotenv_db", cfg.Mongo.Name)
}

func TestLoadConfig_MissingSecret(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret")
}

func TestLoadConfig_BadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "server: [unclosed")

	_, err := LoadConfig(dir)
	require.Error(t, err)
}
