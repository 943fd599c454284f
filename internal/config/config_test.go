package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Load reads a .env from the working directory; keep tests hermetic.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ENV", "development")
	t.Setenv("CONFIG_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 5, cfg.Chat.RecentQueries)
	assert.Equal(t, 10, cfg.Chat.RecentMessages)
	assert.Equal(t, 10, cfg.Chat.MinSchemaSQLLength)
	assert.Equal(t, 5, cfg.Chat.MinQuerySQLLength)
	assert.Equal(t, 50, cfg.Chat.TitleMaxLength)
	assert.Equal(t, 100, cfg.Sandbox.MaxRows)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "sqlchat.yaml")
	yml := `
server_port: "9090"
ai:
  provider: openai
  model: gpt-4o-mini
  timeout: 30s
chat:
  recent_queries: 3
  recent_messages: 20
sandbox:
  max_rows: 25
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))
	t.Setenv("ENV", "development")
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("CHAT_RECENT_MESSAGES", "7")
	t.Setenv("AI_MAX_CONCURRENCY", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.EqualValues(t, 2, cfg.AI.MaxConcurrency)
	assert.Equal(t, 3, cfg.Chat.RecentQueries)
	assert.Equal(t, 7, cfg.Chat.RecentMessages)
	assert.Equal(t, 25, cfg.Sandbox.MaxRows)
	assert.Equal(t, 5, cfg.Chat.MinQuerySQLLength)
}

func TestLoadBadFile(t *testing.T) {
	dir := chdirTemp(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chat: [unclosed"), 0o600))
	t.Setenv("ENV", "development")
	t.Setenv("CONFIG_FILE", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestProductionRequiresSecrets(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ENV", "production")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("AI_API_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
	assert.Contains(t, err.Error(), "AI_API_KEY")
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := Defaults()
	cfg.Database.Driver = "oracle"
	assert.Error(t, cfg.Validate())
}

func TestEnvParsingFallsBack(t *testing.T) {
	t.Setenv("X_INT", "abc")
	t.Setenv("X_DUR", "soon")
	t.Setenv("X_BOOL", "true")
	assert.Equal(t, 4, getEnvAsInt("X_INT", 4))
	assert.Equal(t, time.Second, getEnvAsDuration("X_DUR", time.Second))
	assert.True(t, getEnvAsBool("X_BOOL", false))
}
