package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		App:      AppConfig{Environment: "development", DataDir: t.TempDir()},
		Logger:   LoggerConfig{Level: "info"},
		Server:   ServerConfig{Port: DefaultPort},
		Database: DatabaseConfig{Path: filepath.Join(t.TempDir(), "notetaker.db")},
		AI: AIConfig{
			Endpoint:          DefaultAIEndpoint,
			RequestsPerMinute: DefaultRequestsPerMinute,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig(t).Validate())
}

func TestValidate_InvalidEnvironment(t *testing.T) {
	cfg := validConfig(t)
	cfg.App.Environment = "qa"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid environment")
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig(t)
	cfg.Logger.Level = "verbose"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestValidate_InvalidPort(t *testing.T) {
	for _, port := range []string{"", "abc", "0", "70000"} {
		cfg := validConfig(t)
		cfg.Server.Port = port
		assert.Error(t, cfg.Validate(), "port %q", port)
	}
}

func TestValidate_NonPositiveRate(t *testing.T) {
	cfg := validConfig(t)
	cfg.AI.RequestsPerMinute = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}

func TestValidate_MissingFontFile(t *testing.T) {
	cfg := validConfig(t)
	cfg.Export.PDFFontPath = filepath.Join(t.TempDir(), "missing.ttf")

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdf font")
}

func TestValidate_FontPathIsDirectory(t *testing.T) {
	cfg := validConfig(t)
	cfg.Export.PDFFontPath = t.TempDir()

	assert.Error(t, cfg.Validate())
}

func TestValidate_ExistingFontFile(t *testing.T) {
	font := filepath.Join(t.TempDir(), "font.ttf")
	require.NoError(t, os.WriteFile(font, []byte("x"), 0o644))

	cfg := validConfig(t)
	cfg.Export.PDFFontPath = font

	assert.NoError(t, cfg.Validate())
}

func TestExpandPath(t *testing.T) {
	home := "/home/alice"

	assert.Equal(t, home, expandPath("~", home))
	assert.Equal(t, "/home/alice/notes", expandPath("~/notes", home))
	assert.Equal(t, "/var/lib/notetaker", expandPath("/var/lib/notetaker", home))

	rel := expandPath("data", home)
	assert.True(t, filepath.IsAbs(rel))
	assert.Equal(t, "data", filepath.Base(rel))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	// Flag value takes priority.
	assert.Equal(t, "flag-value", getConfigValue("flag-value", "TEST_ENV_KEY", "default-value"))

	t.Setenv("TEST_ENV_KEY", "env-value")
	assert.Equal(t, "env-value", getConfigValue("", "TEST_ENV_KEY", "default-value"))

	assert.Equal(t, "default-value", getConfigValue("", "NONEXISTENT_KEY", "default-value"))
}

func TestFileValues_SitBelowEnvironment(t *testing.T) {
	fv := fileValues{"TEST_LAYER_KEY": "file-value"}

	assert.Equal(t, "file-value", fv.get("", "TEST_LAYER_KEY", "default"))

	t.Setenv("TEST_LAYER_KEY", "env-value")
	assert.Equal(t, "env-value", fv.get("", "TEST_LAYER_KEY", "default"))
	assert.Equal(t, "flag-value", fv.get("flag-value", "TEST_LAYER_KEY", "default"))
}

func TestFileValues_TypedGetters(t *testing.T) {
	fv := fileValues{
		"B_KEY": "false",
		"I_KEY": "12",
		"D_KEY": "90s",
		"X_KEY": "garbage",
	}

	assert.False(t, fv.boolean("B_KEY", true))
	assert.True(t, fv.boolean("X_KEY", true))
	assert.True(t, fv.boolean("MISSING_KEY", true))

	assert.Equal(t, 12, fv.integer("I_KEY", 1))
	assert.Equal(t, 1, fv.integer("X_KEY", 1))

	d, err := fv.duration("D_KEY", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	_, err = fv.duration("X_KEY", time.Second)
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)

	cfg, err := Load([]string{"--env-file", filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, filepath.Join(dir, "notetaker.db"), cfg.Database.Path)
	assert.Equal(t, time.Hour, cfg.AI.SuggestionsTTL)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout)
	assert.Equal(t, DefaultTranslationModel, cfg.Translation.Model)
	assert.True(t, cfg.Export.DocxEnabled)
	assert.False(t, cfg.Export.FailOnEmptyArchive)
	assert.True(t, cfg.Search.Enabled)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
}

func TestLoad_TokenFallsBackToOpenAIKey(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load([]string{"--env-file", filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.AI.Token)
	assert.True(t, cfg.AI.Enabled())
}

func TestLoad_TOMLFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("PORT", "")

	path := filepath.Join(dir, "notetaker.toml")
	content := `
[server]
port = "8080"
cors_origins = ["http://localhost:3000", "http://example.com"]

[ai]
model = "custom-model"
suggestions_ttl = "30m"

[export]
docx_enabled = false
fail_on_empty_archive = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load([]string{"--env-file", filepath.Join(dir, "missing.env"), "--config", path})
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "http://example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "custom-model", cfg.AI.Model)
	assert.Equal(t, 30*time.Minute, cfg.AI.SuggestionsTTL)
	assert.False(t, cfg.Export.DocxEnabled)
	assert.True(t, cfg.Export.FailOnEmptyArchive)
}

func TestLoad_FlagBeatsTOMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("PORT", "7000")

	path := filepath.Join(dir, "notetaker.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nport = \"8080\"\n"), 0o644))

	cfg, err := Load([]string{"--env-file", filepath.Join(dir, "missing.env"), "--config", path, "--port", "9000"})
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Port)
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport ="), 0o644))

	_, err := Load([]string{"--env-file", filepath.Join(dir, "missing.env"), "--config", path})
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_DIR", dir)
	t.Setenv("AI_TIMEOUT", "soon")

	_, err := Load([]string{"--env-file", filepath.Join(dir, "missing.env")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AI_TIMEOUT")
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")

	content := `# Test env file
NT_ENV=staging
NT_LOG_LEVEL=debug
# Comment line
NT_QUOTED="some value"
NT_SINGLE='another value'
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	for _, k := range []string{"NT_ENV", "NT_LOG_LEVEL", "NT_QUOTED", "NT_SINGLE"} {
		t.Setenv(k, "")
	}

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "staging", os.Getenv("NT_ENV"))
	assert.Equal(t, "debug", os.Getenv("NT_LOG_LEVEL"))
	assert.Equal(t, "some value", os.Getenv("NT_QUOTED"))
	assert.Equal(t, "another value", os.Getenv("NT_SINGLE"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")

	content := `VALID_KEY=valid_value
INVALID LINE WITHOUT EQUALS
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o644))

	err := loadEnvFile(envFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	err := loadEnvFile("/nonexistent/file/.env")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	t.Setenv("NT_TEST_VAR", "original-value")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(`NT_TEST_VAR=new-value`), 0o644))

	require.NoError(t, loadEnvFile(envFile))
	assert.Equal(t, "original-value", os.Getenv("NT_TEST_VAR"))
}

func TestLoadEnvFile_Whitespace(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(`  NT_SPACED  =  value with spaces  `), 0o644))

	t.Setenv("NT_SPACED", "")
	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "value with spaces", os.Getenv("NT_SPACED"))
}
