package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	App         AppConfig
	Logger      LoggerConfig
	Server      ServerConfig
	Database    DatabaseConfig
	Search      SearchConfig
	AI          AIConfig
	Translation TranslationConfig
	Export      ExportConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Environment string
	DataDir     string
	StaticDir   string
}

// LoggerConfig controls log output.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string
}

// SearchConfig toggles the full-text index.
type SearchConfig struct {
	Enabled bool
}

// AIConfig configures the chat-completions client used for tagging and suggestions.
type AIConfig struct {
	Token             string
	Endpoint          string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
	SuggestionsTTL    time.Duration
}

// Enabled reports whether a token is available for remote calls.
func (c AIConfig) Enabled() bool {
	return c.Token != ""
}

// TranslationConfig configures the English to Chinese translator.
type TranslationConfig struct {
	Endpoint string
	Model    string
}

// ExportConfig holds export pipeline switches.
type ExportConfig struct {
	DocxEnabled        bool
	FailOnEmptyArchive bool
	PDFFontPath        string
}

// Default values.
const (
	DefaultPort                = "5001"
	DefaultAIEndpoint          = "https://models.inference.ai.azure.com"
	DefaultAIModel             = "gpt-4o-mini"
	DefaultTranslationEndpoint = "https://models.github.ai/inference/chat/completions"
	DefaultTranslationModel    = "openai/gpt-4o-mini"
	DefaultRequestsPerMinute   = 30
)

var (
	validEnvironments = map[string]bool{"development": true, "staging": true, "production": true}
	validLogLevels    = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
)

// fileValues holds values read from the optional TOML file, keyed by env var name.
type fileValues map[string]string

// fileConfig mirrors the TOML layout. Durations are strings in time.ParseDuration form.
type fileConfig struct {
	App struct {
		Env       string `toml:"env"`
		DataDir   string `toml:"data_dir"`
		StaticDir string `toml:"static_dir"`
	} `toml:"app"`
	Logger struct {
		Level string `toml:"level"`
	} `toml:"logger"`
	Server struct {
		Port         string   `toml:"port"`
		ReadTimeout  string   `toml:"read_timeout"`
		WriteTimeout string   `toml:"write_timeout"`
		IdleTimeout  string   `toml:"idle_timeout"`
		CORSOrigins  []string `toml:"cors_origins"`
	} `toml:"server"`
	Database struct {
		Path string `toml:"path"`
	} `toml:"database"`
	Search struct {
		Enabled *bool `toml:"enabled"`
	} `toml:"search"`
	AI struct {
		Endpoint          string `toml:"endpoint"`
		Model             string `toml:"model"`
		Timeout           string `toml:"timeout"`
		RequestsPerMinute int    `toml:"requests_per_minute"`
		SuggestionsTTL    string `toml:"suggestions_ttl"`
	} `toml:"ai"`
	Translation struct {
		Endpoint string `toml:"endpoint"`
		Model    string `toml:"model"`
	} `toml:"translation"`
	Export struct {
		DocxEnabled        *bool  `toml:"docx_enabled"`
		FailOnEmptyArchive *bool  `toml:"fail_on_empty_archive"`
		PDFFontPath        string `toml:"pdf_font_path"`
	} `toml:"export"`
}

// LoadConfig loads configuration from command-line flags.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load resolves configuration with precedence flag > env > .env file > TOML file > default.
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("notetaker", flag.ContinueOnError)

	envFile := fs.String("env-file", ".env", "Path to .env file")
	configFile := fs.String("config", "", "Path to TOML config file")
	env := fs.String("env", "", "Environment (development, staging, production)")
	dataDir := fs.String("data-dir", "", "Directory for application data")
	staticDir := fs.String("static-dir", "", "Directory with the built frontend")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	port := fs.String("port", "", "HTTP listen port")
	dbPath := fs.String("database-path", "", "SQLite database file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// A missing .env file is fine.
	if err := loadEnvFile(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	tomlPath := getConfigValue(*configFile, "CONFIG_FILE", "")
	fv, err := loadTOMLFile(tomlPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	defaultDataDir := filepath.Join(homeDir, ".notetaker")

	cfg := &Config{
		App: AppConfig{
			Environment: fv.get(*env, "ENV", "development"),
			DataDir:     expandPath(fv.get(*dataDir, "DATA_DIR", defaultDataDir), homeDir),
			StaticDir:   fv.get(*staticDir, "STATIC_DIR", ""),
		},
		Logger: LoggerConfig{
			Level: strings.ToLower(fv.get(*logLevel, "LOG_LEVEL", "info")),
		},
		Translation: TranslationConfig{
			Endpoint: fv.get("", "TRANSLATION_ENDPOINT", DefaultTranslationEndpoint),
			Model:    fv.get("", "TRANSLATION_MODEL", DefaultTranslationModel),
		},
	}

	if cfg.App.StaticDir != "" {
		cfg.App.StaticDir = expandPath(cfg.App.StaticDir, homeDir)
	}

	cfg.Server = ServerConfig{Port: fv.get(*port, "PORT", DefaultPort)}
	if cfg.Server.ReadTimeout, err = fv.duration("READ_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	// Exports of large collections can take a while to render.
	if cfg.Server.WriteTimeout, err = fv.duration("WRITE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.Server.IdleTimeout, err = fv.duration("IDLE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	cfg.Server.CORSOrigins = splitList(fv.get("", "CORS_ORIGINS", "*"))

	cfg.Database.Path = expandPath(
		fv.get(*dbPath, "DATABASE_PATH", filepath.Join(cfg.App.DataDir, "notetaker.db")), homeDir)

	cfg.Search.Enabled = fv.boolean("SEARCH_ENABLED", true)

	cfg.AI = AIConfig{
		Token:             fv.get("", "GITHUB_TOKEN", getConfigValue("", "OPENAI_API_KEY", "")),
		Endpoint:          strings.TrimRight(fv.get("", "AI_ENDPOINT", DefaultAIEndpoint), "/"),
		Model:             fv.get("", "AI_MODEL", DefaultAIModel),
		RequestsPerMinute: fv.integer("AI_REQUESTS_PER_MINUTE", DefaultRequestsPerMinute),
	}
	if cfg.AI.Timeout, err = fv.duration("AI_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.AI.SuggestionsTTL, err = fv.duration("AI_SUGGESTIONS_TTL", time.Hour); err != nil {
		return nil, err
	}

	cfg.Export = ExportConfig{
		DocxEnabled:        fv.boolean("EXPORT_DOCX_ENABLED", true),
		FailOnEmptyArchive: fv.boolean("EXPORT_FAIL_ON_EMPTY_ARCHIVE", false),
		PDFFontPath:        fv.get("", "PDF_FONT_PATH", ""),
	}
	if cfg.Export.PDFFontPath != "" {
		cfg.Export.PDFFontPath = expandPath(cfg.Export.PDFFontPath, homeDir)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !validEnvironments[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if n, err := strconv.Atoi(c.Server.Port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("invalid port: %s", c.Server.Port)
	}

	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.AI.RequestsPerMinute <= 0 {
		return fmt.Errorf("invalid AI request rate: %d (must be positive)", c.AI.RequestsPerMinute)
	}

	if _, err := url.ParseRequestURI(c.AI.Endpoint); err != nil {
		return fmt.Errorf("invalid AI endpoint %q: %w", c.AI.Endpoint, err)
	}

	if c.Export.PDFFontPath != "" {
		info, err := os.Stat(c.Export.PDFFontPath)
		if err != nil {
			return fmt.Errorf("pdf font: %w", err)
		}
		if info.IsDir() {
			return fmt.Errorf("pdf font path is a directory: %s", c.Export.PDFFontPath)
		}
	}

	return nil
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// expandPath resolves ~ and makes relative paths absolute.
func expandPath(path, homeDir string) string {
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	if filepath.IsAbs(path) {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getConfigValue returns the flag value, then the env var, then the default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// get is getConfigValue with the TOML layer slotted in below the environment.
func (fv fileValues) get(flagValue, envKey, defaultValue string) string {
	if v, ok := fv[envKey]; ok && v != "" {
		defaultValue = v
	}
	return getConfigValue(flagValue, envKey, defaultValue)
}

func (fv fileValues) boolean(envKey string, defaultValue bool) bool {
	v := fv.get("", envKey, "")
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

func (fv fileValues) integer(envKey string, defaultValue int) int {
	v := fv.get("", envKey, "")
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

func (fv fileValues) duration(envKey string, defaultValue time.Duration) (time.Duration, error) {
	v := fv.get("", envKey, "")
	if v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, v, err)
	}
	return d, nil
}

// loadTOMLFile decodes the optional TOML config and flattens it onto env var names.
func loadTOMLFile(path string) (fileValues, error) {
	fv := fileValues{}
	if path == "" {
		return fv, nil
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return nil, fmt.Errorf("load config file %s: %w", path, err)
	}

	fv["ENV"] = fc.App.Env
	fv["DATA_DIR"] = fc.App.DataDir
	fv["STATIC_DIR"] = fc.App.StaticDir
	fv["LOG_LEVEL"] = fc.Logger.Level
	fv["PORT"] = fc.Server.Port
	fv["READ_TIMEOUT"] = fc.Server.ReadTimeout
	fv["WRITE_TIMEOUT"] = fc.Server.WriteTimeout
	fv["IDLE_TIMEOUT"] = fc.Server.IdleTimeout
	fv["CORS_ORIGINS"] = strings.Join(fc.Server.CORSOrigins, ",")
	fv["DATABASE_PATH"] = fc.Database.Path
	fv["SEARCH_ENABLED"] = optBool(fc.Search.Enabled)
	fv["AI_ENDPOINT"] = fc.AI.Endpoint
	fv["AI_MODEL"] = fc.AI.Model
	fv["AI_TIMEOUT"] = fc.AI.Timeout
	fv["AI_SUGGESTIONS_TTL"] = fc.AI.SuggestionsTTL
	if fc.AI.RequestsPerMinute != 0 {
		fv["AI_REQUESTS_PER_MINUTE"] = strconv.Itoa(fc.AI.RequestsPerMinute)
	}
	fv["TRANSLATION_ENDPOINT"] = fc.Translation.Endpoint
	fv["TRANSLATION_MODEL"] = fc.Translation.Model
	fv["EXPORT_DOCX_ENABLED"] = optBool(fc.Export.DocxEnabled)
	fv["EXPORT_FAIL_ON_EMPTY_ARCHIVE"] = optBool(fc.Export.FailOnEmptyArchive)
	fv["PDF_FONT_PATH"] = fc.Export.PDFFontPath

	return fv, nil
}

func optBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

// loadEnvFile loads KEY=value lines into the environment without overriding existing vars.
func loadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close() //nolint:errcheck // Read-only file

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("set env %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
