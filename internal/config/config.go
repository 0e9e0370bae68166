package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kapu/lw-directory-scraper/internal/constants"
	"github.com/kapu/lw-directory-scraper/pkg/errors"
)

type Config struct {
	Directory DirectoryConfig
	Browser   BrowserConfig
	Output    OutputConfig
	Run       RunConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logging   LoggingConfig
}

type DirectoryConfig struct {
	BaseURL       string
	StartPath     string
	Letters       []string
	Company       string
	ProfileMarker string
}

// StartURL is the directory root the crawl begins from.
func (d DirectoryConfig) StartURL() string {
	return strings.TrimRight(d.BaseURL, "/") + d.StartPath
}

type BrowserConfig struct {
	Headless    bool
	WindowSize  [2]int
	ExecPath    string
	UserAgent   string
	WaitTimeout time.Duration
}

type OutputConfig struct {
	JSONFile   string
	SQLFile    string
	Table      string
	ColumnSize int
}

type RunConfig struct {
	AbortOnTimeout         bool
	MaxConsecutiveFailures int
	PromptOnExit           bool
}

type PostgresConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

type LoggingConfig struct {
	Level string
	File  string
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Directory: DirectoryConfig{
			BaseURL:       getEnv("DIRECTORY_BASE_URL", "https://www.lw.com"),
			StartPath:     getEnv("DIRECTORY_START_PATH", "/GlobalDirectory"),
			Letters:       parseLetters(getEnv("DIRECTORY_LETTERS", "Q")),
			Company:       getEnv("DIRECTORY_COMPANY", constants.DefaultCompany),
			ProfileMarker: getEnv("DIRECTORY_PROFILE_MARKER", "people"),
		},
		Browser: BrowserConfig{
			Headless:    getEnvBool("BROWSER_HEADLESS", true),
			WindowSize:  parseWindowSize(getEnv("BROWSER_WINDOW_SIZE", "1920,1080")),
			ExecPath:    getEnv("BROWSER_EXEC_PATH", ""),
			UserAgent:   getEnv("BROWSER_USER_AGENT", ""),
			WaitTimeout: time.Duration(getEnvInt("BROWSER_WAIT_SECONDS", 5)) * time.Second,
		},
		Output: OutputConfig{
			JSONFile:   getEnv("OUTPUT_JSON_FILE", "LW_Lawyers.json"),
			SQLFile:    getEnv("OUTPUT_SQL_FILE", "LW_Lawyers.sql"),
			Table:      getEnv("OUTPUT_TABLE", "L_W_Directory"),
			ColumnSize: getEnvInt("OUTPUT_COLUMN_SIZE", 2000),
		},
		Run: RunConfig{
			AbortOnTimeout:         getEnvBool("RUN_ABORT_ON_TIMEOUT", false),
			MaxConsecutiveFailures: getEnvInt("RUN_MAX_CONSECUTIVE_FAILURES", 5),
			PromptOnExit:           getEnvBool("RUN_PROMPT_ON_EXIT", true),
		},
		Postgres: PostgresConfig{
			Enabled:  getEnvBool("POSTGRES_ENABLED", false),
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "lw_user"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "lw_directory"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      time.Duration(getEnvInt("REDIS_TTL_HOURS", 0)) * time.Hour,
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Directory.BaseURL == "" {
		return errors.NewValidationError("DIRECTORY_BASE_URL is required", "DIRECTORY_BASE_URL", c.Directory.BaseURL)
	}
	if len(c.Directory.Letters) == 0 {
		return errors.NewValidationError("DIRECTORY_LETTERS must name at least one letter", "DIRECTORY_LETTERS", c.Directory.Letters)
	}
	if c.Directory.ProfileMarker == "" {
		return errors.NewValidationError("DIRECTORY_PROFILE_MARKER is required", "DIRECTORY_PROFILE_MARKER", c.Directory.ProfileMarker)
	}
	if c.Browser.WaitTimeout <= 0 {
		return errors.NewValidationError("BROWSER_WAIT_SECONDS must be positive", "BROWSER_WAIT_SECONDS", c.Browser.WaitTimeout)
	}
	if !identifierPattern.MatchString(c.Output.Table) {
		return errors.NewValidationError(
			fmt.Sprintf("OUTPUT_TABLE %q is not a plain SQL identifier", c.Output.Table), "OUTPUT_TABLE", c.Output.Table)
	}
	if c.Output.ColumnSize <= 0 {
		return errors.NewValidationError("OUTPUT_COLUMN_SIZE must be positive", "OUTPUT_COLUMN_SIZE", c.Output.ColumnSize)
	}
	if c.Output.JSONFile == "" {
		return errors.NewValidationError("OUTPUT_JSON_FILE is required", "OUTPUT_JSON_FILE", c.Output.JSONFile)
	}
	if c.Output.SQLFile == "" {
		return errors.NewValidationError("OUTPUT_SQL_FILE is required", "OUTPUT_SQL_FILE", c.Output.SQLFile)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// parseLetters accepts a comma separated list ("A,B,Q") or ALL for A..Z.
func parseLetters(value string) []string {
	if strings.EqualFold(strings.TrimSpace(value), "all") {
		letters := make([]string, 0, 26)
		for r := 'A'; r <= 'Z'; r++ {
			letters = append(letters, string(r))
		}
		return letters
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.ToUpper(strings.TrimSpace(part)); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func parseWindowSize(value string) [2]int {
	size := [2]int{1920, 1080}
	parts := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == 'x' })
	if len(parts) != 2 {
		return size
	}
	for i, part := range parts {
		if n, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && n > 0 {
			size[i] = n
		}
	}
	return size
}
