package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string

	DBDriver    string
	SQLitePath  string
	DatabaseURL string

	GeminiAPIKey    string
	GeminiModel     string
	GeminiBaseURL   string
	SemanticRPS     float64
	SemanticTimeout time.Duration
}

// Load reads the environment, after merging a .env file when one exists.
// Variables already set in the environment win over .env.
func Load() Config {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "32"))
	rps, _ := strconv.ParseFloat(getenv("SEMANTIC_RPS", "2"), 64)
	timeout, _ := strconv.Atoi(getenv("SEMANTIC_TIMEOUT_SEC", "20"))

	var origins []string
	for _, o := range strings.Split(getenv("ALLOW_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		MaxUploadMB:  mb,
		LogFile:      getenv("LOG_FILE", "logs/menu-upload-service.log"),

		DBDriver:    strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		SQLitePath:  getenv("SQLITE_PATH", "data/menu.db"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getenv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:   os.Getenv("GEMINI_BASE_URL"),
		SemanticRPS:     rps,
		SemanticTimeout: time.Duration(timeout) * time.Second,
	}
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for sqlite")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q (want sqlite or postgres)", c.DBDriver)
	}
	return nil
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// SemanticEnabled reports whether a Gemini key was configured.
func (c Config) SemanticEnabled() bool { return c.GeminiAPIKey != "" }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
