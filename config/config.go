package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	LeaderboardURL string
	ChromeBin      string

	WaitTimeout       time.Duration
	PaginationTimeout time.Duration
	NavigateTimeout   time.Duration
	PageLoadDelay     time.Duration
	SettlePoll        time.Duration
	InteractionSettle time.Duration
	SettleChecks      int
	MaxRetries        int

	CSVOutputPath string
	Debug         bool

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		LeaderboardURL: getEnv("LEADERBOARD_URL", ""),
		ChromeBin:      getEnv("CHROME_BIN", ""),

		WaitTimeout:       getEnvDuration("WAIT_TIMEOUT_MS", 20000),
		PaginationTimeout: getEnvDuration("PAGINATION_TIMEOUT_MS", 10000),
		NavigateTimeout:   getEnvDuration("NAVIGATE_TIMEOUT_MS", 60000),
		PageLoadDelay:     getEnvDuration("PAGE_LOAD_MS", 3000),
		SettlePoll:        getEnvDuration("SETTLE_POLL_MS", 500),
		InteractionSettle: getEnvDuration("INTERACTION_SETTLE_MS", 1000),
		SettleChecks:      getEnvInt("SETTLE_CHECKS", 8),
		MaxRetries:        getEnvInt("MAX_RETRIES", 3),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "points_leaderboard.csv"),
		Debug:         getEnvBool("DEBUG", false),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "leaderboard_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallbackMs int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackMs)) * time.Millisecond
}
