package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type Config struct {
	Port string

	// DBDriver is "postgres" (default) or "sqlite3".
	DBDriver string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBPath is the SQLite database file, used only when DBDriver is "sqlite3".
	DBPath string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	// RequireName rejects POST /users bodies with an absent or empty name.
	// When false (default) the name is stored as given, NULL when absent.
	RequireName bool

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// CORSAllowedOrigins is a list of origins allowed for CORS. "*" allows any origin.
	// Set via CORS_ALLOWED_ORIGINS (comma-separated).
	CORSAllowedOrigins []string

	// ShutdownTimeoutSeconds bounds graceful shutdown (default 10).
	ShutdownTimeoutSeconds int
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "5000"),

		DBDriver: getEnv("DB_DRIVER", DriverPostgres),

		DBHost: getEnv("DB_HOST", "postgres"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "usersdb"),
		DBUser: getEnv("DB_USER", "user"),
		DBPass: getEnv("DB_PASS", "password"),

		DBPath: getEnv("DB_PATH", "users.db"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		RequireName: getEnvBool("REQUIRE_NAME", false),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		ShutdownTimeoutSeconds: getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10),
	}
}

// TLSEnabled reports whether both TLS files are configured.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
