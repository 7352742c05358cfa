package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr    string
	StoreDriver string // memory, sqlite or mysql
	SQLitePath  string
	MySQLDSN    string
	RedisAddr   string // empty disables the cache
	SnapshotTTL time.Duration
}

// Load reads configuration from a .env file (when present) and
// environment variables.
func Load() (*Config, error) {
	loadEnv(".env")

	cfg := &Config{
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		StoreDriver: getEnv("STORE_DRIVER", "memory"),
		SQLitePath:  getEnv("SQLITE_PATH", "shopbook.db"),
		MySQLDSN:    getEnv("MYSQL_DSN", ""),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
	}

	ttl, err := time.ParseDuration(getEnv("SNAPSHOT_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_TTL: %v", err)
	}
	cfg.SnapshotTTL = ttl

	switch cfg.StoreDriver {
	case "memory", "sqlite":
	case "mysql":
		if cfg.MySQLDSN == "" {
			dsn, err := buildDSN()
			if err != nil {
				return nil, err
			}
			cfg.MySQLDSN = dsn
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

// buildDSN assembles the MySQL connection string from discrete DB_*
// variables when MYSQL_DSN is not set.
func buildDSN() (string, error) {
	user := getEnv("DB_USER", "")
	password := getEnv("DB_PASSWORD", "")
	name := getEnv("DB_NAME", "")
	if user == "" || name == "" {
		return "", fmt.Errorf("missing required database configuration. Please set MYSQL_DSN or DB_USER/DB_NAME")
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		user, password, getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "3306"), name), nil
}

// loadEnv loads environment variables from a file. A missing file is
// not an error.
func loadEnv(filename string) {
	file, err := os.Open(filename)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if (strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"")) ||
			(strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'")) {
			value = value[1 : len(value)-1]
		}

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

// getEnv gets an environment variable with fallback.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
