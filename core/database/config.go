package database

import (
	"fmt"
	"strings"
)

const (
	// DriverPostgres selects lib/pq.
	DriverPostgres = "postgres"
	// DriverSQLite selects mattn/go-sqlite3.
	DriverSQLite = "sqlite3"
)

// Config holds database connection settings.
type Config struct {
	Driver         string `yaml:"driver" toml:"driver" envconfig:"DB_DRIVER"`
	Host           string `yaml:"host" toml:"host" envconfig:"DB_HOST"`
	Port           string `yaml:"port" toml:"port" envconfig:"DB_PORT"`
	User           string `yaml:"user" toml:"user" envconfig:"DB_USER"`
	Password       string `yaml:"password" toml:"password" envconfig:"DB_PASSWORD"`
	Name           string `yaml:"name" toml:"name" envconfig:"DB_NAME"`
	SSLMode        string `yaml:"sslmode" toml:"sslmode" envconfig:"DB_SSLMODE"`
	MaxConnections int    `yaml:"max_connections" toml:"max_connections" envconfig:"DB_MAX_CONNECTIONS"`
	// Path is the database file for sqlite3; ":memory:" is accepted.
	Path string `yaml:"path" toml:"path" envconfig:"DB_PATH"`
	// MigrationsDir overrides <cwd>/migrations/<driver>.
	MigrationsDir string `yaml:"migrations_dir" toml:"migrations_dir" envconfig:"DB_MIGRATIONS_DIR"`
}

// Enabled reports whether a database driver has been configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Driver) != ""
}

// Normalize validates the driver and fills pool defaults.
func (c *Config) Normalize() error {
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	switch c.Driver {
	case "":
		return nil
	case "postgresql", "pg":
		c.Driver = DriverPostgres
	case "sqlite":
		c.Driver = DriverSQLite
	}
	switch c.Driver {
	case DriverPostgres:
		if c.Host == "" || c.Name == "" {
			return fmt.Errorf("database: host and name are required for postgres")
		}
		if c.Port == "" {
			c.Port = "5432"
		}
		if c.SSLMode == "" {
			c.SSLMode = "disable"
		}
		if c.MaxConnections <= 0 {
			c.MaxConnections = 5
		}
	case DriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("database: path is required for sqlite3")
		}
		// SQLite does not support concurrent writers.
		c.MaxConnections = 1
	default:
		return fmt.Errorf("database: unsupported driver %q; allowed: postgres, sqlite3", c.Driver)
	}
	return nil
}

// DSN returns the driver specific connection string for sqlx.
func (c Config) DSN() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}
