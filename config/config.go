package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/go-sql-driver/mysql"
)

// Config holds target-store connection parameters and the runner's
// fixed locations. Defaults are the documented out-of-the-box values.
type Config struct {
	Host     string `env:"SUSUME_DB_HOST" envDefault:"127.0.0.1"`
	Port     uint16 `env:"SUSUME_DB_PORT" envDefault:"3306"`
	User     string `env:"SUSUME_DB_USER" envDefault:"root"`
	Password string `env:"SUSUME_DB_PASSWORD"`
	Database string `env:"SUSUME_DB_NAME" envDefault:"susume"`
	PoolSize int    `env:"SUSUME_DB_POOL" envDefault:"4"`

	LedgerTableName string `env:"SUSUME_TABLE" envDefault:"migrations_log"`
	MigrationsDir   string `env:"SUSUME_DIR" envDefault:"migrations"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// DSN builds the driver connection string. MultiStatements is on
// because callable units routinely contain more than one statement.
func (c *Config) DSN() string {
	dsn := mysql.NewConfig()
	dsn.User = c.User
	dsn.Passwd = c.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
	dsn.DBName = c.Database
	dsn.MultiStatements = true

	return dsn.FormatDSN()
}
