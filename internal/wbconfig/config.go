// Package wbconfig loads the process's MySQL connection configuration from
// the environment, per spec.md §6. Grounded on tengo/instance.go's DSN
// assembly.
package wbconfig

import (
	"fmt"
	"os"

	"github.com/go-sql-driver/mysql"
)

// Config holds the four environment-supplied connection parameters.
type Config struct {
	Host     string
	User     string
	Password string
	DB       string
}

// FromEnv reads MYSQL_HOST, MYSQL_USER, MYSQL_PASSWORD, MYSQL_DB.
func FromEnv() Config {
	return Config{
		Host:     os.Getenv("MYSQL_HOST"),
		User:     os.Getenv("MYSQL_USER"),
		Password: os.Getenv("MYSQL_PASSWORD"),
		DB:       os.Getenv("MYSQL_DB"),
	}
}

// DSN assembles a go-sql-driver/mysql DSN from the config.
func (c Config) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Host
	cfg.DBName = c.DB
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// Validate reports a descriptive error if any required field is missing.
func (c Config) Validate() error {
	var missing []string
	if c.Host == "" {
		missing = append(missing, "MYSQL_HOST")
	}
	if c.User == "" {
		missing = append(missing, "MYSQL_USER")
	}
	if c.DB == "" {
		missing = append(missing, "MYSQL_DB")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missing)
	}
	return nil
}
