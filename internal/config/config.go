package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the full flag/env surface of the timesheet-audit binary.
type Config struct {
	DBHost     string `validate:"required"`
	DBPort     int    `validate:"min=1,max=65535"`
	DBUser     string `validate:"required"`
	DBPassword string
	DBName     string `validate:"required"`
	DBSSLMode  string `validate:"oneof=disable require verify-ca verify-full"`

	WeeksAgo int    `validate:"min=0"`
	Member   string
	Timezone string

	Format string `validate:"oneof=table csv html xlsx"`
	Out    string

	Serve bool
	Port  int `validate:"min=1,max=65535"`
}

var validate = validator.New()

// Validate checks the config and returns the first problem found.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Format == "xlsx" && !c.Serve && c.Out == "" {
		return fmt.Errorf("invalid configuration: xlsx output requires --out")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ConnString builds the lib/pq connection string.
func (c Config) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Location resolves the report timezone. An empty Timezone means the system
// local timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
