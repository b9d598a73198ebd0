package database

import (
	"fmt"
	"time"

	_ "time/tzdata"
)

const (
	// DriverMySQL selects the MySQL dialector.
	DriverMySQL = "mysql"
	// DriverSQLite selects the SQLite dialector (development and tests).
	DriverSQLite = "sqlite"
)

// Config holds configuration for the three clinic stores.
type Config struct {
	// Driver is the database driver (mysql, sqlite).
	Driver string `mapstructure:"driver" default:"mysql"`
	// Timezone is the zone DATETIME values are read and written in.
	// Empty follows the front-desk timezone.
	Timezone string `mapstructure:"timezone" default:""`
	// Person is the reference store holding the PERSON and LAST tables.
	Person StoreConfig `mapstructure:"person"`
	// Waitlist is the store holding the yearly WAIT tables.
	Waitlist StoreConfig `mapstructure:"waitlist"`
	// Treatment is the store holding the yearly MTR tables.
	Treatment StoreConfig `mapstructure:"treatment"`
}

// StoreConfig holds connection settings for a single store.
type StoreConfig struct {
	// Host is the database host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the database port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the database user.
	User string `mapstructure:"user" default:"root"`
	// Password is the database password.
	Password string `mapstructure:"password" default:""`
	// Name is the database name, or the file/DSN for sqlite.
	// Empty falls back to the store's default name.
	Name string `mapstructure:"name" default:""`
	// PoolSize is the fixed number of pooled connections.
	PoolSize int `mapstructure:"pool_size" default:"5"`
	// TimeoutSeconds bounds connection setup and each read/write.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`

	loc *time.Location
}

// WithLocation returns a copy whose DATETIME values use loc.
func (c StoreConfig) WithLocation(loc *time.Location) StoreConfig {
	c.loc = loc
	return c
}

// Location resolves Timezone, falling back to the process zone when unset.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid database timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c StoreConfig) withDefaults(store StoreName, loc *time.Location) StoreConfig {
	if c.loc == nil {
		c.loc = loc
	}
	if c.Name == "" {
		c.Name = store.DefaultDatabase()
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 5
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return c
}
