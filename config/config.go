/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads EventManager settings.
//
// Settings are read in this order, later sources winning:
//  1. built-in defaults
//  2. the YAML file given to Load, $EVENTMANAGER_CONFIG or ./eventmanager.yaml
//  3. variables from .env files
//  4. process environment variables
//
// Environment variables are named EVENTMANAGER_<SECTION>_<KEY>, for example
// EVENTMANAGER_STORAGE_DRIVER. The AWS settings also fall back to the
// AWS_REGION, AWS_ACCESS_KEY, AWS_SECRET_KEY and AWS_DDB_TABLE variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
	DriverDynamoDB = "dynamodb"
)

const (
	envPrefix   = "EVENTMANAGER_"
	defaultFile = "eventmanager.yaml"
)

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	AWS     AWSConfig     `yaml:"aws"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type StorageConfig struct {
	// Driver is one of memory, sqlite, postgres, bolt or dynamodb.
	Driver string `yaml:"driver"`

	// DSN is the database file or connection string.
	DSN string `yaml:"dsn"`

	// Table is the DynamoDB table holding every entity.
	Table string `yaml:"table"`
}

type AWSConfig struct {
	Region    string `yaml:"region"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Endpoint  string `yaml:"endpoint"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{Driver: DriverMemory},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads the configuration. An empty path selects $EVENTMANAGER_CONFIG,
// then ./eventmanager.yaml when it exists. envFiles default to ".env";
// missing env files are skipped.
func Load(path string, envFiles ...string) (*Config, error) {
	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG")
	}
	if path == "" {
		if _, err := os.Stat(defaultFile); err == nil {
			path = defaultFile
		}
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	dotenv := make(map[string]string)
	for _, f := range envFiles {
		vars, err := godotenv.Read(f)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read env file %s: %w", f, err)
		}
		for k, v := range vars {
			dotenv[k] = v
		}
	}

	if err := cfg.applyEnv(func(key string) (string, bool) {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}
	boolean := func(dst *bool, key string) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = b
		return nil
	}

	str(&c.Storage.Driver, envPrefix+"STORAGE_DRIVER")
	str(&c.Storage.DSN, envPrefix+"STORAGE_DSN")
	str(&c.Storage.Table, envPrefix+"STORAGE_TABLE", "AWS_DDB_TABLE")
	str(&c.AWS.Region, envPrefix+"AWS_REGION", "AWS_REGION")
	str(&c.AWS.AccessKey, envPrefix+"AWS_ACCESS_KEY", "AWS_ACCESS_KEY")
	str(&c.AWS.SecretKey, envPrefix+"AWS_SECRET_KEY", "AWS_SECRET_KEY")
	str(&c.AWS.Endpoint, envPrefix+"AWS_ENDPOINT")
	str(&c.Log.Level, envPrefix+"LOG_LEVEL")
	if err := boolean(&c.Log.Development, envPrefix+"LOG_DEVELOPMENT"); err != nil {
		return err
	}
	return boolean(&c.Metrics.Enabled, envPrefix+"METRICS_ENABLED")
}

func (c *Config) applyDefaults() {
	c.Storage.Driver = strings.ToLower(c.Storage.Driver)
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverMemory
	}
	if c.Storage.DSN == "" {
		switch c.Storage.Driver {
		case DriverSQLite:
			c.Storage.DSN = "eventmanager.db"
		case DriverBolt:
			c.Storage.DSN = "eventmanager.bolt"
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate reports settings the selected driver cannot work with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverBolt:
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return errors.New("storage.dsn is required for postgres")
		}
	case DriverDynamoDB:
		if c.Storage.Table == "" {
			return errors.New("storage.table is required for dynamodb")
		}
		if c.AWS.Region == "" {
			return errors.New("aws.region is required for dynamodb")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	return nil
}
