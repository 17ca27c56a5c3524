/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/aggregatestore/errors"
)

// Repository backends
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
)

// Environment variables overriding file settings
const (
	EnvBackend   = "AGGREGATESTORE_BACKEND"
	EnvLogMode   = "LOG_MODE"
	EnvRegion    = "AWS_REGION"
	EnvAccessKey = "AWS_ACCESS_KEY"
	EnvSecretKey = "AWS_SECRET_KEY"
	EnvTable     = "AWS_DDB_TABLE"
	EnvEndpoint  = "AWS_DDB_ENDPOINT"
)

type Config struct {
	Log      LogConfig      `yaml:"log"`
	Backend  string         `yaml:"backend"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
	// Modules lists the enabled modules; empty enables all known modules.
	Modules []string `yaml:"modules"`
	// IndexMaps overrides key templates per aggregate name.
	IndexMaps map[string]map[string]string `yaml:"indexMaps"`
}

type LogConfig struct {
	// Mode is "prod" or "dev".
	Mode string `yaml:"mode"`
}

type DynamoDBConfig struct {
	Region    string `yaml:"region"`
	Table     string `yaml:"table"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Endpoint  string `yaml:"endpoint"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Log:     LogConfig{Mode: "dev"},
		Backend: BackendMemory,
		DynamoDB: DynamoDBConfig{
			Region: "us-east-1",
		},
	}
}

// Load reads the YAML file at path (optional), then applies environment
// overrides. envFiles are loaded with godotenv first; missing files are
// ignored. With no envFiles, ".env" is tried.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := loadEnvFiles(envFiles); err != nil {
		return Config{}, err
	}
	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnvFiles(files []string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		// godotenv never overrides variables already set in the environment
		if err := godotenv.Load(f); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(&c.Backend, EnvBackend)
	set(&c.Log.Mode, EnvLogMode)
	set(&c.DynamoDB.Region, EnvRegion)
	set(&c.DynamoDB.AccessKey, EnvAccessKey)
	set(&c.DynamoDB.SecretKey, EnvSecretKey)
	set(&c.DynamoDB.Table, EnvTable)
	set(&c.DynamoDB.Endpoint, EnvEndpoint)
}

// Validate checks the backend selection and its required settings.
func (c *Config) Validate() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case BackendMemory:
	case BackendDynamoDB:
		if c.DynamoDB.Table == "" {
			return errors.NewValidationError("dynamodb.table", "required for the dynamodb backend")
		}
		if c.DynamoDB.Region == "" {
			return errors.NewValidationError("dynamodb.region", "required for the dynamodb backend")
		}
	default:
		return errors.NewValidationError("backend", fmt.Sprintf("unknown backend %q", c.Backend))
	}
	return nil
}

// ModuleEnabled reports whether the named module should be loaded.
func (c Config) ModuleEnabled(name string) bool {
	if len(c.Modules) == 0 {
		return true
	}
	for _, m := range c.Modules {
		if strings.EqualFold(m, name) {
			return true
		}
	}
	return false
}
