package server

import (
	"errors"
	"strings"
)

// ErrEnvironmentUnset is returned when the environment marker is missing.
var ErrEnvironmentUnset = errors.New("server environment not set")

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"3000"`
	// ApiKey is the secret key required to access the API. Empty disables auth.
	ApiKey string `mapstructure:"api_key" default:""`
	// Environment names the deployment (development, staging, production).
	// The service refuses to start when it is empty.
	Environment string `mapstructure:"environment" default:""`
}

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// CheckEnvironment verifies that the environment marker is present.
func (c Config) CheckEnvironment() error {
	if strings.TrimSpace(c.Environment) == "" {
		return ErrEnvironmentUnset
	}
	return nil
}

// IsProduction reports whether the server runs in production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), EnvProduction)
}
