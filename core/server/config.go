package server

import "fmt"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// AllowWrites lets POST /honors/sync run without dry_run.
	AllowWrites bool `mapstructure:"allow_writes" default:"false"`
}

// Validate rejects write-enabled servers without an API key.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.AllowWrites && c.ApiKey == "" {
		return fmt.Errorf("server.allow_writes requires server.api_key")
	}
	return nil
}
