package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds the application configuration
type Config struct {
	// Enable debug logging
	Debug bool

	// JWT claim mapping used when building credentials from verified tokens
	Claims ClaimsConfig
}

// ClaimsConfig controls how verified JWT claims map onto credentials.
// The claims are expected to be verified by the caller; nothing here checks signatures.
type ClaimsConfig struct {
	// ActorClaimField holds the delegating service (RFC 8693 "act" object or a plain subject string)
	ActorClaimField string // Default: "act"

	// AccessRestrictionsClaimField holds a service token's access restrictions
	AccessRestrictionsClaimField string // Default: "access_restrictions"

	// UserEntityKind is the entity kind that marks a subject as a user
	UserEntityKind string // Default: "user"
}

// DefaultClaimsConfig returns the claim mapping used when no environment overrides are set
func DefaultClaimsConfig() ClaimsConfig {
	return ClaimsConfig{
		ActorClaimField:              "act",
		AccessRestrictionsClaimField: "access_restrictions",
		UserEntityKind:               "user",
	}
}

// Load reads configuration from environment variables with fallback defaults
func Load() (*Config, error) {
	defaults := DefaultClaimsConfig()
	cfg := &Config{
		Debug: getEnvBool("DEBUG", false),
		Claims: ClaimsConfig{
			ActorClaimField:              getEnv("CLAIMS_ACTOR_FIELD", defaults.ActorClaimField),
			AccessRestrictionsClaimField: getEnv("CLAIMS_ACCESS_RESTRICTIONS_FIELD", defaults.AccessRestrictionsClaimField),
			UserEntityKind:               getEnv("CLAIMS_USER_ENTITY_KIND", defaults.UserEntityKind),
		},
	}

	if err := cfg.Claims.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the claim mapping is usable
func (c ClaimsConfig) Validate() error {
	if c.ActorClaimField == "" {
		return fmt.Errorf("CLAIMS_ACTOR_FIELD must not be empty")
	}
	if c.AccessRestrictionsClaimField == "" {
		return fmt.Errorf("CLAIMS_ACCESS_RESTRICTIONS_FIELD must not be empty")
	}
	if c.ActorClaimField == c.AccessRestrictionsClaimField {
		return fmt.Errorf("CLAIMS_ACTOR_FIELD and CLAIMS_ACCESS_RESTRICTIONS_FIELD must differ (both %q)", c.ActorClaimField)
	}
	if c.UserEntityKind == "" || strings.ContainsAny(c.UserEntityKind, ":/") {
		return fmt.Errorf("CLAIMS_USER_ENTITY_KIND must be a bare entity kind, got %q", c.UserEntityKind)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
