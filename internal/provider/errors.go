package provider

import (
	"fmt"
	"strings"
)

// ConfigError indicates an invalid provider catalog. It is fatal at startup.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid provider catalog: " + e.Reason
}

// NotFoundError indicates an unknown provider id.
type NotFoundError struct {
	ID        string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown provider: %s (available: %s)", e.ID, strings.Join(e.Available, ", "))
}

// SettingsError indicates model settings that violate the reasoning/sampling rules.
type SettingsError struct {
	ProviderID string
	Keys       []string
	Reason     string
}

func (e *SettingsError) Error() string {
	if len(e.Keys) > 0 {
		return fmt.Sprintf("invalid settings for provider %s: %s (keys: %s)",
			e.ProviderID, e.Reason, strings.Join(e.Keys, ", "))
	}
	return fmt.Sprintf("invalid settings for provider %s: %s", e.ProviderID, e.Reason)
}

// CredentialError indicates a missing API credential for a provider.
type CredentialError struct {
	ProviderID string
	EnvKey     string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("API key for provider %s not found: set environment variable %s", e.ProviderID, e.EnvKey)
}
