package config

import (
	"errors"
	"fmt"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validProviders = map[string]bool{
	"heuristic": true,
	"api":       true,
}

// Validate rejects configurations that would misbehave at runtime.
func (c Config) Validate() error {
	if !validLogLevels[c.General.LogLevel] {
		return fmt.Errorf("general.log_level: unknown level %q", c.General.LogLevel)
	}
	if !validProviders[c.Intent.Provider] {
		return fmt.Errorf("intent.provider: unknown provider %q", c.Intent.Provider)
	}
	if c.Intent.Provider == "api" && c.Intent.BaseURL == "" {
		return errors.New("intent.base_url: required when intent.provider is \"api\"")
	}
	if c.Intent.TimeoutSeconds < 0 {
		return fmt.Errorf("intent.timeout_seconds: must not be negative, got %d", c.Intent.TimeoutSeconds)
	}
	if c.Executor.TimeoutSeconds <= 0 {
		return fmt.Errorf("executor.timeout_seconds: must be positive, got %d", c.Executor.TimeoutSeconds)
	}
	if c.Audit.HistoryLimit < 0 {
		return fmt.Errorf("audit.history_limit: must not be negative, got %d", c.Audit.HistoryLimit)
	}
	if c.Confirm.MaxDecided < 1 {
		return fmt.Errorf("confirm.max_decided: must be at least 1, got %d", c.Confirm.MaxDecided)
	}
	return nil
}
