// Package config loads ward's layered configuration: built-in defaults,
// the user file at ~/.ward/config.toml, a project file at
// ./.ward/config.toml, then WARD_* environment variables. Later layers
// win.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the full ward configuration.
type Config struct {
	General  GeneralConfig  `mapstructure:"general" toml:"general"`
	Intent   IntentConfig   `mapstructure:"intent" toml:"intent"`
	Sandbox  SandboxConfig  `mapstructure:"sandbox" toml:"sandbox"`
	Backup   BackupConfig   `mapstructure:"backup" toml:"backup"`
	Executor ExecutorConfig `mapstructure:"executor" toml:"executor"`
	Audit    AuditConfig    `mapstructure:"audit" toml:"audit"`
	Confirm  ConfirmConfig  `mapstructure:"confirm" toml:"confirm"`
}

// GeneralConfig holds settings that cut across components.
type GeneralConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" toml:"log_level"`
	// DataDir is where ward keeps its state. Defaults to ~/.ward.
	DataDir string `mapstructure:"data_dir" toml:"data_dir"`
	// SessionLog sends log output to <data_dir>/session.log instead of
	// stderr.
	SessionLog bool `mapstructure:"session_log" toml:"session_log"`
}

// IntentConfig configures natural-language translation.
type IntentConfig struct {
	// Provider is "api" for an OpenAI-compatible endpoint or
	// "heuristic" for the offline keyword table.
	Provider string `mapstructure:"provider" toml:"provider"`
	BaseURL  string `mapstructure:"base_url" toml:"base_url"`
	APIKey   string `mapstructure:"api_key" toml:"api_key"`
	Model    string `mapstructure:"model" toml:"model"`
	// TimeoutSeconds bounds each translation call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" toml:"timeout_seconds"`
}

// SandboxConfig configures the allow/deny gate.
type SandboxConfig struct {
	// ListsPath is the YAML file holding user allow/deny lists.
	// Empty means <data_dir>/sandbox.yaml.
	ListsPath string `mapstructure:"lists_path" toml:"lists_path"`
	// LiveReload watches the lists file and reloads it on change.
	LiveReload bool `mapstructure:"live_reload" toml:"live_reload"`
}

// BackupConfig configures pre-execution snapshots.
type BackupConfig struct {
	// Dir is the backup root. Empty means <data_dir>/backups.
	Dir string `mapstructure:"dir" toml:"dir"`
	// Auto creates backups for destructive commands without asking.
	Auto bool `mapstructure:"auto" toml:"auto"`
}

// ExecutorConfig configures command execution.
type ExecutorConfig struct {
	// TimeoutSeconds bounds each command run.
	TimeoutSeconds int `mapstructure:"timeout_seconds" toml:"timeout_seconds"`
	// LogPath is the execution JSONL log. Empty means
	// <data_dir>/executions.jsonl.
	LogPath string `mapstructure:"log_path" toml:"log_path"`
}

// AuditConfig configures the audit trail.
type AuditConfig struct {
	// Path is the audit JSONL file. Empty means <data_dir>/audit.jsonl.
	Path string `mapstructure:"path" toml:"path"`
	// HistoryLimit caps how many events `ward history` shows.
	HistoryLimit int `mapstructure:"history_limit" toml:"history_limit"`
}

// ConfirmConfig configures the approval gate.
type ConfirmConfig struct {
	// MaxDecided caps retained terminal confirmation records.
	MaxDecided int `mapstructure:"max_decided" toml:"max_decided"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		General: GeneralConfig{
			LogLevel: "info",
		},
		Intent: IntentConfig{
			Provider:       "heuristic",
			TimeoutSeconds: 60,
		},
		Sandbox: SandboxConfig{
			LiveReload: true,
		},
		Backup: BackupConfig{
			Auto: true,
		},
		Executor: ExecutorConfig{
			TimeoutSeconds: 30,
		},
		Audit: AuditConfig{
			HistoryLimit: 50,
		},
		Confirm: ConfirmConfig{
			MaxDecided: 256,
		},
	}
}

// DataDir resolves the effective data directory.
func (c Config) DataDir() string {
	if c.General.DataDir != "" {
		return c.General.DataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ward"
	}
	return filepath.Join(home, ".ward")
}

// ListsPath resolves the sandbox lists file.
func (c Config) ListsPath() string {
	if c.Sandbox.ListsPath != "" {
		return c.Sandbox.ListsPath
	}
	return filepath.Join(c.DataDir(), "sandbox.yaml")
}

// BackupDir resolves the backup root.
func (c Config) BackupDir() string {
	if c.Backup.Dir != "" {
		return c.Backup.Dir
	}
	return filepath.Join(c.DataDir(), "backups")
}

// ExecLogPath resolves the execution log file.
func (c Config) ExecLogPath() string {
	if c.Executor.LogPath != "" {
		return c.Executor.LogPath
	}
	return filepath.Join(c.DataDir(), "executions.jsonl")
}

// AuditPath resolves the audit log file.
func (c Config) AuditPath() string {
	if c.Audit.Path != "" {
		return c.Audit.Path
	}
	return filepath.Join(c.DataDir(), "audit.jsonl")
}

// DBPath resolves the change-tracker database file.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir(), "ward.db")
}

// RollbackScriptDir resolves where rollback scripts are written.
func (c Config) RollbackScriptDir() string {
	return filepath.Join(c.DataDir(), "rollback-scripts")
}

// ExecTimeout returns the executor timeout as a duration.
func (c Config) ExecTimeout() time.Duration {
	return time.Duration(c.Executor.TimeoutSeconds) * time.Second
}

// IntentTimeout returns the translation timeout as a duration.
func (c Config) IntentTimeout() time.Duration {
	return time.Duration(c.Intent.TimeoutSeconds) * time.Second
}
