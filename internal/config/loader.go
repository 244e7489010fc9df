package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment overrides, e.g.
// WARD_EXECUTOR_TIMEOUT_SECONDS.
const envPrefix = "WARD"

// Load builds the effective configuration: defaults, then the user file,
// then the project file, then environment variables.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	if home, err := os.UserHomeDir(); err == nil {
		if err := mergeFile(v, filepath.Join(home, ".ward", "config.toml")); err != nil {
			return Config{}, err
		}
	}
	if err := mergeFile(v, filepath.Join(".ward", "config.toml")); err != nil {
		return Config{}, err
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("general.log_level", def.General.LogLevel)
	v.SetDefault("general.data_dir", def.General.DataDir)
	v.SetDefault("general.session_log", def.General.SessionLog)
	v.SetDefault("intent.provider", def.Intent.Provider)
	v.SetDefault("intent.base_url", def.Intent.BaseURL)
	v.SetDefault("intent.api_key", def.Intent.APIKey)
	v.SetDefault("intent.model", def.Intent.Model)
	v.SetDefault("intent.timeout_seconds", def.Intent.TimeoutSeconds)
	v.SetDefault("sandbox.lists_path", def.Sandbox.ListsPath)
	v.SetDefault("sandbox.live_reload", def.Sandbox.LiveReload)
	v.SetDefault("backup.dir", def.Backup.Dir)
	v.SetDefault("backup.auto", def.Backup.Auto)
	v.SetDefault("executor.timeout_seconds", def.Executor.TimeoutSeconds)
	v.SetDefault("executor.log_path", def.Executor.LogPath)
	v.SetDefault("audit.path", def.Audit.Path)
	v.SetDefault("audit.history_limit", def.Audit.HistoryLimit)
	v.SetDefault("confirm.max_decided", def.Confirm.MaxDecided)
}

func mergeFile(v *viper.Viper, path string) error {
	f := viper.New()
	f.SetConfigFile(path)
	f.SetConfigType("toml")
	if err := f.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := v.MergeConfigMap(f.AllSettings()); err != nil {
		return fmt.Errorf("merging %s: %w", path, err)
	}
	return nil
}
