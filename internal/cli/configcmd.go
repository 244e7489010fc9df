package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wardproject/ward/internal/config"
	"github.com/wardproject/ward/internal/output"
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and initialize configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := output.New(output.GetFormat())
		if output.IsJSON() {
			return w.Write(cfg)
		}
		return w.Write(map[string]any{
			"general.log_level":        cfg.General.LogLevel,
			"general.data_dir":         cfg.DataDir(),
			"general.session_log":      cfg.General.SessionLog,
			"intent.provider":          cfg.Intent.Provider,
			"intent.model":             cfg.Intent.Model,
			"sandbox.lists_path":       cfg.ListsPath(),
			"sandbox.live_reload":      cfg.Sandbox.LiveReload,
			"backup.dir":               cfg.BackupDir(),
			"backup.auto":              cfg.Backup.Auto,
			"executor.timeout_seconds": cfg.Executor.TimeoutSeconds,
			"audit.path":               cfg.AuditPath(),
		})
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to ~/.ward/config.toml",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		path := filepath.Join(home, ".ward", "config.toml")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}

		if err := config.Save(config.Default(), path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}
