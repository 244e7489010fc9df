// Package cli implements the ward command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wardproject/ward/internal/config"
	"github.com/wardproject/ward/internal/output"
	"github.com/wardproject/ward/internal/utils"
)

var (
	flagOutput   string
	flagLogLevel string

	// cfg is the effective configuration, loaded once per invocation.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ward",
	Short: "Safety gate for natural-language shell commands",
	Long: `ward translates natural-language requests into shell commands and
runs them through a safety pipeline: risk classification, a sandbox
policy with a hard CRITICAL block, a privilege check, explicit user
confirmation, pre-execution backups, and an audit trail.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.General.LogLevel
		if flagLogLevel != "" {
			level = flagLogLevel
		}
		if cfg.General.SessionLog {
			logger, err := utils.InitSessionLogger(cfg.DataDir(), level)
			if err != nil {
				return fmt.Errorf("opening session log: %w", err)
			}
			utils.SetDefaultLogger(logger)
		} else {
			opts := utils.DefaultLoggerOptions()
			opts.Level = level
			utils.SetDefaultLogger(utils.InitLogger(opts))
		}

		output.SetFormat(output.Format(flagOutput))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "output format (text|json)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "override the configured log level")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if output.IsJSON() {
			out := output.New(output.GetFormat())
			_ = out.Write(map[string]any{"error": err.Error()})
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
