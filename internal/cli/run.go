package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardproject/ward/internal/confirm"
	"github.com/wardproject/ward/internal/intent"
	"github.com/wardproject/ward/internal/output"
	"github.com/wardproject/ward/internal/pipeline"
	"github.com/wardproject/ward/internal/sandbox"
)

var (
	flagRunDryRun      bool
	flagRunYes         bool
	flagRunExec        bool
	flagRunNoBackup    bool
	flagRunBackupPaths []string
)

func init() {
	runCmd.Flags().BoolVar(&flagRunDryRun, "dry-run", false, "show what would run without executing")
	runCmd.Flags().BoolVarP(&flagRunYes, "yes", "y", false, "approve the confirmation prompt (high-risk commands still prompt)")
	runCmd.Flags().BoolVar(&flagRunExec, "exec", false, "treat the argument as a literal command, skipping translation")
	runCmd.Flags().BoolVar(&flagRunNoBackup, "no-backup", false, "skip the pre-execution backup")
	runCmd.Flags().StringSliceVar(&flagRunBackupPaths, "backup", nil, "files to snapshot before a destructive command")

	rootCmd.AddCommand(runCmd)
}

// literalTranslator passes a user-supplied command through unchanged.
type literalTranslator struct {
	command string
}

func (l *literalTranslator) Translate(context.Context, string) (*intent.Translation, error) {
	return &intent.Translation{Command: l.command, Explanation: "command supplied directly"}, nil
}

var runCmd = &cobra.Command{
	Use:   "run <request>",
	Short: "Translate a request and run it through the safety pipeline",
	Long: `Run a natural-language request end to end.

Flow:
1. Translate the request into a shell command
2. Classify its risk tier and validate it against the sandbox policy
3. Check privilege requirements
4. Ask for confirmation (unless the command is safe)
5. Snapshot affected files, execute, and record everything

Examples:
  ward run "list the largest files here"
  ward run "delete the old build directory" --backup build/manifest.json
  ward run --exec "systemctl restart nginx" --yes
  ward run "clean up temp files" --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		request := args[0]

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		// Pick up sandbox list edits made while the prompt is open.
		if cfg.Sandbox.LiveReload {
			watchCtx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go func() {
				_ = sandbox.WatchLists(watchCtx, a.lists)
			}()
		}

		prompter := &parkingConfirmer{
			prompter: confirm.NewPrompter(),
			store:    a.confirmations,
			request:  request,
		}
		o := a.orchestrator(prompter)
		if flagRunExec {
			o.Translator = &literalTranslator{command: request}
		}

		out, err := o.Run(cmd.Context(), request, pipeline.Options{
			DryRun:      flagRunDryRun,
			AutoBackup:  cfg.Backup.Auto && !flagRunNoBackup,
			BackupPaths: flagRunBackupPaths,
			AssumeYes:   flagRunYes,
		})
		if err != nil {
			return err
		}

		w := output.New(output.GetFormat())
		if output.IsJSON() {
			return w.Write(out)
		}
		return writeOutcome(out)
	},
}

// writeOutcome renders a pipeline outcome for humans.
func writeOutcome(out *pipeline.Outcome) error {
	if out.Translation != nil {
		fmt.Printf("%s  %s\n", output.RiskBadge(string(out.RiskVerdict.Tier)), out.Translation.Command)
		if out.Translation.Explanation != "" {
			fmt.Printf("  %s\n", out.Translation.Explanation)
		}
	}

	switch out.Status {
	case pipeline.StatusDenied:
		last := out.Decisions[len(out.Decisions)-1]
		fmt.Printf("denied at %s: %s\n", last.Stage, last.Reason)
		return nil
	case pipeline.StatusFailed:
		last := out.Decisions[len(out.Decisions)-1]
		if out.Result != nil && out.Result.Diagnosis != nil {
			d := out.Result.Diagnosis
			fmt.Printf("failed (%s): %s\n", d.Category, d.Summary)
			for _, step := range d.Steps {
				fmt.Printf("  - %s\n", step)
			}
		} else {
			fmt.Printf("failed at %s: %s\n", last.Stage, last.Reason)
		}
		return nil
	}

	if out.Result != nil {
		if out.Result.Stdout != "" {
			fmt.Print(out.Result.Stdout)
		}
		if out.Result.Stderr != "" {
			fmt.Println(out.Result.Stderr)
		}
	}
	if out.BackupID != "" {
		fmt.Printf("backup: %s\n", out.BackupID)
	}
	if out.RollbackScript != "" {
		fmt.Printf("rollback plan: %s\n", out.RollbackScript)
	}
	fmt.Printf("completed in %s\n", out.Duration.Round(time.Millisecond))
	return nil
}
