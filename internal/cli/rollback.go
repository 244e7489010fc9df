package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardproject/ward/internal/backup"
	"github.com/wardproject/ward/internal/output"
)

func init() {
	rootCmd.AddCommand(rollbackPlanCmd)
}

var rollbackPlanCmd = &cobra.Command{
	Use:   "rollback-plan <backup-id>",
	Short: "Write a reversal script for a backed-up command",
	Long: `Derive rollback steps from a backup and the command it guarded,
and write them as a fully commented script. Nothing is executed: the
script is a checklist for the user to review and apply by hand.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.backups.Get(args[0])
		if err != nil {
			return err
		}

		plan := backup.PlanFor(rec.Command, rec)
		if len(plan.Actions) == 0 {
			return fmt.Errorf("no reversal can be derived for backup %s", rec.ID)
		}

		path, err := plan.WriteScript(cfg.RollbackScriptDir())
		if err != nil {
			return err
		}

		w := output.New(output.GetFormat())
		if output.IsJSON() {
			return w.Write(map[string]any{"plan": plan, "script": path})
		}
		fmt.Printf("rollback plan for %s\n", rec.ID)
		for _, action := range plan.Actions {
			fmt.Printf("  - %s\n", action.Description)
		}
		fmt.Printf("script: %s\n", path)
		return nil
	},
}
