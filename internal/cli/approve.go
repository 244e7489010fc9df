package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardproject/ward/internal/db"
	"github.com/wardproject/ward/internal/executor"
	"github.com/wardproject/ward/internal/output"
)

var flagApproveNote string

func init() {
	approveCmd.Flags().StringVarP(&flagApproveNote, "note", "m", "", "note recorded with the decision")
	rootCmd.AddCommand(approveCmd)
}

var approveCmd = &cobra.Command{
	Use:   "approve <confirmation-id>",
	Short: "Approve and execute a parked command",
	Long: `Approve a confirmation that was parked by a non-interactive run.

The command is re-validated against the sandbox policy before it runs:
an approval cannot override a CRITICAL block.

Examples:
  ward approve 3f2a91c4
  ward approve 3f2a91c4 -m "verified the target path"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.confirmations.Get(args[0])
		if err != nil {
			return err
		}
		if c.Status != "pending" {
			return fmt.Errorf("confirmation %s is already %s", c.ID, c.Status)
		}

		// Re-validate: the sandbox has the final word even after approval.
		verdict := a.policy.Validate(c.Command)
		if !verdict.Allowed {
			if _, err := a.confirmations.Decide(c.ID, "denied", "policy", verdict.Reason); err != nil {
				return err
			}
			_ = a.auditLog.CommandCancelled(c.ID, c.Command, verdict.Reason)
			return fmt.Errorf("command blocked by policy: %s", verdict.Reason)
		}

		decided, err := a.confirmations.Decide(c.ID, "approved", "user", flagApproveNote)
		if err != nil {
			return err
		}
		_ = a.auditLog.ConfirmationDecision(c.ID, c.Command, "approved")

		res, err := a.exec.Execute(cmd.Context(), c.Command, executor.Options{})
		if err != nil {
			_ = a.auditLog.Error(c.ID, "execution", err)
			return err
		}
		_ = a.auditLog.CommandExecuted(c.ID, c.Command, res.ExitCode, res.Success)

		if res.Success {
			if changeType := db.InferChangeType(c.Command); changeType != db.ChangeOther {
				if _, err := a.changes.Record(c.ID, c.Command, changeType, "", ""); err != nil {
					return err
				}
			}
		}

		w := output.New(output.GetFormat())
		if output.IsJSON() {
			return w.Write(map[string]any{
				"confirmation": decided,
				"result":       res,
			})
		}
		fmt.Printf("approved %s\n", decided.ID)
		if res.Stdout != "" {
			fmt.Print(res.Stdout)
		}
		if res.Stderr != "" {
			fmt.Println(res.Stderr)
		}
		if !res.Success && res.Diagnosis != nil {
			fmt.Printf("failed (%s): %s\n", res.Diagnosis.Category, res.Diagnosis.Summary)
		}
		return nil
	},
}
