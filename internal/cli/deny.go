package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardproject/ward/internal/output"
)

var flagDenyNote string

func init() {
	denyCmd.Flags().StringVarP(&flagDenyNote, "note", "m", "", "note recorded with the decision")
	rootCmd.AddCommand(denyCmd)
}

var denyCmd = &cobra.Command{
	Use:   "deny <confirmation-id>",
	Short: "Deny a parked command",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		decided, err := a.confirmations.Decide(args[0], "denied", "user", flagDenyNote)
		if err != nil {
			return err
		}
		_ = a.auditLog.ConfirmationDecision(decided.ID, decided.Command, "denied")
		_ = a.auditLog.CommandCancelled(decided.ID, decided.Command, "user denied the command")

		w := output.New(output.GetFormat())
		if output.IsJSON() {
			return w.Write(decided)
		}
		fmt.Printf("denied %s\n", decided.ID)
		return nil
	},
}
