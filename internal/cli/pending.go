package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardproject/ward/internal/output"
)

func init() {
	rootCmd.AddCommand(pendingCmd)
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List commands waiting for a decision",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		pending, err := a.confirmations.Pending()
		if err != nil {
			return err
		}

		if output.IsJSON() {
			w := output.New(output.GetFormat())
			return w.Write(map[string]any{"pending": pending})
		}

		if len(pending) == 0 {
			fmt.Println("no pending confirmations")
			return nil
		}
		rows := make([][]string, 0, len(pending))
		for _, c := range pending {
			rows = append(rows, []string{
				c.ID[:8],
				c.RiskTier,
				c.Command,
				c.CreatedAt.Local().Format(time.RFC3339),
			})
		}
		output.Table([]string{"ID", "TIER", "COMMAND", "CREATED"}, rows)
		return nil
	},
}
