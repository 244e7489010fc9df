package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardproject/ward/internal/output"
)

var (
	flagHistoryLimit   int
	flagHistoryChanges bool
)

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 0, "number of entries to show (default from config)")
	historyCmd.Flags().BoolVar(&flagHistoryChanges, "changes", false, "show tracked system changes instead of audit events")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent audit events or tracked changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		limit := flagHistoryLimit
		if limit <= 0 {
			limit = cfg.Audit.HistoryLimit
		}

		w := output.New(output.GetFormat())

		if flagHistoryChanges {
			changes, err := a.changes.Recent(limit)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return w.Write(map[string]any{"changes": changes})
			}
			if len(changes) == 0 {
				fmt.Println("no tracked changes")
				return nil
			}
			rows := make([][]string, 0, len(changes))
			for _, c := range changes {
				reverted := ""
				if c.Reverted {
					reverted = "reverted"
				}
				rows = append(rows, []string{
					c.ID[:8],
					string(c.Type),
					c.Command,
					reverted,
					c.CreatedAt.Local().Format(time.RFC3339),
				})
			}
			output.Table([]string{"ID", "TYPE", "COMMAND", "", "CREATED"}, rows)
			return nil
		}

		events, err := a.auditLog.Read(limit)
		if err != nil {
			return err
		}
		if output.IsJSON() {
			return w.Write(map[string]any{"events": events})
		}
		if len(events) == 0 {
			fmt.Println("no audit events")
			return nil
		}
		rows := make([][]string, 0, len(events))
		for _, ev := range events {
			rows = append(rows, []string{
				ev.Timestamp.Local().Format(time.RFC3339),
				string(ev.Type),
				ev.Command,
			})
		}
		output.Table([]string{"TIME", "EVENT", "COMMAND"}, rows)
		return nil
	},
}
