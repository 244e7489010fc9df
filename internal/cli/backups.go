package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wardproject/ward/internal/output"
	"github.com/wardproject/ward/internal/utils"
)

func init() {
	backupsCmd.AddCommand(backupsDeleteCmd)
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(restoreCmd)
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List pre-execution backups",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		backups, err := a.backups.List()
		if err != nil {
			return err
		}

		if output.IsJSON() {
			w := output.New(output.GetFormat())
			return w.Write(map[string]any{"backups": backups})
		}

		if len(backups) == 0 {
			fmt.Println("no backups")
			return nil
		}
		rows := make([][]string, 0, len(backups))
		for _, b := range backups {
			rows = append(rows, []string{
				b.ID,
				utils.HumanSize(b.TotalSize),
				fmt.Sprintf("%d", len(b.Items)),
				b.Command,
				b.CreatedAt.Local().Format(time.RFC3339),
			})
		}
		output.Table([]string{"ID", "SIZE", "ITEMS", "COMMAND", "CREATED"}, rows)
		return nil
	},
}

var backupsDeleteCmd = &cobra.Command{
	Use:   "delete <backup-id>",
	Short: "Delete a backup and its files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.backups.Delete(args[0]); err != nil {
			return err
		}
		w := output.New(output.GetFormat())
		if output.IsJSON() {
			return w.Write(map[string]any{"deleted": args[0]})
		}
		fmt.Printf("deleted backup %s\n", args[0])
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <backup-id>",
	Short: "Restore files from a backup",
	Long: `Copy every file in a backup to its original location.

Restoration is best effort: items that cannot be restored are reported
and the rest continue.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		results, err := a.backups.Restore(args[0])
		if err != nil {
			return err
		}

		if output.IsJSON() {
			w := output.New(output.GetFormat())
			return w.Write(map[string]any{"backup_id": args[0], "items": results})
		}
		for _, item := range results {
			if item.Skipped {
				fmt.Printf("skipped %s: %s\n", item.Source, item.Reason)
			} else {
				fmt.Printf("restored %s (%s)\n", item.Source, utils.HumanSize(item.Size))
			}
		}
		return nil
	},
}
