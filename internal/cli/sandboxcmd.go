package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wardproject/ward/internal/output"
)

func init() {
	sandboxCmd.AddCommand(sandboxAllowCmd)
	sandboxCmd.AddCommand(sandboxDenyCmd)
	sandboxCmd.AddCommand(sandboxShowCmd)
	rootCmd.AddCommand(sandboxCmd)
}

var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Manage the user allow/deny lists",
}

var sandboxAllowCmd = &cobra.Command{
	Use:   "allow <entry>",
	Short: "Add a command substring to the allowlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.lists.AddAllow(args[0]); err != nil {
			return err
		}
		fmt.Printf("allowlisted %q\n", args[0])
		return nil
	},
}

var sandboxDenyCmd = &cobra.Command{
	Use:   "deny <entry>",
	Short: "Add a command substring to the denylist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.lists.AddDeny(args[0]); err != nil {
			return err
		}
		fmt.Printf("denylisted %q\n", args[0])
		return nil
	},
}

var sandboxShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current allow/deny lists",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		lists := a.lists.Snapshot()
		w := output.New(output.GetFormat())
		if output.IsJSON() {
			return w.Write(lists)
		}
		fmt.Println("allowlist:")
		for _, e := range lists.Allowlist {
			fmt.Printf("  %s\n", e)
		}
		fmt.Println("denylist:")
		for _, e := range lists.Denylist {
			fmt.Printf("  %s\n", e)
		}
		return nil
	},
}
