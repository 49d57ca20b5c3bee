package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"procman/pkg/process"
)

var listName string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List running processes",
	Long: `List every running process in the order Windows enumerates them.

With --name only the PID of the first process with exactly that
executable name is printed.`,
	Example: `  procman list
  procman list --name svchost.exe`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if listName != "" {
			pid, err := process.FindPIDByName(listName)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pid)
			return nil
		}

		procs, err := process.List()
		if err != nil {
			return err
		}
		process.WriteList(cmd.OutOrStdout(), procs)
		logger.WithField("count", len(procs)).Debug("listed processes")
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listName, "name", "", "Print only the PID of the first process with this executable name")
}
