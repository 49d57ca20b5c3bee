package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"procman/internal/procstat"
	"procman/pkg/process"
)

var infoCmd = &cobra.Command{
	Use:   "info TARGET",
	Short: "Show the image path and details of a process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openTarget(args[0])
		defer p.Close()
		if err != nil {
			// A partially bound process still has something to show.
			printFail(err)
		}

		out := cmd.OutOrStdout()
		process.WriteInfo(out, p.Summary())

		if p.PID == 0 {
			return nil
		}
		if class, err := p.PriorityClass(); err == nil {
			fmt.Fprintf(out, "Priority: %s\n", process.PriorityClassName(class))
		}
		stats, err := procstat.Collect(cmd.Context(), logger, p.PID)
		if err != nil {
			return err
		}
		for _, line := range stats.Lines() {
			fmt.Fprintln(out, line)
		}
		return nil
	},
}
