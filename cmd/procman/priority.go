package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"procman/pkg/process"
)

var priorityCmd = &cobra.Command{
	Use:   "priority TARGET [CLASS]",
	Short: "Show or set the priority class of a process",
	Long: `Show the priority class of a process, or set it when CLASS is given.

CLASS is one of ` + strings.Join(process.PriorityClassNames(), ", ") + `
or a raw numeric value, which is passed to Windows unchecked.`,
	Example: `  procman priority notepad.exe
  procman priority 4312 below_normal`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openTarget(args[0])
		defer p.Close()
		if err != nil {
			return err
		}

		if len(args) == 2 {
			class, err := process.ParsePriorityClass(args[1])
			if err != nil {
				return err
			}
			if err := p.SetPriorityClass(class); err != nil {
				return err
			}
			logger.WithField("pid", p.PID).WithField("class", class).Debug("priority set")
		}

		class, err := p.PriorityClass()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", p.PID, process.PriorityClassName(class))
		return nil
	},
}
