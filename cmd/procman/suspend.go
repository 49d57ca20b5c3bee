package main

import (
	"github.com/spf13/cobra"

	"procman/pkg/process"
)

var suspendCmd = &cobra.Command{
	Use:   "suspend TARGET",
	Short: "Suspend every thread of a process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTarget(args[0], "suspended", (*process.Process).Suspend)
	},
}

var resumeCmd = &cobra.Command{
	Use:   "resume TARGET",
	Short: "Resume a suspended process",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withTarget(args[0], "resumed", (*process.Process).Resume)
	},
}

func withTarget(target, verb string, op func(*process.Process) error) error {
	p, err := openTarget(target)
	defer p.Close()
	if err != nil {
		return err
	}
	if err := op(p); err != nil {
		return err
	}
	name, _ := p.Name()
	logger.WithField("pid", p.PID).Debug(verb)
	printOK("Process %s pid=%d %s", verb, p.PID, name)
	return nil
}
