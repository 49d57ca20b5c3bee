package main

import (
	"github.com/spf13/cobra"
)

var killExitCode uint32

var killCmd = &cobra.Command{
	Use:   "kill TARGET",
	Short: "Terminate a process",
	Long: `Terminate a process immediately with the given exit code.

The exit code defaults to exit_code from the config file, or 0.`,
	Example: `  procman kill 4312
  procman kill notepad.exe --exit-code 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := openTarget(args[0])
		defer p.Close()
		if err != nil {
			return err
		}

		code := appConfig.ExitCode
		if cmd.Flags().Changed("exit-code") {
			code = killExitCode
		}
		pid := p.PID
		if err := p.Terminate(code); err != nil {
			return err
		}
		logger.WithField("pid", pid).WithField("exit_code", code).Info("terminated")
		printOK("Terminated pid=%d", pid)
		return nil
	},
}

func init() {
	killCmd.Flags().Uint32Var(&killExitCode, "exit-code", 0, "Exit code for the terminated process")
}
