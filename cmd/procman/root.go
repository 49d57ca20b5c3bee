package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"procman/internal/config"
	"procman/internal/logging"
)

var (
	configPath string
	logLevel   string

	appConfig *config.Config
	logger    *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "procman",
	Short: "Inspect and control Windows processes",
	Long: `procman lists, inspects and controls running Windows processes.

Every command that takes a TARGET accepts either a decimal process id or an
executable name such as notepad.exe. Names resolve to the first matching
process in snapshot order.

Run without a subcommand to open the interactive console UI.`,
	Example: `  # List running processes
  procman list

  # Suspend and resume by name
  procman suspend notepad.exe
  procman resume notepad.exe

  # Start a child that reports explorer.exe as its parent
  procman spawn --parent explorer.exe C:\Windows\System32\notepad.exe`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		appConfig, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			appConfig.LogLevel = logLevel
		}
		logger, err = logging.New(appConfig.LogLevel, os.Stderr)
		if err != nil {
			return errors.Wrap(err, "log level")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUI()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(killCmd)
	rootCmd.AddCommand(suspendCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(priorityCmd)
	rootCmd.AddCommand(spawnCmd)
	rootCmd.AddCommand(uiCmd)
}

var (
	okPrefix   = color.New(color.FgGreen, color.Bold).Sprint("[+]")
	failPrefix = color.New(color.FgRed, color.Bold).Sprint("[-]")
)

func printOK(format string, args ...interface{}) {
	fmt.Fprintf(color.Output, "%s %s\n", okPrefix, fmt.Sprintf(format, args...))
}

func printFail(err error) {
	fmt.Fprintf(color.Error, "%s %v\n", failPrefix, err)
}
