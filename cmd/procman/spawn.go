package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sys/windows"

	"procman/pkg/process"
)

var (
	spawnParent     string
	spawnNewConsole bool
)

var spawnCmd = &cobra.Command{
	Use:   "spawn [flags] EXE [ARGS...]",
	Short: "Start a process under a different parent",
	Long: `Start EXE so that it reports --parent as its parent process instead of
procman. The parent must allow PROCESS_CREATE_PROCESS access.

Flags must come before EXE; everything after EXE is passed to the child.
--parent defaults to [spawn] parent from the config file and --new-console
to [spawn] new_console; --new-console=false overrides a true config value.`,
	Example: `  procman spawn --parent explorer.exe C:\Windows\System32\notepad.exe
  procman spawn --parent 4312 --new-console C:\Windows\System32\ping.exe -n 5 127.0.0.1`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parent := appConfig.Spawn.Parent
		if cmd.Flags().Changed("parent") {
			parent = spawnParent
		}
		if parent == "" {
			return errors.New("no parent given (use --parent or [spawn] parent in the config)")
		}

		opts := spawnOptions(cmd, args[1:])
		parentPID, err := resolvePID(parent)
		if err != nil {
			return err
		}
		childPID, err := process.SpawnWithParent(args[0], parentPID, opts)
		if err != nil {
			return err
		}
		logger.WithField("pid", childPID).WithField("parent", parent).Info("spawned")
		printOK("Child process created with pid=%d", childPID)
		return nil
	},
}

// spawnOptions builds the child options; --new-console, when given, wins
// over [spawn] new_console in either direction.
func spawnOptions(cmd *cobra.Command, childArgs []string) process.SpawnOptions {
	newConsole := appConfig.Spawn.NewConsole
	if cmd.Flags().Changed("new-console") {
		newConsole = spawnNewConsole
	}

	opts := process.SpawnOptions{Args: childArgs}
	if newConsole {
		opts.CreationFlags |= windows.CREATE_NEW_CONSOLE
	}
	return opts
}

func init() {
	spawnCmd.Flags().StringVar(&spawnParent, "parent", "", "Parent process (PID or executable name)")
	spawnCmd.Flags().BoolVar(&spawnNewConsole, "new-console", false, "Give the child its own console window")
	spawnCmd.Flags().SetInterspersed(false)
}
