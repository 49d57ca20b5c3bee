//go:build windows

package main

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"golang.org/x/sys/windows"

	"procman/internal/config"
	"procman/pkg/process"
)

func TestResolvePID(t *testing.T) {
	pid, err := resolvePID("4312")
	if err != nil || pid != 4312 {
		t.Fatalf("resolvePID(4312) = %d, %v", pid, err)
	}

	self, err := process.Open(uint32(os.Getpid()))
	if err != nil {
		t.Fatalf("open self: %v", err)
	}
	name, ok := self.Name()
	_ = self.Close()
	if !ok {
		t.Fatalf("no name for pid %d", os.Getpid())
	}
	if pid, err := resolvePID(name); err != nil || pid == 0 {
		t.Fatalf("resolvePID(%q) = %d, %v", name, pid, err)
	}

	if _, err := resolvePID("no-such-process-procman.exe"); !errors.Is(err, process.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSpawnOptionsNewConsole(t *testing.T) {
	orig := appConfig
	t.Cleanup(func() { appConfig = orig })

	cases := []struct {
		name   string
		config bool
		flag   string
		want   bool
	}{
		{name: "config only", config: true, want: true},
		{name: "neither", config: false, want: false},
		{name: "flag on", config: false, flag: "true", want: true},
		{name: "flag off beats config", config: true, flag: "false", want: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			appConfig = config.DefaultConfig()
			appConfig.Spawn.NewConsole = tc.config

			cmd := &cobra.Command{}
			cmd.Flags().BoolVar(&spawnNewConsole, "new-console", false, "")
			if tc.flag != "" {
				if err := cmd.Flags().Set("new-console", tc.flag); err != nil {
					t.Fatalf("set flag: %v", err)
				}
			}

			opts := spawnOptions(cmd, []string{"-n", "1"})
			got := opts.CreationFlags&windows.CREATE_NEW_CONSOLE != 0
			if got != tc.want {
				t.Fatalf("new console = %v, want %v", got, tc.want)
			}
			if len(opts.Args) != 2 {
				t.Fatalf("args = %v", opts.Args)
			}
		})
	}
}
