//go:build windows

package process

import (
	"errors"
	"os"
	"testing"
)

func TestListReturnsProcesses(t *testing.T) {
	procs, err := List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(procs) == 0 {
		t.Fatalf("expected at least one process")
	}
	selfPID := uint32(os.Getpid())
	foundSelf := false
	for _, p := range procs {
		if p.PID == selfPID {
			foundSelf = true
			break
		}
	}
	if !foundSelf {
		t.Fatalf("current pid %d not found in process list", selfPID)
	}
}

func TestWalkStopsEarly(t *testing.T) {
	calls := 0
	if err := Walk(func(Info) bool {
		calls++
		return calls < 2
	}); err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if calls != 2 {
		t.Fatalf("Walk made %d calls after stop, want 2", calls)
	}
}

func TestFindPIDByName(t *testing.T) {
	target := startTarget(t)
	info, ok := findInfo(t, uint32(target.Process.Pid))
	if !ok {
		t.Fatalf("target %d not in snapshot", target.Process.Pid)
	}

	pid, err := FindPIDByName(info.Exe)
	if err != nil {
		t.Fatalf("FindPIDByName(%q): %v", info.Exe, err)
	}
	// First match wins; enumeration order is up to the OS so only the
	// name of the match is checked.
	match, ok := findInfo(t, pid)
	if !ok || match.Exe != info.Exe {
		t.Fatalf("pid %d is %+v, want exe %q", pid, match, info.Exe)
	}
}

func TestFindPIDByNameMisses(t *testing.T) {
	for _, name := range []string{"", NoneLabel, "no-such-process-procman.exe"} {
		pid, err := FindPIDByName(name)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("FindPIDByName(%q) err = %v, want ErrNotFound", name, err)
		}
		if pid != 0 {
			t.Fatalf("FindPIDByName(%q) = %d, want 0", name, pid)
		}
	}
}
