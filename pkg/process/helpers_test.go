//go:build windows

package process

import (
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/sys/windows"
)

func openSelf(t *testing.T) *Process {
	t.Helper()
	p, err := Open(uint32(os.Getpid()))
	if err != nil {
		t.Fatalf("open self: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func pingPath() string {
	return filepath.Join(os.Getenv("SystemRoot"), "System32", "PING.EXE")
}

// startTarget runs a ping that lives long enough for a test to act on it.
func startTarget(t *testing.T) *exec.Cmd {
	t.Helper()
	cmd := exec.Command(pingPath(), "-n", "60", "127.0.0.1")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start target: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})
	return cmd
}

// handleTracker wraps the real openProcess and closeHandle and remembers
// which handles are still open.
type handleTracker struct {
	mu     sync.Mutex
	open   map[windows.Handle]bool
	closed int
}

func trackHandles(t *testing.T) *handleTracker {
	t.Helper()
	tr := &handleTracker{open: map[windows.Handle]bool{}}
	orig := sys
	t.Cleanup(func() { sys = orig })

	sys.openProcess = func(access, pid uint32) (windows.Handle, error) {
		h, err := orig.openProcess(access, pid)
		if err == nil {
			tr.add(h)
		}
		return h, err
	}
	sys.closeHandle = func(h windows.Handle) error {
		tr.remove(h)
		return orig.closeHandle(h)
	}
	return tr
}

func (tr *handleTracker) add(h windows.Handle) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.open[h] = true
}

func (tr *handleTracker) remove(h windows.Handle) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	delete(tr.open, h)
	tr.closed++
}

func (tr *handleTracker) count() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return len(tr.open)
}

func (tr *handleTracker) closes() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.closed
}

func findInfo(t *testing.T, pid uint32) (Info, bool) {
	t.Helper()
	procs, err := List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, p := range procs {
		if p.PID == pid {
			return p, true
		}
	}
	return Info{}, false
}
