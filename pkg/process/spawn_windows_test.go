//go:build windows

package process

import (
	"errors"
	"os"
	"testing"
	"unsafe"

	"golang.org/x/sys/windows"
)

func TestSpawnWithParentReportsSpoofedParent(t *testing.T) {
	tr := trackHandles(t)
	parentPID := uint32(os.Getppid())

	childPID, err := SpawnWithParent(pingPath(), parentPID, SpawnOptions{
		Args:          []string{"-n", "60", "127.0.0.1"},
		CreationFlags: windows.CREATE_NO_WINDOW,
	})
	if err != nil {
		t.Fatalf("SpawnWithParent: %v", err)
	}
	if got := tr.count(); got != 0 {
		t.Fatalf("%d handles left open after spawn", got)
	}
	t.Cleanup(func() {
		if p, err := Open(childPID); err == nil {
			_ = p.Terminate(0)
		}
	})

	info, ok := findInfo(t, childPID)
	if !ok {
		t.Fatalf("child %d not in snapshot", childPID)
	}
	if info.ParentPID != parentPID {
		t.Fatalf("child parent = %d, want %d (we are %d)", info.ParentPID, parentPID, os.Getpid())
	}
}

func TestSpawnWithParentNameUnknownParent(t *testing.T) {
	_, err := SpawnWithParentName(pingPath(), "no-such-process-procman.exe", SpawnOptions{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

type fakeAttrList struct {
	updateErr error
	deleted   int
	updated   uintptr
}

func (f *fakeAttrList) Update(attribute uintptr, _ unsafe.Pointer, _ uintptr) error {
	f.updated = attribute
	return f.updateErr
}

func (f *fakeAttrList) List() *windows.ProcThreadAttributeList { return nil }

func (f *fakeAttrList) Delete() { f.deleted++ }

// fakeSpawn installs a sys whose handles are plain counters, so that every
// failure branch of SpawnWithParent can be forced.
type fakeSpawn struct {
	next     windows.Handle
	open     map[windows.Handle]bool
	attrs    *fakeAttrList
	openErr  error
	attrErr  error
	spawnErr error
}

func installFakeSpawn(t *testing.T, f *fakeSpawn) {
	t.Helper()
	orig := sys
	t.Cleanup(func() { sys = orig })
	f.next = 0x100
	f.open = map[windows.Handle]bool{}
	if f.attrs == nil {
		f.attrs = &fakeAttrList{}
	}

	alloc := func() windows.Handle {
		f.next += 4
		f.open[f.next] = true
		return f.next
	}
	sys.openProcess = func(access, pid uint32) (windows.Handle, error) {
		if access != windows.PROCESS_CREATE_PROCESS {
			t.Errorf("parent opened with access %#x", access)
		}
		if f.openErr != nil {
			return 0, f.openErr
		}
		return alloc(), nil
	}
	sys.closeHandle = func(h windows.Handle) error {
		if !f.open[h] {
			t.Errorf("close of unknown or already closed handle %v", h)
		}
		delete(f.open, h)
		return nil
	}
	sys.newAttrList = func(uint32) (attributeList, error) {
		if f.attrErr != nil {
			return nil, f.attrErr
		}
		return f.attrs, nil
	}
	sys.createProcess = func(_ *uint16, flags uint32, _ *windows.StartupInfoEx, pi *windows.ProcessInformation) error {
		if flags&windows.EXTENDED_STARTUPINFO_PRESENT == 0 {
			t.Errorf("creation flags %#x lack EXTENDED_STARTUPINFO_PRESENT", flags)
		}
		if f.spawnErr != nil {
			return f.spawnErr
		}
		pi.Process = alloc()
		pi.Thread = alloc()
		pi.ProcessId = 4242
		return nil
	}
}

func TestSpawnWithParentReleasesOnEveryPath(t *testing.T) {
	errBoom := errors.New("boom")
	cases := []struct {
		name        string
		fake        fakeSpawn
		wantPID     uint32
		wantErr     bool
		wantDeletes int
	}{
		{name: "parent open fails", fake: fakeSpawn{openErr: errBoom}, wantErr: true},
		{name: "attribute init fails", fake: fakeSpawn{attrErr: errBoom}, wantErr: true},
		{name: "attribute update fails", fake: fakeSpawn{attrs: &fakeAttrList{updateErr: errBoom}}, wantErr: true, wantDeletes: 1},
		{name: "create fails", fake: fakeSpawn{spawnErr: errBoom}, wantErr: true, wantDeletes: 1},
		{name: "success", fake: fakeSpawn{}, wantPID: 4242, wantDeletes: 1},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			f := tc.fake
			installFakeSpawn(t, &f)

			pid, err := SpawnWithParent(`C:\child.exe`, 8, SpawnOptions{})
			if tc.wantErr {
				if !errors.Is(err, errBoom) {
					t.Fatalf("err = %v, want boom", err)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if pid != tc.wantPID {
				t.Fatalf("pid = %d, want %d", pid, tc.wantPID)
			}
			if len(f.open) != 0 {
				t.Fatalf("handles left open: %v", f.open)
			}
			if f.attrs.deleted != tc.wantDeletes {
				t.Fatalf("attribute list deleted %d times, want %d", f.attrs.deleted, tc.wantDeletes)
			}
			if tc.wantDeletes > 0 && f.attrs.updated != windows.PROC_THREAD_ATTRIBUTE_PARENT_PROCESS {
				t.Fatalf("updated attribute %#x, want parent process", f.attrs.updated)
			}
		})
	}
}
