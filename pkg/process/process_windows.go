//go:build windows

package process

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// Walk calls fn for every entry of a fresh process snapshot, in the order
// the OS returns them, until fn returns false.
func Walk(fn func(Info) bool) error {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return errors.Wrap(err, "create snapshot")
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Process32First(snapshot, &entry); err != nil {
		return errors.Wrap(err, "first snapshot entry")
	}

	for {
		info := Info{
			PID:       entry.ProcessID,
			ParentPID: entry.ParentProcessID,
			Threads:   entry.Threads,
			Exe:       windows.UTF16ToString(entry.ExeFile[:]),
		}
		if !fn(info) {
			return nil
		}

		if err := windows.Process32Next(snapshot, &entry); err != nil {
			if err == windows.ERROR_NO_MORE_FILES {
				return nil
			}
			return errors.Wrap(err, "next snapshot entry")
		}
	}
}

func List() ([]Info, error) {
	processes := make([]Info, 0, 128)
	err := Walk(func(info Info) bool {
		processes = append(processes, info)
		return true
	})
	if err != nil {
		return nil, err
	}
	return processes, nil
}

// FindPIDByName returns the PID of the first enumerated process whose
// executable name equals name. The comparison is case-sensitive.
func FindPIDByName(name string) (uint32, error) {
	if name == "" || name == NoneLabel {
		return 0, errors.Wrapf(ErrNotFound, "%q", name)
	}

	var (
		pid   uint32
		found bool
	)
	err := Walk(func(info Info) bool {
		if info.Exe == name {
			pid, found = info.PID, true
			return false
		}
		return true
	})
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, errors.Wrapf(ErrNotFound, "%q", name)
	}
	return pid, nil
}
