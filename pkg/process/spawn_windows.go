//go:build windows

package process

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

type SpawnOptions struct {
	// Args are appended to the executable path on the command line.
	Args []string
	// CreationFlags are OR-ed with EXTENDED_STARTUPINFO_PRESENT.
	CreationFlags uint32
}

// SpawnWithParentName is SpawnWithParent with the parent given by
// executable name.
func SpawnWithParentName(exePath, parentName string, opts SpawnOptions) (uint32, error) {
	parentPID, err := FindPIDByName(parentName)
	if err != nil {
		return 0, errors.Wrap(err, "resolve parent")
	}
	return SpawnWithParent(exePath, parentPID, opts)
}

// SpawnWithParent starts exePath so that it reports parentPID as its parent
// process. It returns the PID of the new process. All handles it acquires
// are released before returning.
func SpawnWithParent(exePath string, parentPID uint32, opts SpawnOptions) (uint32, error) {
	cmdLine, err := windows.UTF16PtrFromString(
		windows.ComposeCommandLine(append([]string{exePath}, opts.Args...)))
	if err != nil {
		return 0, errors.Wrap(err, "command line")
	}

	parent, err := sys.openProcess(windows.PROCESS_CREATE_PROCESS, parentPID)
	if err != nil {
		return 0, errors.Wrapf(err, "open parent process %d", parentPID)
	}
	defer sys.closeHandle(parent)

	attrs, err := sys.newAttrList(1)
	if err != nil {
		return 0, errors.Wrap(err, "initialize attribute list")
	}
	defer attrs.Delete()

	err = attrs.Update(windows.PROC_THREAD_ATTRIBUTE_PARENT_PROCESS,
		unsafe.Pointer(&parent), unsafe.Sizeof(parent))
	if err != nil {
		return 0, errors.Wrap(err, "update attribute list")
	}

	si := &windows.StartupInfoEx{ProcThreadAttributeList: attrs.List()}
	si.Cb = uint32(unsafe.Sizeof(*si))

	var pi windows.ProcessInformation
	defer func() {
		if pi.Thread != 0 {
			sys.closeHandle(pi.Thread)
		}
		if pi.Process != 0 {
			sys.closeHandle(pi.Process)
		}
	}()

	flags := windows.EXTENDED_STARTUPINFO_PRESENT | opts.CreationFlags
	if err := sys.createProcess(cmdLine, flags, si, &pi); err != nil {
		return 0, errors.Wrapf(err, "create process %s", exePath)
	}
	return pi.ProcessId, nil
}
