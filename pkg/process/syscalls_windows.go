//go:build windows

package process

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

// attributeList is the part of windows.ProcThreadAttributeListContainer
// used when spawning.
type attributeList interface {
	Update(attribute uintptr, value unsafe.Pointer, size uintptr) error
	List() *windows.ProcThreadAttributeList
	Delete()
}

// syscalls is the set of OS entry points the package calls. Tests replace
// sys to count handles or force failures.
type syscalls struct {
	openProcess   func(access, pid uint32) (windows.Handle, error)
	closeHandle   func(h windows.Handle) error
	imagePath     func(h windows.Handle) (string, error)
	terminate     func(h windows.Handle, exitCode uint32) error
	setPriority   func(h windows.Handle, class uint32) error
	getPriority   func(h windows.Handle) (uint32, error)
	suspend       func(h windows.Handle) error
	resume        func(h windows.Handle) error
	newAttrList   func(maxCount uint32) (attributeList, error)
	createProcess func(cmdLine *uint16, flags uint32, si *windows.StartupInfoEx, pi *windows.ProcessInformation) error
}

var sys = nativeSyscalls()

func nativeSyscalls() syscalls {
	return syscalls{
		openProcess: func(access, pid uint32) (windows.Handle, error) {
			return windows.OpenProcess(access, false, pid)
		},
		closeHandle: windows.CloseHandle,
		imagePath:   queryImagePath,
		terminate:   windows.TerminateProcess,
		setPriority: windows.SetPriorityClass,
		getPriority: windows.GetPriorityClass,
		suspend:     ntSuspendProcess,
		resume:      ntResumeProcess,
		newAttrList: func(maxCount uint32) (attributeList, error) {
			al, err := windows.NewProcThreadAttributeList(maxCount)
			if err != nil {
				return nil, err
			}
			return al, nil
		},
		createProcess: func(cmdLine *uint16, flags uint32, si *windows.StartupInfoEx, pi *windows.ProcessInformation) error {
			return windows.CreateProcess(nil, cmdLine, nil, nil, false, flags, nil, nil, &si.StartupInfo, pi)
		},
	}
}

// maxImagePath bounds the buffer used for image path queries.
const maxImagePath = 1 << 15

func queryImagePath(h windows.Handle) (string, error) {
	return readGrowing(windows.MAX_PATH, func(buf []uint16) (uint32, error) {
		n := uint32(len(buf))
		err := windows.QueryFullProcessImageName(h, 0, &buf[0], &n)
		return n, err
	})
}

// readGrowing calls read with a larger buffer each time it reports
// ERROR_INSUFFICIENT_BUFFER, until size reaches maxImagePath.
func readGrowing(size uint32, read func(buf []uint16) (uint32, error)) (string, error) {
	for {
		buf := make([]uint16, size+1)
		n, err := read(buf)
		if err == nil {
			return windows.UTF16ToString(buf[:n]), nil
		}
		if err != windows.ERROR_INSUFFICIENT_BUFFER || size >= maxImagePath {
			return "", err
		}
		size *= 2
	}
}

type ntEntryPoints struct {
	suspend *windows.LazyProc
	resume  *windows.LazyProc
}

var ntProcs = sync.OnceValues(func() (*ntEntryPoints, error) {
	ntdll := windows.NewLazySystemDLL("ntdll.dll")
	eps := &ntEntryPoints{
		suspend: ntdll.NewProc("NtSuspendProcess"),
		resume:  ntdll.NewProc("NtResumeProcess"),
	}
	if err := eps.suspend.Find(); err != nil {
		return nil, err
	}
	if err := eps.resume.Find(); err != nil {
		return nil, err
	}
	return eps, nil
})

func ntSuspendProcess(h windows.Handle) error {
	eps, err := ntProcs()
	if err != nil {
		return err
	}
	return callNt(eps.suspend, h)
}

func ntResumeProcess(h windows.Handle) error {
	eps, err := ntProcs()
	if err != nil {
		return err
	}
	return callNt(eps.resume, h)
}

func callNt(proc *windows.LazyProc, h windows.Handle) error {
	r, _, _ := proc.Call(uintptr(h))
	if status := windows.NTStatus(r); status != windows.STATUS_SUCCESS {
		return status
	}
	return nil
}
