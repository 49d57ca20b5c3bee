//go:build windows

package process

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

// processAllAccess is PROCESS_ALL_ACCESS as defined for Vista and later.
const processAllAccess = windows.STANDARD_RIGHTS_REQUIRED | windows.SYNCHRONIZE | 0xFFFF

// Process owns one handle to a running process. PID and Handle are
// read-only for callers; use Rebind and Close to change them.
type Process struct {
	Handle    windows.Handle
	PID       uint32
	imagePath string
}

// Open binds a new Process to pid with full access. pid 0 gives an unbound
// Process. The returned Process is never nil: on error it stays partially
// bound and the error says which step failed.
func Open(pid uint32) (*Process, error) {
	p := &Process{}
	return p, p.Rebind(pid)
}

// OpenByName binds to the first process whose executable name is name.
func OpenByName(name string) (*Process, error) {
	p := &Process{}
	return p, p.RebindByName(name)
}

func (p *Process) Rebind(pid uint32) error {
	if err := p.release(); err != nil {
		return errors.Wrap(err, "release previous handle")
	}
	if pid == 0 {
		return nil
	}

	p.PID = pid
	h, err := sys.openProcess(processAllAccess, pid)
	if err != nil {
		return errors.Wrapf(err, "open process %d", pid)
	}
	p.Handle = h

	path, err := sys.imagePath(h)
	if err != nil {
		return errors.Wrapf(err, "query image path of %d", pid)
	}
	p.imagePath = path
	return nil
}

// RebindByName rebinds to the first enumerated process named name. When
// nothing matches the Process ends up unbound and ErrNotFound is returned.
func (p *Process) RebindByName(name string) error {
	pid, err := FindPIDByName(name)
	if err != nil {
		if rerr := p.Rebind(0); rerr != nil {
			return rerr
		}
		return err
	}
	return p.Rebind(pid)
}

func (p *Process) Close() error {
	if p == nil {
		return nil
	}
	return p.release()
}

func (p *Process) release() error {
	var err error
	if p.Handle != 0 {
		err = sys.closeHandle(p.Handle)
	}
	p.Handle = 0
	p.PID = 0
	p.imagePath = ""
	return err
}

func (p *Process) Bound() bool {
	return p != nil && p.Handle != 0
}

// ImagePath returns the full path of the executable image, if known.
func (p *Process) ImagePath() (string, bool) {
	if p == nil || p.imagePath == "" {
		return "", false
	}
	return p.imagePath, true
}

// Name returns the file name part of ImagePath.
func (p *Process) Name() (string, bool) {
	path, ok := p.ImagePath()
	if !ok {
		return "", false
	}
	return baseName(path), true
}

func (p *Process) Summary() Summary {
	if p == nil {
		return Summary{}
	}
	name, _ := p.Name()
	return Summary{PID: p.PID, Name: name, ImagePath: p.imagePath}
}
