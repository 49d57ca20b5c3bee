//go:build windows

package process

import (
	"github.com/pkg/errors"
)

// Terminate asks the OS to end the process with exitCode and then releases
// the Process whether or not that succeeded.
func (p *Process) Terminate(exitCode uint32) error {
	var err error
	if p.Handle == 0 {
		err = ErrNotBound
	} else if terr := sys.terminate(p.Handle, exitCode); terr != nil {
		err = errors.Wrapf(terr, "terminate %d", p.PID)
	}

	if rerr := p.release(); err == nil && rerr != nil {
		err = errors.Wrap(rerr, "release handle")
	}
	return err
}

// Suspend freezes every thread of the process. It does nothing when unbound.
func (p *Process) Suspend() error {
	if p.Handle == 0 {
		return nil
	}
	return errors.Wrapf(sys.suspend(p.Handle), "suspend %d", p.PID)
}

// Resume undoes Suspend. It does nothing when unbound.
func (p *Process) Resume() error {
	if p.Handle == 0 {
		return nil
	}
	return errors.Wrapf(sys.resume(p.Handle), "resume %d", p.PID)
}

// SetPriorityClass forwards class to the OS unchecked. It does nothing when
// unbound.
func (p *Process) SetPriorityClass(class uint32) error {
	if p.Handle == 0 {
		return nil
	}
	return errors.Wrapf(sys.setPriority(p.Handle, class), "set priority class of %d", p.PID)
}

func (p *Process) PriorityClass() (uint32, error) {
	if p.Handle == 0 {
		return 0, ErrNotBound
	}
	class, err := sys.getPriority(p.Handle)
	if err != nil {
		return 0, errors.Wrapf(err, "get priority class of %d", p.PID)
	}
	return class, nil
}
