// Package procstat reads extra details about a process that the handle
// based API does not expose directly.
package procstat

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	gproc "github.com/shirou/gopsutil/v4/process"
	"github.com/sirupsen/logrus"
)

type Stats struct {
	PID        int32
	PPID       int32
	ParentName string
	Created    time.Time
	RSS        uint64
	Threads    int32
	User       string
}

// Collect gathers what it can about pid. Fields the OS refuses to report
// are left zero and logged at debug level; only a vanished process is an
// error.
func Collect(ctx context.Context, logger logrus.FieldLogger, pid uint32) (*Stats, error) {
	p, err := gproc.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		return nil, errors.Wrapf(err, "process %d", pid)
	}
	log := logger.WithField("pid", pid)
	s := &Stats{PID: p.Pid}

	if s.PPID, err = p.PpidWithContext(ctx); err != nil {
		log.WithError(err).Debug("parent pid unavailable")
	} else if parent, err := gproc.NewProcessWithContext(ctx, s.PPID); err == nil {
		if s.ParentName, err = parent.NameWithContext(ctx); err != nil {
			log.WithError(err).Debug("parent name unavailable")
		}
	}

	if ms, err := p.CreateTimeWithContext(ctx); err != nil {
		log.WithError(err).Debug("create time unavailable")
	} else {
		s.Created = time.UnixMilli(ms)
	}

	if mem, err := p.MemoryInfoWithContext(ctx); err != nil {
		log.WithError(err).Debug("memory info unavailable")
	} else {
		s.RSS = mem.RSS
	}

	if s.Threads, err = p.NumThreadsWithContext(ctx); err != nil {
		log.WithError(err).Debug("thread count unavailable")
	}

	if s.User, err = p.UsernameWithContext(ctx); err != nil {
		log.WithError(err).Debug("owner unavailable")
	}

	return s, nil
}

// Lines renders s for people, one "Label: value" per line.
func (s *Stats) Lines() []string {
	parent := fmt.Sprintf("%d", s.PPID)
	if s.ParentName != "" {
		parent = fmt.Sprintf("%d (%s)", s.PPID, s.ParentName)
	}
	started := "unknown"
	if !s.Created.IsZero() {
		started = fmt.Sprintf("%s (%s)", s.Created.Format(time.DateTime), humanize.Time(s.Created))
	}
	return []string{
		"Parent: " + parent,
		"Started: " + started,
		"Working Set: " + humanize.IBytes(s.RSS),
		fmt.Sprintf("Threads: %d", s.Threads),
		"User: " + valueOr(s.User, "unknown"),
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
