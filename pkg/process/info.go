package process

import (
	"strings"

	"github.com/pkg/errors"
)

// NoneLabel is what display helpers print for a missing name or path.
const NoneLabel = "(none)"

var (
	ErrNotBound = errors.New("process not bound")
	ErrNotFound = errors.New("process not found")
)

// Info is one entry of a process snapshot.
type Info struct {
	PID       uint32
	ParentPID uint32
	Threads   uint32
	Exe       string
}

// Summary is the displayable state of a Process.
type Summary struct {
	PID       uint32
	Name      string
	ImagePath string
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `\/`); i >= 0 {
		return path[i+1:]
	}
	return path
}

func orNone(s string) string {
	if s == "" {
		return NoneLabel
	}
	return s
}
