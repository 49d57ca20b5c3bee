//go:build windows

package process

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

var priorityClasses = []struct {
	name  string
	class uint32
}{
	{"idle", windows.IDLE_PRIORITY_CLASS},
	{"below_normal", windows.BELOW_NORMAL_PRIORITY_CLASS},
	{"normal", windows.NORMAL_PRIORITY_CLASS},
	{"above_normal", windows.ABOVE_NORMAL_PRIORITY_CLASS},
	{"high", windows.HIGH_PRIORITY_CLASS},
	{"realtime", windows.REALTIME_PRIORITY_CLASS},
}

// PriorityClassNames lists the accepted names, lowest priority first.
func PriorityClassNames() []string {
	names := make([]string, 0, len(priorityClasses))
	for _, pc := range priorityClasses {
		names = append(names, pc.name)
	}
	return names
}

// ParsePriorityClass accepts a class name (case-insensitive, '-' or '_')
// or a raw number, which is returned as is.
func ParsePriorityClass(s string) (uint32, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, pc := range priorityClasses {
		if pc.name == key {
			return pc.class, nil
		}
	}
	v, err := strconv.ParseUint(key, 0, 32)
	if err != nil {
		return 0, errors.Errorf("unknown priority class %q (want one of %s or a number)",
			s, strings.Join(PriorityClassNames(), ", "))
	}
	return uint32(v), nil
}

func PriorityClassName(class uint32) string {
	for _, pc := range priorityClasses {
		if pc.class == class {
			return pc.name
		}
	}
	return fmt.Sprintf("0x%X", class)
}
