package main

import (
	"strconv"

	"procman/pkg/process"
)

// resolvePID turns a TARGET argument into a PID.
func resolvePID(target string) (uint32, error) {
	if pid, ok := parsePID(target); ok {
		return pid, nil
	}
	return process.FindPIDByName(target)
}

func parsePID(target string) (uint32, bool) {
	pid, err := strconv.ParseUint(target, 10, 32)
	if err != nil || pid == 0 {
		return 0, false
	}
	return uint32(pid), true
}

// openTarget binds a Process to TARGET. The caller closes it even when an
// error is returned.
func openTarget(target string) (*process.Process, error) {
	if pid, ok := parsePID(target); ok {
		return process.Open(pid)
	}
	return process.OpenByName(target)
}
