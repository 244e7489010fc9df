//go:build linux || darwin

package privilege

import "golang.org/x/sys/unix"

// processElevated reports whether the process runs as root.
func processElevated() bool {
	return unix.Geteuid() == 0
}
