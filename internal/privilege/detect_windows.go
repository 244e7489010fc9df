//go:build windows

package privilege

import "golang.org/x/sys/windows"

// processElevated reports whether the process token carries elevation.
func processElevated() bool {
	var token windows.Token
	proc := windows.CurrentProcess()
	if err := windows.OpenProcessToken(proc, windows.TOKEN_QUERY, &token); err != nil {
		return false
	}
	defer token.Close()
	return token.IsElevated()
}
