// Package output handles text and JSON rendering for the CLI.
package output

import "sync/atomic"

// Format selects how command results are rendered.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var globalFormat atomic.Value

func init() {
	globalFormat.Store(FormatText)
}

// SetFormat sets the global output format.
func SetFormat(f Format) {
	if f != FormatJSON {
		f = FormatText
	}
	globalFormat.Store(f)
}

// GetFormat returns the current global output format.
func GetFormat() Format {
	if v, ok := globalFormat.Load().(Format); ok {
		return v
	}
	return FormatText
}

// IsJSON reports whether the global output format is JSON.
func IsJSON() bool {
	return GetFormat() == FormatJSON
}
