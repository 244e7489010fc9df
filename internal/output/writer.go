package output

import (
	"fmt"
	"io"
	"os"
)

// Writer renders values in a fixed format to a destination stream.
type Writer struct {
	format Format
	out    io.Writer
}

// New creates a Writer for the given format, writing to stdout.
func New(format Format) *Writer {
	return &Writer{format: format, out: os.Stdout}
}

// NewTo creates a Writer for the given format and destination.
func NewTo(format Format, out io.Writer) *Writer {
	return &Writer{format: format, out: out}
}

// Write renders v: pretty JSON in JSON mode, key-sorted lines otherwise.
func (w *Writer) Write(v any) error {
	if w.format == FormatJSON {
		return writeJSON(w.out, v, true)
	}
	switch val := v.(type) {
	case map[string]any:
		for _, k := range sortedKeys(val) {
			fmt.Fprintf(w.out, "%s: %v\n", k, val[k])
		}
		return nil
	case string:
		_, err := fmt.Fprintln(w.out, val)
		return err
	default:
		_, err := fmt.Fprintf(w.out, "%+v\n", v)
		return err
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
