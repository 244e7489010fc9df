package output

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// Table prints a simple tab-aligned table to stderr (human mode).
func Table(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stderr, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

// List prints one item per line to stderr (human mode).
func List(items []string) {
	for _, item := range items {
		fmt.Fprintln(os.Stderr, item)
	}
}
