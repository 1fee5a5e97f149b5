package lisp

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// newLogger builds the per-Context diagnostic logger spec.md §4.1
// calls "the diagnostic stream." It is named after the context's id so
// that a host running several contexts (spec.md §1: "one or more
// independent interpreter contexts") can tell their log lines apart.
func newLogger(name string, verbose bool) hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "lisp." + name,
		Level:  level,
		Output: os.Stderr,
	})
}
