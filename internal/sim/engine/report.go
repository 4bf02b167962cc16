package engine

import (
	"fmt"
	"io"
)

// WriteReport prints the body head to tail, one segment per line.
func (e *Engine) WriteReport(w io.Writer) error {
	for _, s := range e.body {
		if _, err := fmt.Fprintf(w, "count: %d, direction: %s\n", s.Count, s.Dir); err != nil {
			return err
		}
	}
	return nil
}
