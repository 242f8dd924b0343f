// Package output renders battle rounds in the plain text log format: one line
// per round listing every tank in creation order, then a final result line.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/brensch/tankwar/battle"
)

// RoundLine formats one round.
func RoundLine(f battle.Frame) string {
	parts := make([]string, len(f.Tanks))
	for i, t := range f.Tanks {
		if !t.AliveAtStart {
			parts[i] = "killed"
			continue
		}
		var b strings.Builder
		b.WriteString(t.Action.String())
		if t.Ignored {
			b.WriteString(" (ignored)")
		}
		if t.Killed {
			b.WriteString(" (killed)")
		}
		parts[i] = b.String()
	}
	return strings.Join(parts, ", ")
}

// Writer streams round lines to an io.Writer as a battle.Observer. The first
// write error is kept and returned by Close; later rounds are dropped.
type Writer struct {
	w   *bufio.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) ObserveRound(f battle.Frame) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintln(w.w, RoundLine(f))
}

// Finish writes the result line and flushes.
func (w *Writer) Finish(summary string) error {
	if w.err == nil {
		_, w.err = fmt.Fprintln(w.w, summary)
	}
	if w.err != nil {
		return fmt.Errorf("write output: %w", w.err)
	}
	if err := w.w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

// WriteResult renders a finished battle in one go.
func WriteResult(w io.Writer, res battle.Result) error {
	ow := NewWriter(w)
	for _, f := range res.History {
		ow.ObserveRound(f)
	}
	return ow.Finish(res.Summary)
}
