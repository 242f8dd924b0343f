package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/brensch/tankwar/battle"
)

// Recorder streams frames of one or more battles into a single Parquet file.
// Rows go to outDir/tmp while recording and Finalize moves the file into
// outDir. It implements battle.Observer; the first write error is kept and
// returned by Finalize.
type Recorder struct {
	source string

	tmpPath string
	outPath string

	file   *os.File
	writer *parquet.GenericWriter[ArchiveRoundRow]

	battles map[string]struct{}
	rows    int
	err     error
}

func NewRecorder(outDir, source string) (*Recorder, error) {
	if outDir == "" {
		return nil, fmt.Errorf("outDir is required")
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		absOut = outDir
	}
	tmpDir := filepath.Join(absOut, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("battles_%d.parquet", time.Now().UnixNano())
	tmpPath := filepath.Join(tmpDir, name)
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open tmp parquet: %w", err)
	}

	return &Recorder{
		source:  source,
		tmpPath: tmpPath,
		outPath: filepath.Join(absOut, name),
		file:    f,
		writer:  parquet.NewGenericWriter[ArchiveRoundRow](f, writeOptions()...),
		battles: map[string]struct{}{},
	}, nil
}

func (r *Recorder) TmpPath() string { return r.tmpPath }
func (r *Recorder) OutPath() string { return r.outPath }
func (r *Recorder) Rows() int       { return r.rows }

func (r *Recorder) ObserveRound(f battle.Frame) {
	if r.err != nil {
		return
	}
	if r.writer == nil {
		r.err = fmt.Errorf("recorder is closed")
		return
	}
	if _, err := r.writer.Write([]ArchiveRoundRow{RowFromFrame(f, r.source)}); err != nil {
		r.err = fmt.Errorf("write round %d of %s: %w", f.Round, f.BattleID, err)
		return
	}
	r.battles[f.BattleID] = struct{}{}
	r.rows++
}

// Finalize closes the file and moves it into place. With no rows the
// temporary file is removed and outPath is empty.
func (r *Recorder) Finalize() (outPath string, rows int, battles int, err error) {
	if r.writer == nil && r.file == nil {
		return "", 0, 0, r.err
	}

	var closeErr error
	if r.writer != nil {
		closeErr = r.writer.Close()
		r.writer = nil
	}
	var fileErr error
	if r.file != nil {
		_ = r.file.Sync()
		fileErr = r.file.Close()
		r.file = nil
	}
	switch {
	case r.err != nil:
		_ = os.Remove(r.tmpPath)
		return "", 0, 0, r.err
	case closeErr != nil:
		_ = os.Remove(r.tmpPath)
		return "", 0, 0, fmt.Errorf("close parquet writer: %w", closeErr)
	case fileErr != nil:
		_ = os.Remove(r.tmpPath)
		return "", 0, 0, fmt.Errorf("close parquet file: %w", fileErr)
	}

	if r.rows == 0 {
		_ = os.Remove(r.tmpPath)
		return "", 0, 0, nil
	}
	if err := os.Rename(r.tmpPath, r.outPath); err != nil {
		return "", 0, 0, fmt.Errorf("rename parquet: %w", err)
	}
	return r.outPath, r.rows, len(r.battles), nil
}
