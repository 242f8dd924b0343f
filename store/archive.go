// Package store archives battles as Parquet files and queries them with DuckDB.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/brensch/tankwar/battle"
)

const archiveSchema = "archive_round_v1"

// ArchiveRoundRow is one finished round of one battle.
//
// Rounds are stored with nested tank records so the board is not repeated per
// tank. Reason and Winner carry the verdict as of this round; only the last
// round of a battle has Over set.
type ArchiveRoundRow struct {
	BattleID string `parquet:"battle_id,dict"`
	Round    int32  `parquet:"round"`
	Width    int32  `parquet:"width"`
	Height   int32  `parquet:"height"`

	// Board is the grid after the round, rows joined by '\n'.
	Board  []byte `parquet:"board,zstd"`
	Shells int32  `parquet:"shells"`

	Tanks []ArchiveTank `parquet:"tanks"`

	Over   bool   `parquet:"over"`
	Reason string `parquet:"reason,dict"`
	Winner int32  `parquet:"winner"`

	Source string `parquet:"source,dict"`
}

type ArchiveTank struct {
	ID           int32  `parquet:"id"`
	Side         int32  `parquet:"side"`
	X            int32  `parquet:"x"`
	Y            int32  `parquet:"y"`
	Dir          string `parquet:"dir,dict"`
	Alive        bool   `parquet:"alive"`
	Ammo         int32  `parquet:"ammo"`
	Cooldown     int32  `parquet:"cooldown"`
	AliveAtStart bool   `parquet:"alive_at_start"`
	Action       string `parquet:"action,dict"`
	Ignored      bool   `parquet:"ignored"`
	Killed       bool   `parquet:"killed"`
}

// RowFromFrame converts a round frame. Source labels where the battle came
// from, for example the board file name.
func RowFromFrame(f battle.Frame, source string) ArchiveRoundRow {
	row := ArchiveRoundRow{
		BattleID: f.BattleID,
		Round:    int32(f.Round),
		Height:   int32(len(f.Board)),
		Board:    []byte(strings.Join(f.Board, "\n")),
		Shells:   int32(f.Shells),
		Tanks:    make([]ArchiveTank, len(f.Tanks)),
		Over:     f.Verdict.Over,
		Reason:   f.Verdict.Reason.String(),
		Winner:   int32(f.Verdict.Winner),
		Source:   source,
	}
	if len(f.Board) > 0 {
		row.Width = int32(len(f.Board[0]))
	}
	for i, t := range f.Tanks {
		row.Tanks[i] = ArchiveTank{
			ID:           int32(t.ID),
			Side:         int32(t.Side),
			X:            int32(t.Pos.X),
			Y:            int32(t.Pos.Y),
			Dir:          t.Dir.String(),
			Alive:        t.Alive,
			Ammo:         int32(t.Ammo),
			Cooldown:     int32(t.Cooldown),
			AliveAtStart: t.AliveAtStart,
			Action:       t.Action.String(),
			Ignored:      t.Ignored,
			Killed:       t.Killed,
		}
	}
	return row
}

func RowsFromResult(res battle.Result, source string) []ArchiveRoundRow {
	rows := make([]ArchiveRoundRow, len(res.History))
	for i, f := range res.History {
		rows[i] = RowFromFrame(f, source)
	}
	return rows
}

func writeOptions() []parquet.WriterOption {
	return []parquet.WriterOption{
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.SkipPageBounds("board"),
		parquet.KeyValueMetadata("schema", archiveSchema),
	}
}

// WriteArchiveParquet writes rows to outPath through a temporary file so
// readers never see a partial archive.
func WriteArchiveParquet(outPath string, rows []ArchiveRoundRow) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows, writeOptions()...); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// ReadArchiveParquet loads every row of one archive file.
func ReadArchiveParquet(path string) ([]ArchiveRoundRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	reader := parquet.NewGenericReader[ArchiveRoundRow](f)
	defer reader.Close()

	out := make([]ArchiveRoundRow, 0, reader.NumRows())
	buf := make([]ArchiveRoundRow, 256)
	for {
		n, err := reader.Read(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive %s: %w", path, err)
		}
		if n == 0 {
			break
		}
	}
	return out, nil
}
