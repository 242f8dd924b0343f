package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brensch/tankwar/algorithms"
	"github.com/brensch/tankwar/battle"
	"github.com/brensch/tankwar/game"
)

// shootingBattle ends in round 4 when the side 1 shell wraps into side 2.
func shootingBattle(t *testing.T, id string, observers ...battle.Observer) battle.Result {
	t.Helper()
	factory, _ := algorithms.ScriptedFactory(map[int][][]game.Action{
		1: {{game.Shoot, game.Shoot}},
	})
	m, err := battle.New(battle.Config{
		ID:        id,
		Board:     game.BoardFromRows([]string{"  1  2  "}),
		Rules:     game.DefaultRules(),
		Tanks:     factory,
		Observers: observers,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func TestRowsFromResult(t *testing.T) {
	res := shootingBattle(t, "b1")
	rows := RowsFromResult(res, "unit")
	if len(rows) != 4 {
		t.Fatalf("rows=%d", len(rows))
	}
	first := rows[0]
	if first.BattleID != "b1" || first.Round != 1 || first.Width != 8 || first.Height != 1 || first.Source != "unit" {
		t.Fatalf("first row=%+v", first)
	}
	if first.Tanks[0].Action != "Shoot" || first.Tanks[0].Ammo != int32(game.DefaultRules().NumShells-1) || first.Tanks[0].Dir != "L" {
		t.Fatalf("shooter=%+v", first.Tanks[0])
	}
	if rows[1].Tanks[0].Action != "Shoot" || !rows[1].Tanks[0].Ignored {
		t.Fatalf("second shot should hit the cooldown: %+v", rows[1].Tanks[0])
	}
	last := rows[3]
	if !last.Over || last.Reason != "eliminated" || last.Winner != 1 || !last.Tanks[1].Killed {
		t.Fatalf("last row=%+v", last)
	}
	if string(last.Board) != "  1     " {
		t.Fatalf("board=%q", last.Board)
	}
}

func TestWriteAndReadArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "b.parquet")
	rows := RowsFromResult(shootingBattle(t, "b1"), "unit")
	if err := WriteArchiveParquet(path, rows); err != nil {
		t.Fatalf("WriteArchiveParquet: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("tmp file left behind: %v", err)
	}

	got, err := ReadArchiveParquet(path)
	if err != nil {
		t.Fatalf("ReadArchiveParquet: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("rows=%d want=%d", len(got), len(rows))
	}
	if got[3].Reason != "eliminated" || len(got[3].Tanks) != 2 || got[3].Tanks[1].Killed != true {
		t.Fatalf("last row=%+v", got[3])
	}
}

func TestRecorder_ObservesBattles(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(dir, "unit")
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	shootingBattle(t, "a", rec)
	shootingBattle(t, "b", rec)

	out, rows, battles, err := rec.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if rows != 8 || battles != 2 || !strings.HasPrefix(out, dir) {
		t.Fatalf("out=%s rows=%d battles=%d", out, rows, battles)
	}
	if _, err := os.Stat(rec.TmpPath()); !os.IsNotExist(err) {
		t.Fatalf("tmp file left behind")
	}

	got, err := ReadArchiveParquet(out)
	if err != nil {
		t.Fatalf("ReadArchiveParquet: %v", err)
	}
	if len(got) != 8 || got[0].BattleID != "a" || got[4].BattleID != "b" {
		t.Fatalf("archive rows=%d", len(got))
	}
}

func TestRecorder_EmptyRemovesTmp(t *testing.T) {
	rec, err := NewRecorder(t.TempDir(), "unit")
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	out, rows, _, err := rec.Finalize()
	if err != nil || out != "" || rows != 0 {
		t.Fatalf("out=%q rows=%d err=%v", out, rows, err)
	}
	if _, err := os.Stat(rec.TmpPath()); !os.IsNotExist(err) {
		t.Fatalf("tmp file left behind")
	}
}

func TestSummarizePaths(t *testing.T) {
	dir := t.TempDir()
	if err := WriteArchiveParquet(filepath.Join(dir, "b1.parquet"), RowsFromResult(shootingBattle(t, "b1"), "unit")); err != nil {
		t.Fatalf("write b1: %v", err)
	}

	factory, _ := algorithms.ScriptedFactory(nil)
	r := game.DefaultRules()
	r.MaxSteps = 3
	m, err := battle.New(battle.Config{ID: "b2", Board: game.BoardFromRows([]string{"1 2"}), Rules: r, Tanks: factory})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	res, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := WriteArchiveParquet(filepath.Join(dir, "sub", "b2.parquet"), RowsFromResult(res, "unit")); err != nil {
		t.Fatalf("write b2: %v", err)
	}

	sums, err := SummarizePaths(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("SummarizePaths: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("summaries=%+v", sums)
	}
	b1, b2 := sums[0], sums[1]
	if b1.BattleID != "b1" || b1.Rounds != 4 || b1.Reason != "eliminated" || b1.Winner != 1 ||
		b1.P1Alive != 1 || b1.P2Alive != 0 || b1.Shots != 1 || b1.Ignored != 2 || b1.Kills != 1 {
		t.Fatalf("b1=%+v", b1)
	}
	if b2.BattleID != "b2" || b2.Rounds != 3 || b2.Reason != "max_steps" || b2.Winner != 0 || b2.P1Alive != 1 || b2.P2Alive != 1 {
		t.Fatalf("b2=%+v", b2)
	}
}

func TestOpenArchive_NoPaths(t *testing.T) {
	if _, err := OpenArchive([]string{" "}); err == nil {
		t.Fatalf("expected error")
	}
}
