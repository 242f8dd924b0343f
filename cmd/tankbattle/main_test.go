package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brensch/tankwar/store"
)

func writeBoard(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "arena.txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const shootingBoard = "Shooting lane\nMaxSteps = 100\nNumShells = 1\nRows = 1\nCols = 8\n  2  1  \n"

func TestRun_WritesOutputAndArchive(t *testing.T) {
	dir := t.TempDir()
	boardPath := writeBoard(t, dir, shootingBoard)
	errorsPath := filepath.Join(dir, "input_errors.txt")

	summary, err := run(context.Background(), options{
		boardPath:  boardPath,
		errorsPath: errorsPath,
		archiveDir: filepath.Join(dir, "archive"),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "output_arena.txt"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if lines[len(lines)-1] != summary || len(lines) < 2 {
		t.Fatalf("output:\n%s\nsummary=%q", out, summary)
	}
	if !strings.HasPrefix(lines[0], "GetBattleInfo") {
		t.Fatalf("first round=%q", lines[0])
	}
	if _, err := os.Stat(errorsPath); !os.IsNotExist(err) {
		t.Fatalf("errors file written for a clean board")
	}

	sums, err := store.SummarizePaths(context.Background(), []string{filepath.Join(dir, "archive")})
	if err != nil {
		t.Fatalf("SummarizePaths: %v", err)
	}
	if len(sums) != 1 || sums[0].Rounds != int64(len(lines)-1) || sums[0].Source != "arena.txt" {
		t.Fatalf("summaries=%+v rounds=%d", sums, len(lines)-1)
	}
}

func TestRun_WritesArchiveFile(t *testing.T) {
	dir := t.TempDir()
	boardPath := writeBoard(t, dir, shootingBoard)
	archivePath := filepath.Join(dir, "out", "battle.parquet")

	if _, err := run(context.Background(), options{
		boardPath:   boardPath,
		errorsPath:  filepath.Join(dir, "input_errors.txt"),
		archiveFile: archivePath,
		maxSteps:    6,
	}); err != nil {
		t.Fatalf("run: %v", err)
	}

	rows, err := store.ReadArchiveParquet(archivePath)
	if err != nil {
		t.Fatalf("ReadArchiveParquet: %v", err)
	}
	if len(rows) == 0 || len(rows) > 6 {
		t.Fatalf("rows=%d", len(rows))
	}
	last := rows[len(rows)-1]
	if !last.Over || int(last.Round) != len(rows) || last.Source != "arena.txt" {
		t.Fatalf("last row=%+v", last)
	}
}

func TestRun_WritesInputErrors(t *testing.T) {
	dir := t.TempDir()
	boardPath := writeBoard(t, dir, "Bad\nMaxSteps = 3\nNumShells = 0\nRows = 2\nCols = 4\n1 x2\n")
	errorsPath := filepath.Join(dir, "input_errors.txt")
	outPath := filepath.Join(dir, "custom.txt")

	summary, err := run(context.Background(), options{boardPath: boardPath, errorsPath: errorsPath, outPath: outPath})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(summary, "Tie, reached max steps = 3") {
		t.Fatalf("summary=%q", summary)
	}
	problems, err := os.ReadFile(errorsPath)
	if err != nil {
		t.Fatalf("read errors: %v", err)
	}
	if !strings.Contains(string(problems), "invalid character 'x'") || !strings.Contains(string(problems), "added empty rows") {
		t.Fatalf("errors file:\n%s", problems)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("custom output missing: %v", err)
	}
}

func TestRun_ConfigAndMaxStepsOverride(t *testing.T) {
	dir := t.TempDir()
	boardPath := writeBoard(t, dir, "Idle\nMaxSteps = 500\nNumShells = 0\nRows = 1\nCols = 4\n1  2\n")
	cfgPath := filepath.Join(dir, "rules.yaml")
	if err := os.WriteFile(cfgPath, []byte("rules:\n  no_ammo_rounds: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	summary, err := run(context.Background(), options{boardPath: boardPath, configPath: cfgPath})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary != "Tie, both players have zero shells for 5 steps" {
		t.Fatalf("summary=%q", summary)
	}

	summary, err = run(context.Background(), options{boardPath: boardPath, maxSteps: 2})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary != "Tie, reached max steps = 2, player 1 has 1 tanks, player 2 has 1 tanks" {
		t.Fatalf("summary=%q", summary)
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(context.Background(), options{boardPath: filepath.Join(dir, "missing.txt")}); err == nil {
		t.Fatalf("expected error for missing board")
	}
	boardPath := writeBoard(t, dir, shootingBoard)
	if _, err := run(context.Background(), options{boardPath: boardPath, configPath: filepath.Join(dir, "missing.yaml")}); err == nil {
		t.Fatalf("expected error for missing config")
	}
}

func TestRun_StreamsToViewer(t *testing.T) {
	dir := t.TempDir()
	boardPath := writeBoard(t, dir, shootingBoard)

	got := make(chan string, 256)
	connected := make(chan struct{})
	opts := options{
		boardPath:  boardPath,
		wsAddr:     "127.0.0.1:0",
		roundDelay: 20 * time.Millisecond,
		onListen: func(addr string) {
			conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr+"/ws", nil)
			if err != nil {
				t.Errorf("dial: %v", err)
				close(connected)
				return
			}
			go func() {
				defer conn.Close()
				for {
					var m map[string]any
					if err := conn.ReadJSON(&m); err != nil {
						close(got)
						return
					}
					got <- m["type"].(string)
				}
			}()
			close(connected)
			// Give the hub a moment to register the viewer.
			time.Sleep(50 * time.Millisecond)
		},
	}

	if _, err := run(context.Background(), opts); err != nil {
		t.Fatalf("run: %v", err)
	}
	<-connected

	var types []string
	for typ := range got {
		types = append(types, typ)
	}
	if len(types) < 2 || types[0] != "round" || types[len(types)-1] != "result" {
		t.Fatalf("stream types=%v", types)
	}
}

func TestDefaultOutPath(t *testing.T) {
	if got := defaultOutPath(filepath.Join("maps", "big.board.txt")); got != filepath.Join("maps", "output_big.board.txt") {
		t.Fatalf("defaultOutPath=%q", got)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TANKWAR_TEST_INT", "12")
	t.Setenv("TANKWAR_TEST_BOOL", "yes")
	t.Setenv("TANKWAR_TEST_DUR", "250ms")
	if getEnvIntOrDefault("TANKWAR_TEST_INT", 1) != 12 || getEnvIntOrDefault("TANKWAR_TEST_MISSING", 3) != 3 {
		t.Fatalf("int helper")
	}
	if !getEnvBoolOrDefault("TANKWAR_TEST_BOOL", false) {
		t.Fatalf("bool helper")
	}
	if getEnvDurationOrDefault("TANKWAR_TEST_DUR", time.Second) != 250*time.Millisecond {
		t.Fatalf("duration helper")
	}
	if getEnvOrDefault("TANKWAR_TEST_MISSING", "x") != "x" {
		t.Fatalf("string helper")
	}
	t.Setenv("TANKWAR_TEST_INT", "many")
	if getEnvIntOrDefault("TANKWAR_TEST_INT", 5) != 5 {
		t.Fatalf("unparseable int should fall back")
	}
}
