// Command tankbattle plays one battle on a board file and writes the round
// log next to it.
//
//	tankbattle [flags] <board-file>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/tankwar/battle"
	"github.com/brensch/tankwar/board"
	"github.com/brensch/tankwar/config"
	"github.com/brensch/tankwar/game"
	"github.com/brensch/tankwar/logging"
	"github.com/brensch/tankwar/output"
	"github.com/brensch/tankwar/store"
	"github.com/brensch/tankwar/stream"
)

type options struct {
	boardPath  string
	configPath string
	outPath    string
	errorsPath string
	archiveDir string
	// archiveFile receives the whole battle as one parquet file after the run.
	archiveFile string
	wsAddr      string
	roundDelay  time.Duration
	maxSteps    int
	logger      *slog.Logger

	// observers are extra frame sinks, such as the TUI.
	observers []battle.Observer
	// onListen reports the websocket listener address once it is bound.
	onListen func(addr string)
}

func main() {
	configPath := flag.String("config", getEnvOrDefault("TANKWAR_CONFIG", ""), "Optional YAML rules file")
	outPath := flag.String("out", getEnvOrDefault("TANKWAR_OUT", ""), "Round log path (default output_<board>.txt next to the board)")
	errorsPath := flag.String("errors-file", getEnvOrDefault("TANKWAR_ERRORS_FILE", "input_errors.txt"), "Where recoverable board problems are written")
	archiveDir := flag.String("archive-dir", getEnvOrDefault("TANKWAR_ARCHIVE_DIR", ""), "If set, archive rounds as parquet into this directory")
	archiveFile := flag.String("archive-file", getEnvOrDefault("TANKWAR_ARCHIVE_FILE", ""), "If set, write the finished battle to this parquet file")
	wsAddr := flag.String("ws-addr", getEnvOrDefault("TANKWAR_WS_ADDR", ""), "If set, stream rounds to websocket viewers at ws://<addr>/ws")
	roundDelay := flag.Duration("round-delay", getEnvDurationOrDefault("TANKWAR_ROUND_DELAY", 0), "Pause after every round, for live viewers")
	maxSteps := flag.Int("max-steps", getEnvIntOrDefault("TANKWAR_MAX_STEPS", 0), "If > 0, override the board's MaxSteps")
	useTUI := flag.Bool("tui", getEnvBoolOrDefault("TANKWAR_TUI", false), "Show the battle in a terminal UI")
	logFormat := flag.String("log-format", getEnvOrDefault("TANKWAR_LOG_FORMAT", "pretty"), "Log format: pretty, json or text")
	logLevel := flag.String("log-level", getEnvOrDefault("TANKWAR_LOG_LEVEL", "info"), "Log level: debug, info, warn or error")
	logFile := flag.String("log-file", getEnvOrDefault("TANKWAR_LOG_FILE", ""), "Write logs here instead of stderr (default tankbattle.log with -tui)")
	flag.Parse()

	boardPath := flag.Arg(0)
	if boardPath == "" {
		boardPath = os.Getenv("TANKWAR_BOARD")
	}
	if boardPath == "" || flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <board-file>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(2)
	}

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("Invalid -log-level: %v", err)
	}
	var logOut io.Writer = os.Stderr
	if *logFile == "" && *useTUI {
		*logFile = "tankbattle.log"
	}
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logOut = f
		log.SetOutput(f)
	}
	logger, err := logging.New(logOut, *logFormat, level)
	if err != nil {
		log.Fatalf("Invalid -log-format: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := options{
		boardPath:   boardPath,
		configPath:  *configPath,
		outPath:     *outPath,
		errorsPath:  *errorsPath,
		archiveDir:  *archiveDir,
		archiveFile: *archiveFile,
		wsAddr:      *wsAddr,
		roundDelay:  *roundDelay,
		maxSteps:    *maxSteps,
		logger:      logger,
		onListen: func(addr string) {
			log.Printf("Streaming rounds on ws://%s/ws", addr)
		},
	}

	if !*useTUI {
		summary, err := run(ctx, opts)
		if err != nil {
			log.Fatalf("Battle failed: %v", err)
		}
		fmt.Println(summary)
		return
	}

	updates := make(chan tea.Msg, 16)
	opts.observers = append(opts.observers, battle.ObserverFunc(func(f battle.Frame) {
		select {
		case updates <- f:
		case <-ctx.Done():
		}
	}))
	if opts.roundDelay == 0 {
		opts.roundDelay = 150 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		summary, err := run(ctx, opts)
		select {
		case updates <- doneMsg{summary: summary, err: err}:
		case <-ctx.Done():
		}
	}()

	p := tea.NewProgram(newModel(filepath.Base(boardPath), updates), tea.WithAltScreen())
	final, err := p.Run()
	cancel()
	if err != nil {
		log.Fatal(err)
	}
	if m, ok := final.(model); ok && m.done {
		if m.err != nil {
			log.Fatalf("Battle failed: %v", m.err)
		}
		fmt.Println(m.summary)
	}
}

func defaultOutPath(boardPath string) string {
	base := strings.TrimSuffix(filepath.Base(boardPath), filepath.Ext(boardPath))
	return filepath.Join(filepath.Dir(boardPath), "output_"+base+".txt")
}

// run plays one battle and returns the final result line.
func run(ctx context.Context, opts options) (string, error) {
	logger := opts.logger
	if logger == nil {
		logger = logging.Discard()
	}

	layout, err := board.ReadFile(opts.boardPath)
	if err != nil {
		return "", err
	}
	if len(layout.Warnings) > 0 && opts.errorsPath != "" {
		for _, w := range layout.Warnings {
			logger.Warn("board input", "board", opts.boardPath, "problem", w)
		}
		if err := os.WriteFile(opts.errorsPath, []byte(strings.Join(layout.Warnings, "\n")+"\n"), 0o644); err != nil {
			return "", fmt.Errorf("write input errors: %w", err)
		}
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return "", err
	}
	rules := cfg.Apply(layout.Rules(game.DefaultRules()))
	if opts.maxSteps > 0 {
		rules.MaxSteps = opts.maxSteps
	}

	outPath := opts.outPath
	if outPath == "" {
		outPath = defaultOutPath(opts.boardPath)
	}
	outFile, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create output: %w", err)
	}
	defer outFile.Close()
	writer := output.NewWriter(outFile)

	observers := []battle.Observer{writer}

	var recorder *store.Recorder
	if opts.archiveDir != "" {
		recorder, err = store.NewRecorder(opts.archiveDir, filepath.Base(opts.boardPath))
		if err != nil {
			return "", fmt.Errorf("open archive: %w", err)
		}
		observers = append(observers, recorder)
	}

	var hub *stream.Hub
	if opts.wsAddr != "" {
		hub = stream.NewHub(logger)
		defer hub.Close()
		ln, err := net.Listen("tcp", opts.wsAddr)
		if err != nil {
			return "", fmt.Errorf("listen %s: %w", opts.wsAddr, err)
		}
		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("websocket server stopped", "error", err)
			}
		}()
		defer srv.Close()
		if opts.onListen != nil {
			opts.onListen(ln.Addr().String())
		}
		observers = append(observers, hub)
	}

	observers = append(observers, opts.observers...)
	if opts.roundDelay > 0 {
		observers = append(observers, battle.ObserverFunc(func(battle.Frame) {
			select {
			case <-time.After(opts.roundDelay):
			case <-ctx.Done():
			}
		}))
	}

	m, err := battle.New(battle.Config{
		Board:     layout.Board,
		Rules:     rules,
		Observers: observers,
		Logger:    logger.With("board", layout.Name),
	})
	if err != nil {
		return "", err
	}

	res, runErr := m.Run(ctx)
	if runErr != nil {
		if recorder != nil {
			_, _, _, _ = recorder.Finalize()
		}
		return "", runErr
	}

	if err := writer.Finish(res.Summary); err != nil {
		return "", err
	}
	if hub != nil {
		hub.Finish(res)
	}
	if recorder != nil {
		path, rows, _, err := recorder.Finalize()
		if err != nil {
			return "", fmt.Errorf("finalize archive: %w", err)
		}
		logger.Info("archive written", "path", path, "rows", rows)
	}
	if opts.archiveFile != "" {
		rows := store.RowsFromResult(res, filepath.Base(opts.boardPath))
		if err := store.WriteArchiveParquet(opts.archiveFile, rows); err != nil {
			return "", fmt.Errorf("write archive file: %w", err)
		}
		logger.Info("archive file written", "path", opts.archiveFile, "rows", len(rows))
	}
	logger.Info("output written", "path", outPath, "rounds", len(res.History))
	return res.Summary, nil
}
