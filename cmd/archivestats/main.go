// Command archivestats summarizes archived battles.
//
//	archivestats [-json] <archive-dir-or-file>...
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/brensch/tankwar/store"
)

func main() {
	asJSON := flag.Bool("json", false, "Print summaries as JSON lines")
	timeout := flag.Duration("timeout", 2*time.Minute, "Query timeout")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		if env := os.Getenv("TANKWAR_ARCHIVE_DIR"); env != "" {
			paths = strings.Split(env, ",")
		}
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: archivestats [-json] <archive-dir-or-file>...")
		os.Exit(2)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(sigCtx, *timeout)
	defer cancel()

	sums, err := store.SummarizePaths(ctx, paths)
	if err != nil {
		log.Fatalf("Failed to summarize archives: %v", err)
	}
	if err := printSummaries(os.Stdout, sums, *asJSON); err != nil {
		log.Fatalf("Failed to print summaries: %v", err)
	}
}

func printSummaries(w io.Writer, sums []store.BattleSummary, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		for _, s := range sums {
			if err := enc.Encode(s); err != nil {
				return err
			}
		}
		return nil
	}

	if _, err := fmt.Fprintf(w, "%-36s  %-16s  %6s  %-10s  %6s  %5s  %5s  %5s  %7s  %5s\n",
		"BATTLE", "SOURCE", "ROUNDS", "REASON", "WINNER", "P1", "P2", "SHOTS", "IGNORED", "KILLS"); err != nil {
		return err
	}
	var p1, p2, ties int
	for _, s := range sums {
		winner := "tie"
		switch s.Winner {
		case 1:
			winner = "1"
			p1++
		case 2:
			winner = "2"
			p2++
		default:
			if s.Over {
				ties++
			}
		}
		if !s.Over {
			winner = "-"
		}
		if _, err := fmt.Fprintf(w, "%-36s  %-16s  %6d  %-10s  %6s  %5d  %5d  %5d  %7d  %5d\n",
			s.BattleID, s.Source, s.Rounds, s.Reason, winner, s.P1Alive, s.P2Alive, s.Shots, s.Ignored, s.Kills); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%d battles: player 1 won %d, player 2 won %d, %d ties\n", len(sums), p1, p2, ties)
	return err
}
