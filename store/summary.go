package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
)

// BattleSummary aggregates the archived rounds of one battle.
type BattleSummary struct {
	BattleID string
	Source   string
	Rounds   int64
	Over     bool
	Reason   string
	Winner   int64
	P1Alive  int64
	P2Alive  int64
	Shots    int64
	Ignored  int64
	Kills    int64
}

// OpenArchive returns an in-memory DuckDB with a "rounds" view over the given
// archive files or directories. Directories are searched recursively, and
// files under a tmp/ directory are skipped.
func OpenArchive(paths []string) (*sql.DB, error) {
	globs := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if st, err := os.Stat(p); err == nil && st.IsDir() {
			p = filepath.Join(p, "**", "*.parquet")
		}
		globs = append(globs, "'"+escapeSQLString(p)+"'")
	}
	if len(globs) == 0 {
		return nil, fmt.Errorf("no archive paths given")
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	_, _ = db.Exec("PRAGMA threads=4")

	sqlText := `CREATE OR REPLACE VIEW rounds AS
		SELECT * FROM read_parquet([` + strings.Join(globs, ",") + `], filename=true, union_by_name=true)
		WHERE NOT contains(filename, '/tmp/')`
	if _, err := db.Exec(sqlText); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create rounds view: %w", err)
	}
	return db, nil
}

func escapeSQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

const summaryQuery = `
WITH last_round AS (
	SELECT battle_id, MAX(round) AS rounds
	FROM rounds
	GROUP BY battle_id
),
final AS (
	SELECT r.battle_id, r.source, r.round, r.over, r.reason, r.winner, r.tanks
	FROM rounds r
	JOIN last_round l ON l.battle_id = r.battle_id AND r.round = l.rounds
),
alive AS (
	SELECT battle_id,
		SUM(CASE WHEN t.alive AND t.side = 1 THEN 1 ELSE 0 END)::BIGINT AS p1_alive,
		SUM(CASE WHEN t.alive AND t.side = 2 THEN 1 ELSE 0 END)::BIGINT AS p2_alive
	FROM final, UNNEST(tanks) AS u(t)
	GROUP BY battle_id
),
actions AS (
	SELECT battle_id,
		SUM(CASE WHEN t.action = 'Shoot' AND t.alive_at_start AND NOT t.ignored THEN 1 ELSE 0 END)::BIGINT AS shots,
		SUM(CASE WHEN t.alive_at_start AND t.ignored THEN 1 ELSE 0 END)::BIGINT AS ignored,
		SUM(CASE WHEN t.killed THEN 1 ELSE 0 END)::BIGINT AS kills
	FROM rounds, UNNEST(tanks) AS u(t)
	GROUP BY battle_id
)
SELECT
	f.battle_id,
	COALESCE(f.source, '') AS source,
	f.round::BIGINT,
	f.over,
	f.reason,
	f.winner::BIGINT,
	COALESCE(a.p1_alive, 0)::BIGINT,
	COALESCE(a.p2_alive, 0)::BIGINT,
	COALESCE(c.shots, 0)::BIGINT,
	COALESCE(c.ignored, 0)::BIGINT,
	COALESCE(c.kills, 0)::BIGINT
FROM final f
LEFT JOIN alive a ON a.battle_id = f.battle_id
LEFT JOIN actions c ON c.battle_id = f.battle_id
ORDER BY f.battle_id`

// Summarize returns one summary per archived battle, ordered by battle ID.
func Summarize(ctx context.Context, db *sql.DB) ([]BattleSummary, error) {
	rows, err := db.QueryContext(ctx, summaryQuery)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []BattleSummary
	for rows.Next() {
		var s BattleSummary
		if err := rows.Scan(&s.BattleID, &s.Source, &s.Rounds, &s.Over, &s.Reason, &s.Winner,
			&s.P1Alive, &s.P2Alive, &s.Shots, &s.Ignored, &s.Kills); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summaries: %w", err)
	}
	return out, nil
}

// SummarizePaths opens the archives, summarizes them and closes the database.
func SummarizePaths(ctx context.Context, paths []string) ([]BattleSummary, error) {
	db, err := OpenArchive(paths)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return Summarize(ctx, db)
}
