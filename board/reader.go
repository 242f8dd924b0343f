// Package board reads battle layouts from text files.
//
// A layout file starts with a free-form name line followed by four headers
// and the board rows:
//
//	Training map
//	MaxSteps = 5000
//	NumShells = 20
//	Rows = 4
//	Cols = 10
//	#### ## ##
//	# 1    2 #
//	#   @@   #
//	##########
//
// Problems in the rows are repaired and reported as warnings. Problems in the
// headers are errors.
package board

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/brensch/tankwar/game"
)

// Layout is a parsed board file.
type Layout struct {
	Name      string
	MaxSteps  int
	NumShells int
	Board     *game.Board
	Warnings  []string

	Tanks1 int
	Tanks2 int
}

type header struct {
	key string
	dst *int
}

// ReadFile reads a board file, wrapping any error with its path.
func ReadFile(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open board: %w", err)
	}
	defer f.Close()

	l, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read board %s: %w", path, err)
	}
	return l, nil
}

// Read parses a board. Header problems are errors; repairable row problems
// are collected in Layout.Warnings.
func Read(r io.Reader) (*Layout, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		line++
		return strings.TrimRight(sc.Text(), "\r"), true
	}

	l := &Layout{}
	name, ok := next()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("file is empty")
	}
	l.Name = strings.TrimSpace(name)

	var rows, cols int
	for _, h := range []header{
		{"MaxSteps", &l.MaxSteps},
		{"NumShells", &l.NumShells},
		{"Rows", &rows},
		{"Cols", &cols},
	} {
		text, ok := next()
		if !ok {
			return nil, fmt.Errorf("%s not specified", h.key)
		}
		key, v, err := parseHeader(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", line, h.key, err)
		}
		if !strings.EqualFold(key, h.key) && !(h.key == "Cols" && strings.EqualFold(key, "Columns")) {
			l.warnf("line %d: expected %s header, found %q; using its value", line, h.key, key)
		}
		*h.dst = v
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("board dimensions must be positive, got %dx%d", cols, rows)
	}

	l.Board = game.NewBoard(cols, rows)
	y := 0
	for {
		text, ok := next()
		if !ok {
			break
		}
		if y >= rows {
			l.warnf("file has more rows than specified height; extra rows ignored")
			break
		}
		l.readRow(text, line, y, cols)
		y++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if y < rows {
		l.warnf("file has %d rows but height is %d; added empty rows", y, rows)
	}

	switch {
	case l.Tanks1 == 0 && l.Tanks2 == 0:
		l.warnf("no tanks found for either player; the battle is an immediate tie")
	case l.Tanks1 == 0:
		l.warnf("no tanks found for player 1; player 1 loses immediately")
	case l.Tanks2 == 0:
		l.warnf("no tanks found for player 2; player 2 loses immediately")
	}
	return l, nil
}

func (l *Layout) readRow(text string, line, y, cols int) {
	if len(text) < cols {
		l.warnf("line %d is shorter than width %d; padded with empty cells", line, cols)
	} else if len(text) > cols {
		l.warnf("line %d is longer than width %d; extra characters ignored", line, cols)
		text = text[:cols]
	}
	for x := 0; x < len(text); x++ {
		c := text[x]
		switch c {
		case game.Tank1:
			l.Tanks1++
		case game.Tank2:
			l.Tanks2++
		case game.Wall, game.Mine, game.Empty:
		default:
			l.warnf("invalid character %q at line %d, position %d; replaced with empty cell", c, line, x)
			c = game.Empty
		}
		l.Board.Set(game.Point{X: x, Y: y}, c)
	}
}

func (l *Layout) warnf(format string, args ...any) {
	l.Warnings = append(l.Warnings, fmt.Sprintf(format, args...))
}

// Rules overrides the per-board settings of base.
func (l *Layout) Rules(base game.Rules) game.Rules {
	base.MaxSteps = l.MaxSteps
	base.NumShells = l.NumShells
	return base
}

// parseHeader splits "Key = 12". The value is the last space separated field
// after the equals sign.
func parseHeader(text string) (string, int, error) {
	key, value, ok := strings.Cut(text, "=")
	if !ok {
		return "", 0, fmt.Errorf("invalid format %q: missing '='", text)
	}
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return "", 0, fmt.Errorf("invalid format %q: missing value", text)
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || n < 0 {
		return "", 0, fmt.Errorf("invalid format %q: expecting an unsigned integer", text)
	}
	return strings.TrimSpace(key), n, nil
}
