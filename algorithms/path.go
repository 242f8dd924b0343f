package algorithms

import "github.com/brensch/tankwar/game"

// FindPath runs a breadth-first search over the torus in all eight directions
// and returns the cells from start to end inclusive, or nil. Open cells and
// tanks are passable. When no such path exists the search is repeated with
// walls passable, since walls can be shot away.
func FindPath(info *BattleInfo, start, end game.Point) []game.Point {
	if path := bfs(info, start, end, false); path != nil {
		return path
	}
	return bfs(info, start, end, true)
}

func passable(c byte, throughWalls bool) bool {
	switch c {
	case game.Empty, game.Tank1, game.Tank2, game.Requesting:
		return true
	case game.Wall:
		return throughWalls
	default:
		return false
	}
}

func bfs(info *BattleInfo, start, end game.Point, throughWalls bool) []game.Point {
	if info.Empty() {
		return nil
	}
	w, h := info.Width, info.Height
	idx := func(p game.Point) int { return p.Y*w + p.X }

	parent := make([]int, w*h)
	for i := range parent {
		parent[i] = -2
	}
	start, end = info.Wrap(start), info.Wrap(end)
	parent[idx(start)] = -1
	queue := []game.Point{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == end {
			var path []game.Point
			for i := idx(cur); i != -1; i = parent[i] {
				path = append(path, game.Point{X: i % w, Y: i / w})
			}
			for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
				path[l], path[r] = path[r], path[l]
			}
			return path
		}
		for _, d := range game.Directions {
			n := info.Wrap(game.Point{X: cur.X + d.DX, Y: cur.Y + d.DY})
			if parent[idx(n)] != -2 || !passable(info.At(n), throughWalls) {
				continue
			}
			parent[idx(n)] = idx(cur)
			queue = append(queue, n)
		}
	}
	return nil
}

// StepDirection is the direction from a to a neighbouring cell b, taking
// wraparound into account.
func StepDirection(a, b game.Point) game.Direction {
	norm := func(d int) int {
		switch {
		case d > 1:
			return -1
		case d < -1:
			return 1
		default:
			return d
		}
	}
	return game.Direction{DX: norm(b.X - a.X), DY: norm(b.Y - a.Y)}
}

// straight reports whether every step of path has the same direction.
func straight(path []game.Point) bool {
	if len(path) < 2 {
		return true
	}
	first := StepDirection(path[0], path[1])
	for i := 1; i < len(path)-1; i++ {
		if StepDirection(path[i], path[i+1]) != first {
			return false
		}
	}
	return true
}
