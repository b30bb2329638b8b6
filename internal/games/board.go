package games

const (
	BoardWidth  = 6
	BoardHeight = 10
)

// Cell holds a stack of same-colored balls. CriticalMass equals the number
// of in-grid orthogonal neighbors (2, 3 or 4); reaching it explodes the cell.
type Cell struct {
	Balls        []string `json:"balls"`
	X            int      `json:"x"`
	Y            int      `json:"y"`
	CriticalMass int      `json:"critical_mass"`
}

// Board is indexed rows-first: board[y][x].
type Board [][]Cell

func NewBoard() Board {
	board := make(Board, BoardHeight)
	for y := range board {
		row := make([]Cell, BoardWidth)
		for x := range row {
			row[x] = Cell{
				Balls:        []string{},
				X:            x,
				Y:            y,
				CriticalMass: len(neighbors(x, y)),
			}
		}
		board[y] = row
	}
	return board
}

func (b Board) At(x, y int) *Cell {
	return &b[y][x]
}

func inBounds(x, y int) bool {
	return x >= 0 && x < BoardWidth && y >= 0 && y < BoardHeight
}

// neighbors returns the in-grid orthogonal neighbors of (x, y).
func neighbors(x, y int) [][2]int {
	adjacent := make([][2]int, 0, 4)
	for _, d := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nx, ny := x+d[0], y+d[1]
		if inBounds(nx, ny) {
			adjacent = append(adjacent, [2]int{nx, ny})
		}
	}
	return adjacent
}

func (b Board) TotalBalls() int {
	total := 0
	for y := range b {
		for x := range b[y] {
			total += len(b[y][x].Balls)
		}
	}
	return total
}

func (b Board) ColorCounts() map[string]int {
	counts := make(map[string]int)
	for y := range b {
		for x := range b[y] {
			for _, color := range b[y][x].Balls {
				counts[color]++
			}
		}
	}
	return counts
}

// SingleColor reports whether the board holds at least one ball and every
// ball shares one color.
func (b Board) SingleColor() (string, bool) {
	counts := b.ColorCounts()
	if len(counts) != 1 {
		return "", false
	}
	for color := range counts {
		return color, true
	}
	return "", false
}

func (b Board) dominantColor() string {
	counts := b.ColorCounts()
	best := ""
	bestCount := 0
	for _, color := range chainColors {
		if counts[color] > bestCount {
			best = color
			bestCount = counts[color]
		}
	}
	return best
}
