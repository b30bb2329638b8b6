package games

import "reaction-games/internal/engine"

// Event time pacing, in seconds. These are presentation hints for the client
// animation; the server orders events by emission.
const (
	explosionStagger = 0.5
	spreadDelay      = 0.5
	levelGap         = 1.5
)

// runCascade resolves the chain reaction started by the cell at (x, y)
// reaching critical mass. The cascade is breadth-first and level-synchronous:
// every cell at or above critical mass explodes together in one level, in the
// order it was enqueued, before any newly critical neighbor is considered.
//
// An explosion clears its cell and adds exactly one ball of the exploding
// color to each orthogonal neighbor, capturing the neighbor's whole stack.
// Balls are conserved: a cell with k balls exploding into n neighbors is a
// net change of n-k across the board.
func runCascade(board Board, x, y int) []engine.Event {
	queue := [][2]int{{x, y}}
	events := []engine.Event{}
	eventTime := 0.0

	for len(queue) > 0 {
		// Collect this level's frontier. The same cell can be enqueued
		// twice from two simultaneous spreads, so each entry is checked
		// again right before it explodes.
		batch := make([][2]int, 0, len(queue))
		for _, pos := range queue {
			cell := board.At(pos[0], pos[1])
			if len(cell.Balls) >= cell.CriticalMass {
				batch = append(batch, pos)
			}
		}

		next := make([][2]int, 0)
		cellDelay := 0.0
		exploded := 0
		for _, pos := range batch {
			cx, cy := pos[0], pos[1]
			cell := board.At(cx, cy)
			if len(cell.Balls) < cell.CriticalMass {
				continue
			}
			color := cell.Balls[0]
			explosionTime := eventTime + cellDelay
			events = append(events, engine.Event{
				Type:      engine.EventExplosion,
				X:         cx,
				Y:         cy,
				Color:     color,
				BallCount: len(cell.Balls),
				Time:      explosionTime,
			})
			cell.Balls = []string{}

			for _, adj := range neighbors(cx, cy) {
				ax, ay := adj[0], adj[1]
				adjCell := board.At(ax, ay)
				count := len(adjCell.Balls) + 1
				adjCell.Balls = repeatColor(color, count)
				events = append(events, engine.Event{
					Type:  engine.EventSpread,
					X:     ax,
					Y:     ay,
					FromX: cx,
					FromY: cy,
					Color: color,
					Time:  explosionTime + spreadDelay,
				})
				if count >= adjCell.CriticalMass {
					next = append(next, [2]int{ax, ay})
				}
			}
			cellDelay += explosionStagger
			exploded++
		}

		if exploded == 0 {
			break
		}
		// Once one color holds the whole board the game is decided;
		// further explosions would only shuffle the same stacks and can
		// cycle forever on a saturated board.
		if _, single := board.SingleColor(); single {
			break
		}
		queue = next
		eventTime += float64(exploded)*explosionStagger + levelGap
	}
	return events
}

func repeatColor(color string, count int) []string {
	balls := make([]string, count)
	for i := range balls {
		balls[i] = color
	}
	return balls
}
