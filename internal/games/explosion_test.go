package games

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reaction-games/internal/engine"
)

func fillCell(b Board, x, y int, color string, count int) {
	b.At(x, y).Balls = repeatColor(color, count)
}

func eventTypes(events []engine.Event) []string {
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func countExplosions(events []engine.Event) int {
	n := 0
	for _, e := range events {
		if e.Type == engine.EventExplosion {
			n++
		}
	}
	return n
}

func TestBoardCriticalMass(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, 2, b.At(0, 0).CriticalMass, "corner")
	assert.Equal(t, 2, b.At(BoardWidth-1, BoardHeight-1).CriticalMass, "corner")
	assert.Equal(t, 3, b.At(0, 5).CriticalMass, "edge")
	assert.Equal(t, 3, b.At(3, 0).CriticalMass, "edge")
	assert.Equal(t, 4, b.At(2, 5).CriticalMass, "interior")
}

func TestCornerExplosionSpreadsToBothNeighbors(t *testing.T) {
	b := NewBoard()
	fillCell(b, 0, 0, "red", 2)
	fillCell(b, 5, 9, "blue", 1)

	events := runCascade(b, 0, 0)

	require.Equal(t, []string{engine.EventExplosion, engine.EventSpread, engine.EventSpread}, eventTypes(events))
	assert.Equal(t, 2, events[0].BallCount)
	assert.Equal(t, "red", events[0].Color)

	assert.Empty(t, b.At(0, 0).Balls)
	assert.Equal(t, []string{"red"}, b.At(1, 0).Balls)
	assert.Equal(t, []string{"red"}, b.At(0, 1).Balls)
	// A corner explosion is net zero: two balls out, one per neighbor in.
	assert.Equal(t, 3, b.TotalBalls())
}

func TestCascadeCapturesNeighborStacks(t *testing.T) {
	b := NewBoard()
	fillCell(b, 0, 0, "red", 2)
	fillCell(b, 0, 1, "blue", 2) // edge cell, critical mass 3
	fillCell(b, 5, 9, "blue", 1)

	events := runCascade(b, 0, 0)

	// The corner explosion tips (0,1) over its critical mass, so a second
	// level explodes it with the captured red color.
	require.Equal(t, []string{
		engine.EventExplosion, engine.EventSpread, engine.EventSpread,
		engine.EventExplosion, engine.EventSpread, engine.EventSpread, engine.EventSpread,
	}, eventTypes(events))
	assert.Equal(t, "red", events[3].Color, "captured stack explodes with the capturing color")
	assert.Equal(t, 3, events[3].BallCount)

	assert.Empty(t, b.At(0, 1).Balls)
	assert.Equal(t, 5, b.TotalBalls())
	counts := b.ColorCounts()
	assert.Equal(t, 1, counts["blue"], "capture overwrote the stack at (0,1)")
}

func TestCascadeEventTimesAreMonotonicHints(t *testing.T) {
	b := NewBoard()
	fillCell(b, 0, 0, "red", 2)
	fillCell(b, 0, 1, "blue", 2)
	fillCell(b, 5, 9, "blue", 1)

	events := runCascade(b, 0, 0)
	require.NotEmpty(t, events)
	assert.Equal(t, 0.0, events[0].Time)
	// Spread trails its explosion by the fixed offset; the next level
	// starts strictly later.
	assert.Equal(t, events[0].Time+spreadDelay, events[1].Time)
	assert.Greater(t, events[3].Time, events[0].Time)
}

func TestCascadeReChecksDoublyEnqueuedCell(t *testing.T) {
	b := NewBoard()
	// (1,0) and (0,1) explode in the same level and both spread into
	// (1,1), enqueueing it twice. It must explode exactly once; the
	// second entry sees an emptied cell and is skipped.
	fillCell(b, 0, 0, "red", 2)
	fillCell(b, 1, 0, "red", 2)
	fillCell(b, 0, 1, "red", 2)
	fillCell(b, 1, 1, "blue", 3)
	fillCell(b, 5, 9, "blue", 1)

	events := runCascade(b, 0, 0)

	centerExplosions := 0
	for _, e := range events {
		if e.Type == engine.EventExplosion && e.X == 1 && e.Y == 1 {
			centerExplosions++
		}
	}
	assert.Equal(t, 1, centerExplosions)
	assert.Equal(t, 5, countExplosions(events))

	// (1,1) exploded holding five balls into four neighbors: net -1.
	assert.Equal(t, 9, b.TotalBalls())
}

func TestCascadeTerminatesOnSaturatedBoard(t *testing.T) {
	b := NewBoard()
	for y := 0; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			fillCell(b, x, y, "red", b.At(x, y).CriticalMass-1)
		}
	}
	fillCell(b, 0, 0, "red", 2)

	done := make(chan struct{})
	go func() {
		runCascade(b, 0, 0)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("cascade did not terminate on a single-colored board")
	}
}

func TestCascadeStopsOnceBoardIsDecided(t *testing.T) {
	b := NewBoard()
	fillCell(b, 0, 0, "red", 2)
	fillCell(b, 0, 1, "blue", 2)

	events := runCascade(b, 0, 0)

	// After the first level the whole board is red; exploding further
	// cannot change the outcome and may never settle.
	assert.Equal(t, 1, countExplosions(events))
	color, single := b.SingleColor()
	assert.True(t, single)
	assert.Equal(t, "red", color)
}

func TestSingleColorDetection(t *testing.T) {
	b := NewBoard()
	_, single := b.SingleColor()
	assert.False(t, single, "empty board has no winning color")

	fillCell(b, 2, 3, "red", 2)
	fillCell(b, 4, 7, "red", 3)
	color, single := b.SingleColor()
	assert.True(t, single)
	assert.Equal(t, "red", color)

	fillCell(b, 1, 1, "blue", 1)
	_, single = b.SingleColor()
	assert.False(t, single)
}
