package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reaction-games/internal/engine"
)

func newRPSGame(t *testing.T, maxRounds int) *RockPaperScissors {
	t.Helper()
	cfg, ok := DefaultConfig(TypeRockPaperScissors)
	require.True(t, ok)
	cfg.MaxRounds = maxRounds
	g := NewRockPaperScissors(cfg).(*RockPaperScissors)
	_, err := g.InitializeGame([]string{"ada", "bob"}, "game-1")
	require.NoError(t, err)
	return g
}

func playRound(t *testing.T, g *RockPaperScissors, first, second string) bool {
	t.Helper()
	require.True(t, g.ProcessTurnAction("ada", first).Accepted)
	if !g.AdvanceTurn() {
		return false
	}
	require.True(t, g.ProcessTurnAction("bob", second).Accepted)
	return g.AdvanceTurn()
}

func TestRPSRockBeatsScissors(t *testing.T) {
	g := newRPSGame(t, 3)
	require.True(t, playRound(t, g, "rock", "scissors"))

	scores := g.data().Scores
	assert.Equal(t, 1.0, scores["ada"])
	assert.Equal(t, 0.0, scores["bob"])
}

func TestRPSDrawSplitsPoint(t *testing.T) {
	g := newRPSGame(t, 3)
	require.True(t, playRound(t, g, "rock", "rock"))

	scores := g.data().Scores
	assert.Equal(t, 0.5, scores["ada"])
	assert.Equal(t, 0.5, scores["bob"])
}

func TestRPSRejectsInvalidChoice(t *testing.T) {
	g := newRPSGame(t, 3)
	assert.False(t, g.ProcessTurnAction("ada", "lizard").Accepted)
	assert.False(t, g.ProcessTurnAction("ada", 3).Accepted)
	assert.False(t, g.ProcessTurnAction("bob", "rock").Accepted, "not bob's turn")
}

func TestRPSGameEndsAfterMaxRounds(t *testing.T) {
	g := newRPSGame(t, 2)
	require.True(t, playRound(t, g, "rock", "scissors"))
	assert.False(t, playRound(t, g, "paper", "rock"))

	assert.Equal(t, engine.StatusFinished, g.Game.Status)
	assert.Equal(t, "ada", g.Game.Winner, "ada won both rounds")
	assert.Equal(t, "ada", g.CalculateWinner())
}

func TestRPSWhoWins(t *testing.T) {
	cases := []struct {
		choice1, choice2 string
		want             int
	}{
		{"rock", "scissors", 1},
		{"paper", "rock", 1},
		{"scissors", "paper", 1},
		{"scissors", "rock", 2},
		{"rock", "paper", 2},
		{"paper", "scissors", 2},
		{"rock", "rock", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, whoWins(tc.choice1, tc.choice2), "%s vs %s", tc.choice1, tc.choice2)
	}
}

func TestRPSAutoPlayReturnsValidChoice(t *testing.T) {
	g := newRPSGame(t, 3)
	action := g.AutoPlay()
	choice, ok := action.(string)
	require.True(t, ok)
	assert.True(t, validRPSChoice(choice))
	assert.True(t, g.Game.CurrentTurn.AutoPlayed)
}
