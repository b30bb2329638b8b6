package games

import (
	"fmt"
	"math/rand/v2"
	"time"

	"reaction-games/internal/engine"
)

var chainColors = []string{"red", "blue", "green", "yellow", "purple", "orange"}

// ChainReaction is the cascading-explosion board game. Players place balls of
// their color; a cell reaching critical mass explodes and captures its
// neighbors. The game is won when every ball on the board shares one color.
type ChainReaction struct {
	engine.Base
}

type chainMove struct {
	Player string `json:"player"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Turn   int    `json:"turn"`
}

type chainData struct {
	Board        Board             `json:"board"`
	PlayerColors map[string]string `json:"player_colors"`
	MoveHistory  []chainMove       `json:"move_history"`
	Round        int               `json:"round"`
}

func NewChainReaction(cfg engine.Config) engine.Engine {
	return &ChainReaction{Base: engine.Base{Cfg: cfg}}
}

func (g *ChainReaction) InitializeGame(players []string, gameID string) (*engine.GameState, error) {
	if len(players) == 0 {
		return nil, errNoPlayers
	}
	if len(players) > len(chainColors) {
		return nil, fmt.Errorf("chain reaction supports at most %d players", len(chainColors))
	}
	colors := make(map[string]string, len(players))
	for i, p := range players {
		colors[p] = chainColors[i]
	}
	g.Game = &engine.GameState{
		GameID:   gameID,
		GameType: TypeChainReaction,
		Status:   engine.StatusPlaying,
		Players:  engine.NewPlayers(players),
		GameData: &chainData{
			Board:        NewBoard(),
			PlayerColors: colors,
			MoveHistory:  []chainMove{},
		},
		CurrentTurn: engine.TurnState{StartTime: time.Now().UTC()},
	}
	return g.Game, nil
}

func (g *ChainReaction) data() *chainData {
	if g.Game == nil {
		return nil
	}
	data, _ := g.Game.GameData.(*chainData)
	return data
}

func (g *ChainReaction) TurnData() map[string]any {
	data := g.data()
	if data == nil {
		return map[string]any{}
	}
	return map[string]any{
		"type":           "chain_reaction_turn",
		"current_player": g.Game.CurrentPlayer().Username,
		"board":          data.Board,
		"player_colors":  data.PlayerColors,
		"turn":           g.Game.CurrentTurn.Number,
		"round":          data.Round,
		"max_turns":      g.Cfg.MaxRounds * len(g.Game.Players),
		"turn_time":      g.Cfg.TurnTimeSeconds,
	}
}

func (g *ChainReaction) ProcessTurnAction(player string, action any) engine.Outcome {
	data := g.data()
	if data == nil {
		return engine.Rejected()
	}
	current := g.Game.CurrentPlayer()
	if current == nil || current.Username != player {
		return engine.Rejected()
	}
	x, y, ok := parseCoords(action)
	if !ok || !inBounds(x, y) {
		return engine.Rejected()
	}

	cell := data.Board.At(x, y)
	color := data.PlayerColors[player]
	// A cell already held by another color is off limits.
	if len(cell.Balls) > 0 && cell.Balls[0] != color {
		return engine.Rejected()
	}

	cell.Balls = repeatColor(color, len(cell.Balls)+1)

	turn := g.Game.CurrentTurn.Number
	data.MoveHistory = append(data.MoveHistory, chainMove{Player: player, X: x, Y: y, Turn: turn})
	g.Game.CurrentTurn.PlayerAction = []int{x, y}
	g.Game.History = append(g.Game.History, engine.TurnRecord{
		Turn:      turn,
		Player:    player,
		Action:    []int{x, y},
		Timestamp: time.Now().UTC(),
	})

	events := []engine.Event{{
		Type:      engine.EventAddBall,
		X:         x,
		Y:         y,
		Color:     color,
		BallCount: len(cell.Balls),
	}}

	if len(cell.Balls) >= cell.CriticalMass {
		events = append(events, runCascade(data.Board, x, y)...)

		// A cascade can decide the game mid-turn. The opening round is
		// exempt so the first placement never wins on its own.
		if data.Round >= 1 {
			if _, single := data.Board.SingleColor(); single {
				g.Game.Status = engine.StatusFinished
				g.Game.Winner = g.determineWinner()
				events = append(events, engine.Event{
					Type:   engine.EventGameOver,
					Winner: g.Game.Winner,
				})
			}
		}
	}

	return engine.Outcome{Accepted: true, Events: events}
}

func (g *ChainReaction) AdvanceTurn() bool {
	data := g.data()
	if data == nil {
		return false
	}
	// A cascade may already have finished the game within the action.
	if g.Game.Status == engine.StatusFinished {
		return false
	}

	count := len(g.Game.Players)
	next := (g.Game.CurrentTurn.CurrentPlayerIndex + 1) % count
	g.Game.CurrentTurn.CurrentPlayerIndex = next

	// Wrapping back to player zero completes a round.
	if next == 0 {
		data.Round++
		if _, single := data.Board.SingleColor(); single {
			g.Game.Status = engine.StatusFinished
			g.Game.Winner = g.determineWinner()
			return false
		}
		if data.Round >= g.Cfg.MaxRounds {
			g.Game.Status = engine.StatusFinished
			g.Game.Winner = g.determineWinner()
			return false
		}
	}

	g.Game.CurrentTurn.Number++
	g.Game.CurrentTurn.StartTime = time.Now().UTC()
	g.Game.CurrentTurn.PlayerAction = nil
	g.Game.CurrentTurn.AutoPlayed = false
	return true
}

// determineWinner maps the dominant board color back to its player. An empty
// board has no winner.
func (g *ChainReaction) determineWinner() string {
	data := g.data()
	if data == nil {
		return ""
	}
	dominant := data.Board.dominantColor()
	if dominant == "" {
		return ""
	}
	for _, player := range g.Game.Players {
		if data.PlayerColors[player.Username] == dominant {
			return player.Username
		}
	}
	return ""
}

func (g *ChainReaction) AutoPlay() any {
	data := g.data()
	if data == nil {
		return nil
	}
	player := g.Game.CurrentPlayer()
	color := data.PlayerColors[player.Username]

	moves := make([][2]int, 0)
	for y := 0; y < BoardHeight; y++ {
		for x := 0; x < BoardWidth; x++ {
			cell := data.Board.At(x, y)
			if len(cell.Balls) == 0 || cell.Balls[0] == color {
				moves = append(moves, [2]int{x, y})
			}
		}
	}
	if len(moves) == 0 {
		return []int{0, 0}
	}
	g.Game.CurrentTurn.AutoPlayed = true
	pick := moves[rand.IntN(len(moves))]
	return []int{pick[0], pick[1]}
}

func (g *ChainReaction) CalculateWinner() string {
	if g.Game == nil {
		return ""
	}
	if g.Game.Winner != "" {
		return g.Game.Winner
	}
	return g.determineWinner()
}

func (g *ChainReaction) StatusInfo() map[string]any {
	data := g.data()
	if data == nil {
		return map[string]any{}
	}
	return map[string]any{
		"game_type":     TypeChainReaction,
		"status":        g.Game.Status,
		"winner":        g.Game.Winner,
		"round":         data.Round,
		"board":         data.Board,
		"player_colors": data.PlayerColors,
	}
}

func (g *ChainReaction) TurnInfo() map[string]any {
	if g.Game == nil {
		return map[string]any{}
	}
	return map[string]any{
		"turn_number":    g.Game.CurrentTurn.Number,
		"current_player": g.Game.CurrentPlayer().Username,
		"auto_played":    g.Game.CurrentTurn.AutoPlayed,
	}
}

// parseCoords accepts a JSON-decoded [x, y] pair. Slices arrive as []any of
// float64 from encoding/json; []int is accepted for direct callers.
func parseCoords(action any) (int, int, bool) {
	switch v := action.(type) {
	case []int:
		if len(v) != 2 {
			return 0, 0, false
		}
		return v[0], v[1], true
	case []any:
		if len(v) != 2 {
			return 0, 0, false
		}
		x, okX := asInt(v[0])
		y, okY := asInt(v[1])
		if !okX || !okY {
			return 0, 0, false
		}
		return x, y, true
	}
	return 0, 0, false
}
