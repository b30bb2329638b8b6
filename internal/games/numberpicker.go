package games

import (
	"math"
	"math/rand/v2"
	"time"

	"reaction-games/internal/engine"
)

const (
	pickerOptionCount = 5
	pickerMin         = -100
	pickerMax         = 100
)

// NumberPicker offers five random numbers each turn; after max_rounds turns
// the winner index is abs(sum of selections) modulo the player count.
type NumberPicker struct {
	engine.Base
}

type pickerChoices struct {
	Turn    int   `json:"turn"`
	Options []int `json:"options"`
}

type pickerData struct {
	Choices    []pickerChoices `json:"choices"`
	Selections map[string]int  `json:"player_selections"`
	TotalSum   int             `json:"total_sum"`
}

func NewNumberPicker(cfg engine.Config) engine.Engine {
	return &NumberPicker{Base: engine.Base{Cfg: cfg}}
}

func (g *NumberPicker) InitializeGame(players []string, gameID string) (*engine.GameState, error) {
	if len(players) == 0 {
		return nil, errNoPlayers
	}
	g.Game = &engine.GameState{
		GameID:   gameID,
		GameType: TypeNumberPicker,
		Status:   engine.StatusPlaying,
		Players:  engine.NewPlayers(players),
		GameData: &pickerData{
			Selections: make(map[string]int),
		},
		CurrentTurn: engine.TurnState{StartTime: time.Now().UTC()},
	}
	return g.Game, nil
}

func (g *NumberPicker) data() *pickerData {
	if g.Game == nil {
		return nil
	}
	data, _ := g.Game.GameData.(*pickerData)
	return data
}

// currentOptions returns the memoized options for the live turn, generating
// them on first use so repeated TurnData calls see the same set.
func (g *NumberPicker) currentOptions() []int {
	data := g.data()
	if data == nil {
		return nil
	}
	turn := g.Game.CurrentTurn.Number
	if len(data.Choices) == 0 || data.Choices[len(data.Choices)-1].Turn != turn {
		options := make([]int, pickerOptionCount)
		for i := range options {
			options[i] = pickerMin + rand.IntN(pickerMax-pickerMin+1)
		}
		data.Choices = append(data.Choices, pickerChoices{Turn: turn, Options: options})
	}
	return data.Choices[len(data.Choices)-1].Options
}

func (g *NumberPicker) TurnData() map[string]any {
	if g.Game == nil {
		return map[string]any{}
	}
	options := g.currentOptions()
	current := g.Game.CurrentPlayer()
	return map[string]any{
		"type":           "number_picker_turn",
		"current_player": current.Username,
		"choices":        options,
		"turn":           g.Game.CurrentTurn.Number,
		"max_turns":      g.Cfg.MaxRounds,
		"turn_time":      g.Cfg.TurnTimeSeconds,
	}
}

func (g *NumberPicker) ProcessTurnAction(player string, action any) engine.Outcome {
	data := g.data()
	if data == nil {
		return engine.Rejected()
	}
	current := g.Game.CurrentPlayer()
	if current == nil || current.Username != player {
		return engine.Rejected()
	}
	value, ok := asInt(action)
	if !ok {
		return engine.Rejected()
	}
	options := g.currentOptions()
	if !containsInt(options, value) {
		return engine.Rejected()
	}

	data.Selections[player] = value
	g.Game.CurrentTurn.PlayerAction = value
	g.Game.History = append(g.Game.History, engine.TurnRecord{
		Turn:      g.Game.CurrentTurn.Number,
		Player:    player,
		Action:    value,
		Timestamp: time.Now().UTC(),
	})
	return engine.Outcome{Accepted: true}
}

func (g *NumberPicker) AdvanceTurn() bool {
	if g.Game == nil {
		return false
	}
	g.Game.CurrentTurn.Number++

	if g.Game.CurrentTurn.Number >= g.Cfg.MaxRounds {
		g.Game.Status = engine.StatusFinished
		g.Game.Winner = g.CalculateWinner()
		return false
	}

	count := len(g.Game.Players)
	g.Game.CurrentTurn.CurrentPlayerIndex = (g.Game.CurrentTurn.CurrentPlayerIndex + 1) % count
	g.Game.CurrentTurn.StartTime = time.Now().UTC()
	g.Game.CurrentTurn.PlayerAction = nil
	g.Game.CurrentTurn.AutoPlayed = false
	return true
}

func (g *NumberPicker) AutoPlay() any {
	options := g.currentOptions()
	if len(options) == 0 {
		return nil
	}
	g.Game.CurrentTurn.AutoPlayed = true
	return options[rand.IntN(len(options))]
}

func (g *NumberPicker) CalculateWinner() string {
	data := g.data()
	if data == nil {
		return ""
	}
	total := 0
	for _, player := range g.Game.Players {
		total += data.Selections[player.Username]
	}
	data.TotalSum = total

	winnerIndex := int(math.Abs(float64(total))) % len(g.Game.Players)
	return g.Game.Players[winnerIndex].Username
}

func (g *NumberPicker) StatusInfo() map[string]any {
	if g.Game == nil {
		return map[string]any{}
	}
	players := make([]map[string]any, 0, len(g.Game.Players))
	for _, p := range g.Game.Players {
		players = append(players, map[string]any{
			"username": p.Username,
			"status":   p.Status,
			"score":    p.Score,
		})
	}
	return map[string]any{
		"game_type":    TypeNumberPicker,
		"status":       g.Game.Status,
		"players":      players,
		"current_turn": g.Game.CurrentTurn.Number,
		"max_turns":    g.Cfg.MaxRounds,
		"winner":       g.Game.Winner,
	}
}

func (g *NumberPicker) TurnInfo() map[string]any {
	if g.Game == nil {
		return map[string]any{}
	}
	data := g.data()
	options := []int{}
	if len(data.Choices) > 0 {
		options = data.Choices[len(data.Choices)-1].Options
	}
	return map[string]any{
		"current_player": g.Game.CurrentPlayer().Username,
		"choices":        options,
		"turn":           g.Game.CurrentTurn.Number + 1,
		"max_turns":      g.Cfg.MaxRounds,
		"turn_time":      g.Cfg.TurnTimeSeconds,
		"auto_played":    g.Game.CurrentTurn.AutoPlayed,
	}
}

// asInt coerces a JSON-decoded action into an int. Numbers arrive as
// float64 from encoding/json; fractional values are rejected.
func asInt(action any) (int, bool) {
	switch v := action.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}

func containsInt(values []int, target int) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
