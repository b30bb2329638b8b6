package games

import (
	"math/rand/v2"
	"time"

	"reaction-games/internal/engine"
)

var rpsChoices = []string{"rock", "paper", "scissors"}

// RockPaperScissors plays best-of-max_rounds: one round completes every time
// all players have taken a turn. Win scores 1, a draw scores 0.5 each.
type RockPaperScissors struct {
	engine.Base
}

type rpsData struct {
	Scores map[string]float64 `json:"scores"`
}

func NewRockPaperScissors(cfg engine.Config) engine.Engine {
	return &RockPaperScissors{Base: engine.Base{Cfg: cfg}}
}

func (g *RockPaperScissors) InitializeGame(players []string, gameID string) (*engine.GameState, error) {
	if len(players) == 0 {
		return nil, errNoPlayers
	}
	scores := make(map[string]float64, len(players))
	for _, p := range players {
		scores[p] = 0
	}
	g.Game = &engine.GameState{
		GameID:      gameID,
		GameType:    TypeRockPaperScissors,
		Status:      engine.StatusPlaying,
		Players:     engine.NewPlayers(players),
		GameData:    &rpsData{Scores: scores},
		CurrentTurn: engine.TurnState{StartTime: time.Now().UTC()},
	}
	return g.Game, nil
}

func (g *RockPaperScissors) data() *rpsData {
	if g.Game == nil {
		return nil
	}
	data, _ := g.Game.GameData.(*rpsData)
	return data
}

func (g *RockPaperScissors) maxTurns() int {
	return g.Cfg.MaxRounds * len(g.Game.Players)
}

func (g *RockPaperScissors) TurnData() map[string]any {
	if g.Game == nil {
		return map[string]any{}
	}
	return map[string]any{
		"type":           "rps_turn",
		"current_player": g.Game.CurrentPlayer().Username,
		"choices":        rpsChoices,
		"turn":           g.Game.CurrentTurn.Number,
		"max_turns":      g.maxTurns(),
		"turn_time":      g.Cfg.TurnTimeSeconds,
		"scores":         g.data().Scores,
	}
}

func (g *RockPaperScissors) ProcessTurnAction(player string, action any) engine.Outcome {
	if g.data() == nil {
		return engine.Rejected()
	}
	current := g.Game.CurrentPlayer()
	if current == nil || current.Username != player {
		return engine.Rejected()
	}
	choice, ok := action.(string)
	if !ok || !validRPSChoice(choice) {
		return engine.Rejected()
	}

	g.Game.CurrentTurn.PlayerAction = choice
	g.Game.History = append(g.Game.History, engine.TurnRecord{
		Turn:      g.Game.CurrentTurn.Number,
		Player:    player,
		Action:    choice,
		Timestamp: time.Now().UTC(),
	})
	return engine.Outcome{Accepted: true}
}

func (g *RockPaperScissors) AdvanceTurn() bool {
	if g.Game == nil {
		return false
	}
	count := len(g.Game.Players)
	turn := g.Game.CurrentTurn.Number

	// A round completes once every player has moved.
	if (turn+1)%count == 0 {
		g.completeRound(turn / count)
	}

	g.Game.CurrentTurn.Number++

	if g.Game.CurrentTurn.Number >= g.maxTurns() {
		g.Game.Status = engine.StatusFinished
		g.Game.Winner = g.CalculateWinner()
		return false
	}

	g.Game.CurrentTurn.CurrentPlayerIndex = (g.Game.CurrentTurn.CurrentPlayerIndex + 1) % count
	g.Game.CurrentTurn.StartTime = time.Now().UTC()
	g.Game.CurrentTurn.PlayerAction = nil
	g.Game.CurrentTurn.AutoPlayed = false
	return true
}

// completeRound scores the matchup between the first two moves of a round.
func (g *RockPaperScissors) completeRound(round int) {
	count := len(g.Game.Players)
	moves := make([]engine.TurnRecord, 0, count)
	for _, record := range g.Game.History {
		if record.Turn/count == round {
			moves = append(moves, record)
		}
	}
	if len(moves) < 2 {
		return
	}
	scores := g.data().Scores
	first, second := moves[0], moves[1]
	choice1, _ := first.Action.(string)
	choice2, _ := second.Action.(string)

	switch whoWins(choice1, choice2) {
	case 1:
		scores[first.Player]++
	case 2:
		scores[second.Player]++
	default:
		scores[first.Player] += 0.5
		scores[second.Player] += 0.5
	}
	// Mirror the score map into the roster records.
	for i := range g.Game.Players {
		g.Game.Players[i].Score = scores[g.Game.Players[i].Username]
	}
}

// whoWins returns 1 when choice1 beats choice2, 2 for the reverse, 0 on a
// draw.
func whoWins(choice1, choice2 string) int {
	if choice1 == choice2 {
		return 0
	}
	switch {
	case choice1 == "rock" && choice2 == "scissors",
		choice1 == "paper" && choice2 == "rock",
		choice1 == "scissors" && choice2 == "paper":
		return 1
	}
	return 2
}

func (g *RockPaperScissors) AutoPlay() any {
	if g.Game == nil {
		return nil
	}
	g.Game.CurrentTurn.AutoPlayed = true
	return rpsChoices[rand.IntN(len(rpsChoices))]
}

func (g *RockPaperScissors) CalculateWinner() string {
	data := g.data()
	if data == nil || len(data.Scores) == 0 {
		return ""
	}
	winner := ""
	best := -1.0
	// Roster order breaks ties deterministically.
	for _, player := range g.Game.Players {
		if score := data.Scores[player.Username]; score > best {
			best = score
			winner = player.Username
		}
	}
	return winner
}

func (g *RockPaperScissors) StatusInfo() map[string]any {
	if g.Game == nil {
		return map[string]any{}
	}
	scores := g.data().Scores
	players := make([]map[string]any, 0, len(g.Game.Players))
	for _, p := range g.Game.Players {
		players = append(players, map[string]any{
			"username": p.Username,
			"status":   p.Status,
			"score":    scores[p.Username],
		})
	}
	return map[string]any{
		"game_type":  TypeRockPaperScissors,
		"status":     g.Game.Status,
		"players":    players,
		"round":      g.Game.CurrentTurn.Number / len(g.Game.Players),
		"max_rounds": g.Cfg.MaxRounds,
		"winner":     g.Game.Winner,
	}
}

func (g *RockPaperScissors) TurnInfo() map[string]any {
	if g.Game == nil {
		return map[string]any{}
	}
	return map[string]any{
		"current_player": g.Game.CurrentPlayer().Username,
		"choices":        rpsChoices,
		"turn":           g.Game.CurrentTurn.Number + 1,
		"max_turns":      g.maxTurns(),
		"turn_time":      g.Cfg.TurnTimeSeconds,
		"scores":         g.data().Scores,
		"auto_played":    g.Game.CurrentTurn.AutoPlayed,
	}
}

func validRPSChoice(choice string) bool {
	for _, c := range rpsChoices {
		if c == choice {
			return true
		}
	}
	return false
}
