package engine

import "time"

type GameStatus string

const (
	StatusWaiting  GameStatus = "waiting"
	StatusPlaying  GameStatus = "playing"
	StatusFinished GameStatus = "finished"
	StatusPaused   GameStatus = "paused"
)

type PlayerStatus string

const (
	PlayerJoined       PlayerStatus = "joined"
	PlayerReady        PlayerStatus = "ready"
	PlayerPlaying      PlayerStatus = "playing"
	PlayerFinished     PlayerStatus = "finished"
	PlayerDisconnected PlayerStatus = "disconnected"
)

// Config describes one game instance. Immutable once the game is created.
type Config struct {
	GameType        string
	MinPlayers      int
	MaxPlayers      int
	TurnTimeSeconds int
	MaxRounds       int
	Custom          map[string]any
}

func (c Config) Validate() bool {
	return c.MinPlayers >= 1 &&
		c.MaxPlayers <= 1000 &&
		c.MinPlayers <= c.MaxPlayers &&
		c.TurnTimeSeconds > 0 &&
		c.MaxRounds > 0
}

type PlayerState struct {
	Username string         `json:"username"`
	Status   PlayerStatus   `json:"status"`
	Score    float64        `json:"score"`
	Stats    map[string]any `json:"stats,omitempty"`
}

// TurnState is the single live turn of a game. It is replaced, not
// appended, each time the game advances.
type TurnState struct {
	Number             int       `json:"turn_number"`
	CurrentPlayerIndex int       `json:"current_player_index"`
	StartTime          time.Time `json:"start_time"`
	PlayerAction       any       `json:"player_action,omitempty"`
	AutoPlayed         bool      `json:"auto_played"`
}

// TurnRecord is one entry in a game's append-only history.
type TurnRecord struct {
	Turn      int       `json:"turn"`
	Player    string    `json:"player"`
	Action    any       `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// GameState is owned exclusively by one Engine instance. The orchestrator
// never mutates it directly, only through engine calls.
type GameState struct {
	GameID      string        `json:"game_id"`
	GameType    string        `json:"game_type"`
	Status      GameStatus    `json:"status"`
	Players     []PlayerState `json:"players"`
	CurrentTurn TurnState     `json:"current_turn"`
	GameData    any           `json:"game_data,omitempty"`
	History     []TurnRecord  `json:"history"`
	Winner      string        `json:"winner,omitempty"`
}

// CurrentPlayer returns the player whose turn it is.
func (g *GameState) CurrentPlayer() *PlayerState {
	if g == nil || len(g.Players) == 0 {
		return nil
	}
	index := g.CurrentTurn.CurrentPlayerIndex
	if index < 0 || index >= len(g.Players) {
		return nil
	}
	return &g.Players[index]
}

func (g *GameState) FindPlayer(username string) *PlayerState {
	if g == nil {
		return nil
	}
	for i := range g.Players {
		if g.Players[i].Username == username {
			return &g.Players[i]
		}
	}
	return nil
}

func NewPlayers(usernames []string) []PlayerState {
	players := make([]PlayerState, 0, len(usernames))
	for _, name := range usernames {
		players = append(players, PlayerState{Username: name, Status: PlayerJoined})
	}
	return players
}

// Event is one atomic board change produced by a move. FromX/FromY are only
// meaningful for spread events. Time is a presentation pacing hint in
// seconds; the authoritative order is the slice order.
type Event struct {
	Type      string  `json:"type"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	FromX     int     `json:"from_x"`
	FromY     int     `json:"from_y"`
	Color     string  `json:"color,omitempty"`
	BallCount int     `json:"ball_count,omitempty"`
	Time      float64 `json:"time"`
	Winner    string  `json:"winner,omitempty"`
}

const (
	EventAddBall   = "add_ball"
	EventExplosion = "explosion"
	EventSpread    = "spread"
	EventGameOver  = "game_over"
)

// Outcome is the result of processing one turn action. A rejected outcome
// means no state was mutated.
type Outcome struct {
	Accepted bool    `json:"accepted"`
	Events   []Event `json:"events,omitempty"`
}

func Rejected() Outcome {
	return Outcome{}
}
