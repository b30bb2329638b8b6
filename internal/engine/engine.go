package engine

// Engine is the contract every turn-based game variant implements. One
// instance drives exactly one game at a time; InitializeGame may be called
// again on the same instance to restart with a possibly-changed player list.
type Engine interface {
	// InitializeGame builds a fresh GameState with status playing and the
	// turn counter at zero. Re-initializing discards any previous game.
	InitializeGame(players []string, gameID string) (*GameState, error)

	// State returns the live game state, or nil before initialization.
	State() *GameState

	// TurnData returns everything a client needs to render the current
	// decision point. Repeated calls within one turn are idempotent:
	// variants that roll per-turn randomness memoize it by turn number.
	TurnData() map[string]any

	// ProcessTurnAction applies the current player's action. It rejects,
	// mutating nothing, when it is not the caller's turn, the action is
	// malformed, or the move is illegal for the variant. Variants whose
	// actions cascade may finish the game directly from here.
	ProcessTurnAction(player string, action any) Outcome

	// AdvanceTurn moves to the next player and round. It returns false
	// exactly when the game has ended, with Status and Winner already set.
	AdvanceTurn() bool

	// AutoPlay produces a legal action for the current player without
	// their input, used when the turn deadline expires.
	AutoPlay() any

	// CalculateWinner derives the winner from terminal game data. After
	// termination it agrees with GameState.Winner.
	CalculateWinner() string

	// StatusInfo and TurnInfo are side-effect-free projections for
	// broadcast.
	StatusInfo() map[string]any
	TurnInfo() map[string]any

	CanStart() bool
	HandleDisconnect(player string)
	HandleReconnect(player string)
	Config() Config
}

// Base carries the config and game state shared by all variants and the
// default connectivity hooks. Variants embed it and override as needed.
type Base struct {
	Cfg  Config
	Game *GameState
}

func (b *Base) State() *GameState {
	return b.Game
}

func (b *Base) Config() Config {
	return b.Cfg
}

func (b *Base) CanStart() bool {
	if b.Game == nil {
		return false
	}
	count := len(b.Game.Players)
	return count >= b.Cfg.MinPlayers && count <= b.Cfg.MaxPlayers
}

// HandleDisconnect flips the player's status. Disconnected players stay in
// the roster and can still time out into auto-play.
func (b *Base) HandleDisconnect(player string) {
	if p := b.Game.FindPlayer(player); p != nil {
		p.Status = PlayerDisconnected
	}
}

func (b *Base) HandleReconnect(player string) {
	if p := b.Game.FindPlayer(player); p != nil {
		p.Status = PlayerPlaying
	}
}
