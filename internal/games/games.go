// Package games holds the built-in game variants: number_picker,
// rock_paper_scissors and chain_reaction.
package games

import (
	"errors"

	"reaction-games/internal/engine"
)

const (
	TypeNumberPicker      = "number_picker"
	TypeRockPaperScissors = "rock_paper_scissors"
	TypeChainReaction     = "chain_reaction"
)

var errNoPlayers = errors.New("at least one player is required")

// RegisterAll wires every built-in variant into the registry.
func RegisterAll(reg *engine.Registry) {
	reg.Register(TypeNumberPicker, NewNumberPicker)
	reg.Register(TypeRockPaperScissors, NewRockPaperScissors)
	reg.Register(TypeChainReaction, NewChainReaction)
}

// DefaultConfig returns the stock configuration for a game type, or false
// when the type is unknown.
func DefaultConfig(gameType string) (engine.Config, bool) {
	switch gameType {
	case TypeNumberPicker:
		return engine.Config{
			GameType:        TypeNumberPicker,
			MinPlayers:      2,
			MaxPlayers:      6,
			TurnTimeSeconds: 10,
			MaxRounds:       5,
		}, true
	case TypeRockPaperScissors:
		return engine.Config{
			GameType:        TypeRockPaperScissors,
			MinPlayers:      2,
			MaxPlayers:      2,
			TurnTimeSeconds: 10,
			MaxRounds:       5,
		}, true
	case TypeChainReaction:
		// Longer turns and more rounds: placement is strategic.
		return engine.Config{
			GameType:        TypeChainReaction,
			MinPlayers:      2,
			MaxPlayers:      6,
			TurnTimeSeconds: 15,
			MaxRounds:       10,
		}, true
	}
	return engine.Config{}, false
}
